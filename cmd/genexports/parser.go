package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Annotation is the parsed form of a doc comment carrying an annotation tag,
// such as:
//
//	// NewServer builds the HTTP server.
//	//
//	// @export named="server" singleton=true
type Annotation struct {
	logger      *zerolog.Logger
	description string
	properties  map[string]string
}

func (a Annotation) Named() string {
	return a.properties["named"]
}

func (a Annotation) Singleton() bool {
	raw, found := a.properties["singleton"]
	if !found {
		return false
	}
	singleton, err := strconv.ParseBool(raw)
	if err != nil {
		a.logger.Warn().Msgf("error parsing singleton property: %s, skipping it", raw)
		return false
	}
	return singleton
}

// parseAnnotation splits a doc comment into the annotation line for the given
// tag and the free-form description around it.
func parseAnnotation(logger *zerolog.Logger, docText string, tag string) Annotation {
	lines := strings.Split(docText, "\n")

	var descriptionLines []string
	var annotationLine string

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, tag) {
			annotationLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	return Annotation{
		logger:      logger,
		description: strings.TrimSpace(strings.Join(descriptionLines, "\n")),
		properties:  parseProperties(annotationLine, tag),
	}
}

// propertyRe matches key=value or key="value" pairs.
var propertyRe = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|(\w+))`)

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	content := strings.TrimSpace(strings.TrimPrefix(line, tag))
	if content == "" {
		return properties
	}

	for _, match := range propertyRe.FindAllStringSubmatch(content, -1) {
		key := match[1]
		// match[2] is the quoted value, match[3] the unquoted one
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[key] = value
	}

	return properties
}
