// Package str provides the string conversions used to derive environment
// variable names from struct field names.
package str

import "strings"

// ToScreamingSnakeCase converts the input to SCREAMING_SNAKE_CASE: an
// underscore is inserted before every uppercase letter and digit, and
// existing '-' and '_' separators are normalized to single underscores.
func ToScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)
	if len(in) == 0 {
		return in
	}

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3)

	for i, b := range []byte(in) {
		write := true
		separate := false

		switch {
		case 'a' <= b && b <= 'z':
			b -= 'a' - 'A'
		case 'A' <= b && b <= 'Z':
			separate = true
		case b == '_' || b == '-':
			write = false
			separate = true
		case '0' <= b && b <= '9':
			separate = true
		}

		if i > 0 && separate {
			sb.WriteByte('_')
		}
		if write {
			sb.WriteByte(b)
		}
	}

	return sb.String()
}
