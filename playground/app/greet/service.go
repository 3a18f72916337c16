package greet

import "fmt"

// Service builds greeting messages.
type Service struct {
	Greeting string
}

func NewService(greeting string) *Service {
	return &Service{Greeting: greeting}
}

func (s *Service) Greet(name string) string {
	return fmt.Sprintf("%s, %s!", s.Greeting, name)
}
