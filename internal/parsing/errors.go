package parsing

import "fmt"

// ParseError means the model text could not be read as a JSON object at all.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ValidationError names the output field that is missing or has the wrong type.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("AI output field %s %s", e.Field, e.Message)
	}
	return e.Message
}
