package questiongen

import "fmt"

// ErrInvalidSchema is a configuration error: the Schema cannot describe a
// valid record. It is returned before any generation call.
type ErrInvalidSchema struct {
	Schema Schema
	Reason string
}

func (e *ErrInvalidSchema) Error() string {
	return fmt.Sprintf("invalid schema %s: %s", e.Schema, e.Reason)
}

// ErrInvalidRequest is a configuration error in the generation parameters.
type ErrInvalidRequest struct {
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	return "invalid request: " + e.Reason
}
