package payload

import (
	"context"
	"fmt"
)

// Loader is the interface for a format-specific payload loader.
type Loader interface {
	// Load reads the document at path, validates it and translates it into
	// the format-agnostic model.
	Load(ctx context.Context, path string) (*Payload, error)
}

// MalformedError reports an input document that could not be turned into a
// Payload. Location is format specific: a JSON pointer, a byte offset or an
// HCL source range.
type MalformedError struct {
	Path     string
	Location string
	Err      error
}

func (e *MalformedError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("malformed payload %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed payload %s at %s: %v", e.Path, e.Location, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
