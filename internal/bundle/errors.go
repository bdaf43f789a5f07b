package bundle

import (
	"fmt"
	"strings"
)

// ConflictError is returned by Merge when two definitions of the same id
// both configure something and disagree.
type ConflictError struct {
	ID       string
	Existing Component
	Incoming Component
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting definitions for %q:\n  %s\n  %s", e.ID, describe(e.Existing), describe(e.Incoming))
}

func describe(c Component) string {
	return fmt.Sprintf("%s %+v", Kind(c), c)
}

// CycleError is returned by Expand when a declaration is reached again while
// it is still being expanded.
type CycleError struct {
	// Path lists the declarations from the outermost one to the repeated one.
	Path []string
}

func (e *CycleError) Error() string {
	return "declaration cycle: " + strings.Join(e.Path, " -> ")
}
