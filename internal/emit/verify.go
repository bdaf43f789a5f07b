package emit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/gopher-lua/parse"
)

// Verify parses every Lua artifact and returns all syntax errors joined.
func Verify(artifacts []Artifact) error {
	var errs []error
	for _, a := range artifacts {
		if !a.Lua {
			continue
		}
		if _, err := parse.Parse(strings.NewReader(a.Content), a.Path); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Path, err))
		}
	}
	return errors.Join(errs...)
}
