package bundle

import (
	"fmt"

	"github.com/vk/nvimbundle/internal/payload"
)

// Expand flattens nested declarations depth-first, pre-order, keeping
// duplicates:
//
//   - a bare reference or eager plugin expands to itself;
//   - a configured lazy plugin expands to itself, then its dependencies;
//   - a group expands to itself, then its members, then its dependencies.
//
// A declaration reached again while still being expanded is a *CycleError.
func Expand(decls []payload.Declaration) ([]payload.Declaration, error) {
	e := expander{active: make(map[payload.Declaration]bool)}
	for _, d := range decls {
		if err := e.visit(d); err != nil {
			return nil, err
		}
	}
	return e.out, nil
}

type expander struct {
	out    []payload.Declaration
	path   []string
	active map[payload.Declaration]bool
}

func (e *expander) visit(d payload.Declaration) error {
	e.out = append(e.out, d)

	var children [][]payload.Declaration
	switch d := d.(type) {
	case payload.PluginRef, *payload.EagerPlugin:
		return nil
	case *payload.LazyPlugin:
		children = [][]payload.Declaration{d.DependPlugins}
	case *payload.LazyGroup:
		children = [][]payload.Declaration{d.Plugins, d.DependPlugins}
	default:
		return fmt.Errorf("unexpected declaration type %T", d)
	}

	e.path = append(e.path, DeclarationName(d))
	if e.active[d] {
		return &CycleError{Path: append([]string{}, e.path...)}
	}
	e.active[d] = true
	for _, list := range children {
		for _, child := range list {
			if err := e.visit(child); err != nil {
				return err
			}
		}
	}
	delete(e.active, d)
	e.path = e.path[:len(e.path)-1]
	return nil
}

// DeclarationName is the package reference of a plugin declaration or the
// name of a group.
func DeclarationName(d payload.Declaration) string {
	switch d := d.(type) {
	case payload.PluginRef:
		return d.Package
	case *payload.LazyPlugin:
		return d.Package
	case *payload.EagerPlugin:
		return d.Package
	case *payload.LazyGroup:
		return d.Name
	}
	return fmt.Sprintf("%T", d)
}
