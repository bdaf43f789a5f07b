package bundle

import (
	"slices"
	"strings"
)

// Combine folds two definitions of the same id. When both are modified and
// differ it returns a *ConflictError; otherwise it keeps the modified one.
// Between equal definitions an eager plugin is kept over a lazy one, else
// the later one. a may be nil, meaning "no definition yet".
func Combine(a, b Component) (Component, error) {
	if a == nil {
		return b, nil
	}
	aMod, bMod := IsModified(a), IsModified(b)
	switch {
	case aMod && bMod:
		if !Equal(a, b) {
			return nil, &ConflictError{ID: b.ComponentID(), Existing: a, Incoming: b}
		}
		return preferred(b, a), nil
	case aMod:
		return a, nil
	case bMod:
		return b, nil
	default:
		return preferred(b, a), nil
	}
}

// preferred returns x unless y is eager and x is not.
func preferred(x, y Component) Component {
	_, xEager := x.(*EagerComponent)
	_, yEager := y.(*EagerComponent)
	if yEager && !xEager {
		return y
	}
	return x
}

// Merge collapses components to one per id, sorted by id.
func Merge(components []Component) ([]Component, error) {
	merged := make(map[string]Component)
	for _, c := range components {
		next, err := Combine(merged[c.ComponentID()], c)
		if err != nil {
			return nil, err
		}
		merged[c.ComponentID()] = next
	}

	out := make([]Component, 0, len(merged))
	for _, c := range merged {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Component) int {
		return strings.Compare(a.ComponentID(), b.ComponentID())
	})
	return out, nil
}
