// Package identity maps opaque package references to the stable plugin ids
// used everywhere in the emitted bundle.
package identity

import (
	"fmt"

	"github.com/vk/nvimbundle/internal/payload"
)

// UnregisteredError is returned when a declaration names a package that is
// missing from the identity table. It means the payload producer and the
// declarations disagree, so the run cannot continue.
type UnregisteredError struct {
	Package string
}

func (e *UnregisteredError) Error() string {
	return fmt.Sprintf("unregistered package reference %q", e.Package)
}

// Resolver is a read-only bijection between package references and plugin
// ids. It is safe for concurrent use once built.
type Resolver struct {
	byPackage map[string]string
	byID      map[string]string
}

// New builds a Resolver from the identity table. Repeated identical entries
// are fine; a reference or an id bound twice to different partners makes the
// table ambiguous and is rejected.
func New(entries []payload.IDMapEntry) (*Resolver, error) {
	r := &Resolver{
		byPackage: make(map[string]string, len(entries)),
		byID:      make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Package == "" || e.PluginID == "" {
			return nil, fmt.Errorf("identity table entry %+v: package and plugin id must not be empty", e)
		}
		prev, ok := r.byPackage[e.Package]
		if ok && prev == e.PluginID {
			continue
		}
		if ok {
			return nil, fmt.Errorf("package %q is mapped to both %q and %q", e.Package, prev, e.PluginID)
		}
		if prev, ok := r.byID[e.PluginID]; ok {
			return nil, fmt.Errorf("plugin id %q is claimed by both %q and %q", e.PluginID, prev, e.Package)
		}
		r.byPackage[e.Package] = e.PluginID
		r.byID[e.PluginID] = e.Package
	}
	return r, nil
}

// Resolve returns the plugin id for ref or an *UnregisteredError.
func (r *Resolver) Resolve(ref string) (string, error) {
	id, ok := r.byPackage[ref]
	if !ok {
		return "", &UnregisteredError{Package: ref}
	}
	return id, nil
}

// ResolveAll resolves refs in order.
func (r *Resolver) ResolveAll(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Package returns the package reference behind a plugin id.
func (r *Resolver) Package(id string) (string, bool) {
	ref, ok := r.byID[id]
	return ref, ok
}

// Len returns the number of registered plugins.
func (r *Resolver) Len() int {
	return len(r.byPackage)
}
