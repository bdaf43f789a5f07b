package bundle

import (
	"fmt"

	"github.com/vk/nvimbundle/internal/identity"
	"github.com/vk/nvimbundle/internal/multimap"
	"github.com/vk/nvimbundle/internal/payload"
	"github.com/vk/nvimbundle/internal/snippet"
)

// Unpack resolves one declaration into its component. Config blocks are
// synthesized, and list fields are stored as sorted sets so that two
// declarations listing the same things in another order are equal.
func Unpack(r *identity.Resolver, d payload.Declaration) (Component, error) {
	switch d := d.(type) {
	case payload.PluginRef:
		id, err := r.Resolve(d.Package)
		if err != nil {
			return nil, err
		}
		return &LazyComponent{ID: id}, nil

	case *payload.EagerPlugin:
		id, err := r.Resolve(d.Package)
		if err != nil {
			return nil, err
		}
		return &EagerComponent{ID: id, StartupConfig: snippet.Synthesize(d.StartupConfig)}, nil

	case *payload.LazyPlugin:
		id, err := r.Resolve(d.Package)
		if err != nil {
			return nil, err
		}
		deps, err := resolveDeclarations(r, d.DependPlugins)
		if err != nil {
			return nil, fmt.Errorf("dependencies of %q: %w", id, err)
		}
		return &LazyComponent{
			ID:            id,
			StartupConfig: snippet.Synthesize(d.StartupConfig),
			PreConfig:     snippet.Synthesize(d.PreConfig),
			PostConfig:    snippet.Synthesize(d.PostConfig),
			DependPlugins: canonical(deps),
			DependGroups:  canonical(d.DependGroups),
			OnModules:     canonical(d.OnModules),
			OnEvents:      canonical(d.OnEvents),
			OnFiletypes:   canonical(d.OnFiletypes),
			OnCommands:    canonical(d.OnCommands),
			UseTimer:      d.UseTimer,
			UseDenops:     d.UseDenops,
		}, nil

	case *payload.LazyGroup:
		members, err := resolveDeclarations(r, d.Plugins)
		if err != nil {
			return nil, fmt.Errorf("members of group %q: %w", d.Name, err)
		}
		deps, err := resolveDeclarations(r, d.DependPlugins)
		if err != nil {
			return nil, fmt.Errorf("dependencies of group %q: %w", d.Name, err)
		}
		return &GroupComponent{
			ID:            d.Name,
			Plugins:       canonical(members),
			StartupConfig: snippet.Synthesize(d.StartupConfig),
			PreConfig:     snippet.Synthesize(d.PreConfig),
			PostConfig:    snippet.Synthesize(d.PostConfig),
			DependPlugins: canonical(deps),
			DependGroups:  canonical(d.DependGroups),
			OnModules:     canonical(d.OnModules),
			OnEvents:      canonical(d.OnEvents),
			OnFiletypes:   canonical(d.OnFiletypes),
			OnCommands:    canonical(d.OnCommands),
			UseTimer:      d.UseTimer,
		}, nil
	}
	return nil, fmt.Errorf("unexpected declaration type %T", d)
}

// UnpackAll unpacks decls in order.
func UnpackAll(r *identity.Resolver, decls []payload.Declaration) ([]Component, error) {
	out := make([]Component, 0, len(decls))
	for _, d := range decls {
		c, err := Unpack(r, d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// resolveDeclarations returns the plugin ids of the direct plugin
// declarations in decls, without descending into them.
func resolveDeclarations(r *identity.Resolver, decls []payload.Declaration) ([]string, error) {
	refs := make([]string, 0, len(decls))
	for _, d := range decls {
		switch d := d.(type) {
		case payload.PluginRef:
			refs = append(refs, d.Package)
		case *payload.LazyPlugin:
			refs = append(refs, d.Package)
		default:
			return nil, fmt.Errorf("%T cannot be used as a plugin dependency", d)
		}
	}
	return r.ResolveAll(refs)
}

func canonical(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	return multimap.SortedSet(vals)
}
