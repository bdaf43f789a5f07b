package bundle

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/vk/nvimbundle/internal/ctxlog"
	"github.com/vk/nvimbundle/internal/dag"
	"github.com/vk/nvimbundle/internal/identity"
	"github.com/vk/nvimbundle/internal/payload"
)

// Bundle is the compiled, immutable result of one run.
type Bundle struct {
	// Components holds one merged component per id, sorted by id.
	Components []Component
	Plan       LoadPlan
	// StartupIDs lists the components with a startup config, sorted.
	StartupIDs []string
	// PluginPaths maps every plugin id to its package reference.
	PluginPaths map[string]string
	// After holds the after/ hooks sorted by category and key.
	After []payload.AfterHook
	Info  payload.Info
}

// Options tunes Build.
type Options struct {
	// StrictCycles turns a dependency cycle between components into an error
	// instead of a warning.
	StrictCycles bool
}

// Build compiles a payload into a Bundle.
func Build(ctx context.Context, p *payload.Payload, opts Options) (*Bundle, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting bundle compilation.",
		"eager", len(p.EagerPlugins), "lazy", len(p.LazyPlugins), "groups", len(p.LazyGroups))

	resolver, err := identity.New(p.IDMap)
	if err != nil {
		return nil, fmt.Errorf("invalid identity table: %w", err)
	}
	logger.Debug("Build: Identity table loaded.", "plugins", resolver.Len())

	decls := make([]payload.Declaration, 0, len(p.EagerPlugins)+len(p.LazyPlugins)+len(p.LazyGroups))
	for _, e := range p.EagerPlugins {
		decls = append(decls, e)
	}
	decls = append(decls, p.LazyPlugins...)
	for _, g := range p.LazyGroups {
		decls = append(decls, g)
	}

	expanded, err := Expand(decls)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Expansion complete.", "declarations", len(expanded))

	raw, err := UnpackAll(resolver, expanded)
	if err != nil {
		return nil, err
	}

	plan, err := Aggregate(resolver, decls)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Load plan aggregated.", "components", plan.Dependencies.Len())

	components, err := Merge(raw)
	if err != nil {
		return nil, err
	}
	logger.Debug("Build: Components merged.", "raw", len(raw), "merged", len(components))

	b := &Bundle{
		Components:  components,
		Plan:        Dedup(plan),
		PluginPaths: make(map[string]string),
		After:       sortedHooks(p.After),
		Info:        p.Info,
	}
	for _, c := range components {
		if Startup(c) != "" {
			b.StartupIDs = append(b.StartupIDs, c.ComponentID())
		}
		if c.IsPlugin() {
			ref, _ := resolver.Package(c.ComponentID())
			b.PluginPaths[c.ComponentID()] = ref
		}
	}

	if err := checkDependencies(ctx, b, opts); err != nil {
		return nil, err
	}

	logger.Debug("Build: Bundle compilation finished.", "components", len(b.Components))
	return b, nil
}

// checkDependencies warns about group dependencies that name no group and
// about dependency cycles.
func checkDependencies(ctx context.Context, b *Bundle, opts Options) error {
	logger := ctxlog.FromContext(ctx)

	groups := make(map[string]bool)
	for _, c := range b.Components {
		if !c.IsPlugin() {
			groups[c.ComponentID()] = true
		}
	}

	g := dag.New()
	for _, id := range b.Plan.Dependencies.Keys() {
		g.AddNode(id)
	}
	for _, id := range b.Plan.Dependencies.Keys() {
		deps, _ := b.Plan.Dependencies.Get(id)
		groupDeps, _ := b.Plan.GroupDependencies.Get(id)
		for _, name := range groupDeps {
			if !groups[name] {
				logger.Warn("Component depends on an undeclared group.", "component", id, "group", name)
			}
		}
		for _, dep := range append(deps, groupDeps...) {
			g.AddNode(dep)
			if err := g.AddEdge(dep, id); err != nil {
				return err
			}
		}
	}

	if err := g.DetectCycles(); err != nil {
		if opts.StrictCycles {
			return err
		}
		logger.Warn("Dependency cycle found.", "error", err)
	}
	return nil
}

func sortedHooks(hooks []payload.AfterHook) []payload.AfterHook {
	out := slices.Clone(hooks)
	slices.SortStableFunc(out, func(a, b payload.AfterHook) int {
		return cmp.Or(cmp.Compare(a.Category, b.Category), cmp.Compare(a.Key, b.Key))
	})
	return out
}
