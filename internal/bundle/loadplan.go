package bundle

import (
	"fmt"

	"github.com/vk/nvimbundle/internal/identity"
	"github.com/vk/nvimbundle/internal/multimap"
	"github.com/vk/nvimbundle/internal/payload"
)

// LoadPlan tells the runtime loader when to load each lazy component and
// what has to be loaded before it.
type LoadPlan struct {
	// Trigger indexes: trigger name -> component ids.
	Modules   multimap.Multimap
	Events    multimap.Multimap
	Filetypes multimap.Multimap
	Commands  multimap.Multimap

	// Dependencies maps a component id to the plugin ids it needs, and
	// GroupDependencies to the group names it needs. Every component seen by
	// Aggregate is a key of both, even with nothing to depend on.
	Dependencies      multimap.Multimap
	GroupDependencies multimap.Multimap

	TimerClients  []string
	DenopsClients []string
}

// Aggregate folds the expansion of decls into a raw load plan. Buckets keep
// duplicates and insertion order; Dedup canonicalizes them.
func Aggregate(r *identity.Resolver, decls []payload.Declaration) (LoadPlan, error) {
	expanded, err := Expand(decls)
	if err != nil {
		return LoadPlan{}, err
	}

	var plan LoadPlan
	for _, d := range expanded {
		plan, err = aggregateStep(r, plan, d)
		if err != nil {
			return LoadPlan{}, err
		}
	}
	return plan, nil
}

// aggregateStep records a single declaration. Nested declarations are
// recorded by their own steps.
func aggregateStep(r *identity.Resolver, plan LoadPlan, d payload.Declaration) (LoadPlan, error) {
	var (
		id        string
		deps      []payload.Declaration
		depGroups []string
		triggers  [4][]string
		useTimer  bool
		useDenops bool
	)

	switch d := d.(type) {
	case payload.PluginRef:
		ref, err := r.Resolve(d.Package)
		if err != nil {
			return plan, err
		}
		id = ref
	case *payload.EagerPlugin:
		ref, err := r.Resolve(d.Package)
		if err != nil {
			return plan, err
		}
		id = ref
	case *payload.LazyPlugin:
		ref, err := r.Resolve(d.Package)
		if err != nil {
			return plan, err
		}
		id = ref
		deps, depGroups = d.DependPlugins, d.DependGroups
		triggers = [4][]string{d.OnModules, d.OnEvents, d.OnFiletypes, d.OnCommands}
		useTimer, useDenops = d.UseTimer, d.UseDenops
	case *payload.LazyGroup:
		id = d.Name
		deps, depGroups = d.DependPlugins, d.DependGroups
		triggers = [4][]string{d.OnModules, d.OnEvents, d.OnFiletypes, d.OnCommands}
		useTimer = d.UseTimer
	default:
		return plan, fmt.Errorf("unexpected declaration type %T", d)
	}

	depIDs, err := resolveDeclarations(r, deps)
	if err != nil {
		return plan, fmt.Errorf("dependencies of %q: %w", id, err)
	}

	next := plan
	// Every id gets a dependency entry, even an empty one.
	next.Dependencies = plan.Dependencies.Touch(id)
	if len(depIDs) > 0 {
		next.Dependencies = next.Dependencies.Append(id, depIDs...)
	}
	next.GroupDependencies = plan.GroupDependencies.Touch(id)
	if len(depGroups) > 0 {
		next.GroupDependencies = next.GroupDependencies.Append(id, depGroups...)
	}
	next.Modules = appendTrigger(plan.Modules, triggers[0], id)
	next.Events = appendTrigger(plan.Events, triggers[1], id)
	next.Filetypes = appendTrigger(plan.Filetypes, triggers[2], id)
	next.Commands = appendTrigger(plan.Commands, triggers[3], id)
	if useTimer {
		next.TimerClients = append(append([]string{}, plan.TimerClients...), id)
	}
	if useDenops {
		next.DenopsClients = append(append([]string{}, plan.DenopsClients...), id)
	}
	return next, nil
}

func appendTrigger(index multimap.Multimap, names []string, id string) multimap.Multimap {
	for _, name := range names {
		index = index.Append(name, id)
	}
	return index
}
