package bundle

import "github.com/vk/nvimbundle/internal/multimap"

// Dedup replaces every bucket and flag list with its sorted set. Applying it
// twice gives the same plan as applying it once.
func Dedup(plan LoadPlan) LoadPlan {
	return LoadPlan{
		Modules:           plan.Modules.Normalize(),
		Events:            plan.Events.Normalize(),
		Filetypes:         plan.Filetypes.Normalize(),
		Commands:          plan.Commands.Normalize(),
		Dependencies:      plan.Dependencies.Normalize(),
		GroupDependencies: plan.GroupDependencies.Normalize(),
		TimerClients:      multimap.SortedSet(plan.TimerClients),
		DenopsClients:     multimap.SortedSet(plan.DenopsClients),
	}
}
