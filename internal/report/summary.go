// Package report renders human-readable overviews of a compiled bundle.
package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vk/nvimbundle/internal/bundle"
)

// Summary writes one table row per component of b to w.
func Summary(w io.Writer, b *bundle.Bundle) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Kind", "Triggers", "Depends", "Flags"})
	for _, c := range b.Components {
		id := c.ComponentID()
		t.AppendRow(table.Row{id, bundle.Kind(c), triggers(b.Plan, id), depends(b.Plan, id), flags(b, c)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()

	fmt.Fprintf(w, "\n%d components, %d after hooks\n", len(b.Components), len(b.After))
}

func triggers(plan bundle.LoadPlan, id string) string {
	var lines []string
	for _, idx := range []struct {
		label string
		keys  []string
	}{
		{"module", keysFor(plan.Modules.Keys(), plan.Modules.Get, id)},
		{"event", keysFor(plan.Events.Keys(), plan.Events.Get, id)},
		{"ft", keysFor(plan.Filetypes.Keys(), plan.Filetypes.Get, id)},
		{"cmd", keysFor(plan.Commands.Keys(), plan.Commands.Get, id)},
	} {
		if len(idx.keys) > 0 {
			lines = append(lines, idx.label+": "+strings.Join(idx.keys, ", "))
		}
	}
	return strings.Join(lines, "\n")
}

// keysFor returns the trigger keys whose bucket lists id.
func keysFor(keys []string, get func(string) ([]string, bool), id string) []string {
	var out []string
	for _, k := range keys {
		if ids, _ := get(k); slices.Contains(ids, id) {
			out = append(out, k)
		}
	}
	return out
}

func depends(plan bundle.LoadPlan, id string) string {
	deps, _ := plan.Dependencies.Get(id)
	groups, _ := plan.GroupDependencies.Get(id)
	out := append([]string(nil), deps...)
	for _, g := range groups {
		out = append(out, "@"+g)
	}
	return strings.Join(out, ", ")
}

func flags(b *bundle.Bundle, c bundle.Component) string {
	id := c.ComponentID()
	var out []string
	if bundle.Startup(c) != "" {
		out = append(out, "startup")
	}
	if slices.Contains(b.Plan.TimerClients, id) {
		out = append(out, "timer")
	}
	if slices.Contains(b.Plan.DenopsClients, id) {
		out = append(out, "denops")
	}
	return strings.Join(out, " ")
}
