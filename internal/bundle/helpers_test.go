package bundle

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/nvimbundle/internal/identity"
	"github.com/vk/nvimbundle/internal/multimap"
	"github.com/vk/nvimbundle/internal/payload"
)

func ref(id string) string {
	return "/nix/store/hash-" + id
}

func bare(id string) payload.PluginRef {
	return payload.PluginRef{Package: ref(id)}
}

func idMap(ids ...string) []payload.IDMapEntry {
	entries := make([]payload.IDMapEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, payload.IDMapEntry{PluginID: id, Package: ref(id)})
	}
	return entries
}

func newResolver(t *testing.T, ids ...string) *identity.Resolver {
	t.Helper()
	r, err := identity.New(idMap(ids...))
	require.NoError(t, err)
	return r
}

func names(decls []payload.Declaration) []string {
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, DeclarationName(d))
	}
	return out
}

func planMaps(p LoadPlan) map[string]map[string][]string {
	return map[string]map[string][]string{
		"modules":      indexMap(p.Modules),
		"events":       indexMap(p.Events),
		"filetypes":    indexMap(p.Filetypes),
		"commands":     indexMap(p.Commands),
		"dependencies": indexMap(p.Dependencies),
		"groupDeps":    indexMap(p.GroupDependencies),
	}
}

func indexMap(m multimap.Multimap) map[string][]string {
	out := make(map[string][]string, m.Len())
	for _, k := range m.Keys() {
		vals, _ := m.Get(k)
		out[k] = append([]string{}, vals...)
	}
	return out
}
