package bundle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nvimbundle/internal/ctxlog"
	"github.com/vk/nvimbundle/internal/dag"
	"github.com/vk/nvimbundle/internal/identity"
	"github.com/vk/nvimbundle/internal/payload"
)

func TestBuild(t *testing.T) {
	// --- Arrange ---
	p := &payload.Payload{
		EagerPlugins: []*payload.EagerPlugin{
			{Package: ref("colors"), StartupConfig: payload.Code("vim.cmd.colorscheme('x')")},
			{Package: ref("icons")},
		},
		LazyPlugins: []payload.Declaration{
			bare("P"),
			&payload.LazyPlugin{
				Package:       ref("P"),
				StartupConfig: payload.Code("x"),
				OnEvents:      []string{"VimEnter"},
			},
			&payload.LazyPlugin{
				Package:       ref("telescope"),
				OnCommands:    []string{"Telescope"},
				OnModules:     []string{"telescope"},
				DependPlugins: []payload.Declaration{bare("plenary")},
				DependGroups:  []string{"ui"},
				PostConfig: payload.ConfigBlock{
					Code: "require('telescope').setup(args)",
					Args: payload.NewArgs([]byte(`{"defaults":{"layout":"vertical"}}`)),
				},
			},
		},
		LazyGroups: []*payload.LazyGroup{{
			Name:     "ui",
			Plugins:  []payload.Declaration{bare("lualine"), &payload.LazyPlugin{Package: ref("ddc"), UseDenops: true}},
			OnEvents: []string{"UIEnter"},
			UseTimer: true,
		}},
		After: []payload.AfterHook{
			{Category: "ftplugin", Key: "python", Block: payload.ConfigBlock{Language: payload.Vim, Code: "setlocal sw=4"}},
			{Category: "ftplugin", Key: "go", Block: payload.Code("vim.bo.expandtab = false")},
		},
		IDMap: idMap("colors", "icons", "P", "telescope", "plenary", "lualine", "ddc"),
		Info:  payload.Info{Target: "neovim", BundlerBin: "/bin/nvimbundle"},
	}

	// --- Act ---
	b, err := Build(ctxlog.Discard(context.Background()), p, Options{})

	// --- Assert ---
	require.NoError(t, err)

	// Components are sorted by id, byte-wise.
	wantComponents := []Component{
		&LazyComponent{ID: "P", StartupConfig: "x", OnEvents: []string{"VimEnter"}},
		&EagerComponent{ID: "colors", StartupConfig: "vim.cmd.colorscheme('x')"},
		&LazyComponent{ID: "ddc", UseDenops: true},
		&EagerComponent{ID: "icons"},
		&LazyComponent{ID: "lualine"},
		&LazyComponent{ID: "plenary"},
		&LazyComponent{
			ID:            "telescope",
			PostConfig:    "local args = vim.json.decode([[{\"defaults\":{\"layout\":\"vertical\"}}]])\nrequire('telescope').setup(args)",
			DependPlugins: []string{"plenary"},
			DependGroups:  []string{"ui"},
			OnModules:     []string{"telescope"},
			OnCommands:    []string{"Telescope"},
		},
		&GroupComponent{ID: "ui", Plugins: []string{"ddc", "lualine"}, OnEvents: []string{"UIEnter"}, UseTimer: true},
	}
	if diff := cmp.Diff(wantComponents, b.Components); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}

	wantPlan := map[string]map[string][]string{
		"modules":   {"telescope": {"telescope"}},
		"events":    {"UIEnter": {"ui"}, "VimEnter": {"P"}},
		"filetypes": {},
		"commands":  {"Telescope": {"telescope"}},
		"dependencies": {
			"colors": {}, "icons": {}, "P": {}, "telescope": {"plenary"}, "plenary": {},
			"ui": {}, "lualine": {}, "ddc": {},
		},
		"groupDeps": {
			"colors": {}, "icons": {}, "P": {}, "telescope": {"ui"}, "plenary": {},
			"ui": {}, "lualine": {}, "ddc": {},
		},
	}
	if diff := cmp.Diff(wantPlan, planMaps(b.Plan)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"ui"}, b.Plan.TimerClients)
	assert.Equal(t, []string{"ddc"}, b.Plan.DenopsClients)

	assert.Equal(t, []string{"P", "colors"}, b.StartupIDs)
	assert.Equal(t, ref("telescope"), b.PluginPaths["telescope"])
	assert.NotContains(t, b.PluginPaths, "ui")
	assert.Len(t, b.PluginPaths, 7)

	require.Len(t, b.After, 2)
	assert.Equal(t, "go", b.After[0].Key)
	assert.Equal(t, "python", b.After[1].Key)
	assert.Equal(t, p.Info, b.Info)
}

func TestBuild_Scenarios(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())

	t.Run("conflicting definitions abort the build", func(t *testing.T) {
		p := &payload.Payload{
			LazyPlugins: []payload.Declaration{
				&payload.LazyPlugin{Package: ref("Q"), StartupConfig: payload.Code("a")},
				&payload.LazyPlugin{Package: ref("Q"), StartupConfig: payload.Code("b")},
			},
			IDMap: idMap("Q"),
		}
		_, err := Build(ctx, p, Options{})
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "Q", conflict.ID)
	})

	t.Run("eager and lazy declarations with the same startup merge", func(t *testing.T) {
		p := &payload.Payload{
			EagerPlugins: []*payload.EagerPlugin{{Package: ref("P"), StartupConfig: payload.Code("x")}},
			LazyPlugins: []payload.Declaration{
				&payload.LazyPlugin{Package: ref("P"), StartupConfig: payload.Code("x")},
				&payload.LazyPlugin{Package: ref("T"), DependPlugins: []payload.Declaration{bare("P")}},
			},
			IDMap: idMap("P", "T"),
		}
		b, err := Build(ctx, p, Options{})
		require.NoError(t, err)
		require.Len(t, b.Components, 2)
		assert.Equal(t, &EagerComponent{ID: "P", StartupConfig: "x"}, b.Components[0])
		assert.Equal(t, []string{"P"}, b.StartupIDs)
	})

	t.Run("eager and lazy declarations that differ conflict", func(t *testing.T) {
		p := &payload.Payload{
			EagerPlugins: []*payload.EagerPlugin{{Package: ref("P"), StartupConfig: payload.Code("x")}},
			LazyPlugins:  []payload.Declaration{&payload.LazyPlugin{Package: ref("P"), StartupConfig: payload.Code("x"), UseTimer: true}},
			IDMap:        idMap("P"),
		}
		_, err := Build(ctx, p, Options{})
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "P", conflict.ID)
	})

	t.Run("unregistered reference aborts the build", func(t *testing.T) {
		p := &payload.Payload{LazyPlugins: []payload.Declaration{bare("ghost")}}
		_, err := Build(ctx, p, Options{})
		var unregistered *identity.UnregisteredError
		require.True(t, errors.As(err, &unregistered))
	})

	t.Run("ambiguous identity table aborts the build", func(t *testing.T) {
		p := &payload.Payload{IDMap: append(idMap("A"), payload.IDMapEntry{PluginID: "B", Package: ref("A")})}
		_, err := Build(ctx, p, Options{})
		assert.ErrorContains(t, err, "invalid identity table")
	})
}

func TestBuild_DependencyCycles(t *testing.T) {
	p := &payload.Payload{
		LazyPlugins: []payload.Declaration{
			&payload.LazyPlugin{Package: ref("A"), DependPlugins: []payload.Declaration{bare("B")}},
			&payload.LazyPlugin{Package: ref("B"), DependPlugins: []payload.Declaration{bare("A")}},
			&payload.LazyPlugin{Package: ref("C"), DependGroups: []string{"missing"}},
		},
		IDMap: idMap("A", "B", "C"),
	}

	t.Run("warns by default", func(t *testing.T) {
		logs := &bytes.Buffer{}
		ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(logs, nil)))

		_, err := Build(ctx, p, Options{})

		require.NoError(t, err)
		assert.Contains(t, logs.String(), "Dependency cycle found.")
		assert.Contains(t, logs.String(), "A -> B -> A")
		assert.Contains(t, logs.String(), "Component depends on an undeclared group.")
	})

	t.Run("fails when strict", func(t *testing.T) {
		_, err := Build(ctxlog.Discard(context.Background()), p, Options{StrictCycles: true})
		var cycle *dag.CycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"A", "B", "A"}, cycle.Path)
	})
}

// Reordering declarations never changes the compiled bundle.
func TestBuild_OrderIndependent(t *testing.T) {
	decls := []payload.Declaration{
		&payload.LazyPlugin{Package: ref("A"), OnEvents: []string{"E1", "E2"}, DependPlugins: []payload.Declaration{bare("B")}},
		bare("B"),
		&payload.LazyPlugin{Package: ref("C"), OnEvents: []string{"E2"}, UseTimer: true},
		bare("A"),
	}
	reversed := make([]payload.Declaration, len(decls))
	for i, d := range decls {
		reversed[len(decls)-1-i] = d
	}

	ctx := ctxlog.Discard(context.Background())
	b1, err := Build(ctx, &payload.Payload{LazyPlugins: decls, IDMap: idMap("A", "B", "C")}, Options{})
	require.NoError(t, err)
	b2, err := Build(ctx, &payload.Payload{LazyPlugins: reversed, IDMap: idMap("C", "B", "A")}, Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(b1.Components, b2.Components); diff != "" {
		t.Errorf("components differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, planMaps(b1.Plan), planMaps(b2.Plan))
	assert.Equal(t, b1.Plan.Dependencies.Keys(), b2.Plan.Dependencies.Keys())
	assert.Equal(t, b1.Plan.Events.Keys(), b2.Plan.Events.Keys())
}
