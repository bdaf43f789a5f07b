package hclpayload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nvimbundle/internal/ctxlog"
	"github.com/vk/nvimbundle/internal/payload"
)

var argsComparer = cmp.Comparer(func(a, b payload.Args) bool { return a.JSON() == b.JSON() })

// writeFiles creates the given files below a fresh temp dir and returns it.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestLoad(t *testing.T) {
	// --- Arrange ---
	ctx := ctxlog.Discard(context.Background())
	want := &payload.Payload{
		EagerPlugins: []*payload.EagerPlugin{
			{Package: "/nix/store/aaa-icons"},
			{Package: "/nix/store/bbb-colors", StartupConfig: payload.Code("vim.cmd.colorscheme('x')")},
		},
		LazyPlugins: []payload.Declaration{
			payload.PluginRef{Package: "/nix/store/ccc-plenary"},
			&payload.LazyPlugin{
				Package:    "/nix/store/ddd-telescope",
				PreConfig:  payload.ConfigBlock{Language: payload.Vim, Code: "let g:t = 1"},
				PostConfig: payload.ConfigBlock{Code: "require('telescope').setup(args)", Args: payload.NewArgs([]byte(`{"a":[true,"s"],"z":1}`))},
				DependPlugins: []payload.Declaration{
					payload.PluginRef{Package: "/nix/store/ccc-plenary"},
					&payload.LazyPlugin{Package: "/nix/store/eee-fzf", OnModules: []string{"fzf"}},
				},
				DependGroups: []string{"ui"},
				OnCommands:   []string{"Telescope"},
			},
		},
		LazyGroups: []*payload.LazyGroup{{
			Name:     "ui",
			Plugins:  []payload.Declaration{payload.PluginRef{Package: "/nix/store/fff-lualine"}},
			OnEvents: []string{"UIEnter"},
			UseTimer: true,
		}},
		After: []payload.AfterHook{
			{Category: "ftplugin", Key: "python", Block: payload.ConfigBlock{Language: payload.Vim, Code: "setlocal sw=4"}},
			{Category: "ftplugin", Key: "go", Block: payload.Code("vim.bo.et = false")},
		},
		IDMap: []payload.IDMapEntry{
			{PluginID: "icons", Package: "/nix/store/aaa-icons"},
			{PluginID: "colors", Package: "/nix/store/bbb-colors"},
			{PluginID: "plenary", Package: "/nix/store/ccc-plenary"},
			{PluginID: "telescope", Package: "/nix/store/ddd-telescope"},
			{PluginID: "fzf", Package: "/nix/store/eee-fzf"},
			{PluginID: "lualine", Package: "/nix/store/fff-lualine"},
		},
		Info: payload.Info{Target: "neovim", BundlerBin: "/nix/store/ggg-bundler/bin/nvimbundle"},
	}

	// --- Act ---
	got, err := NewLoader().Load(ctx, filepath.Join("testdata", "payload.hcl"))

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Info.Digest, "sha256:"))
	got.Info.Digest = ""
	if diff := cmp.Diff(want, got, argsComparer, emptyAsNil()); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

// emptyAsNil treats nil and empty string slices alike; gohcl may produce
// either for absent optional lists.
func emptyAsNil() cmp.Option {
	return cmp.FilterValues(func(a, b []string) bool { return len(a) == 0 && len(b) == 0 }, cmp.Ignore())
}

func TestLoad_Directory(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.hcl": `
target = "neovim"
id_map = { "/p/a" = "a" }
lazy_plugins = ["/p/a"]
`,
		"plugins/b.hcl": `
id_map = { "/p/b" = "b", "/p/a" = "a" }
lazy_plugin "/p/b" {
  on_events = ["VimEnter"]
}
`,
		"README.md": "not loaded",
	})

	p, err := NewLoader().Load(ctxlog.Discard(context.Background()), dir)
	require.NoError(t, err)

	require.Len(t, p.LazyPlugins, 2)
	assert.Equal(t, payload.PluginRef{Package: "/p/a"}, p.LazyPlugins[0])
	assert.Equal(t, "/p/b", p.LazyPlugins[1].(*payload.LazyPlugin).Package)
	assert.Equal(t, []payload.IDMapEntry{{PluginID: "a", Package: "/p/a"}, {PluginID: "b", Package: "/p/b"}}, p.IDMap)
	assert.Equal(t, "neovim", p.Info.Target)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		files        map[string]string
		wantInError  string
		wantLocation string
	}{
		{
			name:         "syntax error",
			files:        map[string]string{"main.hcl": "lazy_plugin \"/p\" {\n"},
			wantInError:  "Unclosed configuration block",
			wantLocation: "main.hcl:1",
		},
		{
			name:         "unknown block",
			files:        map[string]string{"main.hcl": "plugin \"/p\" {}\n"},
			wantInError:  "Unsupported block type",
			wantLocation: "main.hcl:1",
		},
		{
			name:         "config of the wrong type",
			files:        map[string]string{"main.hcl": "\neager_plugin \"/p\" {\n  startup_config = 42\n}\n"},
			wantInError:  "Invalid config value",
			wantLocation: "main.hcl:3",
		},
		{
			name:         "unsupported config attribute",
			files:        map[string]string{"main.hcl": "lazy_plugin \"/p\" {\n  pre_config = { source = \"x\" }\n}\n"},
			wantInError:  "Unsupported config attribute",
			wantLocation: "main.hcl:2",
		},
		{
			name:         "unknown language",
			files:        map[string]string{"main.hcl": "lazy_group \"g\" {\n  startup_config = { language = \"fennel\", code = \"x\" }\n}\n"},
			wantInError:  "unknown language",
			wantLocation: "main.hcl:2",
		},
		{
			name: "conflicting settings across files",
			files: map[string]string{
				"a.hcl": "bundler_bin = \"/bin/a\"\n",
				"b.hcl": "bundler_bin = \"/bin/b\"\n",
			},
			wantInError: "bundler_bin is set to both",
		},
		{
			name: "conflicting id map across files",
			files: map[string]string{
				"a.hcl": "id_map = { \"/p\" = \"a\" }\n",
				"b.hcl": "id_map = { \"/p\" = \"b\" }\n",
			},
			wantInError: `id_map binds "/p" to both`,
		},
		{
			name:        "empty directory",
			files:       map[string]string{"notes.txt": ""},
			wantInError: "no .hcl files found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeFiles(t, tc.files)

			_, err := NewLoader().Load(ctxlog.Discard(context.Background()), dir)

			var malformed *payload.MalformedError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.ErrorContains(t, err, tc.wantInError)
			if tc.wantLocation != "" {
				assert.Contains(t, malformed.Location, tc.wantLocation)
			}
		})
	}
}

func TestTranslateConfig_Args(t *testing.T) {
	dir := writeFiles(t, map[string]string{"main.hcl": `
eager_plugin "/a" {
  startup_config = { code = "x", args = {} }
}
eager_plugin "/b" {
  startup_config = { code = "x", args = ["one", 2] }
}
eager_plugin "/c" {
  startup_config = { code = "x", args = null }
}
eager_plugin "/d" {
  startup_config = { code = "x", args = { nested = { b = 2.5, a = "s" } } }
}
`})

	p, err := NewLoader().Load(ctxlog.Discard(context.Background()), dir)
	require.NoError(t, err)
	require.Len(t, p.EagerPlugins, 4)

	assert.Equal(t, "{}", p.EagerPlugins[0].StartupConfig.Args.JSON())
	assert.Equal(t, `["one",2]`, p.EagerPlugins[1].StartupConfig.Args.JSON())
	assert.Equal(t, payload.ArgsAbsent, p.EagerPlugins[2].StartupConfig.Args.Kind())
	assert.Equal(t, `{"nested":{"a":"s","b":2.5}}`, p.EagerPlugins[3].StartupConfig.Args.JSON())
}
