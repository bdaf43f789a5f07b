package hclpayload

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level items from any file.
type fileRoot struct {
	Target       string            `hcl:"target,optional"`
	BundlerBin   string            `hcl:"bundler_bin,optional"`
	IDMap        map[string]string `hcl:"id_map,optional"`
	EagerPlugins []string          `hcl:"eager_plugins,optional"`
	LazyPlugins  []string          `hcl:"lazy_plugins,optional"`

	Eager  []*eagerBlock `hcl:"eager_plugin,block"`
	Lazy   []*lazyBlock  `hcl:"lazy_plugin,block"`
	Groups []*groupBlock `hcl:"lazy_group,block"`
	After  []*afterBlock `hcl:"after,block"`
}

type eagerBlock struct {
	Package       string         `hcl:"package,label"`
	StartupConfig hcl.Expression `hcl:"startup_config,optional"`
}

// lazyBlock is recursive: depend_plugin blocks nest further lazy plugins.
type lazyBlock struct {
	Package       string         `hcl:"package,label"`
	StartupConfig hcl.Expression `hcl:"startup_config,optional"`
	PreConfig     hcl.Expression `hcl:"pre_config,optional"`
	PostConfig    hcl.Expression `hcl:"post_config,optional"`
	DependPlugins []string       `hcl:"depend_plugins,optional"`
	Depends       []*lazyBlock   `hcl:"depend_plugin,block"`
	DependGroups  []string       `hcl:"depend_groups,optional"`
	OnModules     []string       `hcl:"on_modules,optional"`
	OnEvents      []string       `hcl:"on_events,optional"`
	OnFiletypes   []string       `hcl:"on_filetypes,optional"`
	OnCommands    []string       `hcl:"on_commands,optional"`
	UseTimer      bool           `hcl:"use_timer,optional"`
	UseDenops     bool           `hcl:"use_denops,optional"`
}

type groupBlock struct {
	Name          string         `hcl:"name,label"`
	Plugins       []string       `hcl:"plugins,optional"`
	Members       []*lazyBlock   `hcl:"plugin,block"`
	StartupConfig hcl.Expression `hcl:"startup_config,optional"`
	PreConfig     hcl.Expression `hcl:"pre_config,optional"`
	PostConfig    hcl.Expression `hcl:"post_config,optional"`
	DependPlugins []string       `hcl:"depend_plugins,optional"`
	Depends       []*lazyBlock   `hcl:"depend_plugin,block"`
	DependGroups  []string       `hcl:"depend_groups,optional"`
	OnModules     []string       `hcl:"on_modules,optional"`
	OnEvents      []string       `hcl:"on_events,optional"`
	OnFiletypes   []string       `hcl:"on_filetypes,optional"`
	OnCommands    []string       `hcl:"on_commands,optional"`
	UseTimer      bool           `hcl:"use_timer,optional"`
}

type afterBlock struct {
	Category string `hcl:"category,label"`
	Key      string `hcl:"key,label"`
	Language string `hcl:"language,optional"`
	Code     string `hcl:"code"`
}
