package payload

// Payload is the whole input of one bundler run.
type Payload struct {
	EagerPlugins []*EagerPlugin
	// LazyPlugins holds PluginRef and *LazyPlugin declarations.
	LazyPlugins []Declaration
	LazyGroups  []*LazyGroup
	After       []AfterHook
	IDMap       []IDMapEntry
	Info        Info
}

// IDMapEntry binds one package reference to its plugin id.
type IDMapEntry struct {
	PluginID string
	Package  string
}

// Info is carried through to the emitted bundle untouched.
type Info struct {
	Target     string
	BundlerBin string
	// Digest identifies the input document, e.g. "sha256:...".
	Digest string
}

// AfterHook is a snippet placed under the runtime's after/ directory,
// e.g. after/ftplugin/python.vim.
type AfterHook struct {
	Category string
	Key      string
	Block    ConfigBlock
}

// Declaration is a node of the declaration graph before identity resolution.
// It is one of PluginRef, *LazyPlugin, *LazyGroup or *EagerPlugin.
type Declaration interface {
	declaration()
}

// PluginRef is a bare lazy plugin reference with no configuration.
type PluginRef struct {
	Package string
}

// LazyPlugin is a lazily loaded plugin with its configuration, triggers and
// nested dependency declarations.
type LazyPlugin struct {
	Package       string
	StartupConfig ConfigBlock
	PreConfig     ConfigBlock
	PostConfig    ConfigBlock
	// DependPlugins holds PluginRef and *LazyPlugin declarations.
	DependPlugins []Declaration
	DependGroups  []string
	OnModules     []string
	OnEvents      []string
	OnFiletypes   []string
	OnCommands    []string
	UseTimer      bool
	UseDenops     bool
}

// LazyGroup is a named set of lazy plugins loaded together.
type LazyGroup struct {
	Name          string
	Plugins       []Declaration
	StartupConfig ConfigBlock
	PreConfig     ConfigBlock
	PostConfig    ConfigBlock
	DependPlugins []Declaration
	DependGroups  []string
	OnModules     []string
	OnEvents      []string
	OnFiletypes   []string
	OnCommands    []string
	UseTimer      bool
}

// EagerPlugin is loaded at startup. It can only carry a startup config.
type EagerPlugin struct {
	Package       string
	StartupConfig ConfigBlock
}

func (PluginRef) declaration()    {}
func (*LazyPlugin) declaration()  {}
func (*LazyGroup) declaration()   {}
func (*EagerPlugin) declaration() {}
