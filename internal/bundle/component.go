package bundle

import "slices"

// Component is the resolved record for one id. It is one of
// *EagerComponent, *LazyComponent or *GroupComponent.
type Component interface {
	ComponentID() string
	// IsPlugin is false for groups.
	IsPlugin() bool
	component()
}

// EagerComponent is a plugin loaded at startup.
type EagerComponent struct {
	ID            string
	StartupConfig string
}

// LazyComponent is a plugin loaded on demand.
type LazyComponent struct {
	ID            string
	StartupConfig string
	PreConfig     string
	PostConfig    string
	DependPlugins []string
	DependGroups  []string
	OnModules     []string
	OnEvents      []string
	OnFiletypes   []string
	OnCommands    []string
	UseTimer      bool
	UseDenops     bool
}

// GroupComponent is a named group of lazy plugins. Its id is the group name.
type GroupComponent struct {
	ID            string
	Plugins       []string
	StartupConfig string
	PreConfig     string
	PostConfig    string
	DependPlugins []string
	DependGroups  []string
	OnModules     []string
	OnEvents      []string
	OnFiletypes   []string
	OnCommands    []string
	UseTimer      bool
}

func (c *EagerComponent) ComponentID() string { return c.ID }
func (c *LazyComponent) ComponentID() string  { return c.ID }
func (c *GroupComponent) ComponentID() string { return c.ID }

func (*EagerComponent) IsPlugin() bool { return true }
func (*LazyComponent) IsPlugin() bool  { return true }
func (*GroupComponent) IsPlugin() bool { return false }

func (*EagerComponent) component() {}
func (*LazyComponent) component()  {}
func (*GroupComponent) component() {}

// Kind names the variant, for logs and reports.
func Kind(c Component) string {
	switch c.(type) {
	case *EagerComponent:
		return "eager"
	case *LazyComponent:
		return "lazy"
	case *GroupComponent:
		return "group"
	default:
		return "unknown"
	}
}

// Startup returns the startup config of any variant.
func Startup(c Component) string {
	switch c := c.(type) {
	case *EagerComponent:
		return c.StartupConfig
	case *LazyComponent:
		return c.StartupConfig
	case *GroupComponent:
		return c.StartupConfig
	}
	return ""
}

// PrePost returns the pre and post configs. Eager plugins have neither.
func PrePost(c Component) (pre, post string) {
	switch c := c.(type) {
	case *LazyComponent:
		return c.PreConfig, c.PostConfig
	case *GroupComponent:
		return c.PreConfig, c.PostConfig
	}
	return "", ""
}

// Members returns the member plugin ids of a group, nil for plugins.
func Members(c Component) []string {
	if g, ok := c.(*GroupComponent); ok {
		return g.Plugins
	}
	return nil
}

// baseline is the unconfigured component of the same variant and id.
func baseline(c Component) Component {
	switch c := c.(type) {
	case *EagerComponent:
		return &EagerComponent{ID: c.ID}
	case *LazyComponent:
		return &LazyComponent{ID: c.ID}
	case *GroupComponent:
		return &GroupComponent{ID: c.ID}
	}
	return nil
}

// IsModified reports whether c carries anything beyond its id. A nil
// component stands for "no definition yet" and is never modified.
func IsModified(c Component) bool {
	if c == nil {
		return false
	}
	return !Equal(c, baseline(c))
}

// Equal compares two components by what the bundle emits for them: id,
// plugin or group, configs, lists and flags. Nil and empty lists are equal,
// and an eager plugin compares as a lazy one with no pre or post config, so
// an eager and a lazy definition carrying the same startup config are equal.
func Equal(a, b Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return project(a).equal(project(b))
}

// emitted is the variant-independent form of a component.
type emitted struct {
	id, startup, pre, post string
	plugin                 bool
	useTimer, useDenops    bool
	lists                  [7][]string
}

func project(c Component) emitted {
	e := emitted{id: c.ComponentID(), plugin: c.IsPlugin(), startup: Startup(c)}
	e.pre, e.post = PrePost(c)
	switch c := c.(type) {
	case *LazyComponent:
		e.lists = [7][]string{nil, c.DependPlugins, c.DependGroups, c.OnModules, c.OnEvents, c.OnFiletypes, c.OnCommands}
		e.useTimer, e.useDenops = c.UseTimer, c.UseDenops
	case *GroupComponent:
		e.lists = [7][]string{c.Plugins, c.DependPlugins, c.DependGroups, c.OnModules, c.OnEvents, c.OnFiletypes, c.OnCommands}
		e.useTimer = c.UseTimer
	}
	return e
}

func (e emitted) equal(o emitted) bool {
	if e.id != o.id || e.plugin != o.plugin ||
		e.startup != o.startup || e.pre != o.pre || e.post != o.post ||
		e.useTimer != o.useTimer || e.useDenops != o.useDenops {
		return false
	}
	for i := range e.lists {
		if !slices.Equal(e.lists[i], o.lists[i]) {
			return false
		}
	}
	return true
}
