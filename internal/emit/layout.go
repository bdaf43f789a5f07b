package emit

// Per-component directories, one file per component id.
const (
	pluginDir        = "plugin"
	pluginsDir       = "plugins"
	startupDir       = "startup"
	preConfigDir     = "pre_config"
	postConfigDir    = "post_config"
	dependPluginsDir = "depend_plugins"
	dependGroupsDir  = "depend_groups"
	rtpDir           = "rtp"
)

// Trigger indexes: a key list plus one file per key.
const (
	startupKeys = "startup_keys"

	moduleKeys   = "module_keys"
	modulesDir   = "modules"
	eventKeys    = "event_keys"
	eventsDir    = "events"
	filetypeKeys = "filetype_keys"
	filetypesDir = "filetypes"
	commandKeys  = "command_keys"
	commandsDir  = "commands"
)

const (
	timerClients  = "timer_clients"
	denopsClients = "denops_clients"

	infoDir  = "info"
	afterDir = "after"
)
