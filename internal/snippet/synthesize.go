// Package snippet turns configuration blocks into the Lua source stored in
// the bundle's startup/, pre_config/ and post_config/ artifacts.
package snippet

import (
	"strings"

	"github.com/vk/nvimbundle/internal/payload"
)

// dialect knows how to bind structured args and how to embed a body into
// the Lua artifact. Supporting a new language means adding an entry here.
type dialect struct {
	preamble func(argsJSON string) string
	wrap     func(body string) string
}

var dialects = map[payload.Language]dialect{
	payload.Lua: {
		preamble: func(argsJSON string) string {
			return "local args = vim.json.decode(" + longString(argsJSON, 0) + ")"
		},
		wrap: func(body string) string { return body },
	},
	payload.Vim: {
		preamble: func(argsJSON string) string {
			return "let s:args = json_decode('" + strings.ReplaceAll(argsJSON, "'", "''") + "')"
		},
		wrap: func(body string) string {
			return "vim.cmd(" + longString("\n"+body+"\n", 1) + ")"
		},
	},
}

// Synthesize renders a block as Lua source. Keyed args other than the empty
// object are bound to `args` (`s:args` in Vim script) before the code runs.
// A block with nothing to run renders as the empty string.
func Synthesize(block payload.ConfigBlock) string {
	d, ok := dialects[block.Language]
	if !ok {
		d = dialects[payload.Lua]
	}

	var stmts []string
	if block.Args.Kind() == payload.ArgsKeyed && block.Args.JSON() != "{}" {
		stmts = append(stmts, d.preamble(block.Args.JSON()))
	}
	if block.Code != "" {
		stmts = append(stmts, block.Code)
	}
	if len(stmts) == 0 {
		return ""
	}
	return d.wrap(strings.Join(stmts, "\n"))
}

// longString quotes s as a Lua long bracket string of at least minLevel,
// raising the level until s cannot terminate it early.
func longString(s string, minLevel int) string {
	for level := minLevel; ; level++ {
		eq := strings.Repeat("=", level)
		if strings.Contains(s, "]"+eq+"]") || strings.HasSuffix(s, "]"+eq) {
			continue
		}
		return "[" + eq + "[" + s + "]" + eq + "]"
	}
}
