package jsonpayload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vk/nvimbundle/internal/payload"
)

// document mirrors the payload layout produced by the packaging layer.
// Fields the bundler has no use for (extraPackages, withNodeJs, ...) are
// ignored.
type document struct {
	Config struct {
		EagerPlugins []eagerPlugin                      `json:"eagerPlugins"`
		LazyPlugins  []lazyPlugin                       `json:"lazyPlugins"`
		LazyGroups   []lazyGroup                        `json:"lazyGroups"`
		After        map[string]map[string]configBlock `json:"after"`
	} `json:"config"`
	Meta struct {
		Target     string `json:"target"`
		BundlerBin string `json:"bundlerBin"`
		IDMap      []struct {
			PluginID string `json:"pluginId"`
			Package  string `json:"package"`
		} `json:"idMap"`
	} `json:"meta"`
}

// configBlock is either a bare Lua string or {language, code, args}.
type configBlock struct {
	payload.ConfigBlock
}

func (c *configBlock) UnmarshalJSON(data []byte) error {
	if isString(data) {
		var code string
		if err := json.Unmarshal(data, &code); err != nil {
			return err
		}
		c.ConfigBlock = payload.Code(code)
		return nil
	}

	var detail struct {
		Language string          `json:"language"`
		Code     string          `json:"code"`
		Args     json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &detail); err != nil {
		return err
	}
	lang, err := payload.ParseLanguage(detail.Language)
	if err != nil {
		return err
	}
	args, err := payload.ParseArgs(detail.Args)
	if err != nil {
		return fmt.Errorf("args: %w", err)
	}
	c.ConfigBlock = payload.ConfigBlock{Language: lang, Code: detail.Code, Args: args}
	return nil
}

type eagerPlugin struct {
	decl *payload.EagerPlugin
}

func (e *eagerPlugin) UnmarshalJSON(data []byte) error {
	if isString(data) {
		e.decl = &payload.EagerPlugin{}
		return json.Unmarshal(data, &e.decl.Package)
	}
	var obj struct {
		Plugin        string      `json:"plugin"`
		StartupConfig configBlock `json:"startupConfig"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.decl = &payload.EagerPlugin{Package: obj.Plugin, StartupConfig: obj.StartupConfig.ConfigBlock}
	return nil
}

// shared holds the fields lazy plugins and groups have in common.
type shared struct {
	StartupConfig configBlock  `json:"startupConfig"`
	PreConfig     configBlock  `json:"preConfig"`
	PostConfig    configBlock  `json:"postConfig"`
	DependPlugins []lazyPlugin `json:"dependPlugins"`
	DependGroups  []string     `json:"dependGroups"`
	OnModules     []string     `json:"onModules"`
	OnEvents      []string     `json:"onEvents"`
	OnFiletypes   []string     `json:"onFiletypes"`
	OnCommands    []string     `json:"onCommands"`
	UseTimer      bool         `json:"useTimer"`
}

// lazyPlugin is either a bare package reference or a configured plugin.
type lazyPlugin struct {
	decl payload.Declaration
}

func (l *lazyPlugin) UnmarshalJSON(data []byte) error {
	if isString(data) {
		var ref payload.PluginRef
		if err := json.Unmarshal(data, &ref.Package); err != nil {
			return err
		}
		l.decl = ref
		return nil
	}
	var obj struct {
		shared
		Plugin    string `json:"plugin"`
		UseDenops bool   `json:"useDenops"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	l.decl = &payload.LazyPlugin{
		Package:       obj.Plugin,
		StartupConfig: obj.StartupConfig.ConfigBlock,
		PreConfig:     obj.PreConfig.ConfigBlock,
		PostConfig:    obj.PostConfig.ConfigBlock,
		DependPlugins: declarations(obj.DependPlugins),
		DependGroups:  obj.DependGroups,
		OnModules:     obj.OnModules,
		OnEvents:      obj.OnEvents,
		OnFiletypes:   obj.OnFiletypes,
		OnCommands:    obj.OnCommands,
		UseTimer:      obj.UseTimer,
		UseDenops:     obj.UseDenops,
	}
	return nil
}

type lazyGroup struct {
	shared
	Name    string       `json:"name"`
	Plugins []lazyPlugin `json:"plugins"`
}

func (g lazyGroup) declaration() *payload.LazyGroup {
	return &payload.LazyGroup{
		Name:          g.Name,
		Plugins:       declarations(g.Plugins),
		StartupConfig: g.StartupConfig.ConfigBlock,
		PreConfig:     g.PreConfig.ConfigBlock,
		PostConfig:    g.PostConfig.ConfigBlock,
		DependPlugins: declarations(g.DependPlugins),
		DependGroups:  g.DependGroups,
		OnModules:     g.OnModules,
		OnEvents:      g.OnEvents,
		OnFiletypes:   g.OnFiletypes,
		OnCommands:    g.OnCommands,
		UseTimer:      g.UseTimer,
	}
}

func declarations(in []lazyPlugin) []payload.Declaration {
	if len(in) == 0 {
		return nil
	}
	out := make([]payload.Declaration, len(in))
	for i, l := range in {
		out[i] = l.decl
	}
	return out
}

// toPayload translates the decoded document into the format-agnostic model.
func (d *document) toPayload() *payload.Payload {
	p := &payload.Payload{
		Info: payload.Info{Target: d.Meta.Target, BundlerBin: d.Meta.BundlerBin},
	}
	for _, e := range d.Config.EagerPlugins {
		p.EagerPlugins = append(p.EagerPlugins, e.decl)
	}
	p.LazyPlugins = declarations(d.Config.LazyPlugins)
	for _, g := range d.Config.LazyGroups {
		p.LazyGroups = append(p.LazyGroups, g.declaration())
	}
	for _, e := range d.Meta.IDMap {
		p.IDMap = append(p.IDMap, payload.IDMapEntry{PluginID: e.PluginID, Package: e.Package})
	}

	categories := make([]string, 0, len(d.Config.After))
	for category := range d.Config.After {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		keys := make([]string, 0, len(d.Config.After[category]))
		for key := range d.Config.After[category] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			p.After = append(p.After, payload.AfterHook{
				Category: category,
				Key:      key,
				Block:    d.Config.After[category][key].ConfigBlock,
			})
		}
	}
	return p
}

func isString(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
