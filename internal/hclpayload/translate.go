package hclpayload

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/nvimbundle/internal/payload"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var configAttributes = map[string]bool{"language": true, "code": true, "args": true}

// translateConfig evaluates a config attribute. Absent and null attributes
// give the default block.
func translateConfig(expr hcl.Expression) (payload.ConfigBlock, hcl.Diagnostics) {
	if expr == nil {
		return payload.ConfigBlock{}, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return payload.ConfigBlock{}, diags
	}
	if val.IsNull() {
		return payload.ConfigBlock{}, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return payload.Code(val.AsString()), nil
	case ty.IsObjectType():
	default:
		return payload.ConfigBlock{}, diagAt(expr, "Invalid config value",
			fmt.Sprintf("A config must be a string or an object with language, code and args, not %s.", ty.FriendlyName()))
	}

	for name := range ty.AttributeTypes() {
		if !configAttributes[name] {
			return payload.ConfigBlock{}, diagAt(expr, "Unsupported config attribute",
				fmt.Sprintf("%q is not a config attribute; expected language, code or args.", name))
		}
	}

	var block payload.ConfigBlock
	if ty.HasAttribute("language") {
		lang, err := attrString(val, "language")
		if err == nil {
			block.Language, err = payload.ParseLanguage(lang)
		}
		if err != nil {
			return payload.ConfigBlock{}, diagAt(expr, "Invalid config language", err.Error())
		}
	}
	if ty.HasAttribute("code") {
		code, err := attrString(val, "code")
		if err != nil {
			return payload.ConfigBlock{}, diagAt(expr, "Invalid config code", err.Error())
		}
		block.Code = code
	}
	if ty.HasAttribute("args") {
		args, err := argsFromCty(val.GetAttr("args"))
		if err != nil {
			return payload.ConfigBlock{}, diagAt(expr, "Invalid config args", err.Error())
		}
		block.Args = args
	}
	return block, nil
}

func attrString(obj cty.Value, name string) (string, error) {
	v, err := convert.Convert(obj.GetAttr(name), cty.String)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	if v.IsNull() {
		return "", nil
	}
	return v.AsString(), nil
}

// argsFromCty renders an args value as canonical JSON.
func argsFromCty(v cty.Value) (payload.Args, error) {
	if v.IsNull() {
		return payload.Args{}, nil
	}
	if !v.IsWhollyKnown() {
		return payload.Args{}, fmt.Errorf("args must be fully known")
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return payload.Args{}, err
	}
	return payload.ParseArgs(raw)
}

func diagAt(expr hcl.Expression, summary, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}}
}

func (l *Loader) translateEager(b *eagerBlock) (*payload.EagerPlugin, hcl.Diagnostics) {
	startup, diags := translateConfig(b.StartupConfig)
	return &payload.EagerPlugin{Package: b.Package, StartupConfig: startup}, diags
}

// configs evaluates the three config attributes shared by plugins and groups.
func configs(startup, pre, post hcl.Expression) ([3]payload.ConfigBlock, hcl.Diagnostics) {
	var (
		out   [3]payload.ConfigBlock
		diags hcl.Diagnostics
	)
	for i, expr := range []hcl.Expression{startup, pre, post} {
		block, d := translateConfig(expr)
		diags = append(diags, d...)
		out[i] = block
	}
	return out, diags
}

// dependencies lists bare references first, then nested blocks.
func (l *Loader) dependencies(refs []string, blocks []*lazyBlock) ([]payload.Declaration, hcl.Diagnostics) {
	var (
		out   []payload.Declaration
		diags hcl.Diagnostics
	)
	for _, ref := range refs {
		out = append(out, payload.PluginRef{Package: ref})
	}
	for _, b := range blocks {
		decl, d := l.translateLazy(b)
		diags = append(diags, d...)
		out = append(out, decl)
	}
	return out, diags
}

func (l *Loader) translateLazy(b *lazyBlock) (*payload.LazyPlugin, hcl.Diagnostics) {
	cfgs, diags := configs(b.StartupConfig, b.PreConfig, b.PostConfig)
	deps, d := l.dependencies(b.DependPlugins, b.Depends)
	diags = append(diags, d...)

	return &payload.LazyPlugin{
		Package:       b.Package,
		StartupConfig: cfgs[0],
		PreConfig:     cfgs[1],
		PostConfig:    cfgs[2],
		DependPlugins: deps,
		DependGroups:  b.DependGroups,
		OnModules:     b.OnModules,
		OnEvents:      b.OnEvents,
		OnFiletypes:   b.OnFiletypes,
		OnCommands:    b.OnCommands,
		UseTimer:      b.UseTimer,
		UseDenops:     b.UseDenops,
	}, diags
}

func (l *Loader) translateGroup(b *groupBlock) (*payload.LazyGroup, hcl.Diagnostics) {
	cfgs, diags := configs(b.StartupConfig, b.PreConfig, b.PostConfig)
	members, d := l.dependencies(b.Plugins, b.Members)
	diags = append(diags, d...)
	deps, d := l.dependencies(b.DependPlugins, b.Depends)
	diags = append(diags, d...)

	return &payload.LazyGroup{
		Name:          b.Name,
		Plugins:       members,
		StartupConfig: cfgs[0],
		PreConfig:     cfgs[1],
		PostConfig:    cfgs[2],
		DependPlugins: deps,
		DependGroups:  b.DependGroups,
		OnModules:     b.OnModules,
		OnEvents:      b.OnEvents,
		OnFiletypes:   b.OnFiletypes,
		OnCommands:    b.OnCommands,
		UseTimer:      b.UseTimer,
	}, diags
}

func (l *Loader) translateAfter(b *afterBlock) (payload.AfterHook, error) {
	lang, err := payload.ParseLanguage(b.Language)
	if err != nil {
		return payload.AfterHook{}, fmt.Errorf("after %q %q: %w", b.Category, b.Key, err)
	}
	return payload.AfterHook{
		Category: b.Category,
		Key:      b.Key,
		Block:    payload.ConfigBlock{Language: lang, Code: b.Code},
	}, nil
}
