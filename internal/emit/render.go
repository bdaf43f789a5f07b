package emit

import (
	"fmt"
	"path"
	"strings"

	"github.com/vk/nvimbundle/internal/bundle"
	"github.com/vk/nvimbundle/internal/multimap"
	"github.com/vk/nvimbundle/internal/payload"
)

// Artifact is one file of the emitted tree.
type Artifact struct {
	// Path is slash-separated and relative to the output root.
	Path    string
	Content string
	// Lua is false for Vim script after/ hooks.
	Lua bool
}

// Render lays out b as artifacts, sorted the same way on every run.
func Render(b *bundle.Bundle) ([]Artifact, error) {
	r := renderer{}

	for _, c := range b.Components {
		id := c.ComponentID()
		if c.IsPlugin() {
			r.add(returnString(id), pluginDir, id)
		} else {
			r.add("return nil", pluginDir, id)
		}
		r.add(returnList(bundle.Members(c)), pluginsDir, id)

		pre, post := bundle.PrePost(c)
		r.add(bundle.Startup(c), startupDir, id)
		r.add(pre, preConfigDir, id)
		r.add(post, postConfigDir, id)

		deps, _ := b.Plan.Dependencies.Get(id)
		groupDeps, _ := b.Plan.GroupDependencies.Get(id)
		r.add(returnList(deps), dependPluginsDir, id)
		r.add(returnList(groupDeps), dependGroupsDir, id)

		if ref, ok := b.PluginPaths[id]; ok {
			r.add(returnString(ref), rtpDir, id)
		}
	}

	r.add(returnList(b.StartupIDs), startupKeys)
	r.index(b.Plan.Modules, moduleKeys, modulesDir)
	r.index(b.Plan.Events, eventKeys, eventsDir)
	r.index(b.Plan.Filetypes, filetypeKeys, filetypesDir)
	r.index(b.Plan.Commands, commandKeys, commandsDir)
	r.add(returnList(b.Plan.TimerClients), timerClients)
	r.add(returnSet(b.Plan.DenopsClients), denopsClients)

	r.add(returnString(b.Info.BundlerBin), infoDir, "bundler_bin")
	r.add(returnString(b.Info.Digest), infoDir, "payload_digest")
	r.add(returnString(b.Info.Target), infoDir, "target")

	for _, hook := range b.After {
		ext, isLua := ".lua", true
		if hook.Block.Language == payload.Vim {
			ext, isLua = ".vim", false
		}
		r.addFile(Artifact{Content: hook.Block.Code, Lua: isLua}, afterDir, hook.Category, hook.Key+ext)
	}

	if r.err != nil {
		return nil, r.err
	}
	return r.out, nil
}

type renderer struct {
	out  []Artifact
	seen map[string]bool
	// dirs holds every parent directory of an emitted path.
	dirs map[string]bool
	err  error
}

func (r *renderer) add(content string, segments ...string) {
	r.addFile(Artifact{Content: content, Lua: true}, segments...)
}

func (r *renderer) addFile(a Artifact, segments ...string) {
	if r.err != nil {
		return
	}
	for _, seg := range segments {
		if err := checkSegment(seg); err != nil {
			r.err = fmt.Errorf("cannot emit %q: %w", strings.Join(segments, "/"), err)
			return
		}
	}
	a.Path = path.Join(segments...)
	if r.seen == nil {
		r.seen = make(map[string]bool)
		r.dirs = make(map[string]bool)
	}
	if r.seen[a.Path] {
		r.err = fmt.Errorf("artifact %q emitted twice", a.Path)
		return
	}
	if r.dirs[a.Path] {
		r.err = fmt.Errorf("artifact %q clashes with a directory of the same name", a.Path)
		return
	}
	for dir := path.Dir(a.Path); dir != "."; dir = path.Dir(dir) {
		if r.seen[dir] {
			r.err = fmt.Errorf("artifact %q needs %q as a directory, but it is a file", a.Path, dir)
			return
		}
		r.dirs[dir] = true
	}
	r.seen[a.Path] = true
	r.out = append(r.out, a)
}

// index emits the key list of a trigger index and one id list per key. A key
// containing "/" is laid out as nested directories.
func (r *renderer) index(m multimap.Multimap, keysFile, dir string) {
	keys := m.Keys()
	r.add(returnList(keys), keysFile)
	for _, k := range keys {
		ids, _ := m.Get(k)
		r.add(returnList(ids), append([]string{dir}, strings.Split(k, "/")...)...)
	}
}

// checkSegment rejects names that cannot be used as a single file name.
func checkSegment(seg string) error {
	switch {
	case seg == "", seg == ".", seg == "..":
		return fmt.Errorf("%q is not a valid file name", seg)
	case strings.ContainsAny(seg, "/\\\x00"):
		return fmt.Errorf("%q contains a path separator or NUL", seg)
	}
	return nil
}
