package hclpayload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/opencontainers/go-digest"
	"github.com/vk/nvimbundle/internal/ctxlog"
	"github.com/vk/nvimbundle/internal/fsutil"
	"github.com/vk/nvimbundle/internal/payload"
)

// Loader is the HCL-specific implementation of the payload.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL payload loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses path, a file or a directory of .hcl files, and merges every
// file into one payload. Files are read in lexical order.
func (l *Loader) Load(ctx context.Context, path string) (*payload.Payload, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find HCL files: %w", err)
	}
	if len(files) == 0 {
		return nil, &payload.MalformedError{Path: path, Err: errors.New("no .hcl files found")}
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	p := &payload.Payload{}
	idMap := make(map[string]string)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, malformed(file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, malformed(file, diags)
		}

		if err := l.merge(p, idMap, &root); err != nil {
			var diags hcl.Diagnostics
			if errors.As(err, &diags) {
				return nil, malformed(file, diags)
			}
			return nil, &payload.MalformedError{Path: file, Err: err}
		}
	}

	refs := make([]string, 0, len(idMap))
	for ref := range idMap {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	for _, ref := range refs {
		p.IDMap = append(p.IDMap, payload.IDMapEntry{PluginID: idMap[ref], Package: ref})
	}
	p.Info.Digest = sourceDigest(parser)

	logger.Debug("HCL loading complete.",
		"eager", len(p.EagerPlugins), "lazy", len(p.LazyPlugins), "groups", len(p.LazyGroups), "digest", p.Info.Digest)
	return p, nil
}

// merge translates one decoded file into p.
func (l *Loader) merge(p *payload.Payload, idMap map[string]string, root *fileRoot) error {
	if err := setOnce(&p.Info.Target, root.Target, "target"); err != nil {
		return err
	}
	if err := setOnce(&p.Info.BundlerBin, root.BundlerBin, "bundler_bin"); err != nil {
		return err
	}
	for ref, id := range root.IDMap {
		if prev, ok := idMap[ref]; ok && prev != id {
			return fmt.Errorf("id_map binds %q to both %q and %q", ref, prev, id)
		}
		idMap[ref] = id
	}

	var diags hcl.Diagnostics
	for _, ref := range root.EagerPlugins {
		p.EagerPlugins = append(p.EagerPlugins, &payload.EagerPlugin{Package: ref})
	}
	for _, b := range root.Eager {
		decl, d := l.translateEager(b)
		diags = append(diags, d...)
		p.EagerPlugins = append(p.EagerPlugins, decl)
	}

	lazy, d := l.dependencies(root.LazyPlugins, root.Lazy)
	diags = append(diags, d...)
	p.LazyPlugins = append(p.LazyPlugins, lazy...)

	for _, b := range root.Groups {
		group, d := l.translateGroup(b)
		diags = append(diags, d...)
		p.LazyGroups = append(p.LazyGroups, group)
	}
	if diags.HasErrors() {
		return diags
	}

	for _, b := range root.After {
		hook, err := l.translateAfter(b)
		if err != nil {
			return err
		}
		p.After = append(p.After, hook)
	}
	return nil
}

func setOnce(dst *string, val, name string) error {
	if val == "" {
		return nil
	}
	if *dst != "" && *dst != val {
		return fmt.Errorf("%s is set to both %q and %q", name, *dst, val)
	}
	*dst = val
	return nil
}

// malformed reports the first error diagnostic with its source range.
func malformed(file string, diags hcl.Diagnostics) error {
	e := &payload.MalformedError{Path: file, Err: diags}
	for _, diag := range diags {
		if diag.Severity == hcl.DiagError && diag.Subject != nil {
			e.Location = diag.Subject.String()
			break
		}
	}
	return e
}

// sourceDigest identifies the set of parsed files by name and content.
func sourceDigest(parser *hclparse.Parser) string {
	sources := parser.Sources()
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(name)
		buf.WriteByte(0)
		buf.Write(sources[name])
		buf.WriteByte(0)
	}
	return digest.FromBytes(buf.Bytes()).String()
}
