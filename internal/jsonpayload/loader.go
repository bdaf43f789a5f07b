package jsonpayload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/opencontainers/go-digest"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/vk/nvimbundle/internal/ctxlog"
	"github.com/vk/nvimbundle/internal/payload"
	"gopkg.in/yaml.v3"
)

// Format selects how the document bytes are read.
type Format int

const (
	// FormatAuto picks YAML for .yaml/.yml files and JSON otherwise.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

// Loader is the JSON/YAML implementation of the payload.Loader interface.
type Loader struct {
	format Format
}

// NewLoader creates a loader for the given format.
func NewLoader(format Format) *Loader {
	return &Loader{format: format}
}

// Load reads, validates and decodes the payload at path.
func (l *Loader) Load(ctx context.Context, path string) (*payload.Payload, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("JSON loader started.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	p, err := l.Decode(ctx, path, data)
	if err != nil {
		return nil, err
	}
	logger.Debug("JSON loading complete.",
		"eager", len(p.EagerPlugins), "lazy", len(p.LazyPlugins), "groups", len(p.LazyGroups), "digest", p.Info.Digest)
	return p, nil
}

// Decode is Load without the file access. name is only used in errors.
func (l *Loader) Decode(ctx context.Context, name string, data []byte) (*payload.Payload, error) {
	if l.isYAML(name) {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, &payload.MalformedError{Path: name, Err: err}
		}
		ctxlog.FromContext(ctx).Debug("Converted YAML payload to JSON.", "bytes", len(converted))
		data = converted
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, &payload.MalformedError{Path: name, Location: syntaxLocation(err), Err: err}
	}
	if location, err := validate(instance); err != nil {
		return nil, &payload.MalformedError{Path: name, Location: location, Err: err}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &payload.MalformedError{Path: name, Location: syntaxLocation(err), Err: err}
	}

	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return nil, &payload.MalformedError{Path: name, Err: fmt.Errorf("canonicalization failed: %w", err)}
	}

	p := doc.toPayload()
	p.Info.Digest = digest.FromBytes(canonical).String()
	return p, nil
}

func (l *Loader) isYAML(name string) bool {
	switch l.format {
	case FormatYAML:
		return true
	case FormatJSON:
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func syntaxLocation(err error) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("offset %d", syntaxErr.Offset)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field != "" {
			return fmt.Sprintf("%s (offset %d)", typeErr.Field, typeErr.Offset)
		}
		return fmt.Sprintf("offset %d", typeErr.Offset)
	}
	return ""
}

// yamlToJSON re-encodes a YAML document as JSON. YAML 1.2 rules apply, so
// unquoted y, n, on and off stay strings.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue(doc))
}

// jsonValue converts mappings with non-string keys, which encoding/json
// cannot marshal, into string-keyed maps.
func jsonValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, elem := range v {
			v[k] = jsonValue(elem)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			out[fmt.Sprint(k)] = jsonValue(elem)
		}
		return out
	case []any:
		for i, elem := range v {
			v[i] = jsonValue(elem)
		}
		return v
	}
	return v
}
