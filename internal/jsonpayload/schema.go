package jsonpayload

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/vk/nvimbundle/payload.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to add payload schema: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile payload schema: %w", err)
	}
	return sch, nil
})

// validate checks an already-unmarshaled instance. On failure it returns the
// JSON pointer of the most specific violation alongside the error.
func validate(instance any) (string, error) {
	sch, err := compiledSchema()
	if err != nil {
		return "", err
	}
	err = sch.Validate(instance)
	if err == nil {
		return "", nil
	}
	var valErr *jsonschema.ValidationError
	if !errors.As(err, &valErr) {
		return "", err
	}
	return pointer(deepestCause(valErr).InstanceLocation), valErr
}

func deepestCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

func pointer(location []string) string {
	if len(location) == 0 {
		return "/"
	}
	escaped := make([]string, len(location))
	for i, tok := range location {
		escaped[i] = strings.ReplaceAll(strings.ReplaceAll(tok, "~", "~0"), "/", "~1")
	}
	return "/" + strings.Join(escaped, "/")
}
