// Package jsonpayload loads bundler payloads written as JSON, the form the
// packaging layer generates, or as YAML for hand-written payloads.
//
// Documents are validated against an embedded JSON Schema before they are
// decoded, so structural mistakes are reported with a JSON pointer to the
// offending value.
package jsonpayload
