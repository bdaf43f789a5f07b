// Package payload defines the format-agnostic input model of the bundler:
// the plugin declarations, their configuration blocks and the identity table,
// along with the Loader interface implemented by the format-specific
// packages (jsonpayload, hclpayload).
//
// Everything downstream of a Loader works only with these types, so adding
// an input format never touches the compiler itself.
package payload
