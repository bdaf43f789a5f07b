// Package cli parses command-line arguments, validates user input and maps
// usage errors to exit codes. It translates CLI flags into app.Config.
package cli
