// Package app wires the bundler together: it picks a payload loader, compiles
// the payload into a bundle and either emits it or prints a summary. It is
// decoupled from any specific entrypoint like a CLI.
package app
