// Package emit writes a compiled bundle as the directory tree read by the
// runtime loader. Every file is a small Lua chunk: either a snippet to run or
// a `return` of a string, a list or a set.
//
// Emission is split in three steps so each can be tested on its own: Render
// builds the artifacts in memory, Verify parses the Lua ones, and Write
// stages them next to the destination and moves the result into place.
package emit
