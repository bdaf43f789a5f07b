// Package hclpayload loads bundler payloads written in HCL native syntax,
// from a single file or from every .hcl file below a directory.
//
// Config attributes take either a Lua string or an object:
//
//	startup_config = "require('foo').setup()"
//	pre_config     = { language = "vim", code = "let g:foo = 1", args = { a = 1 } }
package hclpayload
