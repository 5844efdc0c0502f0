// Package programs resolves program directives: which application runs a
// program, with which executable and options, and the argv that runs it.
//
// The per-OS defaults live in an embedded TOML table that is loaded once
// and never mutated. User overrides produce a new Table.
package programs
