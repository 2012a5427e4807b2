// Package brinefile parses Brinefile sources into a validated Document.
// A Brinefile is a line-oriented text format: `%section` marker lines
// open named sections, and every following non-blank, non-comment line
// belongs to the most recent section. The package is split into the
// section lexer (lexer.go), the per-section interpreters and the
// document builder (builder.go), and the parse error taxonomy
// (errors.go). Parsing is pure: no file system access, no global state.
package brinefile
