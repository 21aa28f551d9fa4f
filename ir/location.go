// Package ir defines the intermediate representation shared by every
// parser, adapter, and detector in the scanner: scan targets, their
// capability surfaces, the taint lattice, and findings.
package ir

// Location identifies a single point in a source file. Both Line and
// Column are 1-based — report integrations are a frequent source of
// off-by-one bugs, so every producer in this module must honor that.
type Location struct {
	File   string
	Line   int
	Column int
}

// Valid reports whether the location has sane 1-based coordinates.
func (l Location) Valid() bool {
	return l.File != "" && l.Line >= 1 && l.Column >= 1
}
