// Package parser defines the per-file contract every language front end
// implements (ParsedFile and the Parser interface). The language-specific
// parsers live in its subpackages.
package parser

import "github.com/limaronaldo/agentshield/ir"

// ParsedFile is what a language parser produces for one source file:
// the operation lists that feed ExecutionSurface/DataSurface, the
// function/call-site facts the cross-file sanitizer needs, and any
// diagnostics from degraded (but non-fatal) parsing.
type ParsedFile struct {
	Path     string
	Language string

	Commands    []ir.Operation
	FileOps     []ir.Operation
	NetworkOps  []ir.Operation
	DynamicExec []ir.Operation
	EnvReads    []ir.EnvVarRead

	Functions []ir.FunctionDef
	CallSites []ir.CallSite

	// SanitizedVars maps a variable name to the sanitizer callee that
	// produced it, for variables bound to a recognized sanitizer's
	// return value within this file.
	SanitizedVars map[string]string

	// Diagnostics holds non-fatal parse diagnostics (degraded
	// subregions, recoverable syntax errors). Parsing never aborts on
	// malformed input; at worst it yields Unknown argument sources.
	Diagnostics []string
}

// NewParsedFile returns an empty, ready-to-populate ParsedFile.
func NewParsedFile(path, language string) *ParsedFile {
	return &ParsedFile{
		Path:          path,
		Language:      language,
		SanitizedVars: make(map[string]string),
	}
}

// AllOperations returns every sink operation recorded in the file,
// across all categories — used by the cross-file sanitizer, which
// rewrites operations regardless of which surface they eventually feed.
func (p *ParsedFile) AllOperations() []*ir.Operation {
	ops := make([]*ir.Operation, 0, len(p.Commands)+len(p.FileOps)+len(p.NetworkOps)+len(p.DynamicExec))
	for i := range p.Commands {
		ops = append(ops, &p.Commands[i])
	}
	for i := range p.FileOps {
		ops = append(ops, &p.FileOps[i])
	}
	for i := range p.NetworkOps {
		ops = append(ops, &p.NetworkOps[i])
	}
	for i := range p.DynamicExec {
		ops = append(ops, &p.DynamicExec[i])
	}
	return ops
}

// Parser is the public contract every language front end implements.
type Parser interface {
	// Language returns the language tag this parser emits ("python",
	// "javascript", "typescript", "shell").
	Language() string
	// Parse extracts structured facts from one file's bytes. It must
	// not raise on malformed input — unrecoverable subregions degrade
	// to Unknown argument sources rather than aborting. The only fatal
	// condition is unreadable input, which is the caller's concern
	// (the caller reads the file before calling Parse).
	Parse(path string, src []byte) (*ParsedFile, error)
}
