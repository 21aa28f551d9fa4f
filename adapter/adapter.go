// Package adapter implements framework detection and the parse →
// analyze → merge pipeline that turns a source tree into one or more
// ScanTargets. Adapters share file-walking, dependency-parsing, and
// provenance helpers but never share detector state.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser"
	"github.com/limaronaldo/agentshield/parser/javascript"
	"github.com/limaronaldo/agentshield/parser/python"
	"github.com/limaronaldo/agentshield/parser/shell"
	"github.com/limaronaldo/agentshield/sanitize"
)

// Adapter detects a framework's presence in a source tree and loads it
// into one or more ScanTargets.
type Adapter interface {
	// Framework returns this adapter's identifying tag.
	Framework() ir.Framework
	// Detect is a cheap evidence check; it must never depend on parser
	// output (manifest presence, import grep, schema files).
	Detect(root string) bool
	// Load runs the 3-phase pipeline: parse every candidate file,
	// cross-file-sanitize, then merge into ScanTargets.
	Load(root string, ignoreTests bool) ([]ir.ScanTarget, error)
}

var sourceExtensions = map[string]bool{
	".py": true, ".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".sh": true, ".bash": true,
}

// testDirComponents are directory path components that mark a subtree
// as test-only.
var testDirComponents = map[string]bool{
	"test": true, "tests": true, "__tests__": true, "__pycache__": true,
}

var testFileSuffixes = []string{
	".test.ts", ".test.js", ".test.tsx", ".test.jsx", ".test.py",
	".spec.ts", ".spec.js", ".spec.tsx", ".spec.jsx",
}

var testFileExactNames = map[string]bool{
	"conftest.py": true, "pytest.ini": true, "setup.cfg": true,
}

// isTestFile reports whether a path should be excluded from scanning
// per the union of exclusion rules: a test-marked directory component,
// a recognized test-file suffix, a `test_*.py` filename, or a known
// test-tooling config filename.
func isTestFile(path string) bool {
	dir, base := filepath.Split(path)
	for _, comp := range strings.Split(filepath.ToSlash(dir), "/") {
		if testDirComponents[strings.ToLower(comp)] {
			return true
		}
	}
	baseLower := strings.ToLower(base)
	for _, suf := range testFileSuffixes {
		if strings.HasSuffix(baseLower, suf) {
			return true
		}
	}
	if strings.HasPrefix(baseLower, "test_") && strings.HasSuffix(baseLower, ".py") {
		return true
	}
	if testFileExactNames[baseLower] {
		return true
	}
	if strings.HasPrefix(baseLower, "jest.config.") || strings.HasPrefix(baseLower, "vitest.config.") {
		return true
	}
	return false
}

// walkSourceFiles enumerates candidate source files under root,
// applying the test-file exclusion rules when ignoreTests is set. File
// order is lexical (filepath.Walk's own order), which keeps scans
// deterministic.
func walkSourceFiles(root string, ignoreTests bool) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if ignoreTests && isTestFile(path) {
			return nil
		}
		if sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// parserFor selects the language-appropriate parser for a file
// extension, or nil if the file isn't a recognized source language.
func parserFor(path string) parser.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return python.New()
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx":
		return javascript.New()
	case ".sh", ".bash":
		return shell.New()
	default:
		return nil
	}
}

// ParsedFiles walks root, parses every candidate source file, and runs
// cross-file sanitization over the resulting set. ParseError is
// non-fatal at the file boundary: a file that fails to parse
// contributes no records and a diagnostic is not raised further, per
// §7's propagation policy.
func ParsedFiles(root string, ignoreTests bool) ([]*parser.ParsedFile, error) {
	paths, err := walkSourceFiles(root, ignoreTests)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	var files []*parser.ParsedFile
	for _, path := range paths {
		lp := parserFor(path)
		if lp == nil {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			// IoError on a required input aborts the scan; a source
			// file enumerated by the walk must be readable.
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		pf, err := lp.Parse(path, src)
		if err != nil {
			// ParseError: non-fatal, file contributes no records.
			continue
		}
		files = append(files, pf)
	}

	sanitize.Analyze(files)
	return files, nil
}

// sourceFileRecords converts parsed files into the ScanTarget's ordered
// source_files list.
func sourceFileRecords(files []*parser.ParsedFile) []ir.SourceFile {
	out := make([]ir.SourceFile, 0, len(files))
	for _, f := range files {
		out = append(out, ir.SourceFile{Path: f.Path, Language: f.Language})
	}
	return out
}

// mergeExecutionAndData folds every parsed file's operation lists into
// the ScanTarget's ExecutionSurface and DataSurface.
func mergeExecutionAndData(target *ir.ScanTarget, files []*parser.ParsedFile) {
	for _, f := range files {
		target.Execution.Commands = append(target.Execution.Commands, f.Commands...)
		target.Execution.FileOps = append(target.Execution.FileOps, f.FileOps...)
		target.Execution.NetworkOps = append(target.Execution.NetworkOps, f.NetworkOps...)
		target.Execution.DynamicExec = append(target.Execution.DynamicExec, f.DynamicExec...)
		target.Execution.EnvReads = append(target.Execution.EnvReads, f.EnvReads...)

		target.Data.Sinks = append(target.Data.Sinks, f.FileOps...)
		target.Data.Sinks = append(target.Data.Sinks, f.NetworkOps...)
	}
}
