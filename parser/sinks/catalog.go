// Package sinks holds the static, data-only pattern tables that every
// language parser consults to classify a call site as a sink (or a
// sanitizer). Per spec.md §9 ("pattern tables are data"), additions to
// these tables must never require touching detector code — the tables
// are the extensibility axis, not the rule engine.
package sinks

import (
	_ "embed"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category classifies a recognized sink.
type Category string

const (
	CategoryCommand     Category = "command"
	CategoryNetwork     Category = "network"
	CategoryFile        Category = "file"
	CategoryDynamicExec Category = "dynamic_exec"
)

//go:embed catalog.yaml
var catalogYAML []byte

// catalogDoc is the on-disk shape of catalog.yaml — the literal
// pattern tables every parser consults. Editing this file is the whole
// extensibility story: nothing in Go changes when a sink or sanitizer
// is added.
type catalogDoc struct {
	CommandCatalog         []string   `yaml:"command_catalog"`
	NetworkPrefixes        []string   `yaml:"network_prefixes"`
	NetworkExact           []string   `yaml:"network_exact"`
	FileCatalog            []string   `yaml:"file_catalog"`
	DynamicExecCatalog     []string   `yaml:"dynamic_exec_catalog"`
	ShellCommandCatalog    []string   `yaml:"shell_command_catalog"`
	PackageInstallPrefixes [][]string `yaml:"package_install_prefixes"`
	SanitizerNames         []string   `yaml:"sanitizer_names"`
	SanitizerGlobs         []string   `yaml:"sanitizer_globs"`
}

var (
	commandCatalog         []string
	networkPrefixes        []string
	networkExact           []string
	fileCatalog            []string
	dynamicExecCatalog     []string
	shellCommandCatalog    []string
	packageInstallPrefixes [][2]string
	sanitizerNames         map[string]bool
	sanitizerGlobs         []string
)

func init() {
	var doc catalogDoc
	if err := yaml.Unmarshal(catalogYAML, &doc); err != nil {
		panic("sinks: malformed catalog.yaml: " + err.Error())
	}

	commandCatalog = doc.CommandCatalog
	networkPrefixes = doc.NetworkPrefixes
	networkExact = doc.NetworkExact
	fileCatalog = doc.FileCatalog
	dynamicExecCatalog = doc.DynamicExecCatalog
	shellCommandCatalog = doc.ShellCommandCatalog
	sanitizerGlobs = doc.SanitizerGlobs

	packageInstallPrefixes = make([][2]string, 0, len(doc.PackageInstallPrefixes))
	for _, pair := range doc.PackageInstallPrefixes {
		if len(pair) != 2 {
			panic("sinks: package_install_prefixes entries must have exactly two tokens")
		}
		packageInstallPrefixes = append(packageInstallPrefixes, [2]string{pair[0], pair[1]})
	}

	sanitizerNames = make(map[string]bool, len(doc.SanitizerNames))
	for _, n := range doc.SanitizerNames {
		sanitizerNames[n] = true
	}
}

// lastSegment returns the rightmost dotted segment of a dotted callee,
// e.g. "repo.git.log" -> "log".
func lastSegment(callee string) string {
	idx := strings.LastIndex(callee, ".")
	if idx == -1 {
		return callee
	}
	return callee[idx+1:]
}

func matchExact(callee string, table []string) bool {
	for _, c := range table {
		if callee == c {
			return true
		}
	}
	return false
}

func matchPrefix(callee string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(callee, p) && len(callee) > len(p) {
			return true
		}
	}
	return false
}

// IsCommandSink reports whether callee is a recognized command-exec sink.
func IsCommandSink(callee string) bool {
	if matchExact(callee, commandCatalog) {
		return true
	}
	return IsLibraryGitDispatch(callee)
}

// IsLibraryGitDispatch recognizes the dynamic dispatcher idiom of the
// Git library: any dotted-path call of the form "<var>.git.<method>(…)"
// is semantically a shell invocation, per spec §4.1.
func IsLibraryGitDispatch(callee string) bool {
	parts := strings.Split(callee, ".")
	if len(parts) < 3 {
		return false
	}
	// A ".git." segment anywhere but the first and last position marks
	// the Git-library dynamic dispatcher idiom (e.g. "repo.git.log").
	for i := 1; i < len(parts)-1; i++ {
		if parts[i] == "git" {
			return true
		}
	}
	return false
}

// IsNetworkSink reports whether callee is a recognized network sink.
// Namespace members (requests.*, httpx.*, axios.*) match by prefix; a
// handful of names (fetch, urllib.request.urlopen) match exactly. The
// async-context-manager binding rule (client.get(...) after `async
// with AsyncClient() as client`) is resolved by the Python parser,
// which emits the Operation directly rather than consulting this
// catalog — by the time a parser asks this function "is <expr> a
// sink", the namespace is already known.
func IsNetworkSink(callee string) bool {
	return matchPrefix(callee, networkPrefixes) || matchExact(callee, networkExact)
}

// IsFileSink reports whether callee is a recognized file-operation sink.
func IsFileSink(callee string) bool {
	return matchExact(callee, fileCatalog)
}

// IsDynamicExecSink reports whether callee is a dynamic-exec sink.
func IsDynamicExecSink(callee string) bool {
	return matchExact(callee, dynamicExecCatalog)
}

// IsShellCommand reports whether cmd (a line's leading token) is a
// recognized shell command-execution sink.
func IsShellCommand(cmd string) bool {
	return matchExact(cmd, shellCommandCatalog)
}

// IsPackageInstallInvocation reports whether the first two whitespace
// tokens of a shell line match a known runtime package-install idiom
// (pip install, npm install, apt install, ...).
func IsPackageInstallInvocation(first, second string) bool {
	for _, p := range packageInstallPrefixes {
		if first == p[0] && second == p[1] {
			return true
		}
	}
	return false
}

// IsPackageInstallCallee reports whether callee is the space-joined
// "<cmd> <subcommand>" form the shell parser records for a recognized
// package-install invocation (e.g. "pip install").
func IsPackageInstallCallee(callee string) bool {
	parts := strings.SplitN(callee, " ", 2)
	if len(parts) != 2 {
		return false
	}
	return IsPackageInstallInvocation(parts[0], parts[1])
}

// IsSanitizer reports whether name (or its rightmost dotted segment)
// is a recognized sanitizer, by exact catalog membership or by one of
// the case-insensitive globs.
func IsSanitizer(name string) bool {
	seg := lastSegment(name)
	if sanitizerNames[name] || sanitizerNames[seg] {
		return true
	}
	lower := strings.ToLower(seg)
	for _, g := range sanitizerGlobs {
		if globMatch(lower, strings.ToLower(g)) {
			return true
		}
	}
	return false
}

// globMatch matches s against a glob pattern using path.Match, which
// supports the '*' and '?' wildcards the sanitizer globs need (no
// pattern here contains '/', so path.Match's segment-boundary
// semantics are inert).
func globMatch(s, pattern string) bool {
	ok, err := path.Match(pattern, s)
	if err != nil {
		return false
	}
	return ok
}
