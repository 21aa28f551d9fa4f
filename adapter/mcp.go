package adapter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
	"github.com/limaronaldo/agentshield/parser/schema"
)

// MCP detects and loads Model Context Protocol server extensions.
type MCP struct{}

func (MCP) Framework() ir.Framework { return ir.FrameworkMCP }

func (MCP) Detect(root string) bool {
	if containsAny(filepath.Join(root, "package.json"), "@modelcontextprotocol/sdk", "mcp-server") {
		return true
	}
	if containsAny(filepath.Join(root, "requirements.txt"), "mcp") {
		return true
	}
	if containsAny(filepath.Join(root, "pyproject.toml"), "mcp") {
		return true
	}
	return grepTreeShallow(root, []string{".py", ".ts", ".js"}, "from mcp", "import mcp", "@modelcontextprotocol")
}

func (m MCP) Load(root string, ignoreTests bool) ([]ir.ScanTarget, error) {
	files, err := ParsedFiles(root, ignoreTests)
	if err != nil {
		return nil, err
	}

	target := ir.ScanTarget{
		Name:         filepath.Base(root),
		Framework:    ir.FrameworkMCP,
		RootPath:     root,
		Dependencies: ParseDependencies(root),
		Provenance:   ParseProvenance(root),
		SourceFiles:  sourceFileRecords(files),
	}
	mergeExecutionAndData(&target, files)
	target.Tools = loadToolManifests(root)

	return []ir.ScanTarget{target}, nil
}

// loadToolManifests scans for JSON tool-manifest files (MCP server
// manifests, standalone schema files) and extracts their declared
// tools.
func loadToolManifests(root string) []ir.ToolSurface {
	var tools []ir.ToolSurface
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		base := strings.ToLower(info.Name())
		if filepath.Ext(base) != ".json" {
			return nil
		}
		if !strings.Contains(base, "mcp") && !strings.Contains(base, "tool") && base != "manifest.json" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		found, err := schema.ReadToolManifest(path, data)
		if err != nil {
			return nil
		}
		tools = append(tools, found...)
		return nil
	})
	return tools
}

func containsAny(path string, needles ...string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	text := string(data)
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// grepTreeShallow does a cheap, non-recursive-beyond-one-level scan of
// files with the given extensions for any of the needles, used only by
// Detect (never parser output).
func grepTreeShallow(root string, exts []string, needles ...string) bool {
	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !extSet[filepath.Ext(e.Name())] {
			continue
		}
		if containsAny(filepath.Join(root, e.Name()), needles...) {
			return true
		}
	}
	return false
}
