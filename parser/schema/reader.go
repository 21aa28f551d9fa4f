// Package schema reads JSON tool manifests (MCP server manifests,
// langchain-style tool declarations, bare JSON Schema documents) into
// ToolSurface records.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/limaronaldo/agentshield/ir"
)

// toolEntry is the JSON shape of one declared tool, permissive enough
// to match MCP's `{"name", "inputSchema", "permissions"}` and the
// langchain-tool convention of the same fields under different casing
// (handled by trying both keys).
type toolEntry struct {
	Name            string         `json:"name"`
	InputSchema     map[string]any `json:"inputSchema"`
	InputSchemaSnek map[string]any `json:"input_schema"`
	Permissions     []string       `json:"permissions"`
}

func (t toolEntry) schema() map[string]any {
	if t.InputSchema != nil {
		return t.InputSchema
	}
	return t.InputSchemaSnek
}

type manifestDoc struct {
	Tools []toolEntry `json:"tools"`
}

// ReadToolManifest parses a JSON document and extracts every declared
// tool into a ToolSurface. It accepts three shapes: a top-level
// `{"tools": [...]}` manifest, a bare array of tool objects, or a
// single tool object.
func ReadToolManifest(path string, src []byte) ([]ir.ToolSurface, error) {
	trimmed := bytes.TrimSpace(src)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var entries []toolEntry

	var doc manifestDoc
	if err := json.Unmarshal(trimmed, &doc); err == nil && len(doc.Tools) > 0 {
		entries = doc.Tools
	} else if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("parsing tool manifest array %s: %w", path, err)
		}
	} else {
		var single toolEntry
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("parsing tool manifest %s: %w", path, err)
		}
		if single.Name != "" {
			entries = []toolEntry{single}
		}
	}

	surfaces := make([]ir.ToolSurface, 0, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		surfaces = append(surfaces, ir.ToolSurface{
			Name:        e.Name,
			InputSchema: e.schema(),
			Permissions: e.Permissions,
			Location:    locateName(path, src, e.Name),
		})
	}
	return surfaces, nil
}

// locateName makes a best-effort attempt to find the line on which a
// tool's name field appears in the raw source, for attaching a usable
// Location to findings about declared tools. A name that occurs more
// than once resolves to its first occurrence; falls back to line 1 when
// the name can't be located textually (e.g. written with JSON escapes).
func locateName(path string, src []byte, name string) ir.Location {
	needle := []byte(`"` + name + `"`)
	idx := bytes.Index(src, needle)
	if idx == -1 {
		return ir.Location{File: path, Line: 1, Column: 1}
	}
	line := bytes.Count(src[:idx], []byte("\n")) + 1
	lastNL := bytes.LastIndexByte(src[:idx], '\n')
	column := idx - lastNL
	return ir.Location{File: path, Line: line, Column: column}
}
