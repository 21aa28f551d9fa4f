package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/limaronaldo/agentshield/ir"
)

type packageJSONProvenance struct {
	Author  json.RawMessage `json:"author"`
	License string          `json:"license"`
	Repository json.RawMessage `json:"repository"`
}

// ParseProvenance reads author/license/repository metadata from
// package.json, falling back to the name of a bare LICENSE file for the
// license field when package.json is absent or declares no license.
func ParseProvenance(root string) ir.Provenance {
	var prov ir.Provenance

	if data, err := os.ReadFile(filepath.Join(root, "package.json")); err == nil {
		var pkg packageJSONProvenance
		if json.Unmarshal(data, &pkg) == nil {
			prov.Author = authorString(pkg.Author)
			prov.License = pkg.License
			prov.Repository = repositoryString(pkg.Repository)
		}
	}

	if prov.License == "" {
		if name, ok := findLicenseFile(root); ok {
			prov.License = name
		}
	}
	return prov
}

func authorString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Name
	}
	return ""
}

func repositoryString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		URL string `json:"url"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.URL
	}
	return ""
}

func findLicenseFile(root string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.ToUpper(e.Name())
		if strings.HasPrefix(name, "LICENSE") || strings.HasPrefix(name, "LICENCE") {
			return e.Name(), true
		}
	}
	return "", false
}
