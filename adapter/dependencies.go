package adapter

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/limaronaldo/agentshield/ir"
)

var lockfileNames = []string{
	"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"poetry.lock", "Pipfile.lock",
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type pyprojectDoc struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// requirementPattern splits a requirements.txt line into a package name
// and its version constraint (everything from the first operator on).
var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9_.\-]+)\s*(.*)$`)

// ParseDependencies reads package manifests (package.json,
// requirements.txt, pyproject.toml) under root and reports whether any
// recognized lockfile accompanies them.
func ParseDependencies(root string) ir.DependencySurface {
	surface := ir.DependencySurface{}

	if deps, manifest, ok := parsePackageJSON(root); ok {
		surface.Dependencies = append(surface.Dependencies, deps...)
		surface.ManifestPath = manifest
	}
	if deps, manifest, ok := parseRequirementsTxt(root); ok {
		surface.Dependencies = append(surface.Dependencies, deps...)
		if surface.ManifestPath == "" {
			surface.ManifestPath = manifest
		}
	}
	if deps, manifest, ok := parsePyproject(root); ok {
		surface.Dependencies = append(surface.Dependencies, deps...)
		if surface.ManifestPath == "" {
			surface.ManifestPath = manifest
		}
	}

	for _, name := range lockfileNames {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			surface.HasLockfile = true
			break
		}
	}
	return surface
}

func parsePackageJSON(root string) ([]ir.Dependency, string, bool) {
	path := filepath.Join(root, "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, "", false
	}
	var deps []ir.Dependency
	for name, constraint := range pkg.Dependencies {
		deps = append(deps, ir.Dependency{Name: name, Constraint: constraint, Ecosystem: "npm"})
	}
	for name, constraint := range pkg.DevDependencies {
		deps = append(deps, ir.Dependency{Name: name, Constraint: constraint, Ecosystem: "npm"})
	}
	return deps, path, true
}

func parseRequirementsTxt(root string) ([]ir.Dependency, string, bool) {
	path := filepath.Join(root, "requirements.txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, "", false
	}
	defer f.Close()

	var deps []ir.Dependency
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		m := requirementPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		deps = append(deps, ir.Dependency{Name: m[1], Constraint: strings.TrimSpace(m[2]), Ecosystem: "pypi"})
	}
	return deps, path, true
}

func parsePyproject(root string) ([]ir.Dependency, string, bool) {
	path := filepath.Join(root, "pyproject.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", false
	}
	var doc pyprojectDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, "", false
	}

	var deps []ir.Dependency
	for _, entry := range doc.Project.Dependencies {
		m := requirementPattern.FindStringSubmatch(strings.TrimSpace(entry))
		if m == nil {
			continue
		}
		deps = append(deps, ir.Dependency{Name: m[1], Constraint: strings.TrimSpace(m[2]), Ecosystem: "pypi"})
	}
	for name, raw := range doc.Tool.Poetry.Dependencies {
		constraint := ""
		if s, ok := raw.(string); ok {
			constraint = s
		}
		deps = append(deps, ir.Dependency{Name: name, Constraint: constraint, Ecosystem: "pypi"})
	}
	return deps, path, true
}
