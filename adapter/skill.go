package adapter

import (
	"os"
	"path/filepath"

	"github.com/limaronaldo/agentshield/ir"
)

var skillManifestNames = []string{"skill.json", "SKILL.md", "skill.yaml", "skill.yml"}

// SkillManifest detects and loads generic agent-skill extensions: a
// top-level skill manifest declaring one or more tools, with no
// framework-specific SDK import required.
type SkillManifest struct{}

func (SkillManifest) Framework() ir.Framework { return ir.FrameworkSkillManifest }

func (SkillManifest) Detect(root string) bool {
	for _, name := range skillManifestNames {
		if _, err := os.Stat(filepath.Join(root, name)); err == nil {
			return true
		}
	}
	return false
}

func (a SkillManifest) Load(root string, ignoreTests bool) ([]ir.ScanTarget, error) {
	files, err := ParsedFiles(root, ignoreTests)
	if err != nil {
		return nil, err
	}

	target := ir.ScanTarget{
		Name:         filepath.Base(root),
		Framework:    ir.FrameworkSkillManifest,
		RootPath:     root,
		Dependencies: ParseDependencies(root),
		Provenance:   ParseProvenance(root),
		SourceFiles:  sourceFileRecords(files),
		Tools:        loadToolManifests(root),
	}
	mergeExecutionAndData(&target, files)

	return []ir.ScanTarget{target}, nil
}
