package adapter

import (
	"path/filepath"

	"github.com/limaronaldo/agentshield/ir"
)

// LangChainTool detects and loads langchain-style tool frameworks
// (Python `@tool`-decorated functions, JS `langchain/tools` modules).
type LangChainTool struct{}

func (LangChainTool) Framework() ir.Framework { return ir.FrameworkLangChainTool }

func (LangChainTool) Detect(root string) bool {
	if containsAny(filepath.Join(root, "package.json"), "langchain") {
		return true
	}
	if containsAny(filepath.Join(root, "requirements.txt"), "langchain") {
		return true
	}
	if containsAny(filepath.Join(root, "pyproject.toml"), "langchain") {
		return true
	}
	return grepTreeShallow(root, []string{".py", ".ts", ".js"},
		"from langchain", "import langchain", "langchain.tools", "StructuredTool")
}

func (a LangChainTool) Load(root string, ignoreTests bool) ([]ir.ScanTarget, error) {
	files, err := ParsedFiles(root, ignoreTests)
	if err != nil {
		return nil, err
	}

	target := ir.ScanTarget{
		Name:         filepath.Base(root),
		Framework:    ir.FrameworkLangChainTool,
		RootPath:     root,
		Dependencies: ParseDependencies(root),
		Provenance:   ParseProvenance(root),
		SourceFiles:  sourceFileRecords(files),
		Tools:        loadToolManifests(root),
	}
	mergeExecutionAndData(&target, files)

	return []ir.ScanTarget{target}, nil
}
