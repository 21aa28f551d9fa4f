package adapter

// DefaultRegistry returns every built-in adapter in a fixed, stable
// registration order. All claiming adapters run; a repository may
// yield one ScanTarget per matching framework.
func DefaultRegistry() []Adapter {
	return []Adapter{
		MCP{},
		LangChainTool{},
		SkillManifest{},
	}
}
