package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadToolManifest_MCPShape(t *testing.T) {
	src := []byte(`{
  "tools": [
    {
      "name": "read_file",
      "inputSchema": {"type": "object", "properties": {"path": {"type": "string"}}},
      "permissions": ["fs:read"]
    }
  ]
}`)
	tools, err := ReadToolManifest("manifest.json", src)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "read_file", tools[0].Name)
	require.Len(t, tools[0].Permissions, 1)
	assert.Equal(t, "fs:read", tools[0].Permissions[0])
	assert.GreaterOrEqual(t, tools[0].Location.Line, 2)
}

func TestReadToolManifest_BareArray(t *testing.T) {
	src := []byte(`[{"name": "run_query", "input_schema": {"type": "object"}}]`)
	tools, err := ReadToolManifest("tools.json", src)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "run_query", tools[0].Name)
	assert.NotNil(t, tools[0].InputSchema, "expected input_schema to be picked up under its snake_case key")
}

func TestReadToolManifest_SingleObject(t *testing.T) {
	src := []byte(`{"name": "solo_tool", "inputSchema": {"type": "object"}}`)
	tools, err := ReadToolManifest("solo.json", src)
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "solo_tool", tools[0].Name)
}

func TestReadToolManifest_EmptyInput(t *testing.T) {
	tools, err := ReadToolManifest("empty.json", []byte("   "))
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestReadToolManifest_InvalidJSON(t *testing.T) {
	_, err := ReadToolManifest("broken.json", []byte("{not json"))
	assert.Error(t, err)
}
