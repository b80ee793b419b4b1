package imports

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maxDefinitionBytes bounds the serialised definition a client has to load per tool
const maxDefinitionBytes = 6000

var toolNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

func TestRegisteredTools(t *testing.T) {
	registry.Init(testutils.CreateTestLogger())

	assert.Equal(t, []string{"format_json", "generate_string", "get_tool_help", "string_convert"}, registry.GetEnabledToolNames())
}

func TestToolDefinitions(t *testing.T) {
	registry.Init(testutils.CreateTestLogger())

	for name, tool := range registry.GetEnabledTools() {
		t.Run(name, func(t *testing.T) {
			def := tool.Definition()
			assert.Equal(t, name, def.Name)
			assert.Regexp(t, toolNamePattern, def.Name)
			assert.NotEmpty(t, def.Description)
			assert.Equal(t, "object", def.InputSchema.Type)

			for param, prop := range def.InputSchema.Properties {
				p, ok := prop.(map[string]any)
				require.True(t, ok, "parameter %s has no schema", param)
				assert.NotEmpty(t, p["description"], "parameter %s has no description", param)
			}
			for _, req := range def.InputSchema.Required {
				assert.Contains(t, def.InputSchema.Properties, req)
			}

			data, err := json.Marshal(def)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(data), maxDefinitionBytes, "definition of %s is too large", name)
		})
	}
}

func TestExtendedHelpCoverage(t *testing.T) {
	registry.Init(testutils.CreateTestLogger())

	// Every tool except the help tool itself documents its usage
	assert.Equal(t, []string{"format_json", "generate_string", "string_convert"}, registry.GetToolNamesWithExtendedHelp())
}
