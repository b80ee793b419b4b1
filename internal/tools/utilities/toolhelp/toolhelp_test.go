package toolhelp

import (
	"testing"

	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/testutils"
	"github.com/sammcj/mcp-stringutils/internal/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type helpfulTool struct {
	*testutils.MockTool
}

func (h helpfulTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse: "always",
		Examples: []tools.ToolExample{
			{Description: "demo", Arguments: map[string]any{"input": "x"}, ExpectedResult: "mock result"},
		},
		Troubleshooting: []tools.TroubleshootingTip{{Problem: "p", Solution: "s"}},
	}
}

func setup(t *testing.T) *ToolHelpTool {
	t.Helper()
	t.Setenv("DISABLED_TOOLS", "")
	registry.Init(testutils.CreateTestLogger())
	registry.Register(helpfulTool{testutils.NewMockTool("helpful_tool")})
	registry.Register(testutils.NewMockTool("plain_tool"))
	return &ToolHelpTool{}
}

func TestDefinitionListsToolsWithExtendedHelp(t *testing.T) {
	tool := setup(t)
	def := tool.Definition()
	assert.Equal(t, "get_tool_help", def.Name)

	prop, ok := def.InputSchema.Properties["tool_name"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, prop["enum"], "helpful_tool")
	assert.NotContains(t, prop["enum"], "plain_tool")
}

func TestExecuteReturnsExtendedHelp(t *testing.T) {
	tool := setup(t)
	result, err := tool.Execute(testutils.CreateTestContext(), testutils.CreateTestLogger(), testutils.CreateTestCache(), map[string]any{"tool_name": "helpful-tool"})
	require.NoError(t, err)

	var resp ToolHelpResponse
	testutils.DecodeResult(t, result, &resp)
	assert.Equal(t, "helpful_tool", resp.ToolName)
	assert.True(t, resp.HasExtendedInfo)
	require.NotNil(t, resp.ExtendedInfo)
	assert.Equal(t, "always", resp.ExtendedInfo.WhenToUse)
	require.Len(t, resp.ExtendedInfo.Examples, 1)
	assert.Equal(t, "demo", resp.ExtendedInfo.Examples[0].Description)
	assert.Equal(t, []TroubleshootingData{{Problem: "p", Solution: "s"}}, resp.ExtendedInfo.Troubleshooting)
}

func TestExecuteErrors(t *testing.T) {
	tool := setup(t)
	ctx, logger, cache := testutils.CreateTestContext(), testutils.CreateTestLogger(), testutils.CreateTestCache()

	_, err := tool.Execute(ctx, logger, cache, map[string]any{})
	assert.ErrorContains(t, err, "tool_name")

	_, err = tool.Execute(ctx, logger, cache, map[string]any{"tool_name": "plain_tool"})
	assert.ErrorContains(t, err, "does not provide extended help")

	_, err = tool.Execute(ctx, logger, cache, map[string]any{"tool_name": "missing_tool"})
	assert.ErrorContains(t, err, "not found")
}
