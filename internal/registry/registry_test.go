package registry

import (
	"testing"

	"github.com/sammcj/mcp-stringutils/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	Init(testutils.CreateTestLogger())
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, GetCache())
}

func TestRegisterAndGetTool(t *testing.T) {
	t.Setenv("DISABLED_TOOLS", "")
	Init(testutils.CreateTestLogger())

	Register(testutils.NewMockTool("mock_tool"))

	tool, ok := GetTool("mock_tool")
	require.True(t, ok)
	assert.Equal(t, "mock_tool", tool.Definition().Name)

	_, ok = GetTool("mock-tool")
	assert.True(t, ok, "hyphenated names resolve")

	_, ok = GetTool("no_such_tool")
	assert.False(t, ok)
}

func TestDisabledTools(t *testing.T) {
	t.Setenv("DISABLED_TOOLS", " Disabled-Tool , ,other")
	Init(testutils.CreateTestLogger())

	Register(testutils.NewMockTool("disabled_tool"))
	_, ok := GetTool("disabled_tool")
	assert.False(t, ok)
	assert.True(t, IsDisabled("other"))
	assert.False(t, IsDisabled("enabled_tool"))
	assert.NotContains(t, GetEnabledToolNames(), "disabled_tool")
}

func TestDisablingAfterRegistrationHidesTool(t *testing.T) {
	t.Setenv("DISABLED_TOOLS", "")
	Init(testutils.CreateTestLogger())
	Register(testutils.NewMockTool("late_tool"))
	require.Contains(t, GetEnabledToolNames(), "late_tool")

	t.Setenv("DISABLED_TOOLS", "late_tool")
	Init(testutils.CreateTestLogger())
	_, ok := GetTool("late_tool")
	assert.False(t, ok)
	assert.NotContains(t, GetEnabledTools(), "late_tool")
}

func TestGetToolNamesWithExtendedHelpSkipsPlainTools(t *testing.T) {
	t.Setenv("DISABLED_TOOLS", "")
	Init(testutils.CreateTestLogger())
	Register(testutils.NewMockTool("plain_tool"))
	assert.NotContains(t, GetToolNamesWithExtendedHelp(), "plain_tool")
}

func BenchmarkGetTool(b *testing.B) {
	Init(nil)
	Register(testutils.NewMockTool("bench_tool"))

	b.ReportAllocs()
	for b.Loop() {
		_, _ = GetTool("bench-tool")
	}
}
