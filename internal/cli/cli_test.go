package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mcp-stringutils/internal/config"
	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/sammcj/mcp-stringutils/internal/tools/stringconvert"
)

var echoTool = testutils.NewMockTool("echo_tool")

func TestMain(m *testing.M) {
	color.NoColor = true
	dir, err := os.MkdirTemp("", "cli")
	if err != nil {
		panic(err)
	}
	os.Setenv("STRINGUTILS_CONFIG", filepath.Join(dir, "missing.yaml"))
	os.Setenv("STRINGUTILS_ENV_FILE", filepath.Join(dir, "missing.env"))

	logger := testutils.CreateTestLogger()
	config.Init(logger)
	registry.Init(logger)
	registry.Register(echoTool)
	registry.Register(testutils.NewMockTool("failing_tool").WithError(errors.New("boom")))
	registry.Register(testutils.NewMockTool("rejecting_tool").WithResult(mcp.NewToolResultError("input rejected")))

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newTestRunner(output OutputFormat, stdin string) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	r := NewRunner(testutils.CreateTestLogger(), testutils.CreateTestCache(), output).
		WithIO(strings.NewReader(stdin), &out)
	return r, &out
}

func TestListTools_Text(t *testing.T) {
	r, out := newTestRunner(OutputText, "")
	require.NoError(t, r.ListTools())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "echo_tool"))
	assert.Contains(t, out.String(), "string_convert")
}

func TestListTools_JSON(t *testing.T) {
	r, out := newTestRunner(OutputJSON, "")
	require.NoError(t, r.ListTools())

	var entries []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "failing_tool")
}

func TestListModes(t *testing.T) {
	r, out := newTestRunner(OutputText, "")
	require.NoError(t, r.ListModes())

	text := out.String()
	assert.Contains(t, text, "encoding\n")
	assert.Contains(t, text, "  hex_encode")
	assert.Less(t, strings.Index(text, "case\n"), strings.Index(text, "encoding\n"))
}

func TestListModes_JSON(t *testing.T) {
	r, out := newTestRunner(OutputJSON, "")
	require.NoError(t, r.ListModes())

	var entries []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &entries))
	require.NotEmpty(t, entries)
	assert.NotEmpty(t, entries[0]["group"])
}

func TestHelpTool(t *testing.T) {
	r, out := newTestRunner(OutputText, "")
	require.NoError(t, r.HelpTool("echo-tool"))

	text := out.String()
	assert.Contains(t, text, "Tool: echo_tool")
	assert.Contains(t, text, "--input")
	assert.Contains(t, text, "(required)")
	assert.Contains(t, text, "--verbose")
}

func TestHelpTool_Unknown(t *testing.T) {
	r, _ := newTestRunner(OutputText, "")
	assert.Error(t, r.HelpTool("nope"))
}

func TestRunTool_Flags(t *testing.T) {
	r, out := newTestRunner(OutputText, "")
	err := r.RunTool(context.Background(), "echo_tool", []string{"--input=hello", "--count", "3", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, "mock result\n", out.String())

	calls := echoTool.Calls()
	require.NotEmpty(t, calls)
	last := calls[len(calls)-1]
	assert.Equal(t, "hello", last["input"])
	assert.Equal(t, int64(3), last["count"])
	assert.Equal(t, true, last["verbose"])
}

func TestRunTool_JSONArgumentAndFlagPrecedence(t *testing.T) {
	r, _ := newTestRunner(OutputText, "")
	err := r.RunTool(context.Background(), "echo_tool", []string{"--input=flag", `{"input": "json", "count": 2}`})
	require.NoError(t, err)

	calls := echoTool.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, "flag", last["input"])
	assert.Equal(t, float64(2), last["count"])
}

func TestRunTool_Stdin(t *testing.T) {
	r, _ := newTestRunner(OutputText, "from stdin\n")
	require.NoError(t, r.RunTool(context.Background(), "echo_tool", []string{"--input=-"}))

	calls := echoTool.Calls()
	assert.Equal(t, "from stdin", calls[len(calls)-1]["input"])
}

func TestRunTool_StringConvert(t *testing.T) {
	r, out := newTestRunner(OutputText, "hi")
	require.NoError(t, r.RunTool(context.Background(), "string-convert", []string{"--mode=hex_encode", "--text=-"}))

	var resp struct {
		Mode string `json:"mode"`
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "hex_encode", resp.Mode)
	assert.Equal(t, "6869", resp.Text)
}

func TestRunTool_Errors(t *testing.T) {
	r, _ := newTestRunner(OutputText, "")

	err := r.RunTool(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cli list")

	err = r.RunTool(context.Background(), "failing_tool", []string{"--input=x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	err = r.RunTool(context.Background(), "echo_tool", []string{"stray"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument")

	err = r.RunTool(context.Background(), "echo_tool", []string{"--input"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a value")
}

func TestRunTool_ErrorResult(t *testing.T) {
	r, out := newTestRunner(OutputText, "")
	err := r.RunTool(context.Background(), "rejecting_tool", []string{"--input=hello"})
	require.Error(t, err)
	assert.Equal(t, "input rejected\n", out.String())

	r, out = newTestRunner(OutputJSON, "")
	require.Error(t, r.RunTool(context.Background(), "rejecting-tool", []string{"--input=hello"}))
	assert.Contains(t, out.String(), `"isError": true`)
}

func TestRenderResult_IsError(t *testing.T) {
	r, out := newTestRunner(OutputJSON, "")
	err := r.renderResult(mcp.NewToolResultError("bad input"))
	require.Error(t, err)
	assert.Contains(t, out.String(), "bad input")
}

func TestToFlagName(t *testing.T) {
	assert.Equal(t, "line-offset", toFlagName("line_offset"))
	assert.Equal(t, "tab-size", toFlagName("tabSize"))
	assert.Equal(t, "input", toFlagName("input"))
}

func TestCoerceValue(t *testing.T) {
	assert.Equal(t, int64(42), coerceValue("42", "number"))
	assert.Equal(t, 1.5, coerceValue("1.5", "number"))
	assert.Equal(t, false, coerceValue("no", "boolean"))
	assert.Equal(t, []any{float64(1), float64(2)}, coerceValue("[1,2]", "array"))
	assert.Equal(t, []string{"a", "b"}, coerceValue("a,b", "array"))
	assert.Equal(t, "plain", coerceValue("plain", "string"))
}
