package stringconvert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sammcj/mcp-stringutils/internal/config"
	"github.com/sammcj/mcp-stringutils/internal/convert"
	"github.com/sammcj/mcp-stringutils/internal/editor"
	"github.com/sammcj/mcp-stringutils/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "stringconvert")
	if err != nil {
		panic(err)
	}
	os.Setenv("STRINGUTILS_CONFIG", filepath.Join(dir, "missing.yaml"))
	os.Setenv("STRINGUTILS_ENV_FILE", filepath.Join(dir, "missing.env"))
	os.Setenv("STRINGUTILS_TIMEZONE", "UTC")
	os.Setenv("STRINGUTILS_MAX_LENGTH", "64")
	config.Init(testutils.CreateTestLogger())

	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func run(t *testing.T, args map[string]any) (StringConvertResponse, error) {
	t.Helper()
	tool := &StringConvertTool{}
	result, err := tool.Execute(testutils.CreateTestContext(), testutils.CreateTestLogger(), testutils.CreateTestCache(), args)
	if err != nil {
		return StringConvertResponse{}, err
	}
	var resp StringConvertResponse
	testutils.DecodeResult(t, result, &resp)
	return resp, nil
}

func TestDefinition(t *testing.T) {
	def := (&StringConvertTool{}).Definition()
	assert.Equal(t, "string_convert", def.Name)
	assert.Contains(t, def.InputSchema.Required, "mode")
	assert.Contains(t, def.InputSchema.Required, "text")
	assert.Contains(t, def.InputSchema.Properties, "selections")
}

func TestExecuteWholeText(t *testing.T) {
	resp, err := run(t, map[string]any{"mode": "case_auto", "text": "user_account_id"})
	require.NoError(t, err)
	assert.Equal(t, "userAccountId", resp.Text)
	assert.Equal(t, 1, resp.Changed)
	assert.Empty(t, resp.Selections)
}

func TestExecuteSelections(t *testing.T) {
	resp, err := run(t, map[string]any{
		"mode":       "base64_encode",
		"text":       "token: secret",
		"selections": []any{[]any{7.0, 13.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, "token: c2VjcmV0", resp.Text)
	assert.Equal(t, []editor.Span{{Start: 7, End: 15}}, resp.Selections)
}

func TestExecuteNotApplicable(t *testing.T) {
	resp, err := run(t, map[string]any{"mode": "rgb_to_hex", "text": "red"})
	require.NoError(t, err)
	assert.Equal(t, "red", resp.Text)
	assert.Equal(t, 0, resp.Changed)
}

func TestExecuteUsesConfiguredTimezone(t *testing.T) {
	resp, err := run(t, map[string]any{"mode": "timestamp", "text": "0"})
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01 00:00:00", resp.Text)

	resp, err = run(t, map[string]any{"mode": "timestamp", "text": "0", "timezone": "Asia/Tokyo"})
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01 09:00:00", resp.Text)
}

func TestExecuteFailureLeavesTextUntouched(t *testing.T) {
	_, err := run(t, map[string]any{
		"mode":       "base64_decode",
		"text":       "aGk= !!!",
		"selections": []any{[]any{0.0, 4.0}, []any{5.0, 8.0}},
	})
	var encErr *convert.EncodingError
	require.ErrorAs(t, err, &encErr)
	var regionErr *editor.RegionError
	require.ErrorAs(t, err, &regionErr)
	assert.Equal(t, editor.Span{Start: 5, End: 8}, regionErr.Span)
}

func TestExecuteInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing mode", map[string]any{"text": "x"}, "mode"},
		{"missing text", map[string]any{"mode": "hex_encode"}, "text"},
		{"too long", map[string]any{"mode": "hex_encode", "text": string(make([]byte, 65))}, "over the limit"},
		{"bad timezone", map[string]any{"mode": "timestamp", "text": "0", "timezone": "Nowhere/Else"}, "unknown timezone"},
		{"bad tab size", map[string]any{"mode": "tabs_to_spaces", "text": "\t", "tab_size": 0.0}, "tab_size"},
		{"overlapping selections", map[string]any{"mode": "hex_encode", "text": "abcdef", "selections": []any{[]any{0.0, 4.0}, []any{2.0, 5.0}}}, "overlap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestExecuteUnknownModeSuggests(t *testing.T) {
	_, err := run(t, map[string]any{"mode": "hex-encod", "text": "x"})
	var inputErr *convert.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "hex_encode")
}

func TestProvideExtendedInfo(t *testing.T) {
	info := (&StringConvertTool{}).ProvideExtendedInfo()
	require.NotNil(t, info)
	assert.NotEmpty(t, info.Examples)
	assert.Contains(t, info.ParameterDetails["mode"], "base64_encode")
	assert.Contains(t, info.ParameterDetails["mode"], "digest:")
}
