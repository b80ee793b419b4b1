package tools

import (
	"testing"

	"github.com/sammcj/mcp-stringutils/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextArg(t *testing.T) {
	text, err := TextArg(map[string]any{"text": "abc"}, "text", 10)
	require.NoError(t, err)
	assert.Equal(t, "abc", text)

	_, err = TextArg(map[string]any{}, "text", 10)
	assert.ErrorContains(t, err, "missing required parameter")

	_, err = TextArg(map[string]any{"text": 3.0}, "text", 10)
	assert.Error(t, err)

	_, err = TextArg(map[string]any{"text": "abcdef"}, "text", 5)
	assert.ErrorContains(t, err, "over the limit")
}

func TestIntArg(t *testing.T) {
	n, err := IntArg(map[string]any{}, "length", 16)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	for _, v := range []any{float64(12), int64(12), 12} {
		n, err = IntArg(map[string]any{"length": v}, "length", 0)
		require.NoError(t, err)
		assert.Equal(t, 12, n)
	}

	_, err = IntArg(map[string]any{"length": 1.5}, "length", 0)
	assert.Error(t, err)
	_, err = IntArg(map[string]any{"length": "12"}, "length", 0)
	assert.Error(t, err)
}

func TestSelectionsArg(t *testing.T) {
	spans, err := SelectionsArg(map[string]any{"selections": []any{[]any{0.0, 3.0}, []any{int64(5), int64(9)}}})
	require.NoError(t, err)
	assert.Equal(t, []editor.Span{{Start: 0, End: 3}, {Start: 5, End: 9}}, spans)

	spans, err = SelectionsArg(map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, spans)

	_, err = SelectionsArg(map[string]any{"selections": []any{[]any{1.0}}})
	assert.Error(t, err)
	_, err = SelectionsArg(map[string]any{"selections": "0,3"})
	assert.Error(t, err)
}

func TestNewToolResultJSON(t *testing.T) {
	result, err := NewToolResultJSON(map[string]any{"ok": true})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
}
