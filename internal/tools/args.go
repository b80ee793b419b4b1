package tools

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mcp-stringutils/internal/editor"
)

// TextArg returns the required string argument name, rejecting text longer than
// maxLength bytes when maxLength is positive.
func TextArg(args map[string]any, name string, maxLength int) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing required parameter: %s", name)
	}
	text, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	if maxLength > 0 && len(text) > maxLength {
		return "", fmt.Errorf("%s is %d bytes, over the limit of %d", name, len(text), maxLength)
	}
	return text, nil
}

// StringArg returns an optional string argument, or def when absent.
func StringArg(args map[string]any, name, def string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}

// IntArg returns an optional whole-number argument, or def when absent. JSON
// numbers arrive as float64; the CLI may pass int64.
func IntArg(args map[string]any, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%s must be a whole number", name)
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be a whole number", name)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%s must be a number", name)
	}
}

// SelectionsArg parses the optional selections argument, a list of [start, end]
// byte offset pairs.
func SelectionsArg(args map[string]any) ([]editor.Span, error) {
	raw, ok := args["selections"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("selections must be an array of [start, end] pairs")
	}

	spans := make([]editor.Span, 0, len(list))
	for i, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("selection %d must be a [start, end] pair", i)
		}
		bounds := map[string]any{"start": pair[0], "end": pair[1]}
		start, err := IntArg(bounds, "start", 0)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", i, err)
		}
		end, err := IntArg(bounds, "end", 0)
		if err != nil {
			return nil, fmt.Errorf("selection %d: %w", i, err)
		}
		spans = append(spans, editor.Span{Start: start, End: end})
	}
	return spans, nil
}

// SelectionsSchema is the JSON schema items entry for the selections argument.
var SelectionsSchema = map[string]any{
	"type":     "array",
	"items":    map[string]any{"type": "integer", "minimum": 0},
	"minItems": 2,
	"maxItems": 2,
}

// NewToolResultJSON renders v as indented JSON text.
func NewToolResultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
