package jsonformat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mcp-stringutils/internal/config"
	"github.com/sammcj/mcp-stringutils/internal/convert"
	"github.com/sammcj/mcp-stringutils/internal/editor"
	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/tools"
	"github.com/sirupsen/logrus"
)

const (
	actionFormat = "format"
	actionMinify = "minify"
)

// FormatJSONTool pretty-prints or minifies JSON and locates syntax errors
type FormatJSONTool struct{}

// init registers the tool with the registry
func init() {
	registry.Register(&FormatJSONTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *FormatJSONTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"format_json",
		mcp.WithDescription("Pretty-print JSON with 4-space indentation and sorted keys, or minify it. Invalid JSON is reported with the 0-based line and 1-based column of the likely mistake so it can be highlighted."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The whole text containing the JSON"),
		),
		mcp.WithString("action",
			mcp.Description("format (default) or minify"),
			mcp.Enum(actionFormat, actionMinify),
			mcp.DefaultString(actionFormat),
		),
		mcp.WithArray("selections",
			mcp.Description("Optional [start, end] byte offset pairs, each holding one JSON document. Error lines are still reported relative to the whole text."),
			mcp.Items(tools.SelectionsSchema),
		),
		mcp.WithNumber("line_offset",
			mcp.Description("Line at which text starts within a larger document; added to reported error lines (default 0)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute executes the format_json tool
func (t *FormatJSONTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]any) (*mcp.CallToolResult, error) {
	cfg := config.Get()

	text, err := tools.TextArg(args, "text", cfg.MaxLength)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	action, err := tools.StringArg(args, "action", actionFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	transform, ok := map[string]func(string, int) (string, error){
		actionFormat: convert.FormatJSON,
		actionMinify: convert.MinifyJSON,
	}[action]
	if !ok {
		return nil, fmt.Errorf("invalid parameters: action must be %q or %q, got %q", actionFormat, actionMinify, action)
	}
	selections, err := tools.SelectionsArg(args)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	lineOffset, err := tools.IntArg(args, "line_offset", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if lineOffset < 0 {
		return nil, fmt.Errorf("invalid parameters: line_offset must not be negative")
	}

	buf := editor.NewBuffer(text, selections...)
	changed, err := editor.Apply(buf, func(region string, line int) (string, error) {
		return transform(region, lineOffset+line)
	})

	response := FormatJSONResponse{Action: action, Valid: err == nil}
	if err != nil {
		var parseErr *convert.ParseError
		if !errors.As(err, &parseErr) {
			return nil, fmt.Errorf("format_json failed: %w", err)
		}
		response.Text = text
		response.Error = &ErrorDetail{
			Line:    parseErr.Line,
			Column:  parseErr.Column,
			Message: parseErr.Message,
		}
		var regionErr *editor.RegionError
		if len(selections) > 0 && errors.As(err, &regionErr) {
			response.Error.Selection = &regionErr.Span
		}
		logger.WithFields(logrus.Fields{"line": parseErr.Line, "column": parseErr.Column}).Debug("JSON did not parse")

		result, marshalErr := tools.NewToolResultJSON(response)
		if marshalErr != nil {
			return nil, marshalErr
		}
		result.IsError = true
		return result, nil
	}

	response.Text = buf.String()
	response.Changed = changed
	if len(selections) > 0 {
		response.Selections = buf.Selections()
	}
	return tools.NewToolResultJSON(response)
}

// ProvideExtendedInfo implements the ExtendedHelpProvider interface for the format_json tool
func (t *FormatJSONTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse:    "Use to normalise JSON layout (sorted keys, 4-space indent) before diffing or committing, to minify JSON, or to find where a hand-edited JSON document breaks.",
		WhenNotToUse: "Don't use for JSON5, JSON with comments or trailing commas; those are reported as errors. Don't use to escape text for embedding in a JSON string (use string_convert with json_escape).",
		CommonPatterns: []string{
			"Format a whole file: pass its content as text",
			"Format one embedded document: pass the file as text and the document's [start, end] as a selection",
			"On error, highlight error.line (0-based) of the original text",
		},
		ParameterDetails: map[string]string{
			"action":      "format sorts object keys and indents with 4 spaces; minify keeps key order and strips whitespace. Numbers keep their original spelling in both.",
			"line_offset": "Set when text is an excerpt starting at that line of a larger file, so error.line points into the larger file.",
		},
		Examples: []tools.ToolExample{
			{
				Description:    "Sort keys and indent",
				Arguments:      map[string]any{"text": `{"b":1,"a":[1,2]}`},
				ExpectedResult: `{"action": "format", "valid": true, "text": "{\n    \"a\": [\n        1,\n        2\n    ],\n    \"b\": 1\n}", "changed_regions": 1}`,
			},
			{
				Description:    "Missing comma is blamed on the line that lacks it",
				Arguments:      map[string]any{"text": "{\n    \"a\": 1\n    \"b\": 2\n}"},
				ExpectedResult: `{"action": "format", "valid": false, "error": {"line": 1, "column": 11, "message": "invalid character '\"' after object key:value pair"}, ...}`,
			},
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "Error line points one line below the mistake",
				Solution: "Only missing commas and unterminated strings are traced back to the previous line. For other errors check the preceding line too.",
			},
			{
				Problem:  "Large integers change",
				Solution: "They should not: number literals are copied verbatim. Report the input if you see this.",
			},
		},
	}
}
