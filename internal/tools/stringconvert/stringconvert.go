package stringconvert

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mcp-stringutils/internal/config"
	"github.com/sammcj/mcp-stringutils/internal/convert"
	"github.com/sammcj/mcp-stringutils/internal/editor"
	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/tools"
	"github.com/sirupsen/logrus"
)

// StringConvertTool runs one named conversion over a text, or over selected regions of it
type StringConvertTool struct{}

// init registers the tool with the registry
func init() {
	registry.Register(&StringConvertTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *StringConvertTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"string_convert",
		mcp.WithDescription(`Convert text between case styles (snake_case, camelCase, PascalCase, dash-case), encodings (base64, hex, URL, HTML entities, \uXXXX, JSON string escapes), colour notations (#hex and rgb()), hash digests, and epoch/local timestamps. Pass selections to convert only parts of the text; unselected text is returned unchanged.`),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("Conversion to run. Use get_tool_help for a description of every mode."),
			mcp.Enum(convert.ModeNames()...),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The whole text (buffer) to convert"),
		),
		mcp.WithArray("selections",
			mcp.Description("Optional [start, end] byte offset pairs within text. When omitted or all empty the whole text is converted."),
			mcp.Items(tools.SelectionsSchema),
		),
		mcp.WithString("charset",
			mcp.Description("Declared text encoding for byte-level modes such as base64, hex, url and digests (default: configured encoding, normally utf-8)"),
		),
		mcp.WithString("url_safe",
			mcp.Description("Characters url_encode leaves unescaped besides A-Z a-z 0-9 _ . - ~ (default: configured, normally /)"),
		),
		mcp.WithNumber("tab_size",
			mcp.Description("Tab width for tabs_to_spaces and spaces_to_tabs (default: configured, normally 4)"),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA timezone for the timestamp mode, e.g. Australia/Melbourne (default: configured, normally the server's local time)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute executes the string_convert tool
func (t *StringConvertTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]any) (*mcp.CallToolResult, error) {
	cfg := config.Get()

	req, err := parseRequest(args, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	mode, err := convert.ResolveMode(req.mode)
	if err != nil {
		return nil, err
	}

	buf := editor.NewBuffer(req.text, req.selections...)
	changed, err := editor.Apply(buf, func(region string, line int) (string, error) {
		opts := req.opts
		opts.LineOffset = line
		res, err := mode.Run(region, opts)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", mode.Name, err)
	}

	logger.WithFields(logrus.Fields{
		"mode":    mode.Name,
		"regions": max(len(req.selections), 1),
		"changed": changed,
	}).Debug("Converted text")

	response := StringConvertResponse{
		Mode:    mode.Name,
		Text:    buf.String(),
		Changed: changed,
	}
	if len(req.selections) > 0 {
		response.Selections = buf.Selections()
	}
	return tools.NewToolResultJSON(response)
}

type request struct {
	mode       string
	text       string
	selections []editor.Span
	opts       convert.Options
}

// parseRequest validates the arguments and merges them over the configured options
func parseRequest(args map[string]any, cfg *config.Config) (*request, error) {
	mode, err := tools.StringArg(args, "mode", "")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(mode) == "" {
		return nil, fmt.Errorf("missing required parameter: mode")
	}

	text, err := tools.TextArg(args, "text", cfg.MaxLength)
	if err != nil {
		return nil, err
	}

	selections, err := tools.SelectionsArg(args)
	if err != nil {
		return nil, err
	}

	opts := cfg.Options()
	if opts.Charset, err = tools.StringArg(args, "charset", opts.Charset); err != nil {
		return nil, err
	}
	if opts.URLSafe, err = tools.StringArg(args, "url_safe", opts.URLSafe); err != nil {
		return nil, err
	}
	if opts.TabSize, err = tools.IntArg(args, "tab_size", opts.TabSize); err != nil {
		return nil, err
	}
	if opts.TabSize <= 0 {
		return nil, fmt.Errorf("tab_size must be positive")
	}

	timezone, err := tools.StringArg(args, "timezone", "")
	if err != nil {
		return nil, err
	}
	if timezone != "" {
		if opts.Location, err = config.LoadLocation(timezone); err != nil {
			return nil, err
		}
	}

	return &request{mode: mode, text: text, selections: selections, opts: opts}, nil
}
