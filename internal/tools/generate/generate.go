package generate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mcp-stringutils/internal/config"
	"github.com/sammcj/mcp-stringutils/internal/convert"
	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/tools"
	"github.com/sirupsen/logrus"
)

const (
	kindPassword  = "password"
	kindUUID      = "uuid"
	kindTimestamp = "timestamp"

	maxCount = 50
)

// GenerateResponse is the result of a generate_string call
type GenerateResponse struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}

// GenerateTool produces passwords, UUIDs and timestamps
type GenerateTool struct {
	// clock is replaced in tests
	clock func() time.Time
}

// init registers the tool with the registry
func init() {
	registry.Register(&GenerateTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *GenerateTool) Definition() mcp.Tool {
	return mcp.NewTool(
		"generate_string",
		mcp.WithDescription("Generate random passwords (distinct characters from an unambiguous alphabet), random v4 UUIDs, or the current timestamp as YYYY-MM-DD HH:MM:SS."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("What to generate"),
			mcp.Enum(kindPassword, kindUUID, kindTimestamp),
		),
		mcp.WithNumber("length",
			mcp.Description("Password length (default: configured, normally 16). At most 54 for the standard alphabet and 64 with symbols."),
		),
		mcp.WithString("alphabet",
			mcp.Description("Password alphabet"),
			mcp.Enum(string(convert.AlphabetStandard), string(convert.AlphabetWithSymbols)),
			mcp.DefaultString(string(convert.AlphabetStandard)),
		),
		mcp.WithNumber("count",
			mcp.Description(fmt.Sprintf("Number of values to generate, 1 to %d (default 1)", maxCount)),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA timezone for the timestamp kind (default: configured, normally the server's local time)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute executes the generate_string tool
func (t *GenerateTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]any) (*mcp.CallToolResult, error) {
	cfg := config.Get()

	kind, err := tools.StringArg(args, "kind", "")
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	count, err := tools.IntArg(args, "count", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if count < 1 || count > maxCount {
		return nil, fmt.Errorf("invalid parameters: count must be between 1 and %d", maxCount)
	}

	next, err := t.generator(kind, args, cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	values := make([]string, 0, count)
	for range count {
		v, err := next()
		if err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", kind, err)
		}
		values = append(values, v)
	}

	logger.WithField("kind", kind).WithField("count", count).Debug("Generated values")
	return tools.NewToolResultJSON(GenerateResponse{Kind: kind, Values: values})
}

// generator validates the kind-specific arguments and returns a function producing one value
func (t *GenerateTool) generator(kind string, args map[string]any, cfg *config.Config) (func() (string, error), error) {
	switch kind {
	case kindPassword:
		length, err := tools.IntArg(args, "length", cfg.PasswordLength)
		if err != nil {
			return nil, err
		}
		alphabet, err := tools.StringArg(args, "alphabet", string(convert.AlphabetStandard))
		if err != nil {
			return nil, err
		}
		// Surface range errors before generating anything
		if _, err := convert.GeneratePassword(length, convert.Alphabet(alphabet)); err != nil {
			return nil, err
		}
		return func() (string, error) {
			return convert.GeneratePassword(length, convert.Alphabet(alphabet))
		}, nil

	case kindUUID:
		return convert.GenerateUUID, nil

	case kindTimestamp:
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		timezone, err := tools.StringArg(args, "timezone", "")
		if err != nil {
			return nil, err
		}
		if timezone != "" {
			if loc, err = config.LoadLocation(timezone); err != nil {
				return nil, err
			}
		}
		return func() (string, error) {
			return convert.Now(t.clock, loc), nil
		}, nil

	case "":
		return nil, fmt.Errorf("missing required parameter: kind")
	default:
		return nil, fmt.Errorf("unknown kind %q (use %s, %s or %s)", kind, kindPassword, kindUUID, kindTimestamp)
	}
}

// ProvideExtendedInfo implements the ExtendedHelpProvider interface for the generate_string tool
func (t *GenerateTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	standard, _ := convert.AlphabetChars(convert.AlphabetStandard)
	symbols, _ := convert.AlphabetChars(convert.AlphabetWithSymbols)
	return &tools.ExtendedHelp{
		WhenToUse:    "Use when a fresh random password, UUID or current timestamp is needed verbatim, e.g. to fill a config file or a test fixture.",
		WhenNotToUse: "Don't use for deterministic identifiers or hashes of existing text (use string_convert with a digest mode).",
		CommonPatterns: []string{
			"Several passwords at once: {\"kind\": \"password\", \"count\": 5}",
			"Timestamp in a specific zone: {\"kind\": \"timestamp\", \"timezone\": \"UTC\"}",
		},
		ParameterDetails: map[string]string{
			"alphabet": fmt.Sprintf("standard: %s (no 0, 1, l, o, I, J, L, O). with-symbols: %s", standard, symbols),
			"length":   "Characters never repeat within one password, so length cannot exceed the alphabet size.",
		},
		Examples: []tools.ToolExample{
			{
				Description:    "A 20 character password",
				Arguments:      map[string]any{"kind": "password", "length": 20},
				ExpectedResult: `{"kind": "password", "values": ["k7XfR2mPq9BvwZ3hTn4d"]}`,
			},
			{
				Description:    "Two UUIDs",
				Arguments:      map[string]any{"kind": "uuid", "count": 2},
				ExpectedResult: `{"kind": "uuid", "values": ["0b9e2c4e-...", "5f1d7a90-..."]}`,
			},
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "length must be between 1 and 54",
				Solution: "Use the with-symbols alphabet for up to 64 characters, or generate two passwords and join them.",
			},
		},
	}
}
