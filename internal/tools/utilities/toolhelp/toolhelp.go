package toolhelp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sammcj/mcp-stringutils/internal/registry"
	"github.com/sammcj/mcp-stringutils/internal/tools"
	"github.com/sirupsen/logrus"
)

// ToolHelpTool returns usage examples, parameter details and troubleshooting tips for the other tools
type ToolHelpTool struct{}

// init registers the tool with the registry
func init() {
	registry.Register(&ToolHelpTool{})
}

// Definition returns the tool's definition for MCP registration
func (t *ToolHelpTool) Definition() mcp.Tool {
	// Get only tools that provide extended help
	toolsWithExtendedHelp := registry.GetToolNamesWithExtendedHelp()

	var description string
	if len(toolsWithExtendedHelp) > 0 {
		description = "Get detailed usage examples, the list of conversion modes, and troubleshooting tips for the string utility tools. Use when a call fails unexpectedly or to choose a mode."
	} else {
		description = "No tools currently provide extended help information."
	}

	// If no tools provide extended help, still create the tool but with empty enum
	enumValues := toolsWithExtendedHelp
	if len(enumValues) == 0 {
		enumValues = []string{} // Empty enum will prevent the tool from being used
	}

	return mcp.NewTool(
		"get_tool_help",
		mcp.WithDescription(description),
		mcp.WithString("tool_name",
			mcp.Required(),
			mcp.Description("Name of the tool to get help for"),
			mcp.Enum(enumValues...),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

// Execute executes the get_tool_help tool
func (t *ToolHelpTool) Execute(ctx context.Context, logger *logrus.Logger, cache *sync.Map, args map[string]any) (*mcp.CallToolResult, error) {
	// Parse and validate parameters
	toolName, err := t.parseRequest(args)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	tool, exists := registry.GetTool(toolName)
	if !exists {
		availableTools := registry.GetToolNamesWithExtendedHelp()
		return nil, fmt.Errorf("tool '%s' not found, disabled, or does not provide extended help. Tools with extended help: %s", toolName, strings.Join(availableTools, ", "))
	}

	extendedProvider, ok := tool.(tools.ExtendedHelpProvider)
	if !ok {
		availableTools := registry.GetToolNamesWithExtendedHelp()
		return nil, fmt.Errorf("tool '%s' does not provide extended help. Tools with extended help: %s", toolName, strings.Join(availableTools, ", "))
	}

	response := &ToolHelpResponse{
		ToolName:        tool.Definition().Name,
		BasicInfo:       t.extractBasicInfo(tool),
		HasExtendedInfo: true,
	}

	extendedInfo := extendedProvider.ProvideExtendedInfo()
	if extendedInfo != nil {
		response.ExtendedInfo = t.convertExtendedInfo(extendedInfo)
	} else {
		response.HasExtendedInfo = false
		response.Message = fmt.Sprintf("Tool '%s' implements ExtendedHelpProvider but returned no extended information", toolName)
	}

	return tools.NewToolResultJSON(response)
}

// parseRequest parses and validates the tool arguments
func (t *ToolHelpTool) parseRequest(args map[string]any) (string, error) {
	toolName, err := tools.StringArg(args, "tool_name", "")
	if err != nil {
		return "", err
	}
	if toolName == "" {
		return "", fmt.Errorf("missing required parameter: tool_name")
	}
	return toolName, nil
}

// extractBasicInfo extracts basic information from a tool's definition
func (t *ToolHelpTool) extractBasicInfo(tool tools.Tool) map[string]any {
	definition := tool.Definition()

	basicInfo := map[string]any{
		"name":        definition.Name,
		"description": definition.Description,
	}

	// Add input schema if available
	if definition.InputSchema.Type != "" {
		basicInfo["input_schema"] = definition.InputSchema
	}

	return basicInfo
}

// convertExtendedInfo converts tools.ExtendedHelp to the response format
func (t *ToolHelpTool) convertExtendedInfo(info *tools.ExtendedHelp) *ExtendedHelpData {
	result := &ExtendedHelpData{
		CommonPatterns:   info.CommonPatterns,
		ParameterDetails: info.ParameterDetails,
		WhenToUse:        info.WhenToUse,
		WhenNotToUse:     info.WhenNotToUse,
	}

	// Convert troubleshooting tips
	for _, tip := range info.Troubleshooting {
		result.Troubleshooting = append(result.Troubleshooting, TroubleshootingData(tip))
	}

	for _, example := range info.Examples {
		result.Examples = append(result.Examples, ToolExampleData(example))
	}

	return result
}

