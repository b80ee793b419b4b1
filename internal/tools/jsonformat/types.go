package jsonformat

import "github.com/sammcj/mcp-stringutils/internal/editor"

// FormatJSONResponse is the result of a format_json call
type FormatJSONResponse struct {
	Action     string        `json:"action"`
	Valid      bool          `json:"valid"`
	Text       string        `json:"text"`
	Changed    int           `json:"changed_regions"`
	Selections []editor.Span `json:"selections,omitempty"`
	Error      *ErrorDetail  `json:"error,omitempty"`
}

// ErrorDetail locates a JSON syntax error in the full text
type ErrorDetail struct {
	// Line is 0-based within the full text
	Line int `json:"line"`
	// Column is a 1-based byte column within Line
	Column  int    `json:"column"`
	Message string `json:"message"`
	// Selection is the region that failed to parse, when selections were given
	Selection *editor.Span `json:"selection,omitempty"`
}
