package stringconvert

import "github.com/sammcj/mcp-stringutils/internal/editor"

// StringConvertResponse is the result of a string_convert call
type StringConvertResponse struct {
	Mode    string `json:"mode"`
	Text    string `json:"text"`
	Changed int    `json:"changed_regions"`
	// Selections are the caller's selections after replacement, present only when
	// selections were supplied
	Selections []editor.Span `json:"selections,omitempty"`
}
