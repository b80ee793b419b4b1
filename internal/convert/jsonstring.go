package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// JSONEscape returns the interior of the JSON string literal for text, without the
// surrounding quotes. HTML characters are not escaped and non-ASCII text is kept as
// UTF-8.
func JSONEscape(text string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(text); err != nil {
		return "", &FormatError{Op: "json_escape", Err: err}
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return out[1 : len(out)-1], nil
}

// JSONUnescape decodes a JSON string token. The token may be bare, wrapped in single
// quotes, or a complete double-quoted literal.
func JSONUnescape(text string) (string, error) {
	if len(text) >= 2 && strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") {
		return JSONUnescape(text[1 : len(text)-1])
	}
	if !strings.HasPrefix(text, `"`) && !strings.HasSuffix(text, `"`) {
		text = `"` + text + `"`
	}
	var out string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return "", &FormatError{Op: "json_unescape", Err: fmt.Errorf("not a valid JSON string literal: %w", err)}
	}
	return out, nil
}
