package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// JSONIndent is the indentation FormatJSON writes for each nesting level.
const JSONIndent = "    "

// FormatJSON re-serialises text with JSONIndent and sorted object keys. Arrays keep
// their order and numbers keep their original spelling.
//
// lineOffset is the line number, within a larger document, at which text starts. It
// is added to the line of any *ParseError returned.
func FormatJSON(text string, lineOffset int) (string, error) {
	data := []byte(text)
	if err := validateJSON(data, lineOffset); err != nil {
		return "", err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", &ParseError{Line: lineOffset, Column: 1, Message: err.Error(), Err: err}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", JSONIndent)
	if err := enc.Encode(v); err != nil {
		return "", &FormatError{Op: "format_json", Err: err}
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// MinifyJSON strips insignificant whitespace, keeping key order.
func MinifyJSON(text string, lineOffset int) (string, error) {
	if !gjson.Valid(text) {
		if err := validateJSON([]byte(text), lineOffset); err != nil {
			return "", err
		}
		return "", &ParseError{Line: lineOffset, Column: 1, Message: "invalid JSON"}
	}
	return string(pretty.Ugly([]byte(text))), nil
}

func validateJSON(data []byte, lineOffset int) error {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return locateSyntaxError(data, syntaxErr, lineOffset)
	}
	return &ParseError{Line: lineOffset, Column: 1, Message: err.Error(), Err: err}
}

// locateSyntaxError maps the decoder's byte offset to a line and column.
//
// The offset counts bytes consumed, so it sits just past the rejected byte, or at the
// end of the input when the input is truncated. When the rejected byte is a raw
// newline inside a string the naive line is the one after the string opened, and a
// missing comma is only noticed at the start of the next member. Both cases blame the
// previous line instead, with the column placed just past its last non-blank byte.
func locateSyntaxError(data []byte, syntaxErr *json.SyntaxError, lineOffset int) *ParseError {
	consumed := clamp(int(syntaxErr.Offset), 0, len(data))

	line := bytes.Count(data[:consumed], []byte{'\n'})
	column := max(consumed-(bytes.LastIndexByte(data[:consumed], '\n')+1), 1)

	msg := syntaxErr.Error()
	if line > 0 {
		prevRaw := lineAt(data, line-1)
		prev := strings.TrimSpace(prevRaw)
		blamePrev := false
		switch {
		case isMissingDelimiter(msg):
			blamePrev = prev != "" && !strings.HasSuffix(prev, ",") && prev != "{" && prev != "}"
		case strings.Contains(msg, `'\n' in string literal`):
			blamePrev = countUnescapedQuotes(prev)%2 != 0
		}
		if blamePrev {
			line--
			column = len(strings.TrimRight(prevRaw, " \t\r")) + 1
		}
	}

	return &ParseError{
		Line:    line + lineOffset,
		Column:  column,
		Message: msg,
		Err:     syntaxErr,
	}
}

func isMissingDelimiter(msg string) bool {
	return strings.Contains(msg, "after object key:value pair") ||
		strings.Contains(msg, "after array element") ||
		strings.Contains(msg, "after object key")
}

func lineAt(data []byte, n int) string {
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			return ""
		}
		data = data[idx+1:]
	}
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		data = data[:idx]
	}
	return string(data)
}

func countUnescapedQuotes(s string) int {
	n := 0
	backslashes := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			backslashes++
			continue
		case '"':
			if backslashes%2 == 0 {
				n++
			}
		}
		backslashes = 0
	}
	return n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
