// Package convert is a toolkit of pure text transformations: case styles, byte
// encodings, colours, digests, timestamps, passwords and JSON formatting.
//
// Every function is synchronous and keeps no state between calls. Failures are
// reported with the typed errors in errors.go so callers can tell malformed input
// (*EncodingError, *FormatError, *ParseError) from bad parameters (*InputError).
package convert

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

// Result is the outcome of a conversion. Changed is false when the conversion did
// not apply to the input, in which case Text is the input unchanged.
type Result struct {
	Text    string
	Changed bool
}

func changed(in, out string) Result {
	return Result{Text: out, Changed: in != out}
}

func unchanged(in string) Result {
	return Result{Text: in}
}

// Options carries the static configuration a conversion may need.
type Options struct {
	// Charset is the declared encoding of the text for byte-level codecs.
	Charset string
	// URLSafe lists characters URL encoding leaves untouched besides the unreserved set.
	URLSafe string
	// TabSize is used by the tab/space conversions.
	TabSize int
	// Location is the timezone for timestamp conversion. Nil means time.Local.
	Location *time.Location
	// LineOffset is the line within the full document at which the text starts.
	LineOffset int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Charset: DefaultCharset,
		URLSafe: DefaultURLSafe,
		TabSize: DefaultTabSize,
	}
}

// Mode describes one named conversion.
type Mode struct {
	Name        string
	Group       string
	Description string
	run         func(text string, opts Options) (Result, error)
}

var modes = map[string]Mode{}

func register(group, name, description string, run func(string, Options) (Result, error)) {
	modes[name] = Mode{Name: name, Group: group, Description: description, run: run}
}

// simple adapts a total string function.
func simple(fn func(string) string) func(string, Options) (Result, error) {
	return func(text string, _ Options) (Result, error) {
		return changed(text, fn(text)), nil
	}
}

// fallible adapts a string function that may fail.
func fallible(fn func(string, Options) (string, error)) func(string, Options) (Result, error) {
	return func(text string, opts Options) (Result, error) {
		out, err := fn(text, opts)
		if err != nil {
			return Result{}, err
		}
		return changed(text, out), nil
	}
}

func init() {
	caseModes := []struct {
		dir  CaseDirection
		desc string
	}{
		{CaseAuto, "Detect the case style and convert to its counterpart"},
		{CaseToggleUnderscores, "Toggle between camelCase and under_scores"},
		{CaseToggleDash, "Toggle between camelCase and dash-case"},
		{CaseTogglePascalUnderscores, "Toggle between PascalCase and under_scores"},
		{CaseSnakeToCamel, "snake_case to camelCase"},
		{CaseSnakeToPascal, "snake_case to PascalCase"},
		{CaseDashToCamel, "dash-case to camelCase"},
		{CaseCamelToSnake, "camelCase to snake_case"},
		{CaseCamelToDash, "camelCase to dash-case"},
		{CasePascalToSnake, "PascalCase to snake_case"},
	}
	for _, m := range caseModes {
		dir := m.dir
		name := string(dir)
		if dir == CaseAuto {
			name = "case_auto"
		}
		register("case", name, m.desc, func(text string, _ Options) (Result, error) {
			return ConvertCase(text, dir)
		})
	}

	register("encoding", "base64_encode", "Encode text as base64", fallible(func(s string, o Options) (string, error) { return Base64Encode(s, o.Charset) }))
	register("encoding", "base64_decode", "Decode base64 to text", fallible(func(s string, o Options) (string, error) { return Base64Decode(s, o.Charset) }))
	register("encoding", "hex_encode", "Encode text as lowercase hex", fallible(func(s string, o Options) (string, error) { return HexEncode(s, o.Charset) }))
	register("encoding", "hex_decode", "Decode hex to text", fallible(func(s string, o Options) (string, error) { return HexDecode(s, o.Charset) }))
	register("encoding", "url_encode", "Percent-encode text", fallible(func(s string, o Options) (string, error) { return URLEncode(s, o.URLSafe, o.Charset) }))
	register("encoding", "url_decode", "Decode percent-encoded text", fallible(func(s string, o Options) (string, error) { return URLDecode(s, o.Charset) }))
	register("encoding", "html_escape", "Escape &, <, > and \" as HTML entities", simple(HTMLEscape))
	register("encoding", "html_unescape", "Replace named HTML entities with characters", simple(HTMLUnescape))
	register("encoding", "spaces_to_nbsp", "Replace spaces with &nbsp;", simple(SpacesToNBSP))
	register("encoding", "to_unicode", "Write non-ASCII characters as \\uXXXX", simple(ToUnicodeNotation))
	register("encoding", "from_unicode", "Replace \\uXXXX escapes with characters", simple(FromUnicodeNotation))
	register("encoding", "json_escape", "Escape text for use inside a JSON string", fallible(func(s string, _ Options) (string, error) { return JSONEscape(s) }))
	register("encoding", "json_unescape", "Decode a JSON string token", fallible(func(s string, _ Options) (string, error) { return JSONUnescape(s) }))

	register("color", "hex_to_rgb", "Convert #rgb or #rrggbb to rgb(r,g,b)", fallible(func(s string, _ Options) (string, error) { return HexToRGB(s) }))
	register("color", "rgb_to_hex", "Convert rgb()/rgba() to #rrggbb", func(text string, _ Options) (Result, error) {
		out, ok := RGBToHex(text)
		if !ok {
			return unchanged(text), nil
		}
		return changed(text, out), nil
	})

	for _, alg := range DigestAlgorithms() {
		register("digest", alg, fmt.Sprintf("%s hex digest of the text", strings.ToUpper(alg)), fallible(func(s string, o Options) (string, error) {
			return Digest(s, alg, o.Charset)
		}))
	}

	register("time", "timestamp", "Convert epoch seconds to a local date-time and back", fallible(func(s string, o Options) (string, error) {
		return ConvertTimestamp(s, o.Location)
	}))

	register("json", "json_format", "Pretty-print JSON with sorted keys", fallible(func(s string, o Options) (string, error) {
		return FormatJSON(s, o.LineOffset)
	}))
	register("json", "json_minify", "Strip insignificant whitespace from JSON", fallible(func(s string, o Options) (string, error) {
		return MinifyJSON(s, o.LineOffset)
	}))

	register("text", "tabs_to_spaces", "Expand tabs to spaces", fallible(func(s string, o Options) (string, error) { return TabsToSpaces(s, o.TabSize), nil }))
	register("text", "spaces_to_tabs", "Replace runs of tab-size spaces with tabs", fallible(func(s string, o Options) (string, error) { return SpacesToTabs(s, o.TabSize), nil }))
	register("text", "single_to_double_quotes", "Replace ' with \"", simple(SingleToDoubleQuotes))
	register("text", "double_to_single_quotes", "Replace \" with '", simple(DoubleToSingleQuotes))
	register("text", "heidisql_decode", "Decode a HeidiSQL stored password", func(text string, _ Options) (Result, error) {
		out, ok, err := DecodeHeidiSQL(text)
		if err != nil || !ok {
			return unchanged(text), err
		}
		return changed(text, out), nil
	})
	register("text", "php_object_to_array", "Rewrite $obj->prop as $obj['prop']", func(text string, _ Options) (Result, error) {
		out, ok := PHPObjectToArray(text)
		if !ok {
			return unchanged(text), nil
		}
		return changed(text, out), nil
	})
}

// Modes returns every conversion sorted by group then name.
func Modes() []Mode {
	out := make([]Mode, 0, len(modes))
	for _, m := range modes {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ModeNames returns every mode name in sorted order.
func ModeNames() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupMode finds a mode by name. Hyphens are accepted in place of underscores.
func LookupMode(name string) (Mode, bool) {
	m, ok := modes[normaliseModeName(name)]
	return m, ok
}

func normaliseModeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// SuggestModes returns up to limit mode names that fuzzily match name.
func SuggestModes(name string, limit int) []string {
	matches := fuzzy.Find(normaliseModeName(name), ModeNames())
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Run applies the conversion to text.
func (m Mode) Run(text string, opts Options) (Result, error) {
	return m.run(text, opts)
}

// ResolveMode is LookupMode with an *InputError naming the closest modes when
// nothing matches.
func ResolveMode(name string) (Mode, error) {
	m, ok := LookupMode(name)
	if ok {
		return m, nil
	}
	msg := fmt.Sprintf("unknown mode %q", name)
	if suggestions := SuggestModes(name, 3); len(suggestions) > 0 {
		msg += fmt.Sprintf(", did you mean: %s", strings.Join(suggestions, ", "))
	}
	return Mode{}, &InputError{Op: "convert", Message: msg}
}

// Convert runs the named conversion over text.
func Convert(mode, text string, opts Options) (Result, error) {
	m, err := ResolveMode(mode)
	if err != nil {
		return Result{}, err
	}
	return m.Run(text, opts)
}
