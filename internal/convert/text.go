package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultTabSize is the tab width used when none is configured.
const DefaultTabSize = 4

// TabsToSpaces expands tabs to the next multiple of tabSize columns on each line.
func TabsToSpaces(text string, tabSize int) string {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	var b strings.Builder
	b.Grow(len(text))
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// SpacesToTabs replaces each run of exactly tabSize spaces with a tab.
func SpacesToTabs(text string, tabSize int) string {
	if tabSize <= 0 {
		tabSize = DefaultTabSize
	}
	return strings.ReplaceAll(text, strings.Repeat(" ", tabSize), "\t")
}

// SingleToDoubleQuotes swaps every ' for ".
func SingleToDoubleQuotes(text string) string {
	return strings.ReplaceAll(text, "'", `"`)
}

// DoubleToSingleQuotes swaps every " for '.
func DoubleToSingleQuotes(text string) string {
	return strings.ReplaceAll(text, `"`, "'")
}

// DecodeHeidiSQL reverses the password obfuscation HeidiSQL stores in its session
// settings: hex byte pairs shifted by the value of the final digit. Text that does
// not start with a digit is returned with ok=false.
func DecodeHeidiSQL(text string) (string, bool, error) {
	if text == "" || text[0] < '0' || text[0] > '9' {
		return text, false, nil
	}
	shift, err := strconv.Atoi(text[len(text)-1:])
	if err != nil {
		return "", false, &EncodingError{Op: "heidisql_decode", Err: fmt.Errorf("trailing shift digit missing")}
	}
	var b strings.Builder
	for i := 0; i+1 < len(text); i += 2 {
		v, err := strconv.ParseUint(text[i:i+2], 16, 8)
		if err != nil {
			return "", false, &EncodingError{Op: "heidisql_decode", Err: err}
		}
		if int(v) < shift {
			return "", false, &EncodingError{Op: "heidisql_decode", Err: fmt.Errorf("byte %q is below the shift of %d", text[i:i+2], shift)}
		}
		b.WriteRune(rune(int(v) - shift))
	}
	return strings.Trim(b.String(), "\x00"), true, nil
}

// PHPObjectToArray rewrites $obj->prop as $obj['prop']. Text without -> is
// returned with ok=false.
func PHPObjectToArray(text string) (string, bool) {
	obj, prop, found := strings.Cut(text, "->")
	if !found {
		return text, false
	}
	prop, _, _ = strings.Cut(prop, "->")
	return fmt.Sprintf("%s['%s']", obj, prop), true
}
