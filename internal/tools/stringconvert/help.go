package stringconvert

import (
	"fmt"
	"strings"

	"github.com/sammcj/mcp-stringutils/internal/convert"
	"github.com/sammcj/mcp-stringutils/internal/tools"
)

// ProvideExtendedInfo implements the ExtendedHelpProvider interface for the string_convert tool
func (t *StringConvertTool) ProvideExtendedInfo() *tools.ExtendedHelp {
	return &tools.ExtendedHelp{
		WhenToUse:    "Use when text needs an exact mechanical transformation: renaming identifiers between case styles, encoding or decoding base64/hex/URL/HTML/\\uXXXX/JSON escapes, converting colours between #hex and rgb(), hashing text, or converting epoch seconds to and from a readable timestamp.",
		WhenNotToUse: "Don't use for pretty-printing JSON with error locations (use format_json), for generating passwords or UUIDs (use generate_string), or for natural-language rewriting.",
		CommonPatterns: []string{
			"case_auto picks the direction from the text: my_var -> myVar, myVar -> my_var, MyVar -> my_var",
			"camel_underscores toggles: myVar <-> my_var",
			"Convert several identifiers at once by passing their [start, end] offsets as selections",
			"Pair base64_encode / base64_decode with charset when the text is not UTF-8",
			"timestamp converts in both directions: digits are treated as epoch seconds",
		},
		ParameterDetails: map[string]string{
			"mode":       modeSummary(),
			"text":       "The whole text. Without selections every byte of it is converted.",
			"selections": "Array of [start, end] byte offsets (end exclusive). Regions must not overlap. All regions are converted before any is replaced, so one failing region leaves the text unchanged.",
			"charset":    "A WHATWG encoding label such as utf-8, latin1, windows-1252 or shift_jis.",
			"timezone":   "IANA name or Local. Used only by the timestamp mode.",
		},
		Examples: []tools.ToolExample{
			{
				Description:    "Snake case to camel case",
				Arguments:      map[string]any{"mode": "case_auto", "text": "user_account_id"},
				ExpectedResult: `{"mode": "case_auto", "text": "userAccountId", "changed_regions": 1}`,
			},
			{
				Description:    "Encode only a selected value",
				Arguments:      map[string]any{"mode": "base64_encode", "text": "token: secret", "selections": [][]int{{7, 13}}},
				ExpectedResult: `{"mode": "base64_encode", "text": "token: c2VjcmV0", "changed_regions": 1, "selections": [{"start": 7, "end": 15}]}`,
			},
			{
				Description:    "Colour conversion",
				Arguments:      map[string]any{"mode": "hex_to_rgb", "text": "#0af"},
				ExpectedResult: `{"mode": "hex_to_rgb", "text": "rgb(0,170,255)", "changed_regions": 1}`,
			},
		},
		Troubleshooting: []tools.TroubleshootingTip{
			{
				Problem:  "changed_regions is 0",
				Solution: "The mode did not apply to the text, e.g. rgb_to_hex on text that is not rgb(...), or case_auto on text that does not start with a letter. The text is returned unchanged.",
			},
			{
				Problem:  "encoding error from a decode mode",
				Solution: "The input is not valid base64/hex/percent-encoding, or the decoded bytes are not valid in the declared charset. Try the charset the data was produced with.",
			},
			{
				Problem:  "selection is outside the buffer",
				Solution: "Offsets are bytes, not characters. Multi-byte UTF-8 characters take 2-4 bytes each.",
			},
		},
	}
}

// modeSummary lists every mode by group
func modeSummary() string {
	var b strings.Builder
	b.WriteString("One of the following, grouped by kind.")
	group := ""
	for _, m := range convert.Modes() {
		if m.Group != group {
			group = m.Group
			fmt.Fprintf(&b, "\n%s:", group)
		}
		fmt.Fprintf(&b, "\n  %s - %s", m.Name, m.Description)
	}
	return b.String()
}
