package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// ToUnicodeNotation replaces every non-whitespace rune outside printable ASCII with
// \uXXXX. Runes beyond the BMP become a surrogate pair.
func ToUnicodeNotation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) || (r >= 0x20 && r <= 0x7e) {
			b.WriteRune(r)
			continue
		}
		if r > 0xffff {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04X\u%04X`, hi, lo)
			continue
		}
		fmt.Fprintf(&b, `\u%04X`, r)
	}
	return b.String()
}

var unicodeEscape = regexp.MustCompile(`\\u([0-9a-fA-F]{2,4})`)

// FromUnicodeNotation substitutes the code point for every \u followed by two to
// four hex digits. Adjacent escapes forming a surrogate pair are recombined; a lone
// surrogate is left as written.
func FromUnicodeNotation(text string) string {
	matches := unicodeEscape.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for i := 0; i < len(matches); i++ {
		m := matches[i]
		b.WriteString(text[last:m[0]])
		last = m[1]

		r := parseHexRune(text[m[2]:m[3]])
		if utf16.IsSurrogate(r) {
			if i+1 < len(matches) && matches[i+1][0] == m[1] {
				next := matches[i+1]
				if pair := utf16.DecodeRune(r, parseHexRune(text[next[2]:next[3]])); pair != unicode.ReplacementChar {
					b.WriteRune(pair)
					last = next[1]
					i++
					continue
				}
			}
			b.WriteString(text[m[0]:m[1]])
			continue
		}
		b.WriteRune(r)
	}
	b.WriteString(text[last:])
	return b.String()
}

func parseHexRune(digits string) rune {
	v, _ := strconv.ParseUint(digits, 16, 32)
	return rune(v)
}
