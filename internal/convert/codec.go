package convert

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// DefaultURLSafe lists the characters, beyond the unreserved set, that URL encoding
// leaves untouched unless the caller configures otherwise.
const DefaultURLSafe = "/"

// Base64Encode encodes text, as bytes in charset, with the standard padded alphabet.
func Base64Encode(text, charset string) (string, error) {
	b, err := encodeText("base64_encode", text, charset)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// Base64Decode decodes standard padded base64 and interprets the bytes in charset.
func Base64Decode(text, charset string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return "", &EncodingError{Op: "base64_decode", Err: err}
	}
	return decodeBytes("base64_decode", b, charset)
}

// HexEncode writes the charset bytes of text as lowercase hex pairs.
func HexEncode(text, charset string) (string, error) {
	b, err := encodeText("hex_encode", text, charset)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HexDecode parses hex pairs and interprets the bytes in charset.
func HexDecode(text, charset string) (string, error) {
	b, err := hex.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return "", &EncodingError{Op: "hex_decode", Err: err}
	}
	return decodeBytes("hex_decode", b, charset)
}

// URLEncode percent-encodes every byte that is neither unreserved (A-Z a-z 0-9 _ . - ~)
// nor listed in safe.
func URLEncode(text, safe, charset string) (string, error) {
	b, err := encodeText("url_encode", text, charset)
	if err != nil {
		return "", err
	}
	const upperhex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if isUnreserved(c) || (c < 0x80 && strings.IndexByte(safe, c) >= 0) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&15])
	}
	return sb.String(), nil
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '_' || c == '.' || c == '-' || c == '~'
}

// URLDecode reverses percent-encoding. '+' is left as is.
func URLDecode(text, charset string) (string, error) {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		if i+2 >= len(text) || !isHexDigit(text[i+1]) || !isHexDigit(text[i+2]) {
			end := min(i+3, len(text))
			return "", &EncodingError{Op: "url_decode", Err: fmt.Errorf("invalid escape %q at offset %d", text[i:end], i)}
		}
		out = append(out, unhex(text[i+1])<<4|unhex(text[i+2]))
		i += 2
	}
	return decodeBytes("url_decode", out, charset)
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	}
	return c - 'A' + 10
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// HTMLEscape escapes &, <, > and the double quote.
func HTMLEscape(text string) string {
	return htmlEscaper.Replace(text)
}

var namedEntity = regexp.MustCompile(`&[A-Za-z][A-Za-z0-9]*;`)

// HTMLUnescape replaces named character references found in the HTML entity table.
// Numeric references and unknown names are left unchanged.
func HTMLUnescape(text string) string {
	return namedEntity.ReplaceAllStringFunc(text, func(ref string) string {
		// A full match expands to at most two code points; anything longer means only
		// a legacy prefix such as "&amp" in "&ampx;" was recognised.
		out := html.UnescapeString(ref)
		if out == ref || utf8.RuneCountInString(out) > 2 {
			return ref
		}
		return out
	})
}

// SpacesToNBSP replaces every space with &nbsp;.
func SpacesToNBSP(text string) string {
	return strings.ReplaceAll(text, " ", "&nbsp;")
}
