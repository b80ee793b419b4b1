package convert

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharset is used when a caller does not declare a text encoding.
const DefaultCharset = "utf-8"

// lookupCharset resolves a declared encoding name using the WHATWG index, so labels
// such as "UTF-8", "latin1" and "windows-1252" are all accepted.
func lookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	return enc, nil
}

// encodeText turns text into bytes using the declared charset.
func encodeText(op, text, charset string) ([]byte, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, &EncodingError{Op: op, Err: err}
	}
	b, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, &EncodingError{Op: op, Err: fmt.Errorf("text is not representable in %s: %w", charsetName(charset), err)}
	}
	return b, nil
}

// decodeBytes turns bytes back into text using the declared charset.
func decodeBytes(op string, b []byte, charset string) (string, error) {
	enc, err := lookupCharset(charset)
	if err != nil {
		return "", &EncodingError{Op: op, Err: err}
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" && !utf8.Valid(b) {
		return "", &EncodingError{Op: op, Err: fmt.Errorf("bytes are not valid utf-8")}
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &EncodingError{Op: op, Err: fmt.Errorf("bytes are not valid %s: %w", charsetName(charset), err)}
	}
	return string(out), nil
}

func charsetName(charset string) string {
	if strings.TrimSpace(charset) == "" {
		return DefaultCharset
	}
	return charset
}
