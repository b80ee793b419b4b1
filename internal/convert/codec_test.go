package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printableASCII() string {
	var b strings.Builder
	for c := byte(0x20); c <= 0x7e; c++ {
		b.WriteByte(c)
	}
	return b.String()
}

func TestBase64(t *testing.T) {
	out, err := Base64Encode("hello", DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", out)

	back, err := Base64Decode(out, DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, "hello", back)

	_, err = Base64Decode("not base64!", DefaultCharset)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "base64_decode", encErr.Op)
}

func TestBase64DeclaredCharset(t *testing.T) {
	out, err := Base64Encode("é", "latin1")
	require.NoError(t, err)
	assert.Equal(t, "6Q==", out)

	back, err := Base64Decode("6Q==", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "é", back)

	_, err = Base64Decode("6Q==", "UTF-8")
	var encErr *EncodingError
	assert.ErrorAs(t, err, &encErr, "a lone 0xE9 byte is not valid utf-8")

	_, err = Base64Encode("x", "klingon")
	assert.ErrorAs(t, err, &encErr)
}

func TestHex(t *testing.T) {
	out, err := HexEncode("abc", "")
	require.NoError(t, err)
	assert.Equal(t, "616263", out)

	back, err := HexDecode("616263", "")
	require.NoError(t, err)
	assert.Equal(t, "abc", back)

	var encErr *EncodingError
	_, err = HexDecode("abc", "")
	assert.ErrorAs(t, err, &encErr, "odd length")
	_, err = HexDecode("zz", "")
	assert.ErrorAs(t, err, &encErr, "non-hex")
}

func TestURLEncode(t *testing.T) {
	out, err := URLEncode("a b/c?d=é", DefaultURLSafe, DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, "a%20b/c%3Fd%3D%C3%A9", out)

	out, err = URLEncode("a/b~c", "", DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, "a%2Fb~c", out)

	back, err := URLDecode("a%20b/c%3Fd%3D%C3%A9", DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, "a b/c?d=é", back)

	var encErr *EncodingError
	_, err = URLDecode("100%zz", DefaultCharset)
	assert.ErrorAs(t, err, &encErr)
	_, err = URLDecode("trailing%4", DefaultCharset)
	assert.ErrorAs(t, err, &encErr)
}

func TestHTMLEscape(t *testing.T) {
	assert.Equal(t, `&lt;a href=&quot;x&quot;&gt;&amp;&lt;/a&gt;`, HTMLEscape(`<a href="x">&</a>`))
	assert.Equal(t, "it's", HTMLEscape("it's"))
}

func TestHTMLUnescape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"&lt;b&gt;", "<b>"},
		{"&copy; 2024", "© 2024"},
		{"&unknown; stays", "&unknown; stays"},
		{"&#65; is numeric", "&#65; is numeric"},
		{"&ampx; is not amp", "&ampx; is not amp"},
		{"&amp without semicolon", "&amp without semicolon"},
		{"&eacute;t&eacute;", "été"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLUnescape(tt.in))
		})
	}
}

func TestCodecRoundTripPrintableASCII(t *testing.T) {
	text := printableASCII()

	b64, err := Base64Encode(text, DefaultCharset)
	require.NoError(t, err)
	got, err := Base64Decode(b64, DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, text, got)

	hx, err := HexEncode(text, DefaultCharset)
	require.NoError(t, err)
	got, err = HexDecode(hx, DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, text, got)

	u, err := URLEncode(text, DefaultURLSafe, DefaultCharset)
	require.NoError(t, err)
	got, err = URLDecode(u, DefaultCharset)
	require.NoError(t, err)
	assert.Equal(t, text, got)

	assert.Equal(t, text, HTMLUnescape(HTMLEscape(text)))
}
