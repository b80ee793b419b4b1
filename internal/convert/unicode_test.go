package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUnicodeNotation(t *testing.T) {
	assert.Equal(t, `h\u00E9llo`+"\tworld", ToUnicodeNotation("h\u00e9llo\tworld"))
	assert.Equal(t, `\u65E5\u672C`, ToUnicodeNotation("\u65e5\u672c"))
	assert.Equal(t, `\uD83D\uDE00`, ToUnicodeNotation("\U0001F600"))
	assert.Equal(t, `bell\u0007`, ToUnicodeNotation("bell\a"))
	assert.Equal(t, "plain ascii ~", ToUnicodeNotation("plain ascii ~"))
}

func TestFromUnicodeNotation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"four digits", `caf\u00e9`, "caf\u00e9"},
		{"two digits", `\u41`, "A"},
		{"greedy four", `\u0041BC`, "ABC"},
		{"surrogate pair", `\uD83D\uDE00!`, "\U0001F600!"},
		{"lone surrogate kept", `\uD83Dx`, `\uD83Dx`},
		{"no escapes", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromUnicodeNotation(tt.in))
		})
	}
}

func TestUnicodeNotationRoundTrip(t *testing.T) {
	for _, s := range []string{"na\u00efve caf\u00e9", "\u65e5\u672c\u8a9e", "emoji \U0001F600 here", "tab\tand\nnewline"} {
		assert.Equal(t, s, FromUnicodeNotation(ToUnicodeNotation(s)))
	}
}
