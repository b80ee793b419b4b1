package convert

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabsToSpaces(t *testing.T) {
	assert.Equal(t, "a   b", TabsToSpaces("a\tb", 4))
	assert.Equal(t, "        x", TabsToSpaces("\t\tx", 4))
	assert.Equal(t, "ab  c\n  d", TabsToSpaces("ab\tc\n\td", 2))
	assert.Equal(t, "    x", TabsToSpaces("\tx", 0))
}

func TestSpacesToTabs(t *testing.T) {
	assert.Equal(t, "\t\tx", SpacesToTabs("        x", 4))
	assert.Equal(t, "\t  x", SpacesToTabs("      x", 4))
	assert.Equal(t, "\tx", SpacesToTabs("  x", 2))
}

func TestQuoteSwaps(t *testing.T) {
	assert.Equal(t, `say "hi"`, SingleToDoubleQuotes(`say 'hi'`))
	assert.Equal(t, `say 'hi'`, DoubleToSingleQuotes(`say "hi"`))
}

func TestDecodeHeidiSQL(t *testing.T) {
	out, ok, err := DecodeHeidiSQL("64653")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ab", out)

	// Values above 0x7f decode to the code point, not a raw byte
	out, ok, err = DecodeHeidiSQL("41EA1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "@é", out)
	assert.True(t, utf8.ValidString(out))

	out, ok, err = DecodeHeidiSQL("not encoded")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "not encoded", out)

	var encErr *EncodingError
	_, _, err = DecodeHeidiSQL("0zz1")
	assert.ErrorAs(t, err, &encErr)
	_, _, err = DecodeHeidiSQL("019")
	assert.ErrorAs(t, err, &encErr)
}

func TestPHPObjectToArray(t *testing.T) {
	out, ok := PHPObjectToArray("$user->name")
	assert.True(t, ok)
	assert.Equal(t, "$user['name']", out)

	_, ok = PHPObjectToArray("$user['name']")
	assert.False(t, ok)
}
