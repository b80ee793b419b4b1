package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upper(text string, _ int) (string, error) { return strings.ToUpper(text), nil }

func TestApplyWholeBufferWhenNothingSelected(t *testing.T) {
	buf := NewBuffer("hello world", Span{Start: 3, End: 3})
	n, err := Apply(buf, upper)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "HELLO WORLD", buf.String())
}

func TestApplyEachSelection(t *testing.T) {
	buf := NewBuffer("one two three", Span{Start: 8, End: 13}, Span{Start: 0, End: 3})
	n, err := Apply(buf, func(text string, _ int) (string, error) {
		return "<" + text + ">", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "<one> two <three>", buf.String())
	assert.Equal(t, []Span{{Start: 10, End: 17}, {Start: 0, End: 5}}, buf.Selections())
}

func TestApplyIsAllOrNothing(t *testing.T) {
	boom := errors.New("boom")
	buf := NewBuffer("aaa bbb", Span{Start: 0, End: 3}, Span{Start: 4, End: 7})
	_, err := Apply(buf, func(text string, _ int) (string, error) {
		if text == "bbb" {
			return "", boom
		}
		return "zzz", nil
	})

	var regionErr *RegionError
	require.ErrorAs(t, err, &regionErr)
	assert.Equal(t, Span{Start: 4, End: 7}, regionErr.Span)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "aaa bbb", buf.String())
}

func TestApplyCountsOnlyChangedRegions(t *testing.T) {
	buf := NewBuffer("abc DEF", Span{Start: 0, End: 3}, Span{Start: 4, End: 7})
	n, err := Apply(buf, upper)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "ABC DEF", buf.String())
}

func TestApplyPassesLineOffset(t *testing.T) {
	buf := NewBuffer("first\nsecond\nthird", Span{Start: 13, End: 18}, Span{Start: 0, End: 5})
	var lines []int
	_, err := Apply(buf, func(text string, line int) (string, error) {
		lines = append(lines, line)
		return text, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, lines)
}

func TestRegionsRejectsBadSelections(t *testing.T) {
	_, err := Regions(NewBuffer("abc", Span{Start: 0, End: 4}))
	assert.Error(t, err)

	_, err = Regions(NewBuffer("abc", Span{Start: 2, End: 1}))
	assert.Error(t, err)

	_, err = Regions(NewBuffer("abcdef", Span{Start: 0, End: 3}, Span{Start: 2, End: 5}))
	assert.ErrorIs(t, err, ErrOverlappingSelections)
}

func TestRegionsAllowsAdjacentSelections(t *testing.T) {
	regions, err := Regions(NewBuffer("abcdef", Span{Start: 3, End: 6}, Span{Start: 0, End: 3}))
	require.NoError(t, err)
	assert.Equal(t, []Span{{Start: 0, End: 3}, {Start: 3, End: 6}}, regions)
}

func TestLineOf(t *testing.T) {
	text := "a\nb\nc"
	assert.Equal(t, 0, LineOf(text, 0))
	assert.Equal(t, 0, LineOf(text, 1))
	assert.Equal(t, 1, LineOf(text, 2))
	assert.Equal(t, 2, LineOf(text, 100))
	assert.Equal(t, 0, LineOf(text, -1))
}
