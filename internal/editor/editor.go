// Package editor models the selection and replacement surface a text host exposes,
// so conversions can be applied to several regions of one buffer at once.
package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrOverlappingSelections is returned when two selections share bytes.
var ErrOverlappingSelections = errors.New("selections overlap")

// Span is a half-open byte range [Start, End) of a buffer.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Empty reports whether the span selects nothing.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the number of bytes selected.
func (s Span) Len() int { return s.End - s.Start }

// Adapter is the host surface a conversion runs against.
type Adapter interface {
	// Len returns the length of the whole buffer in bytes.
	Len() int
	// Selections returns the current selections in any order.
	Selections() []Span
	// Text returns the text covered by span.
	Text(span Span) string
	// Replace swaps the text covered by span for text.
	Replace(span Span, text string)
}

// Transform converts the text of one region. lineOffset is the 0-based line of the
// buffer on which the region starts.
type Transform func(text string, lineOffset int) (string, error)

// RegionError ties a Transform failure to the region it happened in.
type RegionError struct {
	Span Span
	Err  error
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("selection [%d,%d): %v", e.Span.Start, e.Span.End, e.Err)
}

func (e *RegionError) Unwrap() error { return e.Err }

// Apply runs fn over every non-empty selection, or over the whole buffer when all
// selections are empty. Every region is converted before anything is replaced, so a
// failure leaves the buffer untouched. It returns the number of regions whose text
// changed.
func Apply(a Adapter, fn Transform) (int, error) {
	regions, err := Regions(a)
	if err != nil {
		return 0, err
	}

	type replacement struct {
		span Span
		text string
	}
	pending := make([]replacement, 0, len(regions))
	for _, span := range regions {
		in := a.Text(span)
		out, err := fn(in, LineOf(a.Text(Span{Start: 0, End: span.Start}), span.Start))
		if err != nil {
			return 0, &RegionError{Span: span, Err: err}
		}
		if out != in {
			pending = append(pending, replacement{span: span, text: out})
		}
	}

	// Back to front so earlier offsets stay valid.
	for i := len(pending) - 1; i >= 0; i-- {
		a.Replace(pending[i].span, pending[i].text)
	}
	return len(pending), nil
}

// Regions returns the spans Apply would convert, sorted by start offset. Spans
// outside the buffer or overlapping each other are rejected.
func Regions(a Adapter) ([]Span, error) {
	size := a.Len()
	var regions []Span
	for _, span := range a.Selections() {
		if span.Start < 0 || span.End < span.Start || span.End > size {
			return nil, fmt.Errorf("selection [%d,%d) is outside the buffer of %d bytes", span.Start, span.End, size)
		}
		if !span.Empty() {
			regions = append(regions, span)
		}
	}
	if len(regions) == 0 {
		return []Span{{Start: 0, End: size}}, nil
	}

	slices.SortFunc(regions, func(x, y Span) int { return x.Start - y.Start })
	for i := 1; i < len(regions); i++ {
		if regions[i].Start < regions[i-1].End {
			return nil, fmt.Errorf("%w: [%d,%d) and [%d,%d)", ErrOverlappingSelections,
				regions[i-1].Start, regions[i-1].End, regions[i].Start, regions[i].End)
		}
	}
	return regions, nil
}

// LineOf returns the 0-based line on which offset falls in text.
func LineOf(text string, offset int) int {
	offset = max(0, min(offset, len(text)))
	return strings.Count(text[:offset], "\n")
}
