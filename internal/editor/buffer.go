package editor

// Buffer is an in-memory Adapter. Selections track replacements: a replaced span
// covers its new text afterwards and later spans shift by the change in length.
type Buffer struct {
	text       string
	selections []Span
}

// NewBuffer returns a buffer holding text with the given selections.
func NewBuffer(text string, selections ...Span) *Buffer {
	return &Buffer{text: text, selections: append([]Span(nil), selections...)}
}

func (b *Buffer) Len() int { return len(b.text) }

func (b *Buffer) String() string { return b.text }

func (b *Buffer) Selections() []Span {
	return append([]Span(nil), b.selections...)
}

func (b *Buffer) Text(span Span) string {
	return b.text[span.Start:span.End]
}

func (b *Buffer) Replace(span Span, text string) {
	b.text = b.text[:span.Start] + text + b.text[span.End:]

	delta := len(text) - span.Len()
	for i, sel := range b.selections {
		switch {
		case sel == span:
			b.selections[i].End = span.Start + len(text)
		case sel.Start >= span.End:
			b.selections[i].Start += delta
			b.selections[i].End += delta
		}
	}
}
