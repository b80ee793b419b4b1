package convert

import "fmt"

// EncodingError reports malformed base64, hex or percent-encoded input, or text that
// cannot be represented in the declared charset.
type EncodingError struct {
	Op  string
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: encoding error: %v", e.Op, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// FormatError reports text that does not parse as the expected structured format,
// such as a JSON string literal or a timestamp.
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: format error: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// InputError reports a parameter outside its valid range.
type InputError struct {
	Op      string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ParseError is a JSON parse failure with best-effort line attribution.
// Line is 0-based and already includes any caller supplied line offset.
// Column is a 1-based byte column within the reported line.
type ParseError struct {
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d column %d", e.Message, e.Line+1, e.Column)
}

func (e *ParseError) Unwrap() error { return e.Err }

func inputErrorf(op, format string, args ...any) *InputError {
	return &InputError{Op: op, Message: fmt.Sprintf(format, args...)}
}
