package syntax

import "fmt"

// Error reports a malformed pattern.
type Error struct {
	Pattern string
	Offset  int // byte offset of the offending token
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Offset, e.Pattern, e.Reason)
}

func errorf(pos int, format string, args ...any) *Error {
	return &Error{Offset: pos, Reason: fmt.Sprintf(format, args...)}
}
