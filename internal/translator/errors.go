package translator

import "fmt"

// MalformedBlockError reports a segment whose first statement is not
// Show or Hide
type MalformedBlockError struct {
	Segment    int
	Line       int
	Text       string
	Suggestion string // closest block keyword when the line looks misspelled
	Reason     string
}

func (e *MalformedBlockError) Error() string {
	msg := fmt.Sprintf("segment %d, line %d: malformed block: %s: %q", e.Segment, e.Line, e.reason(), e.Text)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

func (e *MalformedBlockError) reason() string {
	if e.Reason == "" {
		return "expected Show or Hide"
	}
	return e.Reason
}

// Fields returns the error context for structured logging
func (e *MalformedBlockError) Fields() map[string]interface{} {
	return map[string]interface{}{"segment": e.Segment, "line": e.Line, "text": e.Text}
}

// ParseFailure reports a recognized keyword whose values cannot be parsed
type ParseFailure struct {
	Segment int
	Line    int
	Keyword string
	Text    string
	Reason  string
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("segment %d, line %d: invalid %s line: %s: %q", e.Segment, e.Line, e.Keyword, e.Reason, e.Text)
}

// Fields returns the error context for structured logging
func (e *ParseFailure) Fields() map[string]interface{} {
	return map[string]interface{}{"segment": e.Segment, "line": e.Line, "keyword": e.Keyword, "text": e.Text}
}

// UnresolvedReferenceError reports a color reference the palette does not know
type UnresolvedReferenceError struct {
	Segment int
	Line    int
	Name    string
	Text    string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("segment %d, line %d: unresolved color reference @%s: %q", e.Segment, e.Line, e.Name, e.Text)
}

// Fields returns the error context for structured logging
func (e *UnresolvedReferenceError) Fields() map[string]interface{} {
	return map[string]interface{}{"segment": e.Segment, "line": e.Line, "reference": e.Name, "text": e.Text}
}

// lineError is the position-free error a line grammar returns; the block
// translator turns it into a ParseFailure or UnresolvedReferenceError
type lineError struct {
	reason     string
	unresolved string
}

func (e *lineError) Error() string { return e.reason }

func failf(format string, args ...interface{}) error {
	return &lineError{reason: fmt.Sprintf(format, args...)}
}

// position locates a block inside its script
type position struct {
	segment   int
	firstLine int // 1-based script line of the block's first line
}
