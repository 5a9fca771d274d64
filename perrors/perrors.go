// Package perrors defines the error surface the scanner and parser drivers
// raise while running. Construction errors from building a grammar or regex
// are plain wrapped errors, except BuildSLR1's invalid-grammar error, which
// is a SyntaxError of kind InvalidGrammar with no input position.
//
// Grounded on internal/tqerrors's two-message shape (a technical Error()
// string distinct from a human-facing rendering) and on the
// icterrors.NewSyntaxErrorFromToken convention the rest of ictiobus calls
// but whose source was not present in the retrieval pack.
package perrors

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Kind names the error categories spec.md 7 enumerates.
type Kind int

const (
	// LexicalError is an unexpected byte with no matching token.
	LexicalError Kind = iota
	// UnexpectedToken is a parser lookahead that does not match what the
	// table allows.
	UnexpectedToken
	// UnexpectedEOI is a parser expecting more input than the scanner has.
	UnexpectedEOI
	// JunkAfterAccept is LL(1) accepting the root with tokens remaining.
	JunkAfterAccept
	// UndeclaredSymbol is a grammar-loading reference to an unknown name.
	UndeclaredSymbol
	// InvalidGrammar is an unresolvable SLR(1) construction conflict.
	InvalidGrammar
)

func (k Kind) String() string {
	switch k {
	case LexicalError:
		return "lexical error"
	case UnexpectedToken:
		return "unexpected token"
	case UnexpectedEOI:
		return "unexpected end of input"
	case JunkAfterAccept:
		return "junk after accept"
	case UndeclaredSymbol:
		return "undeclared symbol"
	case InvalidGrammar:
		return "invalid grammar"
	default:
		return "error"
	}
}

// SyntaxError is carried by every error the scanner or parser drivers
// produce while running over an input stream: it names the input, the
// 1-based line and column of the offending position, and a message, per
// spec.md 7's "Each error carries (input_name, line, column, message)".
// Input is "" and Line and Col are 0 where the driver has no position: at
// end of input, for a scanner error re-wrapped by a parser driver (whose
// own position stays in Message and the wrapped cause), and for an SLR(1)
// missing-goto error.
type SyntaxError struct {
	Kind    Kind
	Input   string
	Line    int
	Col     int
	Message string

	// SourceLine is the full text of the offending line, used to render
	// the caret form. Callers that don't have it may leave it empty; Render
	// then falls back to the message alone.
	SourceLine string

	wrapped error
}

// New builds a SyntaxError. sourceLine may be "" if unavailable.
func New(kind Kind, input string, line, col int, sourceLine, message string) *SyntaxError {
	return &SyntaxError{Kind: kind, Input: input, Line: line, Col: col, Message: message, SourceLine: sourceLine}
}

// Wrap is New but additionally records an underlying cause reachable via
// errors.Unwrap, the way tqerrors.WrapInterpreter does.
func Wrap(err error, kind Kind, input string, line, col int, sourceLine, message string) *SyntaxError {
	e := New(kind, input, line, col, sourceLine, message)
	e.wrapped = err
	return e
}

// Error satisfies the error interface with a single-line, tool-facing
// description (no caret rendering; use Render for that).
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", e.Input, e.Line, e.Col, e.Kind, e.Message)
}

// Unwrap exposes any wrapped cause.
func (e *SyntaxError) Unwrap() error {
	return e.wrapped
}

// Render produces the user-facing form: the offending line (wrapped to
// width if it's long) followed by a caret under the column, per spec.md 7's
// "A rendered form includes the offending line and a caret under the
// column." A width of 0 disables wrapping.
func (e *SyntaxError) Render(width int) string {
	header := fmt.Sprintf("%s:%d:%d: %s: %s", e.Input, e.Line, e.Col, e.Kind, e.Message)
	if e.SourceLine == "" {
		return header
	}

	line := e.SourceLine
	if width > 0 {
		line = rosed.Edit(line).Wrap(width).String()
	}

	col := e.Col
	if col < 1 {
		col = 1
	}
	caret := ""
	if col-1 <= len(line) {
		caret = fmt.Sprintf("%*s^", col-1, "")
	}

	return header + "\n" + line + "\n" + caret
}
