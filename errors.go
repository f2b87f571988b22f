// errors.go: error kinds and caret-snippet rendering
//
// What this file does
// -------------------
// Defines the three error kinds the toolkit can produce and turns the two
// positioned ones into readable, Python-style error snippets with a caret
// pointing at the offending column. The entry point is `WrapErrorWithSource`,
// which recognizes `*LexError` (from lexer.go) and `*ParseError` (from
// parser.go), formats them, and returns a new `error` whose message is a
// multi-line snippet:
//
//	PARSE ERROR at 2:14: expected 'RPAREN', found '*'
//
//	   1 | let = (1 + 2
//	   2 |              * 3
//	       |            ^
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the 1-based column.
//
// Error kinds
// -----------
//   - *LexError:    no configured pattern applies at the scan position, or a
//     conversion function rejected a match. Fatal to the lex pass.
//   - *ParseError:  a required handler or closing tag is absent at the
//     current dispatch point. `Incomplete` marks failures caused purely by
//     running out of input; `IsIncomplete` reports it so interactive callers
//     can prompt for more lines instead of giving up.
//   - *ConfigError: a conflicting duplicate handler registration or an
//     invalid pattern. Raised at configuration time, carries no position.
//
// All three terminate the current lex/parse call at the point of detection;
// nothing is caught or retried internally.
//
// Behavior guarantees
// -------------------
//   - If `err` is a `*LexError` or `*ParseError`, the returned error's
//     message is a fully formatted, plain-text snippet (no ANSI colors).
//   - If `err` is anything else (including *ConfigError), it is returned
//     unchanged.
//   - Line is 1-based and Col 0-based, per Token; rendering clamps both so
//     the caret is always placed safely. Empty/short sources are handled.
package parsnip

import (
	"errors"
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// LexError reports a position in the input that no configured pattern
// matches, or a token whose conversion function failed.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ParseError reports a token that cannot be parsed at its position: no
// registered parselet, a missing null/left handler, or a missing closer.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool // failure caused only by exhausted input
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ConfigError reports an invalid grammar or lexer configuration, detected at
// registration time.
type ConfigError struct {
	Tag string
	Msg string
}

func (e *ConfigError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("CONFIG ERROR: %s", e.Msg)
	}
	return fmt.Sprintf("CONFIG ERROR for tag '%s': %s", e.Tag, e.Msg)
}

// IsIncomplete reports whether err is a ParseError caused only by the input
// ending too early, i.e. more input could still make the parse succeed.
func IsIncomplete(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) && pe.Incomplete
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes lex/parse errors and leaves
// other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	// Fall back to a name-less header (won't show "in <src>").
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name (e.g. a file
// path) included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Cols are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: snippet rendering
   =========================== */

// prettyErrorStringLabeled builds a Python-like snippet with a header and a
// caret. It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
