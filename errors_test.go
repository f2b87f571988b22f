// errors_test.go
package parsnip

import (
	"errors"
	"strings"
	"testing"
)

func Test_Errors_Wrap_ParseError_Renders_Snippet(t *testing.T) {
	src := "let = (1 + 2\n             * 3"
	err := &ParseError{Line: 2, Col: 13, Msg: "expected 'RPAREN', found '*'"}

	got := WrapErrorWithSource(err, src).Error()
	want := []string{
		"PARSE ERROR at 2:14: expected 'RPAREN', found '*'",
		"   1 | let = (1 + 2",
		"   2 |              * 3",
		"     |              ^",
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Fatalf("snippet missing %q:\n%s", w, got)
		}
	}
}

func Test_Errors_Wrap_LexError_Renders_Snippet(t *testing.T) {
	src := "1 + @"
	err := &LexError{Line: 1, Col: 4, Msg: `unexpected character: "@"`}

	got := WrapErrorWithSource(err, src).Error()
	if !strings.Contains(got, "LEXICAL ERROR at 1:5") {
		t.Fatalf("missing header:\n%s", got)
	}
	if !strings.Contains(got, "     |     ^") {
		t.Fatalf("caret misplaced:\n%s", got)
	}
}

func Test_Errors_Wrap_With_Name(t *testing.T) {
	err := &ParseError{Line: 1, Col: 0, Msg: "boom"}
	got := WrapErrorWithName(err, "input.calc", "x").Error()
	if !strings.Contains(got, "PARSE ERROR in input.calc at 1:1: boom") {
		t.Fatalf("missing named header:\n%s", got)
	}
}

func Test_Errors_Wrap_Passes_Other_Errors_Through(t *testing.T) {
	plain := errors.New("unrelated")
	if got := WrapErrorWithSource(plain, "src"); got != plain {
		t.Fatalf("non lex/parse errors must pass through unchanged, got %v", got)
	}
	cfg := &ConfigError{Tag: "X", Msg: "dup"}
	if got := WrapErrorWithSource(cfg, "src"); got != error(cfg) {
		t.Fatalf("config errors carry no position; must pass through, got %v", got)
	}
}

func Test_Errors_Wrap_Clamps_Out_Of_Range(t *testing.T) {
	err := &ParseError{Line: 99, Col: 500, Msg: "far away"}
	got := WrapErrorWithSource(err, "only one line").Error()
	if !strings.Contains(got, "   1 | only one line") {
		t.Fatalf("line should clamp into the source:\n%s", got)
	}
}

func Test_Errors_IsIncomplete(t *testing.T) {
	if !IsIncomplete(&ParseError{Msg: "eof", Incomplete: true}) {
		t.Fatalf("incomplete parse error not detected")
	}
	if IsIncomplete(&ParseError{Msg: "bad token"}) {
		t.Fatalf("plain parse error misreported as incomplete")
	}
	if IsIncomplete(&LexError{Msg: "bad char"}) || IsIncomplete(errors.New("x")) {
		t.Fatalf("non-parse errors are never incomplete")
	}
}

func Test_Errors_Messages(t *testing.T) {
	testCases := []struct {
		err  error
		want string
	}{
		{&LexError{Line: 1, Col: 2, Msg: "m"}, "LEXICAL ERROR at 1:3: m"},
		{&ParseError{Line: 3, Col: 0, Msg: "m"}, "PARSE ERROR at 3:1: m"},
		{&ConfigError{Tag: "ADD", Msg: "m"}, "CONFIG ERROR for tag 'ADD': m"},
		{&ConfigError{Msg: "m"}, "CONFIG ERROR: m"},
	}
	for _, tc := range testCases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("want %q, got %q", tc.want, got)
		}
	}
}
