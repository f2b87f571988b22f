// lexer_test.go
package parsnip

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("configuration error: %v", err)
	}
}

func drain(t *testing.T, ts *TokenStream) []Token {
	t.Helper()
	var out []Token
	for {
		tok, ok, err := ts.Next()
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func drainErr(t *testing.T, ts *TokenStream) error {
	t.Helper()
	for {
		_, ok, err := ts.Next()
		if err != nil {
			return err
		}
		if !ok {
			t.Fatalf("expected a lex error, stream ended cleanly")
		}
	}
}

func tags(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Tag)
	}
	return out
}

func intLexer(t *testing.T) *Lexer {
	t.Helper()
	l := NewLexer()
	must(t, l.Ignore(`\s+`))
	must(t, l.Tag("INT", `\d+`, func(s string) (any, error) {
		return strconv.ParseInt(s, 10, 64)
	}))
	must(t, l.Symbol("ADD", `\+`))
	must(t, l.Symbol("SUB", `-`))
	must(t, l.Symbol("MUL", `\*`))
	must(t, l.Symbol("DIV", `/`))
	must(t, l.Symbol("LPAREN", `\(`))
	must(t, l.Symbol("RPAREN", `\)`))
	return l
}

// --- tests -----------------------------------------------------------------

func Test_Lexer_Tags_And_Ignore(t *testing.T) {
	toks := drain(t, intLexer(t).Lex("(12 + 6) / 4"))

	want := []string{"LPAREN", "INT", "ADD", "INT", "RPAREN", "DIV", "INT"}
	got := tags(toks)
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func Test_Lexer_Values_Decoded(t *testing.T) {
	toks := drain(t, intLexer(t).Lex("12 + 6"))

	if v, ok := toks[0].Value.(int64); !ok || v != 12 {
		t.Fatalf("INT value: want int64(12), got %#v", toks[0].Value)
	}
	// Plain symbols decode to their own text.
	if toks[1].Value != "+" || toks[1].Text != "+" {
		t.Fatalf("ADD token: want value/text \"+\", got %#v", toks[1])
	}
}

func Test_Lexer_Texts_Cover_Input(t *testing.T) {
	input := "1 + 23 * (4 - 5)"
	toks := drain(t, intLexer(t).Lex(input))

	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Text)
	}
	if got, want := b.String(), strings.ReplaceAll(input, " ", ""); got != want {
		t.Fatalf("concatenated texts: want %q, got %q", want, got)
	}
}

func Test_Lexer_Positions(t *testing.T) {
	toks := drain(t, intLexer(t).Lex("1 +\n  2"))

	wantPos := []struct{ line, col int }{{1, 0}, {1, 2}, {2, 2}}
	for i, w := range wantPos {
		if toks[i].Line != w.line || toks[i].Col != w.col {
			t.Fatalf("token %d (%s): want %d:%d, got %d:%d",
				i, toks[i].Tag, w.line, w.col, toks[i].Line, toks[i].Col)
		}
	}
}

func Test_Lexer_CatchAll_Unknown_Char(t *testing.T) {
	err := drainErr(t, intLexer(t).Lex("1 @ 2"))

	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("want *LexError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Msg, "@") {
		t.Fatalf("error should identify the character, got: %v", le)
	}
	if le.Line != 1 || le.Col != 2 {
		t.Fatalf("want error at 1:2, got %d:%d", le.Line, le.Col)
	}
}

func Test_Lexer_Error_Kills_Stream(t *testing.T) {
	ts := intLexer(t).Lex("@")
	_, _, err1 := ts.Next()
	_, ok, err2 := ts.Next()
	if err1 == nil || err2 == nil || ok {
		t.Fatalf("stream should stay dead after an error: %v / %v", err1, err2)
	}
}

func Test_Lexer_Registration_Order_Wins_Ties(t *testing.T) {
	l := NewLexer()
	must(t, l.Symbol("ARROW", `->`))
	must(t, l.Symbol("SUB", `-`))
	toks := drain(t, l.Lex("->-"))

	if got := tags(toks); got[0] != "ARROW" || got[1] != "SUB" {
		t.Fatalf("want [ARROW SUB], got %v", got)
	}

	// Reversed registration: '-' wins at the same position, leaving '>' for
	// the catch-all.
	l2 := NewLexer()
	must(t, l2.Symbol("SUB", `-`))
	must(t, l2.Symbol("ARROW", `->`))
	err := drainErr(t, l2.Lex("->"))
	if !strings.Contains(err.Error(), ">") {
		t.Fatalf("expected lex error on '>', got %v", err)
	}
}

func Test_Lexer_Subgroup_Selected_When_Unique(t *testing.T) {
	l := NewLexer()
	must(t, l.Ignore(`\s+`))
	must(t, l.Symbol("STR", `"([^"]*)"`))
	toks := drain(t, l.Lex(`"hello"`))

	if toks[0].Value != "hello" {
		t.Fatalf("value should be the sub-group text, got %#v", toks[0].Value)
	}
	if toks[0].Text != `"hello"` {
		t.Fatalf("text should be the full match, got %q", toks[0].Text)
	}
}

func Test_Lexer_Subgroup_Ambiguous_Uses_Full_Match(t *testing.T) {
	l := NewLexer()
	must(t, l.Symbol("PAIR", `(a)(b)`))
	toks := drain(t, l.Lex("ab"))

	if toks[0].Value != "ab" {
		t.Fatalf("two non-empty sub-groups should fall back to the full match, got %#v", toks[0].Value)
	}
}

func Test_Lexer_Conversion_Error_Is_LexError(t *testing.T) {
	l := NewLexer()
	must(t, l.Tag("INT", `\d+`, func(s string) (any, error) {
		return nil, errors.New("nope")
	}))
	err := drainErr(t, l.Lex("42"))

	var le *LexError
	if !errors.As(err, &le) {
		t.Fatalf("want *LexError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Msg, "nope") || !strings.Contains(le.Msg, "42") {
		t.Fatalf("error should carry the cause and the text, got: %v", le)
	}
}

func Test_Lexer_Invalid_Pattern_Rejected_Immediately(t *testing.T) {
	l := NewLexer()
	err := l.Symbol("BAD", `(`)

	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConfigError, got %T: %v", err, err)
	}
	if ce.Tag != "BAD" {
		t.Fatalf("error should name the tag, got %q", ce.Tag)
	}
}

func Test_Lexer_Frozen_After_First_Lex(t *testing.T) {
	l := intLexer(t)
	drain(t, l.Lex("1"))

	if err := l.Symbol("LATE", `x`); err == nil {
		t.Fatalf("registration after the first Lex call should fail")
	}
}

func Test_Lexer_Empty_Match_Is_Error(t *testing.T) {
	l := NewLexer()
	must(t, l.Symbol("OPT", `a*`))
	err := drainErr(t, l.Lex("b"))
	if !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-match error, got %v", err)
	}
}

func Test_Lexer_Relex_Fresh_Stream(t *testing.T) {
	l := intLexer(t)
	first := drain(t, l.Lex("1 + 2"))
	second := drain(t, l.Lex("1 + 2"))
	if len(first) != len(second) {
		t.Fatalf("re-lexing should produce the same stream: %d vs %d tokens", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("token %d differs between passes: %#v vs %#v", i, first[i], second[i])
		}
	}
}
