// lexer.go: regex-driven tokenizer
package parsnip

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// ConvFunc decodes the matched text of a tag into its semantic value.
type ConvFunc func(text string) (any, error)

// Token is a lexical token with its decoded value.
type Token struct {
	Tag   string
	Text  string // raw text slice
	Value any    // decoded value; equals Text for plain symbols
	Line  int    // 1-based
	Col   int    // 0-based column within line
}

// rule is one (tag, pattern) entry, in registration order. Ignore rules are
// matched and discarded.
type rule struct {
	tag     string
	pattern string
	conv    ConvFunc
	ignore  bool
	ngroups int // capturing groups inside pattern
}

// Lexer compiles an ordered set of ignore-patterns and tagged patterns into
// one master regular expression and scans input into a lazy token stream.
//
// Registration order matters: alternatives are tried leftmost-first, so an
// earlier rule wins a tie at the same position. A catch-all alternative
// matching any single character is appended last; hitting it is a fatal
// lexical error.
type Lexer struct {
	rules []rule

	buildOnce sync.Once
	re        *regexp.Regexp
	group     []int // group[i] = submatch index of rules[i]'s alternative
	errGroup  int   // submatch index of the catch-all
	buildErr  error
	nignore   int
}

// NewLexer creates an empty lexer. Rules are added with Ignore, Symbol and
// Tag; the master pattern is compiled on the first Lex call and the
// configuration is immutable from then on.
func NewLexer() *Lexer {
	return &Lexer{}
}

func (l *Lexer) addRule(tag, pattern string, conv ConvFunc, ignore bool) error {
	if l.re != nil || l.buildErr != nil {
		return &ConfigError{Tag: tag, Msg: "lexer already compiled; cannot add rules after the first Lex call"}
	}
	sub, err := regexp.Compile(pattern)
	if err != nil {
		return &ConfigError{Tag: tag, Msg: fmt.Sprintf("invalid pattern %q: %v", pattern, err)}
	}
	l.rules = append(l.rules, rule{
		tag:     tag,
		pattern: pattern,
		conv:    conv,
		ignore:  ignore,
		ngroups: sub.NumSubexp(),
	})
	return nil
}

// Ignore registers a pattern whose matches are discarded (e.g. whitespace).
func (l *Lexer) Ignore(pattern string) error {
	tag := fmt.Sprintf("IGNORE%d", l.nignore)
	if err := l.addRule(tag, pattern, nil, true); err != nil {
		return err
	}
	l.nignore++
	return nil
}

// Symbol registers a raw symbol tag; the token value is the matched text.
func (l *Lexer) Symbol(tag, pattern string) error {
	return l.addRule(tag, pattern, nil, false)
}

// Tag registers a tag with a conversion function applied to the matched text
// to produce the token value. A nil conv behaves like Symbol.
func (l *Lexer) Tag(tag, pattern string, conv ConvFunc) error {
	return l.addRule(tag, pattern, conv, false)
}

// build compiles the master alternation. Each rule becomes one capturing
// alternative; the submatch index of each is precomputed so the winning rule
// can be recovered without named groups (tags need not be valid group names).
func (l *Lexer) build() {
	var b strings.Builder
	l.group = make([]int, len(l.rules))
	idx := 1
	for i, r := range l.rules {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteByte('(')
		b.WriteString(r.pattern)
		b.WriteByte(')')
		l.group[i] = idx
		idx += 1 + r.ngroups
	}
	if len(l.rules) > 0 {
		b.WriteByte('|')
	}
	// Catch-all: any single character, newlines included.
	b.WriteString("((?s:.))")
	l.errGroup = idx

	re, err := regexp.Compile(b.String())
	if err != nil {
		// Each pattern compiled alone at registration, so this is unreachable
		// short of an alternation-level conflict.
		l.buildErr = &ConfigError{Msg: fmt.Sprintf("cannot compile master pattern: %v", err)}
		return
	}
	l.re = re
}

// Lex starts a scan of input and returns a lazy, non-restartable token
// stream. Re-lexing requires a fresh Lex call.
func (l *Lexer) Lex(input string) *TokenStream {
	l.buildOnce.Do(l.build)
	return &TokenStream{lex: l, src: input, line: 1}
}

// TokenStream produces tokens one at a time over a single forward pass.
type TokenStream struct {
	lex  *Lexer
	src  string
	pos  int
	line int // 1-based, line of pos
	col  int // 0-based
	err  error
}

func (ts *TokenStream) fail(line, col int, format string, args ...any) (Token, bool, error) {
	ts.err = &LexError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
	return Token{}, false, ts.err
}

// step advances the line/col bookkeeping over the matched text.
func (ts *TokenStream) step(text string) {
	ts.pos += len(text)
	if n := strings.Count(text, "\n"); n > 0 {
		ts.line += n
		ts.col = len(text) - strings.LastIndexByte(text, '\n') - 1
	} else {
		ts.col += len(text)
	}
}

// Next returns the next token. ok is false once the input is exhausted. After
// an error the stream is dead and keeps returning the same error.
func (ts *TokenStream) Next() (tok Token, ok bool, err error) {
	if ts.err != nil {
		return Token{}, false, ts.err
	}
	if ts.lex.buildErr != nil {
		ts.err = ts.lex.buildErr
		return Token{}, false, ts.err
	}

	for ts.pos < len(ts.src) {
		m := ts.lex.re.FindStringSubmatchIndex(ts.src[ts.pos:])
		if m == nil || m[0] != 0 {
			// The catch-all matches any character, so the leftmost match is
			// always at the scan position.
			return ts.fail(ts.line, ts.col, "no pattern matches at %q", ts.src[ts.pos:])
		}
		line, col := ts.line, ts.col
		start := ts.pos

		if m[2*ts.lex.errGroup] >= 0 {
			return ts.fail(line, col, "unexpected character: %q", ts.src[start:start+m[1]])
		}

		ri := -1
		for i, g := range ts.lex.group {
			if m[2*g] >= 0 {
				ri = i
				break
			}
		}
		if ri < 0 {
			return ts.fail(line, col, "internal: match without a winning alternative")
		}
		r := ts.lex.rules[ri]
		text := ts.src[start : start+m[1]]
		if text == "" {
			return ts.fail(line, col, "pattern for '%s' matched the empty string", r.tag)
		}
		ts.step(text)

		if r.ignore {
			continue
		}

		// When the rule's pattern has internal capturing groups and exactly
		// one of them matched, the conversion sees that sub-group's text.
		// Token.Text always keeps the full match so concatenated texts cover
		// the input with no gaps.
		convText := text
		g := ts.lex.group[ri]
		sub := ""
		nsub := 0
		for k := g + 1; k <= g+r.ngroups; k++ {
			if m[2*k] >= 0 {
				sub = ts.src[start+m[2*k] : start+m[2*k+1]]
				nsub++
			}
		}
		if nsub == 1 {
			convText = sub
		}

		val := any(convText)
		if r.conv != nil {
			v, cerr := r.conv(convText)
			if cerr != nil {
				return ts.fail(line, col, "cannot decode %s token %q: %v", r.tag, text, cerr)
			}
			val = v
		}
		return Token{Tag: r.tag, Text: text, Value: val, Line: line, Col: col}, true, nil
	}
	return Token{}, false, nil
}
