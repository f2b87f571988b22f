// parser.go — Pratt parser engine driven by a per-tag parselet table.
//
// OVERVIEW
// --------
// This module implements the precedence-climbing half of the toolkit. It
// consumes the token stream produced by the regex lexer (see lexer.go) and
// folds it into a single value by dispatching, per token tag, to handlers
// registered on a Parser before the first Parse call.
//
// A parselet knows how to parse a given tag in one (or both) of two ways:
//   - `null` is called when the tag begins a (sub-)expression, with no value
//     to its left: literals, prefix operators, opening delimiters.
//   - `left` is called when the tag follows an already-parsed value: infix,
//     postfix and mixfix continuations.
//
// Registration surface (each installs a handler and a binding power):
//
//	Symbol(tag)                          reserve the tag, precedence 0
//	Literal(tag)                         null: forward the token value
//	Prefix(tag, p, f)                    null: f(parse(p))
//	Infix(tag, p, f)                     left: f(left, parse(p))
//	InfixR(tag, p, f)                    left: f(left, parse(p-1))
//	Postfix(tag, p, f)                   left: f(left)
//	Surrounding(open, close, p, f)       null on open: f(parse(0)), eat close
//
// A tag's binding power reconciles to the maximum contributed by its
// handlers, so one tag may serve as e.g. both an infix operator and a closing
// delimiter. At most one null and one left handler may ever be registered per
// tag; a duplicate is a *ConfigError returned at registration time.
//
// The core loop (parse):
//
//  1. with no seed value, consume the lookahead and call its null handler;
//  2. while the lookahead's binding power exceeds the caller's minimum,
//     consume it and call its left handler with the value so far;
//  3. return the accumulated value.
//
// Left-associative operators bind their right operand at their own power, so
// an equal-power sibling stops the recursion; right-associative ones bind one
// lower, so it continues. Surrounding constructs parse their body unbounded
// and then require the closing tag.
//
// Failures are immediate and fatal to the Parse call: a missing handler or
// closer is a *ParseError, a dead-end in the token stream is a *LexError
// (see errors.go). There is no recovery or partial result.
//
// A built Parser is immutable during parsing; each Parse call owns its
// lookahead state (one run per call), so sequential and concurrent Parse
// calls on one Parser are safe.
//
// Dependencies
// ------------
//   - lexer.go (Lexer, Token, TokenStream)
//   - errors.go (*ParseError, *ConfigError)
package parsnip

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// PrefixFn combines the operand of a prefix operator. Also used by
// Surrounding (the operand is the surrounded body) and Postfix (the operand
// is the value to the operator's left).
type PrefixFn func(operand any) (any, error)

// InfixFn combines both operands of a binary operator.
type InfixFn func(left, right any) (any, error)

// Parser holds a grammar registry over a lexer. Register the grammar first,
// then call Parse any number of times.
type Parser struct {
	lexer     *Lexer
	parselets map[string]*parselet
}

// NewParser creates a parser with an empty grammar over the given lexer.
func NewParser(l *Lexer) *Parser {
	return &Parser{lexer: l, parselets: map[string]*parselet{}}
}

// Symbol reserves a tag for use in other grammar rules, with no handlers and
// precedence 0.
func (p *Parser) Symbol(tag string) error {
	return p.add(tag, 0, nil, nil)
}

// Literal installs a null handler that forwards the token's decoded value
// unchanged.
func (p *Parser) Literal(tag string) error {
	return p.add(tag, 0, func(_ *run, value any) (any, error) {
		return value, nil
	}, nil)
}

// Prefix installs a null handler: the operand is parsed bound at precedence
// and passed to fn.
func (p *Parser) Prefix(tag string, precedence int, fn PrefixFn) error {
	return p.add(tag, precedence, func(r *run, _ any) (any, error) {
		operand, err := r.parse(precedence, nil, false)
		if err != nil {
			return nil, err
		}
		return fn(operand)
	}, nil)
}

// Infix installs a left handler for a left-associative binary operator: the
// right operand is parsed bound at precedence, so an equal-precedence
// operator to the right does not join it.
func (p *Parser) Infix(tag string, precedence int, fn InfixFn) error {
	return p.add(tag, precedence, nil, func(r *run, _ any, left any) (any, error) {
		right, err := r.parse(precedence, nil, false)
		if err != nil {
			return nil, err
		}
		return fn(left, right)
	})
}

// InfixR is Infix with right-to-left grouping: the right operand is parsed
// bound at precedence-1, so an equal-precedence operator to the right is
// folded into it first.
func (p *Parser) InfixR(tag string, precedence int, fn InfixFn) error {
	return p.add(tag, precedence, nil, func(r *run, _ any, left any) (any, error) {
		right, err := r.parse(precedence-1, nil, false)
		if err != nil {
			return nil, err
		}
		return fn(left, right)
	})
}

// Postfix installs a left handler that applies fn to the already-parsed left
// value, with no further recursion.
func (p *Parser) Postfix(tag string, precedence int, fn PrefixFn) error {
	return p.add(tag, precedence, nil, func(_ *run, _ any, left any) (any, error) {
		return fn(left)
	})
}

// Surrounding installs a null handler on open that parses an unbounded body,
// requires and consumes the close tag (its value is discarded), and applies
// fn to the body. close is implicitly registered as a plain symbol.
func (p *Parser) Surrounding(open, close string, precedence int, fn PrefixFn) error {
	if err := p.Symbol(close); err != nil {
		return err
	}
	return p.add(open, precedence, func(r *run, _ any) (any, error) {
		body, err := r.parse(0, nil, false)
		if err != nil {
			return nil, err
		}
		if err := r.expect(close); err != nil {
			return nil, err
		}
		return fn(body)
	}, nil)
}

// Parse lexes and parses input, consuming all of it, and returns the single
// resulting value. While tokens remain after a completed sub-parse, parsing
// resumes with the produced value as the seed, so grammars may chain
// top-level constructs; conventional expression grammars run exactly once.
func (p *Parser) Parse(input string) (any, error) {
	r := &run{p: p, ts: p.lexer.Lex(input)}
	if err := r.advance(); err != nil {
		return nil, err
	}
	if !r.have {
		return nil, &ParseError{Line: r.ts.line, Col: r.ts.col, Msg: "unexpected end of input", Incomplete: true}
	}

	var val any
	seeded := false
	for {
		before := r.consumed
		v, err := r.parse(0, val, seeded)
		if err != nil {
			return nil, err
		}
		val = v
		seeded = true
		if !r.have {
			return val, nil
		}
		if r.consumed == before {
			// The lookahead can never be consumed (precedence 0 at top
			// level); stop instead of spinning.
			return nil, r.syntaxError(r.look, "unexpected token '%s'", r.look.Text)
		}
	}
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

// Handlers installed in the table close over the registration-time callback
// and drive recursion through the per-call run.
type (
	nullFn func(r *run, value any) (any, error)
	leftFn func(r *run, value any, left any) (any, error)
)

type parselet struct {
	precedence int
	null       nullFn
	left       leftFn
}

// update merges a new registration into an existing parselet. Precedence
// reconciles to the maximum; a second handler of a kind already set is a
// configuration error.
func (ps *parselet) update(tag string, precedence int, null nullFn, left leftFn) error {
	if precedence > ps.precedence {
		ps.precedence = precedence
	}
	if null != nil {
		if ps.null != nil {
			return &ConfigError{Tag: tag, Msg: "null handler already defined"}
		}
		ps.null = null
	}
	if left != nil {
		if ps.left != nil {
			return &ConfigError{Tag: tag, Msg: "left handler already defined"}
		}
		ps.left = left
	}
	return nil
}

func (p *Parser) add(tag string, precedence int, null nullFn, left leftFn) error {
	ps, ok := p.parselets[tag]
	if !ok {
		ps = &parselet{}
		p.parselets[tag] = ps
	}
	return ps.update(tag, precedence, null, left)
}

// run is the per-Parse-call state: the stream, a one-token lookahead and an
// input-remaining flag.
type run struct {
	p        *Parser
	ts       *TokenStream
	look     Token
	have     bool
	consumed int
}

func (r *run) advance() error {
	tok, ok, err := r.ts.Next()
	if err != nil {
		return err
	}
	if !ok {
		r.have = false
		return nil
	}
	r.look = tok
	r.have = true
	r.consumed++
	return nil
}

func (r *run) syntaxError(t Token, format string, args ...any) error {
	return &ParseError{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)}
}

// expect consumes the lookahead if it carries the given tag, else fails.
// Exhausted input reports an incomplete parse so a REPL can keep reading.
func (r *run) expect(tag string) error {
	if !r.have {
		return &ParseError{Line: r.ts.line, Col: r.ts.col, Msg: fmt.Sprintf("expected '%s'", tag), Incomplete: true}
	}
	if r.look.Tag != tag {
		return r.syntaxError(r.look, "expected '%s', found '%s'", tag, r.look.Text)
	}
	return r.advance()
}

// parse is the precedence-climbing core. With no seed it consumes the
// lookahead and calls its null handler for the initial value; it then folds
// left handlers while the lookahead binds tighter than minBind.
func (r *run) parse(minBind int, left any, haveLeft bool) (any, error) {
	if !haveLeft {
		if !r.have {
			return nil, &ParseError{Line: r.ts.line, Col: r.ts.col, Msg: "unexpected end of input", Incomplete: true}
		}
		t := r.look
		if err := r.advance(); err != nil {
			return nil, err
		}
		v, err := r.callNull(t)
		if err != nil {
			return nil, err
		}
		left = v
	}

	for r.have {
		ps := r.p.parselets[r.look.Tag]
		if ps == nil {
			return nil, r.syntaxError(r.look, "unexpected token '%s'", r.look.Text)
		}
		if ps.precedence <= minBind {
			break
		}
		t := r.look
		if err := r.advance(); err != nil {
			return nil, err
		}
		v, err := r.callLeft(t, left)
		if err != nil {
			return nil, err
		}
		left = v
	}
	return left, nil
}

func (r *run) callNull(t Token) (any, error) {
	ps := r.p.parselets[t.Tag]
	if ps == nil || ps.null == nil {
		return nil, r.syntaxError(t, "unexpected token '%s'", t.Text)
	}
	return ps.null(r, t.Value)
}

func (r *run) callLeft(t Token, left any) (any, error) {
	ps := r.p.parselets[t.Tag]
	if ps == nil || ps.left == nil {
		return nil, r.syntaxError(t, "unexpected token '%s'", t.Text)
	}
	return ps.left(r, t.Value, left)
}
