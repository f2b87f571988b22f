// Package parsnip is a small toolkit for building expression parsers: a
// regex-driven lexer that turns raw text into tagged tokens, and a Pratt
// (precedence-climbing) parser engine that folds the token stream into a
// single value via per-tag handlers.
//
// A grammar is declared in two steps. The lexer maps patterns to tags:
//
//	l := parsnip.NewLexer()
//	l.Ignore(`\s+`)
//	l.Tag("INT", `\d+`, func(s string) (any, error) { return strconv.Atoi(s) })
//	l.Symbol("ADD", `\+`)
//	l.Symbol("MUL", `\*`)
//
// The parser maps tags to roles with binding powers:
//
//	p := parsnip.NewParser(l)
//	p.Literal("INT")
//	p.Infix("ADD", 1, func(a, b any) (any, error) { return a.(int) + b.(int), nil })
//	p.Infix("MUL", 5, func(a, b any) (any, error) { return a.(int) * b.(int), nil })
//
//	v, err := p.Parse("1+2*3") // 7
//
// The result type is whatever the handlers produce; the engine fixes nothing
// beyond precedence and associativity. Once built, a Parser is immutable and
// may serve any number of Parse calls.
package parsnip
