// pcalc: demo calculator built on the parsnip toolkit.
//
// With arguments, evaluates them as one expression and prints the result.
// With no arguments, starts an interactive REPL with line editing, history
// and multi-line continuation for incomplete input.
package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/sminez/parsnip"
)

const (
	appName     = "pcalc"
	historyFile = ".pcalc_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("pcalc %s (parsnip demo)\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", parsnip.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

// -----------------------------------------------------------------------------
// grammar
// -----------------------------------------------------------------------------

func num(v any) float64 { return v.(float64) }

func factorial(v float64) (float64, error) {
	if v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("factorial of %s is undefined", formatNum(v))
	}
	if v > 170 {
		return 0, fmt.Errorf("factorial of %s overflows", formatNum(v))
	}
	out := 1.0
	for i := 2.0; i <= v; i++ {
		out *= i
	}
	return out, nil
}

// buildCalc wires the calculator grammar: + - (1), * / (5), ^ (6, right
// assoc), unary - (10), ! factorial (11) and parentheses.
func buildCalc() (*parsnip.Parser, error) {
	l := parsnip.NewLexer()

	steps := []error{
		l.Ignore(`\s+`),
		l.Tag("NUM", `\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`, func(s string) (any, error) {
			return strconv.ParseFloat(s, 64)
		}),
		l.Symbol("ADD", `\+`),
		l.Symbol("SUB", `-`),
		l.Symbol("POW", `\^`),
		l.Symbol("MUL", `\*`),
		l.Symbol("DIV", `/`),
		l.Symbol("BANG", `!`),
		l.Symbol("LPAREN", `\(`),
		l.Symbol("RPAREN", `\)`),
	}

	p := parsnip.NewParser(l)
	steps = append(steps,
		p.Literal("NUM"),
		p.Prefix("SUB", 10, func(v any) (any, error) { return -num(v), nil }),
		p.Infix("ADD", 1, func(a, b any) (any, error) { return num(a) + num(b), nil }),
		p.Infix("SUB", 1, func(a, b any) (any, error) { return num(a) - num(b), nil }),
		p.Infix("MUL", 5, func(a, b any) (any, error) { return num(a) * num(b), nil }),
		p.Infix("DIV", 5, func(a, b any) (any, error) {
			if num(b) == 0 {
				return nil, errors.New("division by zero")
			}
			return num(a) / num(b), nil
		}),
		p.InfixR("POW", 6, func(a, b any) (any, error) { return math.Pow(num(a), num(b)), nil }),
		p.Postfix("BANG", 11, func(v any) (any, error) {
			f, err := factorial(num(v))
			if err != nil {
				return nil, err
			}
			return f, nil
		}),
		p.Surrounding("LPAREN", "RPAREN", 0, func(body any) (any, error) { return body, nil }),
	)

	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

func formatNum(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprint(v)
}

// -----------------------------------------------------------------------------
// entry points
// -----------------------------------------------------------------------------

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			usage()
			return
		case "version":
			fmt.Println(parsnip.Version)
			return
		}
	}

	p, err := buildCalc()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}

	if len(args) == 0 {
		os.Exit(repl(p))
	}

	expr := strings.Join(args, " ")
	v, err := p.Parse(expr)
	if err != nil {
		fmt.Fprintln(os.Stderr, parsnip.WrapErrorWithSource(err, expr).Error())
		os.Exit(1)
	}
	fmt.Println(formatNum(v))
}

func usage() {
	fmt.Printf(`pcalc %s (built %s)

Usage:
  %s <expression>    Evaluate an expression, e.g. %s '(12 + 6) / (4 - 9)'
  %s                 Start the REPL.
  %s version         Print the version.

Operators: + - * / ^ (right assoc), unary -, ! (factorial), parentheses.
`, parsnip.Version, parsnip.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func repl(p *parsnip.Parser) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readByParseProbe(ln, p, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		if strings.TrimSpace(code) == "" {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		v, err := p.Parse(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(parsnip.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Println(blue(formatNum(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe reads one logical input, continuing across lines while a
// probe parse reports the input as incomplete (e.g. an unclosed paren).
func readByParseProbe(ln *liner.State, p *parsnip.Parser, prompt, cont string) (string, bool) {
	var b strings.Builder
	cur := prompt

	for {
		line, err := ln.Prompt(cur)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				b.Reset()
				cur = prompt
				fmt.Println()
				continue
			}
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		code := b.String()

		trimmed := strings.TrimSpace(code)
		if trimmed == "" || strings.HasPrefix(trimmed, ":") {
			return code, true
		}
		if _, perr := p.Parse(code); parsnip.IsIncomplete(perr) {
			cur = cont
			continue
		}
		return code, true
	}
}
