// Package expr evaluates restricted arithmetic expressions entered as item
// prices or advance payments (e.g. "2*25000"). Prices are stored as raw text
// and re-evaluated at calculation time, so the evaluator must be deterministic
// and must never execute anything beyond arithmetic.
package expr

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Common errors
var (
	ErrUnbalancedParens    = errors.New("expression has unbalanced parentheses")
	ErrMalformedExpression = errors.New("malformed arithmetic expression")
	ErrNonFiniteResult     = errors.New("expression result is not finite")
)

// Evaluator parses and evaluates arithmetic-only text. Allowed syntax:
// numeric literals, binary + - * /, unary -, and parentheses.
type Evaluator struct {
	log *slog.Logger
}

// NewEvaluator creates a new expression evaluator.
func NewEvaluator(log *slog.Logger) *Evaluator {
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{log: log}
}

// Evaluate parses text and returns its arithmetic value. Empty or blank input
// evaluates to 0 without error. Any other failure returns a non-nil error.
func (e *Evaluator) Evaluate(text string) (float64, error) {
	cleaned := sanitize(text)
	if cleaned == "" {
		return 0, nil
	}

	if err := checkBalanced(cleaned); err != nil {
		return 0, err
	}

	p := &parser{input: cleaned}
	value, err := p.parseExpression()
	if err != nil {
		return 0, err
	}
	if !p.atEnd() {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrMalformedExpression, p.input[p.pos], p.pos)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNonFiniteResult
	}

	return value, nil
}

// EvaluateOrZero evaluates text and substitutes 0 for any failure, logging a
// warning instead of propagating the error. A single bad keystroke must not
// block calculation of everything else.
func (e *Evaluator) EvaluateOrZero(text string) float64 {
	value, err := e.Evaluate(text)
	if err != nil {
		e.log.Warn("expression evaluation failed, using 0", "input", text, "error", err)
		return 0
	}
	return value
}

// sanitize strips whitespace, thousands separators and any character outside
// the allowed arithmetic set.
func sanitize(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')' || r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// checkBalanced verifies parentheses balance: the running counter never goes
// negative and ends at zero.
func checkBalanced(s string) error {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return ErrUnbalancedParens
			}
		}
	}
	if depth != 0 {
		return ErrUnbalancedParens
	}
	return nil
}

// parser is a recursive-descent parser over the cleaned expression.
//
// Grammar:
//
//	expression = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = "-" unary | factor
//	factor     = number | "(" expression ")"
type parser struct {
	input string
	pos   int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) parseExpression() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for !p.atEnd() {
		op := p.peek()
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			value += rhs
		} else {
			value -= rhs
		}
	}
	return value, nil
}

func (p *parser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for !p.atEnd() {
		op := p.peek()
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			value *= rhs
		} else {
			value /= rhs
		}
	}
	return value, nil
}

func (p *parser) parseUnary() (float64, error) {
	if p.peek() == '-' {
		p.pos++
		value, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -value, nil
	}
	return p.parseFactor()
}

func (p *parser) parseFactor() (float64, error) {
	if p.atEnd() {
		return 0, fmt.Errorf("%w: unexpected end of input", ErrMalformedExpression)
	}

	if p.peek() == '(' {
		p.pos++
		value, err := p.parseExpression()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, ErrUnbalancedParens
		}
		p.pos++
		return value, nil
	}

	return p.parseNumber()
}

func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	seenDot := false
	for !p.atEnd() {
		c := p.input[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, fmt.Errorf("%w: expected number at position %d", ErrMalformedExpression, start)
	}

	value, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrMalformedExpression, p.input[start:p.pos])
	}
	return value, nil
}
