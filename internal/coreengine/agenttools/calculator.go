package agenttools

import (
	"fmt"
	"strconv"
	"strings"
)

type calculatorTool struct{}

func (t *calculatorTool) Name() string { return "calculator" }

func (t *calculatorTool) Description() string {
	return "Evaluate a basic arithmetic expression (+, -, *, /, parentheses)"
}

func (t *calculatorTool) Execute(args map[string]string) (string, error) {
	expr := strings.TrimSpace(args["expression"])
	if expr == "" {
		return "", fmt.Errorf("calculator requires an expression")
	}
	if !safeExpression(expr) {
		return "", fmt.Errorf("calculator: expression contains unsupported characters")
	}
	val, err := evalExpression(expr)
	if err != nil {
		return "", fmt.Errorf("calculator: %w", err)
	}
	return fmt.Sprintf("%s = %s", expr, formatNumber(val)), nil
}

func safeExpression(expr string) bool {
	for _, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case r == '+' || r == '-' || r == '*' || r == '/':
		case r == '(' || r == ')' || r == '.' || r == ' ':
		default:
			return false
		}
	}
	return true
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// evalExpression is a small recursive-descent evaluator for arithmetic
// expressions. Grammar: expr := term (('+'|'-') term)*,
// term := factor (('*'|'/') factor)*, factor := number | '(' expr ')' | '-' factor.
func evalExpression(expr string) (float64, error) {
	p := &exprParser{input: expr}
	val, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos != len(p.input) {
		return 0, fmt.Errorf("unexpected character at position %d", p.pos)
	}
	return val, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *exprParser) parseExpr() (float64, error) {
	val, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '+' && op != '-' {
			return val, nil
		}
		p.pos++
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			val += rhs
		} else {
			val -= rhs
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	val, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		op := p.peek()
		if op != '*' && op != '/' {
			return val, nil
		}
		p.pos++
		rhs, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			val *= rhs
		} else {
			if rhs == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			val /= rhs
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	p.skipSpaces()
	switch {
	case p.peek() == '-':
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	case p.peek() == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.peek() != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		start := p.pos
		for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
			p.pos++
		}
		if start == p.pos {
			return 0, fmt.Errorf("expected number at position %d", start)
		}
		return strconv.ParseFloat(p.input[start:p.pos], 64)
	}
}
