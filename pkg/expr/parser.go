package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels:
//
//	precedenceNone       = 0
//	precedenceOr         = 1  (or, ||)
//	precedenceAnd        = 2  (and, &&)
//	precedenceNot        = 3  (not, !)
//	precedenceComparison = 4  (==, !=, <, >, <=, >=)
//	precedenceAddition   = 5  (+, -)
//	precedenceMultiply   = 6  (*, /, %)
//	precedenceUnary      = 7  (-, +)
const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceNot
	precedenceComparison
	precedenceAddition
	precedenceMultiply
	precedenceUnary
)

// Parser builds an Expr from a token stream.
type Parser struct {
	lexer *Lexer
	token Token
	peek  Token
	err   error
}

// NewParser creates a parser over input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete compare expression.
func Parse(input string) (Expr, error) {
	p := NewParser(input)
	e := p.parseExpression()
	if p.err == nil && p.token.Kind != EOF {
		p.fail(p.token.Pos, errTrailingInput, p.token.Literal)
	}
	if p.err != nil {
		return nil, p.err
	}
	return e, nil
}

func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// fail records the first error; later errors are consequences of it.
func (p *Parser) fail(pos int, format string, args ...any) {
	if p.err == nil {
		p.err = &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
	}
}

func (p *Parser) parseExpression() Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := infixPrecedence(p.token.Kind)
		if prec == precedenceNone || prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}
	return left
}

func (p *Parser) parsePrefixExpr() Expr {
	switch p.token.Kind {
	case NOT:
		p.nextToken()
		x := p.parseExpressionWithPrecedence(precedenceNot)
		if x == nil {
			return nil
		}
		return &Unary{Op: NOT, X: x}
	case MINUS, PLUS:
		op := p.token.Kind
		p.nextToken()
		x := p.parseExpressionWithPrecedence(precedenceUnary)
		if x == nil {
			return nil
		}
		return &Unary{Op: op, X: x}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() Expr {
	tok := p.token
	switch tok.Kind {
	case IDENT:
		p.nextToken()
		return &Ident{Name: tok.Literal}
	case NUMBER:
		p.nextToken()
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
		if err != nil {
			p.fail(tok.Pos, errInvalidNumber, tok.Literal)
			return nil
		}
		return &Number{Value: v}
	case TRUE, FALSE:
		p.nextToken()
		return &Bool{Value: tok.Kind == TRUE}
	case LPAREN:
		p.nextToken()
		e := p.parseExpression()
		if e == nil {
			return nil
		}
		if p.token.Kind != RPAREN {
			p.fail(p.token.Pos, errUnexpectedToken, p.token.Literal, "\")\"")
			return nil
		}
		p.nextToken()
		return e
	case ILLEGAL:
		p.fail(tok.Pos, errIllegalChar, tok.Literal)
		return nil
	case EOF:
		p.fail(tok.Pos, "unexpected end of expression")
		return nil
	default:
		p.fail(tok.Pos, errUnexpectedToken, tok.Literal, "an operand")
		return nil
	}
}

func (p *Parser) parseInfixExpr(left Expr, prec int) Expr {
	if prec == precedenceComparison {
		return p.parseCompareChain(left)
	}

	op := p.token.Kind
	p.nextToken()
	right := p.parseExpressionWithPrecedence(prec + 1)
	if right == nil {
		return nil
	}
	return &Binary{Op: op, Left: left, Right: right}
}

// parseCompareChain folds a run of comparisons into one Compare node.
func (p *Parser) parseCompareChain(first Expr) Expr {
	c := &Compare{First: first}
	for p.token.Kind.isComparison() {
		op := p.token.Kind
		p.nextToken()
		right := p.parseExpressionWithPrecedence(precedenceComparison + 1)
		if right == nil {
			return nil
		}
		c.Ops = append(c.Ops, op)
		c.Rest = append(c.Rest, right)
	}
	return c
}

func infixPrecedence(k Kind) int {
	switch k {
	case OR:
		return precedenceOr
	case AND:
		return precedenceAnd
	case EQ, NE, LT, LE, GT, GE:
		return precedenceComparison
	case PLUS, MINUS:
		return precedenceAddition
	case STAR, SLASH, PERCENT:
		return precedenceMultiply
	default:
		return precedenceNone
	}
}
