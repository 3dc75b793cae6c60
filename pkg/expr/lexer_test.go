package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Kind
	}{
		{"comparison", "net_price <= list_price", []Kind{IDENT, LE, IDENT, EOF}},
		{"python keywords", "not a and b or c", []Kind{NOT, IDENT, AND, IDENT, OR, IDENT, EOF}},
		{"symbolic logic", "!a && b || c", []Kind{NOT, IDENT, AND, IDENT, OR, IDENT, EOF}},
		{"arithmetic", "a*2 + b/3 - c%4", []Kind{IDENT, STAR, NUMBER, PLUS, IDENT, SLASH, NUMBER, MINUS, IDENT, PERCENT, NUMBER, EOF}},
		{"all comparisons", "== != < <= > >=", []Kind{EQ, NE, LT, LE, GT, GE, EOF}},
		{"booleans", "True false", []Kind{TRUE, FALSE, EOF}},
		{"parens", "(a)", []Kind{LPAREN, IDENT, RPAREN, EOF}},
		{"single equals is illegal", "a = b", []Kind{IDENT, ILLEGAL, IDENT, EOF}},
		{"unknown char", "a $ b", []Kind{IDENT, ILLEGAL, IDENT, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLexer(tt.input)
			var got []Kind
			for {
				tok := l.NextToken()
				got = append(got, tok.Kind)
				if tok.Kind == EOF {
					break
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []string{"0", "42", "3.14", ".5", "1e3", "2.5E-2", "1_000"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			tok := NewLexer(in).NextToken()
			assert.Equal(t, NUMBER, tok.Kind)
			assert.Equal(t, in, tok.Literal)
		})
	}
}

func TestLexer_Positions(t *testing.T) {
	l := NewLexer("ab  >= 1")
	assert.Equal(t, 1, l.NextToken().Pos)
	assert.Equal(t, 5, l.NextToken().Pos)
	assert.Equal(t, 8, l.NextToken().Pos)
}
