package expr

import "fmt"

// Kind identifies the type of a lexical token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	ILLEGAL

	IDENT
	NUMBER
	TRUE
	FALSE

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT

	EQ
	NE
	LT
	LE
	GT
	GE

	AND
	OR
	NOT

	LPAREN
	RPAREN
)

var kindNames = map[Kind]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	TRUE:    "true",
	FALSE:   "false",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	EQ:      "==",
	NE:      "!=",
	LT:      "<",
	LE:      "<=",
	GT:      ">",
	GE:      ">=",
	AND:     "and",
	OR:      "or",
	NOT:     "not",
	LPAREN:  "(",
	RPAREN:  ")",
}

// String returns the source spelling of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// isComparison reports whether k is a comparison operator.
func (k Kind) isComparison() bool {
	switch k {
	case EQ, NE, LT, LE, GT, GE:
		return true
	default:
		return false
	}
}

// Token is a lexical token with its 1-based column in the expression.
type Token struct {
	Kind    Kind
	Literal string
	Pos     int
}

// keywords maps reserved words to token kinds. Both the Python spelling
// (True, False) and lower case are accepted since existing schemas use either.
var keywords = map[string]Kind{
	"and":   AND,
	"or":    OR,
	"not":   NOT,
	"true":  TRUE,
	"false": FALSE,
	"True":  TRUE,
	"False": FALSE,
}

// lookupIdent returns the keyword kind for ident, or IDENT.
func lookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}
