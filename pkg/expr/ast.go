package expr

import (
	"strconv"
	"strings"
)

// Expr is a node of a parsed compare expression.
type Expr interface {
	exprNode()
	String() string
}

// Ident references a column of the row being checked.
type Ident struct {
	Name string
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// Bool is a true/false literal.
type Bool struct {
	Value bool
}

// Unary is a prefix operation (-x, not x).
type Unary struct {
	Op Kind
	X  Expr
}

// Binary is an arithmetic or logical operation.
type Binary struct {
	Op    Kind
	Left  Expr
	Right Expr
}

// Compare is a comparison chain. a < b <= c holds when every adjacent
// pair holds, each operand evaluated at most once.
type Compare struct {
	First Expr
	Ops   []Kind
	Rest  []Expr
}

func (*Ident) exprNode()   {}
func (*Number) exprNode()  {}
func (*Bool) exprNode()    {}
func (*Unary) exprNode()   {}
func (*Binary) exprNode()  {}
func (*Compare) exprNode() {}

func (e *Ident) String() string { return e.Name }

func (e *Number) String() string { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

func (e *Bool) String() string { return strconv.FormatBool(e.Value) }

func (e *Unary) String() string {
	if e.Op == NOT {
		return "(not " + e.X.String() + ")"
	}
	return "(" + e.Op.String() + e.X.String() + ")"
}

func (e *Binary) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

func (e *Compare) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(e.First.String())
	for i, op := range e.Ops {
		sb.WriteString(" ")
		sb.WriteString(op.String())
		sb.WriteString(" ")
		sb.WriteString(e.Rest[i].String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Identifiers returns the distinct column names referenced by e in order of
// first appearance.
func Identifiers(e Expr) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(n Expr) {
		switch n := n.(type) {
		case *Ident:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case *Unary:
			walk(n.X)
		case *Binary:
			walk(n.Left)
			walk(n.Right)
		case *Compare:
			walk(n.First)
			for _, r := range n.Rest {
				walk(r)
			}
		}
	}
	walk(e)
	return names
}

// YieldsBoolean reports whether the top-level node of e produces a boolean:
// a comparison, a literal, a negation or a logical connective. Operand types
// below the top level are checked during evaluation.
func YieldsBoolean(e Expr) bool {
	switch n := e.(type) {
	case *Compare, *Bool:
		return true
	case *Unary:
		return n.Op == NOT
	case *Binary:
		return n.Op == AND || n.Op == OR
	}
	return false
}
