package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Value is the result of evaluating an expression: a number or a boolean.
type Value struct {
	num    float64
	b      bool
	isBool bool
}

// NumberValue wraps f.
func NumberValue(f float64) Value { return Value{num: f} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{b: b, isBool: true} }

// Float returns the numeric value. It is 0 for booleans.
func (v Value) Float() float64 { return v.num }

// Bool returns the boolean value. It is false for numbers.
func (v Value) Bool() bool { return v.b }

// IsBool reports whether v is a boolean.
func (v Value) IsBool() bool { return v.isBool }

func (v Value) typeName() string {
	if v.isBool {
		return "boolean"
	}
	return "number"
}

func (v Value) String() string {
	if v.isBool {
		return strconv.FormatBool(v.b)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Env supplies identifier values. Missing names evaluate to NaN.
type Env map[string]float64

// Eval evaluates e against env. Arithmetic follows IEEE 754, so division by
// zero yields an infinity or NaN rather than an error.
func Eval(e Expr, env Env) (Value, error) {
	switch n := e.(type) {
	case *Number:
		return NumberValue(n.Value), nil
	case *Bool:
		return BoolValue(n.Value), nil
	case *Ident:
		if v, ok := env[n.Name]; ok {
			return NumberValue(v), nil
		}
		return NumberValue(math.NaN()), nil
	case *Unary:
		return evalUnary(n, env)
	case *Binary:
		return evalBinary(n, env)
	case *Compare:
		return evalCompare(n, env)
	default:
		return Value{}, fmt.Errorf("unsupported expression %T", e)
	}
}

func evalUnary(n *Unary, env Env) (Value, error) {
	x, err := Eval(n.X, env)
	if err != nil {
		return Value{}, err
	}
	if n.Op == NOT {
		if !x.isBool {
			return Value{}, &TypeError{Op: n.Op, Want: "boolean", Got: x.typeName()}
		}
		return BoolValue(!x.b), nil
	}
	if x.isBool {
		return Value{}, &TypeError{Op: n.Op, Want: "number", Got: x.typeName()}
	}
	if n.Op == MINUS {
		return NumberValue(-x.num), nil
	}
	return x, nil
}

func evalBinary(n *Binary, env Env) (Value, error) {
	left, err := Eval(n.Left, env)
	if err != nil {
		return Value{}, err
	}

	if n.Op == AND || n.Op == OR {
		if !left.isBool {
			return Value{}, &TypeError{Op: n.Op, Want: "boolean", Got: left.typeName()}
		}
		// short-circuit
		if (n.Op == AND && !left.b) || (n.Op == OR && left.b) {
			return left, nil
		}
		right, err := Eval(n.Right, env)
		if err != nil {
			return Value{}, err
		}
		if !right.isBool {
			return Value{}, &TypeError{Op: n.Op, Want: "boolean", Got: right.typeName()}
		}
		return right, nil
	}

	right, err := Eval(n.Right, env)
	if err != nil {
		return Value{}, err
	}
	if left.isBool || right.isBool {
		return Value{}, &TypeError{Op: n.Op, Want: "number", Got: "boolean"}
	}

	a, b := left.num, right.num
	switch n.Op {
	case PLUS:
		return NumberValue(a + b), nil
	case MINUS:
		return NumberValue(a - b), nil
	case STAR:
		return NumberValue(a * b), nil
	case SLASH:
		return NumberValue(a / b), nil
	case PERCENT:
		return NumberValue(floorMod(a, b)), nil
	default:
		return Value{}, fmt.Errorf("unsupported operator %s", n.Op)
	}
}

// floorMod returns a modulo b with the sign of b. A zero divisor yields NaN.
func floorMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && !math.IsNaN(r) && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func evalCompare(n *Compare, env Env) (Value, error) {
	left, err := Eval(n.First, env)
	if err != nil {
		return Value{}, err
	}
	for i, op := range n.Ops {
		right, err := Eval(n.Rest[i], env)
		if err != nil {
			return Value{}, err
		}
		ok, err := compare(op, left, right)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return BoolValue(false), nil
		}
		left = right
	}
	return BoolValue(true), nil
}

// compare applies op. Numbers compare by IEEE rules: every ordering and ==
// involving NaN is false, != involving NaN is true. Booleans support only
// equality.
func compare(op Kind, a, b Value) (bool, error) {
	if a.isBool != b.isBool {
		return false, &TypeError{Op: op, Want: "operands of the same type", Got: a.typeName() + " and " + b.typeName()}
	}
	if a.isBool {
		switch op {
		case EQ:
			return a.b == b.b, nil
		case NE:
			return a.b != b.b, nil
		default:
			return false, &TypeError{Op: op, Want: "number", Got: "boolean"}
		}
	}

	x, y := a.num, b.num
	switch op {
	case EQ:
		return x == y, nil
	case NE:
		return x != y, nil
	case LT:
		return x < y, nil
	case LE:
		return x <= y, nil
	case GT:
		return x > y, nil
	case GE:
		return x >= y, nil
	default:
		return false, fmt.Errorf("unsupported comparison %s", op)
	}
}

// Program is a compiled expression together with its source.
type Program struct {
	Source string
	Root   Expr
}

// Compile parses source into a Program.
func Compile(source string) (*Program, error) {
	root, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return &Program{Source: source, Root: root}, nil
}

// Check evaluates the program and reports whether it holds for env.
// A program that yields a number fails with ErrNotBoolean.
func (p *Program) Check(env Env) (bool, error) {
	v, err := Eval(p.Root, env)
	if err != nil {
		return false, err
	}
	if !v.isBool {
		return false, ErrNotBoolean
	}
	return v.b, nil
}

// Identifiers returns the column names referenced by the program.
func (p *Program) Identifiers() []string {
	return Identifiers(p.Root)
}
