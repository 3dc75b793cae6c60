package validate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcheck/pkg/core"
	"github.com/leapstack-labs/leapcheck/pkg/expr"
	"github.com/leapstack-labs/leapcheck/pkg/schema"
)

// Evaluator checks row-level constraints.
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator returns an Evaluator that resolves "today" with now.
func NewEvaluator(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now}
}

// Evaluate checks c against row. It returns the error message and true when
// the constraint fails.
func (e *Evaluator) Evaluate(c *schema.Constraint, row Row, rowNum int) (core.Message, bool) {
	switch c.Kind {
	case schema.KindRegex:
		return e.evalRegex(c, row, rowNum)
	case schema.KindMaxDate:
		return e.evalMaxDate(c, row, rowNum)
	case schema.KindCompare:
		return e.evalCompare(c, row, rowNum)
	default:
		return core.Message{}, false
	}
}

func (e *Evaluator) evalRegex(c *schema.Constraint, row Row, rowNum int) (core.Message, bool) {
	value := row[c.Field]
	re := c.Regexp()
	if value == "" || re == nil || re.MatchString(value) {
		return core.Message{}, false
	}
	return rowError(rowNum, c.Field, "Row %d: field '%s' fails constraint '%s'", rowNum, c.Field, c.Name), true
}

func (e *Evaluator) evalMaxDate(c *schema.Constraint, row Row, rowNum int) (core.Message, bool) {
	value := row[c.Field]
	if value == "" {
		return core.Message{}, false
	}
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return rowError(rowNum, c.Field, "Row %d: field '%s' has invalid date '%s' for constraint '%s'", rowNum, c.Field, value, c.Name), true
	}
	ceiling, ok := c.MaxDate()
	if !ok {
		y, m, day := e.now().Date()
		ceiling = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	if d.After(ceiling) {
		return rowError(rowNum, c.Field, "Row %d: date %s exceeds maximum allowed %s", rowNum, value, ceiling.Format(time.DateOnly)), true
	}
	return core.Message{}, false
}

func (e *Evaluator) evalCompare(c *schema.Constraint, row Row, rowNum int) (core.Message, bool) {
	p := c.Program()
	if p == nil {
		return rowError(rowNum, "", "Row %d: could not evaluate constraint '%s' (expression not compiled)", rowNum, c.Name), true
	}
	ok, err := p.Check(numericEnv(row))
	if err != nil {
		return rowError(rowNum, "", "Row %d: could not evaluate constraint '%s' (%v)", rowNum, c.Name, err), true
	}
	if !ok {
		return rowError(rowNum, "", "Row %d: comparison '%s' failed", rowNum, c.Expression), true
	}
	return core.Message{}, false
}

// numericEnv maps every column of row to a number. Empty or unparsable
// cells become NaN.
func numericEnv(row Row) expr.Env {
	env := make(expr.Env, len(row))
	for k, v := range row {
		env[k] = parseNumber(v)
	}
	return env
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func rowError(rowNum int, column, format string, args ...any) core.Message {
	return core.Message{
		Level:   core.LevelError,
		Message: fmt.Sprintf(format, args...),
		Row:     rowNum,
		Column:  column,
	}
}
