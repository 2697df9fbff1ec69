package expression

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/SscSPs/geocurrency/internal/parser"
	"github.com/SscSPs/geocurrency/internal/units"
)

// Options tunes Compile.
type Options struct {
	// DimensionsOnly accepts a dimension ("[length]") in place of an operand unit.
	DimensionsOnly bool
}

// Compiled is an expression whose operands are bound and whose syntax is valid.
type Compiled struct {
	expr   Expression
	root   *parser.Node
	scope  *units.Scope
	values map[string]Quantity
	out    *units.Term
}

// Compile binds operands and checks the formula syntax.
// Every binding or syntax problem is reported, not only the first one.
func Compile(scope *units.Scope, e Expression, opts Options) (*Compiled, []*Error) {
	c := &Compiled{expr: e, scope: scope, values: map[string]Quantity{}}
	var errs []*Error

	for i, op := range e.Operands {
		field := fmt.Sprintf("operands[%d]", i)
		name := strings.TrimSpace(op.Name)
		if name == "" {
			errs = append(errs, newError(CodeMissingOperand, field+".name", "operand name is required"))
			continue
		}
		if _, dup := c.values[name]; dup {
			errs = append(errs, newError(CodeMissingOperand, field+".name", "operand %s is bound twice", name))
			continue
		}
		if math.IsNaN(op.Value) || math.IsInf(op.Value, 0) {
			errs = append(errs, newError(CodeMissingOperand, field+".value", "value must be a finite number"))
			continue
		}
		unitExpr := strings.TrimSpace(op.Unit)
		if unitExpr == "" {
			errs = append(errs, newError(CodeMissingOperand, field+".unit", "unit is required"))
			continue
		}
		if opts.DimensionsOnly && strings.HasPrefix(unitExpr, "[") {
			ref, err := scope.ReferenceUnit(unitExpr)
			if err != nil {
				errs = append(errs, newError(CodeMissingOperand, field+".unit", "%v", err))
				continue
			}
			unitExpr = ref
		}
		term, err := scope.ParseTerm(unitExpr)
		if err != nil {
			errs = append(errs, newError(CodeMissingOperand, field+".unit", "%v", err))
			continue
		}
		sigma, err := ParseUncertainty(op.Uncertainty, op.Value)
		if err != nil {
			errs = append(errs, newError(CodeMissingOperand, field+".uncertainty", "%v", err))
			continue
		}
		q := fromTerm(op.Value, term)
		if sigma > 0 {
			q.Sigma = map[string]float64{name: sigma * term.Scale}
		}
		c.values[name] = q
	}

	root, err := parser.Parse(e.Formula, parser.Options{Placeholders: true})
	if err != nil {
		return nil, append(errs, newError(CodeBadExpression, "expression", "%v", err))
	}
	c.root = root

	parser.Walk(root, func(n *parser.Node) {
		switch n.Kind {
		case parser.Placeholder:
			if _, ok := c.values[n.Text]; !ok && !bindingFailed(errs, e.Operands, n.Text) {
				errs = append(errs, newError(CodeMissingOperand, "expression", "operand %s is not bound", n.Text))
			}
		case parser.Ident:
			if _, ok := constants[n.Text]; ok {
				return
			}
			if _, err := scope.Resolve(n.Text); err != nil {
				errs = append(errs, newError(CodeBadExpression, "expression", "unknown identifier %s", n.Text))
			}
		case parser.Call:
			arity, ok := functionArity[n.Text]
			if !ok {
				errs = append(errs, newError(CodeBadExpression, "expression", "unknown function %s", n.Text))
				return
			}
			if len(n.Args) < arity[0] || len(n.Args) > arity[1] {
				errs = append(errs, newError(CodeBadExpression, "expression", "%s takes %d to %d arguments", n.Text, arity[0], arity[1]))
			}
		}
	})

	if out := strings.TrimSpace(e.OutUnits); out != "" {
		t, err := scope.ParseTerm(out)
		if err != nil {
			errs = append(errs, newError(CodeBadExpression, "out_units", "%v", err))
		} else {
			c.out = &t
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return c, nil
}

// bindingFailed avoids reporting an operand twice when its binding already failed.
func bindingFailed(errs []*Error, ops []Operand, name string) bool {
	for i, op := range ops {
		if strings.TrimSpace(op.Name) != name {
			continue
		}
		prefix := fmt.Sprintf("operands[%d]", i)
		for _, e := range errs {
			if strings.HasPrefix(e.Field, prefix) {
				return true
			}
		}
	}
	return false
}

// Dimensionality computes the dimensionality of the formula with operands
// substituted by their units.
func (c *Compiled) Dimensionality() (units.Dimensionality, *Error) {
	return c.dims(c.root)
}

// CheckDimensions verifies additive terms and function arguments are coherent,
// and that the result matches the output unit when one is set.
func (c *Compiled) CheckDimensions() *Error {
	d, err := c.dims(c.root)
	if err != nil {
		return err
	}
	if c.out != nil && !c.out.Dim.Equal(d) {
		return newError(CodeIncoherentOutputDimensions, "out_units",
			"expression has dimension %s, %s has dimension %s", d, c.expr.OutUnits, c.out.Dim)
	}
	return nil
}

func (c *Compiled) dims(n *parser.Node) (units.Dimensionality, *Error) {
	switch n.Kind {
	case parser.Number:
		return units.Dimensionless(), nil
	case parser.Placeholder:
		return c.values[n.Text].Dim, nil
	case parser.Ident:
		if _, ok := constants[n.Text]; ok {
			return units.Dimensionless(), nil
		}
		u, err := c.scope.Resolve(n.Text)
		if err != nil {
			return nil, newError(CodeBadExpression, "expression", "%v", err)
		}
		return u.Dim, nil
	case parser.Unary:
		return c.dims(n.Args[0])
	case parser.Binary:
		l, err := c.dims(n.Args[0])
		if err != nil {
			return nil, err
		}
		r, err := c.dims(n.Args[1])
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "+", "-":
			if !l.Equal(r) {
				return nil, newError(CodeIncoherentDimensions, "expression",
					"cannot combine %s and %s with %q", l, r, n.Op)
			}
			return l, nil
		case "*":
			return l.Mul(r), nil
		case "/":
			return l.Div(r), nil
		case "^":
			if !r.IsDimensionless() {
				return nil, newError(CodeIncoherentDimensions, "expression", "exponent must be dimensionless, got %s", r)
			}
			if l.IsDimensionless() {
				return l, nil
			}
			exp, err := c.eval(n.Args[1])
			if err != nil {
				return nil, err
			}
			ev, _ := exp.base()
			rat, ok := units.RatFromFloat(ev)
			if !ok {
				return nil, newError(CodeIncoherentDimensions, "expression", "%s cannot be raised to %g", l, ev)
			}
			return l.Pow(rat), nil
		}
	case parser.Call:
		args := make([]units.Dimensionality, 0, len(n.Args))
		for _, a := range n.Args {
			d, err := c.dims(a)
			if err != nil {
				return nil, err
			}
			args = append(args, d)
		}
		switch n.Text {
		case "sqrt":
			return args[0].Pow(units.R(1, 2)), nil
		case "abs":
			return args[0], nil
		}
		for _, d := range args {
			if !d.IsDimensionless() {
				return nil, newError(CodeIncoherentDimensions, "expression", "%s expects a dimensionless argument, got %s", n.Text, d)
			}
		}
		return units.Dimensionless(), nil
	}
	return nil, newError(CodeBadExpression, "expression", "unexpected %s", n)
}

// Evaluate checks dimensions, evaluates the formula and coerces the result
// to the output unit when one is set.
func (c *Compiled) Evaluate() (Result, *Error) {
	if err := c.CheckDimensions(); err != nil {
		return Result{}, err
	}
	q, err := c.eval(c.root)
	if err != nil {
		return Result{}, err
	}
	if c.out == nil {
		return Result{Magnitude: q.Value, Uncertainty: q.Uncertainty(), Unit: q.Units.String()}, nil
	}
	base := q.Value*q.Factor + q.Offset
	res := Result{
		Magnitude:   c.out.FromBase(base),
		Uncertainty: q.Uncertainty() * q.Factor / (c.out.Scale * c.out.Factor),
		Unit:        c.expr.OutUnits,
	}
	if !finite(res.Magnitude) || !finite(res.Uncertainty) {
		return Result{}, newError(CodeEvaluationError, "out_units", "result cannot be expressed in %s", c.expr.OutUnits)
	}
	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var errOffset = errors.New("offset units (degree Celsius, degree Fahrenheit) cannot take part in arithmetic")

func (c *Compiled) eval(n *parser.Node) (Quantity, *Error) {
	q, err := c.evalNode(n)
	if err != nil {
		return Quantity{}, err
	}
	if !finite(q.Value) {
		return Quantity{}, newError(CodeEvaluationError, "expression", "%s is not a finite number", n)
	}
	return q, nil
}

func (c *Compiled) evalNode(n *parser.Node) (Quantity, *Error) {
	switch n.Kind {
	case parser.Number:
		return number(n.Num), nil
	case parser.Placeholder:
		return c.values[n.Text], nil
	case parser.Ident:
		if v, ok := constants[n.Text]; ok {
			return number(v), nil
		}
		t, err := c.scope.ParseTerm(n.Text)
		if err != nil {
			return Quantity{}, newError(CodeBadExpression, "expression", "%v", err)
		}
		return fromTerm(1, t), nil
	case parser.Unary:
		q, err := c.eval(n.Args[0])
		if err != nil {
			return Quantity{}, err
		}
		if q.Offset != 0 {
			return Quantity{}, newError(CodeEvaluationError, "expression", "%v", errOffset)
		}
		return q.neg(), nil
	case parser.Binary:
		l, err := c.eval(n.Args[0])
		if err != nil {
			return Quantity{}, err
		}
		r, err := c.eval(n.Args[1])
		if err != nil {
			return Quantity{}, err
		}
		if l.Offset != 0 || r.Offset != 0 {
			return Quantity{}, newError(CodeEvaluationError, "expression", "%v", errOffset)
		}
		return c.binary(n, l, r)
	case parser.Call:
		args := make([]Quantity, 0, len(n.Args))
		for _, a := range n.Args {
			q, err := c.eval(a)
			if err != nil {
				return Quantity{}, err
			}
			if q.Offset != 0 {
				return Quantity{}, newError(CodeEvaluationError, "expression", "%v", errOffset)
			}
			args = append(args, q)
		}
		return c.call(n, args)
	}
	return Quantity{}, newError(CodeBadExpression, "expression", "unexpected %s", n)
}

func (c *Compiled) binary(n *parser.Node, l, r Quantity) (Quantity, *Error) {
	switch n.Op {
	case "+", "-":
		if !l.Dim.Equal(r.Dim) {
			return Quantity{}, newError(CodeIncoherentDimensions, "expression", "cannot combine %s and %s", l.Dim, r.Dim)
		}
		sign := 1.0
		if n.Op == "-" {
			sign = -1
		}
		return l.add(r, sign), nil
	case "*":
		return l.mul(r), nil
	case "/":
		if r.Value == 0 {
			return Quantity{}, newError(CodeEvaluationError, "expression", "division by zero in %s", n)
		}
		return l.div(r), nil
	case "^":
		if !r.Dim.IsDimensionless() {
			return Quantity{}, newError(CodeIncoherentDimensions, "expression", "exponent must be dimensionless, got %s", r.Dim)
		}
		ev, _ := r.base()
		if l.Dim.IsDimensionless() {
			bv, bs := l.base()
			l = number(bv)
			l.Sigma = bs
			return l.pow(r, ev, units.Int(0)), nil
		}
		rat, ok := units.RatFromFloat(ev)
		if !ok {
			return Quantity{}, newError(CodeEvaluationError, "expression", "%s cannot be raised to %g", l.Dim, ev)
		}
		return l.pow(r, ev, rat), nil
	}
	return Quantity{}, newError(CodeBadExpression, "expression", "unknown operator %q", n.Op)
}

func (c *Compiled) call(n *parser.Node, args []Quantity) (Quantity, *Error) {
	switch n.Text {
	case "sqrt":
		if args[0].Value < 0 {
			return Quantity{}, newError(CodeEvaluationError, "expression", "square root of a negative value")
		}
		return args[0].pow(number(0.5), 0.5, units.R(1, 2)), nil
	case "abs":
		q := args[0]
		if q.Value < 0 {
			return q.neg(), nil
		}
		return q, nil
	}
	nums := make([]float64, len(args))
	sigmas := make([]map[string]float64, len(args))
	for i, a := range args {
		if !a.Dim.IsDimensionless() {
			return Quantity{}, newError(CodeIncoherentDimensions, "expression", "%s expects a dimensionless argument, got %s", n.Text, a.Dim)
		}
		nums[i], sigmas[i] = a.base()
	}
	if n.Text == "log" {
		if nums[0] <= 0 || (len(nums) == 2 && (nums[1] <= 0 || nums[1] == 1)) {
			return Quantity{}, newError(CodeEvaluationError, "expression", "logarithm outside of its domain")
		}
		if len(nums) == 2 {
			return logBase(nums[0], sigmas[0], nums[1], sigmas[1]), nil
		}
		return applyNumeric(numericFuncs["ln"], nums[0], sigmas[0]), nil
	}
	fn, ok := numericFuncs[n.Text]
	if !ok {
		return Quantity{}, newError(CodeBadExpression, "expression", "unknown function %s", n.Text)
	}
	if (n.Text == "ln" || n.Text == "log10") && nums[0] <= 0 {
		return Quantity{}, newError(CodeEvaluationError, "expression", "logarithm outside of its domain")
	}
	return applyNumeric(fn, nums[0], sigmas[0]), nil
}

// ParseDimensionsIn returns the dimensionality of formula with operands
// substituted by their units. Operand units may be dimensions ("[length]").
func ParseDimensionsIn(scope *units.Scope, formula string, operands []Operand) (units.Dimensionality, error) {
	c, errs := Compile(scope, Expression{Formula: formula, Operands: operands}, Options{DimensionsOnly: true})
	if len(errs) > 0 {
		return nil, errs[0]
	}
	d, err := c.Dimensionality()
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Operands returns the placeholder names used by the formula.
func (c *Compiled) Operands() []string {
	return parser.Placeholders(c.root)
}
