package units

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/SscSPs/geocurrency/internal/parser"
)

// UnitMap maps a canonical unit code to its exponent.
type UnitMap map[string]Rat

func (m UnitMap) mul(o UnitMap, by Rat) UnitMap {
	out := make(UnitMap, len(m)+len(o))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range o {
		nv := out[k].Add(v.Mul(by))
		if nv.IsZero() {
			delete(out, k)
		} else {
			out[k] = nv
		}
	}
	return out
}

// Mul returns m * o.
func (m UnitMap) Mul(o UnitMap) UnitMap { return m.mul(o, Int(1)) }

// Div returns m / o.
func (m UnitMap) Div(o UnitMap) UnitMap { return m.mul(o, Int(-1)) }

// Pow returns m raised to e.
func (m UnitMap) Pow(e Rat) UnitMap { return UnitMap{}.mul(m, e) }

// String renders m as "kilogram * meter / second ** 2".
func (m UnitMap) String() string {
	if len(m) == 0 {
		return "dimensionless"
	}
	codes := make([]string, 0, len(m))
	for k := range m {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	var num, den []string
	for _, c := range codes {
		e := m[c]
		if e.Num > 0 {
			num = append(num, powString(c, e))
		} else {
			den = append(den, powString(c, e.Neg()))
		}
	}
	s := strings.Join(num, " * ")
	if s == "" {
		s = "1"
	}
	for _, d := range den {
		s += " / " + d
	}
	return s
}

func powString(code string, e Rat) string {
	if e.Equal(Int(1)) {
		return code
	}
	if e.IsInt() {
		return code + " ** " + e.String()
	}
	return code + " ** (" + e.String() + ")"
}

// Term is an evaluated unit expression: Scale times the product of Units.
// Factor converts one of Units to the base units of Dim.
type Term struct {
	Scale  float64
	Units  UnitMap
	Factor float64
	Dim    Dimensionality
	// Offset is set when the term is a single offset unit (degree Celsius)
	Offset float64
	offset bool
}

func scalarTerm(v float64) Term {
	return Term{Scale: v, Units: UnitMap{}, Factor: 1, Dim: Dimensionless()}
}

func unitTerm(u Unit) Term {
	return Term{
		Scale:  1,
		Units:  UnitMap{u.Code: Int(1)},
		Factor: u.Factor,
		Dim:    u.Dim.Clone(),
		Offset: u.Offset,
		offset: u.Offset != 0,
	}
}

// Magnitude is the value of the term in base units, ignoring offsets.
func (t Term) Magnitude() float64 {
	return t.Scale * t.Factor
}

// ToBase converts v expressed in t to base units.
func (t Term) ToBase(v float64) float64 {
	return v*t.Scale*t.Factor + t.Offset
}

// FromBase converts v expressed in base units to t.
func (t Term) FromBase(v float64) float64 {
	return (v - t.Offset) / (t.Scale * t.Factor)
}

// Unitless reports whether t carries no unit at all.
func (t Term) Unitless() bool {
	return len(t.Units) == 0
}

func (t Term) mul(o Term) (Term, error) {
	if (t.offset && !o.Unitless()) || (o.offset && !t.Unitless()) {
		return Term{}, ErrOffsetUnit
	}
	return Term{
		Scale:  t.Scale * o.Scale,
		Units:  t.Units.Mul(o.Units),
		Factor: t.Factor * o.Factor,
		Dim:    t.Dim.Mul(o.Dim),
		Offset: t.Offset + o.Offset,
		offset: t.offset || o.offset,
	}, nil
}

func (t Term) div(o Term) (Term, error) {
	if o.offset || (t.offset && !o.Unitless()) {
		return Term{}, ErrOffsetUnit
	}
	return Term{
		Scale:  t.Scale / o.Scale,
		Units:  t.Units.Div(o.Units),
		Factor: t.Factor / o.Factor,
		Dim:    t.Dim.Div(o.Dim),
		Offset: t.Offset,
		offset: t.offset,
	}, nil
}

func (t Term) pow(e Rat) (Term, error) {
	if t.offset && !e.Equal(Int(1)) {
		return Term{}, ErrOffsetUnit
	}
	f := e.Float()
	return Term{
		Scale:  math.Pow(t.Scale, f),
		Units:  t.Units.Pow(e),
		Factor: math.Pow(t.Factor, f),
		Dim:    t.Dim.Pow(e),
		Offset: t.Offset,
		offset: t.offset,
	}, nil
}

// ParseTerm evaluates a unit expression such as "1 meter / second ** 2".
func (s *Scope) ParseTerm(expr string) (Term, error) {
	node, err := parser.Parse(expr, parser.Options{ImplicitMultiplication: true})
	if err != nil {
		return Term{}, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	return s.evalTerm(node)
}

func (s *Scope) evalTerm(n *parser.Node) (Term, error) {
	switch n.Kind {
	case parser.Number:
		return scalarTerm(n.Num), nil
	case parser.Ident:
		u, err := s.Resolve(n.Text)
		if err != nil {
			return Term{}, err
		}
		return unitTerm(u), nil
	case parser.Unary:
		t, err := s.evalTerm(n.Args[0])
		if err != nil {
			return Term{}, err
		}
		t.Scale = -t.Scale
		return t, nil
	case parser.Binary:
		l, err := s.evalTerm(n.Args[0])
		if err != nil {
			return Term{}, err
		}
		r, err := s.evalTerm(n.Args[1])
		if err != nil {
			return Term{}, err
		}
		switch n.Op {
		case "*":
			return l.mul(r)
		case "/":
			if r.Scale == 0 {
				return Term{}, fmt.Errorf("%w: division by zero", ErrInvalidExpression)
			}
			return l.div(r)
		case "^":
			if !r.Unitless() {
				return Term{}, fmt.Errorf("%w: exponent must be a number", ErrInvalidExpression)
			}
			e, ok := RatFromFloat(r.Scale)
			if !ok {
				return Term{}, fmt.Errorf("%w: exponent %g is not a simple fraction", ErrInvalidExpression, r.Scale)
			}
			return l.pow(e)
		case "+", "-":
			if !l.Unitless() || !r.Unitless() {
				return Term{}, fmt.Errorf("%w: units cannot be added in a unit expression", ErrInvalidExpression)
			}
			if n.Op == "-" {
				return scalarTerm(l.Scale - r.Scale), nil
			}
			return scalarTerm(l.Scale + r.Scale), nil
		}
	}
	return Term{}, fmt.Errorf("%w: unexpected %s", ErrInvalidExpression, n)
}
