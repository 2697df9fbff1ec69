package expression

import (
	"math"
	"sort"

	"github.com/SscSPs/geocurrency/internal/units"
)

// Quantity is a value in Units with per-operand standard deviation
// contributions expressed in the same units.
type Quantity struct {
	Value  float64
	Units  units.UnitMap
	Factor float64
	Dim    units.Dimensionality
	Offset float64
	Sigma  map[string]float64
}

func number(v float64) Quantity {
	return Quantity{Value: v, Units: units.UnitMap{}, Factor: 1, Dim: units.Dimensionless()}
}

func fromTerm(v float64, t units.Term) Quantity {
	return Quantity{
		Value:  v * t.Scale,
		Units:  t.Units,
		Factor: t.Factor,
		Dim:    t.Dim,
		Offset: t.Offset,
	}
}

// Uncertainty combines the contributions in quadrature.
func (q Quantity) Uncertainty() float64 {
	keys := make([]string, 0, len(q.Sigma))
	for k := range q.Sigma {
		keys = append(keys, k)
	}
	// fixed order keeps results identical whatever the operand order
	sort.Strings(keys)
	sum := 0.0
	for _, k := range keys {
		sum += q.Sigma[k] * q.Sigma[k]
	}
	return math.Sqrt(sum)
}

func combine(a map[string]float64, ka float64, b map[string]float64, kb float64) map[string]float64 {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]float64, len(a)+len(b))
	for k, v := range a {
		out[k] += ka * v
	}
	for k, v := range b {
		out[k] += kb * v
	}
	return out
}

func scaled(a map[string]float64, k float64) map[string]float64 {
	return combine(a, k, nil, 0)
}

// base returns q as a plain number in base units. Callers check Dim first.
func (q Quantity) base() (float64, map[string]float64) {
	return q.Value * q.Factor, scaled(q.Sigma, q.Factor)
}

func (q Quantity) neg() Quantity {
	q.Value = -q.Value
	q.Sigma = scaled(q.Sigma, -1)
	return q
}

func (q Quantity) mul(o Quantity) Quantity {
	return Quantity{
		Value:  q.Value * o.Value,
		Units:  q.Units.Mul(o.Units),
		Factor: q.Factor * o.Factor,
		Dim:    q.Dim.Mul(o.Dim),
		Sigma:  combine(q.Sigma, o.Value, o.Sigma, q.Value),
	}
}

func (q Quantity) div(o Quantity) Quantity {
	return Quantity{
		Value:  q.Value / o.Value,
		Units:  q.Units.Div(o.Units),
		Factor: q.Factor / o.Factor,
		Dim:    q.Dim.Div(o.Dim),
		Sigma:  combine(q.Sigma, 1/o.Value, o.Sigma, -q.Value/(o.Value*o.Value)),
	}
}

// add converts o to the units of q before adding. sign is 1 or -1.
func (q Quantity) add(o Quantity, sign float64) Quantity {
	ratio := o.Factor / q.Factor
	return Quantity{
		Value:  q.Value + sign*o.Value*ratio,
		Units:  q.Units,
		Factor: q.Factor,
		Dim:    q.Dim,
		Sigma:  combine(q.Sigma, 1, o.Sigma, sign*ratio),
	}
}

// pow raises q to a dimensionless exponent e whose rational form is r.
func (q Quantity) pow(e Quantity, ev float64, r units.Rat) Quantity {
	v := math.Pow(q.Value, ev)
	// d(x^y) = y x^(y-1) dx + ln(x) x^y dy
	dx := ev * math.Pow(q.Value, ev-1)
	dy := 0.0
	if len(e.Sigma) > 0 && q.Value > 0 {
		dy = math.Log(q.Value) * v
	}
	_, esig := e.base()
	return Quantity{
		Value:  v,
		Units:  q.Units.Pow(r),
		Factor: math.Pow(q.Factor, ev),
		Dim:    q.Dim.Pow(r),
		Sigma:  combine(q.Sigma, dx, esig, dy),
	}
}
