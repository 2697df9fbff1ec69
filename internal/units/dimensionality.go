package units

import (
	"sort"
	"strings"
)

// Dimensionality maps a base dimension name to its exponent.
// Zero exponents are never stored.
type Dimensionality map[string]Rat

// Dimensionless is the empty dimensionality.
func Dimensionless() Dimensionality {
	return Dimensionality{}
}

func (d Dimensionality) Clone() Dimensionality {
	out := make(Dimensionality, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (d Dimensionality) addScaled(o Dimensionality, by Rat) {
	for k, v := range o {
		nv := d[k].Add(v.Mul(by))
		if nv.IsZero() {
			delete(d, k)
		} else {
			d[k] = nv
		}
	}
}

// Mul returns d * o.
func (d Dimensionality) Mul(o Dimensionality) Dimensionality {
	out := d.Clone()
	out.addScaled(o, Int(1))
	return out
}

// Div returns d / o.
func (d Dimensionality) Div(o Dimensionality) Dimensionality {
	out := d.Clone()
	out.addScaled(o, Int(-1))
	return out
}

// Pow returns d raised to e.
func (d Dimensionality) Pow(e Rat) Dimensionality {
	out := Dimensionality{}
	out.addScaled(d, e)
	return out
}

// Equal reports exact equality of exponents.
func (d Dimensionality) Equal(o Dimensionality) bool {
	if len(d) != len(o) {
		return false
	}
	for k, v := range d {
		ov, ok := o[k]
		if !ok || !ov.Equal(v) {
			return false
		}
	}
	return true
}

func (d Dimensionality) IsDimensionless() bool {
	return len(d) == 0
}

func (d Dimensionality) sortedKeys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Key is a canonical form usable as a map key: "[length]*[time]^-2".
func (d Dimensionality) Key() string {
	if len(d) == 0 {
		return "[]"
	}
	parts := make([]string, 0, len(d))
	for _, k := range d.sortedKeys() {
		p := "[" + k + "]"
		if e := d[k]; !e.Equal(Int(1)) {
			p += "^" + e.String()
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, "*")
}

// Format renders d with positive exponents first and negatives after a slash,
// e.g. "length / time^2". tr maps a base dimension name to its display token.
func (d Dimensionality) Format(tr func(string) string) string {
	if len(d) == 0 {
		return tr("dimensionless")
	}
	var num, den []string
	for _, k := range d.sortedKeys() {
		e := d[k]
		token := tr(k)
		if e.Num > 0 {
			if !e.Equal(Int(1)) {
				token += "^" + e.String()
			}
			num = append(num, token)
		} else {
			if pe := e.Neg(); !pe.Equal(Int(1)) {
				token += "^" + pe.String()
			}
			den = append(den, token)
		}
	}
	s := strings.Join(num, " * ")
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s += " / " + strings.Join(den, " / ")
	}
	return s
}

func (d Dimensionality) String() string {
	return d.Format(func(s string) string { return s })
}
