package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rat is a small exact fraction used for dimension exponents.
// The zero value is 0. Den is always positive once normalized.
type Rat struct {
	Num int64
	Den int64
}

// R returns the normalized fraction num/den.
func R(num, den int64) Rat {
	return Rat{Num: num, Den: den}.norm()
}

// Int returns the fraction n/1.
func Int(n int64) Rat {
	return Rat{Num: n, Den: 1}
}

func gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func (r Rat) norm() Rat {
	if r.Den == 0 {
		if r.Num == 0 {
			return Rat{Num: 0, Den: 1}
		}
		r.Den = 1
	}
	if r.Den < 0 {
		r.Num, r.Den = -r.Num, -r.Den
	}
	if g := gcd(r.Num, r.Den); g > 1 {
		r.Num /= g
		r.Den /= g
	}
	if r.Num == 0 {
		r.Den = 1
	}
	return r
}

func (r Rat) den() int64 {
	if r.Den == 0 {
		return 1
	}
	return r.Den
}

func (r Rat) Add(o Rat) Rat {
	return Rat{Num: r.Num*o.den() + o.Num*r.den(), Den: r.den() * o.den()}.norm()
}

func (r Rat) Mul(o Rat) Rat {
	return Rat{Num: r.Num * o.Num, Den: r.den() * o.den()}.norm()
}

func (r Rat) Neg() Rat {
	return Rat{Num: -r.Num, Den: r.den()}
}

func (r Rat) IsZero() bool {
	return r.Num == 0
}

func (r Rat) IsInt() bool {
	return r.norm().Den == 1
}

func (r Rat) Equal(o Rat) bool {
	a, b := r.norm(), o.norm()
	return a.Num == b.Num && a.Den == b.Den
}

func (r Rat) Float() float64 {
	return float64(r.Num) / float64(r.den())
}

func (r Rat) String() string {
	n := r.norm()
	if n.Den == 1 {
		return strconv.FormatInt(n.Num, 10)
	}
	return fmt.Sprintf("%d/%d", n.Num, n.Den)
}

// RatFromFloat approximates f by a fraction with a denominator up to 1000.
// ok is false when f is not close to such a fraction.
func RatFromFloat(f float64) (Rat, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Rat{}, false
	}
	for den := int64(1); den <= 1000; den++ {
		num := math.Round(f * float64(den))
		if math.Abs(num/float64(den)-f) < 1e-9 {
			return R(int64(num), den), true
		}
	}
	return Rat{}, false
}

// ParseRat reads "3", "-2" or "1/2".
func ParseRat(s string) (Rat, error) {
	s = strings.TrimSpace(s)
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Rat{}, fmt.Errorf("invalid exponent %q", s)
	}
	if !found {
		return Int(n), nil
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil || d == 0 {
		return Rat{}, fmt.Errorf("invalid exponent %q", s)
	}
	return R(n, d), nil
}

func (r Rat) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rat) UnmarshalText(b []byte) error {
	v, err := ParseRat(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
