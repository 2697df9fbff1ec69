package expression

import "math"

type numericFunc struct {
	f  func(float64) float64
	df func(float64) float64
}

// functions taking one dimensionless argument
var numericFuncs = map[string]numericFunc{
	"exp":   {math.Exp, math.Exp},
	"ln":    {math.Log, func(x float64) float64 { return 1 / x }},
	"log10": {math.Log10, func(x float64) float64 { return 1 / (x * math.Ln10) }},
	"sin":   {math.Sin, math.Cos},
	"cos":   {math.Cos, func(x float64) float64 { return -math.Sin(x) }},
	"tan":   {math.Tan, func(x float64) float64 { c := math.Cos(x); return 1 / (c * c) }},
}

// arity bounds per function name
var functionArity = map[string][2]int{
	"sqrt":  {1, 1},
	"abs":   {1, 1},
	"exp":   {1, 1},
	"log":   {1, 2},
	"ln":    {1, 1},
	"log10": {1, 1},
	"sin":   {1, 1},
	"cos":   {1, 1},
	"tan":   {1, 1},
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func applyNumeric(fn numericFunc, v float64, sigma map[string]float64) Quantity {
	q := number(fn.f(v))
	q.Sigma = scaled(sigma, fn.df(v))
	return q
}

// logBase computes ln(x)/ln(b) with both arguments uncertain.
func logBase(x float64, xs map[string]float64, b float64, bs map[string]float64) Quantity {
	lb := math.Log(b)
	q := number(math.Log(x) / lb)
	q.Sigma = combine(xs, 1/(x*lb), bs, -math.Log(x)/(b*lb*lb))
	return q
}
