package expression_test

import (
	"math"
	"testing"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/expression"
	"github.com/SscSPs/geocurrency/internal/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ExpressionTestSuite struct {
	suite.Suite
	scope *units.Scope
}

func (suite *ExpressionTestSuite) SetupTest() {
	reg, err := units.Default()
	suite.Require().NoError(err)
	suite.scope, err = reg.Scope("SI")
	suite.Require().NoError(err)
}

func TestExpressionTestSuite(t *testing.T) {
	suite.Run(t, new(ExpressionTestSuite))
}

func (suite *ExpressionTestSuite) evaluate(e expression.Expression) (expression.Result, *expression.Error) {
	c, errs := expression.Compile(suite.scope, e, expression.Options{})
	suite.Require().Empty(errs)
	return c.Evaluate()
}

func (suite *ExpressionTestSuite) TestMassWithUncertainty() {
	res, err := suite.evaluate(expression.Expression{
		Formula: "3*{a} + 15*{b}",
		Operands: []expression.Operand{
			{Name: "a", Value: 0.1, Unit: "kg", Uncertainty: "10%"},
			{Name: "b", Value: 15, Unit: "g"},
		},
		OutUnits: "kg",
	})
	suite.Require().Nil(err)
	suite.InDelta(0.525, res.Magnitude, 1e-12)
	suite.InDelta(0.03, res.Uncertainty, 1e-12)
	suite.Equal("kg", res.Unit)
}

func (suite *ExpressionTestSuite) TestOperandOrderDoesNotMatter() {
	ops := []expression.Operand{
		{Name: "a", Value: 2, Unit: "meter", Uncertainty: "0.1"},
		{Name: "b", Value: 3, Unit: "second", Uncertainty: "0.2"},
		{Name: "c", Value: 50, Unit: "centimeter", Uncertainty: "1%"},
	}
	reversed := []expression.Operand{ops[2], ops[1], ops[0]}

	first, err := suite.evaluate(expression.Expression{Formula: "({a} + {c}) / {b}", Operands: ops})
	suite.Require().Nil(err)
	second, err := suite.evaluate(expression.Expression{Formula: "({a} + {c}) / {b}", Operands: reversed})
	suite.Require().Nil(err)

	suite.Equal(first, second)
	suite.InDelta(2.5/3, first.Magnitude, 1e-12)
	suite.Equal("meter / second", first.Unit)
}

func (suite *ExpressionTestSuite) TestIncoherentDimensions() {
	c, errs := expression.Compile(suite.scope, expression.Expression{
		Formula: "{a} + {b}",
		Operands: []expression.Operand{
			{Name: "a", Value: 1, Unit: "m"},
			{Name: "b", Value: 1, Unit: "s"},
		},
	}, expression.Options{})
	suite.Require().Empty(errs)

	_, err := c.Evaluate()
	suite.Require().NotNil(err)
	suite.Equal(expression.CodeIncoherentDimensions, err.Code)
	suite.ErrorIs(err, apperrors.ErrDimensionMismatch)
}

func (suite *ExpressionTestSuite) TestIncoherentOutputDimensions() {
	c, errs := expression.Compile(suite.scope, expression.Expression{
		Formula:  "{a} * {b}",
		Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "m"}, {Name: "b", Value: 2, Unit: "m"}},
		OutUnits: "meter",
	}, expression.Options{})
	suite.Require().Empty(errs)

	err := c.CheckDimensions()
	suite.Require().NotNil(err)
	suite.Equal(expression.CodeIncoherentOutputDimensions, err.Code)
}

func (suite *ExpressionTestSuite) TestCompileErrors() {
	tests := []struct {
		name string
		expr expression.Expression
		code expression.Code
	}{
		{
			name: "unbound placeholder",
			expr: expression.Expression{Formula: "{a} + {z}", Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "m"}}},
			code: expression.CodeMissingOperand,
		},
		{
			name: "missing unit",
			expr: expression.Expression{Formula: "{a}", Operands: []expression.Operand{{Name: "a", Value: 1}}},
			code: expression.CodeMissingOperand,
		},
		{
			name: "bad uncertainty",
			expr: expression.Expression{Formula: "{a}", Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "m", Uncertainty: "-3%"}}},
			code: expression.CodeMissingOperand,
		},
		{
			name: "malformed operator",
			expr: expression.Expression{Formula: "{a} * / 2", Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "m"}}},
			code: expression.CodeBadExpression,
		},
		{
			name: "unknown function",
			expr: expression.Expression{Formula: "cosh({a})", Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "m"}}},
			code: expression.CodeBadExpression,
		},
		{
			name: "unknown output unit",
			expr: expression.Expression{Formula: "{a}", Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "m"}}, OutUnits: "parsnip"},
			code: expression.CodeBadExpression,
		},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			c, errs := expression.Compile(suite.scope, tt.expr, expression.Options{})
			suite.Nil(c)
			suite.Require().NotEmpty(errs)
			suite.Equal(tt.code, errs[0].Code)
			suite.ErrorIs(errs[0], apperrors.ErrValidation)
		})
	}
}

func (suite *ExpressionTestSuite) TestEvaluationErrors() {
	for _, formula := range []string{"{a} / ({a} - {a})", "ln(0 * {a})", "sqrt(-{a})"} {
		suite.Run(formula, func() {
			res, err := suite.evaluate(expression.Expression{
				Formula:  formula,
				Operands: []expression.Operand{{Name: "a", Value: 1, Unit: "count"}},
			})
			suite.Require().NotNil(err)
			suite.Equal(expression.CodeEvaluationError, err.Code)
			suite.Zero(res.Magnitude)
		})
	}
}

func (suite *ExpressionTestSuite) TestFunctionsAndConstants() {
	res, err := suite.evaluate(expression.Expression{
		Formula:  "sqrt({a}) * 2 * pi",
		Operands: []expression.Operand{{Name: "a", Value: 4, Unit: "meter ** 2", Uncertainty: "0.4"}},
		OutUnits: "centimeter",
	})
	suite.Require().Nil(err)
	suite.InDelta(400*math.Pi, res.Magnitude, 1e-9)
	// d(sqrt x) = dx / (2 sqrt x) = 0.1 m, times 2 pi, in cm
	suite.InDelta(20*math.Pi, res.Uncertainty, 1e-9)

	res, err = suite.evaluate(expression.Expression{
		Formula:  "log({a}, 10) + sin(0)",
		Operands: []expression.Operand{{Name: "a", Value: 1000, Unit: "count"}},
	})
	suite.Require().Nil(err)
	suite.InDelta(3, res.Magnitude, 1e-12)
}

func (suite *ExpressionTestSuite) TestOffsetUnits() {
	res, err := suite.evaluate(expression.Expression{
		Formula:  "{t}",
		Operands: []expression.Operand{{Name: "t", Value: 100, Unit: "degC"}},
		OutUnits: "degF",
	})
	suite.Require().Nil(err)
	suite.InDelta(212, res.Magnitude, 1e-9)

	_, err = suite.evaluate(expression.Expression{
		Formula:  "2 * {t}",
		Operands: []expression.Operand{{Name: "t", Value: 100, Unit: "degC"}},
	})
	suite.Require().NotNil(err)
	suite.Equal(expression.CodeEvaluationError, err.Code)
}

func (suite *ExpressionTestSuite) TestDimensionsOnly() {
	d, err := expression.ParseDimensionsIn(suite.scope, "{d} / {t} ** 2", []expression.Operand{
		{Name: "d", Value: 1, Unit: "[length]"},
		{Name: "t", Value: 1, Unit: "[time]"},
	})
	suite.Require().NoError(err)
	acc, derr := suite.scope.Dimensionality("meter / second ** 2")
	suite.Require().NoError(derr)
	suite.True(acc.Equal(d))
}

func TestParseUncertainty(t *testing.T) {
	v, err := expression.ParseUncertainty("10%", -2)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, v, 1e-12)

	v, err = expression.ParseUncertainty(" 0.5 ", 10)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	v, err = expression.ParseUncertainty("", 10)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = expression.ParseUncertainty("abc", 10)
	assert.Error(t, err)
}
