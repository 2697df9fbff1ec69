package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CustomDefinition is a user supplied unit: Relation reads
// "<scalar> <unit expression>", e.g. "0.5 meter".
type CustomDefinition struct {
	Code     string
	Name     string
	Symbol   string
	Alias    string
	Relation string
}

var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugCode turns a display code into a unit code: accents removed, lower
// case, separators collapsed to "_".
func SlugCode(code string) string {
	ascii, _, err := transform.String(stripMarks, code)
	if err != nil {
		ascii = code
	}
	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(strings.TrimSpace(ascii)) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
		case r == '_' || r == '-' || unicode.IsSpace(r):
			sep = true
		}
	}
	return b.String()
}

// ParseRelation splits a relation into its scalar and unit expression.
func ParseRelation(relation string) (float64, string, error) {
	fields := strings.Fields(relation)
	if len(fields) < 2 {
		return 0, "", &UnitValueError{Relation: relation, Err: errors.New("expected \"<number> <unit expression>\"")}
	}
	scalar, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, "", &UnitValueError{Relation: relation, Err: fmt.Errorf("invalid scalar %q", fields[0])}
	}
	return scalar, strings.Join(fields[1:], " "), nil
}

// DefineCustom validates def against the scope and returns the resulting
// definition. The relation may reference earlier custom units of the scope.
func (s *Scope) DefineCustom(def CustomDefinition) (*Definition, error) {
	code := SlugCode(def.Code)
	if code == "" {
		return nil, &UnitValueError{Relation: def.Relation, Err: errors.New("empty unit code")}
	}
	scalar, expr, err := ParseRelation(def.Relation)
	if err != nil {
		return nil, err
	}
	term, err := s.ParseTerm(expr)
	switch {
	case errors.Is(err, ErrInvalidExpression):
		return nil, &UnitValueError{Relation: def.Relation, Err: err}
	case err != nil:
		return nil, &UnitDimensionError{Relation: def.Relation, Err: err}
	case term.offset:
		return nil, &UnitDimensionError{Relation: def.Relation, Err: ErrOffsetUnit}
	}
	name := def.Name
	if name == "" {
		name = code
	}
	out := &Definition{
		Code:     code,
		Symbol:   def.Symbol,
		Name:     name,
		Relation: def.Relation,
		Factor:   scalar * term.Magnitude(),
		Dim:      term.Dim,
		Custom:   true,
	}
	if def.Alias != "" {
		out.Aliases = []string{def.Alias}
	}
	if s.system != nil {
		out.Systems = []string{s.system.Name}
	}
	return out, nil
}

// WithCustom returns a new scope overlaid with defs. A definition may
// reference any other definition of defs, whatever their order: failing
// definitions are retried while the previous pass defined something new.
// Definitions that never resolve are skipped; their errors are joined in the
// returned error.
func (s *Scope) WithCustom(defs ...CustomDefinition) (*Scope, error) {
	next := &Scope{reg: s.reg, system: s.system, custom: newTable()}
	if s.custom != nil {
		next.custom = s.custom.clone()
	}
	pending := defs
	var errs []error
	for len(pending) > 0 {
		var retry []CustomDefinition
		errs = nil
		for _, cd := range pending {
			d, err := next.DefineCustom(cd)
			if err == nil {
				err = next.custom.add(d)
			}
			if err != nil {
				retry = append(retry, cd)
				errs = append(errs, fmt.Errorf("custom unit %s: %w", cd.Code, err))
			}
		}
		if len(retry) == len(pending) {
			break
		}
		pending = retry
	}
	return next, errors.Join(errs...)
}
