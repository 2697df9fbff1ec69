package units

import (
	"fmt"
	"sort"
	"strings"

	"github.com/SscSPs/geocurrency/internal/apperrors"
)

// Unit is a resolved unit, possibly prefixed ("kilometer").
type Unit struct {
	Code     string
	Symbol   string
	Name     string
	Factor   float64
	Offset   float64
	Dim      Dimensionality
	Custom   bool
	Obsolete bool
}

func unitOf(d *Definition) Unit {
	return Unit{
		Code:     d.Code,
		Symbol:   d.Symbol,
		Name:     d.Name,
		Factor:   d.Factor,
		Offset:   d.Offset,
		Dim:      d.Dim,
		Custom:   d.Custom,
		Obsolete: d.Obsolete,
	}
}

func prefixed(p Prefix, d *Definition) Unit {
	u := unitOf(d)
	u.Code = p.Name + d.Code
	u.Name = p.Name + d.Name
	if d.Symbol != "" {
		u.Symbol = p.Symbol + d.Symbol
	}
	u.Factor = d.Factor * p.Factor
	u.Offset = 0
	return u
}

// Dimension is a dimension family as seen from one unit system.
type Dimension struct {
	Code     string
	Name     string
	Dim      Dimensionality
	BaseUnit string
}

// Scope resolves unit names for one system, with an optional overlay of
// custom units. A Scope is immutable.
type Scope struct {
	reg    *Registry
	system *System
	custom *table
}

func (s *Scope) Registry() *Registry {
	return s.reg
}

func (s *Scope) System() *System {
	return s.system
}

// Resolve finds a unit by exact code, alias or symbol, then by plural form,
// then by SI prefix name ("kilometer") or prefix symbol ("km").
// Custom units shadow built-ins.
func (s *Scope) Resolve(name string) (Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Unit{}, ErrUndefinedUnit
	}
	if u, ok := s.exact(name); ok {
		return u, nil
	}
	if u, ok := s.named(name); ok {
		return u, nil
	}
	if len(name) > 2 && strings.HasSuffix(name, "s") {
		if u, ok := s.named(name[:len(name)-1]); ok {
			return u, nil
		}
	}
	for _, sp := range s.reg.symPrefixes {
		rest, found := strings.CutPrefix(name, sp.symbol)
		if !found || rest == "" {
			continue
		}
		if d, ok := s.reg.builtins.symbol(rest); ok && d.Prefixable {
			return prefixed(sp.prefix, d), nil
		}
	}
	return Unit{}, fmt.Errorf("%w: %s", ErrUndefinedUnit, name)
}

func (s *Scope) exact(name string) (Unit, bool) {
	if d, ok := s.custom.named(name); ok {
		return unitOf(d), true
	}
	if d, ok := s.custom.symbol(name); ok {
		return unitOf(d), true
	}
	if d, ok := s.reg.builtins.named(name); ok {
		return unitOf(d), true
	}
	if d, ok := s.reg.builtins.symbol(name); ok {
		return unitOf(d), true
	}
	return Unit{}, false
}

// named resolves a code or alias, optionally behind a prefix name.
func (s *Scope) named(name string) (Unit, bool) {
	if d, ok := s.custom.named(name); ok {
		return unitOf(d), true
	}
	if d, ok := s.reg.builtins.named(name); ok {
		return unitOf(d), true
	}
	for _, p := range s.reg.byPrefixName {
		rest, found := strings.CutPrefix(name, p.Name)
		if !found || rest == "" {
			continue
		}
		if d, ok := s.reg.builtins.named(rest); ok && d.Prefixable {
			return prefixed(p, d), true
		}
	}
	return Unit{}, false
}

// Dimensionality returns the dimensionality of a unit expression.
func (s *Scope) Dimensionality(expr string) (Dimensionality, error) {
	t, err := s.ParseTerm(expr)
	if err != nil {
		return nil, err
	}
	return t.Dim, nil
}

// Convert converts value from one unit expression to another.
func (s *Scope) Convert(value float64, from, to string) (float64, error) {
	ft, err := s.ParseTerm(from)
	if err != nil {
		return 0, err
	}
	tt, err := s.ParseTerm(to)
	if err != nil {
		return 0, err
	}
	if !ft.Dim.Equal(tt.Dim) {
		return 0, fmt.Errorf("%w: cannot convert from %s (%s) to %s (%s)",
			ErrIncompatibleUnits, from, ft.Dim, to, tt.Dim)
	}
	return tt.FromBase(ft.ToBase(value)), nil
}

// Units lists the units of the system plus custom units, sorted by code.
// A non-empty family restricts the list to that dimension.
func (s *Scope) Units(family string) ([]Unit, error) {
	var filter *Family
	if family != "" {
		fam, err := s.reg.Family(family)
		if err != nil {
			return nil, err
		}
		filter = fam
	}
	var out []Unit
	seen := map[string]bool{}
	add := func(u Unit) {
		if seen[u.Code] {
			return
		}
		if filter != nil && !u.Dim.Equal(filter.Dim) {
			return
		}
		seen[u.Code] = true
		out = append(out, u)
	}
	if s.custom != nil {
		for _, d := range s.custom.ordered {
			add(unitOf(d))
		}
	}
	if s.system != nil {
		for _, code := range s.system.members {
			u, err := s.Resolve(code)
			if err != nil {
				continue
			}
			add(u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Compatible lists every unit of the system whose dimensionality equals
// the one of code, code itself included.
func (s *Scope) Compatible(code string) ([]Unit, error) {
	u, err := s.Resolve(code)
	if err != nil {
		return nil, err
	}
	all, err := s.Units("")
	if err != nil {
		return nil, err
	}
	out := make([]Unit, 0)
	for _, v := range all {
		if v.Dim.Equal(u.Dim) {
			out = append(out, v)
		}
	}
	return out, nil
}

// Dimensions lists the dimension families with their base unit in the system.
// ordering is "code", "name" or "dimension", with a leading "-" for descending.
func (s *Scope) Dimensions(lang, ordering string) ([]Dimension, error) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	if field == "" {
		field = "name"
	}
	if field != "code" && field != "name" && field != "dimension" {
		return nil, apperrors.NewValidationError("invalid ordering " + ordering)
	}
	tr := s.reg.translator.lookup(lang)
	out := make([]Dimension, 0, len(s.reg.families))
	for _, fam := range s.reg.families {
		out = append(out, s.dimension(&fam, tr))
	}
	key := func(d Dimension) string {
		switch field {
		case "code":
			return d.Code
		case "dimension":
			return d.Dim.Key()
		}
		return d.Name
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out, nil
}

// Dimension returns one dimension family with its base unit in the system.
func (s *Scope) Dimension(code, lang string) (Dimension, error) {
	fam, err := s.reg.Family(code)
	if err != nil {
		return Dimension{}, err
	}
	return s.dimension(fam, s.reg.translator.lookup(lang)), nil
}

func (s *Scope) dimension(fam *Family, tr func(string) string) Dimension {
	d := Dimension{Code: fam.Code, Name: tr(fam.Name), Dim: fam.Dim}
	if s.system != nil {
		d.BaseUnit = s.system.BaseUnits[fam.Code]
	}
	return d
}

// BaseUnit returns the designated unit of a dimension family in the system.
func (s *Scope) BaseUnit(family string) (Unit, error) {
	fam, err := s.reg.Family(family)
	if err != nil {
		return Unit{}, err
	}
	if s.system == nil {
		return Unit{}, apperrors.NewNotFoundError("no unit system selected")
	}
	code, ok := s.system.BaseUnits[fam.Code]
	if !ok {
		return Unit{}, apperrors.NewNotFoundError(fmt.Sprintf("no base unit for %s in %s", fam.Code, s.system.Name))
	}
	return s.Resolve(code)
}

// ReferenceUnit returns a unit expression with the dimensionality of family:
// the system's base unit when one is designated, otherwise the family's
// reference expression.
func (s *Scope) ReferenceUnit(family string) (string, error) {
	if u, err := s.BaseUnit(family); err == nil {
		return u.Code, nil
	}
	fam, err := s.reg.Family(family)
	if err != nil {
		return "", err
	}
	return fam.ref, nil
}

// DimensionString renders d with localized dimension tokens.
func (s *Scope) DimensionString(d Dimensionality, lang string) string {
	return d.Format(s.reg.translator.lookup(lang))
}
