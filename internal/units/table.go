package units

import (
	"fmt"

	"github.com/SscSPs/geocurrency/internal/apperrors"
)

// table indexes definitions by code, alias and symbol.
type table struct {
	byCode   map[string]*Definition
	byAlias  map[string]*Definition
	bySymbol map[string]*Definition
	ordered  []*Definition
}

func newTable() *table {
	return &table{
		byCode:   map[string]*Definition{},
		byAlias:  map[string]*Definition{},
		bySymbol: map[string]*Definition{},
	}
}

func (t *table) clone() *table {
	c := newTable()
	for k, v := range t.byCode {
		c.byCode[k] = v
	}
	for k, v := range t.byAlias {
		c.byAlias[k] = v
	}
	for k, v := range t.bySymbol {
		c.bySymbol[k] = v
	}
	c.ordered = append(c.ordered, t.ordered...)
	return c
}

func (t *table) add(def *Definition) error {
	if _, dup := t.byCode[def.Code]; dup {
		return fmt.Errorf("%w: unit %s is already defined", apperrors.ErrDuplicate, def.Code)
	}
	for _, a := range def.Aliases {
		if _, dup := t.byAlias[a]; dup {
			return fmt.Errorf("%w: alias %s of %s is already defined", apperrors.ErrDuplicate, a, def.Code)
		}
	}
	t.byCode[def.Code] = def
	for _, a := range def.Aliases {
		t.byAlias[a] = def
	}
	// the first unit claiming a symbol keeps it
	if def.Symbol != "" {
		if _, taken := t.bySymbol[def.Symbol]; !taken {
			t.bySymbol[def.Symbol] = def
		}
	}
	t.ordered = append(t.ordered, def)
	return nil
}

func (t *table) named(name string) (*Definition, bool) {
	if t == nil {
		return nil, false
	}
	if d, ok := t.byCode[name]; ok {
		return d, true
	}
	d, ok := t.byAlias[name]
	return d, ok
}

func (t *table) symbol(sym string) (*Definition, bool) {
	if t == nil {
		return nil, false
	}
	d, ok := t.bySymbol[sym]
	return d, ok
}
