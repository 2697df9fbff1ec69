package catalog

import (
	"github.com/SscSPs/geocurrency/internal/units"
)

// Units returns the unit registry the catalog delegates to.
func (c *Catalog) Units() *units.Registry {
	return c.units
}

// UnitMetadata resolves a unit code in a unit system.
func (c *Catalog) UnitMetadata(system, code string) (units.Unit, error) {
	scope, err := c.units.Scope(system)
	if err != nil {
		return units.Unit{}, err
	}
	return scope.Resolve(code)
}

// Dimension returns a dimension family as seen from a unit system.
func (c *Catalog) Dimension(system, code, lang string) (units.Dimension, error) {
	scope, err := c.units.Scope(system)
	if err != nil {
		return units.Dimension{}, err
	}
	return scope.Dimension(code, lang)
}

// BaseUnit returns the designated unit of a dimension in a unit system.
func (c *Catalog) BaseUnit(system, dimension string) (units.Unit, error) {
	scope, err := c.units.Scope(system)
	if err != nil {
		return units.Unit{}, err
	}
	return scope.BaseUnit(dimension)
}
