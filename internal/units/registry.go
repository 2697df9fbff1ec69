// Package units holds the physical unit registry: unit systems, their units and
// dimension families, custom unit overlays and unit expression evaluation.
package units

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/units.yaml
var unitsYAML []byte

var defaultSystems = []string{"SI", "mks", "cgs"}

// Definition is a named unit as declared in the dataset or by a user.
type Definition struct {
	Code       string
	Symbol     string
	Name       string
	Aliases    []string
	Relation   string
	Factor     float64
	Offset     float64
	Dim        Dimensionality
	Prefixable bool
	Systems    []string
	Obsolete   bool
	Custom     bool
}

// Prefix is an SI multiplier usable in front of a prefixable unit.
type Prefix struct {
	Name    string
	Symbol  string
	Symbols []string
	Factor  float64
}

// Family is a named dimension such as "[velocity]".
type Family struct {
	Code string
	Name string
	Dim  Dimensionality
	ref  string
}

// System is a named set of units with designated base units per family.
type System struct {
	Name      string
	BaseUnits map[string]string
	members   []string
}

// Registry is the immutable built-in unit registry.
type Registry struct {
	dimensions   []string
	prefixes     []Prefix
	byPrefixName []Prefix
	symPrefixes  []symbolPrefix
	displayPfx   map[string][]string
	builtins     *table
	families     []Family
	familyByCode map[string]*Family
	systems      []*System
	systemByName map[string]*System
	translator   *translator
}

type symbolPrefix struct {
	symbol string
	prefix Prefix
}

type registryFile struct {
	Dimensions      []string                     `yaml:"dimensions"`
	Prefixes        []prefixRecord               `yaml:"prefixes"`
	DisplayPrefixes map[string][]string          `yaml:"display_prefixes"`
	Units           []unitRecord                 `yaml:"units"`
	Families        []familyRecord               `yaml:"families"`
	Systems         []systemRecord               `yaml:"systems"`
	Translations    map[string]map[string]string `yaml:"translations"`
}

type prefixRecord struct {
	Name    string   `yaml:"name"`
	Symbol  string   `yaml:"symbol"`
	Symbols []string `yaml:"symbols"`
	Factor  float64  `yaml:"factor"`
}

type unitRecord struct {
	Code       string   `yaml:"code"`
	Symbol     string   `yaml:"symbol"`
	Name       string   `yaml:"name"`
	Aliases    []string `yaml:"aliases"`
	Base       string   `yaml:"base"`
	Def        string   `yaml:"def"`
	Offset     float64  `yaml:"offset"`
	Prefixable bool     `yaml:"prefixable"`
	Systems    []string `yaml:"systems"`
	Obsolete   bool     `yaml:"obsolete"`
}

type familyRecord struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Def  string `yaml:"def"`
}

type systemRecord struct {
	Name      string            `yaml:"name"`
	BaseUnits map[string]string `yaml:"base_units"`
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Load(unitsYAML)
})

// Default returns the registry built from the embedded dataset.
func Default() (*Registry, error) {
	return loadDefault()
}

// MustDefault is Default for package initialization.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Load builds a registry from a YAML dataset.
func Load(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode unit registry: %w", err)
	}
	r := &Registry{
		dimensions:   f.Dimensions,
		displayPfx:   f.DisplayPrefixes,
		builtins:     newTable(),
		familyByCode: map[string]*Family{},
		systemByName: map[string]*System{},
	}
	r.translator = newTranslator(f.Translations)

	for _, p := range f.Prefixes {
		pfx := Prefix{Name: p.Name, Symbol: p.Symbol, Symbols: p.Symbols, Factor: p.Factor}
		r.prefixes = append(r.prefixes, pfx)
		r.symPrefixes = append(r.symPrefixes, symbolPrefix{symbol: p.Symbol, prefix: pfx})
		for _, s := range p.Symbols {
			r.symPrefixes = append(r.symPrefixes, symbolPrefix{symbol: s, prefix: pfx})
		}
	}
	r.byPrefixName = append([]Prefix(nil), r.prefixes...)
	sort.SliceStable(r.byPrefixName, func(i, j int) bool {
		return len(r.byPrefixName[i].Name) > len(r.byPrefixName[j].Name)
	})
	sort.SliceStable(r.symPrefixes, func(i, j int) bool {
		return len(r.symPrefixes[i].symbol) > len(r.symPrefixes[j].symbol)
	})

	baseDims := map[string]bool{}
	for _, d := range f.Dimensions {
		baseDims[d] = true
	}

	// definitions resolve against the units declared before them
	builder := &Scope{reg: r}
	for _, u := range f.Units {
		def := &Definition{
			Code:       u.Code,
			Symbol:     u.Symbol,
			Name:       u.Name,
			Aliases:    u.Aliases,
			Offset:     u.Offset,
			Prefixable: u.Prefixable,
			Systems:    u.Systems,
			Obsolete:   u.Obsolete,
		}
		if def.Name == "" {
			def.Name = strings.ReplaceAll(def.Code, "_", " ")
		}
		if len(def.Systems) == 0 {
			def.Systems = defaultSystems
		}
		switch {
		case u.Base != "":
			if !baseDims[u.Base] {
				return nil, fmt.Errorf("unit %s: unknown base dimension %q", u.Code, u.Base)
			}
			def.Factor = 1
			def.Dim = Dimensionality{u.Base: Int(1)}
			def.Relation = "1 " + u.Code
		case u.Def != "":
			term, err := builder.ParseTerm(u.Def)
			if err != nil {
				return nil, fmt.Errorf("unit %s: %w", u.Code, err)
			}
			def.Factor = term.Magnitude()
			def.Dim = term.Dim
			def.Relation = u.Def
		default:
			return nil, fmt.Errorf("unit %s: needs either base or def", u.Code)
		}
		if err := r.builtins.add(def); err != nil {
			return nil, err
		}
	}

	for _, fr := range f.Families {
		term, err := builder.ParseTerm(fr.Def)
		if err != nil {
			return nil, fmt.Errorf("dimension %s: %w", fr.Code, err)
		}
		fam := Family{Code: fr.Code, Name: fr.Name, Dim: term.Dim, ref: fr.Def}
		r.families = append(r.families, fam)
	}
	for i := range r.families {
		r.familyByCode[r.families[i].Code] = &r.families[i]
	}

	for _, sr := range f.Systems {
		sys := &System{Name: sr.Name, BaseUnits: sr.BaseUnits}
		for fam, code := range sr.BaseUnits {
			if _, ok := r.familyByCode[fam]; !ok {
				return nil, fmt.Errorf("system %s: unknown dimension %s", sr.Name, fam)
			}
			if _, err := builder.Resolve(code); err != nil {
				return nil, fmt.Errorf("system %s: base unit %s: %w", sr.Name, code, err)
			}
		}
		r.systems = append(r.systems, sys)
		r.systemByName[strings.ToLower(sys.Name)] = sys
	}
	for _, def := range r.builtins.ordered {
		for _, name := range def.Systems {
			sys, ok := r.systemByName[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("unit %s: unknown system %s", def.Code, name)
			}
			sys.members = append(sys.members, def.Code)
		}
	}
	for _, sys := range r.systems {
		for base, pfxs := range r.displayPfx {
			if !sys.has(base) {
				continue
			}
			for _, p := range pfxs {
				sys.members = append(sys.members, p+base)
			}
		}
		sort.Strings(sys.members)
		sys.members = slices.Compact(sys.members)
	}
	return r, nil
}

func (s *System) has(code string) bool {
	for _, m := range s.members {
		if m == code {
			return true
		}
	}
	return false
}

// Systems returns the unit systems in dataset order.
func (r *Registry) Systems() []*System {
	return r.systems
}

// System looks a system up by name, ignoring case.
func (r *Registry) System(name string) (*System, error) {
	sys, ok := r.systemByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSystem, name)
	}
	return sys, nil
}

// Family looks a dimension family up by code ("[length]" or "length").
func (r *Registry) Family(code string) (*Family, error) {
	if !strings.HasPrefix(code, "[") {
		code = "[" + code + "]"
	}
	fam, ok := r.familyByCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDimension, code)
	}
	return fam, nil
}

func (r *Registry) Families() []Family {
	return r.families
}

func (r *Registry) Prefixes() []Prefix {
	return r.prefixes
}

// BaseDimensions returns the base dimension names in dataset order.
func (r *Registry) BaseDimensions() []string {
	return r.dimensions
}

// Scope returns a resolution scope for system overlaid with custom units.
// Custom units that fail to resolve are skipped and reported in the error;
// the returned scope is usable either way.
func (r *Registry) Scope(system string, custom ...CustomDefinition) (*Scope, error) {
	sys, err := r.System(system)
	if err != nil {
		return nil, err
	}
	s := &Scope{reg: r, system: sys}
	if len(custom) == 0 {
		return s, nil
	}
	return s.WithCustom(custom...)
}
