// Package catalog holds the read-only ISO-3166 country and ISO-4217 currency
// tables, indexed once at load time.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/units"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

// Currency is an ISO-4217 currency.
type Currency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Numeric  string `json:"numeric"`
	Exponent int    `json:"exponent"`
	Symbol   string `json:"symbol"`
}

// Country is an ISO-3166 country. Currencies holds currency codes, never
// pointers, so the two tables stay independent.
type Country struct {
	Alpha2     string   `json:"alpha_2"`
	Alpha3     string   `json:"alpha_3"`
	Numeric    string   `json:"numeric"`
	Name       string   `json:"name"`
	Capital    string   `json:"capital,omitempty"`
	Region     string   `json:"region,omitempty"`
	Subregion  string   `json:"subregion,omitempty"`
	TLD        string   `json:"tld,omitempty"`
	Population int64    `json:"population,omitempty"`
	Timezones  []string `json:"timezones"`
	Currencies []string `json:"currencies"`
	Colors     []string `json:"colors,omitempty"`
	UnitSystem string   `json:"unit_system"`
}

type catalogFile struct {
	Currencies []currencyRecord `yaml:"currencies"`
	Countries  []countryRecord  `yaml:"countries"`
}

type currencyRecord struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Numeric  string `yaml:"numeric"`
	Exponent *int   `yaml:"exponent"`
	Symbol   string `yaml:"symbol"`
}

type countryRecord struct {
	Alpha2     string   `yaml:"alpha2"`
	Alpha3     string   `yaml:"alpha3"`
	Numeric    string   `yaml:"numeric"`
	Name       string   `yaml:"name"`
	Capital    string   `yaml:"capital"`
	Region     string   `yaml:"region"`
	Subregion  string   `yaml:"subregion"`
	TLD        string   `yaml:"tld"`
	Population int64    `yaml:"population"`
	Timezones  []string `yaml:"timezones"`
	Currencies []string `yaml:"currencies"`
	Colors     []string `yaml:"colors"`
}

type flagColor struct {
	alpha2 string
	color  colorful.Color
}

// Catalog is the immutable country and currency catalog.
type Catalog struct {
	countries  []Country
	byAlpha2   map[string]*Country
	currencies []Currency
	byCode     map[string]*Currency
	// currency code -> alpha2 codes, in catalog order
	usedIn map[string][]string
	colors []flagColor
	units  *units.Registry
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	reg, err := units.Default()
	if err != nil {
		return nil, err
	}
	return Load(catalogYAML, reg)
})

// Default returns the catalog built from the embedded dataset.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Load builds a catalog from YAML data. Unit lookups are answered by reg.
func Load(data []byte, reg *units.Registry) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	c := &Catalog{
		byAlpha2: make(map[string]*Country, len(file.Countries)),
		byCode:   make(map[string]*Currency, len(file.Currencies)),
		usedIn:   make(map[string][]string),
		units:    reg,
	}

	c.currencies = make([]Currency, 0, len(file.Currencies))
	for _, rec := range file.Currencies {
		cur, err := newCurrency(rec)
		if err != nil {
			return nil, err
		}
		c.currencies = append(c.currencies, cur)
	}
	for i := range c.currencies {
		code := c.currencies[i].Code
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate currency %s", code)
		}
		c.byCode[code] = &c.currencies[i]
	}

	c.countries = make([]Country, 0, len(file.Countries))
	for _, rec := range file.Countries {
		ctry, err := newCountry(rec)
		if err != nil {
			return nil, err
		}
		for _, code := range ctry.Currencies {
			if _, ok := c.byCode[code]; !ok {
				return nil, fmt.Errorf("country %s uses unknown currency %s", ctry.Alpha2, code)
			}
		}
		c.countries = append(c.countries, ctry)
	}
	for i := range c.countries {
		ctry := &c.countries[i]
		if _, dup := c.byAlpha2[ctry.Alpha2]; dup {
			return nil, fmt.Errorf("duplicate country %s", ctry.Alpha2)
		}
		c.byAlpha2[ctry.Alpha2] = ctry
		for _, code := range ctry.Currencies {
			c.usedIn[code] = append(c.usedIn[code], ctry.Alpha2)
		}
		for _, hex := range ctry.Colors {
			col, err := parseHex(hex)
			if err != nil {
				return nil, fmt.Errorf("country %s: %w", ctry.Alpha2, err)
			}
			c.colors = append(c.colors, flagColor{alpha2: ctry.Alpha2, color: col})
		}
	}
	return c, nil
}

func newCurrency(rec currencyRecord) (Currency, error) {
	code := strings.ToUpper(rec.Code)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return Currency{}, fmt.Errorf("currency %q: %w", rec.Code, err)
	}
	cur := Currency{Code: code, Name: rec.Name, Numeric: rec.Numeric, Symbol: rec.Symbol}
	if rec.Exponent != nil {
		cur.Exponent = *rec.Exponent
	} else {
		cur.Exponent, _ = currency.Standard.Rounding(unit)
	}
	if cur.Symbol == "" {
		cur.Symbol = fmt.Sprint(currency.NarrowSymbol(unit))
	}
	return cur, nil
}

func newCountry(rec countryRecord) (Country, error) {
	region, err := language.ParseRegion(rec.Alpha2)
	if err != nil || !region.IsCountry() {
		return Country{}, fmt.Errorf("country %q: not an ISO-3166 region", rec.Alpha2)
	}
	ctry := Country{
		Alpha2:     region.String(),
		Alpha3:     rec.Alpha3,
		Numeric:    rec.Numeric,
		Name:       rec.Name,
		Capital:    rec.Capital,
		Region:     rec.Region,
		Subregion:  rec.Subregion,
		TLD:        rec.TLD,
		Population: rec.Population,
		Timezones:  rec.Timezones,
		Currencies: rec.Currencies,
		Colors:     rec.Colors,
	}
	if ctry.Alpha3 == "" {
		ctry.Alpha3 = region.ISO3()
	}
	if ctry.Numeric == "" {
		ctry.Numeric = fmt.Sprintf("%03d", region.M49())
	}
	if len(ctry.Currencies) == 0 {
		if unit, ok := currency.FromRegion(region); ok {
			ctry.Currencies = []string{unit.String()}
		}
	}
	for i, code := range ctry.Currencies {
		ctry.Currencies[i] = strings.ToUpper(code)
	}
	ctry.UnitSystem = PreferredUnitSystem(ctry.Alpha2)
	return ctry, nil
}

// PreferredUnitSystem returns the unit system customarily used in a country.
func PreferredUnitSystem(alpha2 string) string {
	switch strings.ToUpper(alpha2) {
	case "US", "LR":
		return "US"
	case "MM":
		return "imperial"
	}
	return "SI"
}

// Country returns the country with the given alpha-2 code.
func (c *Catalog) Country(alpha2 string) (Country, error) {
	ctry, ok := c.byAlpha2[strings.ToUpper(alpha2)]
	if !ok {
		return Country{}, apperrors.NewNotFoundError("country " + alpha2)
	}
	return *ctry, nil
}

// Currency returns the currency with the given ISO-4217 code.
func (c *Catalog) Currency(code string) (Currency, error) {
	cur, ok := c.byCode[strings.ToUpper(code)]
	if !ok {
		return Currency{}, apperrors.NewNotFoundError("currency " + code)
	}
	return *cur, nil
}

// IsCurrency reports whether code is a known currency.
func (c *Catalog) IsCurrency(code string) bool {
	_, ok := c.byCode[strings.ToUpper(code)]
	return ok
}

// Countries lists countries whose alpha codes, numeric code or name contain
// search (case-insensitive), sorted by ordering: name, alpha_2, alpha_3 or
// numeric, "-" prefixed for descending. Unknown orderings fall back to name.
func (c *Catalog) Countries(search, ordering string) []Country {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]Country, 0, len(c.countries))
	for _, ctry := range c.countries {
		if term == "" || containsAny(term, ctry.Alpha2, ctry.Alpha3, ctry.Numeric, ctry.Name) {
			out = append(out, ctry)
		}
	}
	desc, field := parseOrdering(ordering, "name", "alpha_2", "alpha_3", "numeric")
	key := func(ctry Country) string {
		switch field {
		case "alpha_2":
			return ctry.Alpha2
		case "alpha_3":
			return ctry.Alpha3
		case "numeric":
			return ctry.Numeric
		}
		return ctry.Name
	}
	sortBy(out, key, desc)
	return out
}

// Currencies lists currencies whose code, numeric code or name contain
// search, sorted by ordering: name, code or numeric.
func (c *Catalog) Currencies(search, ordering string) []Currency {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]Currency, 0, len(c.currencies))
	for _, cur := range c.currencies {
		if term == "" || containsAny(term, cur.Code, cur.Numeric, cur.Name) {
			out = append(out, cur)
		}
	}
	desc, field := parseOrdering(ordering, "name", "code", "numeric")
	key := func(cur Currency) string {
		switch field {
		case "code":
			return cur.Code
		case "numeric":
			return cur.Numeric
		}
		return cur.Name
	}
	sortBy(out, key, desc)
	return out
}

// CountriesForCurrency lists the countries using a currency.
func (c *Catalog) CountriesForCurrency(code string) ([]Country, error) {
	cur, err := c.Currency(code)
	if err != nil {
		return nil, err
	}
	codes := c.usedIn[cur.Code]
	out := make([]Country, 0, len(codes))
	for _, a2 := range codes {
		out = append(out, *c.byAlpha2[a2])
	}
	return out, nil
}

// CurrenciesForCountry lists the currencies used in a country.
func (c *Catalog) CurrenciesForCountry(alpha2 string) ([]Currency, error) {
	ctry, err := c.Country(alpha2)
	if err != nil {
		return nil, err
	}
	out := make([]Currency, 0, len(ctry.Currencies))
	for _, code := range ctry.Currencies {
		out = append(out, *c.byCode[code])
	}
	return out, nil
}

// CountriesByColor lists countries with a flag colour closer than proximity
// to hex, measured as CIE Lab distance on a 0 (identical) to 100 scale.
func (c *Catalog) CountriesByColor(hex string, proximity float64) ([]Country, error) {
	target, err := parseHex(hex)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if proximity <= 0 {
		proximity = 1
	}
	seen := make(map[string]bool)
	out := make([]Country, 0)
	for _, fc := range c.colors {
		if seen[fc.alpha2] {
			continue
		}
		if target.DistanceLab(fc.color)*100 < proximity {
			seen[fc.alpha2] = true
			out = append(out, *c.byAlpha2[fc.alpha2])
		}
	}
	sortBy(out, func(ctry Country) string { return ctry.Name }, false)
	return out, nil
}

// parseHex accepts FFF, FFFFFF and AAFFFFFF forms, with or without '#'.
func parseHex(s string) (colorful.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 8:
		h = h[2:]
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return colorful.Color{}, fmt.Errorf("invalid color %q", s)
	}
	if _, err := strconv.ParseUint(h, 16, 32); err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q", s)
	}
	return colorful.Hex("#" + h)
}

func containsAny(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func parseOrdering(ordering, fallback string, allowed ...string) (bool, string) {
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	for _, a := range allowed {
		if field == a {
			return desc, field
		}
	}
	return desc, fallback
}

func sortBy[T any](items []T, key func(T) string, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return key(items[i]) > key(items[j])
		}
		return key(items[i]) < key(items[j])
	})
}
