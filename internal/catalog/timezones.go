package catalog

import (
	"fmt"
	"sort"
	"time"
	_ "time/tzdata"
)

// Timezone is a country timezone evaluated at a point in time.
type Timezone struct {
	Name          string  `json:"name"`
	Offset        string  `json:"offset"`
	NumericOffset float64 `json:"numeric_offset"`
	CurrentTime   string  `json:"current_time"`
}

// Timezones evaluates the timezones of a country at t, sorted by UTC offset.
func (c *Catalog) Timezones(alpha2 string, t time.Time) ([]Timezone, error) {
	ctry, err := c.Country(alpha2)
	if err != nil {
		return nil, err
	}
	out := make([]Timezone, 0, len(ctry.Timezones))
	for _, name := range ctry.Timezones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("country %s: %w", ctry.Alpha2, err)
		}
		local := t.In(loc)
		_, secs := local.Zone()
		out = append(out, Timezone{
			Name:          name,
			Offset:        "UTC " + local.Format("-0700"),
			NumericOffset: float64(secs) / 3600,
			CurrentTime:   local.Format("2006-01-02 15:04"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NumericOffset < out[j].NumericOffset })
	return out, nil
}
