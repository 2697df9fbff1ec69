package domain

// UnitQuery carries the caller context of unit lookups: custom units of
// Viewer under Key overlay the built-in registry of System.
type UnitQuery struct {
	System string
	Viewer string
	Key    string
	Lang   string
}

// UnitInfo describes a unit as listed to clients.
type UnitInfo struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol,omitempty"`
	Dimensions string  `json:"dimensions"`
	Factor     float64 `json:"factor"`
	Custom     bool    `json:"custom"`
	Obsolete   bool    `json:"obsolete,omitempty"`
}

// DimensionInfo describes a dimension family of a unit system.
type DimensionInfo struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Dimension string `json:"dimension"`
	BaseUnit  string `json:"base_unit,omitempty"`
}

// UnitSystemInfo describes a unit system.
type UnitSystemInfo struct {
	Name      string            `json:"system_name"`
	BaseUnits map[string]string `json:"base_units,omitempty"`
}

// BatchStatus is the public view of an in-flight or finished batch.
type BatchStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
