package domain

// CustomUnit is a user-defined unit, scoped to (user, key, unit system).
// A nil UserID marks an anonymous row, visible to everyone.
type CustomUnit struct {
	ID         string  `json:"id"`
	UserID     *string `json:"user,omitempty"`
	Key        string  `json:"key"`
	UnitSystem string  `json:"unit_system"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Relation   string  `json:"relation"`
	Symbol     string  `json:"symbol"`
	Alias      string  `json:"alias,omitempty"`
	AuditFields
}

// OwnedBy reports whether userID may modify the unit.
func (u CustomUnit) OwnedBy(userID string) bool {
	return u.UserID != nil && *u.UserID == userID
}

// CustomUnitFilter selects the custom units visible to Viewer in a system:
// the viewer's own rows plus anonymous rows. A non-nil Key restricts to that key.
type CustomUnitFilter struct {
	Viewer     string
	UnitSystem string
	Key        *string
}
