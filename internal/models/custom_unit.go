package models

// CustomUnit is a row of the custom_units table. Key is never NULL; the
// empty string is the default key.
type CustomUnit struct {
	ID         string  `db:"id"`
	UserID     *string `db:"user_id"`
	Key        string  `db:"key"`
	UnitSystem string  `db:"unit_system"`
	Code       string  `db:"code"`
	Name       string  `db:"name"`
	Relation   string  `db:"relation"`
	Symbol     string  `db:"symbol"`
	Alias      string  `db:"alias"`
	AuditFields
}
