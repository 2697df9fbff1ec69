package mapping

import (
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/SscSPs/geocurrency/internal/models"
)

// ToModelCustomUnit converts a domain CustomUnit to its row. The audit
// columns are copied as-is.
func ToModelCustomUnit(d domain.CustomUnit) models.CustomUnit {
	return models.CustomUnit{
		ID:         d.ID,
		UserID:     d.UserID,
		Key:        d.Key,
		UnitSystem: d.UnitSystem,
		Code:       d.Code,
		Name:       d.Name,
		Relation:   d.Relation,
		Symbol:     d.Symbol,
		Alias:      d.Alias,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainCustomUnit converts a custom unit row to the domain type.
func ToDomainCustomUnit(m models.CustomUnit) domain.CustomUnit {
	return domain.CustomUnit{
		ID:         m.ID,
		UserID:     m.UserID,
		Key:        m.Key,
		UnitSystem: m.UnitSystem,
		Code:       m.Code,
		Name:       m.Name,
		Relation:   m.Relation,
		Symbol:     m.Symbol,
		Alias:      m.Alias,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainCustomUnits converts a slice of rows.
func ToDomainCustomUnits(rows []models.CustomUnit) []domain.CustomUnit {
	out := make([]domain.CustomUnit, len(rows))
	for i, r := range rows {
		out[i] = ToDomainCustomUnit(r)
	}
	return out
}
