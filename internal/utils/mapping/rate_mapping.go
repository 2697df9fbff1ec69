package mapping

import (
	"github.com/SscSPs/geocurrency/internal/core/domain"
	"github.com/SscSPs/geocurrency/internal/models"
)

// ToModelRate converts a domain Rate to a model Rate
func ToModelRate(d domain.Rate) models.Rate {
	return models.Rate{
		ID:           d.ID,
		UserID:       d.UserID,
		Key:          d.Key,
		ValueDate:    domain.Day(d.ValueDate),
		Currency:     d.Currency,
		BaseCurrency: d.BaseCurrency,
		Value:        d.Value,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainRate converts a model Rate to a domain Rate
func ToDomainRate(m models.Rate) domain.Rate {
	return domain.Rate{
		ID:           m.ID,
		UserID:       m.UserID,
		Key:          m.Key,
		ValueDate:    domain.Day(m.ValueDate),
		Currency:     m.Currency,
		BaseCurrency: m.BaseCurrency,
		Value:        m.Value,
		CreatedAt:    m.CreatedAt,
	}
}

// ToDomainRates converts a slice of model Rates
func ToDomainRates(ms []models.Rate) []domain.Rate {
	out := make([]domain.Rate, len(ms))
	for i, m := range ms {
		out[i] = ToDomainRate(m)
	}
	return out
}
