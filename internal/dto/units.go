package dto

import (
	"time"

	"github.com/SscSPs/geocurrency/internal/core/domain"
)

// CustomUnitRequest defines the structure for creating or updating a custom unit.
type CustomUnitRequest struct {
	Key      string `json:"key" binding:"omitempty,max=255"`
	Code     string `json:"code" binding:"required,max=255"`
	Name     string `json:"name" binding:"required,max=255"`
	Relation string `json:"relation" binding:"required,max=255"`
	Symbol   string `json:"symbol" binding:"required,max=20"`
	Alias    string `json:"alias" binding:"omitempty,max=20"`
}

// CustomUnitResponse defines the structure for API responses containing a custom unit.
type CustomUnitResponse struct {
	ID            string    `json:"id"`
	User          *string   `json:"user"`
	Key           string    `json:"key"`
	UnitSystem    string    `json:"unit_system"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Relation      string    `json:"relation"`
	Symbol        string    `json:"symbol"`
	Alias         string    `json:"alias"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// ToCustomUnitResponse converts a domain.CustomUnit to its DTO.
func ToCustomUnitResponse(u domain.CustomUnit) CustomUnitResponse {
	return CustomUnitResponse{
		ID:            u.ID,
		User:          u.UserID,
		Key:           u.Key,
		UnitSystem:    u.UnitSystem,
		Code:          u.Code,
		Name:          u.Name,
		Relation:      u.Relation,
		Symbol:        u.Symbol,
		Alias:         u.Alias,
		CreatedAt:     u.CreatedAt,
		LastUpdatedAt: u.LastUpdatedAt,
	}
}

// ToListCustomUnitResponse converts a slice of custom units.
func ToListCustomUnitResponse(list []domain.CustomUnit) []CustomUnitResponse {
	res := make([]CustomUnitResponse, len(list))
	for i, u := range list {
		res[i] = ToCustomUnitResponse(u)
	}
	return res
}

// UnitQueryParams holds the query parameters of unit lookups.
type UnitQueryParams struct {
	Key       string `form:"key"`
	Dimension string `form:"dimension"`
	Language  string `form:"language"`
	Ordering  string `form:"ordering" binding:"omitempty,oneof=code -code name -name dimension -dimension"`
}
