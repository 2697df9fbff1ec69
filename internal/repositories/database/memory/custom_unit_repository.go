package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
)

type unitKey struct {
	user, key, system, code string
}

func unitKeyOf(u domain.CustomUnit) unitKey {
	k := unitKey{key: u.Key, system: u.UnitSystem, code: u.Code}
	if u.UserID != nil {
		k.user = *u.UserID
	}
	return k
}

// CustomUnitRepository keeps custom units in process memory.
type CustomUnitRepository struct {
	mu    sync.RWMutex
	byID  map[string]domain.CustomUnit
	byKey map[unitKey]string
}

// NewCustomUnitRepository returns an empty CustomUnitRepository.
func NewCustomUnitRepository() *CustomUnitRepository {
	return &CustomUnitRepository{
		byID:  map[string]domain.CustomUnit{},
		byKey: map[unitKey]string{},
	}
}

var _ portsrepo.CustomUnitRepositoryFacade = (*CustomUnitRepository)(nil)

func (r *CustomUnitRepository) GetCustomUnitByID(_ context.Context, id string) (*domain.CustomUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("custom unit " + id)
	}
	return &u, nil
}

func (r *CustomUnitRepository) ListCustomUnits(_ context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error) {
	r.mu.RLock()
	out := []domain.CustomUnit{}
	for _, u := range r.byID {
		if u.UserID != nil && *u.UserID != filter.Viewer {
			continue
		}
		if filter.UnitSystem != "" && u.UnitSystem != filter.UnitSystem {
			continue
		}
		if filter.Key != nil && u.Key != *filter.Key {
			continue
		}
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].UserID == nil && out[j].UserID != nil
	})
	return out, nil
}

func (r *CustomUnitRepository) SaveCustomUnit(_ context.Context, unit domain.CustomUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := unitKeyOf(unit)
	if _, ok := r.byKey[k]; ok {
		return apperrors.NewConflictError("custom unit " + unit.Code + " already exists")
	}
	r.byID[unit.ID] = unit
	r.byKey[k] = unit.ID
	return nil
}

func (r *CustomUnitRepository) UpdateCustomUnit(_ context.Context, unit domain.CustomUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[unit.ID]
	if !ok {
		return apperrors.NewNotFoundError("custom unit " + unit.ID)
	}
	// owner, key and system are fixed at creation
	unit.UserID, unit.Key, unit.UnitSystem = old.UserID, old.Key, old.UnitSystem
	unit.CreatedAt, unit.CreatedBy = old.CreatedAt, old.CreatedBy
	k := unitKeyOf(unit)
	if id, ok := r.byKey[k]; ok && id != unit.ID {
		return apperrors.NewConflictError("custom unit " + unit.Code + " already exists")
	}
	delete(r.byKey, unitKeyOf(old))
	r.byID[unit.ID] = unit
	r.byKey[k] = unit.ID
	return nil
}

func (r *CustomUnitRepository) DeleteCustomUnit(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return apperrors.NewNotFoundError("custom unit " + id)
	}
	delete(r.byID, id)
	delete(r.byKey, unitKeyOf(u))
	return nil
}
