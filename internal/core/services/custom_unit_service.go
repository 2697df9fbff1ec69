package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/units"
	"github.com/google/uuid"
)

// customUnitService implements the CustomUnitSvcFacade interface
type customUnitService struct {
	BaseService
	repo     portsrepo.CustomUnitRepositoryFacade
	registry *units.Registry
	scopes   *scopeBuilder
	// writes are serialized per (user, key, system, code)
	locks *batch.KeyedMutex
	now   func() time.Time
}

// NewCustomUnitService creates a new custom unit service
func NewCustomUnitService(repo portsrepo.CustomUnitRepositoryFacade, registry *units.Registry) portssvc.CustomUnitSvcFacade {
	return &customUnitService{
		repo:     repo,
		registry: registry,
		scopes:   &scopeBuilder{registry: registry, customRepo: repo},
		locks:    batch.NewKeyedMutex(),
		now:      time.Now,
	}
}

var _ portssvc.CustomUnitSvcFacade = (*customUnitService)(nil)

func (s *customUnitService) systemName(system string) (string, error) {
	sys, err := s.registry.System(system)
	if err != nil {
		return "", err
	}
	return sys.Name, nil
}

func (s *customUnitService) ListCustomUnits(ctx context.Context, filter domain.CustomUnitFilter) ([]domain.CustomUnit, error) {
	name, err := s.systemName(filter.UnitSystem)
	if err != nil {
		return nil, err
	}
	filter.UnitSystem = name
	list, err := s.repo.ListCustomUnits(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list custom units", slog.String("unit_system", name))
		return nil, err
	}
	if list == nil {
		list = []domain.CustomUnit{}
	}
	return list, nil
}

func (s *customUnitService) GetCustomUnit(ctx context.Context, system, id, viewer string) (*domain.CustomUnit, error) {
	name, err := s.systemName(system)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetCustomUnitByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.UnitSystem != name || (u.UserID != nil && *u.UserID != viewer) {
		return nil, apperrors.NewNotFoundError("custom unit " + id)
	}
	return u, nil
}

// owned loads a unit of system that userID may modify.
func (s *customUnitService) owned(ctx context.Context, system, id, userID string) (*domain.CustomUnit, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: custom units can only be modified by their owner", apperrors.ErrUnauthorized)
	}
	u, err := s.GetCustomUnit(ctx, system, id, userID)
	if err != nil {
		return nil, err
	}
	if !u.OwnedBy(userID) {
		return nil, fmt.Errorf("%w: custom unit %s belongs to another user", apperrors.ErrForbidden, id)
	}
	return u, nil
}

func lockKey(userID, key, system, code string) string {
	return userID + "\x00" + key + "\x00" + system + "\x00" + code
}

// define checks that req describes a unit resolvable in system for userID.
// The unit replacing excludeID is checked without it, so a relation cannot
// lean on the definition it replaces.
func (s *customUnitService) define(ctx context.Context, system string, req dto.CustomUnitRequest, userID, excludeID string) (string, error) {
	scope, err := s.scopes.buildWithout(ctx, system, userID, req.Key, excludeID)
	if err != nil {
		return "", err
	}
	def, err := scope.DefineCustom(units.CustomDefinition{
		Code:     req.Code,
		Name:     req.Name,
		Symbol:   req.Symbol,
		Alias:    req.Alias,
		Relation: req.Relation,
	})
	if err != nil {
		return "", err
	}
	return def.Code, nil
}

func (s *customUnitService) CreateCustomUnit(ctx context.Context, system string, req dto.CustomUnitRequest, userID string) (*domain.CustomUnit, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: creating custom units requires a user", apperrors.ErrUnauthorized)
	}
	name, err := s.systemName(system)
	if err != nil {
		return nil, err
	}
	code := units.SlugCode(req.Code)
	unlock, err := s.locks.Lock(ctx, lockKey(userID, req.Key, name, code))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if code, err = s.define(ctx, name, req, userID, ""); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	u := domain.CustomUnit{
		ID:         uuid.NewString(),
		UserID:     &userID,
		Key:        req.Key,
		UnitSystem: name,
		Code:       code,
		Name:       req.Name,
		Relation:   req.Relation,
		Symbol:     req.Symbol,
		Alias:      req.Alias,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.repo.SaveCustomUnit(ctx, u); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save custom unit", slog.String("code", code))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Custom unit created successfully", slog.String("custom_unit_id", u.ID), slog.String("code", code))
	return &u, nil
}

func (s *customUnitService) UpdateCustomUnit(ctx context.Context, system, id string, req dto.CustomUnitRequest, userID string) (*domain.CustomUnit, error) {
	u, err := s.owned(ctx, system, id, userID)
	if err != nil {
		return nil, err
	}
	unlock, err := s.locks.Lock(ctx, lockKey(userID, req.Key, u.UnitSystem, units.SlugCode(req.Code)))
	if err != nil {
		return nil, err
	}
	defer unlock()

	code, err := s.define(ctx, u.UnitSystem, req, userID, u.ID)
	if err != nil {
		return nil, err
	}
	u.Key = req.Key
	u.Code = code
	u.Name = req.Name
	u.Relation = req.Relation
	u.Symbol = req.Symbol
	u.Alias = req.Alias
	u.LastUpdatedAt = s.now().UTC()
	u.LastUpdatedBy = userID
	if err := s.repo.UpdateCustomUnit(ctx, *u); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to update custom unit", slog.String("custom_unit_id", id))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Custom unit updated successfully", slog.String("custom_unit_id", id))
	return u, nil
}

func (s *customUnitService) DeleteCustomUnit(ctx context.Context, system, id, userID string) error {
	if _, err := s.owned(ctx, system, id, userID); err != nil {
		return err
	}
	if err := s.repo.DeleteCustomUnit(ctx, id); err != nil {
		s.LogError(ctx, err, "Failed to delete custom unit", slog.String("custom_unit_id", id))
		return err
	}
	s.LogInfo(ctx, "Custom unit deleted successfully", slog.String("custom_unit_id", id))
	return nil
}
