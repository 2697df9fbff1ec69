package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/units"
)

// unitBatch is the stored state of a unit conversion batch. Scopes are
// rebuilt on every request.
type unitBatch struct {
	BaseSystem string              `json:"base_system"`
	BaseUnit   string              `json:"base_unit"`
	UserID     string              `json:"user_id,omitempty"`
	Key        string              `json:"key,omitempty"`
	Items      []domain.UnitAmount `json:"items"`

	scopes map[string]*units.Scope
	base   units.Term
}

type unitEvaluator struct {
	BaseService
	scopes *scopeBuilder
}

var _ batch.Evaluator[unitBatch, domain.UnitAmount, domain.UnitConversionResult] = (*unitEvaluator)(nil)

func (e *unitEvaluator) Restore(ctx context.Context, state *unitBatch) error {
	scope, err := e.scopes.build(ctx, state.BaseSystem, state.UserID, state.Key)
	if err != nil {
		if errors.Is(err, units.ErrUnknownSystem) {
			return apperrors.NewValidationError("unknown base system " + state.BaseSystem)
		}
		return err
	}
	base, err := scope.ParseTerm(state.BaseUnit)
	if err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("unknown base unit %s: %v", state.BaseUnit, err))
	}
	state.scopes = map[string]*units.Scope{state.BaseSystem: scope}
	state.base = base
	return nil
}

func (e *unitEvaluator) Add(_ context.Context, state *unitBatch, items []domain.UnitAmount) error {
	state.Items = append(state.Items, items...)
	return nil
}

func (e *unitEvaluator) scope(ctx context.Context, state *unitBatch, system string) (*units.Scope, error) {
	if system == "" {
		system = state.BaseSystem
	}
	if s, ok := state.scopes[system]; ok {
		return s, nil
	}
	s, err := e.scopes.build(ctx, system, state.UserID, state.Key)
	if err != nil {
		return nil, err
	}
	state.scopes[system] = s
	return s, nil
}

func (e *unitEvaluator) Evaluate(ctx context.Context, id string, state *unitBatch) (domain.UnitConversionResult, bool, error) {
	res := domain.UnitConversionResult{
		ID:     id,
		Target: state.BaseUnit,
		Detail: []domain.UnitConversionDetail{},
		Errors: []domain.UnitConversionError{},
	}
	for _, it := range state.Items {
		fail := func(code string, err error) {
			res.Errors = append(res.Errors, domain.UnitConversionError{
				System: it.System, Unit: it.Unit, Value: it.Value, Date: it.Date,
				Code: code, Error: err.Error(),
			})
		}
		scope, err := e.scope(ctx, state, it.System)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				return res, true, err
			}
			fail(domain.CodeUnknownUnit, err)
			continue
		}
		term, err := scope.ParseTerm(it.Unit)
		if err != nil {
			fail(domain.CodeUnknownUnit, err)
			continue
		}
		if !term.Dim.Equal(state.base.Dim) {
			fail(domain.CodeDimensionality, fmt.Errorf("%w: cannot convert %s (%s) to %s (%s)",
				units.ErrIncompatibleUnits, it.Unit, term.Dim, state.BaseUnit, state.base.Dim))
			continue
		}
		converted := state.base.FromBase(term.ToBase(it.Value))
		res.Detail = append(res.Detail, domain.UnitConversionDetail{
			System:         it.System,
			Unit:           it.Unit,
			Value:          it.Value,
			Date:           it.Date,
			ConvertedValue: converted,
		})
		res.Sum += converted
	}
	return res, len(res.Errors) > 0, nil
}

// unitConverterService implements the UnitConverterSvc interface
type unitConverterService struct {
	BaseService
	process *batch.Process[unitBatch, domain.UnitAmount, domain.UnitConversionResult]
}

// NewUnitConverterService creates a unit converter persisting batches in cache
func NewUnitConverterService(bs BatchSettings, registry *units.Registry, customRepo portsrepo.CustomUnitRepositoryFacade) portssvc.UnitConverterSvc {
	store := batch.NewStore[unitBatch](bs.Cache, batch.KindUnit, bs.Config, bs.Locks)
	eval := &unitEvaluator{scopes: &scopeBuilder{registry: registry, customRepo: customRepo}}
	return &unitConverterService{process: batch.NewProcess(store, eval)}
}

var _ portssvc.UnitConverterSvc = (*unitConverterService)(nil)

func (s *unitConverterService) Convert(ctx context.Context, req dto.ConvertUnitsRequest, userID string) (*domain.UnitConversionResult, error) {
	if len(req.Data) == 0 && !req.ClosesWithoutData() {
		return nil, apperrors.NewValidationError("data is required unless closing a batch")
	}
	fields := apperrors.FieldErrors{}
	items := make([]domain.UnitAmount, 0, len(req.Data))
	for i, d := range req.Data {
		if d.Date != "" {
			if _, err := domain.ParseDate(d.Date); err != nil {
				fields.Add("data["+strconv.Itoa(i)+"].date", "must be a YYYY-MM-DD date")
				continue
			}
		}
		items = append(items, domain.UnitAmount{System: d.System, Unit: d.Unit, Value: d.Value, Date: d.Date})
	}
	if err := fields.OrNil(); err != nil {
		return nil, err
	}

	out, err := s.process.Submit(ctx, batch.Submission[unitBatch, domain.UnitAmount]{
		BatchID: req.BatchID,
		Items:   items,
		EOB:     req.EOB,
		Init: func() unitBatch {
			return unitBatch{BaseSystem: req.BaseSystem, BaseUnit: req.BaseUnit, UserID: userID, Key: req.Key}
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Result == nil {
		return &domain.UnitConversionResult{ID: out.ID, Target: req.BaseUnit, Status: string(out.Status)}, nil
	}
	res := *out.Result
	res.ID, res.Status = out.ID, string(out.Status)
	s.LogBatchFinished(ctx, batch.KindUnit, res.ID, res.Status, len(res.Detail), len(res.Errors))
	return &res, nil
}
