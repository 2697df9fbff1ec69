package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	"github.com/SscSPs/geocurrency/internal/core/batch"
	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/dto"
	"github.com/SscSPs/geocurrency/internal/expression"
	"github.com/SscSPs/geocurrency/internal/units"
)

// expressionBatch is the stored state of a calculation batch.
type expressionBatch struct {
	System      string                  `json:"system"`
	UserID      string                  `json:"user_id,omitempty"`
	Key         string                  `json:"key,omitempty"`
	Expressions []expression.Expression `json:"expressions"`

	scope *units.Scope
}

type expressionEvaluator struct {
	BaseService
	scopes *scopeBuilder
	now    func() time.Time
}

var _ batch.Evaluator[expressionBatch, expression.Expression, domain.CalculationResult] = (*expressionEvaluator)(nil)

func (e *expressionEvaluator) Restore(ctx context.Context, state *expressionBatch) error {
	scope, err := e.scopes.build(ctx, state.System, state.UserID, state.Key)
	if err != nil {
		return err
	}
	state.scope = scope
	return nil
}

// Add rejects the whole chunk when any expression fails to compile.
func (e *expressionEvaluator) Add(_ context.Context, state *expressionBatch, items []expression.Expression) error {
	fields := apperrors.FieldErrors{}
	for i, it := range items {
		_, errs := expression.Compile(state.scope, it, expression.Options{})
		for _, err := range errs {
			fields.Add(fmt.Sprintf("data[%d].%s", i, err.Field), fmt.Sprintf("%s: %s", err.Code, err.Msg))
		}
	}
	if err := fields.OrNil(); err != nil {
		return err
	}
	state.Expressions = append(state.Expressions, items...)
	return nil
}

func (e *expressionEvaluator) Evaluate(_ context.Context, id string, state *expressionBatch) (domain.CalculationResult, bool, error) {
	res := domain.CalculationResult{
		ID:     id,
		Detail: []domain.CalculationDetail{},
		Errors: []domain.CalculationError{},
	}
	calcDate := e.now().UTC().Format(time.RFC3339)
	for _, it := range state.Expressions {
		c, errs := expression.Compile(state.scope, it, expression.Options{})
		if len(errs) > 0 {
			res.Errors = append(res.Errors, calculationError(it, calcDate, errs[0]))
			continue
		}
		out, err := c.Evaluate()
		if err != nil {
			res.Errors = append(res.Errors, calculationError(it, calcDate, err))
			continue
		}
		res.Detail = append(res.Detail, domain.CalculationDetail{
			Expression:  it.Formula,
			Operands:    it.Operands,
			Magnitude:   out.Magnitude,
			Uncertainty: out.Uncertainty,
			Unit:        out.Unit,
		})
	}
	return res, len(res.Errors) > 0, nil
}

func calculationError(it expression.Expression, calcDate string, err *expression.Error) domain.CalculationError {
	return domain.CalculationError{
		Expression: it.Formula,
		Operands:   it.Operands,
		CalcDate:   calcDate,
		Code:       string(err.Code),
		Error:      err.Error(),
	}
}

// calculationService implements the CalculationSvc interface
type calculationService struct {
	BaseService
	process *batch.Process[expressionBatch, expression.Expression, domain.CalculationResult]
	scopes  *scopeBuilder
	now     func() time.Time
}

// NewCalculationService creates an expression calculator persisting batches in cache
func NewCalculationService(bs BatchSettings, registry *units.Registry, customRepo portsrepo.CustomUnitRepositoryFacade) portssvc.CalculationSvc {
	scopes := &scopeBuilder{registry: registry, customRepo: customRepo}
	store := batch.NewStore[expressionBatch](bs.Cache, batch.KindExpression, bs.Config, bs.Locks)
	eval := &expressionEvaluator{scopes: scopes, now: time.Now}
	return &calculationService{
		process: batch.NewProcess(store, eval),
		scopes:  scopes,
		now:     time.Now,
	}
}

var _ portssvc.CalculationSvc = (*calculationService)(nil)

func systemOf(path string, req dto.CalculationRequest) string {
	if req.UnitSystem != "" {
		return req.UnitSystem
	}
	return path
}

func (s *calculationService) Calculate(ctx context.Context, system string, req dto.CalculationRequest, userID string) (*domain.CalculationResult, error) {
	if len(req.Data) == 0 && !req.ClosesWithoutData() {
		return nil, apperrors.NewValidationError("data is required unless closing a batch")
	}
	system = systemOf(system, req)
	out, err := s.process.Submit(ctx, batch.Submission[expressionBatch, expression.Expression]{
		BatchID: req.BatchID,
		Items:   req.Data,
		EOB:     req.EOB,
		Init: func() expressionBatch {
			return expressionBatch{System: system, UserID: userID, Key: req.Key}
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Result == nil {
		return &domain.CalculationResult{ID: out.ID, Status: string(out.Status)}, nil
	}
	res := *out.Result
	res.ID, res.Status = out.ID, string(out.Status)
	s.LogBatchFinished(ctx, batch.KindExpression, res.ID, res.Status, len(res.Detail), len(res.Errors))
	return &res, nil
}

// Validate compiles every expression in dimensions-only mode and checks
// dimensional coherence. Nothing is evaluated or stored.
func (s *calculationService) Validate(ctx context.Context, system string, req dto.CalculationRequest, userID string) ([]domain.CalculationError, error) {
	if len(req.Data) == 0 {
		return nil, apperrors.NewValidationError("data is required")
	}
	scope, err := s.scopes.build(ctx, systemOf(system, req), userID, req.Key)
	if err != nil {
		return nil, err
	}
	calcDate := s.now().UTC().Format(time.RFC3339)
	out := []domain.CalculationError{}
	for _, it := range req.Data {
		c, errs := expression.Compile(scope, it, expression.Options{DimensionsOnly: true})
		if len(errs) > 0 {
			for _, e := range errs {
				out = append(out, calculationError(it, calcDate, e))
			}
			continue
		}
		if err := c.CheckDimensions(); err != nil {
			out = append(out, calculationError(it, calcDate, err))
		}
	}
	return out, nil
}
