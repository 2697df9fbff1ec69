package services

import (
	"context"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/units"
)

// unitService implements the UnitSvc interface
type unitService struct {
	BaseService
	registry *units.Registry
	scopes   *scopeBuilder
}

// NewUnitService creates a new unit lookup service
func NewUnitService(registry *units.Registry, customRepo portsrepo.CustomUnitRepositoryFacade) portssvc.UnitSvc {
	return &unitService{
		registry: registry,
		scopes:   &scopeBuilder{registry: registry, customRepo: customRepo},
	}
}

var _ portssvc.UnitSvc = (*unitService)(nil)

func systemInfo(sys *units.System) domain.UnitSystemInfo {
	return domain.UnitSystemInfo{Name: sys.Name, BaseUnits: sys.BaseUnits}
}

func unitInfo(scope *units.Scope, u units.Unit, lang string) domain.UnitInfo {
	return domain.UnitInfo{
		Code:       u.Code,
		Name:       u.Name,
		Symbol:     u.Symbol,
		Dimensions: scope.DimensionString(u.Dim, lang),
		Factor:     u.Factor,
		Custom:     u.Custom,
		Obsolete:   u.Obsolete,
	}
}

func unitInfos(scope *units.Scope, list []units.Unit, lang string) []domain.UnitInfo {
	out := make([]domain.UnitInfo, len(list))
	for i, u := range list {
		out[i] = unitInfo(scope, u, lang)
	}
	return out
}

func (s *unitService) ListSystems(_ context.Context) []domain.UnitSystemInfo {
	systems := s.registry.Systems()
	out := make([]domain.UnitSystemInfo, len(systems))
	for i, sys := range systems {
		out[i] = domain.UnitSystemInfo{Name: sys.Name}
	}
	return out
}

func (s *unitService) GetSystem(_ context.Context, name string) (*domain.UnitSystemInfo, error) {
	sys, err := s.registry.System(name)
	if err != nil {
		return nil, err
	}
	info := systemInfo(sys)
	return &info, nil
}

func (s *unitService) ListDimensions(ctx context.Context, q domain.UnitQuery, ordering string) ([]domain.DimensionInfo, error) {
	scope, err := s.scopes.build(ctx, q.System, q.Viewer, q.Key)
	if err != nil {
		return nil, err
	}
	dims, err := scope.Dimensions(q.Lang, ordering)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DimensionInfo, len(dims))
	for i, d := range dims {
		out[i] = domain.DimensionInfo{
			Code:      d.Code,
			Name:      d.Name,
			Dimension: scope.DimensionString(d.Dim, q.Lang),
			BaseUnit:  d.BaseUnit,
		}
	}
	return out, nil
}

func (s *unitService) ListUnits(ctx context.Context, q domain.UnitQuery, dimension string) ([]domain.UnitInfo, error) {
	scope, err := s.scopes.build(ctx, q.System, q.Viewer, q.Key)
	if err != nil {
		return nil, err
	}
	list, err := scope.Units(dimension)
	if err != nil {
		return nil, err
	}
	return unitInfos(scope, list, q.Lang), nil
}

func (s *unitService) GetUnit(ctx context.Context, q domain.UnitQuery, code string) (*domain.UnitInfo, error) {
	scope, err := s.scopes.build(ctx, q.System, q.Viewer, q.Key)
	if err != nil {
		return nil, err
	}
	u, err := scope.Resolve(code)
	if err != nil {
		return nil, err
	}
	info := unitInfo(scope, u, q.Lang)
	return &info, nil
}

func (s *unitService) CompatibleUnits(ctx context.Context, q domain.UnitQuery, code string) ([]domain.UnitInfo, error) {
	scope, err := s.scopes.build(ctx, q.System, q.Viewer, q.Key)
	if err != nil {
		return nil, err
	}
	list, err := scope.Compatible(code)
	if err != nil {
		return nil, err
	}
	return unitInfos(scope, list, q.Lang), nil
}
