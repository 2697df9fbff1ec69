package services

import (
	"context"
	"log/slog"
	"sort"

	"github.com/SscSPs/geocurrency/internal/core/domain"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	"github.com/SscSPs/geocurrency/internal/units"
)

// scopeBuilder composes registry scopes with the custom units visible to a caller.
type scopeBuilder struct {
	BaseService
	registry   *units.Registry
	customRepo portsrepo.CustomUnitRepositoryFacade
}

// build returns the scope of system overlaid with the custom units of viewer
// under key plus the anonymous ones. Custom units that no longer resolve are
// logged and left out.
func (b *scopeBuilder) build(ctx context.Context, system, viewer, key string) (*units.Scope, error) {
	return b.buildWithout(ctx, system, viewer, key, "")
}

// buildWithout is build with the custom unit excludeID left out.
func (b *scopeBuilder) buildWithout(ctx context.Context, system, viewer, key, excludeID string) (*units.Scope, error) {
	sys, err := b.registry.System(system)
	if err != nil {
		return nil, err
	}
	var defs []units.CustomDefinition
	if b.customRepo != nil {
		list, err := b.customRepo.ListCustomUnits(ctx, domain.CustomUnitFilter{
			Viewer:     viewer,
			UnitSystem: sys.Name,
			Key:        &key,
		})
		if err != nil {
			b.LogError(ctx, err, "Failed to list custom units", slog.String("unit_system", sys.Name))
			return nil, err
		}
		defs = scopeDefinitions(list, viewer, excludeID)
	}
	scope, err := b.registry.Scope(sys.Name, defs...)
	if scope == nil {
		return nil, err
	}
	if err != nil {
		b.LogWarn(ctx, err, "Some custom units were skipped", slog.String("unit_system", sys.Name))
	}
	return scope, nil
}

// scopeDefinitions orders custom units by creation and keeps one unit per
// code: the viewer's own unit over an anonymous one.
func scopeDefinitions(list []domain.CustomUnit, viewer, excludeID string) []units.CustomDefinition {
	sorted := make([]domain.CustomUnit, 0, len(list))
	for _, u := range list {
		if excludeID == "" || u.ID != excludeID {
			sorted = append(sorted, u)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	chosen := make(map[string]int, len(sorted))
	var kept []domain.CustomUnit
	for _, u := range sorted {
		i, dup := chosen[u.Code]
		switch {
		case !dup:
			chosen[u.Code] = len(kept)
			kept = append(kept, u)
		case u.OwnedBy(viewer) && !kept[i].OwnedBy(viewer):
			kept[i] = u
		}
	}

	defs := make([]units.CustomDefinition, len(kept))
	for i, u := range kept {
		defs[i] = customDefinition(u)
	}
	return defs
}

func customDefinition(u domain.CustomUnit) units.CustomDefinition {
	return units.CustomDefinition{
		Code:     u.Code,
		Name:     u.Name,
		Symbol:   u.Symbol,
		Alias:    u.Alias,
		Relation: u.Relation,
	}
}
