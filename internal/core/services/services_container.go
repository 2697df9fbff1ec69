package services

import (
	"github.com/SscSPs/geocurrency/internal/catalog"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/geocurrency/internal/core/ports/services"
	"github.com/SscSPs/geocurrency/internal/units"
)

// Infrastructure holds the non-repository dependencies of the services.
// Provider may be nil when no rate provider is configured.
type Infrastructure struct {
	Catalog     *catalog.Catalog
	Units       *units.Registry
	Batches     BatchSettings
	Provider    portsrepo.RateProvider
	FetchOnMiss bool
}

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	var resolverOpts []ResolverOption
	if infra.FetchOnMiss && infra.Provider != nil {
		resolverOpts = append(resolverOpts, WithFetchOnMiss(infra.Provider))
	}
	resolver := NewRateResolver(repos.RateRepo, resolverOpts...)

	container := &portssvc.ServiceContainer{
		Rate:          NewRateService(repos.RateRepo),
		RateResolver:  resolver,
		RateConverter: NewRateConverterService(infra.Batches, resolver, infra.Catalog),
		Units:         NewUnitService(infra.Units, repos.CustomUnitRepo),
		UnitConverter: NewUnitConverterService(infra.Batches, infra.Units, repos.CustomUnitRepo),
		CustomUnit:    NewCustomUnitService(repos.CustomUnitRepo, infra.Units),
		Calculation:   NewCalculationService(infra.Batches, infra.Units, repos.CustomUnitRepo),
		Catalog:       NewCatalogService(infra.Catalog),
		Watch:         NewWatchService(infra.Batches.Cache),
	}
	if infra.Provider != nil {
		container.RateFetcher = NewRateFetcher(repos.RateRepo, infra.Provider)
	}
	return container
}
