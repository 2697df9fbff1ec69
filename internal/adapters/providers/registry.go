package providers

import (
	"fmt"
	"sort"

	"github.com/SscSPs/geocurrency/internal/apperrors"
	portsrepo "github.com/SscSPs/geocurrency/internal/core/ports/repositories"
)

// Factory builds a provider from settings.
type Factory func(s Settings) portsrepo.RateProvider

// Registry maps provider names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register(ECBName, func(s Settings) portsrepo.RateProvider { return NewECB(s) })
	r.Register(CurrencyLayerName, func(s Settings) portsrepo.RateProvider { return NewCurrencyLayer(s) })
	r.Register(ExchangerateHostName, func(s Settings) portsrepo.RateProvider { return NewExchangerateHost(s) })
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names lists the registered provider names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named provider.
func (r *Registry) New(name string, s Settings) (portsrepo.RateProvider, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown rate service %q, expected one of %v", name, r.Names()))
	}
	return f(s), nil
}
