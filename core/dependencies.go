package core

import (
	"sync"

	"github.com/smarty/libman/contracts"
)

// Dependencies maps provider ids to providers bound to one host. Registering
// an id twice replaces the earlier provider but keeps its position.
type Dependencies struct {
	host      contracts.HostInteraction
	mutex     sync.RWMutex
	order     []string
	providers map[string]contracts.Provider
}

func NewDependencies(host contracts.HostInteraction, factories ...contracts.ProviderFactory) *Dependencies {
	this := &Dependencies{host: host, providers: make(map[string]contracts.Provider)}
	for _, factory := range factories {
		this.Register(factory)
	}
	return this
}

func (this *Dependencies) Register(factory contracts.ProviderFactory) {
	provider := factory.CreateProvider(this.host)

	this.mutex.Lock()
	defer this.mutex.Unlock()
	id := factory.ProviderID()
	if _, found := this.providers[id]; !found {
		this.order = append(this.order, id)
	}
	this.providers[id] = provider
}

func (this *Dependencies) GetProvider(id string) (contracts.Provider, error) {
	if id == "" {
		return nil, contracts.ProviderNotDefined()
	}
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	provider, found := this.providers[id]
	if !found {
		return nil, contracts.ProviderNotFound(id)
	}
	return provider, nil
}

func (this *Dependencies) Providers() (providers []contracts.Provider) {
	this.mutex.RLock()
	defer this.mutex.RUnlock()
	for _, id := range this.order {
		providers = append(providers, this.providers[id])
	}
	return providers
}

func (this *Dependencies) HostInteraction() contracts.HostInteraction {
	return this.host
}
