package core

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"sync"

	"github.com/smarty/libman/contracts"
)

type FakeResolver struct {
	mutex     sync.Mutex
	libraries map[string]map[string]string
	err       error
	resolved  []string
	onOpen    func(file string)
}

func NewFakeResolver() *FakeResolver {
	return &FakeResolver{libraries: make(map[string]map[string]string)}
}

func (this *FakeResolver) prepare(libraryId string, files map[string]string) {
	this.libraries[libraryId] = files
}

func (this *FakeResolver) Resolve(_ context.Context, state *contracts.LibraryInstallationState) (LibrarySource, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.resolved = append(this.resolved, state.LibraryId)
	if this.err != nil {
		return nil, this.err
	}
	files, found := this.libraries[state.LibraryId]
	if !found {
		return nil, fmt.Errorf("%s: %w", state.LibraryId, os.ErrNotExist)
	}
	return &FakeSource{files: files, onOpen: this.onOpen}, nil
}

type FakeSource struct {
	files  map[string]string
	onOpen func(file string)
	closed bool
}

func (this *FakeSource) Select(declared []string) []string { return declared }
func (this *FakeSource) Close() error                      { this.closed = true; return nil }

func (this *FakeSource) Open(_ context.Context, file string) (io.ReadCloser, error) {
	if this.onOpen != nil {
		this.onOpen(file)
	}
	content, found := this.files[file]
	if !found {
		return nil, os.ErrNotExist
	}
	return ioutil.NopCloser(strings.NewReader(content)), nil
}

///////////////////////////////////////////////////////////////////////////////

type FakeProvider struct {
	id        string
	installer *PackageInstaller
	resolver  *FakeResolver
	panics    bool
}

func (this *FakeProvider) ID() string                       { return this.id }
func (this *FakeProvider) Catalog() contracts.LibraryCatalog { return nil }

func (this *FakeProvider) Install(ctx context.Context, state *contracts.LibraryInstallationState) *contracts.InstallationResult {
	if this.panics {
		panic("boom")
	}
	return this.installer.Install(ctx, state)
}

type FakeProviderFactory struct {
	id       string
	resolver *FakeResolver
	created  []*FakeProvider
}

func NewFakeProviderFactory(id string) *FakeProviderFactory {
	return &FakeProviderFactory{id: id, resolver: NewFakeResolver()}
}

func (this *FakeProviderFactory) ProviderID() string { return this.id }

func (this *FakeProviderFactory) CreateProvider(host contracts.HostInteraction) contracts.Provider {
	provider := &FakeProvider{
		id:        this.id,
		resolver:  this.resolver,
		installer: NewPackageInstaller(this.id, host, this.resolver),
	}
	this.created = append(this.created, provider)
	return provider
}
