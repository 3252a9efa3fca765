package cdnjs

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
)

const (
	ProviderID   = "cdnjs"
	DefaultAPI   = "https://api.cdnjs.com/libraries"
	DefaultFiles = "https://cdnjs.cloudflare.com/ajax/libs"
)

// Provider installs files of a cdnjs library version.
type Provider struct {
	installer *core.PackageInstaller
	catalog   *Catalog
}

func NewProvider(host contracts.HostInteraction, downloader contracts.Downloader, api, files url.URL) *Provider {
	catalog := NewCatalog(api, downloader)
	resolver := &resolver{catalog: catalog, downloader: downloader, files: files}
	return &Provider{
		installer: core.NewPackageInstaller(ProviderID, host, resolver),
		catalog:   catalog,
	}
}

func (this *Provider) ID() string                       { return ProviderID }
func (this *Provider) Catalog() contracts.LibraryCatalog { return this.catalog }

func (this *Provider) Install(ctx context.Context, state *contracts.LibraryInstallationState) *contracts.InstallationResult {
	return this.installer.Install(ctx, state)
}

type Factory struct {
	downloader contracts.Downloader
	api        url.URL
	files      url.URL
}

// NewFactory builds a factory for the given API and file base addresses.
// Blank addresses fall back to the public cdnjs endpoints.
func NewFactory(downloader contracts.Downloader, api, files string) (*Factory, error) {
	apiAddress, err := parseBase(api, DefaultAPI)
	if err != nil {
		return nil, err
	}
	filesAddress, err := parseBase(files, DefaultFiles)
	if err != nil {
		return nil, err
	}
	return &Factory{downloader: downloader, api: apiAddress, files: filesAddress}, nil
}

func (this *Factory) ProviderID() string { return ProviderID }

func (this *Factory) CreateProvider(host contracts.HostInteraction) contracts.Provider {
	return NewProvider(host, this.downloader, this.api, this.files)
}

func parseBase(raw, fallback string) (url.URL, error) {
	if raw == "" {
		raw = fallback
	}
	address, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid cdnjs address %q: %w", raw, err)
	}
	if address.Scheme == "" || address.Host == "" {
		return url.URL{}, fmt.Errorf("invalid cdnjs address %q: scheme and host are required", raw)
	}
	return *address, nil
}

///////////////////////////////////////////////////////////////////////////////

type resolver struct {
	catalog    *Catalog
	downloader contracts.Downloader
	files      url.URL
}

func (this *resolver) Resolve(ctx context.Context, state *contracts.LibraryInstallationState) (core.LibrarySource, error) {
	library, err := this.catalog.GetLibrary(ctx, state.LibraryId)
	if err != nil {
		return nil, contracts.AsError(err, contracts.UnknownError(err))
	}
	return &source{library: library, downloader: this.downloader, files: this.files}, nil
}

// source downloads declared files of one library version. Files missing from
// the version's listing fail without a request.
type source struct {
	library    contracts.Library
	downloader contracts.Downloader
	files      url.URL
}

func (this *source) Select(declared []string) []string { return declared }
func (this *source) Close() error                      { return nil }

func (this *source) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	if !this.library.HasFile(file) {
		return nil, contracts.FileNotFound(file, this.library.ID())
	}
	address := this.files
	address.Path = path.Join("/", address.Path, this.library.Name, this.library.Version, file)
	address.RawQuery = ""
	return this.downloader.Download(ctx, address)
}
