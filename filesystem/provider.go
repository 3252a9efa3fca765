package filesystem

import (
	"context"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
)

const ProviderID = "filesystem"

// Provider installs files from a local directory, a local file or a URL.
type Provider struct {
	installer *core.PackageInstaller
	catalog   *Catalog
}

func NewProvider(host contracts.HostInteraction, downloader contracts.Downloader) *Provider {
	locator := NewLocator(host, downloader)
	return &Provider{
		installer: core.NewPackageInstaller(ProviderID, host, NewResolver(locator)),
		catalog:   NewCatalog(locator),
	}
}

func (this *Provider) ID() string                       { return ProviderID }
func (this *Provider) Catalog() contracts.LibraryCatalog { return this.catalog }

func (this *Provider) Install(ctx context.Context, state *contracts.LibraryInstallationState) *contracts.InstallationResult {
	return this.installer.Install(ctx, state)
}

type Factory struct {
	downloader contracts.Downloader
}

func NewFactory(downloader contracts.Downloader) *Factory {
	return &Factory{downloader: downloader}
}

func (this *Factory) ProviderID() string { return ProviderID }

func (this *Factory) CreateProvider(host contracts.HostInteraction) contracts.Provider {
	return NewProvider(host, this.downloader)
}
