package archive

import (
	"context"
	"io"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
	"github.com/smarty/libman/filesystem"
)

const ProviderID = "archive"

// Provider installs entries of a zip, tar or rar archive found on disk or at
// a URL.
type Provider struct {
	installer *core.PackageInstaller
	catalog   *Catalog
}

func NewProvider(host contracts.HostInteraction, downloader contracts.Downloader) *Provider {
	archives := &opener{locator: filesystem.NewLocator(host, downloader)}
	return &Provider{
		installer: core.NewPackageInstaller(ProviderID, host, &Resolver{opener: archives}),
		catalog:   &Catalog{opener: archives},
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

///////////////////////////////////////////////////////////////////////////////

// Catalog lists archive entries. Archives carry no index or versions.
type Catalog struct {
	opener *opener
}

func (this *Catalog) Search(context.Context, string, int) ([]contracts.LibraryGroup, error) {
	return nil, nil
}

func (this *Catalog) Versions(context.Context, string) ([]string, error) {
	return nil, nil
}

func (this *Catalog) LatestVersion(context.Context, string) (string, error) {
	return "", nil
}

func (this *Catalog) GetLibrary(ctx context.Context, libraryId string) (contracts.Library, error) {
	format, filename, cleanup, err := this.opener.open(ctx, libraryId)
	if err != nil {
		return contracts.Library{}, contracts.AsError(err, contracts.LibraryIdNotFound(libraryId))
	}
	defer cleanup()

	library := contracts.Library{Name: libraryId, ProviderId: ProviderID}
	err = Walk(ctx, format, filename, func(name string, _ io.Reader) error {
		library.Files = append(library.Files, name)
		return nil
	})
	if err != nil {
		return contracts.Library{}, contracts.UnknownError(err)
	}
	return library, nil
}
