package filesystem

import (
	"context"
	"os"

	"github.com/smarty/libman/contracts"
)

// Catalog describes local and remote libraries. It has no index, so Search and
// Versions always come back empty.
type Catalog struct {
	locator *Locator
}

func NewCatalog(locator *Locator) *Catalog {
	return &Catalog{locator: locator}
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

func (this *Catalog) GetLibrary(_ context.Context, libraryId string) (contracts.Library, error) {
	location, err := this.locator.Locate(libraryId)
	if err != nil {
		return contracts.Library{}, contracts.AsError(err, contracts.LibraryIdNotFound(libraryId))
	}
	library := contracts.Library{Name: libraryId, ProviderId: ProviderID}
	if location.Kind != Directory {
		library.Files = []string{location.Name()}
		return library, nil
	}
	entries, err := os.ReadDir(location.Path)
	if err != nil {
		return contracts.Library{}, contracts.UnknownError(err)
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			library.Files = append(library.Files, entry.Name())
		}
	}
	return library, nil
}
