package contracts

import "context"

// LibraryCatalog is a read-only index of the libraries a provider can install.
type LibraryCatalog interface {
	Search(ctx context.Context, term string, max int) ([]LibraryGroup, error)
	Versions(ctx context.Context, name string) ([]string, error)
	GetLibrary(ctx context.Context, libraryId string) (Library, error)
	LatestVersion(ctx context.Context, name string) (string, error)
}

type LibraryGroup struct {
	Name        string
	Description string
	Version     string
}

type Library struct {
	Name       string
	Version    string
	ProviderId string
	Files      []string
}

func (this Library) ID() string {
	if this.Version == "" {
		return this.Name
	}
	return this.Name + "@" + this.Version
}

func (this Library) HasFile(name string) bool {
	for _, file := range this.Files {
		if file == name {
			return true
		}
	}
	return false
}
