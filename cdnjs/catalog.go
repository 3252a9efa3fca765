package cdnjs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/smartystreets/logging"
	"golang.org/x/sync/singleflight"

	"github.com/smarty/libman/contracts"
)

// Catalog reads the cdnjs API. The library index and every per-library
// document are fetched at most once per catalog, and concurrent first
// requests share a single fetch.
type Catalog struct {
	api        url.URL
	downloader contracts.Downloader
	logger     *logging.Logger

	gate      singleflight.Group
	mutex     sync.RWMutex
	index     []contracts.LibraryGroup
	libraries map[string]contracts.Library
	versions  map[string][]string
}

func NewCatalog(api url.URL, downloader contracts.Downloader) *Catalog {
	return &Catalog{
		api:        api,
		downloader: downloader,
		libraries:  make(map[string]contracts.Library),
		versions:   make(map[string][]string),
	}
}

// Search ranks index entries by fuzzy match on the library name. A blank term
// matches every entry in index order. A max of zero or less is unlimited.
func (this *Catalog) Search(ctx context.Context, term string, max int) (groups []contracts.LibraryGroup, err error) {
	index, err := this.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		groups = append(groups, index...)
	} else {
		names := make([]string, len(index))
		for i, group := range index {
			names[i] = group.Name
		}
		for _, match := range fuzzy.Find(term, names) {
			groups = append(groups, index[match.Index])
		}
	}
	if max > 0 && len(groups) > max {
		groups = groups[:max]
	}
	return groups, nil
}

func (this *Catalog) LatestVersion(ctx context.Context, name string) (string, error) {
	index, err := this.loadIndex(ctx)
	if err != nil {
		return "", err
	}
	for _, group := range index {
		if group.Name == name && group.Version != "" {
			return group.Version, nil
		}
	}
	return "", contracts.LibraryIdNotFound(name)
}

func (this *Catalog) Versions(ctx context.Context, name string) ([]string, error) {
	this.mutex.RLock()
	versions, found := this.versions[name]
	this.mutex.RUnlock()
	if found {
		return versions, nil
	}

	value, err, _ := this.gate.Do("versions:"+name, func() (interface{}, error) {
		this.mutex.RLock()
		versions, found := this.versions[name]
		this.mutex.RUnlock()
		if found {
			return versions, nil
		}
		var document versionsDocument
		address := this.address("fields=versions", name)
		if err := this.fetch(ctx, address, &document); err != nil {
			return nil, this.notFound(err, name)
		}
		this.mutex.Lock()
		this.versions[name] = document.Versions
		this.mutex.Unlock()
		return document.Versions, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]string), nil
}

// GetLibrary describes one library version. An id without a version resolves
// to the latest version in the index.
func (this *Catalog) GetLibrary(ctx context.Context, libraryId string) (contracts.Library, error) {
	name, version, err := ParseLibraryId(libraryId)
	if err != nil {
		return contracts.Library{}, err
	}
	if version == "" {
		version, err = this.LatestVersion(ctx, name)
		if err != nil {
			return contracts.Library{}, err
		}
	}
	return this.library(ctx, name, version)
}

func (this *Catalog) library(ctx context.Context, name, version string) (contracts.Library, error) {
	key := name + "@" + version
	this.mutex.RLock()
	library, found := this.libraries[key]
	this.mutex.RUnlock()
	if found {
		return library, nil
	}

	value, err, _ := this.gate.Do("library:"+key, func() (interface{}, error) {
		this.mutex.RLock()
		library, found := this.libraries[key]
		this.mutex.RUnlock()
		if found {
			return library, nil
		}
		var document libraryDocument
		if err := this.fetch(ctx, this.address("", name, version), &document); err != nil {
			return nil, this.notFound(err, key)
		}
		library = contracts.Library{Name: name, Version: version, ProviderId: ProviderID, Files: document.Files}
		this.mutex.Lock()
		this.libraries[key] = library
		this.mutex.Unlock()
		return library, nil
	})
	if err != nil {
		return contracts.Library{}, err
	}
	return value.(contracts.Library), nil
}

func (this *Catalog) loadIndex(ctx context.Context) ([]contracts.LibraryGroup, error) {
	this.mutex.RLock()
	index := this.index
	this.mutex.RUnlock()
	if index != nil {
		return index, nil
	}

	value, err, _ := this.gate.Do("index", func() (interface{}, error) {
		this.mutex.RLock()
		index := this.index
		this.mutex.RUnlock()
		if index != nil {
			return index, nil
		}
		var document indexDocument
		if err := this.fetch(ctx, this.address("fields=name,description,version"), &document); err != nil {
			return nil, err
		}
		index = make([]contracts.LibraryGroup, 0, len(document.Results))
		for _, result := range document.Results {
			index = append(index, contracts.LibraryGroup(result))
		}
		this.logger.Printf("[INFO] loaded %d libraries from the cdnjs index", len(index))
		this.mutex.Lock()
		this.index = index
		this.mutex.Unlock()
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]contracts.LibraryGroup), nil
}

func (this *Catalog) fetch(ctx context.Context, address url.URL, target interface{}) error {
	body, err := this.downloader.Download(ctx, address)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()
	err = json.NewDecoder(body).Decode(target)
	if err != nil {
		return fmt.Errorf("malformed response from %s: %w", address.String(), err)
	}
	return nil
}

func (this *Catalog) address(query string, elements ...string) url.URL {
	address := this.api
	address.Path = path.Join(append([]string{"/", address.Path}, elements...)...)
	address.RawQuery = query
	return address
}

func (this *Catalog) notFound(err error, libraryId string) error {
	if errors.Is(err, contracts.ErrNotFound) {
		return contracts.LibraryIdNotFound(libraryId)
	}
	return err
}

type indexDocument struct {
	Results []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Version     string `json:"version"`
	} `json:"results"`
}

type libraryDocument struct {
	Files []string `json:"files"`
}

type versionsDocument struct {
	Versions []string `json:"versions"`
}
