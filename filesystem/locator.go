package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/smarty/libman/contracts"
)

type Kind int

const (
	Missing Kind = iota
	Directory
	LocalFile
	Remote
)

// Location is where a library id points: a local directory or file, or a URL.
type Location struct {
	Kind Kind
	Path string
	URL  url.URL
}

func (this Location) Name() string {
	if this.Kind == Remote {
		return path.Base(this.URL.Path)
	}
	return filepath.Base(this.Path)
}

// Locator classifies library ids as an absolute local path, a path relative
// to the host root, or an absolute http(s) URL, in that order.
type Locator struct {
	root       contracts.RootPath
	downloader contracts.Downloader
}

func NewLocator(root contracts.RootPath, downloader contracts.Downloader) *Locator {
	return &Locator{root: root, downloader: downloader}
}

func (this *Locator) Locate(libraryId string) (Location, error) {
	id := strings.TrimSpace(libraryId)
	if id == "" {
		return Location{}, contracts.LibraryIdNotDefined()
	}
	if filepath.IsAbs(id) {
		if location, found := local(id); found {
			return location, nil
		}
	} else if location, found := local(filepath.Join(this.root.RootPath(), filepath.FromSlash(id))); found {
		return location, nil
	}
	if address, err := url.Parse(id); err == nil && isWeb(address) {
		return Location{Kind: Remote, URL: *address}, nil
	}
	return Location{}, fmt.Errorf("%q: %w", libraryId, contracts.ErrNotFound)
}

// Open reads the content of a single-file location.
func (this *Locator) Open(ctx context.Context, location Location) (io.ReadCloser, error) {
	switch location.Kind {
	case LocalFile:
		return os.Open(location.Path)
	case Remote:
		if this.downloader == nil {
			return nil, errors.New("no downloader configured for remote libraries")
		}
		return this.downloader.Download(ctx, location.URL)
	default:
		return nil, fmt.Errorf("%q is not a file", location.Path)
	}
}

func local(candidate string) (Location, bool) {
	info, err := os.Stat(candidate)
	if err != nil {
		return Location{}, false
	}
	if info.IsDir() {
		return Location{Kind: Directory, Path: candidate}, true
	}
	return Location{Kind: LocalFile, Path: candidate}, true
}

func isWeb(address *url.URL) bool {
	return (address.Scheme == "http" || address.Scheme == "https") && address.Host != ""
}
