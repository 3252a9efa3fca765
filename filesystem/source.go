package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
)

// Resolver turns a library id into a source of files.
type Resolver struct {
	locator *Locator
}

func NewResolver(locator *Locator) *Resolver {
	return &Resolver{locator: locator}
}

func (this *Resolver) Resolve(ctx context.Context, state *contracts.LibraryInstallationState) (core.LibrarySource, error) {
	location, err := this.locator.Locate(state.LibraryId)
	if err != nil {
		return nil, err
	}
	switch location.Kind {
	case Directory:
		return &directorySource{directory: location.Path}, nil
	case LocalFile:
		return &fileSource{path: location.Path}, nil
	}
	if len(state.Files) == 0 {
		return &remoteSource{}, nil
	}
	body, err := this.locator.Open(ctx, location)
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, contracts.LibraryIdNotFound(state.LibraryId)
	}
	if err != nil {
		return nil, contracts.UnknownError(err)
	}
	return &remoteSource{body: body}, nil
}

///////////////////////////////////////////////////////////////////////////////

// directorySource serves direct children of a directory.
type directorySource struct {
	directory string
}

func (this *directorySource) Select(declared []string) []string { return declared }
func (this *directorySource) Close() error                      { return nil }

func (this *directorySource) Open(_ context.Context, file string) (io.ReadCloser, error) {
	name := contracts.CleanDestination(file)
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("%q is not a direct child of %q: %w", file, this.directory, os.ErrNotExist)
	}
	target := filepath.Join(this.directory, name)
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory: %w", target, os.ErrNotExist)
	}
	return os.Open(target)
}

// fileSource copies one local file to the first declared name.
type fileSource struct {
	path string
}

func (this *fileSource) Select(declared []string) []string { return first(declared) }
func (this *fileSource) Close() error                      { return nil }

func (this *fileSource) Open(context.Context, string) (io.ReadCloser, error) {
	return os.Open(this.path)
}

// remoteSource copies an already fetched response body to the first declared name.
type remoteSource struct {
	body io.ReadCloser
}

func (this *remoteSource) Select(declared []string) []string { return first(declared) }

func (this *remoteSource) Open(context.Context, string) (io.ReadCloser, error) {
	return ioutil.NopCloser(this.body), nil
}

func (this *remoteSource) Close() error {
	if this.body == nil {
		return nil
	}
	return this.body.Close()
}

func first(declared []string) []string {
	if len(declared) == 0 {
		return nil
	}
	return declared[:1]
}
