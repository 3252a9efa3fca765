package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archiver"
	"github.com/smartystreets/logging"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
)

// Resolver extracts the declared entries of an archive into a scratch
// directory, from which they are installed.
type Resolver struct {
	opener *opener
	logger *logging.Logger
}

func (this *Resolver) Resolve(ctx context.Context, state *contracts.LibraryInstallationState) (core.LibrarySource, error) {
	format, filename, cleanup, err := this.opener.open(ctx, state.LibraryId)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	directory, err := os.MkdirTemp("", "libman-extract-")
	if err != nil {
		return nil, contracts.UnknownError(err)
	}
	err = extract(ctx, format, filename, directory, state.Files)
	if err != nil {
		_ = os.RemoveAll(directory)
		return nil, contracts.UnknownError(fmt.Errorf("extracting %s: %w", state.LibraryId, err))
	}
	this.logger.Printf("[INFO] extracted %s", state.Title())
	return &source{directory: directory}, nil
}

func extract(ctx context.Context, format Format, filename, directory string, files []string) error {
	wanted := make(map[string]bool, len(files))
	for _, file := range files {
		if name := entryName(file); name != "" && !contracts.EscapesRoot(name) {
			wanted[name] = true
		}
	}
	if len(wanted) == 0 {
		return nil
	}
	return Walk(ctx, format, filename, func(name string, content io.Reader) error {
		if !wanted[name] {
			return nil
		}
		if err := writeEntry(filepath.Join(directory, filepath.FromSlash(name)), content); err != nil {
			return err
		}
		delete(wanted, name)
		if len(wanted) == 0 {
			return archiver.ErrStopWalk
		}
		return nil
	})
}

func writeEntry(target string, content io.Reader) error {
	err := os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return err
	}
	file, err := os.Create(target)
	if err != nil {
		return err
	}
	_, err = io.Copy(file, content)
	closeErr := file.Close()
	if err != nil {
		return err
	}
	return closeErr
}

///////////////////////////////////////////////////////////////////////////////

type source struct {
	directory string
}

func (this *source) Select(declared []string) []string { return declared }

func (this *source) Open(_ context.Context, file string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(this.directory, filepath.FromSlash(entryName(file))))
}

func (this *source) Close() error {
	return os.RemoveAll(this.directory)
}
