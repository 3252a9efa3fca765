package archive

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/filesystem"
)

// opener finds an archive and makes it available as a local file. Remote
// archives are copied to a temp file that keeps the archive's extension.
type opener struct {
	locator *filesystem.Locator
}

func (this *opener) open(ctx context.Context, libraryId string) (format Format, filename string, cleanup func(), err error) {
	format, extension := Detect(libraryId)
	if format == Unsupported {
		return Unsupported, "", nil, contracts.NewInvalidLibraryError(libraryId, ProviderID)
	}
	location, err := this.locator.Locate(libraryId)
	if err != nil {
		return Unsupported, "", nil, err
	}
	switch location.Kind {
	case filesystem.LocalFile:
		return format, location.Path, func() {}, nil
	case filesystem.Remote:
		filename, err = this.spool(ctx, location, extension)
		if errors.Is(err, contracts.ErrNotFound) {
			return Unsupported, "", nil, contracts.LibraryIdNotFound(libraryId)
		}
		if err != nil {
			return Unsupported, "", nil, contracts.UnknownError(err)
		}
		return format, filename, func() { _ = os.Remove(filename) }, nil
	default:
		return Unsupported, "", nil, contracts.NewInvalidLibraryError(libraryId, ProviderID)
	}
}

func (this *opener) spool(ctx context.Context, location filesystem.Location, extension string) (string, error) {
	body, err := this.locator.Open(ctx, location)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }()

	temp, err := os.CreateTemp("", "libman-archive-*"+extension)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(temp, body)
	closeErr := temp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(temp.Name())
		return "", err
	}
	return temp.Name(), nil
}
