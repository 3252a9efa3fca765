package contracts

import (
	"context"
	"io"
	"net/url"
)

// Downloader fetches a single remote resource in one attempt. A missing
// resource is reported with an error wrapping ErrNotFound.
type Downloader interface {
	Download(ctx context.Context, address url.URL) (io.ReadCloser, error)
}
