package shell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/smartystreets/logging"

	"github.com/smarty/libman/contracts"
)

type HTTPDownloader struct {
	client *http.Client
	logger *logging.Logger
}

func NewHTTPDownloader(client *http.Client) *HTTPDownloader {
	return &HTTPDownloader{client: client}
}

func (this *HTTPDownloader) Download(ctx context.Context, address url.URL) (io.ReadCloser, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, address.String(), nil)
	if err != nil {
		return nil, err
	}
	response, err := this.client.Do(request)
	if err != nil {
		return nil, err
	}
	if response.StatusCode == http.StatusNotFound || response.StatusCode == http.StatusGone {
		_ = response.Body.Close()
		return nil, fmt.Errorf("%s: %w", address.String(), contracts.ErrNotFound)
	}
	if response.StatusCode != http.StatusOK {
		this.dump(request, response)
		_ = response.Body.Close()
		return nil, fmt.Errorf("unexpected status code from %s: %s", address.String(), response.Status)
	}
	return response.Body, nil
}

func (this *HTTPDownloader) dump(request *http.Request, response *http.Response) {
	requestDump, _ := httputil.DumpRequestOut(request, false)
	responseDump, _ := httputil.DumpResponse(response, true)
	this.logger.Printf("[WARN] unexpected status code: \nrequest: \n%s\nresponse:\n%s", requestDump, responseDump)
}
