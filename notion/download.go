package notion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchBytes opens a download of an asset.  Asset URLs are pre-signed or public, so no
// credentials are sent.  The caller closes the returned body.
func (api *API) FetchBytes(ctx context.Context, url string) (io.ReadCloser, error) {
	for attempt := 0; ; attempt++ {
		body, retryAfter, err := api.fetch(ctx, url)
		if err == nil {
			return body, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Temporary() || attempt >= api.Retry.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(api.Retry.DelayWithHint(attempt+1, retryAfter))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("notion: gave up waiting to retry download: %w", context.Cause(ctx))
		case <-timer.C:
		}
	}
}

func (api *API) fetch(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("notion: couldn't instantiate download request: %w", err)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("notion: couldn't download %s: %w", url, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, response.Body)
		response.Body.Close()
		return nil, response.Header.Get("Retry-After"), &APIError{Status: response.StatusCode, Message: response.Status}
	}

	return response.Body, "", nil
}
