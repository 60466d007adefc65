package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/toothbrush/notion-dump/internal/logfields"
)

// QueryDatabase returns one page of results of a database query.  An empty cursor starts from the
// beginning.
func (api *API) QueryDatabase(ctx context.Context, id string, cursor string) (*PageList, error) {
	ep, err := api.queryDatabaseEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get database query endpoint: %w", err)
	}

	req := QueryDatabaseRequest{
		StartCursor: cursor,
		PageSize:    100,
		// stable listing order, oldest first
		Sorts: []QuerySort{{Timestamp: "created_time", Direction: "ascending"}},
	}

	body, err := api.request(ctx, http.MethodPost, ep, req)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't perform request: %w", err)
	}

	var pages PageList
	if err := json.Unmarshal(body, &pages); err != nil {
		return nil, fmt.Errorf("notion: couldn't parse json response: %w", err)
	}

	return &pages, nil
}

func (api *API) GetDatabase(ctx context.Context, id string) (*Database, error) {
	ep, err := api.getDatabaseEndpoint(GetDatabaseQuery{ID: id})
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get database endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't perform request: %w", err)
	}

	var db Database
	if err := json.Unmarshal(body, &db); err != nil {
		return nil, fmt.Errorf("notion: couldn't parse json response: %w", err)
	}

	return &db, nil
}

func (api *API) getBlockChildren(ctx context.Context, opts BlockChildrenQuery) (*BlockList, error) {
	ep, err := api.blockChildrenEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't get block children endpoint: %w", err)
	}

	body, err := api.request(ctx, http.MethodGet, ep, nil)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't perform request: %w", err)
	}

	var blocks BlockList
	if err := json.Unmarshal(body, &blocks); err != nil {
		return nil, fmt.Errorf("notion: couldn't parse json response: %w", err)
	}

	return &blocks, nil
}

// APIError is the error object the API returns with any non-2xx status.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion: HTTP %d", e.Status)
	}
	return fmt.Sprintf("notion: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// Temporary reports whether the request may succeed when retried.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// request performs one API call, retrying rate-limited and server-error responses according to
// api.Retry.  payload, when non-nil, is sent as a JSON body.
func (api *API) request(ctx context.Context, method string, url *url.URL, payload any) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		if encoded, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("notion: couldn't encode request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		body, retryAfter, err := api.do(ctx, method, url, encoded)
		if err == nil {
			return body, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Temporary() || attempt >= api.Retry.MaxRetries {
			return nil, err
		}

		delay := api.Retry.DelayWithHint(attempt+1, retryAfter)
		api.Logger.Debug("Retrying Notion request",
			slog.String("url", url.Path),
			logfields.Attempt(attempt+1),
			logfields.DurationMS(delay.Milliseconds()),
			logfields.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("notion: gave up waiting to retry: %w", context.Cause(ctx))
		case <-timer.C:
		}
	}
}

func (api *API) do(ctx context.Context, method string, url *url.URL, payload []byte) ([]byte, string, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url.String(), reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("notion: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+api.token)
	req.Header.Set("Notion-Version", APIVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("notion: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		response.Body.Close()
		return nil, "", fmt.Errorf("notion: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, "", fmt.Errorf("notion: couldn't close response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return body, "", nil
	}

	apiErr := &APIError{}
	if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Status == 0 {
		apiErr = &APIError{Message: response.Status}
	}
	apiErr.Status = response.StatusCode
	if response.StatusCode == http.StatusUnauthorized {
		apiErr.Message = "authentication failed, check the integration token"
	}

	return nil, response.Header.Get("Retry-After"), apiErr
}
