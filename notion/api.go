package notion

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/toothbrush/notion-dump/internal/retry"
)

// DefaultBaseURI is the public Notion REST API.
const DefaultBaseURI = "https://api.notion.com"

// APIVersion is sent as the Notion-Version header on every request.
const APIVersion = "2022-06-28"

type Options struct {
	// Override the API location, e.g. to point at an httptest server.
	BaseURI string

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	Retry  retry.Policy
	Logger *slog.Logger
}

func NewAPI(token string, opts Options) (*API, error) {
	if token == "" {
		return nil, fmt.Errorf("notion: auth token is empty, please set NOTION_TOKEN or --auth-token-cmd")
	}

	base := opts.BaseURI
	if base == "" {
		base = DefaultBaseURI
	}
	u, err := url.ParseRequestURI(base)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI: u,
		Client:  opts.Client,
		Retry:   opts.Retry,
		Logger:  opts.Logger,
		token:   token,
	}
	if a.Client == nil {
		a.Client = &http.Client{}
	}
	if a.Retry.Validate() != nil {
		a.Retry = retry.DefaultPolicy()
	}
	if a.Logger == nil {
		a.Logger = slog.Default()
	}

	return a, nil
}

type API struct {
	// Root of the REST API, normally https://api.notion.com
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Backoff for 429 and 5xx responses.
	Retry retry.Policy

	Logger *slog.Logger

	token string
}
