package notion

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// queryDatabaseEndpoint returns the endpoint to list the pages of a database:
// https://developers.notion.com/reference/post-database-query
func (a *API) queryDatabaseEndpoint(id string) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("notion: please provide a database ID to query")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/v1/databases/%s/query", url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't resolve endpoint: %w", err)
	}
	return ep, nil
}

// getDatabaseEndpoint returns the endpoint to fetch a database's metadata:
// https://developers.notion.com/reference/retrieve-a-database
func (a *API) getDatabaseEndpoint(opts GetDatabaseQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("notion: please provide a database ID")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/v1/databases/%s", url.PathEscape(opts.ID)))
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't resolve endpoint: %w", err)
	}
	return ep, nil
}

// blockChildrenEndpoint returns the endpoint to list one level of children of a block (or page):
// https://developers.notion.com/reference/get-block-children
func (a *API) blockChildrenEndpoint(opts BlockChildrenQuery) (*url.URL, error) {
	if opts.BlockID == "" {
		return nil, fmt.Errorf("notion: please provide a block ID to list children")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("/v1/blocks/%s/children", url.PathEscape(opts.BlockID)))
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("notion: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("notion: failed to parse endpoint ref: %w", err)
	}

	return a.BaseURI.ResolveReference(ref), nil
}
