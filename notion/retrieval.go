package notion

import (
	"context"
	"fmt"
	"time"
)

// Per-request timeout, applied on top of the caller's context.
const requestTimeout = 30 * time.Second

// QueryAllPages walks a database query cursor to the end and returns every page in listing
// order.
func (api *API) QueryAllPages(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	cursor := ""

	for {
		list, err := api.queryPage(ctx, databaseID, cursor)
		if err != nil {
			return nil, fmt.Errorf("notion: couldn't list pages of %s: %w", databaseID, err)
		}
		pages = append(pages, list.Results...)

		if !list.HasMore {
			break
		}
		if list.NextCursor == "" {
			return nil, fmt.Errorf("notion: has_more set but next_cursor was empty")
		}
		cursor = list.NextCursor
	}

	return pages, nil
}

func (api *API) queryPage(ctx context.Context, databaseID, cursor string) (*PageList, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return api.QueryDatabase(ctx, databaseID, cursor)
}

// ListAllBlockChildren returns the content tree below a page or block: every level of children,
// every cursor page.
func (api *API) ListAllBlockChildren(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	query := BlockChildrenQuery{BlockID: blockID, PageSize: 100}

	for {
		list, err := api.blockChildrenPage(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("notion: couldn't list children of %s: %w", blockID, err)
		}
		blocks = append(blocks, list.Results...)

		if !list.HasMore {
			break
		}
		if list.NextCursor == "" {
			return nil, fmt.Errorf("notion: has_more set but next_cursor was empty")
		}
		query.StartCursor = list.NextCursor
	}

	for i := range blocks {
		b := &blocks[i]
		// child pages and databases are separate documents
		if b.Type == BlockChildPage || b.Type == BlockChildDatabase {
			continue
		}
		source := b.childSource()
		if !b.HasChildren && source == b.ID {
			continue
		}
		children, err := api.ListAllBlockChildren(ctx, source)
		if err != nil {
			return nil, err
		}
		b.Children = children
	}

	return blocks, nil
}

func (api *API) blockChildrenPage(ctx context.Context, query BlockChildrenQuery) (*BlockList, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return api.getBlockChildren(ctx, query)
}
