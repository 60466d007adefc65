package notion

// QueryDatabaseRequest is the JSON body for:
// https://developers.notion.com/reference/post-database-query
type QueryDatabaseRequest struct {
	// Opaque cursor from a previous response's next_cursor.
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"` // default 100, max 100

	Sorts []QuerySort `json:"sorts,omitempty"`
}

type QuerySort struct {
	Timestamp string `json:"timestamp,omitempty"` // created_time or last_edited_time
	Property  string `json:"property,omitempty"`
	Direction string `json:"direction"` // ascending, descending
}

// BlockChildrenQuery defines the query parameters for:
// https://developers.notion.com/reference/get-block-children
type BlockChildrenQuery struct {
	BlockID string `url:"-"` // required

	StartCursor string `url:"start_cursor,omitempty"`
	PageSize    int    `url:"page_size,omitempty"` // default 100, max 100
}

// GetDatabaseQuery identifies the database for:
// https://developers.notion.com/reference/retrieve-a-database
type GetDatabaseQuery struct {
	ID string `url:"-"` // required
}
