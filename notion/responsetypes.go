package notion

// PageList is one page of a database query response.
type PageList struct {
	Results []Page `json:"results"`

	// When HasMore is set, pass NextCursor as start_cursor to get the rest.
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// BlockList is one page of a block-children response.
type BlockList struct {
	Results []Block `json:"results"`

	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}
