package notion

type BlockType string

const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading_1"
	BlockHeading2         BlockType = "heading_2"
	BlockHeading3         BlockType = "heading_3"
	BlockBulletedListItem BlockType = "bulleted_list_item"
	BlockNumberedListItem BlockType = "numbered_list_item"
	BlockToDo             BlockType = "to_do"
	BlockToggle           BlockType = "toggle"
	BlockQuote            BlockType = "quote"
	BlockCallout          BlockType = "callout"
	BlockCode             BlockType = "code"
	BlockDivider          BlockType = "divider"
	BlockEquation         BlockType = "equation"
	BlockImage            BlockType = "image"
	BlockVideo            BlockType = "video"
	BlockFile             BlockType = "file"
	BlockPDF              BlockType = "pdf"
	BlockAudio            BlockType = "audio"
	BlockBookmark         BlockType = "bookmark"
	BlockEmbed            BlockType = "embed"
	BlockLinkPreview      BlockType = "link_preview"
	BlockLinkToPage       BlockType = "link_to_page"
	BlockChildPage        BlockType = "child_page"
	BlockChildDatabase    BlockType = "child_database"
	BlockTable            BlockType = "table"
	BlockTableRow         BlockType = "table_row"
	BlockColumnList       BlockType = "column_list"
	BlockColumn           BlockType = "column"
	BlockSyncedBlock      BlockType = "synced_block"
	BlockTableOfContents  BlockType = "table_of_contents"
	BlockBreadcrumb       BlockType = "breadcrumb"
)

// Block is one content block.  As with Property, Type says which payload field is populated.
// Children are not part of the API object; ListAllBlockChildren fills them in.
//
// See https://developers.notion.com/reference/block.
type Block struct {
	Object      string    `json:"object"`
	ID          string    `json:"id"`
	Type        BlockType `json:"type"`
	HasChildren bool      `json:"has_children"`

	Paragraph        *TextBlock `json:"paragraph,omitempty"`
	Heading1         *TextBlock `json:"heading_1,omitempty"`
	Heading2         *TextBlock `json:"heading_2,omitempty"`
	Heading3         *TextBlock `json:"heading_3,omitempty"`
	BulletedListItem *TextBlock `json:"bulleted_list_item,omitempty"`
	NumberedListItem *TextBlock `json:"numbered_list_item,omitempty"`
	ToDo             *TextBlock `json:"to_do,omitempty"`
	Toggle           *TextBlock `json:"toggle,omitempty"`
	Quote            *TextBlock `json:"quote,omitempty"`
	Callout          *TextBlock `json:"callout,omitempty"`
	Code             *TextBlock `json:"code,omitempty"`

	Equation *Equation `json:"equation,omitempty"`

	Image *FileObject `json:"image,omitempty"`
	Video *FileObject `json:"video,omitempty"`
	File  *FileObject `json:"file,omitempty"`
	PDF   *FileObject `json:"pdf,omitempty"`
	Audio *FileObject `json:"audio,omitempty"`

	Bookmark    *LinkBlock `json:"bookmark,omitempty"`
	Embed       *LinkBlock `json:"embed,omitempty"`
	LinkPreview *LinkBlock `json:"link_preview,omitempty"`

	LinkToPage    *LinkToPage  `json:"link_to_page,omitempty"`
	ChildPage     *ChildTitle  `json:"child_page,omitempty"`
	ChildDatabase *ChildTitle  `json:"child_database,omitempty"`
	Table         *TableBlock  `json:"table,omitempty"`
	TableRow      *TableRow    `json:"table_row,omitempty"`
	SyncedBlock   *SyncedBlock `json:"synced_block,omitempty"`

	Children []Block `json:"-"`
}

// TextBlock is the payload shared by every block whose content is a rich-text run list.
type TextBlock struct {
	RichText     []RichText `json:"rich_text"`
	Color        string     `json:"color,omitempty"`
	Checked      bool       `json:"checked,omitempty"`       // to_do
	Language     string     `json:"language,omitempty"`      // code
	Caption      []RichText `json:"caption,omitempty"`       // code
	Icon         *Icon      `json:"icon,omitempty"`          // callout
	IsToggleable bool       `json:"is_toggleable,omitempty"` // headings
}

type LinkBlock struct {
	URL     string     `json:"url"`
	Caption []RichText `json:"caption,omitempty"`
}

type LinkToPage struct {
	Type       string `json:"type"` // page_id, database_id
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

type ChildTitle struct {
	Title string `json:"title"`
}

type TableBlock struct {
	TableWidth      int  `json:"table_width"`
	HasColumnHeader bool `json:"has_column_header"`
	HasRowHeader    bool `json:"has_row_header"`
}

type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

// SyncedBlock is either the original (SyncedFrom nil) or a reference to the block holding the
// content.
type SyncedBlock struct {
	SyncedFrom *struct {
		BlockID string `json:"block_id"`
	} `json:"synced_from"`
}

// Text returns the text payload of the block, or nil for non-text blocks.
func (b *Block) Text() *TextBlock {
	switch b.Type {
	case BlockParagraph:
		return b.Paragraph
	case BlockHeading1:
		return b.Heading1
	case BlockHeading2:
		return b.Heading2
	case BlockHeading3:
		return b.Heading3
	case BlockBulletedListItem:
		return b.BulletedListItem
	case BlockNumberedListItem:
		return b.NumberedListItem
	case BlockToDo:
		return b.ToDo
	case BlockToggle:
		return b.Toggle
	case BlockQuote:
		return b.Quote
	case BlockCallout:
		return b.Callout
	case BlockCode:
		return b.Code
	}
	return nil
}

// childSource returns the block whose children make up this block's content.  Synced block
// references borrow the children of the original.
func (b *Block) childSource() string {
	if b.Type == BlockSyncedBlock && b.SyncedBlock != nil && b.SyncedBlock.SyncedFrom != nil {
		return b.SyncedBlock.SyncedFrom.BlockID
	}
	return b.ID
}
