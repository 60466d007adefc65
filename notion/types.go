package notion

import (
	"strings"
	"time"
)

// See https://developers.notion.com/reference/page.
type Page struct {
	Object         string    `json:"object"`
	ID             string    `json:"id"`
	CreatedTime    time.Time `json:"created_time"`
	LastEditedTime time.Time `json:"last_edited_time"`
	Archived       bool      `json:"archived"`
	InTrash        bool      `json:"in_trash"`
	URL            string    `json:"url"`
	PublicURL      string    `json:"public_url,omitempty"`

	Cover *FileObject `json:"cover,omitempty"`
	Icon  *Icon       `json:"icon,omitempty"`

	Properties map[string]Property `json:"properties"`
}

// See https://developers.notion.com/reference/database.
type Database struct {
	Object      string                      `json:"object"`
	ID          string                      `json:"id"`
	Title       []RichText                  `json:"title"`
	Description []RichText                  `json:"description"`
	URL         string                      `json:"url"`
	Properties  map[string]DatabaseProperty `json:"properties"`
}

// PlainTitle returns the database title without formatting.
func (d Database) PlainTitle() string {
	return PlainText(d.Title)
}

// DatabaseProperty is a column of a database schema.  Only the shape is kept, not the per-type
// configuration.
type DatabaseProperty struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type PropertyType `json:"type"`
}

type PropertyType string

const (
	PropertyTitle          PropertyType = "title"
	PropertyRichText       PropertyType = "rich_text"
	PropertySelect         PropertyType = "select"
	PropertyMultiSelect    PropertyType = "multi_select"
	PropertyStatus         PropertyType = "status"
	PropertyDate           PropertyType = "date"
	PropertyCheckbox       PropertyType = "checkbox"
	PropertyNumber         PropertyType = "number"
	PropertyURL            PropertyType = "url"
	PropertyEmail          PropertyType = "email"
	PropertyPhoneNumber    PropertyType = "phone_number"
	PropertyPeople         PropertyType = "people"
	PropertyFiles          PropertyType = "files"
	PropertyRelation       PropertyType = "relation"
	PropertyFormula        PropertyType = "formula"
	PropertyRollup         PropertyType = "rollup"
	PropertyCreatedTime    PropertyType = "created_time"
	PropertyLastEditedTime PropertyType = "last_edited_time"
	PropertyCreatedBy      PropertyType = "created_by"
	PropertyLastEditedBy   PropertyType = "last_edited_by"
	PropertyUniqueID       PropertyType = "unique_id"
)

// Property is a typed property value: Type says which of the other fields is populated.  The
// same shape is used for the elements of a rollup array.
//
// See https://developers.notion.com/reference/page-property-values.
type Property struct {
	ID   string       `json:"id,omitempty"`
	Type PropertyType `json:"type"`

	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Email       *string        `json:"email,omitempty"`
	PhoneNumber *string        `json:"phone_number,omitempty"`
	People      []User         `json:"people,omitempty"`
	Files       []FileObject   `json:"files,omitempty"`
	Relation    []Relation     `json:"relation,omitempty"`
	Formula     *Formula       `json:"formula,omitempty"`
	Rollup      *Rollup        `json:"rollup,omitempty"`

	CreatedTime    string    `json:"created_time,omitempty"`
	LastEditedTime string    `json:"last_edited_time,omitempty"`
	CreatedBy      *User     `json:"created_by,omitempty"`
	LastEditedBy   *User     `json:"last_edited_by,omitempty"`
	UniqueID       *UniqueID `json:"unique_id,omitempty"`
}

type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

type Relation struct {
	ID string `json:"id"`
}

// Formula results carry their own type: string, number, boolean or date.
type Formula struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

// Rollup results are a number, a date, or an array of property values of any type.
type Rollup struct {
	Type     string     `json:"type"`
	Function string     `json:"function,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	Date     *DateValue `json:"date,omitempty"`
	Array    []Property `json:"array,omitempty"`
}

type UniqueID struct {
	Prefix *string  `json:"prefix,omitempty"`
	Number *float64 `json:"number,omitempty"`
}

// See https://developers.notion.com/reference/user.  Partial users only carry the ID.
type User struct {
	Object    string  `json:"object,omitempty"`
	ID        string  `json:"id"`
	Type      string  `json:"type,omitempty"` // person, bot
	Name      string  `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Person    *struct {
		Email string `json:"email"`
	} `json:"person,omitempty"`
}

// DisplayName returns the name, else the email, else the ID.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	if u.Person != nil && u.Person.Email != "" {
		return u.Person.Email
	}
	return u.ID
}

// FileObject is either a Notion-hosted file (with an expiring URL) or an external link.
type FileObject struct {
	Type     string       `json:"type"` // file, external, file_upload
	Name     string       `json:"name,omitempty"`
	File     *HostedFile  `json:"file,omitempty"`
	External *ExternalURL `json:"external,omitempty"`
	Caption  []RichText   `json:"caption,omitempty"`
}

type HostedFile struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

type ExternalURL struct {
	URL string `json:"url"`
}

// URL returns the file's download location, or "" when there is none.
func (f *FileObject) URL() string {
	if f == nil {
		return ""
	}
	switch {
	case f.File != nil:
		return f.File.URL
	case f.External != nil:
		return f.External.URL
	}
	return ""
}

// Icon is an emoji, a file, or a workspace custom emoji.
type Icon struct {
	Type        string       `json:"type"` // emoji, file, external, custom_emoji
	Emoji       string       `json:"emoji,omitempty"`
	File        *HostedFile  `json:"file,omitempty"`
	External    *ExternalURL `json:"external,omitempty"`
	CustomEmoji *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"custom_emoji,omitempty"`
}

// URL returns the icon image location; emoji icons have none.
func (i *Icon) URL() string {
	if i == nil {
		return ""
	}
	switch {
	case i.File != nil:
		return i.File.URL
	case i.External != nil:
		return i.External.URL
	case i.CustomEmoji != nil:
		return i.CustomEmoji.URL
	}
	return ""
}

// See https://developers.notion.com/reference/rich-text.
type RichText struct {
	Type        string       `json:"type"` // text, mention, equation
	PlainText   string       `json:"plain_text"`
	Href        *string      `json:"href,omitempty"`
	Annotations Annotations  `json:"annotations"`
	Text        *TextContent `json:"text,omitempty"`
	Mention     *Mention     `json:"mention,omitempty"`
	Equation    *Equation    `json:"equation,omitempty"`
}

type Annotations struct {
	Bold          bool   `json:"bold"`
	Italic        bool   `json:"italic"`
	Strikethrough bool   `json:"strikethrough"`
	Underline     bool   `json:"underline"`
	Code          bool   `json:"code"`
	Color         string `json:"color,omitempty"`
}

type TextContent struct {
	Content string `json:"content"`
	Link    *struct {
		URL string `json:"url"`
	} `json:"link,omitempty"`
}

type Mention struct {
	Type     string     `json:"type"` // page, database, user, date, link_preview, template_mention
	Page     *Relation  `json:"page,omitempty"`
	Database *Relation  `json:"database,omitempty"`
	User     *User      `json:"user,omitempty"`
	Date     *DateValue `json:"date,omitempty"`

	LinkPreview *struct {
		URL string `json:"url"`
	} `json:"link_preview,omitempty"`
}

type Equation struct {
	Expression string `json:"expression"`
}

// PlainText concatenates the plain text of all runs, with no separator.
func PlainText(runs []RichText) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.PlainText)
	}
	return b.String()
}

// PageURL is the canonical notion.so address of a page or database, which is how page mentions
// and child pages are linked from rendered bodies.
func PageURL(id string) string {
	return "https://www.notion.so/" + strings.ReplaceAll(id, "-", "")
}
