package localdump

import (
	"strconv"
	"strings"

	"github.com/toothbrush/notion-dump/notion"
)

// NormalizeProperty converts a typed property value into a front-matter value: a string, a
// float64, a bool, a []string, or nil.  Unknown types give nil.
//
// Rollups of rollups are followed to any depth; arrays are flattened into one []string.
func NormalizeProperty(p notion.Property) any {
	switch p.Type {
	case notion.PropertyTitle:
		return notion.PlainText(p.Title)
	case notion.PropertyRichText:
		return notion.PlainText(p.RichText)
	case notion.PropertySelect:
		return optionName(p.Select)
	case notion.PropertyStatus:
		return optionName(p.Status)
	case notion.PropertyMultiSelect:
		out := []string{}
		for _, o := range p.MultiSelect {
			if o.Name != "" {
				out = append(out, o.Name)
			}
		}
		return out
	case notion.PropertyDate:
		return dateValue(p.Date)
	case notion.PropertyCheckbox:
		return p.Checkbox
	case notion.PropertyNumber:
		return number(p.Number)
	case notion.PropertyURL:
		return str(p.URL)
	case notion.PropertyEmail:
		return str(p.Email)
	case notion.PropertyPhoneNumber:
		return str(p.PhoneNumber)
	case notion.PropertyPeople:
		out := []string{}
		for _, u := range p.People {
			if name := u.DisplayName(); name != "" {
				out = append(out, name)
			}
		}
		return out
	case notion.PropertyFiles:
		out := []string{}
		for i := range p.Files {
			if u := p.Files[i].URL(); u != "" {
				out = append(out, u)
			}
		}
		return out
	case notion.PropertyRelation:
		out := []string{}
		for _, r := range p.Relation {
			if r.ID != "" {
				out = append(out, r.ID)
			}
		}
		return out
	case notion.PropertyFormula:
		return formulaValue(p.Formula)
	case notion.PropertyRollup:
		return rollupValue(p.Rollup)
	case notion.PropertyCreatedTime:
		return p.CreatedTime
	case notion.PropertyLastEditedTime:
		return p.LastEditedTime
	case notion.PropertyCreatedBy:
		return userName(p.CreatedBy)
	case notion.PropertyLastEditedBy:
		return userName(p.LastEditedBy)
	case notion.PropertyUniqueID:
		return uniqueID(p.UniqueID)
	default:
		return nil
	}
}

func formulaValue(f *notion.Formula) any {
	if f == nil {
		return nil
	}
	switch f.Type {
	case "string":
		return str(f.String)
	case "number":
		return number(f.Number)
	case "boolean":
		if f.Boolean == nil {
			return nil
		}
		return *f.Boolean
	case "date":
		return dateValue(f.Date)
	}
	return nil
}

func rollupValue(r *notion.Rollup) any {
	if r == nil {
		return nil
	}
	switch r.Type {
	case "number":
		return number(r.Number)
	case "date":
		return dateValue(r.Date)
	case "array":
		out := []string{}
		for _, el := range r.Array {
			out = appendFlattened(out, NormalizeProperty(el))
		}
		return out
	}
	// incomplete, unsupported
	return nil
}

// appendFlattened appends a normalized value to a string list, dropping nulls and blanks.
func appendFlattened(out []string, v any) []string {
	switch v := v.(type) {
	case string:
		if v != "" {
			out = append(out, v)
		}
	case float64:
		out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		out = append(out, strconv.FormatBool(v))
	case []string:
		for _, s := range v {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Date ranges are written as ISO 8601 intervals, start/end.
func dateValue(d *notion.DateValue) any {
	if d == nil || d.Start == "" {
		return nil
	}
	if d.End != nil && *d.End != "" {
		return d.Start + "/" + *d.End
	}
	return d.Start
}

func optionName(o *notion.SelectOption) any {
	if o == nil {
		return nil
	}
	return o.Name
}

func number(n *float64) any {
	if n == nil {
		return nil
	}
	return *n
}

func str(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func userName(u *notion.User) any {
	if u == nil {
		return nil
	}
	return u.DisplayName()
}

func uniqueID(u *notion.UniqueID) any {
	if u == nil || u.Number == nil {
		return nil
	}
	n := strconv.FormatFloat(*u.Number, 'f', -1, 64)
	if u.Prefix != nil && *u.Prefix != "" {
		return *u.Prefix + "-" + n
	}
	return *u.Number
}

// isEmpty reports whether a normalized value should be left out of front matter.
func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	}
	return false
}

// stringify flattens a normalized value to text, for slugs.
func stringify(v any) string {
	return strings.Join(appendFlattened(nil, v), " ")
}
