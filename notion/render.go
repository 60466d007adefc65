package notion

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML renders a block tree as an HTML fragment.  Page mentions, child pages and
// link_to_page blocks become links to PageURL so they can be resolved later.
func RenderHTML(blocks []Block) (string, error) {
	var buf bytes.Buffer
	for _, n := range renderBlocks(blocks) {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("notion: couldn't render html: %w", err)
		}
	}
	return buf.String(), nil
}

func renderBlocks(blocks []Block) []*html.Node {
	var out []*html.Node

	// consecutive list items share one list element
	var list *html.Node
	var listType BlockType

	for i := range blocks {
		b := &blocks[i]
		switch b.Type {
		case BlockBulletedListItem, BlockNumberedListItem, BlockToDo:
			if list == nil || listType != b.Type {
				tag := atom.Ul
				if b.Type == BlockNumberedListItem {
					tag = atom.Ol
				}
				list = element(tag)
				listType = b.Type
				out = append(out, list)
			}
			list.AppendChild(renderListItem(b))
			continue
		}
		list = nil
		out = append(out, renderBlock(b)...)
	}
	return out
}

func renderListItem(b *Block) *html.Node {
	li := element(atom.Li)
	t := b.Text()
	if t == nil {
		return li
	}
	if b.Type == BlockToDo {
		box := element(atom.Input, attr("type", "checkbox"))
		if t.Checked {
			box.Attr = append(box.Attr, attr("checked", ""))
		}
		li.AppendChild(box)
	}
	appendAll(li, renderRichText(t.RichText)...)
	appendAll(li, renderBlocks(b.Children)...)
	return li
}

func renderBlock(b *Block) []*html.Node {
	switch b.Type {
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockHeading3, BlockToggle:
		t := b.Text()
		if t == nil {
			return nil
		}
		tag := map[BlockType]atom.Atom{
			BlockHeading1: atom.H1,
			BlockHeading2: atom.H2,
			BlockHeading3: atom.H3,
		}[b.Type]
		if tag == 0 {
			tag = atom.P
		}
		out := []*html.Node{appendAll(element(tag), renderRichText(t.RichText)...)}
		if len(b.Children) > 0 {
			out = append(out, appendAll(element(atom.Div), renderBlocks(b.Children)...))
		}
		return out

	case BlockQuote:
		if b.Quote == nil {
			return nil
		}
		q := element(atom.Blockquote)
		q.AppendChild(appendAll(element(atom.P), renderRichText(b.Quote.RichText)...))
		appendAll(q, renderBlocks(b.Children)...)
		return []*html.Node{q}

	case BlockCallout:
		if b.Callout == nil {
			return nil
		}
		p := element(atom.P)
		if icon := b.Callout.Icon; icon != nil && icon.Emoji != "" {
			p.AppendChild(textNode(icon.Emoji + " "))
		}
		appendAll(p, renderRichText(b.Callout.RichText)...)
		aside := appendAll(element(atom.Aside), p)
		appendAll(aside, renderBlocks(b.Children)...)
		return []*html.Node{aside}

	case BlockCode:
		if b.Code == nil {
			return nil
		}
		return []*html.Node{codeBlock(codeLanguage(b.Code.Language), PlainText(b.Code.RichText))}

	case BlockEquation:
		if b.Equation == nil {
			return nil
		}
		return []*html.Node{codeBlock("math", b.Equation.Expression)}

	case BlockDivider:
		return []*html.Node{element(atom.Hr)}

	case BlockImage:
		src := b.Image.URL()
		if src == "" {
			return nil
		}
		img := element(atom.Img, attr("src", src), attr("alt", PlainText(b.Image.Caption)))
		return []*html.Node{appendAll(element(atom.P), img)}

	case BlockVideo, BlockFile, BlockPDF, BlockAudio:
		f := map[BlockType]*FileObject{
			BlockVideo: b.Video,
			BlockFile:  b.File,
			BlockPDF:   b.PDF,
			BlockAudio: b.Audio,
		}[b.Type]
		href := f.URL()
		if href == "" {
			return nil
		}
		label := PlainText(f.Caption)
		if label == "" {
			label = f.Name
		}
		return []*html.Node{paragraphLink(href, label)}

	case BlockBookmark, BlockEmbed, BlockLinkPreview:
		l := map[BlockType]*LinkBlock{
			BlockBookmark:    b.Bookmark,
			BlockEmbed:       b.Embed,
			BlockLinkPreview: b.LinkPreview,
		}[b.Type]
		if l == nil || l.URL == "" {
			return nil
		}
		return []*html.Node{paragraphLink(l.URL, PlainText(l.Caption))}

	case BlockChildPage:
		if b.ChildPage == nil {
			return nil
		}
		return []*html.Node{paragraphLink(PageURL(b.ID), b.ChildPage.Title)}

	case BlockChildDatabase:
		if b.ChildDatabase == nil {
			return nil
		}
		return []*html.Node{paragraphLink(PageURL(b.ID), b.ChildDatabase.Title)}

	case BlockLinkToPage:
		if b.LinkToPage == nil {
			return nil
		}
		id := b.LinkToPage.PageID
		if id == "" {
			id = b.LinkToPage.DatabaseID
		}
		if id == "" {
			return nil
		}
		return []*html.Node{paragraphLink(PageURL(id), "")}

	case BlockTable:
		return []*html.Node{renderTable(b)}

	case BlockColumnList, BlockColumn, BlockSyncedBlock:
		return []*html.Node{appendAll(element(atom.Div), renderBlocks(b.Children)...)}
	}

	// table_of_contents, breadcrumb, unsupported
	return nil
}

func renderTable(b *Block) *html.Node {
	table := element(atom.Table)
	body := element(atom.Tbody)
	header := b.Table != nil && b.Table.HasColumnHeader

	for i := range b.Children {
		row := b.Children[i].TableRow
		if row == nil {
			continue
		}
		cellTag := atom.Td
		if header && i == 0 {
			cellTag = atom.Th
		}
		tr := element(atom.Tr)
		for _, cell := range row.Cells {
			tr.AppendChild(appendAll(element(cellTag), renderRichText(cell)...))
		}
		if header && i == 0 {
			table.AppendChild(appendAll(element(atom.Thead), tr))
			continue
		}
		body.AppendChild(tr)
	}
	table.AppendChild(body)
	return table
}

func renderRichText(runs []RichText) []*html.Node {
	var out []*html.Node
	for _, r := range runs {
		out = append(out, renderRun(r))
	}
	return out
}

func renderRun(r RichText) *html.Node {
	switch r.Type {
	case "mention":
		if m := r.Mention; m != nil {
			switch {
			case m.Page != nil:
				return link(PageURL(m.Page.ID), textNode(r.PlainText))
			case m.Database != nil:
				return link(PageURL(m.Database.ID), textNode(r.PlainText))
			case m.LinkPreview != nil:
				return link(m.LinkPreview.URL, textNode(r.PlainText))
			}
		}
		return annotate(r.Annotations, textWithBreaks(r.PlainText)...)

	case "equation":
		expr := r.PlainText
		if r.Equation != nil {
			expr = r.Equation.Expression
		}
		return appendAll(element(atom.Code), textNode(expr))
	}

	content := r.PlainText
	if r.Text != nil && r.Text.Content != "" {
		content = r.Text.Content
	}
	n := annotate(r.Annotations, textWithBreaks(content)...)

	href := ""
	if r.Text != nil && r.Text.Link != nil {
		href = r.Text.Link.URL
	} else if r.Href != nil {
		href = *r.Href
	}
	if href != "" {
		return link(href, n)
	}
	return n
}

// annotate wraps nodes in the inline elements matching the run's annotations.  Underline and
// colour have no Markdown form and are dropped.
func annotate(a Annotations, nodes ...*html.Node) *html.Node {
	var n *html.Node
	if len(nodes) == 1 {
		n = nodes[0]
	} else {
		n = appendAll(element(atom.Span), nodes...)
	}
	if a.Code {
		n = appendAll(element(atom.Code), n)
	}
	if a.Strikethrough {
		n = appendAll(element(atom.Del), n)
	}
	if a.Italic {
		n = appendAll(element(atom.Em), n)
	}
	if a.Bold {
		n = appendAll(element(atom.Strong), n)
	}
	return n
}

// textWithBreaks turns soft line breaks inside a run into <br> elements.
func textWithBreaks(s string) []*html.Node {
	lines := strings.Split(s, "\n")
	out := make([]*html.Node, 0, 2*len(lines)-1)
	for i, line := range lines {
		if i > 0 {
			out = append(out, element(atom.Br))
		}
		out = append(out, textNode(line))
	}
	return out
}

func codeLanguage(lang string) string {
	if lang == "plain text" {
		return ""
	}
	return strings.ReplaceAll(lang, " ", "-")
}

func codeBlock(lang, code string) *html.Node {
	c := element(atom.Code)
	if lang != "" {
		c.Attr = append(c.Attr, attr("class", "language-"+lang))
	}
	c.AppendChild(textNode(code))
	return appendAll(element(atom.Pre), c)
}

func paragraphLink(href, label string) *html.Node {
	if label == "" {
		label = href
	}
	return appendAll(element(atom.P), link(href, textNode(label)))
}

func link(href string, children ...*html.Node) *html.Node {
	return appendAll(element(atom.A, attr("href", href)), children...)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func appendAll(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}
