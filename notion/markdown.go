package notion

import (
	"context"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// PageMarkdown fetches the content of a page and converts it to GitHub-flavoured Markdown.
func (api *API) PageMarkdown(ctx context.Context, pageID string) (string, error) {
	blocks, err := api.ListAllBlockChildren(ctx, pageID)
	if err != nil {
		return "", fmt.Errorf("notion: couldn't fetch content of %s: %w", pageID, err)
	}

	markdown, err := BlocksToMarkdown(blocks)
	if err != nil {
		return "", fmt.Errorf("notion: couldn't convert %s: %w", pageID, err)
	}
	return markdown, nil
}

// BlocksToMarkdown renders blocks to HTML and converts the result.  An empty tree gives "".
func BlocksToMarkdown(blocks []Block) (string, error) {
	fragment, err := RenderHTML(blocks)
	if err != nil {
		return "", err
	}

	markdown, err := newConverter().ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("notion: failed to convert to Markdown: %w", err)
	}

	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return "", nil
	}
	return markdown + "\n", nil
}

func newConverter() *md.Converter {
	converter := md.NewConverter("", true, &md.Options{CodeBlockStyle: "fenced"})
	// Github flavoured Markdown knows about tables, strikethrough and task lists 👍
	converter.Use(mdplugin.GitHubFlavored())
	converter.AddRules(calloutRule)
	return converter
}

// Callouts are rendered as <aside>; Markdown has no such thing, so quote them.
var calloutRule = md.Rule{
	Filter: []string{"aside"},
	Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
		content = strings.TrimSpace(content)
		if content == "" {
			return md.String("")
		}

		lines := strings.Split(content, "\n")
		for i, line := range lines {
			if line == "" {
				lines[i] = ">"
				continue
			}
			lines[i] = "> " + line
		}
		return md.String("\n\n" + strings.Join(lines, "\n") + "\n\n")
	},
}
