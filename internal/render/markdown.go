package render

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/pollev/internal/model"
)

// MarkdownRenderer converts the page produced by HTMLRenderer into Markdown
type MarkdownRenderer struct {
	page *HTMLRenderer
}

// NewMarkdownRenderer creates a renderer backed by the HTML page template
func NewMarkdownRenderer() (*MarkdownRenderer, error) {
	page, err := NewHTMLRenderer()
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	return &MarkdownRenderer{page: page}, nil
}

func (r *MarkdownRenderer) Format() model.Format { return model.FormatMarkdown }

func (r *MarkdownRenderer) Render(ctx context.Context, questions []model.Question, cfg model.RenderConfig) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := r.page.pageHTML(questions, cfg)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}

	md, err := HTMLToMarkdown(page, cfg.HTML.CorrectClass)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: convert: %w", err)
	}

	return single(model.FormatMarkdown, cfg, textType("text/markdown", cfg), []byte(md)), nil
}

// HTMLToMarkdown converts report markup into Markdown. Headings become "#"
// lines, ordered lists become numbered items (lettered when type="a"), and
// list items carrying correctClass are emphasized. Head content is dropped.
func HTMLToMarkdown(page string, correctClass string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", err
	}

	c := &mdConverter{correctClass: correctClass}
	c.walk(doc, 0)
	return strings.TrimSpace(c.b.String()) + "\n", nil
}

type mdConverter struct {
	b            strings.Builder
	correctClass string
}

func (c *mdConverter) walk(n *html.Node, depth int) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "head", "script", "style":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			if text := textOf(n); text != "" {
				level := int(n.Data[1] - '0')
				fmt.Fprintf(&c.b, "%s %s\n\n", strings.Repeat("#", level), escapeMarkdown(text))
			}
			return
		case "ol", "ul":
			c.list(n, depth)
			if depth == 0 {
				c.b.WriteString("\n")
			}
			return
		case "p", "div":
			if depth == 0 && hasOnlyText(n) {
				if text := textOf(n); text != "" {
					c.b.WriteString(escapeMarkdown(text) + "\n\n")
				}
				return
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child, depth)
	}
}

func (c *mdConverter) list(n *html.Node, depth int) {
	ordered := n.Data == "ol"
	lettered := ordered && attr(n, "type") == "a"
	indent := strings.Repeat("    ", depth)

	index := 0
	for item := n.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != html.ElementNode || item.Data != "li" {
			continue
		}

		marker := "-"
		switch {
		case lettered:
			marker = letterMarker(index) + "."
		case ordered:
			marker = fmt.Sprintf("%d.", index+1)
		}
		index++

		text := escapeMarkdown(ownText(item))
		if c.correctClass != "" && hasClass(item, c.correctClass) {
			text = "**" + text + "**"
		}
		fmt.Fprintf(&c.b, "%s%s %s\n", indent, marker, text)

		for child := item.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.Data == "ol" || child.Data == "ul") {
				c.list(child, depth+1)
			}
		}
		if depth == 0 {
			c.b.WriteString("\n")
		}
	}
}

// textOf returns the whitespace-collapsed text of n and its descendants
func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// ownText returns the text of a list item, excluding nested lists
func ownText(n *html.Node) string {
	var parts []string
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && (child.Data == "ol" || child.Data == "ul") {
			continue
		}
		if t := textOf(child); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func hasOnlyText(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode {
			switch child.Data {
			case "b", "i", "em", "strong", "sub", "sup", "code", "br", "span":
			default:
				return false
			}
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// letterMarker returns a, b, ... z, aa, ab, ...
func letterMarker(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return letterMarker(i/26-1) + string(rune('a'+i%26))
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`")

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
