package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTML converts markup to readable text. Link targets are kept inline
// next to their anchor text, images are dropped, emphasis markers are
// preserved, and no line wrapping is applied. The result is
// whitespace-normalized like Plain. Empty input yields "".
func HTML(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Plain(markup)
	}

	var sb strings.Builder
	for _, n := range doc.Nodes {
		renderNode(&sb, n)
	}
	return Plain(sb.String())
}

func renderNode(sb *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "img":
			return
		case "br":
			sb.WriteString("\n")
			return
		case "a":
			renderLink(sb, n)
			return
		case "b", "strong":
			sb.WriteString("**")
			renderChildren(sb, n)
			sb.WriteString("**")
			return
		case "i", "em":
			sb.WriteString("*")
			renderChildren(sb, n)
			sb.WriteString("*")
			return
		case "p", "div", "li", "tr", "ul", "ol", "table", "blockquote",
			"h1", "h2", "h3", "h4", "h5", "h6":
			sb.WriteString("\n")
			renderChildren(sb, n)
			sb.WriteString("\n")
			return
		}
	}

	renderChildren(sb, n)
}

func renderChildren(sb *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(sb, c)
	}
}

func renderLink(sb *strings.Builder, n *html.Node) {
	var href string
	for _, a := range n.Attr {
		if a.Key == "href" {
			href = a.Val
			break
		}
	}

	var text strings.Builder
	renderChildren(&text, n)

	sb.WriteString(strings.TrimSpace(text.String()))
	if href != "" {
		sb.WriteString(" <")
		sb.WriteString(href)
		sb.WriteString(">")
	}
}
