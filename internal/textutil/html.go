package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML extracts visible text from markup, skipping script/style
// content. Source records sometimes arrive with raw HTML instead of
// extracted text when the upstream scraper's text extraction failed.
func StripHTML(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		// Parse failures leave the content as-is; the citation stage
		// still operates on whatever text is there.
		return content
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

// LooksLikeHTML is a cheap heuristic for deciding whether a source's
// raw_text still carries markup
func LooksLikeHTML(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "<html") ||
		strings.Contains(lower, "<body") ||
		strings.Contains(lower, "<div") ||
		strings.Contains(lower, "<p>")
}

// Truncate cuts text to at most max characters, appending an ellipsis
// when something was cut
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	if max <= 3 {
		return text[:max]
	}
	return text[:max-3] + "..."
}
