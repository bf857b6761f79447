package fetch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// skippedElements are subtrees that never contribute prospect prose
var skippedElements = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"nav":      true,
	"footer":   true,
	"header":   true,
}

// ExtractPage parses HTML into the pieces the researcher needs: the
// page title, the meta description, and the visible text collapsed to
// single spaces and capped at maxChars (0 means uncapped).
func ExtractPage(htmlContent string, maxChars int) (title, description, text string, err error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", "", "", err
	}

	title = strings.TrimSpace(findTitle(doc))
	description = strings.TrimSpace(findMetaDescription(doc))

	var buf strings.Builder
	visibleText(doc, &buf)
	text = strings.Join(strings.Fields(buf.String()), " ")
	text = capRunes(text, maxChars)

	return title, description, text, nil
}

func visibleText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.ElementNode && skippedElements[n.Data] {
		return
	}
	if n.Type == html.TextNode {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			buf.WriteString(trimmed)
			buf.WriteString(" ")
		}
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		visibleText(child, buf)
	}
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		var buf strings.Builder
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				buf.WriteString(child.Data)
			}
		}
		return buf.String()
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if title := findTitle(child); title != "" {
			return title
		}
	}
	return ""
}

func findMetaDescription(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		var name, content string
		for _, attr := range n.Attr {
			switch strings.ToLower(attr.Key) {
			case "name":
				name = strings.ToLower(attr.Val)
			case "content":
				content = attr.Val
			}
		}
		if name == "description" {
			return content
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if desc := findMetaDescription(child); desc != "" {
			return desc
		}
	}
	return ""
}

// capRunes truncates at maxChars bytes without splitting a rune
func capRunes(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
