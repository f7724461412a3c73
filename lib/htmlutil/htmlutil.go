package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// CollapseWhitespace trims a string and squashes inner whitespace runs to a
// single space, the standard cleanup for scraped text.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// DirectTextNodes returns the text of every direct text-node child of the
// first node in the selection, in document order. Whitespace-only nodes are
// included so positional indexing matches what the page template produces.
func DirectTextNodes(sel *goquery.Selection) []string {
	if len(sel.Nodes) == 0 {
		return nil
	}
	var texts []string
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			texts = append(texts, child.Data)
		}
	}
	return texts
}

// TextUntil concatenates the text of the siblings following start, stopping
// at the first element whose tag is in stopTags. Element siblings contribute
// their full text followed by a space, text siblings contribute verbatim.
func TextUntil(start *html.Node, stopTags ...string) string {
	if start == nil {
		return ""
	}

	stop := make(map[string]bool, len(stopTags))
	for _, tag := range stopTags {
		stop[tag] = true
	}

	var out strings.Builder
	for node := start.NextSibling; node != nil; node = node.NextSibling {
		if node.Type == html.ElementNode && stop[node.Data] {
			break
		}
		switch node.Type {
		case html.TextNode:
			out.WriteString(node.Data)
		case html.ElementNode:
			out.WriteString(GetText(node))
			out.WriteString(" ")
		}
	}
	return strings.TrimSpace(out.String())
}
