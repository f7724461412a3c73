package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const fixture = `<div id="block"><a name="top"></a> <h3>Title</h3> first
<em>emphasis</em> second <strong>Label:</strong> after label <span>span text</span> tail<br>beyond</div>`

func loadFixture(t *testing.T) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixture))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestDirectTextNodes(t *testing.T) {
	doc := loadFixture(t)

	texts := DirectTextNodes(doc.Find("#block"))
	require.Len(t, texts, 6)
	// nodes come back raw, untrimmed: positional indexing depends on it
	require.Equal(t, " ", texts[0])
	require.Equal(t, " first\n", texts[1])
	require.Equal(t, " second ", texts[2])
	require.Equal(t, " after label ", texts[3])

	require.Nil(t, DirectTextNodes(doc.Find("#missing")))
}

func TestTextUntil(t *testing.T) {
	doc := loadFixture(t)

	label := doc.Find("strong").First()
	require.Equal(t, 1, label.Length())

	got := TextUntil(label.Get(0), "br", "strong", "hr")
	require.Equal(t, "after label span text  tail", got)

	require.Equal(t, "", TextUntil(nil, "br"))
}

func TestCollapseWhitespace(t *testing.T) {
	require.Equal(t, "a b c", CollapseWhitespace("  a  b \n\tc "))
	require.Equal(t, "", CollapseWhitespace("   "))
}
