package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestTextJoinsNodes(t *testing.T) {
	doc := mustDoc(t, `<td><b>1.</b><span>Algebra</span></td>`)
	require.Equal(t, "1. Algebra", Text(doc.Find("td")))
}

func TestTextCollapsesWhitespace(t *testing.T) {
	doc := mustDoc(t, "<p>  Русский \n\t  язык  </p>")
	require.Equal(t, "Русский язык", Text(doc.Find("p")))
}

func TestTextEmptySelection(t *testing.T) {
	doc := mustDoc(t, `<div></div>`)
	require.Equal(t, "", Text(doc.Find("span")))
	require.Equal(t, "", Text(doc.Find("div")))
}

func TestFirst(t *testing.T) {
	doc := mustDoc(t, `<div><a href="/one">one</a><a href="/two">two</a></div>`)

	link, ok := First(doc.Selection, "a")
	require.True(t, ok)
	require.Equal(t, "/one", link.AttrOr("href", ""))

	_, ok = First(doc.Selection, "table")
	require.False(t, ok)
}
