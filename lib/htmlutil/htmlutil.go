package htmlutil

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// GetText extracts the text content of a node tree, joining text nodes
// with single spaces so that "<b>1.</b><span>Algebra</span>" yields
// "1. Algebra" rather than "1.Algebra".
func GetText(node *html.Node) string {
	var parts []string
	getTextRecursive(node, &parts)
	return strings.Join(parts, " ")
}

func getTextRecursive(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		text := strings.TrimSpace(node.Data)
		if text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, parts)
		child = child.NextSibling
	}
}

// Text is GetText over every node in a selection, with non-printable
// characters removed and inner whitespace collapsed.
func Text(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		text := GetText(n)
		if text != "" {
			parts = append(parts, text)
		}
	}
	text := removeNonPrintable(strings.Join(parts, " "))
	text = strings.Trim(text, " \t\n")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// First returns the first descendant matching the selector, making the
// absence of an expected element an explicit condition for the caller
// to check instead of an empty selection passed along silently.
func First(sel *goquery.Selection, selector string) (*goquery.Selection, bool) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return found, true
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}
