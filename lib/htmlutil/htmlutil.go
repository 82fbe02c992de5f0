package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

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

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// MetaContent returns the trimmed content attribute of the first
// <meta property="..."> tag matching the given property, or "" if
// there is no such tag or its content is empty.
func MetaContent(doc *goquery.Document, property string) string {
	content := ""
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("property", "") != property {
			return true
		}
		content = strings.TrimSpace(s.AttrOr("content", ""))
		return false
	})
	return content
}

// NodeText returns the visible text of a selection with non-printable
// characters stripped and surrounding whitespace trimmed.
func NodeText(sel *goquery.Selection) string {
	text := removeNonPrintable(sel.Text())
	return strings.Trim(text, " \t\n")
}

// JoinedText returns the selection's text with each text node
// separated by a single space, so words in adjacent inline elements
// like <span>Add to</span><span>Cart</span> do not run together.
func JoinedText(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectTextParts(node, &parts)
	}
	return strings.Join(parts, " ")
}

func collectTextParts(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		if t := strings.TrimSpace(node.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectTextParts(child, parts)
	}
}

// HasClassToken reports whether the node's class attribute, split on
// whitespace, contains the exact token.
func HasClassToken(sel *goquery.Selection, token string) bool {
	for _, t := range strings.Fields(sel.AttrOr("class", "")) {
		if t == token {
			return true
		}
	}
	return false
}
