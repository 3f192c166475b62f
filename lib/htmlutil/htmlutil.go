package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

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

// CleanText strips non-printable runes, trims surrounding whitespace
// and collapses internal runs of whitespace to a single space. Portal
// markup is full of &nbsp; padding and stray control characters.
func CleanText(s string) string {
	var printable strings.Builder
	for _, c := range s {
		if unicode.IsPrint(c) {
			printable.WriteRune(c)
		}
	}
	s = strings.Trim(printable.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// AfterColon returns the trimmed text after the first colon in a
// "Label : value" row, or "" when there is no colon.
func AfterColon(s string) string {
	i := strings.Index(s, ":")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i+1:])
}
