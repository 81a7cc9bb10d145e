package extract

import (
	"fmt"
	stdhtml "html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextExtractor is the HTML-to-text capability the assembler relies on.
// Implementations may fail; the assembler falls back to tag stripping.
type TextExtractor interface {
	Extract(markup string) (string, error)
}

// blockTags is the set of tags that insert a line break around their
// content during text extraction.
var blockTags = map[atom.Atom]bool{
	atom.P:          true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Tr:         true,
	atom.Blockquote: true,
	atom.Hr:         true,
}

// skipTags is the set of tags whose content never appears in book text.
var skipTags = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Head:   true,
}

// GoqueryExtractor extracts body text via a structured HTML parse.
type GoqueryExtractor struct{}

// Extract parses the markup and walks the body, emitting line breaks at
// block-level elements and skipping script/style content.
func (GoqueryExtractor) Extract(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parse markup: %w", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return "", fmt.Errorf("no body element in markup")
	}

	var b strings.Builder
	for _, n := range body.Nodes {
		writeNodeText(&b, n)
	}
	return b.String(), nil
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipTags[n.DataAtom] {
			return
		}
		if blockTags[n.DataAtom] {
			b.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(b, c)
	}
	if n.Type == html.ElementNode && blockTags[n.DataAtom] {
		b.WriteByte('\n')
	}
}

var tagRe = regexp.MustCompile(`(?s)<[^>]*>`)

// StripTags is the last-resort assembler: remove anything tag-shaped and
// decode entities. Used when the structured parse fails or yields nothing.
func StripTags(markup string) string {
	return stdhtml.UnescapeString(tagRe.ReplaceAllString(markup, " "))
}

var (
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	lineEdgeRe     = regexp.MustCompile(`(?m)^[ \t]+|[ \t]+$`)
)

// Normalize applies the final whitespace rules: CRLF to LF, runs of three
// or more newlines collapsed to two, runs of spaces and tabs collapsed to
// one, and leading/trailing whitespace trimmed.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = lineEdgeRe.ReplaceAllString(s, "")
	s = multiNewlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
