package extraction

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	anySpace        = regexp.MustCompile(`[\s\x{00a0}]+`)
	horizontalSpace = regexp.MustCompile(`[ \t\r\f\v\x{00a0}]+`)
	sourceSpace     = regexp.MustCompile(`[ \t\n\r\f]+`)
)

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Details: true, atom.Dialog: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hgroup: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tr: true,
	atom.Ul: true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true,
	atom.Template: true, atom.Head: true,
}

// NormalizeSpace collapses every whitespace run, line breaks included, to a
// single space and trims the result.
func NormalizeSpace(s string) string {
	return strings.TrimSpace(anySpace.ReplaceAllString(s, " "))
}

// NormalizeMultiline collapses whitespace inside each line but keeps line
// breaks. Runs of blank lines become a single blank line.
func NormalizeMultiline(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	lastBlank := true
	for _, line := range lines {
		line = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
		if line == "" {
			if !lastBlank {
				out = append(out, "")
			}
			lastBlank = true
			continue
		}
		out = append(out, line)
		lastBlank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// innerText approximates the browser's rendered text for a selection. Block
// elements start new lines and paragraphs end with a blank line.
func innerText(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	var t textBuffer
	for _, n := range sel.Nodes {
		t.walk(n)
	}
	return string(t.buf)
}

type textBuffer struct {
	buf []byte
}

// breakLines ensures the buffer ends with at least n line breaks. Leading
// breaks are never emitted.
func (t *textBuffer) breakLines(n int) {
	if n == 0 {
		return
	}
	t.buf = bytes.TrimRight(t.buf, " ")
	if len(t.buf) == 0 {
		return
	}
	have := len(t.buf) - len(bytes.TrimRight(t.buf, "\n"))
	for ; have < n; have++ {
		t.buf = append(t.buf, '\n')
	}
}

func (t *textBuffer) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		t.buf = append(t.buf, sourceSpace.ReplaceAllString(n.Data, " ")...)
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			t.buf = append(t.buf, '\n')
			return
		}
		breaks := 0
		switch {
		case n.DataAtom == atom.P:
			breaks = 2
		case blockElements[n.DataAtom]:
			breaks = 1
		}
		t.breakLines(breaks)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.walk(c)
		}
		t.breakLines(breaks)
		if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
			t.buf = append(t.buf, ' ')
		}
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			t.walk(c)
		}
	}
}

// textOf is innerText collapsed to a single line.
func textOf(sel *goquery.Selection) string {
	return NormalizeSpace(innerText(sel))
}

// multilineTextOf is innerText with line structure preserved.
func multilineTextOf(sel *goquery.Selection) string {
	return NormalizeMultiline(innerText(sel))
}
