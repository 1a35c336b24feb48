package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/mdoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. ATX and setext
// headings become sections; everything between headings is kept as raw
// source so lists and code survive a round trip.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := doctree.NewBuilder()
	prev := 0

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		heading, ok := n.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}
		lines := heading.Lines()
		start := lineStart(src, lines.At(0).Start)
		end := lineEnd(src, lines.At(lines.Len()-1).Start)
		if !isATX(src[start:]) {
			// Setext: the underline is the following line.
			end = lineEnd(src, min(end+1, len(src)))
		}
		if start > prev {
			b.Text(string(src[prev:start]))
		}
		b.Heading(&doctree.DocNode{Title: string(heading.Text(src)), Level: heading.Level})
		prev = min(end+1, len(src))
	}
	b.Text(string(src[prev:]))

	return b.Tree(trimExt(filename)), nil
}

func lineStart(src []byte, offset int) int {
	return bytes.LastIndexByte(src[:offset], '\n') + 1
}

func lineEnd(src []byte, offset int) int {
	if i := bytes.IndexByte(src[offset:], '\n'); i >= 0 {
		return offset + i
	}
	return len(src)
}

func isATX(line []byte) bool {
	return strings.HasPrefix(strings.TrimLeft(string(line), " "), "#")
}
