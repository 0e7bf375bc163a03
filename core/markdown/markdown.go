// Package markdown converts annotation commentary from Markdown into a
// TEI markup fragment. The mapping targets TEI's transcription elements
// rather than HTML: paragraphs become p, emphasis becomes hi with a
// rendition, links become ref, code blocks become ab/code.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/lb42/annotei/core/encoding"
)

// Converter renders Markdown commentary as TEI elements. The zero value
// is not usable; construct with NewConverter.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a Converter with GitHub-flavored extensions
// enabled (tables, strikethrough, autolinks).
func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Convert parses the commentary and renders it as a sequence of TEI
// block elements. Raw HTML embedded in the commentary is dropped rather
// than passed through.
func (c *Converter) Convert(input string) (string, error) {
	source := []byte(input)
	doc := c.md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return render(&sb, source, n, entering)
	})
	if err != nil {
		return "", fmt.Errorf("rendering commentary: %w", err)
	}
	return sb.String(), nil
}

func render(sb *strings.Builder, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.Document:
		// children only

	case *ast.Paragraph:
		tag(sb, entering, "<p>", "</p>")
	case *ast.TextBlock:
		// the bare content of tight list items, no wrapper
	case *ast.Heading:
		tag(sb, entering, fmt.Sprintf(`<head type="level%d">`, n.Level), "</head>")
	case *ast.Blockquote:
		tag(sb, entering, "<quote>", "</quote>")
	case *ast.ThematicBreak:
		if entering {
			sb.WriteString(`<milestone rend="horizontal-rule"/>`)
		}
		return ast.WalkSkipChildren, nil

	case *ast.List:
		rend := "bulleted"
		if n.IsOrdered() {
			rend = "numbered"
		}
		tag(sb, entering, fmt.Sprintf(`<list rend="%s">`, rend), "</list>")
	case *ast.ListItem:
		tag(sb, entering, "<item>", "</item>")

	case *ast.FencedCodeBlock:
		if entering {
			sb.WriteString(`<ab type="code"><code`)
			if lang := n.Language(source); lang != nil {
				sb.WriteString(` lang="` + encoding.EscapeXMLAttr(string(lang)) + `"`)
			}
			sb.WriteString(">")
			writeLines(sb, source, n)
			sb.WriteString("</code></ab>")
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			sb.WriteString(`<ab type="code"><code>`)
			writeLines(sb, source, n)
			sb.WriteString("</code></ab>")
		}
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		rend := "italic"
		if n.Level >= 2 {
			rend = "bold"
		}
		tag(sb, entering, fmt.Sprintf(`<hi rend="%s">`, rend), "</hi>")
	case *extast.Strikethrough:
		tag(sb, entering, `<hi rend="strikethrough">`, "</hi>")
	case *ast.CodeSpan:
		tag(sb, entering, "<code>", "</code>")

	case *ast.Link:
		if entering {
			sb.WriteString(`<ref target="` + encoding.EscapeXMLAttr(string(n.Destination)) + `">`)
		} else {
			sb.WriteString("</ref>")
		}
	case *ast.AutoLink:
		if entering {
			url := string(n.URL(source))
			sb.WriteString(`<ref target="` + encoding.EscapeXMLAttr(url) + `">`)
			sb.WriteString(encoding.EscapeXMLText(url))
			sb.WriteString("</ref>")
		}
		return ast.WalkSkipChildren, nil
	case *ast.Image:
		if entering {
			sb.WriteString(`<graphic url="` + encoding.EscapeXMLAttr(string(n.Destination)) + `"/>`)
		}
		return ast.WalkSkipChildren, nil

	case *extast.Table:
		tag(sb, entering, "<table>", "</table>")
	case *extast.TableHeader:
		tag(sb, entering, `<row role="label">`, "</row>")
	case *extast.TableRow:
		tag(sb, entering, "<row>", "</row>")
	case *extast.TableCell:
		tag(sb, entering, "<cell>", "</cell>")

	case *ast.Text:
		if entering {
			sb.WriteString(encoding.EscapeXMLText(string(n.Segment.Value(source))))
			if n.HardLineBreak() {
				sb.WriteString("<lb/>")
			} else if n.SoftLineBreak() {
				sb.WriteString("\n")
			}
		}
	case *ast.String:
		if entering {
			sb.WriteString(encoding.EscapeXMLText(string(n.Value)))
		}

	case *ast.RawHTML, *ast.HTMLBlock:
		// raw HTML is not TEI; drop it
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func tag(sb *strings.Builder, entering bool, open, closing string) {
	if entering {
		sb.WriteString(open)
	} else {
		sb.WriteString(closing)
	}
}

func writeLines(sb *strings.Builder, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.WriteString(encoding.EscapeXMLText(string(seg.Value(source))))
	}
}
