package annotate

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/lb42/annotei/core/errors"
	"github.com/lb42/annotei/core/tei"
	"github.com/lb42/annotei/core/xml"
)

// Converter turns free-text commentary into a TEI markup fragment. The
// result may be a bare sequence of block elements rather than a single
// rooted tree; BuildNote wraps it in a note container.
type Converter interface {
	Convert(text string) (string, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(text string) (string, error)

// Convert calls f(text).
func (f ConverterFunc) Convert(text string) (string, error) {
	return f(text)
}

// BuildNote converts one annotation into a detached TEI note element:
// converted commentary as the body, identifier and external reference
// attributes, normalized tag references, author responsibility, the raw
// commentary as a backup against lossy conversion, and one related-page
// ref per related page, resolved to a target surface id when possible.
//
// The note's @target is not set here; the caller assigns it once the
// highlight placement is known.
func BuildNote(ann *Annotation, f *tei.Facsimile, conv Converter) (*xmlquery.Node, error) {
	body, err := conv.Convert(ann.Text)
	if err != nil {
		return nil, errors.NewConversion(ann.ID.String(), err)
	}

	// The conversion result may be a flat run of paragraphs; wrapping in
	// a note bound to the TEI namespace normalizes it into one tree.
	doc, err := xml.Parse([]byte(fmt.Sprintf("<note xmlns=%q>%s</note>", tei.Namespace, body)))
	if err != nil {
		return nil, errors.NewConversion(ann.ID.String(), err)
	}
	note := doc.SelectElement("note")

	// The prefix keeps ids valid: xml:id must not start with a digit,
	// and annotation uuids can.
	note.SetAttr("xml:id", "annotation-"+ann.ID.String())
	note.SetAttr("type", "annotation")
	note.SetAttr("xlink:href", ann.URI)

	if refs := TagRefs(ann.Tags); len(refs) > 0 {
		note.SetAttr("ana", strings.Join(refs, " "))
	}
	if ann.User != "" {
		note.SetAttr("resp", ann.User)
	}

	// Keep the unconverted commentary as a backup against content lost
	// in markup conversion.
	backup := xml.NewElement("code")
	backup.SetAttr("lang", "markdown")
	xml.SetText(backup, ann.Text)
	xml.AppendChild(note, backup)

	for _, rel := range ann.RelatedPages {
		ref := xml.NewElement("ref")
		ref.SetAttr("type", "related page")
		if id, ok := f.PageIDByLink(rel); ok {
			ref.SetAttr("target", "#"+id)
		}
		xml.SetText(ref, rel)
		xml.AppendChild(note, ref)
	}

	xml.Detach(note)
	return note, nil
}
