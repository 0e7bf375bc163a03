package tei

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/lb42/annotei/core/xml"
)

// Highlight marker types used on anchors and image zones.
const (
	AnchorStartType    = "text-annotation-highlight-start"
	AnchorEndType      = "text-annotation-highlight-end"
	ImageHighlightType = "image-annotation-highlight"
)

// NewAnchor builds a zero-width anchor marker. Start anchors carry next,
// the id of their paired end anchor; end anchors pass "".
func NewAnchor(id, typ, next string) *xmlquery.Node {
	a := xml.NewElement("anchor")
	a.SetAttr("xml:id", id)
	a.SetAttr("type", typ)
	if next != "" {
		a.SetAttr("next", next)
	}
	return a
}

// NewHighlightZone builds an image-highlight zone with absolute bounds in
// the owning page's coordinate space.
func NewHighlightZone(id string, ulx, uly, lrx, lry float64) *xmlquery.Node {
	z := xml.NewElement("zone")
	z.SetAttr("type", ImageHighlightType)
	z.SetAttr("xml:id", id)
	z.SetAttr("ulx", formatCoord(ulx))
	z.SetAttr("uly", formatCoord(uly))
	z.SetAttr("lrx", formatCoord(lrx))
	z.SetAttr("lry", formatCoord(lry))
	return z
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func childWithType(parent *xmlquery.Node, name, typ string) *xmlquery.Node {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == name && c.SelectAttr("type") == typ {
			return c
		}
	}
	return nil
}

// annotationDiv returns the body division holding annotation notes,
// creating it on first use.
func (f *Facsimile) annotationDiv() *xmlquery.Node {
	body := xml.EnsureChild(xml.EnsureChild(f.root, "text"), "body")
	if div := childWithType(body, "div", "annotations"); div != nil {
		return div
	}
	div := xml.NewElement("div")
	div.SetAttr("type", "annotations")
	xml.AppendChild(body, div)
	return div
}

// AppendNote appends a note to the document's annotation container. The
// note is detached from any tree it is in first.
func (f *Facsimile) AppendNote(note *xmlquery.Node) {
	xml.Detach(note)
	xml.AppendChild(f.annotationDiv(), note)
}

// Notes returns the notes in the annotation container, in insertion order.
func (f *Facsimile) Notes() []*xmlquery.Node {
	nodes, err := xml.QueryAll(f.root, `//text/body/div[@type="annotations"]/note`)
	if err != nil {
		return nil
	}
	return nodes
}

// tagGroup returns the back-matter interpGrp for annotation tags,
// creating it on first use.
func (f *Facsimile) tagGroup() *xmlquery.Node {
	back := xml.EnsureChild(xml.EnsureChild(f.root, "text"), "back")
	if grp := childWithType(back, "interpGrp", "tags"); grp != nil {
		return grp
	}
	grp := xml.NewElement("interpGrp")
	grp.SetAttr("type", "tags")
	xml.AppendChild(back, grp)
	return grp
}

// AddTag appends one controlled-vocabulary entry: an interp carrying the
// normalized id and the display label.
func (f *Facsimile) AddTag(id, label string) {
	interp := xml.NewElement("interp")
	interp.SetAttr("xml:id", id)
	xml.SetText(interp, label)
	xml.AppendChild(f.tagGroup(), interp)
}

// Tags returns the vocabulary entries as id/label pairs. It returns nil
// when no tag group was ever created.
func (f *Facsimile) Tags() map[string]string {
	grp := xml.Child(xml.Child(f.root, "text"), "back")
	if grp == nil {
		return nil
	}
	grp = childWithType(grp, "interpGrp", "tags")
	if grp == nil {
		return nil
	}
	tags := make(map[string]string)
	for c := grp.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "interp" {
			tags[c.SelectAttr("xml:id")] = c.InnerText()
		}
	}
	return tags
}
