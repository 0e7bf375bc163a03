// Package tei models TEI facsimile documents: page surfaces with geometric
// zones and transcribed content, plus the header metadata and body
// containers an annotated edition needs.
//
// The model is a thin layer over the parsed xmlquery tree; accessors locate
// nodes on demand and mutations edit the tree in place, so serializing the
// document after an export preserves everything the source carried.
package tei

import (
	"fmt"
	"strconv"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/lb42/annotei/core/xml"
)

const (
	// Namespace is the TEI default namespace.
	Namespace = "http://www.tei-c.org/ns/1.0"
	// XLinkNamespace is used for external reference attributes on
	// surfaces and notes.
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

// Facsimile is a TEI document with a facsimile section of page surfaces.
type Facsimile struct {
	doc  *xmlquery.Node // document node, kept for serialization
	root *xmlquery.Node // the TEI element
}

// Load parses a TEI facsimile document.
func Load(data []byte) (*Facsimile, error) {
	doc, err := xml.Parse(data)
	if err != nil {
		return nil, err
	}
	root := doc.SelectElement("TEI")
	if root == nil {
		return nil, fmt.Errorf("not a TEI document: no TEI root element")
	}
	return &Facsimile{doc: doc, root: root}, nil
}

// Root returns the TEI root element.
func (f *Facsimile) Root() *xmlquery.Node {
	return f.root
}

// Bytes serializes the document.
func (f *Facsimile) Bytes() []byte {
	return xml.Serialize(f.doc)
}

func (f *Facsimile) titleStmt() *xmlquery.Node {
	header := xml.EnsureChild(f.root, "teiHeader")
	fileDesc := xml.EnsureChild(header, "fileDesc")
	return xml.EnsureChild(fileDesc, "titleStmt")
}

// Title returns the text of the first unqualified title, or "" when the
// document only carries typed titles.
func (f *Facsimile) Title() string {
	for c := f.titleStmt().FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "title" && c.SelectAttr("type") == "" {
			return c.InnerText()
		}
	}
	return ""
}

func (f *Facsimile) typedTitle(typ string) *xmlquery.Node {
	stmt := f.titleStmt()
	for c := stmt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "title" && c.SelectAttr("type") == typ {
			return c
		}
	}
	el := xml.NewElement("title")
	el.SetAttr("type", typ)
	xml.AppendChild(stmt, el)
	return el
}

// SetMainTitle sets the main title of the annotated edition.
func (f *Facsimile) SetMainTitle(s string) {
	xml.SetText(f.typedTitle("main"), s)
}

// SetSubtitle sets the subtitle of the annotated edition.
func (f *Facsimile) SetSubtitle(s string) {
	xml.SetText(f.typedTitle("sub"), s)
}

// RemovePlainTitle deletes any unqualified title elements, leaving only
// the typed main/sub titles.
func (f *Facsimile) RemovePlainTitle() {
	stmt := f.titleStmt()
	for c := stmt.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == xmlquery.ElementNode && c.Data == "title" && c.SelectAttr("type") == "" {
			xml.Detach(c)
		}
		c = next
	}
}

// SetResponsibility sets the respStmt resp phrase (e.g. "annotated by").
func (f *Facsimile) SetResponsibility(s string) {
	resp := xml.EnsureChild(xml.EnsureChild(f.titleStmt(), "respStmt"), "resp")
	xml.SetText(resp, s)
}

// AddResponsibleName appends one responsible-party name to the respStmt.
// The id is the user's stable handle, display the human-readable name.
func (f *Facsimile) AddResponsibleName(id, display string) {
	stmt := xml.EnsureChild(f.titleStmt(), "respStmt")
	name := xml.NewElement("name")
	name.SetAttr("xml:id", id)
	xml.SetText(name, display)
	xml.AppendChild(stmt, name)
}

// ResponsibleNames returns the ids of the respStmt name entries.
func (f *Facsimile) ResponsibleNames() []string {
	stmt := xml.Child(xml.Child(xml.Child(f.root, "teiHeader"), "fileDesc"), "titleStmt")
	stmt = xml.Child(stmt, "respStmt")
	if stmt == nil {
		return nil
	}
	var ids []string
	for c := stmt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && c.Data == "name" {
			ids = append(ids, c.SelectAttr("xml:id"))
		}
	}
	return ids
}

// PublicationStmt wraps the header publication descriptor.
type PublicationStmt struct {
	node *xmlquery.Node
}

// EnsurePublicationStmt returns the publicationStmt, creating it when the
// source document carries none.
func (f *Facsimile) EnsurePublicationStmt() *PublicationStmt {
	header := xml.EnsureChild(f.root, "teiHeader")
	fileDesc := xml.EnsureChild(header, "fileDesc")
	return &PublicationStmt{node: xml.EnsureChild(fileDesc, "publicationStmt")}
}

// SetDescription sets the publication description paragraph.
func (p *PublicationStmt) SetDescription(s string) {
	xml.SetText(xml.EnsureChild(p.node, "p"), s)
}

// Description returns the publication description paragraph.
func (p *PublicationStmt) Description() string {
	if el := xml.Child(p.node, "p"); el != nil {
		return el.InnerText()
	}
	return ""
}

// SetDate records the export instant as both a display form and a
// normalized sortable @when value.
func (p *PublicationStmt) SetDate(t time.Time) {
	date := xml.EnsureChild(p.node, "date")
	date.SetAttr("when", t.Format(time.RFC3339))
	xml.SetText(date, t.Format("2 January 2006"))
}

// Surface is one facsimile page: an external reference key, geometric
// bounds, and a content subtree of zones addressable by XPath.
type Surface struct {
	node *xmlquery.Node
}

// Pages returns the facsimile surfaces in document order.
func (f *Facsimile) Pages() []*Surface {
	nodes, err := xml.QueryAll(f.root, "//facsimile/surface")
	if err != nil {
		return nil
	}
	pages := make([]*Surface, len(nodes))
	for i, n := range nodes {
		pages[i] = &Surface{node: n}
	}
	return pages
}

// Node returns the underlying surface element.
func (s *Surface) Node() *xmlquery.Node {
	return s.node
}

// ID returns the surface xml:id.
func (s *Surface) ID() string {
	return s.node.SelectAttr("xml:id")
}

// Href returns the surface's external reference key.
func (s *Surface) Href() string {
	return s.node.SelectAttr("xlink:href")
}

func (s *Surface) coord(name string) float64 {
	v, err := strconv.ParseFloat(s.node.SelectAttr(name), 64)
	if err != nil {
		return 0
	}
	return v
}

// Bounds returns the surface's upper-left and lower-right coordinates.
func (s *Surface) Bounds() (ulx, uly, lrx, lry float64) {
	return s.coord("ulx"), s.coord("uly"), s.coord("lrx"), s.coord("lry")
}

// Query resolves an XPath expression against the surface subtree and
// returns the first match, or nil when nothing matches.
func (s *Surface) Query(expr string) (*xmlquery.Node, error) {
	return xml.Query(s.node, expr)
}

// AppendChild appends a node to the surface content subtree.
func (s *Surface) AppendChild(n *xmlquery.Node) {
	xml.AppendChild(s.node, n)
}

// PageIDByLink finds the xml:id of the surface whose external reference
// key equals uri.
func (f *Facsimile) PageIDByLink(uri string) (string, bool) {
	for _, page := range f.Pages() {
		if page.Href() == uri && page.ID() != "" {
			return page.ID(), true
		}
	}
	return "", false
}
