package annotate

import (
	"github.com/antchfx/xmlquery"

	"github.com/lb42/annotei/core/xml"
)

// InsertAnchor splices a zero-width anchor into an element at a character
// offset into the element's direct text. Offset zero places the anchor
// immediately before the element; an offset at or past the end of the text
// places it immediately after. Any other offset splits the text so that
// content after the offset follows the anchor in document order. The
// visible text of the subtree is preserved exactly.
//
// Offsets are counted in runes, matching the character offsets the
// authoring environment records.
//
// When the start and end anchors of one selection resolve to the same
// element, the end anchor must be inserted first: inserting at the end
// offset leaves the start offset valid against the original, unsplit
// text, while the reverse order would shift content into a new node and
// invalidate the end offset.
func InsertAnchor(target, anchor *xmlquery.Node, offset int) {
	text := []rune(xml.Text(target))
	switch {
	case offset <= 0:
		xml.InsertBefore(target, anchor)
	case offset >= len(text):
		xml.InsertAfter(target, anchor)
	default:
		head := target.FirstChild
		head.Data = string(text[:offset])
		xml.InsertAfter(head, anchor)
		xml.InsertAfter(anchor, xml.NewText(string(text[offset:])))
	}
}
