package annotate

import "strings"

// Default lookup paths substituted by the annotator when a selection
// range omits its start or end path.
const (
	defaultStartPath = "//zone[1]"
	defaultEndPath   = "//zone[last()]"
)

// TranslatePath converts an XPath generated against the authoring
// environment's HTML rendition into the equivalent XPath for the TEI
// facsimile content, so selections made against the HTML can be matched
// to the TEI. Unmapped fragments (positional predicates, attribute
// values) pass through unchanged.
//
// Spans could match either a line in ABBYY OCR output or a word in
// METS/ALTO output, so they translate to a disjunction over both units.
func TranslatePath(path string) string {
	path = strings.ReplaceAll(path, "div", "zone")
	path = strings.ReplaceAll(path, "span", `*[local-name()="line" or local-name()="w"]`)
	return strings.ReplaceAll(path, "@id", "@xml:id")
}
