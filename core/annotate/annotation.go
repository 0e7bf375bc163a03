// Package annotate embeds user annotations into a TEI facsimile document:
// text highlights become paired zero-width anchors, image highlights become
// absolute-coordinate zones, commentary becomes out-of-line notes, and the
// distinct tags seen across all annotations become a controlled vocabulary.
package annotate

import (
	"github.com/google/uuid"
)

// Kind classifies what an annotation selects, resolved once from the
// loosely-typed selection fields instead of inspected ad hoc.
type Kind int

const (
	// Untyped annotations carry commentary but no selection; they are
	// placed as page-level notes.
	Untyped Kind = iota
	// TextSelection annotations reference a text span via start/end
	// paths and character offsets.
	TextSelection
	// ImageSelection annotations reference a rectangular region of the
	// page image via percentages.
	ImageSelection
)

// SelectionRange is a text-span reference in the authoring environment's
// addressing scheme. Either path may be empty, meaning start-of-page or
// end-of-page respectively.
type SelectionRange struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
}

// ImageRegion is a rectangular selection relative to the page image,
// stored as percentage strings (e.g. "25.5%").
type ImageRegion struct {
	X string `json:"x"`
	Y string `json:"y"`
	W string `json:"w"`
	H string `json:"h"`
}

// Annotation is one user annotation record, read-only input to the export.
type Annotation struct {
	ID           uuid.UUID         `json:"id"`
	User         string            `json:"user,omitempty"`
	UserName     string            `json:"user_name,omitempty"`
	Text         string            `json:"text"`
	URI          string            `json:"uri"`
	Ranges       []SelectionRange  `json:"ranges,omitempty"`
	Image        *ImageRegion      `json:"image_selection,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	RelatedPages []string          `json:"related_pages,omitempty"`
	Extra        map[string]string `json:"extra_data,omitempty"`
}

// Kind reports what the annotation selects. A selection range wins over an
// image region when a record carries both.
func (a *Annotation) Kind() Kind {
	switch {
	case len(a.Ranges) > 0:
		return TextSelection
	case a.Image != nil:
		return ImageSelection
	default:
		return Untyped
	}
}

// DisplayName returns the annotation author's human-readable name,
// falling back to the stable handle.
func (a *Annotation) DisplayName() string {
	if a.UserName != "" {
		return a.UserName
	}
	return a.User
}

// Ark returns the auxiliary location key, used to cross-check page
// matches against coincidental URI hits.
func (a *Annotation) Ark() string {
	return a.Extra["ark"]
}
