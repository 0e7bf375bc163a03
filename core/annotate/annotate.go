package annotate

import (
	"fmt"
	"sort"
	"time"

	"github.com/lb42/annotei/core/errors"
	"github.com/lb42/annotei/core/tei"
	"github.com/lb42/annotei/internal/logging"
)

const toolName = "annotei"

// Subtitle and responsibility phrases stamped onto every annotated edition.
const (
	editionSubtitle       = ", an annotated digital edition"
	editionResponsibility = "annotated by"
)

// Annotator drives one annotated export: header rewrite, per-page
// highlight placement, note generation, and tag vocabulary aggregation.
type Annotator struct {
	// Convert is the markup-conversion collaborator for commentary text.
	Convert Converter
	// Version is recorded in the publication statement.
	Version string
	// Now supplies the export timestamp; overridable for tests.
	Now func() time.Time
}

// New creates an Annotator using the given commentary converter.
func New(conv Converter) *Annotator {
	return &Annotator{
		Convert: conv,
		Version: "dev",
		Now:     time.Now,
	}
}

// Report summarizes one export: how many annotations were placed as notes
// and which were skipped.
type Report struct {
	Placed     int
	Skipped    int
	SkippedIDs []string
}

func (r *Report) skip(ann *Annotation) {
	r.Skipped++
	r.SkippedIDs = append(r.SkippedIDs, ann.ID.String())
}

// Annotate embeds the annotation collection into the facsimile document.
// Individual placement failures (unresolvable paths, conversion errors)
// are logged and skipped; the export always completes and leaves the
// document ready for serialization.
func (a *Annotator) Annotate(f *tei.Facsimile, anns []*Annotation) (*Report, error) {
	if f == nil {
		return nil, errors.NewValidation("facsimile", "document must not be nil")
	}
	if a.Convert == nil {
		return nil, errors.NewValidation("converter", "commentary converter must not be nil")
	}

	a.rewriteHeader(f, anns)

	report := &Report{}
	tags := NewTagRegistry()
	index := indexByPage(anns)

	for _, page := range f.Pages() {
		// a surface without a reference key cannot match anything
		if page.Href() == "" {
			continue
		}
		for _, ann := range index.match(page.Href()) {
			a.place(f, page, ann, tags, report)
		}
	}

	if tags.Len() > 0 {
		tags.Flush(f)
	}

	logging.ExportSummary(report.Placed, report.Skipped)
	return report, nil
}

// rewriteHeader updates the document metadata for the annotated edition:
// the existing plain title becomes the main title, a fixed subtitle and
// responsibility phrase are set, and every distinct user in the input
// collection is recorded as a responsible party. Users are added even
// when none of their annotations end up placed; the responsibility list
// is an audit of the input collection.
func (a *Annotator) rewriteHeader(f *tei.Facsimile, anns []*Annotation) {
	if title := f.Title(); title != "" {
		f.SetMainTitle(title)
	}
	f.RemovePlainTitle()
	f.SetSubtitle(editionSubtitle)
	f.SetResponsibility(editionResponsibility)

	names := make(map[string]string)
	for _, ann := range anns {
		if ann.User == "" {
			continue
		}
		if _, ok := names[ann.User]; !ok {
			names[ann.User] = ann.DisplayName()
		}
	}
	handles := make([]string, 0, len(names))
	for handle := range names {
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	for _, handle := range handles {
		f.AddResponsibleName(handle, names[handle])
	}

	pub := f.EnsurePublicationStmt()
	pub.SetDescription(fmt.Sprintf("Annotated TEI generated by %s version %s", toolName, a.Version))
	pub.SetDate(a.Now())
}

// place embeds one annotation into one page: note first (so a conversion
// failure leaves the document untouched), then the highlight markers,
// then the target reference binding them together.
func (a *Annotator) place(f *tei.Facsimile, page *tei.Surface, ann *Annotation, tags *TagRegistry, report *Report) {
	note, err := BuildNote(ann, f, a.Convert)
	if err != nil {
		logging.AnnotationSkipped(ann.ID.String(), "commentary conversion failed", "error", err.Error())
		report.skip(ann)
		return
	}

	var target string
	switch ann.Kind() {
	case TextSelection:
		target, err = a.placeSelection(page, ann)
		if err != nil {
			logging.AnnotationSkipped(ann.ID.String(), "selection path not found", "error", err.Error())
			report.skip(ann)
			return
		}
	case ImageSelection:
		zoneID := "highlight-" + ann.ID.String()
		PlaceRegion(page, ann.Image, zoneID)
		target = "#" + zoneID
	default:
		// no selection: a page-level comment, targeting the page itself
		// when it carries an id
		if id := page.ID(); id != "" {
			target = "#" + id
		}
	}

	if target != "" {
		note.SetAttr("target", target)
	}
	f.AppendNote(note)
	tags.Add(ann.Tags...)
	report.Placed++
}

// placeSelection resolves the selection paths, splices the anchor pair,
// and returns the range target reference. The annotator only supports a
// single range per annotation; additional ranges are ignored.
func (a *Annotator) placeSelection(page *tei.Surface, ann *Annotation) (string, error) {
	rng := ann.Ranges[0]

	// either path may be absent: default to the first or last structural
	// zone of the page
	startPath := TranslatePath(rng.Start)
	if startPath == "" {
		startPath = defaultStartPath
	}
	endPath := TranslatePath(rng.End)
	if endPath == "" {
		endPath = defaultEndPath
	}

	start, err := page.Query(startPath)
	if err != nil || start == nil {
		return "", &errors.LookupError{Path: startPath, AnnotationID: ann.ID.String(), Err: err}
	}
	end, err := page.Query(endPath)
	if err != nil || end == nil {
		return "", &errors.LookupError{Path: endPath, AnnotationID: ann.ID.String(), Err: err}
	}

	startID := "highlight-start-" + ann.ID.String()
	endID := "highlight-end-" + ann.ID.String()
	startAnchor := tei.NewAnchor(startID, tei.AnchorStartType, endID)
	endAnchor := tei.NewAnchor(endID, tei.AnchorEndType, "")

	// insert the end anchor first: when start and end share a node the
	// start offset stays valid against the unsplit text
	InsertAnchor(end, endAnchor, rng.EndOffset)
	InsertAnchor(start, startAnchor, rng.StartOffset)

	return fmt.Sprintf("#range(#%s, #%s)", startID, endID), nil
}

// pageIndex pre-indexes annotations by page key so the per-page loop does
// not rescan the whole collection (the reference behavior is a linear
// scan per page; the index keeps results identical).
type pageIndex struct {
	direct map[string][]*Annotation
	aux    map[string][]*Annotation
}

func indexByPage(anns []*Annotation) *pageIndex {
	ix := &pageIndex{
		direct: make(map[string][]*Annotation),
		aux:    make(map[string][]*Annotation),
	}
	for _, ann := range anns {
		if ann.URI != "" {
			ix.direct[ann.URI] = append(ix.direct[ann.URI], ann)
		}
		// auxiliary matches require the stored key to equal the page key
		// exactly, guarding against substring hits across related pages
		if ark := ann.Ark(); ark != "" && ark != ann.URI {
			ix.aux[ark] = append(ix.aux[ark], ann)
		}
	}
	return ix
}

// match returns the annotations for one page key in a stable order
// (ascending annotation id), deduplicated across direct and auxiliary
// matches.
func (ix *pageIndex) match(key string) []*Annotation {
	var matched []*Annotation
	seen := make(map[string]struct{})
	for _, ann := range append(append([]*Annotation{}, ix.direct[key]...), ix.aux[key]...) {
		id := ann.ID.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		matched = append(matched, ann)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID.String() < matched[j].ID.String()
	})
	return matched
}
