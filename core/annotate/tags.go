package annotate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/lb42/annotei/core/tei"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s_-]`)
	slugCollapse = regexp.MustCompile(`[\s_-]+`)
)

// Slugify derives the normalized vocabulary identifier for a tag label:
// lowercased, punctuation stripped, runs of whitespace, underscores and
// hyphens collapsed to single hyphens. The result is idempotent, so two
// labels differing only in case, punctuation or spacing share one id.
func Slugify(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// TagRefs formats a tag list as vocabulary reference tokens: one "#slug"
// per distinct normalized tag, sorted for deterministic output.
func TagRefs(labels []string) []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, label := range labels {
		slug := Slugify(label)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		refs = append(refs, "#"+slug)
	}
	sort.Strings(refs)
	return refs
}

// TagRegistry accumulates the distinct set of tags seen across all
// processed annotations. Labels colliding after normalization collapse to
// one entry; the first label seen in the stable processing order wins.
type TagRegistry struct {
	labels map[string]string
	order  []string
}

// NewTagRegistry creates an empty registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{labels: make(map[string]string)}
}

// Add records tag labels. Labels normalizing to the empty slug are ignored.
func (r *TagRegistry) Add(labels ...string) {
	for _, label := range labels {
		label = strings.TrimSpace(label)
		slug := Slugify(label)
		if slug == "" {
			continue
		}
		if _, ok := r.labels[slug]; ok {
			continue
		}
		r.labels[slug] = label
		r.order = append(r.order, slug)
	}
}

// Len reports the number of distinct normalized tags recorded.
func (r *TagRegistry) Len() int {
	return len(r.order)
}

// Flush emits the controlled-vocabulary block: one entry per distinct
// normalized tag, in first-seen order, each carrying its display label.
func (r *TagRegistry) Flush(f *tei.Facsimile) {
	for _, slug := range r.order {
		f.AddTag(slug, r.labels[slug])
	}
}
