package annotate

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/lb42/annotei/core/tei"
)

// PlaceRegion converts a percentage-based image selection into a highlight
// zone with absolute page coordinates, appends it to the page, and returns
// it. The zone id is derived from the owning annotation's id.
//
// Each percentage is clamped to [0,100] independently before scaling; no
// cross-field reconciliation of x+w or y+h is attempted, so inputs that
// overshoot the page in combination keep their stated extent.
func PlaceRegion(page *tei.Surface, sel *ImageRegion, id string) *xmlquery.Node {
	ulx, uly, lrx, lry := page.Bounds()
	pageWidth := lrx - ulx
	pageHeight := lry - uly

	x := parsePercent(sel.X)
	y := parsePercent(sel.Y)
	w := parsePercent(sel.W)
	h := parsePercent(sel.H)

	zoneUlx := ulx + x*pageWidth
	zoneUly := uly + y*pageHeight
	zone := tei.NewHighlightZone(id, zoneUlx, zoneUly, zoneUlx+w*pageWidth, zoneUly+h*pageHeight)
	page.AppendChild(zone)
	return zone
}

// parsePercent converts a percentage string like "25.5%" into a fraction
// clamped to [0,1]. Malformed values map to 0.
func parsePercent(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "%")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	f /= 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
