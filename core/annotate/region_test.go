package annotate

import "testing"

func TestPlaceRegionScalesIntoPageSpace(t *testing.T) {
	f := loadDoc(t)
	page := pageByID(t, f, "page-2") // origin (100, 50), 1000x1500

	zone := PlaceRegion(page, &ImageRegion{X: "10%", Y: "20%", W: "30%", H: "40%"}, "highlight-r1")

	wantAttrs := map[string]string{
		"type":   "image-annotation-highlight",
		"xml:id": "highlight-r1",
		"ulx":    "200",
		"uly":    "350",
		"lrx":    "500",
		"lry":    "950",
	}
	for name, want := range wantAttrs {
		if got := zone.SelectAttr(name); got != want {
			t.Errorf("zone @%s = %q, want %q", name, got, want)
		}
	}
	if zone.Parent != page.Node() {
		t.Error("zone should be appended to the surface")
	}
}

func TestPlaceRegionClampsEachField(t *testing.T) {
	f := loadDoc(t)
	page := pageByID(t, f, "page-1") // origin (0, 0), 1000x1500

	tests := []struct {
		name string
		sel  ImageRegion
		ulx  string
		uly  string
		lrx  string
		lry  string
	}{
		{
			name: "overshoot clamps to page edge",
			sel:  ImageRegion{X: "150%", Y: "-20%", W: "100%", H: "200%"},
			ulx:  "1000", uly: "0", lrx: "2000", lry: "1500",
		},
		{
			name: "malformed values map to zero",
			sel:  ImageRegion{X: "garbage", Y: "", W: "50%", H: "50%"},
			ulx:  "0", uly: "0", lrx: "500", lry: "750",
		},
		{
			name: "fractional percentages",
			sel:  ImageRegion{X: "12.5%", Y: "0%", W: "25%", H: "10%"},
			ulx:  "125", uly: "0", lrx: "375", lry: "150",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := PlaceRegion(page, &tt.sel, "highlight-c")
			if got := zone.SelectAttr("ulx"); got != tt.ulx {
				t.Errorf("ulx = %q, want %q", got, tt.ulx)
			}
			if got := zone.SelectAttr("uly"); got != tt.uly {
				t.Errorf("uly = %q, want %q", got, tt.uly)
			}
			if got := zone.SelectAttr("lrx"); got != tt.lrx {
				t.Errorf("lrx = %q, want %q", got, tt.lrx)
			}
			if got := zone.SelectAttr("lry"); got != tt.lry {
				t.Errorf("lry = %q, want %q", got, tt.lry)
			}
		})
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0%", 0},
		{"100%", 1},
		{"25.5%", 0.255},
		{" 50% ", 0.5},
		{"50", 0.5},
		{"-10%", 0},
		{"250%", 1},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := parsePercent(tt.in); got != tt.want {
			t.Errorf("parsePercent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
