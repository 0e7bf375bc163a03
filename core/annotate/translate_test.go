package annotate

import "testing"

func TestTranslatePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "div to zone",
			in:   "//div[1]",
			want: "//zone[1]",
		},
		{
			name: "span to line-or-word disjunction",
			in:   "//div[1]/span[3]",
			want: `//zone[1]/*[local-name()="line" or local-name()="w"][3]`,
		},
		{
			name: "id attribute to xml:id",
			in:   `//div[@id="z1"]/span[2]`,
			want: `//zone[@xml:id="z1"]/*[local-name()="line" or local-name()="w"][2]`,
		},
		{
			name: "attribute values pass through",
			in:   `//div[@class="ocr-block"][2]`,
			want: `//zone[@class="ocr-block"][2]`,
		},
		{
			name: "empty path stays empty",
			in:   "",
			want: "",
		},
		{
			name: "nested divs all translated",
			in:   "/div/div[2]/span",
			want: `/zone/zone[2]/*[local-name()="line" or local-name()="w"]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslatePath(tt.in); got != tt.want {
				t.Errorf("TranslatePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
