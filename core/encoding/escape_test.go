package encoding

import "testing"

func TestEscapeXMLText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"ampersand", "a & b", "a &amp; b"},
		{"angle brackets", "<tag>", "&lt;tag&gt;"},
		{"quotes untouched", `say "hi"`, `say "hi"`},
		{"already escaped ampersand re-escaped", "&amp;", "&amp;amp;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeXMLText(tt.in); got != tt.want {
				t.Errorf("EscapeXMLText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeXMLAttr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "value", "value"},
		{"quotes", `a "b"`, "a &quot;b&quot;"},
		{"mixed", `<a href="x">`, "&lt;a href=&quot;x&quot;&gt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeXMLAttr(tt.in); got != tt.want {
				t.Errorf("EscapeXMLAttr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEscapeXML(t *testing.T) {
	got := EscapeXML("a < b & c")
	if got != "a &lt; b &amp; c" {
		t.Errorf("EscapeXML = %q", got)
	}
}
