package tei

import (
	"strings"
	"testing"
	"time"

	"github.com/lb42/annotei/core/xml"
)

const facsimileDoc = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0" xmlns:xlink="http://www.w3.org/1999/xlink">
  <teiHeader>
    <fileDesc>
      <titleStmt>
        <title>Sample Volume</title>
      </titleStmt>
    </fileDesc>
  </teiHeader>
  <facsimile>
    <surface type="page" xml:id="page-1" xlink:href="http://example.com/books/vol1/pages/1/" ulx="0" uly="0" lrx="1000" lry="1500">
      <zone xml:id="z1" type="text" ulx="10" uly="10" lrx="990" lry="200">
        <line>first line of page one</line>
        <line>second line of page one</line>
      </zone>
    </surface>
    <surface type="page" xml:id="page-2" xlink:href="http://example.com/books/vol1/pages/2/" ulx="0" uly="0" lrx="1000" lry="1500">
      <zone xml:id="z2" type="text" ulx="10" uly="10" lrx="990" lry="200">
        <line>only line of page two</line>
      </zone>
    </surface>
  </facsimile>
  <text>
    <body>
      <p>placeholder</p>
    </body>
  </text>
</TEI>`

func loadFixture(t *testing.T) *Facsimile {
	t.Helper()
	f, err := Load([]byte(facsimileDoc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return f
}

func TestLoadRejectsNonTEI(t *testing.T) {
	if _, err := Load([]byte(`<html><body/></html>`)); err == nil {
		t.Error("Load should reject documents without a TEI root")
	}
	if _, err := Load([]byte(`not xml at all <<<`)); err == nil {
		t.Error("Load should reject malformed XML")
	}
}

func TestTitlePromotion(t *testing.T) {
	f := loadFixture(t)

	if got := f.Title(); got != "Sample Volume" {
		t.Fatalf("Title = %q", got)
	}

	f.SetMainTitle(f.Title())
	f.SetSubtitle(", an annotated digital edition")
	f.RemovePlainTitle()

	if got := f.Title(); got != "" {
		t.Errorf("plain title should be gone, got %q", got)
	}
	out := string(f.Bytes())
	if !strings.Contains(out, `<title type="main">Sample Volume</title>`) {
		t.Errorf("missing main title:\n%s", out)
	}
	if !strings.Contains(out, `<title type="sub">, an annotated digital edition</title>`) {
		t.Errorf("missing subtitle:\n%s", out)
	}
}

func TestResponsibility(t *testing.T) {
	f := loadFixture(t)
	f.SetResponsibility("annotated by")
	f.AddResponsibleName("msmith", "Mary Smith")
	f.AddResponsibleName("bjones", "Bob Jones")

	ids := f.ResponsibleNames()
	if len(ids) != 2 || ids[0] != "msmith" || ids[1] != "bjones" {
		t.Errorf("ResponsibleNames = %v", ids)
	}
	out := string(f.Bytes())
	if !strings.Contains(out, "<resp>annotated by</resp>") {
		t.Errorf("missing resp element:\n%s", out)
	}
	if !strings.Contains(out, `<name xml:id="msmith">Mary Smith</name>`) {
		t.Errorf("missing name element:\n%s", out)
	}
}

func TestEnsurePublicationStmt(t *testing.T) {
	f := loadFixture(t)

	pub := f.EnsurePublicationStmt()
	pub.SetDescription("Annotated TEI generated by annotei version 0.2.0")

	exported := time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)
	pub.SetDate(exported)

	// second call must reuse, not duplicate
	again := f.EnsurePublicationStmt()
	if again.Description() != pub.Description() {
		t.Error("EnsurePublicationStmt did not return the same statement")
	}

	out := string(f.Bytes())
	if strings.Count(out, "<publicationStmt>") != 1 {
		t.Errorf("publicationStmt duplicated:\n%s", out)
	}
	if !strings.Contains(out, `when="2026-08-31T12:30:00Z"`) {
		t.Errorf("missing normalized date:\n%s", out)
	}
	if !strings.Contains(out, ">31 August 2026</date>") {
		t.Errorf("missing display date:\n%s", out)
	}
}

func TestPages(t *testing.T) {
	f := loadFixture(t)
	pages := f.Pages()
	if len(pages) != 2 {
		t.Fatalf("Pages = %d, want 2", len(pages))
	}

	p := pages[0]
	if p.ID() != "page-1" {
		t.Errorf("ID = %q", p.ID())
	}
	if p.Href() != "http://example.com/books/vol1/pages/1/" {
		t.Errorf("Href = %q", p.Href())
	}
	ulx, uly, lrx, lry := p.Bounds()
	if ulx != 0 || uly != 0 || lrx != 1000 || lry != 1500 {
		t.Errorf("Bounds = %v %v %v %v", ulx, uly, lrx, lry)
	}
}

func TestSurfaceQuery(t *testing.T) {
	f := loadFixture(t)
	page := f.Pages()[0]

	n, err := page.Query(`//zone[@xml:id="z1"]/line[2]`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if n == nil {
		t.Fatal("Query found nothing")
	}
	if n.InnerText() != "second line of page one" {
		t.Errorf("wrong node: %q", n.InnerText())
	}

	missing, err := page.Query(`//zone[@xml:id="nonexistent"]`)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if missing != nil {
		t.Error("Query should return nil for no match")
	}
}

func TestSurfaceQueryScopedToPage(t *testing.T) {
	f := loadFixture(t)
	page2 := f.Pages()[1]

	n, err := page2.Query("//line[1]")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if n == nil || n.InnerText() != "only line of page two" {
		t.Error("Query leaked outside its surface subtree")
	}
}

func TestPageIDByLink(t *testing.T) {
	f := loadFixture(t)

	id, ok := f.PageIDByLink("http://example.com/books/vol1/pages/2/")
	if !ok || id != "page-2" {
		t.Errorf("PageIDByLink = %q, %v", id, ok)
	}
	if _, ok := f.PageIDByLink("http://example.com/other/"); ok {
		t.Error("PageIDByLink should fail for unknown uri")
	}
}

func TestAppendNote(t *testing.T) {
	f := loadFixture(t)

	note := xml.NewElement("note")
	note.SetAttr("xml:id", "annotation-1")
	f.AppendNote(note)

	out := string(f.Bytes())
	if !strings.Contains(out, `<div type="annotations">`) {
		t.Errorf("annotation div not created:\n%s", out)
	}
	if len(f.Notes()) != 1 {
		t.Errorf("Notes = %d, want 1", len(f.Notes()))
	}

	// appending again reuses the div
	second := xml.NewElement("note")
	second.SetAttr("xml:id", "annotation-2")
	f.AppendNote(second)
	if strings.Count(string(f.Bytes()), `<div type="annotations">`) != 1 {
		t.Error("annotation div duplicated")
	}
	if len(f.Notes()) != 2 {
		t.Errorf("Notes = %d, want 2", len(f.Notes()))
	}
}

func TestAddTag(t *testing.T) {
	f := loadFixture(t)

	if f.Tags() != nil {
		t.Error("Tags should be nil before any AddTag")
	}

	f.AddTag("civil-war", "Civil War")
	f.AddTag("history", "History")

	tags := f.Tags()
	if len(tags) != 2 {
		t.Fatalf("Tags = %v", tags)
	}
	if tags["civil-war"] != "Civil War" {
		t.Errorf("tag label = %q", tags["civil-war"])
	}
	out := string(f.Bytes())
	if strings.Count(out, `<interpGrp type="tags">`) != 1 {
		t.Errorf("interpGrp duplicated or missing:\n%s", out)
	}
	if !strings.Contains(out, `<interp xml:id="history">History</interp>`) {
		t.Errorf("missing interp:\n%s", out)
	}
}

func TestNewAnchor(t *testing.T) {
	start := NewAnchor("highlight-start-1", AnchorStartType, "highlight-end-1")
	if start.SelectAttr("next") != "highlight-end-1" {
		t.Errorf("next = %q", start.SelectAttr("next"))
	}
	end := NewAnchor("highlight-end-1", AnchorEndType, "")
	if end.SelectAttr("next") != "" {
		t.Error("end anchor should carry no next attribute")
	}
	if end.SelectAttr("xml:id") != "highlight-end-1" {
		t.Errorf("xml:id = %q", end.SelectAttr("xml:id"))
	}
}

func TestNewHighlightZone(t *testing.T) {
	z := NewHighlightZone("highlight-1", 100, 150.5, 300, 450)
	if z.SelectAttr("type") != ImageHighlightType {
		t.Errorf("type = %q", z.SelectAttr("type"))
	}
	if z.SelectAttr("ulx") != "100" || z.SelectAttr("uly") != "150.5" {
		t.Errorf("coords = %q %q", z.SelectAttr("ulx"), z.SelectAttr("uly"))
	}
	if z.SelectAttr("lrx") != "300" || z.SelectAttr("lry") != "450" {
		t.Errorf("coords = %q %q", z.SelectAttr("lrx"), z.SelectAttr("lry"))
	}
}
