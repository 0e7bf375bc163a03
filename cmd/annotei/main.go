// Command annotei exports an annotated edition of a TEI facsimile
// document: it embeds a user annotation collection into the TEI as
// highlight markers, notes, and a tag vocabulary.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/lb42/annotei/core/annotate"
	"github.com/lb42/annotei/core/markdown"
	"github.com/lb42/annotei/core/tei"
	"github.com/lb42/annotei/core/xml"
	"github.com/lb42/annotei/internal/logging"
	"github.com/lb42/annotei/internal/store"
	"github.com/lb42/annotei/internal/validation"
)

const version = "0.2.0"

// CLI defines the command-line interface for annotei.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text"`

	Export  ExportCmd  `cmd:"" help:"Export an annotated TEI edition"`
	Pages   PagesCmd   `cmd:"" help:"List the page surfaces of a TEI document"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// ExportCmd embeds an annotation collection into a TEI document.
type ExportCmd struct {
	Tei         string `arg:"" help:"Path to TEI facsimile document" type:"existingfile"`
	Annotations string `help:"Annotation collection JSON file" xor:"source" required:"" type:"existingfile"`
	DB          string `name:"db" help:"Annotation SQLite database" xor:"source" required:"" type:"existingfile"`
	Out         string `required:"" help:"Output path for the annotated TEI" type:"path"`
	Compress    bool   `help:"Compress the output with xz"`
}

func (c *ExportCmd) Run() error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	data, err := os.ReadFile(c.Tei)
	if err != nil {
		return fmt.Errorf("reading TEI document: %w", err)
	}
	if err := validation.ValidateDocumentSize(len(data)); err != nil {
		return fmt.Errorf("invalid TEI document: %w", err)
	}
	if err := xml.Validate(data); err != nil {
		return fmt.Errorf("invalid TEI document: %w", err)
	}
	doc, err := tei.Load(data)
	if err != nil {
		return fmt.Errorf("loading TEI document: %w", err)
	}

	anns, err := c.loadAnnotations()
	if err != nil {
		return err
	}
	logging.Info("annotations loaded", "count", len(anns))

	annotator := annotate.New(markdown.NewConverter())
	annotator.Version = version
	report, err := annotator.Annotate(doc, anns)
	if err != nil {
		return fmt.Errorf("annotating document: %w", err)
	}

	out := doc.Bytes()
	if err := c.write(out); err != nil {
		return fmt.Errorf("writing annotated TEI: %w", err)
	}

	digest := blake3.Sum256(out)
	fmt.Printf("Annotated TEI written to: %s\n", c.Out)
	fmt.Printf("  Annotations placed:  %d\n", report.Placed)
	fmt.Printf("  Annotations skipped: %d\n", report.Skipped)
	fmt.Printf("  Content BLAKE3:      %s\n", hex.EncodeToString(digest[:]))
	return nil
}

func (c *ExportCmd) loadAnnotations() ([]*annotate.Annotation, error) {
	if c.Annotations != "" {
		anns, err := store.LoadJSON(c.Annotations)
		if err != nil {
			return nil, fmt.Errorf("loading annotations: %w", err)
		}
		return anns, nil
	}
	anns, err := store.LoadSQLite(context.Background(), c.DB)
	if err != nil {
		return nil, fmt.Errorf("loading annotations: %w", err)
	}
	return anns, nil
}

func (c *ExportCmd) write(data []byte) error {
	if !c.Compress && !strings.HasSuffix(c.Out, ".xz") {
		return os.WriteFile(c.Out, data, 0644)
	}
	file, err := os.Create(c.Out)
	if err != nil {
		return err
	}
	w, err := xz.NewWriter(file)
	if err != nil {
		file.Close()
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		file.Close()
		return err
	}
	if err := w.Close(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// PagesCmd lists the page surfaces of a TEI document.
type PagesCmd struct {
	Tei string `arg:"" help:"Path to TEI facsimile document" type:"existingfile"`
}

func (c *PagesCmd) Run() error {
	data, err := os.ReadFile(c.Tei)
	if err != nil {
		return fmt.Errorf("reading TEI document: %w", err)
	}
	doc, err := tei.Load(data)
	if err != nil {
		return fmt.Errorf("loading TEI document: %w", err)
	}

	pages := doc.Pages()
	for _, page := range pages {
		ulx, uly, lrx, lry := page.Bounds()
		fmt.Printf("%-16s %.0fx%.0f  %s\n", page.ID(), lrx-ulx, lry-uly, page.Href())
	}
	fmt.Printf("%d pages\n", len(pages))
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("annotei version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("annotei"),
		kong.Description("Annotated TEI export for facsimile documents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
