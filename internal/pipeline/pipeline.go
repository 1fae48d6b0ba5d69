// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates one document's conversion: page images and
// prior texts are paired per page, transcribed in order, and the results are
// assembled into a single Markdown file.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// PageSource yields the ordered page images of a document, typically through
// the on-disk cache.
type PageSource interface {
	Pages(doc types.Document, outputDir string) ([]image.Image, error)
}

// TextSource yields the per-page text-layer strings of a document.
type TextSource interface {
	PriorTexts(doc types.Document) ([]string, error)
}

// Transcriber converts one page image, with an optional prior-text hint,
// into Markdown.
type Transcriber interface {
	TranscribePage(ctx context.Context, img image.Image, priorText string) (string, error)
}

// Pipeline wires the per-document stages together. All collaborators are
// injected so tests can substitute mocks.
type Pipeline struct {
	Images      PageSource
	Texts       TextSource
	Transcriber Transcriber
}

// Convert turns one PDF into a Markdown file and returns the output path.
// Validation (mode, page/text count) happens before any transcription; a
// failing page aborts the document and nothing is written.
func (p *Pipeline) Convert(ctx context.Context, pdfPath string, cfg types.ConvertConfig, w io.Writer) (string, error) {
	if !cfg.Mode.Valid() {
		return "", fmt.Errorf("invalid mode %q: valid modes are %q and %q", cfg.Mode, types.ModeVision, types.ModeVisionText)
	}

	doc := types.NewDocument(pdfPath)
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(pdfPath)
	}
	outPath := filepath.Join(outputDir, doc.MarkdownName())

	images, err := p.Images.Pages(doc, outputDir)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", pdfPath, err)
	}

	var priorTexts []string
	if cfg.Mode == types.ModeVisionText {
		priorTexts, err = p.Texts.PriorTexts(doc)
		if err != nil {
			return "", fmt.Errorf("extracting text layer of %s: %w", pdfPath, err)
		}
	} else {
		priorTexts = make([]string, len(images))
	}

	if len(priorTexts) != len(images) {
		return "", fmt.Errorf("%s: %d prior texts does not match %d page images", pdfPath, len(priorTexts), len(images))
	}

	markdown, err := p.transcribePages(ctx, images, priorTexts, cfg.Verbose, w)
	if err != nil {
		return "", fmt.Errorf("%s: %w", pdfPath, err)
	}

	if err := os.WriteFile(outPath, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", outPath, err)
	}
	return outPath, nil
}

// PageCount reports how many pages a conversion would process, for ledger
// bookkeeping. It hits the same cached source as Convert.
func (p *Pipeline) PageCount(pdfPath, outputDir string) (int, error) {
	doc := types.NewDocument(pdfPath)
	if outputDir == "" {
		outputDir = filepath.Dir(pdfPath)
	}
	images, err := p.Images.Pages(doc, outputDir)
	if err != nil {
		return 0, err
	}
	return len(images), nil
}

// transcribePages runs the transcriber per page, strictly in page order, and
// joins the results with a single newline.
func (p *Pipeline) transcribePages(ctx context.Context, images []image.Image, priorTexts []string, verbose bool, w io.Writer) (string, error) {
	var out []byte
	for i, img := range images {
		md, err := p.Transcriber.TranscribePage(ctx, img, priorTexts[i])
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, md...)
		if verbose {
			fmt.Fprintln(w, md)
		}
	}
	return string(out), nil
}
