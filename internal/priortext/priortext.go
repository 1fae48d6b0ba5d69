// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package priortext pulls best-effort plain text from a PDF's embedded text
// layer, one string per page. The output is a hint for the vision model, not
// a faithful extraction: garbled or empty pages pass through unchanged.
package priortext

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// Extractor reads the text layer of a PDF.
type Extractor struct{}

// PriorTexts returns the embedded text of each page in page order. A page
// whose text cannot be read contributes an empty string rather than an error.
func (Extractor) PriorTexts(doc types.Document) ([]string, error) {
	f, reader, err := pdflib.Open(doc.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", doc.SourcePath, err)
	}
	defer f.Close()

	texts := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}
