// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how much of the PDF is fed to the vision model.
type Mode string

const (
	// ModeVision sends only the rendered page image.
	ModeVision Mode = "v"
	// ModeVisionText additionally sends text extracted from the PDF's
	// embedded text layer as a hint.
	ModeVisionText Mode = "vt"
)

// ParseMode validates a mode string from the CLI or config.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeVision, ModeVisionText:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q: valid modes are %q and %q", s, ModeVision, ModeVisionText)
	}
}

// Valid reports whether m is a recognized processing mode.
func (m Mode) Valid() bool {
	return m == ModeVision || m == ModeVisionText
}

// Document identifies one source PDF. The base name drives both the output
// Markdown filename and the image-cache folder name. Immutable once built.
type Document struct {
	// SourcePath is the path to the PDF as given by the caller.
	SourcePath string

	// Base is the source filename without directory or extension.
	Base string
}

// NewDocument derives a Document from a PDF path.
func NewDocument(pdfPath string) Document {
	name := filepath.Base(pdfPath)
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return Document{SourcePath: pdfPath, Base: base}
}

// MarkdownName returns the output filename: <base>.md.
func (d Document) MarkdownName() string {
	return d.Base + ".md"
}

// CacheDirName returns the image-cache folder name: <base>_images.
func (d Document) CacheDirName() string {
	return d.Base + "_images"
}

// ImageName returns the cached image filename for a 0-based page index:
// <base>_image_<index>.png.
func (d Document) ImageName(index int) string {
	return fmt.Sprintf("%s_image_%d.png", d.Base, index)
}
