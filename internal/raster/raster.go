// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster renders PDF pages to images and caches them on disk.
//
// The cache lives in <output-dir>/<base>_images/ with one PNG per page named
// <base>_image_<index>.png, index being the 0-based page number. An existing
// cache folder is reused as-is: the cache is never invalidated, so a PDF that
// changes after its folder was created is silently served stale images.
package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// Renderer produces the ordered page-image sequence for a document,
// rasterizing on first use and reloading from the cache folder afterwards.
type Renderer struct{}

// Pages returns one image per page of the document, in page order. On a cache
// hit nothing is written; on a miss the PDF is rasterized and the cache folder
// is created and populated.
func (Renderer) Pages(doc types.Document, outputDir string) ([]image.Image, error) {
	cacheDir := filepath.Join(outputDir, doc.CacheDirName())

	if _, err := os.Stat(cacheDir); err == nil {
		return loadCached(cacheDir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat cache dir %s: %w", cacheDir, err)
	}

	return rasterize(doc, cacheDir)
}

// imageIndexRe extracts the 0-based page index embedded in a cached filename.
var imageIndexRe = regexp.MustCompile(`_image_(\d+)\.png$`)

// loadCached reads every cached page image, ordered by the page index parsed
// from the filename. Directory listing order is not page order on all
// filesystems, so the embedded index is authoritative. Files that do not
// match the naming scheme are ignored.
func loadCached(cacheDir string) ([]image.Image, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("reading cache dir %s: %w", cacheDir, err)
	}

	type cachedPage struct {
		index int
		name  string
	}
	var pages []cachedPage
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		m := imageIndexRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, cachedPage{index: index, name: entry.Name()})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].index < pages[j].index })

	images := make([]image.Image, 0, len(pages))
	for _, p := range pages {
		img, err := readPNG(filepath.Join(cacheDir, p.name))
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// rasterize renders every page of the PDF and persists the results to a
// freshly created cache folder.
func rasterize(doc types.Document, cacheDir string) ([]image.Image, error) {
	fdoc, err := fitz.New(doc.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", doc.SourcePath, err)
	}
	defer fdoc.Close()

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", cacheDir, err)
	}

	images := make([]image.Image, 0, fdoc.NumPage())
	for i := 0; i < fdoc.NumPage(); i++ {
		img, err := fdoc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d of %s: %w", i, doc.SourcePath, err)
		}
		if err := writePNG(filepath.Join(cacheDir, doc.ImageName(i)), img); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cached image %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding cached image %s: %w", path, err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating image %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding image %s: %w", path, err)
	}
	return f.Close()
}
