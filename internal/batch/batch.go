// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch discovers PDF files under a directory root and drives the
// document pipeline over them, sequentially or with a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
)

// Converter runs the document pipeline for one PDF and returns the output
// Markdown path.
type Converter func(ctx context.Context, pdfPath, outputDir string) (string, error)

// Result summarizes a batch run.
type Result struct {
	Converted int
	Failed    int
}

// Total returns the number of documents processed.
func (r Result) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

// Options controls how a batch run schedules its documents.
type Options struct {
	// OutputDir overrides the per-document output directory. Empty means
	// each document's own containing directory.
	OutputDir string

	// Parallel submits documents to a worker pool instead of processing
	// them one at a time.
	Parallel bool

	// Workers bounds the pool size; zero or negative means runtime.NumCPU().
	Workers int
}

// Discover walks root and returns every file with a case-insensitive .pdf
// suffix, in walk order.
func Discover(root string) ([]string, error) {
	var pdfs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			pdfs = append(pdfs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return pdfs, nil
}

// Run converts every discovered PDF, printing per-document status to w. One
// document's failure never cancels the others; the caller decides what an
// aggregate failure means via the returned Result.
func Run(ctx context.Context, convert Converter, pdfPaths []string, opts Options, w io.Writer) Result {
	if opts.Parallel {
		return runParallel(ctx, convert, pdfPaths, opts, w)
	}

	var result Result
	for _, path := range pdfPaths {
		out, err := convert(ctx, path, outputDirFor(path, opts))
		if err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", path, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "Output file: %s\n", out)
		result.Converted++
	}
	return result
}

// runParallel fans documents out to a bounded pool. Results are reported from
// the collecting goroutine so writes to w never interleave.
func runParallel(ctx context.Context, convert Converter, pdfPaths []string, opts Options, w io.Writer) Result {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type docResult struct {
		path string
		out  string
		err  error
	}
	results := make(chan docResult, len(pdfPaths))
	sem := make(chan struct{}, workers)

	for _, path := range pdfPaths {
		sem <- struct{}{}
		go func(path string) {
			defer func() { <-sem }()
			out, err := convert(ctx, path, outputDirFor(path, opts))
			results <- docResult{path: path, out: out, err: err}
		}(path)
	}

	var result Result
	for range pdfPaths {
		r := <-results
		if r.err != nil {
			fmt.Fprintf(w, "failed: %s (%v)\n", r.path, r.err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "Output file: %s\n", r.out)
		result.Converted++
	}
	return result
}

func outputDirFor(pdfPath string, opts Options) string {
	if opts.OutputDir != "" {
		return opts.OutputDir
	}
	return filepath.Dir(pdfPath)
}
