// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverCaseInsensitivePDFOnly(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "sub", "b.PDF"))
	touch(t, filepath.Join(dir, "sub", "deep", "c.Pdf"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "pdfish.pdf.bak"))

	pdfs, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(pdfs) != 3 {
		t.Fatalf("discovered %d files, want 3: %v", len(pdfs), pdfs)
	}
	for _, p := range pdfs {
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			t.Errorf("non-PDF discovered: %s", p)
		}
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	if _, err := Discover(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

// countingConverter records every path it was invoked with.
type countingConverter struct {
	mu      sync.Mutex
	paths   []string
	outDirs []string
	failOn  string
}

func (c *countingConverter) convert(_ context.Context, pdfPath, outputDir string) (string, error) {
	c.mu.Lock()
	c.paths = append(c.paths, pdfPath)
	c.outDirs = append(c.outDirs, outputDir)
	c.mu.Unlock()
	if pdfPath == c.failOn {
		return "", errors.New("conversion blew up")
	}
	return strings.TrimSuffix(pdfPath, ".pdf") + ".md", nil
}

func TestRunSequential(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.pdf"),
	}
	c := &countingConverter{}

	var out strings.Builder
	result := Run(context.Background(), c.convert, paths, Options{}, &out)

	if result.Converted != 3 || result.Failed != 0 {
		t.Errorf("result = %+v, want 3 converted", result)
	}
	if len(c.paths) != 3 {
		t.Errorf("converter invoked %d times, want 3", len(c.paths))
	}
	if !strings.Contains(out.String(), "Output file: "+filepath.Join(dir, "a.md")) {
		t.Errorf("missing output line:\n%s", out.String())
	}
}

func TestRunParallelInvokesOncePerDocument(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.pdf"),
	}
	c := &countingConverter{}

	result := Run(context.Background(), c.convert, paths, Options{Parallel: true, Workers: 2}, io.Discard)

	if result.Converted != 3 {
		t.Errorf("result = %+v, want 3 converted", result)
	}
	got := append([]string(nil), c.paths...)
	sort.Strings(got)
	if len(got) != 3 || got[0] != paths[0] || got[2] != paths[2] {
		t.Errorf("converter paths = %v, want each document exactly once", got)
	}
}

func TestRunFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.pdf"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.pdf"),
	}

	for _, parallel := range []bool{false, true} {
		c := &countingConverter{failOn: paths[1]}
		var out strings.Builder
		result := Run(context.Background(), c.convert, paths, Options{Parallel: parallel}, &out)

		if result.Converted != 2 || result.Failed != 1 {
			t.Errorf("parallel=%v: result = %+v, want 2 converted, 1 failed", parallel, result)
		}
		if !result.HasFailures() {
			t.Errorf("parallel=%v: HasFailures() = false", parallel)
		}
		if len(c.paths) != 3 {
			t.Errorf("parallel=%v: converter invoked %d times, want 3", parallel, len(c.paths))
		}
		if !strings.Contains(out.String(), "conversion blew up") {
			t.Errorf("parallel=%v: failure not reported:\n%s", parallel, out.String())
		}
	}
}

func TestRunOutputDirOverride(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "sub", "a.pdf")}

	c := &countingConverter{}
	Run(context.Background(), c.convert, paths, Options{}, io.Discard)
	if c.outDirs[0] != filepath.Join(dir, "sub") {
		t.Errorf("default output dir = %q, want containing dir", c.outDirs[0])
	}

	c = &countingConverter{}
	Run(context.Background(), c.convert, paths, Options{OutputDir: "/tmp/out"}, io.Discard)
	if c.outDirs[0] != "/tmp/out" {
		t.Errorf("override output dir = %q, want /tmp/out", c.outDirs[0])
	}
}
