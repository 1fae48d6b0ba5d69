// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.LedgerConfig{StateDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(source string, status types.RunStatus) types.Run {
	return types.Run{
		SourcePath: source,
		OutputPath: strings.TrimSuffix(source, ".pdf") + ".md",
		Mode:       types.ModeVisionText,
		Pages:      3,
		Status:     status,
		StartedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Duration:   90 * time.Second,
	}
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, sampleRun("a.pdf", types.RunConverted)))
	require.NoError(t, s.Record(ctx, sampleRun("b.pdf", types.RunFailed)))

	runs, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Newest first.
	assert.Equal(t, "b.pdf", runs[0].SourcePath)
	assert.Equal(t, types.RunFailed, runs[0].Status)
	assert.Equal(t, "a.pdf", runs[1].SourcePath)
	assert.Equal(t, types.ModeVisionText, runs[1].Mode)
	assert.Equal(t, 3, runs[1].Pages)
	assert.Equal(t, 90*time.Second, runs[1].Duration)
	assert.True(t, runs[1].StartedAt.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)))
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, sampleRun("doc.pdf", types.RunConverted)))
	}

	runs, err := s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestExportYAML(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("report.pdf", types.RunFailed)
	run.Error = "after 3 attempts: model unavailable"
	require.NoError(t, s.Record(ctx, run))

	var buf strings.Builder
	require.NoError(t, s.ExportYAML(ctx, &buf))

	assert.Contains(t, buf.String(), "report.pdf")
	assert.Contains(t, buf.String(), "model unavailable")
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.LedgerConfig{StateDir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), sampleRun("a.pdf", types.RunConverted)))
	require.NoError(t, s.Close())

	s2, err := NewStore(types.LedgerConfig{StateDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
