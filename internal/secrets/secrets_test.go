// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyOpenAI, "  sk-abc123  \n")
				return dir
			},
			want: Secrets{KeyOpenAI: "sk-abc123"},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files and dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, KeyOpenAI, "valid-key")
				writeFile(t, dir, "empty-key", "   \n\t  ")
				writeFile(t, dir, ".gitkeep", "")
				return dir
			},
			want: Secrets{KeyOpenAI: "valid-key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupEnvFallback(t *testing.T) {
	s := Secrets{KeyOpenAI: "from-file"}
	assert.Equal(t, "from-file", s.Lookup(KeyOpenAI, "PDF2MD_TEST_KEY"))

	t.Setenv("PDF2MD_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", Secrets{}.Lookup(KeyOpenAI, "PDF2MD_TEST_KEY"))
	assert.Equal(t, "", Secrets{}.Lookup(KeyOpenAI, "PDF2MD_UNSET_KEY"))
}
