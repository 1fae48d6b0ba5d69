// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key
// name and the file contents (trimmed) are the value.
//
// Supported key files: openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyOpenAI is the filename holding the vision-model API key.
const KeyOpenAI = "openai-api-key"

// Secrets maps key names to credential values.
type Secrets map[string]string

// Load reads all files in dir. A missing directory or missing files are not
// errors; Load returns an empty set. Unreadable files produce a warning on
// stderr but do not abort.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			s[entry.Name()] = value
		}
	}

	return s, nil
}

// Lookup returns the secret for key, falling back to the environment variable
// env when the key file is absent.
func (s Secrets) Lookup(key, env string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return os.Getenv(env)
}
