// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration and document types shared across stages.
package types

import "time"

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the vision model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxAttempts is the total number of tries for a failed API call,
	// including the first (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// MaxTokens caps the model's output per page (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ConvertConfig holds settings for one conversion invocation.
type ConvertConfig struct {
	// OutputDir is where the Markdown file and the image cache land.
	// Empty means alongside the source PDF.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Mode selects vision-only or vision-and-text processing.
	Mode Mode `json:"mode" yaml:"mode"`

	// Verbose streams each page's Markdown as it is produced.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// BatchConfig holds settings for recursive directory conversion.
type BatchConfig struct {
	// Parallel processes discovered documents concurrently.
	Parallel bool `json:"parallel" yaml:"parallel"`

	// Workers bounds the pool size in parallel mode. Zero or negative
	// means runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers"`
}

// LedgerConfig holds settings for the conversion-run ledger.
type LedgerConfig struct {
	// StateDir is the directory holding the ledger database (default ".pdf2md").
	StateDir string `json:"state_dir" yaml:"state_dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// RunStatus classifies the outcome of one document conversion.
type RunStatus string

const (
	RunConverted RunStatus = "converted"
	RunFailed    RunStatus = "failed"
)

// Run records one document conversion for the ledger.
type Run struct {
	SourcePath string        `json:"source_path" yaml:"source_path"`
	OutputPath string        `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Mode       Mode          `json:"mode" yaml:"mode"`
	Pages      int           `json:"pages" yaml:"pages"`
	Status     RunStatus     `json:"status" yaml:"status"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}
