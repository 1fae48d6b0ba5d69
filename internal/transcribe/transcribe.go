// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcribe converts one rendered PDF page into Markdown through a
// vision-capable language model, optionally assisted by text pulled from the
// PDF's own text layer.
package transcribe

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/tmc/langchaingo/llms"

	"github.com/pdiddy/pdf2md/pkg/types"
)

// defaultMaxTokens caps the model's output for a single page.
const defaultMaxTokens = 4096

// Model is the subset of the langchaingo model interface the transcriber
// uses. Tests supply a mock; production wiring passes an *openai.LLM.
type Model interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Transcriber sends page images to a vision model and returns Markdown.
// The model client is injected; the transcriber holds no global state.
type Transcriber struct {
	model     Model
	policy    Policy
	maxTokens int
}

// New builds a Transcriber around an explicitly constructed model client.
func New(model Model, cfg types.AIConfig) *Transcriber {
	policy := DefaultPolicy()
	if cfg.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.MaxAttempts
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Transcriber{
		model:     model,
		policy:    policy,
		maxTokens: maxTokens,
	}
}

// TranscribePage produces the Markdown for one page. priorText may be empty
// (vision-only). Transient model failures are retried under the policy; an
// exhausted retry surfaces the underlying error.
func (t *Transcriber) TranscribePage(ctx context.Context, img image.Image, priorText string) (string, error) {
	uri, err := encodeDataURI(img)
	if err != nil {
		return "", err
	}
	prompt := buildPrompt(priorText)

	var markdown string
	err = t.policy.Do(ctx, func() error {
		resp, err := t.model.GenerateContent(ctx, []llms.MessageContent{
			{
				Role: llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{
					llms.TextPart(prompt),
					llms.ImageURLPart(uri),
				},
			},
		}, llms.WithMaxTokens(t.maxTokens))
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("model returned no completions")
		}
		markdown = resp.Choices[0].Content
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("transcribing page: %w", err)
	}
	return markdown, nil
}

// encodeDataURI turns a page image into the data URI the API transports:
// JPEG bytes, base64, image/jpeg scheme.
func encodeDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return "", fmt.Errorf("encoding page as jpeg: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
