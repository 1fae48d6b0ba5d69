// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import "fmt"

// visionBase is the fixed instruction sent with every page image.
const visionBase = "Write a Markdown version of this page keeping as much of the semantic " +
	"meaning from information hierarchy as possible. For tabular-like " +
	"data (including chart data), make easy to read tables as they'd be " +
	"presented by a financial analyst."

// visionAssist is appended when a prior-text hint is available. Neither the
// image nor the extracted text is fully reliable, so the model is told to
// balance both signals.
const visionAssist = "\n\nYour vision isn't great, so I've provided previously extracted " +
	"text to help in <prior_text> tags. That text isn't perfect either so " +
	"use a balanced approach to create the full Markdown output.\n" +
	"\n<prior_text>\n%s\n</prior_text>\n"

// buildPrompt composes the instruction for one page. An empty prior text
// means vision-only.
func buildPrompt(priorText string) string {
	if priorText == "" {
		return visionBase
	}
	return visionBase + fmt.Sprintf(visionAssist, priorText)
}
