// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pdiddy/pdf2md/internal/batch"
	"github.com/pdiddy/pdf2md/internal/ledger"
	"github.com/pdiddy/pdf2md/internal/pipeline"
	"github.com/pdiddy/pdf2md/internal/priortext"
	"github.com/pdiddy/pdf2md/internal/raster"
	"github.com/pdiddy/pdf2md/internal/secrets"
	"github.com/pdiddy/pdf2md/internal/transcribe"
	"github.com/pdiddy/pdf2md/pkg/types"
)

func runConvert(cmd *cobra.Command, args []string) error {
	target := args[0]

	outputDir, _ := cmd.Flags().GetString("output_dir")
	modeStr, _ := cmd.Flags().GetString("mode")
	verbose, _ := cmd.Flags().GetBool("verbose")
	recursive, _ := cmd.Flags().GetBool("recursive")
	parallel, _ := cmd.Flags().GetBool("parallel")
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("model")
	}

	mode, err := types.ParseMode(modeStr)
	if err != nil {
		return err
	}

	apiKey := loadedSecrets.Lookup(secrets.KeyOpenAI, "OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("vision model API key required: set OPENAI_API_KEY or .secrets/%s", secrets.KeyOpenAI)
	}

	llm, err := openai.New(openai.WithToken(apiKey), openai.WithModel(model))
	if err != nil {
		return fmt.Errorf("creating vision model client: %w", err)
	}

	aiCfg := types.AIConfig{
		Model:       model,
		APIKey:      apiKey,
		MaxAttempts: viper.GetInt("max_attempts"),
		MaxTokens:   viper.GetInt("max_tokens"),
	}
	p := &pipeline.Pipeline{
		Images:      raster.Renderer{},
		Texts:       priortext.Extractor{},
		Transcriber: transcribe.New(llm, aiCfg),
	}

	store := openLedger()
	if store != nil {
		defer store.Close()
	}

	convert := func(ctx context.Context, pdfPath, docOutputDir string) (string, error) {
		cfg := types.ConvertConfig{OutputDir: docOutputDir, Mode: mode, Verbose: verbose}
		started := time.Now()
		outPath, err := p.Convert(ctx, pdfPath, cfg, cmd.OutOrStdout())
		recordRun(store, p, pdfPath, docOutputDir, outPath, mode, started, err)
		return outPath, err
	}

	ctx := cmd.Context()

	if recursive {
		info, err := os.Stat(target)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("the path %q is not a directory", target)
		}
		pdfs, err := batch.Discover(target)
		if err != nil {
			return err
		}
		opts := batch.Options{OutputDir: outputDir, Parallel: parallel}
		result := batch.Run(ctx, convert, pdfs, opts, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d of %d documents failed", result.Failed, result.Total())
		}
		return nil
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		return fmt.Errorf("the file %q does not exist", target)
	}
	out, err := convert(ctx, target, outputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Output file: %s\n", out)
	return nil
}

// openLedger opens the run ledger. Ledger problems degrade to warnings; a
// conversion never fails because bookkeeping did.
func openLedger() *ledger.Store {
	store, err := ledger.NewStore(types.LedgerConfig{StateDir: viper.GetString("state_dir")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: ledger disabled: %v\n", err)
		return nil
	}
	return store
}

func recordRun(store *ledger.Store, p *pipeline.Pipeline, pdfPath, outputDir, outPath string, mode types.Mode, started time.Time, convErr error) {
	if store == nil {
		return
	}

	run := types.Run{
		SourcePath: pdfPath,
		OutputPath: outPath,
		Mode:       mode,
		Status:     types.RunConverted,
		StartedAt:  started,
		Duration:   time.Since(started),
	}
	if convErr != nil {
		run.Status = types.RunFailed
		run.Error = convErr.Error()
	} else if pages, err := p.PageCount(pdfPath, outputDir); err == nil {
		run.Pages = pages
	}

	if err := store.Record(context.Background(), run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run: %v\n", err)
	}
}
