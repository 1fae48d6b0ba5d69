// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2md CLI, which converts PDF
// documents into Markdown by rendering each page as an image and transcribing
// it with a vision-capable language model.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd converts a single PDF, or a directory tree of PDFs with -r.
var rootCmd = &cobra.Command{
	Use:   "pdf2md [target]",
	Short: "Convert PDF documents to Markdown using a vision model",
	Long: `pdf2md converts a PDF file to a Markdown file using visual reasoning by a
vision-capable language model. Each page is rendered to an image (cached on
disk in a <name>_images/ folder) and transcribed to Markdown; in
vision-and-text mode the PDF's own text layer is sent along as a hint.

With -r the target is treated as a directory and every .pdf beneath it is
converted, optionally in parallel with -p.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2md.yaml or ~/.config/pdf2md/config.yaml)")

	rootCmd.Flags().StringP("output_dir", "o", "", "directory for output files (default: alongside each PDF)")
	rootCmd.Flags().StringP("mode", "m", "vt", "processing mode: 'v' (vision-only) or 'vt' (vision-and-text)")
	rootCmd.Flags().BoolP("verbose", "v", false, "print each page's Markdown as it is produced")
	rootCmd.Flags().BoolP("recursive", "r", false, "treat the target as a directory and convert all PDFs within it")
	rootCmd.Flags().BoolP("parallel", "p", false, "with -r, process discovered PDFs concurrently")
	rootCmd.Flags().String("model", "", "vision model identifier (default from config)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2md")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2md"))
		}
	}

	viper.SetDefault("model", "gpt-4o")
	viper.SetDefault("max_attempts", 3)
	viper.SetDefault("max_tokens", 4096)
	viper.SetDefault("state_dir", ".pdf2md")

	viper.SetEnvPrefix("PDF2MD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
