// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the document-engine CLI.
// Implements: prd007-operations, prd008-auxiliary, prd009-history
//             (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/document-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the document-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "document-engine",
	Short: "Local document transformation pipeline",
	Long: `document-engine transforms documents on the local machine: images into a
single PDF, multiple PDFs into one, a PDF into page ranges or per-page
files, plus PDF-to-image rendering, OCR text extraction, page deletion,
and compression.

Every operation validates its inputs first and publishes output
atomically: a failed or interrupted run never leaves a partial file at
the destination.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./document-engine.yaml or ~/.config/document-engine/config.yaml)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress the progress bar")
	rootCmd.PersistentFlags().Bool("no-history", false, "do not record this operation in the history journal")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("document-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "document-engine"))
		}
	}

	viper.SetDefault("page_size", "a4")
	viper.SetDefault("orientation", "portrait")
	viper.SetDefault("margin", "none")
	viper.SetDefault("image_format", "png")
	viper.SetDefault("dpi", 150)
	viper.SetDefault("jpeg_quality", 95)
	viper.SetDefault("ocr.language", "eng")
	viper.SetDefault("ocr.mode", "balanced")
	viper.SetDefault("history.path", "")
	viper.SetDefault("history.disabled", false)

	viper.SetEnvPrefix("DOCUMENT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the resolved configuration, rejecting values the
// pipeline would choke on later.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()

	var err error
	if cfg.PageSize, err = types.ParsePageSize(viper.GetString("page_size")); err != nil {
		return cfg, fmt.Errorf("config page_size: %w", err)
	}
	if cfg.Orientation, err = types.ParseOrientation(viper.GetString("orientation")); err != nil {
		return cfg, fmt.Errorf("config orientation: %w", err)
	}
	if cfg.Margin, err = types.ParseMargin(viper.GetString("margin")); err != nil {
		return cfg, fmt.Errorf("config margin: %w", err)
	}
	if cfg.ImageFormat, err = types.ParseImageFormat(viper.GetString("image_format")); err != nil {
		return cfg, fmt.Errorf("config image_format: %w", err)
	}
	if dpi := viper.GetInt("dpi"); dpi > 0 {
		cfg.DPI = dpi
	}
	if q := viper.GetInt("jpeg_quality"); q > 0 {
		cfg.JPEGQuality = q
	}
	if lang := viper.GetString("ocr.language"); lang != "" {
		cfg.OCR.Language = lang
	}
	if cfg.OCR.Mode, err = types.ParseOCRMode(viper.GetString("ocr.mode")); err != nil {
		return cfg, fmt.Errorf("config ocr.mode: %w", err)
	}
	cfg.History.Path = viper.GetString("history.path")
	cfg.History.Disabled = viper.GetBool("history.disabled")

	if noHistory, _ := rootCmd.PersistentFlags().GetBool("no-history"); noHistory {
		cfg.History.Disabled = true
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
