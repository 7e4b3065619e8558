package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/document-engine/internal/compress"
	"github.com/pdiddy/document-engine/internal/source"
)

var infoCmd = &cobra.Command{
	Use:   "info [documents...]",
	Short: "Show page count, size, and format version of PDF documents",
	Long: `Info reads each document's structure and prints its page count, file
size, and PDF version. A document that cannot be read is reported and the
rest are still shown. Info changes nothing and is not journaled.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more PDF documents")
	}

	infos := make([]source.Info, 0, len(args))
	failed := 0
	for _, path := range args {
		info, err := source.Describe(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "info: %v\n", err)
			failed++
			continue
		}
		infos = append(infos, info)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatInfoOutput(infos, jsonOutput); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) could not be read", failed)
	}
	return nil
}

func formatInfoOutput(infos []source.Info, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if len(infos) == 0 {
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-6s  %-10s  %-8s  %s\n",
		"Pages", "Size", "Version", "Document")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 70))

	for _, info := range infos {
		fmt.Fprintf(os.Stdout, "%-6d  %-10s  %-8s  %s\n",
			info.Pages, compress.FormatSize(info.SizeBytes), info.Version, info.Path)
	}

	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(infos))
	return nil
}
