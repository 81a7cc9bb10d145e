package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuanying/mobi2text/internal/extract"
)

var rootCmd = &cobra.Command{
	Use:   "mobi2text",
	Short: "Extract text and metadata from MOBI ebooks",
	Long: `mobi2text decodes legacy MOBI (PalmDoc) ebooks into plain text.

It parses the Palm Database container directly, decompresses the text
records, and writes the assembled book text along with its metadata.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		outputPath, _ := cmd.Flags().GetString("output")
		coversDir, _ := cmd.Flags().GetString("covers")

		if outputPath == "" {
			outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".txt"
		}

		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		opts := extract.Options{Source: inputPath}
		if coversDir != "" {
			if err := os.MkdirAll(coversDir, 0o755); err != nil {
				return fmt.Errorf("failed to create covers directory: %w", err)
			}
			opts.Covers = extract.FileCoverStore{Dir: coversDir}
		}

		b, err := extract.Parse(data, opts)
		if err != nil {
			return fmt.Errorf("decode failed: %w", err)
		}

		if err := os.WriteFile(outputPath, []byte(b.FullText), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}

		log.Printf("Title:    %s", orUnknown(b.Title))
		log.Printf("Author:   %s", orUnknown(b.Author))
		log.Printf("Language: %s", b.Language)
		log.Printf("Chapters: %d", len(b.Chapters))
		if b.CoverImagePath != "" {
			log.Printf("Cover:    %s", b.CoverImagePath)
		}
		log.Printf("Done: %s", outputPath)
		return nil
	},
}

func orUnknown(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "Output text file path (default: input with .txt extension)")
	rootCmd.Flags().String("covers", "", "Directory to store a recovered cover image (optional)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
