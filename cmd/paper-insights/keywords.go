// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords <paper-id>",
	Short: "Print the main keywords of an arXiv paper",
	Long: `Keywords looks the paper up on arXiv, downloads its PDF to a scratch
directory, extracts the text, renders a word cloud, ranks keywords with RAKE
and removes the download. The word cloud path is printed on stderr.

Accepts new-style (2301.07041) and old-style (hep-th/9901001) identifiers,
with or without an "arXiv:" prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywords,
}

func init() {
	keywordsCmd.Flags().IntP("count", "n", 0, "number of keywords (default 20)")
	keywordsCmd.Flags().String("backend", "", "text extraction backend: native, pdftotext or markitdown")
	keywordsCmd.Flags().String("runtime", "", "container runtime for markitdown: docker or podman")
	keywordsCmd.Flags().StringP("output", "o", formatText, "output format: text, json or yaml")

	viper.BindPFlag("keywords.count", keywordsCmd.Flags().Lookup("count"))
	viper.BindPFlag("keywords.backend", keywordsCmd.Flags().Lookup("backend"))
	viper.BindPFlag("keywords.runtime", keywordsCmd.Flags().Lookup("runtime"))

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")
	ctx := cmd.Context()

	cfg := loadConfig()
	extractor, _, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := extractor.Run(ctx, args[0], cfg.Keywords.Count)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Word cloud: %s\n", res.WordCloud)
	return writeOutput(cmd.OutOrStdout(), format, res.String(), res)
}
