package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ava12/chunkparse/report"
)

func newCheckCmd(conf *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check <glob>...",
		Short: "Match files and report failures",
		Long: `Match every file with the selected grammar and print failures
with the offending source line. Exits with non-zero status if any file fails.

Examples:
  chunkmatch check 'conf/**/*.ini'
  CHUNKMATCH_GRAMMAR=words chunkmatch check lists/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, conf, args)
		},
	}
}

func runCheck(cmd *cobra.Command, conf *viper.Viper, patterns []string) error {
	fn, err := selectGrammar(conf)
	if err != nil {
		return err
	}
	files, err := expandGlobs(patterns)
	if err != nil {
		return err
	}
	results, err := matchFiles(cmd.Context(), files, fn, conf)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	var total uint64
	failed := 0
	for _, res := range results {
		total += res.size
		if res.err == nil {
			continue
		}
		failed++
		if err := report.Render(w, res.stream, res.err); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "checked %d files (%s), %d failed\n", len(results), humanize.Bytes(total), failed)
	if failed > 0 {
		return errors.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
