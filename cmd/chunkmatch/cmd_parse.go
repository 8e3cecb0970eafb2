package main

import (
	"encoding/json"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newParseCmd(conf *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <glob>...",
		Short: "Match files and print matched values",
		Long: `Match every file with the selected grammar and print the results.

Grammars:
  conf   INI-style configuration, the value is a map of keys to values
  calc   calculator statements, the value is the list of results
  words  delimited word list, the value is the list of words

Examples:
  chunkmatch parse --grammar conf 'etc/**/*.ini'
  chunkmatch parse --grammar calc --output json sums.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, conf, args)
		},
	}

	cmd.Flags().StringP(outputFlag, "o", "yaml", "output format: yaml or json")
	return cmd
}

func runParse(cmd *cobra.Command, conf *viper.Viper, patterns []string) error {
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

	failed := 0
	for _, res := range results {
		res.Bytes = humanize.Bytes(res.size)
		if res.err != nil {
			res.Error = res.err.Error()
			failed++
		}
	}

	if err := writeResults(cmd.OutOrStdout(), conf.GetString(outputFlag), results); err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func writeResults(w io.Writer, format string, results []*result) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encode json")
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
