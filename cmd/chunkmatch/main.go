/*
chunkmatch is a console utility running stock grammars over files. Files are read in chunks
and matched incrementally, several files are processed concurrently.
Usage is

	chunkmatch parse [--grammar conf|calc|words] [--output yaml|json] <glob>...
	chunkmatch check [--grammar conf|calc|words] <glob>...

Common flags:

--chunk-size <n> defines the number of bytes read at once;

--jobs <n> defines the number of files processed concurrently;

-v (repeatable) increases log verbosity.

Globs support ** patterns. Every flag may also be set with CHUNKMATCH_<FLAG> environment variable,
e.g. CHUNKMATCH_CHUNK_SIZE=16.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

const (
	chunkSizeFlag = "chunk-size"
	jobsFlag      = "jobs"
	verboseFlag   = "verbose"
	grammarFlag   = "grammar"
	outputFlag    = "output"
	prefixFlag    = "prefix"
	separatorFlag = "separator"
	postfixFlag   = "postfix"
)

func newRootCmd(conf *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chunkmatch",
		Short:         "Match files with stock incremental grammars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := conf.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			commonlog.Configure(conf.GetInt(verboseFlag), nil)
			return nil
		},
	}

	addFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(newParseCmd(conf))
	rootCmd.AddCommand(newCheckCmd(conf))
	return rootCmd
}

func addFlags(flags *pflag.FlagSet) {
	flags.Int(chunkSizeFlag, 4096, "number of bytes read at once")
	flags.Int(jobsFlag, 4, "number of files processed concurrently")
	flags.CountP(verboseFlag, "v", "increase log verbosity")
	flags.String(grammarFlag, "conf", "grammar: conf, calc, or words")
	flags.String(prefixFlag, "[", "words list prefix")
	flags.String(separatorFlag, ",", "words list separator")
	flags.String(postfixFlag, "]", "words list postfix")
}

func newConfig() *viper.Viper {
	conf := viper.New()
	conf.SetEnvPrefix("CHUNKMATCH")
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	conf.AutomaticEnv()
	return conf
}

func main() {
	if err := newRootCmd(newConfig()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
