package main

import (
	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/pkg/dictionary"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dataPath   string
	debugMode  bool
	maxCost    int
	limit      int
	prefixOnly bool
	watch      bool
	logFile    string
	chunkSize  int

	rootCmd = &cobra.Command{
		Use:   AppName,
		Short: "Inline word completion with ghost text, served over msgpack IPC",
		Long: `typeahead ranks vocabulary words against the word being typed and keeps
a ghost prediction and a ranked suggestion list in step with every keystroke.

Without a subcommand it serves one session over stdin/stdout.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(debugMode)
		},
		RunE: runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve a session over msgpack on stdin/stdout (default)",
		RunE:  runServe,
	}

	cliCmd = &cobra.Command{
		Use:     "cli",
		Short:   "Type lines and commands against a session, for debugging",
		Aliases: []string{"c"},
		RunE:    runCLI,
	}

	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal front-end with mouse hover and click",
		RunE:  runTUI,
	}

	convertCmd = &cobra.Command{
		Use:   "convert <word-list> <out-dir>",
		Short: "Normalize a word list and write it as dict_NNNN.bin chunks",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Run:   runVersion,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect or rewrite the config file",
	}
	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		RunE:  runConfigPath,
	}
	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Overwrite the default config file with defaults",
		RunE:  runConfigInit,
	}
	configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Save --max-cost, --limit and --prefix-only into the config file",
		RunE:  runConfigSet,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to a config file (default: user config dir)")
	pf.StringVar(&dataPath, "data", "", "Word list: .txt, .csv, .bin chunk or a directory of chunks")
	pf.BoolVarP(&debugMode, "debug", "d", false, "Toggle debug logging")
	pf.IntVar(&maxCost, "max-cost", 2, "Most edits a correction may need")
	pf.IntVar(&limit, "limit", 5, "Number of suggestions to keep")
	pf.BoolVar(&prefixOnly, "prefix-only", false, "Only suggest exact continuations")
	pf.BoolVarP(&watch, "watch", "w", false, "Reload the word list when it changes")

	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the tui owns the terminal")
	convertCmd.Flags().IntVar(&chunkSize, "chunk-size", dictionary.DefaultChunkSize, "Words per chunk file")

	rootCmd.AddCommand(serveCmd, cliCmd, tuiCmd, convertCmd, versionCmd, configCmd)
	configCmd.AddCommand(configPathCmd, configInitCmd, configSetCmd)
}
