package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/axtree/internal/logger"
	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/batch"
)

var (
	// Global flags
	verbose       bool
	quiet         bool
	jsonOut       bool
	logLevel      string
	logFile       string
	limitsName    string
	inputFormat   string
	inputEncoding string

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "axtreectl",
	Short: "Replay and inspect accessibility tree update batches",
	Long: `axtreectl builds an accessibility tree by applying update batches read
from JSON or YAML files, in order, and reports on the result. Every batch is
validated before it touches the tree; a malformed batch leaves the tree as it
was.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); empty disables logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&limitsName, "limits", "default", "Update limits preset (default, strict, none)")
	rootCmd.PersistentFlags().StringVar(&inputFormat, "format", "auto", "Batch file format (auto, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&inputEncoding, "encoding", "utf-8", "Batch file encoding (utf-8, utf-16le, utf-16be, windows-1252)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func setupLogging() error {
	if logLevel == "" && logFile == "" {
		return nil
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	closeLog, err = logger.Init(logger.Options{
		Enabled: true,
		Level:   level,
		JSON:    jsonOut,
		File:    logFile,
	})
	return err
}

// treeOptions builds tree options from the global flags.
func treeOptions(observer axtree.Observer) (axtree.Options, error) {
	opts := axtree.DefaultOptions()
	limits, err := parseLimits(limitsName)
	if err != nil {
		return opts, err
	}
	opts.Limits = limits
	opts.Logger = logger.L
	opts.Observer = observer
	return opts, nil
}

func parseLimits(name string) (axtree.Limits, error) {
	switch strings.ToLower(name) {
	case "", "default":
		return axtree.DefaultLimits(), nil
	case "strict":
		return axtree.StrictLimits(), nil
	case "none":
		return axtree.NoLimits(), nil
	default:
		return axtree.Limits{}, fmt.Errorf("unknown limits preset %q (want default, strict or none)", name)
	}
}

// batchOptions builds decoder options from the global flags.
func batchOptions() (batch.Options, error) {
	opts := batch.DefaultOptions()
	format, err := batch.ParseFormat(inputFormat)
	if err != nil {
		return opts, err
	}
	encoding, err := batch.ParseEncoding(inputEncoding)
	if err != nil {
		return opts, err
	}
	opts.Format = format
	opts.Encoding = encoding
	return opts, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
