package main

import (
	"fmt"
	"io"
	"os"

	"github.com/IvanShishkin/unixfiles/internal/config"
	"github.com/IvanShishkin/unixfiles/internal/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootCmd creates the enumeration command
func rootCmd() *cobra.Command {
	var (
		outputFile   string
		host         string
		fetched      string
		lenientPaths bool
		flushEach    bool
	)

	cmd := &cobra.Command{
		Use:   "unixfiles [root...]",
		Short: "List file metadata under directory trees as a JSON array",
		Long: `Recursively enumerate every file under the given roots and write one JSON
array of records (path, size, timestamps, permissions, owner, group) to
standard output or a file. Directories are traversed, never listed, and
symbolic links are not followed.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize logger based on verbose flag
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				// Silent logger - only errors
				cfg := zap.Config{
					Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
					Encoding:         "json",
					OutputPaths:      []string{"stderr"},
					ErrorOutputPaths: []string{"stderr"},
					EncoderConfig:    zap.NewProductionEncoderConfig(),
				}
				logger, err = cfg.Build()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			// Load configuration
			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Override config with CLI flags
			if cmd.Flags().Changed("output") {
				cfg.Output = outputFile
			}
			if host != "" {
				cfg.Host = host
			}
			if fetched != "" {
				cfg.Fetched = fetched
			}
			if lenientPaths {
				cfg.StrictPaths = false
			}
			if flushEach {
				cfg.FlushEach = true
			}

			roots := args
			if len(roots) == 0 {
				roots = cfg.Roots
			}

			sink, closeSink, err := openOutput(cfg)
			if err != nil {
				return err
			}

			scanner := core.NewScanner(cfg, logger)
			_, scanErr := scanner.Scan(roots, sink)
			closeErr := closeSink()
			if scanErr != nil {
				return scanErr
			}
			if closeErr != nil {
				return fmt.Errorf("failed to close output: %w", closeErr)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging on stderr")
	cmd.Flags().StringVarP(&outputFile, "output", "o", config.StdoutPath, "Output file path (- for standard output)")
	cmd.Flags().StringVar(&host, "host", "", "Host name stamped on every record (default: this machine's hostname)")
	cmd.Flags().StringVar(&fetched, "fetched", "", "Fetch timestamp stamped on every record (default: scan start, RFC 3339)")
	cmd.Flags().BoolVar(&lenientPaths, "lenient-paths", false, "Skip paths that are not valid UTF-8 instead of failing")
	cmd.Flags().BoolVar(&flushEach, "flush-each", false, "Flush the output after every record")

	return cmd
}

// openOutput returns the sink selected by the configuration and a function
// releasing it
func openOutput(cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.WritesToStdout() {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
