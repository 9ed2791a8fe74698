package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/minibot/pkg/minibot/config"
	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/scanner"
	"github.com/jamesainslie/minibot/pkg/minibot/tuner"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "minibot [path]",
		Short: "Find and delete the largest files in a directory tree",
		Long: heredoc.Doc(`
			minibot scans a directory tree in parallel, ranks the files it finds
			by size and helps you export or delete the biggest ones.

			On a terminal, minibot starts an interactive session. With
			--no-interactive, or when a report format is chosen with --output,
			it prints a ranked report and exits.
		`),
		Example: heredoc.Doc(`
			minibot                        # interactive session
			minibot ~/Downloads -n         # top 20 files as a table
			minibot / -t 50 -o json        # top 50 files as JSON
			minibot . --ext .iso -o paths  # ISO images, one path per line
			minibot . -n --export big.xlsx # write the ranking to a workbook
			minibot history                # past deletions
		`),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ~/.config/minibot/config.yaml)")
	flags.IntP("workers", "w", 0, "override worker count (0=auto)")
	flags.StringSliceP("exclude", "e", nil, "exclude paths or glob patterns (can be repeated)")
	flags.BoolP("verbose", "v", false, "debug logging on stderr")
	flags.BoolP("quiet", "q", false, "minimal output")

	rootCmd.Flags().BoolP("no-interactive", "n", false, "print a report instead of starting a session")
	rootCmd.Flags().StringP("output", "o", "", "report format: csv, json, paths, plain, pretty, xlsx, yaml")
	rootCmd.Flags().IntP("top", "t", 0, "number of files to list (default from config, 20)")
	rootCmd.Flags().String("ext", "", "only list paths ending in this suffix, e.g. .pdf")
	rootCmd.Flags().String("export", "", "also export the ranking to a .csv or .xlsx file")
	rootCmd.Flags().Bool("trash", false, "move deleted files to the trash")
	rootCmd.Flags().StringP("min-size", "s", "", "ignore files smaller than this (e.g. 100M, 1G)")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError("%v", err)
	}
	_ = logging.Close()
	return err
}

// loadConfig reads the configuration and applies the persistent flags that
// were set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("exclude") {
		extra, _ := flags.GetStringSlice("exclude")
		cfg.Exclude = append(cfg.Exclude, extra...)
	}
	if flags.Lookup("top") != nil && flags.Changed("top") {
		if top, _ := flags.GetInt("top"); top > 0 {
			cfg.TopN = top
		}
	}
	if flags.Lookup("trash") != nil && flags.Changed("trash") {
		cfg.Delete.UseTrash, _ = flags.GetBool("trash")
	}
	if flags.Lookup("min-size") != nil && flags.Changed("min-size") {
		cfg.MinSize, _ = flags.GetString("min-size")
	}

	return cfg, nil
}

// initLogging starts file logging. interactive keeps stderr clear for the
// session; --verbose mirrors debug records to stderr otherwise.
func initLogging(cmd *cobra.Command, cfg *config.Config, interactive bool) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	rotation := logging.DefaultRotationConfig()
	if cfg.Logging.Rotation.MaxSize != "" {
		size, err := types.ParseSize(cfg.Logging.Rotation.MaxSize)
		if err != nil {
			return fmt.Errorf("invalid logging.rotation.max_size %q: %w", cfg.Logging.Rotation.MaxSize, err)
		}
		rotation.MaxSize = size
	}
	rotation.MaxAge = cfg.Logging.Rotation.MaxAge
	rotation.MaxBackups = cfg.Logging.Rotation.MaxBackups
	rotation.Daily = cfg.Logging.Rotation.Daily

	level := cfg.Logging.Level
	console := "error"
	switch {
	case verbose:
		level, console = "debug", "debug"
	case quiet:
		console = ""
	}

	return logging.Init(logging.Config{
		Level:        level,
		Path:         cfg.Logging.Path,
		Rotation:     rotation,
		Components:   cfg.Logging.Components,
		ConsoleLevel: console,
		Interactive:  interactive,
	})
}

// scanOptions turns the configuration into scanner options.
func scanOptions(cfg *config.Config) scanner.Options {
	opts := scanner.DefaultOptions()
	opts.Workers = tuner.Workers(cfg.Workers)
	opts.Exclude = cfg.Exclude
	return opts
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runRoot starts the interactive session or prints a report.
func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	noInteractive, _ := cmd.Flags().GetBool("no-interactive")
	format, _ := cmd.Flags().GetString("output")

	interactive := !noInteractive && format == "" && isTerminal(os.Stdin) && isTerminal(os.Stdout)
	if err := initLogging(cmd, cfg, interactive); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Get("session").Debug("configuration loaded", "file", cfg.File, "interactive", interactive)

	if interactive {
		return runSession(cmd, cfg, args)
	}
	return runReport(cmd, cfg, args)
}

// quiet returns true if quiet mode is enabled.
func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

// printInfo prints a message to stderr unless quiet mode is enabled.
func printInfo(cmd *cobra.Command, format string, args ...any) {
	if !quiet(cmd) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, "Error: "+strings.TrimPrefix(msg, "Error: "))
}
