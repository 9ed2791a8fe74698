package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/minibot/cmd/minibot/tui"
	"github.com/jamesainslie/minibot/pkg/minibot/config"
	"github.com/jamesainslie/minibot/pkg/minibot/deleter"
	"github.com/jamesainslie/minibot/pkg/minibot/filter"
	"github.com/jamesainslie/minibot/pkg/minibot/output"
	"github.com/jamesainslie/minibot/pkg/minibot/scanner"
	"github.com/jamesainslie/minibot/pkg/minibot/target"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// reportOptions collects everything runReport needs besides the config.
type reportOptions struct {
	format string
	suffix string
	export string
	quiet  bool
}

// runReport scans one directory and prints the ranking in the chosen format.
func runReport(cmd *cobra.Command, cfg *config.Config, args []string) error {
	raw := cfg.DefaultPath
	if len(args) > 0 {
		raw = args[0]
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	root, err := target.Validate(raw, cwd)
	if err != nil {
		return err
	}

	opts := reportOptions{quiet: quiet(cmd)}
	opts.format, _ = cmd.Flags().GetString("output")
	opts.suffix, _ = cmd.Flags().GetString("ext")
	opts.export, _ = cmd.Flags().GetString("export")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printInfo(cmd, "Scanning %s...", root)
	return report(ctx, cfg, root, opts, os.Stdout, os.Stderr)
}

// report runs the scan and writes the formatted ranking to out. Progress and
// notices go to errOut.
func report(ctx context.Context, cfg *config.Config, root string, opts reportOptions, out, errOut io.Writer) error {
	format := opts.format
	if format == "" {
		format = "pretty"
	}
	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", format, output.Available())
	}
	if pretty, ok := formatter.(*output.PrettyFormatter); ok {
		pretty.Theme = output.NewTheme(cfg.Colors.Primary)
	}

	var minSize int64
	if cfg.MinSize != "" {
		minSize, err = types.ParseSize(cfg.MinSize)
		if err != nil {
			return fmt.Errorf("invalid min-size %q: %w", cfg.MinSize, err)
		}
	}

	handle := scanner.Start(ctx, root, scanOptions(cfg))
	if !opts.quiet {
		watchPlain(handle, errOut)
	}
	result := handle.Result()

	// Path order first so equal sizes always rank the same way.
	entries := deleter.NewWorkingSet(result.Entries).Entries()
	ranked := filter.New(
		filter.WithLimit(cfg.TopN),
		filter.WithSuffix(opts.suffix),
		filter.WithMinSize(minSize),
	).Apply(entries)

	r := output.NewReport(result, ranked)
	r.Suffix = opts.suffix

	var buf bytes.Buffer
	if err := formatter.Format(&buf, r); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		return err
	}

	if opts.export != "" {
		path, err := output.Export(opts.export, ranked)
		if err != nil {
			return err
		}
		if !opts.quiet {
			fmt.Fprintf(errOut, "List exported to %s\n", path)
		}
	}

	return nil
}

// watchPlain writes a progress line to w every time another tenth of the
// directories is done, then blocks until the scan ends.
func watchPlain(scan tui.Scan, w io.Writer) {
	ticker := time.NewTicker(tui.PollInterval)
	defer ticker.Stop()

	lastDecile := int64(-1)
	emit := func() {
		completed, total := scan.Progress()
		if total == 0 {
			return
		}
		decile := completed * 10 / total
		if decile == lastDecile {
			return
		}
		lastDecile = decile
		fmt.Fprintf(w, "%.2f%% complete (%d/%d directories)\n",
			float64(completed)/float64(total)*100, completed, total)
	}

	for {
		select {
		case <-scan.Done():
			emit()
			return
		case <-ticker.C:
			emit()
		}
	}
}
