package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/minibot/cmd/minibot/tui"
	"github.com/jamesainslie/minibot/pkg/minibot/config"
	"github.com/jamesainslie/minibot/pkg/minibot/deleter"
	"github.com/jamesainslie/minibot/pkg/minibot/logging"
	"github.com/jamesainslie/minibot/pkg/minibot/manifest"
	"github.com/jamesainslie/minibot/pkg/minibot/output"
	"github.com/jamesainslie/minibot/pkg/minibot/scanner"
	"github.com/jamesainslie/minibot/pkg/minibot/target"
	"github.com/jamesainslie/minibot/pkg/minibot/types"
)

// errQuit is returned by prompts when the user types q or quit.
var errQuit = errors.New("exiting application")

// watchFunc displays a running scan until it ends.
type watchFunc func(scan tui.Scan, root string) (cancelled bool, err error)

// session is one interactive run: prompt for a folder, scan, rank, export
// and delete, repeat.
type session struct {
	in      *bufio.Reader
	out     io.Writer
	cfg     *config.Config
	theme   output.Theme
	cwd     string
	opts    scanner.Options
	deleter deleter.Deleter
	history *manifest.Manifest
	watch   watchFunc
	log     *logging.Logger
}

// runSession starts the interactive session on the terminal.
func runSession(cmd *cobra.Command, cfg *config.Config, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	s := newSession(cfg, os.Stdin, os.Stdout, cwd)
	s.watch = func(scan tui.Scan, root string) (bool, error) {
		return tui.RunProgress(scan, root, s.theme, s.out)
	}

	if cfg.Manifest.Enabled {
		if s.history, err = manifest.New(cfg.Manifest.Path); err != nil {
			s.log.Warn("deletion history disabled", "error", err)
		}
	}

	// A path on the command line answers the first prompt.
	if len(args) > 0 {
		s.in = bufio.NewReader(io.MultiReader(strings.NewReader(args[0]+"\n"), os.Stdin))
	}

	return s.run(cmd.Context())
}

func newSession(cfg *config.Config, in io.Reader, out io.Writer, cwd string) *session {
	return &session{
		in:      bufio.NewReader(in),
		out:     out,
		cfg:     cfg,
		theme:   output.NewTheme(cfg.Colors.Primary),
		cwd:     cwd,
		opts:    scanOptions(cfg),
		deleter: deleter.Deleter{UseTrash: cfg.Delete.UseTrash},
		watch:   plainWatcher(out),
		log:     logging.Get("session"),
	}
}

// plainWatcher reports progress as text lines, for output that is not a
// terminal.
func plainWatcher(w io.Writer) watchFunc {
	return func(scan tui.Scan, _ string) (bool, error) {
		watchPlain(scan, w)
		return false, nil
	}
}

func (s *session) println(a ...any) { fmt.Fprintln(s.out, a...) }

func (s *session) printf(format string, a ...any) { fmt.Fprintf(s.out, format, a...) }

func (s *session) accent(text string) string { return s.theme.Title.Render(text) }

func (s *session) printHelp() {
	s.printf("\n%s\n", s.accent("Usage:"))
	s.println("  - Enter a path to scan for large files.")
	s.println("  - Type 'q' or 'quit' to exit the application at any prompt.")
	s.println("  - Type 'help' to display this help message again.")
	s.println()
}

// ask prompts until it gets an answer that is not "help". q and quit end
// the session unless allowQ is set, in which case "q" is returned as is.
// End of input also ends the session.
func (s *session) ask(prompt string, allowQ bool) (string, error) {
	for {
		fmt.Fprint(s.out, prompt)

		line, err := s.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			s.println()
			return "", errQuit
		}

		answer := strings.TrimSpace(line)
		switch strings.ToLower(answer) {
		case "help":
			s.printHelp()
			continue
		case "quit":
			return "", errQuit
		case "q":
			if allowQ {
				return "q", nil
			}
			return "", errQuit
		}
		return answer, nil
	}
}

// confirm asks a y/n question.
func (s *session) confirm(prompt string) (bool, error) {
	answer, err := s.ask(prompt, false)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// run loops over folders until the user is done.
func (s *session) run(ctx context.Context) error {
	s.printf("%s\n", s.accent("Hi there! I'm miniBot and I'm here to help you scan and delete big files in your system!"))
	s.printHelp()
	s.log.Info("session started", "cwd", s.cwd)

	for {
		again, err := s.round(ctx)
		if errors.Is(err, errQuit) {
			s.printf("\n%s.\n", "Exiting application")
			s.log.Info("session ended", "reason", "quit")
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			s.printf("\n%s\n", s.accent("Thanks for using miniBot! Goodbye!"))
			s.log.Info("session ended", "reason", "done")
			return nil
		}
	}
}

// round handles one folder. It returns whether to go on with another one.
func (s *session) round(ctx context.Context) (bool, error) {
	raw, err := s.ask(s.accent(fmt.Sprintf("Please enter the path you'd like me to scan (default: '%s'): ", s.cfg.DefaultPath)), false)
	if err != nil {
		return false, err
	}
	if raw == "" {
		raw = s.cfg.DefaultPath
	}

	root, err := target.Validate(raw, s.cwd)
	if err != nil {
		s.printf("%s\n", s.theme.Error.Render("Error: "+err.Error()))
		return true, nil
	}

	result, err := s.scan(ctx, root)
	if err != nil {
		return false, err
	}

	if len(result.Entries) == 0 {
		s.println("I couldn't find any files in that location. Maybe try another folder?")
		s.println()
		return true, nil
	}

	ws := deleter.NewWorkingSet(result.Entries)

	suffix, err := s.ask("Enter file type to filter (e.g., .pdf, .jpg), or press Enter to skip: ", false)
	if err != nil {
		return false, err
	}

	ranked := ws.Ranked(s.cfg.TopN, suffix)
	if len(ranked) == 0 {
		s.printf("No files ending in %q were found.\n", suffix)
	} else {
		s.printTable(ranked)
		if err := s.offerExport(ranked); err != nil {
			return false, err
		}
		if err := s.offerDelete(root, ws, suffix, ranked); err != nil {
			return false, err
		}
	}

	return s.confirm("\nWould you like to scan another folder? (y/n): ")
}

// scan runs one scan with progress display. A cancelled scan still returns
// the files found so far.
func (s *session) scan(ctx context.Context, root string) (*types.ScanResult, error) {
	s.printf("\n%s\n\n", s.accent(fmt.Sprintf("Scanning %s, please hold on...", root)))

	handle := scanner.Start(ctx, root, s.opts)
	if _, err := s.watch(handle, root); err != nil {
		handle.Cancel()
		handle.Result()
		return nil, err
	}
	result := handle.Result()

	if result.Cancelled {
		s.printf("\n%s\n", s.theme.Warning.Render(fmt.Sprintf(
			"Scan cancelled, showing partial results (%d of %d directories).",
			result.DirsScanned, result.DirsTotal)))
	} else {
		s.println("\nScan complete!")
	}
	if result.Skipped > 0 {
		s.printf("%s\n", s.theme.Muted.Render(fmt.Sprintf("%d entries could not be read and were skipped.", result.Skipped)))
	}
	s.printf("Found %d files (%s) in %s.\n\n",
		len(result.Entries), types.FormatSize(result.TotalSize()), output.FormatElapsed(result.Elapsed))

	return result, nil
}

func (s *session) printTable(ranked []types.FileEntry) {
	s.println(output.Table(ranked, s.theme))
}

func (s *session) offerExport(ranked []types.FileEntry) error {
	name := s.cfg.Export.Filename
	ok, err := s.confirm(fmt.Sprintf("Export this list to %s? (y/n): ", name))
	if err != nil || !ok {
		return err
	}

	if !filepath.IsAbs(name) {
		name = filepath.Join(s.cwd, name)
	}
	path, err := output.Export(name, ranked)
	if err != nil {
		s.printf("%s\n", s.theme.Error.Render("Export failed: "+err.Error()))
		return nil
	}
	s.printf("List exported to %s\n", path)
	return nil
}

// offerDelete runs the delete loop over the displayed ranking. Successful
// deletions are recorded in the history when the loop ends, including when
// the user quits the application from inside it.
func (s *session) offerDelete(root string, ws *deleter.WorkingSet, suffix string, ranked []types.FileEntry) error {
	ok, err := s.confirm("\nWould you like me to help you delete any of these files? (y/n): ")
	if err != nil || !ok {
		return err
	}

	var deleted []manifest.FileRecord
	defer func() { s.record(root, deleted) }()

	for {
		choice, err := s.ask("\nEnter the number of the file you want to delete (or 'q' to quit deleting): ", true)
		if err != nil {
			return err
		}
		if strings.EqualFold(choice, "q") {
			return nil
		}

		n, convErr := strconv.Atoi(choice)
		if convErr != nil {
			s.println("Invalid input. Please enter a number.")
			continue
		}
		if n < 1 || n > len(ranked) {
			s.println("Invalid number.")
			continue
		}

		entry := ranked[n-1]
		sure, err := s.confirm(fmt.Sprintf("Are you sure you want to delete '%s'? (y/n): ", entry.Path))
		if err != nil {
			return err
		}
		if !sure {
			s.println("Deletion cancelled.")
			continue
		}

		removed, msg := ws.Delete(s.deleter, entry)
		if !removed {
			s.printf("%s\n", s.theme.Error.Render(msg))
			continue
		}
		s.printf("%s\n", s.theme.Success.Render(msg))
		deleted = append(deleted, manifest.FileRecord{
			Path:      entry.Path,
			Size:      entry.Size,
			Trashed:   s.deleter.UseTrash,
			DeletedAt: time.Now(),
		})

		ranked = ws.Ranked(s.cfg.TopN, suffix)
		if len(ranked) == 0 {
			s.printf("\n%s\n", s.accent("All files have been processed!"))
			return nil
		}
		s.printf("\n%s\n", s.accent("Updated list of biggest files:"))
		s.printTable(ranked)
	}
}

// record appends a deletion batch to the history.
func (s *session) record(root string, files []manifest.FileRecord) {
	if s.history == nil || len(files) == 0 {
		return
	}
	entry, err := s.history.Record(root, files)
	if err != nil {
		s.log.Warn("failed to record deletions", "root", root, "error", err)
		return
	}
	s.log.Info("deletions recorded", "id", entry.ID, "files", len(files))
}
