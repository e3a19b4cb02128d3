package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/vsrg-tools/qualint/internal/cli/output"
)

// watchDebounce batches rapid editor saves into one re-check.
const watchDebounce = 100 * time.Millisecond

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	Severity string // Minimum severity: error, warning, info
}

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	opts := &WatchOptions{}
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-check maps whenever they change",
		Long: `Watch a directory and re-run AutoMod checks on maps as they change.

Runs a full check on startup, then re-checks each .qua file whenever it
is saved. New subdirectories are picked up automatically. Watch mode
never records history; run check for a result worth keeping.

Press Ctrl+C to stop.`,
		Example: `  # Watch the configured maps directory
  qualint watch

  # Watch one mapset
  qualint watch songs/artist-title

  # Only report errors while editing
  qualint watch --severity error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runWatch(cmd, path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Severity, "severity", "info", "Minimum severity: error, warning, info")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, opts *WatchOptions) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if path == "" {
		path = cfg.MapsDir
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch needs a directory: %s", path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDir(watcher, path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &mapWatcher{
		watcher:  watcher,
		renderer: r,
		jobs:     cfg.Jobs,
		severity: opts.Severity,
		pending:  make(map[string]struct{}),
	}

	r.Printf("Watching %s for map changes\n", path)
	r.Println(r.Styles().Muted.Render("Press Ctrl+C to stop"))
	r.Println("")

	// Full pass over everything already there
	files, err := discoverMaps([]string{path})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Warning("No map files found")
	} else {
		w.check(ctx, files)
	}

	w.loop(ctx)

	r.Println("")
	r.Println("Stopped watching")
	return nil
}

// watchDir recursively adds a directory tree to the watcher. Hidden
// directories are skipped.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if name := info.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// mapWatcher re-checks maps as the filesystem reports changes.
type mapWatcher struct {
	watcher  *fsnotify.Watcher
	renderer *output.Renderer
	jobs     int
	severity string

	pendingMu sync.Mutex
	pending   map[string]struct{}

	// runMu serializes check runs so overlapping flushes cannot
	// interleave their output.
	runMu sync.Mutex
}

// loop handles file system events until the context is canceled.
func (w *mapWatcher) loop(ctx context.Context) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only handle write/create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// New directories need watching too
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDir(w.watcher, event.Name)
					continue
				}
			}

			if filepath.Ext(event.Name) != ".qua" {
				continue
			}

			w.pendingMu.Lock()
			w.pending[event.Name] = struct{}{}
			w.pendingMu.Unlock()

			// Debounce re-checks
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				w.flush(ctx)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.renderer.Warning(fmt.Sprintf("watch error: %v", err))
		}
	}
}

// flush re-checks every map that changed since the last run.
func (w *mapWatcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	files := make([]string, 0, len(w.pending))
	for f := range w.pending {
		files = append(files, f)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(files) == 0 || ctx.Err() != nil {
		return
	}
	sort.Strings(files)

	label := filepath.Base(files[0])
	if len(files) > 1 {
		label = fmt.Sprintf("%d maps", len(files))
	}
	w.renderer.Printf("Change detected: %s\n", label)

	w.check(ctx, files)
}

func (w *mapWatcher) check(ctx context.Context, files []string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	results := checkMaps(ctx, files, w.jobs)
	for i := range results {
		results[i].Issues = actionableIssues(results[i].Issues)
	}

	displayed := filterBySeverity(results, w.severity)
	renderCheckResults(w.renderer, displayed, len(results))
	w.renderer.Println("")
}
