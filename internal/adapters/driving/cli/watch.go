package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new documents",
	Long: `Watches a directory and ingests files with supported extensions as
they are created or modified. Hidden files and office lock files (~$...)
are ignored. Writes are debounced so partially written files are not
picked up mid-copy.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "wait this long after the last write before ingesting")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}
	if extractorRegistry == nil {
		return errors.New("extractors not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort cleanup

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	supported := extractorRegistry.SupportedExtensions()
	cmd.Printf("Watching %s (%s). Press Ctrl-C to stop.\n", dir, strings.Join(supported, ", "))

	ctx := cmd.Context()

	// Debounce per path so a file is ingested once its writer goes quiet.
	ready := make(chan string, 16)
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !eligibleForIngest(event.Name, supported) {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}

			path := event.Name
			if t, exists := timers[path]; exists {
				t.Reset(watchDebounce)
				continue
			}
			timers[path] = time.AfterFunc(watchDebounce, func() {
				ready <- path
			})

		case path := <-ready:
			delete(timers, path)
			entry, err := ingestFile(ctx, path)
			if err != nil {
				cmd.PrintErrf("Error: %s: %v\n", path, err)
				continue
			}
			cmd.Printf("Ingested %s (%d chunks, %s)\n", entry.FileName, len(entry.Chunks), formatByteSize(entry.ByteSize))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("Watcher error: %v\n", err)
		}
	}
}

// eligibleForIngest reports whether the watcher should pick a path up:
// supported extension, not hidden, not an office lock file.
func eligibleForIngest(path string, supported []string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(base))
	for _, s := range supported {
		if ext == s {
			return true
		}
	}
	return false
}
