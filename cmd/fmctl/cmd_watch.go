package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/se-sic/vara-feature-go/internal/logging"
	fm "github.com/se-sic/vara-feature-go/pkg/featuremodel"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a constraint file and reparse it on every change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

// fileWatcher debounces fsnotify events for a single file so a burst of
// writes from an editor's save produces one reparse instead of several.
type fileWatcher struct {
	mu          sync.Mutex
	path        string
	watcher     *fsnotify.Watcher
	debounceAt  time.Time
	debounceDur time.Duration
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	fw := &fileWatcher{path: path, watcher: w, debounceDur: 200 * time.Millisecond}

	out := cmd.OutOrStdout()
	log := logging.For(logging.CategoryCLI)
	log.Info("watching constraint file", zap.String("path", path))
	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", path)

	fw.reparse(out)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			fw.handleEvent(event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		case <-ticker.C:
			fw.maybeReparse(out)
		}
	}
}

func (fw *fileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	fw.mu.Lock()
	fw.debounceAt = time.Now()
	fw.mu.Unlock()
}

func (fw *fileWatcher) maybeReparse(out io.Writer) {
	fw.mu.Lock()
	due := !fw.debounceAt.IsZero() && time.Since(fw.debounceAt) >= fw.debounceDur
	if due {
		fw.debounceAt = time.Time{}
	}
	fw.mu.Unlock()
	if due {
		fw.reparse(out)
	}
}

// reparse re-parses the watched file as a constraint over the cross-tree
// seed's "a"/"b" features, rebuilds that seed under the fresh constraint,
// and streams its configurations as JSON Lines — the same enumerate path
// runEnumerate uses, just re-run on every settled write.
func (fw *fileWatcher) reparse(out io.Writer) {
	log := logging.For(logging.CategoryCLI)
	content, err := os.ReadFile(fw.path)
	if err != nil {
		fmt.Fprintf(out, "read error: %v\n", err)
		log.Warn("read failed", zap.Error(err))
		return
	}
	expr, err := fm.ParseConstraint(string(content))
	if err != nil {
		fmt.Fprintf(out, "parse error: %v\n", err)
		log.Warn("parse failed", zap.Error(err))
		return
	}
	fmt.Fprintf(out, "constraint: %s\n", expr.String())

	m, err := buildCrossTreeWithConstraint(expr)
	if err != nil {
		fmt.Fprintf(out, "build error: %v\n", err)
		log.Warn("rebuild failed", zap.Error(err))
		return
	}

	s := fm.NewNaiveSolver()
	if err := fm.Translate(m, s); err != nil {
		fmt.Fprintf(out, "translate error: %v\n", err)
		log.Warn("translate failed", zap.Error(err))
		return
	}

	enum := fm.NewEnumerator(s)
	for {
		config, err := enum.Next()
		if err != nil {
			if kind, ok := fm.KindOf(err); ok && kind == fm.ErrUnsat {
				return
			}
			fmt.Fprintf(out, "enumerate error: %v\n", err)
			log.Warn("enumerate failed", zap.Error(err))
			return
		}
		data, err := json.Marshal(config)
		if err != nil {
			fmt.Fprintf(out, "marshal error: %v\n", err)
			return
		}
		fmt.Fprintln(out, string(data))
	}
}
