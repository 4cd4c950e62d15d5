package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tattletale/internal/report"
)

// watchDebounce coalesces the burst of write events hashcat produces while
// appending to a potfile.
const watchDebounce = 500 * time.Millisecond

// watchCmd re-runs the full analysis and reprints the summary whenever a
// potfile changes. Useful for following a live crack session; every reload is
// a complete pass over the inputs, nothing is incremental.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis whenever a potfile changes",
	Long: `Watches the directories containing the given potfiles and re-runs the
full load and summary whenever one of them is written to. Stop with Ctrl-C.

Example:
  tattletale watch -d ntds.txt -p hashcat.potfile -t targets.txt`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	pots, tgts, err := verifyInputs()
	if err != nil {
		logger.Error("input validation failed", zap.Error(err))
		os.Exit(2)
	}
	if len(pots) == 0 {
		logger.Error("watch mode requires at least one existing potfile (-p/--potfiles)")
		os.Exit(2)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories: editors and hashcat replace files, which
	// drops watches registered on the files themselves.
	watched := make(map[string]bool, len(pots))
	for _, path := range pots {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
	}

	reload := func() {
		eng, err := load(cmd, pots, tgts)
		if err != nil {
			logger.Error("reload failed", zap.Error(err))
			return
		}
		fmt.Println(report.RenderSummaryWithTop(eng, cfg.Report.TopPasswords))
	}
	reload()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("potfile changed", zap.String("path", abs), zap.String("op", event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-sigCh:
			logger.Info("watch stopped")
			return nil
		case <-cmd.Context().Done():
			return nil
		}
	}
}
