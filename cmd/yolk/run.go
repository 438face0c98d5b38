package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/yolk/internal/bundle"
	"github.com/vovakirdan/yolk/internal/config"
	"github.com/vovakirdan/yolk/internal/core"
	"github.com/vovakirdan/yolk/internal/engine"
	"github.com/vovakirdan/yolk/internal/platform"
	"github.com/vovakirdan/yolk/internal/platform/tui"
)

// recordDefault is the value a bare -r sets. A NUL byte cannot appear in
// a path, so only the bare flag produces it; the path then comes from the
// config's default_record_path.
const recordDefault = "\x00"

func run(cmd *cobra.Command, args []string) (int, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return 1, err
	}
	overrides := config.Overrides{
		Debug:    flagDebug,
		Lockstep: flagLockstep,
		NoAudio:  flagNoAudio,
	}
	if cmd.Flags().Changed("buffer") {
		overrides.BufferShift = &flagBuffer
	}
	if cmd.Flags().Changed("initial-heap") {
		overrides.InitialHeapMB = &flagInitialHeap
	}
	overrides.Apply(&cfg)

	// Both script VMs allocate on the Go heap
	ballast := heapBallast(cfg.Script.InitialHeapMB)
	defer runtime.KeepAlive(ballast)

	recordPath := recordTarget(flagRecord, cfg.Capture.DefaultRecordPath)

	logOut, closeLog, err := logOutput()
	if err != nil {
		return 1, err
	}
	defer closeLog()
	logger := newLogger(logOut, cfg.Debug)

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	entry, err := bundle.Resolve("", arg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		_ = cmd.Usage()
		return 1, nil
	}
	logger.Info("starting", "version", version, "entry", entry.Name, "kind", entry.Kind, "base", entry.BaseDir)

	var window platform.Window
	if flagHeadless {
		window = platform.NewHeadless(platform.HeadlessOptions{
			Width:     core.GameWidth * cfg.Window.Scale,
			Height:    core.GameHeight * cfg.Window.Scale,
			MaxFrames: flagFrames,
			VSync:     cfg.Window.VSync,
		})
	} else {
		window = tui.New(tui.Options{Title: cfg.Window.Title, Logger: logger})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return engine.Run(ctx, engine.Options{
		Entry:      entry,
		Window:     window,
		Config:     cfg,
		RecordPath: recordPath,
		Logger:     logger,
	})
}

// recordTarget maps the -r value to the recording path.
func recordTarget(flag, configured string) string {
	if flag == recordDefault {
		return configured
	}
	return flag
}

// logOutput picks where logs go. The terminal backend owns the screen, so
// it logs to a file.
func logOutput() (io.Writer, func(), error) {
	if flagHeadless && flagLogFile == "" {
		return os.Stderr, func() {}, nil
	}
	path := flagLogFile
	if path == "" {
		path = filepath.Join(os.TempDir(), "yolk.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func newLogger(w io.Writer, debugLevel bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "yolk",
	})
	if debugLevel {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
