// zenoprobe - Quantum Battleship, Zeno edition
//
// Each square of the board is scanned by a probe qubit that is rotated
// towards |1⟩ in small steps. A ship entangles with the probe on every step,
// which keeps resetting it (the quantum Zeno effect), so a ship can be found
// without being hit.
//
// Modes:
//   - tui: interactive bubbletea board
//   - plain: line-mode shell for dumb terminals and pipes
//   - report: batch histograms, circuits and counts for several depths
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Config file path (default: ./zenoprobe.yaml)")
	initConfig := flag.Bool("init", false, "Initialize default config file")
	mode := flag.String("mode", "", "Run mode: tui, plain or report (default: tui on a terminal, plain otherwise)")
	reps := flag.Int("reps", 0, "Peeks per scan (overrides game.repetitions)")
	shots := flag.Int("shots", 0, "Shots per report histogram (overrides report.shots)")
	seed := flag.Uint64("seed", 0, "Sampler seed, 0 seeds from the clock (overrides sampler.seed)")
	out := flag.String("out", "", "Report output directory (overrides report.output_dir)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("zenoprobe %s\n", version)
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = DefaultConfigPath()
	}

	if *initConfig {
		if err := InitConfig(cfgPath); err != nil {
			fmt.Printf("Failed to initialize config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config initialized at: %s\n", cfgPath)
		os.Exit(0)
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *reps > 0 {
		cfg.Game.Repetitions = *reps
	}
	if *shots > 0 {
		cfg.Report.Shots = *shots
	}
	if *seed != 0 {
		cfg.Sampler.Seed = *seed
	}
	if *out != "" {
		cfg.Report.OutputDir = *out
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	runMode := *mode
	if runMode == "" {
		runMode = "plain"
		if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
			runMode = "tui"
		}
	}

	logger, closeLog, err := openLogger(cfg.Log, runMode)
	if err != nil {
		fmt.Printf("Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	prober := NewProber(
		WithSeed(cfg.Sampler.Seed),
		WithWorkers(cfg.Sampler.Workers),
		WithLogger(logger),
	)
	logger.Info("starting", "mode", runMode, "seed", prober.Seed(), "repetitions", cfg.Game.Repetitions)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if err := run(ctx, runMode, cfg, prober, logger); err != nil {
		logger.Error("exiting", "err", err)
		fmt.Printf("Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg *Config, prober *Prober, logger *log.Logger) error {
	switch mode {
	case "tui":
		m, err := NewModel(cfg.Game.Board, cfg.Game.Repetitions, prober, logger)
		if err != nil {
			return err
		}
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		_, err = p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err

	case "plain":
		homeDir, _ := os.UserHomeDir()
		sh, err := NewPlainShell(ShellConfig{
			HistoryFile: filepath.Join(homeDir, ".zenoprobe_history"),
			Repetitions: cfg.Game.Repetitions,
			Layout:      cfg.Game.Board,
		}, prober, logger, os.Stdout)
		if err != nil {
			return err
		}
		if err := sh.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil

	case "report":
		report, err := RunReport(prober, cfg.Report)
		if err != nil {
			return err
		}
		fmt.Println(report.Summary())
		logger.Info("report written", "dir", report.OutputDir, "files", len(report.Files), "run_id", report.RunID)
		return nil

	default:
		return newSimError(CodeConfigInvalid, "unknown mode").WithContext("mode", mode)
	}
}

// openLogger routes logs to the configured file, or to stderr outside the TUI.
// The TUI owns the terminal, so without a file its logs are dropped.
func openLogger(cfg LogConfig, mode string) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case mode == "tui":
		w = io.Discard
	}

	logger, err := NewLogger(cfg, w)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}
