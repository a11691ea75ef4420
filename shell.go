package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/chzyer/readline"
)

// ShellConfig holds plain shell configuration.
type ShellConfig struct {
	HistoryFile string
	Repetitions int
	Layout      []string
}

// PlainShell is the line-mode game for terminals where the TUI is unwanted.
type PlainShell struct {
	board       *Board
	layout      []string
	prober      *Prober
	logger      *log.Logger
	repetitions int
	historyFile string
	out         io.Writer
}

var (
	errQuit     = errors.New("quit")
	errGameOver = errors.New("game over")
)

// completer offers the slash commands on tab.
var completer = readline.NewPrefixCompleter(
	readline.PcItem("/board"),
	readline.PcItem("/depth"),
	readline.PcItem("/odds"),
	readline.PcItem("/qasm"),
	readline.PcItem("/new"),
	readline.PcItem("/help"),
	readline.PcItem("/quit"),
)

// NewPlainShell creates a shell writing to out.
func NewPlainShell(cfg ShellConfig, prober *Prober, logger *log.Logger, out io.Writer) (*PlainShell, error) {
	board, err := NewBoard(cfg.Layout)
	if err != nil {
		return nil, err
	}
	if cfg.Repetitions < 1 {
		return nil, newSimError(CodeInvalidRepetitionCount, "repetitions must be at least 1").
			WithContext("repetitions", cfg.Repetitions)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &PlainShell{
		board:       board,
		layout:      cfg.Layout,
		prober:      prober,
		logger:      logger,
		repetitions: cfg.Repetitions,
		historyFile: cfg.HistoryFile,
		out:         out,
	}, nil
}

// Run starts the interactive loop.
func (s *PlainShell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Enter square to scan (e.g., 'A1'): ",
		HistoryFile:     s.historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	s.printIntro()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := s.handleLine(line); err != nil {
			if errors.Is(err, errQuit) || errors.Is(err, errGameOver) {
				return nil
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *PlainShell) printIntro() {
	fmt.Fprintln(s.out, "--- QUANTUM BATTLESHIP: ZENO EDITION ---")
	fmt.Fprintf(s.out, "Find %d ships. Each scan peeks %d times.\n", s.board.TotalShips(), s.repetitions)
	fmt.Fprintln(s.out, "Type a cell like A1 to scan it.")
	fmt.Fprintln(s.out, "Commands: /board, /depth N, /odds, /qasm, /new, /help, /quit")
	fmt.Fprintln(s.out)
	s.printBoard()
}

// handleLine runs one line of input. It returns errQuit or errGameOver when the
// loop should stop.
func (s *PlainShell) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if strings.HasPrefix(line, "/") {
		return s.handleCommand(line)
	}

	row, col, err := s.board.ParseCell(line)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid input. Use letter+number (e.g., A1).")
		return nil
	}

	fmt.Fprintf(s.out, "Scanning %s with %d peeks...\n", CellName(row, col), s.repetitions)
	res, err := s.board.Scan(s.prober, s.repetitions, row, col)
	if errors.Is(err, ErrCellScanned) {
		fmt.Fprintln(s.out, "Already scanned!")
		return nil
	}
	if err != nil {
		return err
	}
	s.logger.Debug("scan", "cell", res.Cell, "outcome", res.Outcome.Bits, "kind", res.Kind)

	fmt.Fprintln(s.out, kindStyle(res.Kind).Render(res.Message()))
	s.printBoard()

	if s.board.Done() {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, shipStyle.Render("VICTORY!"))
		fmt.Fprintf(s.out, "Stealth Score: %d/%d\n", s.board.Score(), s.board.TotalShips())
		s.logger.Info("board cleared", "score", s.board.Score(), "scans", s.board.Scans())
		return errGameOver
	}
	return nil
}

func (s *PlainShell) handleCommand(line string) error {
	parts := strings.Fields(line)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/h":
		s.printHelp()

	case "/board":
		s.printBoard()

	case "/new":
		board, err := NewBoard(s.layout)
		if err != nil {
			return err
		}
		s.board = board
		fmt.Fprintln(s.out, "New game.")
		s.printBoard()

	case "/depth":
		if len(parts) < 2 {
			fmt.Fprintf(s.out, "Probe depth: N=%d\n", s.repetitions)
			return nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 {
			return newSimError(CodeInvalidRepetitionCount, "repetitions must be a positive integer").
				WithContext("value", parts[1])
		}
		s.repetitions = n
		fmt.Fprintf(s.out, "Probe depth set to N=%d (θ=%s)\n", n, formatParam(ZenoAngle(n)))

	case "/odds":
		for _, occupied := range []bool{false, true} {
			dist, err := s.prober.Distribution(s.repetitions, occupied)
			if err != nil {
				return err
			}
			label := "Empty water"
			if occupied {
				label = "Ship (target, probe)"
			}
			fmt.Fprintf(s.out, "%s, N=%d\n%s\n\n", label, s.repetitions, renderDistribution(dist))
		}

	case "/qasm":
		c, err := BuildCircuit(s.repetitions, true)
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, c.ToQASM())

	default:
		fmt.Fprintf(s.out, "Unknown command: %s\n", cmd)
	}

	return nil
}

func (s *PlainShell) printHelp() {
	fmt.Fprintln(s.out, "A1..      scan a cell")
	fmt.Fprintln(s.out, "/board    show the board")
	fmt.Fprintln(s.out, "/depth N  set the number of peeks per scan")
	fmt.Fprintln(s.out, "/odds     show exact outcome odds at the current depth")
	fmt.Fprintln(s.out, "/qasm     print the ship probe circuit")
	fmt.Fprintln(s.out, "/new      restart on the same board")
	fmt.Fprintln(s.out, "/quit     leave")
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Legend: ? unknown, S ship (safe), X ship (hit), O water")
}

func (s *PlainShell) printBoard() {
	fmt.Fprint(s.out, "   ")
	for col := range s.board.Cols() {
		fmt.Fprintf(s.out, "%c ", 'A'+col)
	}
	fmt.Fprintln(s.out)
	for row := range s.board.Rows() {
		fmt.Fprintf(s.out, "%-2d ", row+1)
		for col := range s.board.Cols() {
			mark := s.board.Mark(row, col)
			fmt.Fprintf(s.out, "%s ", markStyle(mark).Render(string(mark)))
		}
		fmt.Fprintln(s.out)
	}
}
