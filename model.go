package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusBoard focus = iota
	focusInput
	focusCircuit
	focusMenu
	focusInfo
)

// Model represents the TUI game state.
type Model struct {
	board       *Board
	layout      []string // rows the board was built from, for ^R
	prober      *Prober
	logger      *log.Logger
	repetitions int
	circuit     *Circuit // ship circuit at the current depth
	cursorRow   int
	cursorCol   int
	circuitStep int
	width       int
	height      int
	input       textinput.Model
	focus       focus
	scans       []ScanResult
	statusMsg   string

	// Menu state
	menuCat  int
	menuItem int

	// Inspect overlay
	infoTitle string
	infoBody  string
}

// NewModel builds a game over the given board layout.
func NewModel(layout []string, repetitions int, prober *Prober, logger *log.Logger) (Model, error) {
	board, err := NewBoard(layout)
	if err != nil {
		return Model{}, err
	}
	circuit, err := BuildCircuit(repetitions, true)
	if err != nil {
		return Model{}, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "B3"
	ti.Prompt = "Cell ▸ "
	ti.CharLimit = 4

	return Model{
		board:       board,
		layout:      layout,
		prober:      prober,
		logger:      logger,
		repetitions: repetitions,
		circuit:     circuit,
		input:       ti,
		focus:       focusBoard,
	}, nil
}

// scan probes a cell and records the verdict or the reason it was refused.
func (m *Model) scan(row, col int) {
	if m.board.Done() {
		m.statusMsg = "All ships found. ^R starts a new game."
		return
	}

	res, err := m.board.Scan(m.prober, m.repetitions, row, col)
	switch {
	case errors.Is(err, ErrCellScanned):
		m.statusMsg = fmt.Sprintf("%s was already scanned.", CellName(row, col))
		return
	case err != nil:
		m.statusMsg = err.Error()
		m.logger.Error("scan failed", "cell", CellName(row, col), "err", err)
		return
	}

	m.scans = append(m.scans, res)
	m.logger.Info("scan",
		"cell", res.Cell,
		"outcome", res.Outcome.Bits,
		"kind", res.Kind,
		"repetitions", m.repetitions,
	)
	if m.board.Done() {
		m.logger.Info("board cleared", "score", m.board.Score(), "hits", m.board.Hits(), "scans", m.board.Scans())
	}
}

// setDepth changes the probe depth and rebuilds the displayed circuit.
func (m *Model) setDepth(repetitions int) {
	circuit, err := BuildCircuit(repetitions, true)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.repetitions = repetitions
	m.circuit = circuit
	m.circuitStep = 0
	m.statusMsg = fmt.Sprintf("Probe depth set to N=%d", repetitions)
}

// reset starts a new game on the same layout.
func (m *Model) reset() {
	board, err := NewBoard(m.layout)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.board = board
	m.scans = nil
	m.cursorRow, m.cursorCol = 0, 0
	m.statusMsg = "New game."
}

// runMenuItem applies the selected menu entry.
func (m *Model) runMenuItem(item menuItem) {
	switch item.action {
	case actionSetDepth:
		m.setDepth(item.repetitions)
		m.focus = focusBoard
	case actionShowCircuit:
		m.focus = focusCircuit
	case actionShowQASM:
		m.infoTitle = fmt.Sprintf("Ship probe QASM  N=%d", m.repetitions)
		m.infoBody = m.circuit.ToQASM()
		m.focus = focusInfo
	case actionShowDistribution:
		empty, err := m.prober.Distribution(m.repetitions, false)
		if err != nil {
			m.statusMsg = err.Error()
			m.focus = focusBoard
			return
		}
		ship, err := m.prober.Distribution(m.repetitions, true)
		if err != nil {
			m.statusMsg = err.Error()
			m.focus = focusBoard
			return
		}
		m.infoTitle = fmt.Sprintf("Exact odds  N=%d", m.repetitions)
		m.infoBody = "Empty water\n" + renderDistribution(empty) +
			"\n\nShip (target, probe)\n" + renderDistribution(ship) + "\n"
		m.focus = focusInfo
	}
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusBoard:
			m.statusMsg = ""
			switch key {
			case "q":
				return m, tea.Quit
			case "up", "k":
				m.cursorRow = max(m.cursorRow-1, 0)
			case "down", "j":
				m.cursorRow = min(m.cursorRow+1, m.board.Rows()-1)
			case "left", "h":
				m.cursorCol = max(m.cursorCol-1, 0)
			case "right", "l":
				m.cursorCol = min(m.cursorCol+1, m.board.Cols()-1)
			case "enter", " ":
				m.scan(m.cursorRow, m.cursorCol)
			case ":":
				m.focus = focusInput
				cmds = append(cmds, m.input.Focus())
			case "m":
				m.focus = focusMenu
				m.menuCat, m.menuItem = 0, 0
			case "tab":
				m.focus = focusCircuit
			case "ctrl+r":
				m.reset()
			}

		case focusInput:
			switch key {
			case "esc":
				m.input.Blur()
				m.input.SetValue("")
				m.focus = focusBoard
			case "enter":
				row, col, err := m.board.ParseCell(m.input.Value())
				m.input.SetValue("")
				if err != nil {
					m.statusMsg = "Invalid input. Use letter+number (e.g., A1)."
					break
				}
				m.cursorRow, m.cursorCol = row, col
				m.statusMsg = ""
				m.scan(row, col)
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}

		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab", "esc":
				m.focus = focusBoard
			case "left", "h":
				m.circuitStep = max(m.circuitStep-1, 0)
			case "right", "l":
				m.circuitStep = min(m.circuitStep+1, len(m.circuit.Gates))
			case "home":
				m.circuitStep = 0
			case "end":
				m.circuitStep = len(m.circuit.Gates)
			}

		case focusMenu:
			switch key {
			case "esc", "m":
				m.focus = focusBoard
			case "left", "h":
				m.menuCat = (m.menuCat - 1 + len(probeMenu)) % len(probeMenu)
				m.menuItem = 0
			case "right", "l":
				m.menuCat = (m.menuCat + 1) % len(probeMenu)
				m.menuItem = 0
			case "up", "k":
				m.menuItem = max(m.menuItem-1, 0)
			case "down", "j":
				m.menuItem = min(m.menuItem+1, len(probeMenu[m.menuCat].items)-1)
			case "enter":
				m.runMenuItem(probeMenu[m.menuCat].items[m.menuItem])
			}

		case focusInfo:
			switch key {
			case "esc", "enter", "q":
				m.focus = focusBoard
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	controlsHeight := 4
	circuitHeight := 3*m.circuit.NumQubits + 3
	topHeight := max(m.height-controlsHeight-circuitHeight-6, m.board.Rows()+10)

	boardWidth := max(m.board.Cols()*boardCellW+10, m.width/2-2)
	logWidth := max(m.width-boardWidth-4, 30)

	topRow := joinPanels(
		m.renderBoardPanel(boardWidth, topHeight),
		m.renderLogPanel(logWidth, topHeight),
	)
	frame := lipgloss.JoinVertical(lipgloss.Left,
		topRow,
		m.renderCircuitPanel(m.width-4, circuitHeight),
		m.renderControlsPanel(m.width-4, controlsHeight-2),
	)

	switch m.focus {
	case focusMenu:
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	case focusInfo:
		frame = overlayAt(frame, m.renderInfoBox(), 2, 2)
	}

	return frame
}
