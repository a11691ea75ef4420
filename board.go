package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell marks on the player's view of the board.
const (
	MarkUnknown  = '?'
	MarkShip     = 'S' // ship found without touching it
	MarkHit      = 'X' // ship found by hitting it
	MarkEmpty    = 'O'
	maxBoardCols = 26
)

// ScanKind classifies what a single probe revealed.
type ScanKind int

const (
	ScanEmpty ScanKind = iota
	ScanDetected
	ScanHit
	ScanGlitch
)

func (k ScanKind) String() string {
	switch k {
	case ScanEmpty:
		return "empty"
	case ScanDetected:
		return "detected"
	case ScanHit:
		return "hit"
	case ScanGlitch:
		return "glitch"
	default:
		return "unknown"
	}
}

// ScanResult is the outcome of scanning one cell.
type ScanResult struct {
	Cell    string
	Row     int
	Col     int
	Outcome Outcome
	Kind    ScanKind
}

// Message is the one-line verdict shown to the player.
func (r ScanResult) Message() string {
	switch r.Kind {
	case ScanDetected:
		return fmt.Sprintf("RESULT: '%s' -> SHIP DETECTED! (Safe)", r.Outcome.Bits)
	case ScanHit:
		return fmt.Sprintf("RESULT: '%s' -> KABOOM! You hit the ship!", r.Outcome.Bits)
	case ScanEmpty:
		return fmt.Sprintf("RESULT: '%s' -> Empty water.", r.Outcome.Bits)
	default:
		return fmt.Sprintf("RESULT: '%s' -> Scan glitch.", r.Outcome.Bits)
	}
}

// Board holds the hidden ship layout and what the player has uncovered.
type Board struct {
	hidden [][]bool
	view   [][]rune
	total  int
	found  int
	hits   int
	scans  int
}

// NewBoard parses rows of '0'/'1' into a board. Rows must be non-empty, equal
// in length, and at most 26 columns wide.
func NewBoard(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, newSimError(CodeConfigInvalid, "board has no rows")
	}
	width := len(rows[0])
	if width == 0 || width > maxBoardCols {
		return nil, newSimError(CodeConfigInvalid, "board width out of range").
			WithContext("width", width)
	}

	b := &Board{
		hidden: make([][]bool, len(rows)),
		view:   make([][]rune, len(rows)),
	}
	for r, row := range rows {
		if len(row) != width {
			return nil, newSimError(CodeConfigInvalid, "board rows differ in length").
				WithContext("row", r+1)
		}
		b.hidden[r] = make([]bool, width)
		b.view[r] = make([]rune, width)
		for c, ch := range row {
			switch ch {
			case '1':
				b.hidden[r][c] = true
				b.total++
			case '0':
			default:
				return nil, newSimError(CodeConfigInvalid, "board cells must be 0 or 1").
					WithContext("row", r+1).
					WithContext("value", string(ch))
			}
			b.view[r][c] = MarkUnknown
		}
	}
	return b, nil
}

func (b *Board) Rows() int { return len(b.hidden) }
func (b *Board) Cols() int { return len(b.hidden[0]) }

// Mark returns the player's view of a cell.
func (b *Board) Mark(row, col int) rune { return b.view[row][col] }

func (b *Board) TotalShips() int { return b.total }
func (b *Board) Found() int      { return b.found }
func (b *Board) Hits() int       { return b.hits }
func (b *Board) Scans() int      { return b.scans }

// Done reports whether every ship has been found.
func (b *Board) Done() bool { return b.found >= b.total }

// Score is the stealth score: ships found without hitting them.
func (b *Board) Score() int { return b.found - b.hits }

// CellName spells a cell the way the player types it, e.g. "B3".
func CellName(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row+1)
}

// ParseCell converts "B3" into (row 2, col 1) on a rows x cols board.
func (b *Board) ParseCell(input string) (int, int, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	invalid := newSimError(CodeInvalidCell, "use a column letter and row number like 'A1'").
		WithContext("input", input)
	if len(s) < 2 {
		return 0, 0, invalid
	}
	col := int(s[0]) - 'A'
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, 0, invalid.WithCause(err)
	}
	row--
	if row < 0 || row >= b.Rows() || col < 0 || col >= b.Cols() {
		return 0, 0, invalid
	}
	return row, col, nil
}

// Scan probes a cell with the Zeno circuit matching its hidden contents and
// records the result on the board.
func (b *Board) Scan(p *Prober, repetitions, row, col int) (ScanResult, error) {
	if row < 0 || row >= b.Rows() || col < 0 || col >= b.Cols() {
		return ScanResult{}, newSimError(CodeInvalidCell, "cell outside board").
			WithContext("row", row).
			WithContext("col", col)
	}
	if b.view[row][col] != MarkUnknown {
		return ScanResult{}, newSimError(CodeCellScanned, "cell already scanned").
			WithContext("cell", CellName(row, col))
	}

	ship := b.hidden[row][col]
	outcome, err := p.Probe(repetitions, ship)
	if err != nil {
		return ScanResult{}, fmt.Errorf("scan %s: %w", CellName(row, col), err)
	}

	res := ScanResult{Cell: CellName(row, col), Row: row, Col: col, Outcome: outcome}
	res.Kind = classify(ship, outcome.Bits)
	b.scans++

	switch res.Kind {
	case ScanDetected:
		b.view[row][col] = MarkShip
		b.found++
	case ScanHit:
		b.view[row][col] = MarkHit
		b.found++
		b.hits++
	case ScanEmpty:
		b.view[row][col] = MarkEmpty
	}
	return res, nil
}

// classify maps a readout to a verdict. For a ship the right bit is the probe
// and the left bit the target: a probe left at 0 with the target untouched
// means the ship was seen without disturbing it.
func classify(ship bool, bits string) ScanKind {
	if !ship {
		if bits == "0" {
			return ScanEmpty
		}
		return ScanGlitch
	}
	switch bits {
	case "00":
		return ScanDetected
	case "01", "11":
		return ScanHit
	default:
		return ScanGlitch
	}
}
