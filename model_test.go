package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// press converts a key name into the KeyMsg bubbletea would deliver.
func press(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel([]string{"10", "01"}, 20, NewProber(WithSeed(3)), nil)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	return m
}

func send(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(press(k))
		m = next.(Model)
	}
	return m
}

func TestNewModelRejectsBadInput(t *testing.T) {
	if _, err := NewModel([]string{"01", "0"}, 20, NewProber(), nil); err == nil {
		t.Error("expected error for ragged layout")
	}
	if _, err := NewModel([]string{"01"}, 0, NewProber(), nil); err == nil {
		t.Error("expected error for zero repetitions")
	}
}

func TestModelScan(t *testing.T) {
	m := newTestModel(t)

	m = send(m, "enter")
	if len(m.scans) != 1 || m.scans[0].Kind != ScanDetected {
		t.Fatalf("A1 scan = %+v, want detected ship", m.scans)
	}
	if m.board.Mark(0, 0) != MarkShip {
		t.Errorf("A1 mark = %c", m.board.Mark(0, 0))
	}

	m = send(m, "right", "enter")
	if m.cursorCol != 1 || m.scans[1].Kind != ScanEmpty {
		t.Fatalf("B1 scan = %+v, want empty water", m.scans[1])
	}

	m = send(m, "enter")
	if len(m.scans) != 2 || !strings.Contains(m.statusMsg, "already scanned") {
		t.Errorf("rescan status = %q, scans = %d", m.statusMsg, len(m.scans))
	}

	// The cursor stops at the board edge.
	m = send(m, "right", "right", "down", "down", "down")
	if m.cursorRow != 1 || m.cursorCol != 1 {
		t.Errorf("cursor = (%d, %d), want (1, 1)", m.cursorRow, m.cursorCol)
	}
}

func TestModelTypedCell(t *testing.T) {
	m := newTestModel(t)

	m = send(m, ":")
	if m.focus != focusInput {
		t.Fatalf("focus = %v, want input", m.focus)
	}
	m = send(m, "A", "2", "enter")
	if m.board.Mark(1, 0) != MarkEmpty {
		t.Errorf("A2 mark = %c, want water", m.board.Mark(1, 0))
	}
	if m.cursorRow != 1 || m.cursorCol != 0 {
		t.Errorf("cursor did not follow the typed cell: (%d, %d)", m.cursorRow, m.cursorCol)
	}

	m = send(m, "Z", "9", "enter")
	if !strings.Contains(m.statusMsg, "Invalid input") {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = send(m, "esc")
	if m.focus != focusBoard {
		t.Errorf("esc left focus at %v", m.focus)
	}
}

func TestModelMenu(t *testing.T) {
	m := newTestModel(t)

	m = send(m, "m", "down", "down", "down", "enter")
	if m.repetitions != 100 || len(m.circuit.Gates) != 300 {
		t.Errorf("depth = %d with %d gates, want 100 and 300", m.repetitions, len(m.circuit.Gates))
	}
	if m.focus != focusBoard {
		t.Errorf("focus after depth change = %v", m.focus)
	}

	m = send(m, "m", "right", "down", "down", "enter")
	if m.focus != focusInfo || !strings.Contains(m.infoBody, "Empty water") {
		t.Errorf("odds overlay not shown: focus %v, body %q", m.focus, m.infoBody)
	}

	m = send(m, "esc", "m", "right", "down", "enter")
	if !strings.Contains(m.infoBody, "OPENQASM 2.0;") {
		t.Errorf("QASM overlay body = %q", m.infoBody)
	}
}

func TestModelRefusesScansAfterGameOver(t *testing.T) {
	m := newTestModel(t)
	m = send(m, "enter", ":", "B", "2", "enter", "esc")
	if !m.board.Done() || m.board.Found() != 2 {
		t.Fatalf("board not cleared: found %d", m.board.Found())
	}

	m = send(m, "left", "enter")
	if m.board.Scans() != 2 || len(m.scans) != 2 {
		t.Errorf("scan accepted after game over: %d scans", m.board.Scans())
	}
	if m.board.Mark(1, 0) != MarkUnknown {
		t.Errorf("A2 mark = %c, want unknown", m.board.Mark(1, 0))
	}
	if !strings.Contains(m.statusMsg, "All ships found") {
		t.Errorf("status = %q", m.statusMsg)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	if !strings.Contains(next.(Model).View(), "VICTORY!") {
		t.Error("victory line not drawn")
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	m = send(m, "enter", "down", "enter")
	if m.board.Scans() != 2 {
		t.Fatalf("scans = %d", m.board.Scans())
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if m.board.Scans() != 0 || len(m.scans) != 0 || m.board.Mark(0, 0) != MarkUnknown {
		t.Errorf("board not reset: %d scans", m.board.Scans())
	}
}

func TestModelCircuitFocus(t *testing.T) {
	m := newTestModel(t)
	m = send(m, "tab", "right", "right")
	if m.focus != focusCircuit || m.circuitStep != 2 {
		t.Fatalf("focus %v step %d", m.focus, m.circuitStep)
	}
	m = send(m, "left", "left", "left")
	if m.circuitStep != 0 {
		t.Errorf("step went below zero: %d", m.circuitStep)
	}
	m = send(m, "tab")
	if m.focus != focusBoard {
		t.Errorf("tab did not return to the board")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	if m.View() != "Loading..." {
		t.Errorf("View before size = %q", m.View())
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"Quantum Battleship", "Scan Log", "Probe Circuit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, "m")
	if !strings.Contains(m.View(), "Probe Menu") {
		t.Error("menu overlay not drawn")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(press("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestCircuitCellInfo(t *testing.T) {
	c, _ := BuildCircuit(1, true)

	if info := circuitCellInfo(c, 0, ProbeQubit); info.gate == nil || info.gate.Type != GateRY {
		t.Errorf("step 0 probe = %+v, want RY", info)
	}
	if info := circuitCellInfo(c, 0, TargetQubit); info.gate != nil {
		t.Errorf("step 0 target should be idle, got %+v", info)
	}

	ctrl := circuitCellInfo(c, 1, ProbeQubit)
	tgt := circuitCellInfo(c, 1, TargetQubit)
	if !ctrl.isControl || !ctrl.vertBelow || ctrl.vertAbove {
		t.Errorf("control cell = %+v", ctrl)
	}
	if !tgt.isTarget || !tgt.vertAbove || tgt.vertBelow {
		t.Errorf("target cell = %+v", tgt)
	}

	for _, q := range []int{ProbeQubit, TargetQubit} {
		if !circuitCellInfo(c, len(c.Gates), q).isMeasure {
			t.Errorf("qubit %d not measured in the final column", q)
		}
	}
}

func TestRenderHelpers(t *testing.T) {
	if got := padCenter("RY", 6); got != "  RY  " {
		t.Errorf("padCenter = %q", got)
	}
	if got := padCenter("toolong", 4); got != "tool" {
		t.Errorf("padCenter truncation = %q", got)
	}
	if got := visibleLen("\x1b[1;31mabc\x1b[0m"); got != 3 {
		t.Errorf("visibleLen = %d", got)
	}
	if got := overlayAt("aaaaa\nbbbbb\nccccc", "XY", 1, 1); got != "aaaaa\nbXYbb\nccccc" {
		t.Errorf("overlayAt = %q", got)
	}

	hist := renderHistogram(Histogram{"00": 3}, 2)
	for _, bits := range []string{"00", "01", "10", "11"} {
		if !strings.Contains(hist, bits) {
			t.Errorf("histogram missing row %s", bits)
		}
	}
}
