package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newTestShell(t *testing.T) (*PlainShell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s, err := NewPlainShell(ShellConfig{Layout: []string{"10", "01"}, Repetitions: 20}, NewProber(WithSeed(8)), nil, &out)
	if err != nil {
		t.Fatalf("NewPlainShell: %v", err)
	}
	return s, &out
}

func TestNewPlainShellValidation(t *testing.T) {
	if _, err := NewPlainShell(ShellConfig{Layout: []string{"10"}, Repetitions: 0}, NewProber(), nil, &bytes.Buffer{}); !errors.Is(err, ErrInvalidRepetitionCount) {
		t.Errorf("zero repetitions error = %v", err)
	}
	if _, err := NewPlainShell(ShellConfig{Layout: []string{"12"}, Repetitions: 5}, NewProber(), nil, &bytes.Buffer{}); !errors.Is(err, ErrConfigInvalid) {
		t.Errorf("bad layout error = %v", err)
	}
}

func TestShellScanning(t *testing.T) {
	s, out := newTestShell(t)

	if err := s.handleLine("A1"); err != nil {
		t.Fatalf("A1: %v", err)
	}
	if !strings.Contains(out.String(), "Scanning A1 with 20 peeks...") || !strings.Contains(out.String(), "SHIP DETECTED") {
		t.Errorf("A1 output = %q", out.String())
	}

	out.Reset()
	s.handleLine("a1")
	if !strings.Contains(out.String(), "Already scanned!") {
		t.Errorf("rescan output = %q", out.String())
	}

	out.Reset()
	s.handleLine("B1")
	if !strings.Contains(out.String(), "Empty water.") {
		t.Errorf("B1 output = %q", out.String())
	}

	out.Reset()
	s.handleLine("hello")
	if !strings.Contains(out.String(), "Invalid input") {
		t.Errorf("bad input output = %q", out.String())
	}

	if err := s.handleLine("   "); err != nil {
		t.Errorf("blank line: %v", err)
	}

	out.Reset()
	if err := s.handleLine("B2"); !errors.Is(err, errGameOver) {
		t.Fatalf("last ship error = %v, want game over", err)
	}
	if !strings.Contains(out.String(), "VICTORY!") || !strings.Contains(out.String(), "Stealth Score: 2/2") {
		t.Errorf("victory output = %q", out.String())
	}
}

func TestShellCommands(t *testing.T) {
	s, out := newTestShell(t)

	if err := s.handleLine("/depth 5"); err != nil {
		t.Fatalf("/depth 5: %v", err)
	}
	if s.repetitions != 5 || !strings.Contains(out.String(), "N=5") {
		t.Errorf("depth = %d, output %q", s.repetitions, out.String())
	}

	if err := s.handleLine("/depth x"); !errors.Is(err, ErrInvalidRepetitionCount) {
		t.Errorf("/depth x error = %v", err)
	}
	if err := s.handleLine("/depth 0"); !errors.Is(err, ErrInvalidRepetitionCount) {
		t.Errorf("/depth 0 error = %v", err)
	}
	if s.repetitions != 5 {
		t.Errorf("bad /depth changed the depth to %d", s.repetitions)
	}

	out.Reset()
	s.handleLine("/odds")
	if !strings.Contains(out.String(), "Empty water, N=5") || !strings.Contains(out.String(), "Ship (target, probe), N=5") {
		t.Errorf("/odds output = %q", out.String())
	}

	out.Reset()
	s.handleLine("/qasm")
	if !strings.HasPrefix(out.String(), "OPENQASM 2.0;") || strings.Count(out.String(), "cx q[0], q[1];") != 5 {
		t.Errorf("/qasm output = %q", out.String())
	}

	out.Reset()
	s.handleLine("A1")
	s.handleLine("/new")
	if s.board.Scans() != 0 || !strings.Contains(out.String(), "New game.") {
		t.Errorf("/new did not reset: %d scans", s.board.Scans())
	}

	out.Reset()
	s.handleLine("/nope")
	if !strings.Contains(out.String(), "Unknown command: /nope") {
		t.Errorf("unknown command output = %q", out.String())
	}

	for _, q := range []string{"/quit", "/exit", "/q"} {
		if err := s.handleLine(q); !errors.Is(err, errQuit) {
			t.Errorf("%s = %v, want quit", q, err)
		}
	}
}
