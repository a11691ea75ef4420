package main

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewBoard(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		ok   bool
	}{
		{"default layout", []string{"0100", "0100", "0000", "1000"}, true},
		{"single cell", []string{"1"}, true},
		{"no rows", nil, false},
		{"empty row", []string{""}, false},
		{"ragged", []string{"010", "01"}, false},
		{"bad character", []string{"0x0"}, false},
		{"too wide", []string{"000000000000000000000000000"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBoard(tt.rows)
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b.Done() && b.TotalShips() > 0 {
					t.Error("fresh board reported done")
				}
				return
			}
			if !errors.Is(err, ErrConfigInvalid) {
				t.Errorf("error = %v, want CONFIG_INVALID", err)
			}
		})
	}
}

func TestParseCell(t *testing.T) {
	b, _ := NewBoard([]string{"0100", "0100", "0000", "1000"})

	valid := []struct {
		in       string
		row, col int
	}{
		{"A1", 0, 0},
		{"b3", 2, 1},
		{" D4 ", 3, 3},
		{"c2", 1, 2},
	}
	for _, tt := range valid {
		row, col, err := b.ParseCell(tt.in)
		if err != nil {
			t.Errorf("ParseCell(%q) error: %v", tt.in, err)
			continue
		}
		if row != tt.row || col != tt.col {
			t.Errorf("ParseCell(%q) = (%d, %d), want (%d, %d)", tt.in, row, col, tt.row, tt.col)
		}
	}

	for _, in := range []string{"", "A", "E1", "A5", "A0", "1A", "AA", "A-1", "?3"} {
		if _, _, err := b.ParseCell(in); !errors.Is(err, ErrInvalidCell) {
			t.Errorf("ParseCell(%q) error = %v, want INVALID_CELL", in, err)
		}
	}
}

func TestCellName(t *testing.T) {
	if got := CellName(2, 1); got != "B3" {
		t.Errorf("CellName(2, 1) = %q, want B3", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		ship bool
		bits string
		want ScanKind
	}{
		{true, "00", ScanDetected},
		{true, "01", ScanHit},
		{true, "11", ScanHit},
		{true, "10", ScanGlitch},
		{false, "0", ScanEmpty},
		{false, "1", ScanGlitch},
	}
	for _, tt := range tests {
		if got := classify(tt.ship, tt.bits); got != tt.want {
			t.Errorf("classify(%v, %q) = %v, want %v", tt.ship, tt.bits, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	Convey("Given a board with two ships", t, func() {
		b, err := NewBoard([]string{"10", "01"})
		So(err, ShouldBeNil)
		p := NewProber(WithSeed(5))

		Convey("A deep scan of a ship finds it safely", func() {
			res, err := b.Scan(p, 20, 0, 0)
			So(err, ShouldBeNil)
			So(res.Cell, ShouldEqual, "A1")
			So(res.Kind, ShouldEqual, ScanDetected)
			So(b.Mark(0, 0), ShouldEqual, MarkShip)
			So(b.Found(), ShouldEqual, 1)
			So(b.Score(), ShouldEqual, 1)

			Convey("Scanning it again is refused", func() {
				_, err := b.Scan(p, 20, 0, 0)
				So(errors.Is(err, ErrCellScanned), ShouldBeTrue)
				So(b.Scans(), ShouldEqual, 1)
			})

			Convey("Finding the second ship ends the game", func() {
				_, err := b.Scan(p, 20, 1, 1)
				So(err, ShouldBeNil)
				So(b.Done(), ShouldBeTrue)
				So(b.Score(), ShouldEqual, 2)
			})
		})

		Convey("Water reads as empty", func() {
			res, err := b.Scan(p, 20, 0, 1)
			So(err, ShouldBeNil)
			So(res.Kind, ShouldEqual, ScanEmpty)
			So(b.Mark(0, 1), ShouldEqual, MarkEmpty)
			So(b.Found(), ShouldEqual, 0)
		})

		Convey("A shallow scan can hit the ship", func() {
			hitter := NewProber(WithSource(&fixedSource{draws: []float64{0.3}}))
			res, err := b.Scan(hitter, 1, 1, 1)
			So(err, ShouldBeNil)
			So(res.Outcome.Bits, ShouldEqual, "01")
			So(res.Kind, ShouldEqual, ScanHit)
			So(b.Mark(1, 1), ShouldEqual, MarkHit)
			So(b.Hits(), ShouldEqual, 1)
			So(b.Score(), ShouldEqual, 0)
		})

		Convey("A glitch leaves the square unscanned", func() {
			glitcher := NewProber(WithSource(&fixedSource{draws: []float64{0.6}}))
			res, err := b.Scan(glitcher, 1, 0, 0)
			So(err, ShouldBeNil)
			So(res.Kind, ShouldEqual, ScanGlitch)
			So(b.Mark(0, 0), ShouldEqual, MarkUnknown)
			So(b.Found(), ShouldEqual, 0)
		})

		Convey("Squares off the board are refused", func() {
			_, err := b.Scan(p, 20, 2, 0)
			So(errors.Is(err, ErrInvalidCell), ShouldBeTrue)
		})

		Convey("A bad depth leaves the board untouched", func() {
			_, err := b.Scan(p, 0, 0, 0)
			So(errors.Is(err, ErrInvalidRepetitionCount), ShouldBeTrue)
			So(b.Mark(0, 0), ShouldEqual, MarkUnknown)
			So(b.Scans(), ShouldEqual, 0)
		})
	})
}
