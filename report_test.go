package main

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"
)

func TestRunReport(t *testing.T) {
	Convey("Given a seeded report over two depths", t, func() {
		dir := t.TempDir()
		r, err := RunReport(NewProber(WithSeed(5)), ReportConfig{
			Shots:       200,
			Repetitions: []int{1, 20},
			OutputDir:   dir,
		})
		So(err, ShouldBeNil)

		Convey("Both scenarios run at every depth", func() {
			So(len(r.Entries), ShouldEqual, 4)
			for _, e := range r.Entries {
				So(e.Histogram.Total(), ShouldEqual, 200)
			}
			So(r.Entries[0].Scenario, ShouldEqual, ScenarioEmpty)
			So(r.Entries[3].Scenario, ShouldEqual, ScenarioShip)
			So(r.Entries[3].Repetitions, ShouldEqual, 20)
			So(r.Entries[3].Histogram["00"], ShouldEqual, 200)
		})

		Convey("Every listed file is on disk", func() {
			So(len(r.Files), ShouldEqual, 10)
			for _, name := range r.Files {
				_, err := os.Stat(filepath.Join(dir, name))
				So(err, ShouldBeNil)
			}
			So(r.Files, ShouldContain, "circuit_ship_n20.qasm")
			So(r.Files, ShouldContain, "histogram_empty_n1.svg")
		})

		Convey("The counts table has one row per basis outcome", func() {
			f, err := os.Open(filepath.Join(dir, "counts.csv"))
			So(err, ShouldBeNil)
			defer f.Close()
			rows, err := csv.NewReader(f).ReadAll()
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 13)
			So(rows[0], ShouldResemble, countsHeader)
			So(rows[1][0], ShouldEqual, r.RunID)
		})

		Convey("The manifest names the run", func() {
			data, err := os.ReadFile(filepath.Join(dir, "manifest.yaml"))
			So(err, ShouldBeNil)
			var m manifest
			So(yaml.Unmarshal(data, &m), ShouldBeNil)
			So(m.RunID, ShouldEqual, r.RunID)
			_, err = uuid.Parse(m.RunID)
			So(err, ShouldBeNil)
			So(m.Seed, ShouldEqual, uint64(5))
			So(m.Files, ShouldContain, "manifest.yaml")
		})

		Convey("The summary carries the run ID and every histogram", func() {
			s := r.Summary()
			So(s, ShouldContainSubstring, r.RunID)
			So(s, ShouldContainSubstring, "ship square, N=20")
		})
	})

	Convey("Given bad report settings", t, func() {
		dir := t.TempDir()

		_, err := RunReport(NewProber(), ReportConfig{Shots: 0, Repetitions: []int{1}, OutputDir: dir})
		So(errors.Is(err, ErrInvalidShotCount), ShouldBeTrue)

		_, err = RunReport(NewProber(), ReportConfig{Shots: 10, OutputDir: dir})
		So(errors.Is(err, ErrConfigInvalid), ShouldBeTrue)
	})
}

func TestSVGHistogram(t *testing.T) {
	Convey("Given a histogram builder", t, func() {
		Convey("No data builds nothing", func() {
			So(NewSVGHistogramBuilder(nil).Build(), ShouldEqual, "")
		})

		Convey("Sampled and exact values are drawn", func() {
			cfg := DefaultSVGConfig()
			cfg.Title = "N<5 & friends"
			cfg.RunID = "run-1"
			svg := NewSVGHistogramBuilder(cfg).
				SetData(Histogram{"0": 7}, Distribution{"0": 1, "1": 0}).
				Build()

			So(svg, ShouldStartWith, "<?xml")
			So(svg, ShouldContainSubstring, "<svg")
			So(strings.TrimSpace(svg), ShouldEndWith, "</svg>")
			So(svg, ShouldContainSubstring, "N&lt;5 &amp; friends")
			So(svg, ShouldContainSubstring, "<!-- Run: run-1 -->")
			So(svg, ShouldContainSubstring, "<!-- Shots: 7 -->")
			So(strings.Count(svg, "<rect x="), ShouldEqual, 2)
		})
	})
}

func TestEscapeXML(t *testing.T) {
	if got := escapeXML(`<a href="x">'&'</a>`); got != "&lt;a href=&quot;x&quot;&gt;&apos;&amp;&apos;&lt;/a&gt;" {
		t.Errorf("escapeXML = %q", got)
	}
}
