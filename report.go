package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Scenario names used in report file names and CSV rows.
const (
	ScenarioEmpty = "empty"
	ScenarioShip  = "ship"
)

// ReportEntry is one (scenario, repetitions) run of the report.
type ReportEntry struct {
	Scenario    string
	Repetitions int
	Circuit     *Circuit
	Histogram   Histogram
	Expected    Distribution
}

// Report is the result of RunReport.
type Report struct {
	RunID     string
	CreatedAt time.Time
	Seed      uint64
	Shots     int
	OutputDir string
	Entries   []ReportEntry
	Files     []string
}

// manifest is the YAML index written next to the report files.
type manifest struct {
	RunID       string   `yaml:"run_id"`
	CreatedAt   string   `yaml:"created_at"`
	Seed        uint64   `yaml:"seed"`
	Shots       int      `yaml:"shots"`
	Repetitions []int    `yaml:"repetitions"`
	Files       []string `yaml:"files"`
}

// RunReport samples both scenarios at every configured depth and writes the
// histograms, circuits, counts and manifest into cfg.OutputDir.
func RunReport(p *Prober, cfg ReportConfig) (*Report, error) {
	if err := checkShots(cfg.Shots); err != nil {
		return nil, err
	}
	if len(cfg.Repetitions) == 0 {
		return nil, newSimError(CodeConfigInvalid, "report needs at least one repetition count")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	r := &Report{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Seed:      p.Seed(),
		Shots:     cfg.Shots,
		OutputDir: cfg.OutputDir,
	}

	for _, reps := range cfg.Repetitions {
		for _, occupied := range []bool{false, true} {
			entry, err := r.runEntry(p, reps, occupied)
			if err != nil {
				return nil, err
			}
			r.Entries = append(r.Entries, entry)
		}
	}

	if err := r.writeCounts(); err != nil {
		return nil, err
	}
	if err := r.writeManifest(cfg.Repetitions); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Report) runEntry(p *Prober, reps int, occupied bool) (ReportEntry, error) {
	scenario := ScenarioEmpty
	if occupied {
		scenario = ScenarioShip
	}

	circuit, err := BuildCircuit(reps, occupied)
	if err != nil {
		return ReportEntry{}, err
	}
	hist, err := p.ProbeDistribution(reps, occupied, r.Shots)
	if err != nil {
		return ReportEntry{}, err
	}
	expected, err := p.Distribution(reps, occupied)
	if err != nil {
		return ReportEntry{}, err
	}
	entry := ReportEntry{
		Scenario:    scenario,
		Repetitions: reps,
		Circuit:     circuit,
		Histogram:   hist,
		Expected:    expected,
	}

	base := fmt.Sprintf("%s_n%d", scenario, reps)
	if err := r.writeFile("circuit_"+base+".qasm", circuit.ToQASM()); err != nil {
		return ReportEntry{}, err
	}

	svgCfg := DefaultSVGConfig()
	svgCfg.Title = fmt.Sprintf("Zeno probe, %s square, N=%d", scenario, reps)
	svgCfg.Subtitle = fmt.Sprintf("%d shots, θ=%s, bars sampled, red lines exact", r.Shots, formatParam(ZenoAngle(reps)))
	svgCfg.RunID = r.RunID
	svg := NewSVGHistogramBuilder(svgCfg).SetData(hist, expected).Build()
	if err := r.writeFile("histogram_"+base+".svg", svg); err != nil {
		return ReportEntry{}, err
	}

	return entry, nil
}

func (r *Report) writeFile(name, content string) error {
	if err := os.WriteFile(filepath.Join(r.OutputDir, name), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	r.Files = append(r.Files, name)
	return nil
}

// countsHeader is the column order of counts.csv.
var countsHeader = []string{"run_id", "scenario", "repetitions", "outcome", "count", "frequency", "probability"}

// WriteCounts writes one CSV row per (entry, basis outcome).
func (r *Report) WriteCounts(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(countsHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range r.Entries {
		for _, outcome := range e.Expected.Outcomes() {
			row := []string{
				r.RunID,
				e.Scenario,
				strconv.Itoa(e.Repetitions),
				outcome,
				strconv.Itoa(e.Histogram[outcome]),
				strconv.FormatFloat(e.Histogram.Frequency(outcome), 'f', 6, 64),
				strconv.FormatFloat(e.Expected[outcome], 'f', 6, 64),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

func (r *Report) writeCounts() error {
	var sb strings.Builder
	if err := r.WriteCounts(&sb); err != nil {
		return err
	}
	return r.writeFile("counts.csv", sb.String())
}

func (r *Report) writeManifest(repetitions []int) error {
	m := manifest{
		RunID:       r.RunID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		Seed:        r.Seed,
		Shots:       r.Shots,
		Repetitions: repetitions,
		Files:       append(append([]string(nil), r.Files...), "manifest.yaml"),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return r.writeFile("manifest.yaml", string(data))
}

// Summary renders every histogram as terminal bars.
func (r *Report) Summary() string {
	var blocks []string
	blocks = append(blocks, titleStyle.Render(fmt.Sprintf("Zeno probe report %s", r.RunID)),
		dimStyle.Render(fmt.Sprintf("seed %d, %d shots per run, output in %s", r.Seed, r.Shots, r.OutputDir)))

	for _, e := range r.Entries {
		head := activeStyle.Render(fmt.Sprintf("%s square, N=%d", e.Scenario, e.Repetitions))
		blocks = append(blocks, "", head, renderHistogram(e.Histogram, e.Circuit.NumQubits))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
