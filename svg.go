package main

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// SVG constants for histogram generation.
const (
	SVGVersion   = "1.1"
	SVGNamespace = "http://www.w3.org/2000/svg"
)

// SVGConfig specifies options for histogram plots.
type SVGConfig struct {
	// Width is the SVG width in pixels.
	// Default: 800
	Width int

	// Height is the SVG height in pixels.
	// Default: 400
	Height int

	// Title is the plot title displayed at the top.
	Title string

	// Subtitle is printed under the title in a smaller font.
	Subtitle string

	// FontFamily is the font for labels.
	// Default: "Arial, sans-serif"
	FontFamily string

	// Padding is the margin around the plot area.
	// Default: 60
	Padding int

	// BarColor fills the sampled-frequency bars.
	// Default: "#2563eb"
	BarColor string

	// ExpectedColor draws the exact-probability markers.
	// Default: "#dc2626"
	ExpectedColor string

	GridColor       string
	AxisColor       string
	BackgroundColor string

	// IncludeMetadata embeds generation metadata in the SVG.
	// Default: true
	IncludeMetadata bool

	// RunID is copied into the metadata comment when set.
	RunID string
}

// DefaultSVGConfig returns an SVGConfig with sensible defaults.
func DefaultSVGConfig() *SVGConfig {
	return &SVGConfig{
		Width:           800,
		Height:          400,
		FontFamily:      "Arial, sans-serif",
		Padding:         60,
		BarColor:        "#2563eb",
		ExpectedColor:   "#dc2626",
		GridColor:       "#e5e7eb",
		AxisColor:       "#374151",
		BackgroundColor: "#ffffff",
		IncludeMetadata: true,
	}
}

// histogramBar is one outcome column of the plot.
type histogramBar struct {
	label     string
	count     int
	frequency float64
	expected  float64
}

// SVGHistogramBuilder draws sampled outcome frequencies as bars, with the
// exact probability of each outcome marked across its bar.
type SVGHistogramBuilder struct {
	config *SVGConfig
	bars   []histogramBar
	shots  int
}

// NewSVGHistogramBuilder creates a builder. If config is nil,
// DefaultSVGConfig() is used.
func NewSVGHistogramBuilder(config *SVGConfig) *SVGHistogramBuilder {
	if config == nil {
		config = DefaultSVGConfig()
	}
	return &SVGHistogramBuilder{config: config}
}

// SetData loads one bar per basis outcome of expected. Outcomes that were
// never sampled get an empty bar.
func (b *SVGHistogramBuilder) SetData(hist Histogram, expected Distribution) *SVGHistogramBuilder {
	b.bars = b.bars[:0]
	b.shots = hist.Total()
	for _, label := range expected.Outcomes() {
		b.bars = append(b.bars, histogramBar{
			label:     label,
			count:     hist[label],
			frequency: hist.Frequency(label),
			expected:  expected[label],
		})
	}
	return b
}

// Build generates the complete SVG document, or "" when no data was set.
func (b *SVGHistogramBuilder) Build() string {
	if len(b.bars) == 0 {
		return ""
	}

	var sb strings.Builder

	width := b.config.Width
	height := b.config.Height
	padding := b.config.Padding
	plotWidth := width - 2*padding
	plotHeight := height - 2*padding

	b.writeHeader(&sb, width, height)
	b.writeDefinitions(&sb)
	b.writeBackground(&sb, width, height)
	if b.config.IncludeMetadata {
		b.writeMetadata(&sb)
	}

	fmt.Fprintf(&sb, "  <g transform=\"translate(%d,%d)\">\n", padding, padding)
	b.writeGrid(&sb, plotWidth, plotHeight)
	b.writeBars(&sb, plotWidth, plotHeight)
	b.writeAxes(&sb, plotWidth, plotHeight)
	sb.WriteString("  </g>\n")

	if b.config.Title != "" {
		b.writeTitle(&sb, width)
	}
	b.writeAxisLabels(&sb, width, height, padding, plotHeight)

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTo writes the SVG to an io.Writer.
func (b *SVGHistogramBuilder) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.Build())
	return int64(n), err
}

func (b *SVGHistogramBuilder) writeHeader(sb *strings.Builder, width, height int) {
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(sb, "<svg version=\"%s\" xmlns=\"%s\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		SVGVersion, SVGNamespace, width, height, width, height)
}

func (b *SVGHistogramBuilder) writeDefinitions(sb *strings.Builder) {
	sb.WriteString("  <defs>\n")
	sb.WriteString("    <style type=\"text/css\">\n")
	fmt.Fprintf(sb, "      .axis-label { font-family: %s; font-size: 12px; fill: %s; }\n",
		b.config.FontFamily, b.config.AxisColor)
	fmt.Fprintf(sb, "      .title { font-family: %s; font-size: 16px; font-weight: bold; fill: %s; }\n",
		b.config.FontFamily, b.config.AxisColor)
	fmt.Fprintf(sb, "      .subtitle { font-family: %s; font-size: 11px; fill: %s; }\n",
		b.config.FontFamily, b.config.AxisColor)
	fmt.Fprintf(sb, "      .tick-label { font-family: %s; font-size: 10px; fill: %s; }\n",
		b.config.FontFamily, b.config.AxisColor)
	sb.WriteString("    </style>\n")
	sb.WriteString("  </defs>\n")
}

func (b *SVGHistogramBuilder) writeBackground(sb *strings.Builder, width, height int) {
	fmt.Fprintf(sb, "  <rect width=\"%d\" height=\"%d\" fill=\"%s\"/>\n",
		width, height, b.config.BackgroundColor)
}

func (b *SVGHistogramBuilder) writeMetadata(sb *strings.Builder) {
	sb.WriteString("  <!-- Generated by zenoprobe -->\n")
	fmt.Fprintf(sb, "  <!-- Generated at: %s -->\n", time.Now().UTC().Format(time.RFC3339))
	if b.config.RunID != "" {
		fmt.Fprintf(sb, "  <!-- Run: %s -->\n", escapeXML(b.config.RunID))
	}
	fmt.Fprintf(sb, "  <!-- Shots: %d -->\n", b.shots)
}

// writeGrid draws horizontal lines at every 0.1 of probability.
func (b *SVGHistogramBuilder) writeGrid(sb *strings.Builder, plotWidth, plotHeight int) {
	sb.WriteString("    <g class=\"grid\">\n")
	for i := 1; i <= 10; i++ {
		y := scaleValue(float64(i)/10, 0, 1, float64(plotHeight), 0)
		fmt.Fprintf(sb, "      <line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"%s\" stroke-dasharray=\"3,3\"/>\n",
			y, plotWidth, y, b.config.GridColor)
	}
	sb.WriteString("    </g>\n")
}

func (b *SVGHistogramBuilder) writeBars(sb *strings.Builder, plotWidth, plotHeight int) {
	slot := float64(plotWidth) / float64(len(b.bars))
	barW := slot * 0.6

	sb.WriteString("    <g class=\"bars\">\n")
	for i, bar := range b.bars {
		x := slot*float64(i) + (slot-barW)/2
		top := scaleValue(bar.frequency, 0, 1, float64(plotHeight), 0)
		fmt.Fprintf(sb, "      <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\"><title>%s: %d shots (%.4f)</title></rect>\n",
			x, top, barW, float64(plotHeight)-top, b.config.BarColor, escapeXML(bar.label), bar.count, bar.frequency)

		ey := scaleValue(bar.expected, 0, 1, float64(plotHeight), 0)
		fmt.Fprintf(sb, "      <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"2\"><title>p=%.6f</title></line>\n",
			x-4, ey, x+barW+4, ey, b.config.ExpectedColor, bar.expected)

		fmt.Fprintf(sb, "      <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" class=\"tick-label\">%d</text>\n",
			x+barW/2, top-4, bar.count)
	}
	sb.WriteString("    </g>\n")
}

func (b *SVGHistogramBuilder) writeAxes(sb *strings.Builder, plotWidth, plotHeight int) {
	slot := float64(plotWidth) / float64(len(b.bars))

	sb.WriteString("    <g class=\"axes\">\n")
	fmt.Fprintf(sb, "      <line x1=\"0\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		plotHeight, plotWidth, plotHeight, b.config.AxisColor)
	fmt.Fprintf(sb, "      <line x1=\"0\" y1=\"0\" x2=\"0\" y2=\"%d\" stroke=\"%s\" stroke-width=\"1\"/>\n",
		plotHeight, b.config.AxisColor)

	for i, bar := range b.bars {
		x := slot*float64(i) + slot/2
		fmt.Fprintf(sb, "      <text x=\"%.1f\" y=\"%d\" text-anchor=\"middle\" class=\"tick-label\">%s</text>\n",
			x, plotHeight+16, escapeXML(bar.label))
	}
	for i := 0; i <= 10; i += 2 {
		v := float64(i) / 10
		y := scaleValue(v, 0, 1, float64(plotHeight), 0)
		fmt.Fprintf(sb, "      <text x=\"-8\" y=\"%.1f\" text-anchor=\"end\" dominant-baseline=\"middle\" class=\"tick-label\">%.1f</text>\n",
			y, v)
	}
	sb.WriteString("    </g>\n")
}

func (b *SVGHistogramBuilder) writeTitle(sb *strings.Builder, width int) {
	fmt.Fprintf(sb, "  <text x=\"%d\" y=\"24\" text-anchor=\"middle\" class=\"title\">%s</text>\n",
		width/2, escapeXML(b.config.Title))
	if b.config.Subtitle != "" {
		fmt.Fprintf(sb, "  <text x=\"%d\" y=\"42\" text-anchor=\"middle\" class=\"subtitle\">%s</text>\n",
			width/2, escapeXML(b.config.Subtitle))
	}
}

func (b *SVGHistogramBuilder) writeAxisLabels(sb *strings.Builder, width, height, padding, plotHeight int) {
	fmt.Fprintf(sb, "  <text x=\"%d\" y=\"%d\" text-anchor=\"middle\" class=\"axis-label\">Outcome</text>\n",
		width/2, height-16)
	fmt.Fprintf(sb, "  <text x=\"16\" y=\"%d\" text-anchor=\"middle\" class=\"axis-label\" transform=\"rotate(-90 16 %d)\">Frequency</text>\n",
		padding+plotHeight/2, padding+plotHeight/2)
}

// scaleValue maps value from [srcMin, srcMax] onto [dstMin, dstMax].
func scaleValue(value, srcMin, srcMax, dstMin, dstMax float64) float64 {
	if srcMax == srcMin {
		return dstMin
	}
	return dstMin + (value-srcMin)*(dstMax-dstMin)/(srcMax-srcMin)
}

// escapeXML escapes special characters for XML/SVG content.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
