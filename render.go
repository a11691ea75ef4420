package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns a short display name for a gate. Rotations carry
// the sign of their angle since every Zeno step is a +θ/−θ pair.
func gateDisplayName(g Gate) string {
	switch g.Type {
	case GateRY:
		if g.Angle < 0 {
			return "RY-"
		}
		return "RY+"
	default:
		return string(g.Type)
	}
}

// ──────────────────────────── Circuit cells ────────────────────────────

// cellInfo describes what occupies one (step, qubit) slot of the diagram.
type cellInfo struct {
	gate      *Gate
	isControl bool
	isTarget  bool
	isMeasure bool
	vertAbove bool
	vertBelow bool
}

// circuitCellInfo resolves a diagram slot. Step len(c.Gates) is the final
// measurement column.
func circuitCellInfo(c *Circuit, step, qubit int) cellInfo {
	var info cellInfo
	if step == len(c.Gates) {
		for _, q := range c.Measured {
			if q == qubit {
				info.isMeasure = true
			}
		}
		return info
	}
	if step < 0 || step > len(c.Gates) {
		return info
	}

	g := c.Gates[step]
	switch g.Type {
	case GateCX:
		lo, hi := min(g.Control, g.Target), max(g.Control, g.Target)
		switch qubit {
		case g.Control:
			info.gate = &g
			info.isControl = true
		case g.Target:
			info.gate = &g
			info.isTarget = true
		}
		info.vertAbove = qubit > lo && qubit <= hi
		info.vertBelow = qubit >= lo && qubit < hi
	default:
		if g.Target == qubit {
			info.gate = &g
		}
	}
	return info
}

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
)

// boxed draws a gate box around name.
func boxed(name string) (top, mid, bot string) {
	margin := (cellW - gateBoxW) / 2
	rightMargin := cellW - margin - gateBoxW
	top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
	mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+padCenter(name, gateNameW)+"├") + strings.Repeat("─", rightMargin)
	bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	return
}

// renderCell returns 3 lines (top, mid, bot) for a single cell.
// Each line is exactly cellW (11) visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	if hl == hlCursor {
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1
		bdr := cursorBoxStyle

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")
		switch {
		case info.isControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.isTarget:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.isMeasure:
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(padCenter("M", gateNameW)) + "├─" + bdr.Render("║")
		case info.gate != nil:
			mid = bdr.Render("║") + "─┤" + gateStyle.Render(padCenter(gateDisplayName(*info.gate), gateNameW)) + "├─" + bdr.Render("║")
		case info.vertAbove || info.vertBelow:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}
		return
	}

	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.isControl || info.isTarget:
		sym := "●"
		if info.isTarget {
			sym = "⊕"
		}
		top, bot = emptyRow, emptyRow
		if info.vertAbove {
			top = vertRow
		}
		if info.vertBelow {
			bot = vertRow
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)

	case info.isMeasure:
		top, mid, bot = boxed("M")

	case info.gate != nil:
		top, mid, bot = boxed(gateDisplayName(*info.gate))

	case info.vertAbove && info.vertBelow:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		top, bot = emptyRow, emptyRow
		mid = strings.Repeat("─", cellW)
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the probe circuit for a ship cell at the current
// depth, scrolled so that the cursor step stays visible.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	c := m.circuit
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Probe Circuit  N=%d", m.repetitions)))
	fmt.Fprintf(&sb, "  %s\n", dimStyle.Render(c.String()))

	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)
	steps := len(c.Gates) + 1

	startStep := 0
	if m.circuitStep >= maxSteps {
		startStep = m.circuitStep - maxSteps + 1
	}
	endStep := min(startStep+maxSteps, steps)

	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < endStep; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	if startStep > 0 || endStep < steps {
		header += dimStyle.Render(fmt.Sprintf("  steps %d–%d of %d", startStep, endStep-1, steps))
	}
	sb.WriteString(header + "\n")

	for qubit := c.NumQubits - 1; qubit >= 0; qubit-- {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		// Qubit 1 is drawn on top, so a CX reads control below target.
		for step := startStep; step < endStep; step++ {
			info := circuitCellInfo(c, step, qubit)
			info.vertAbove, info.vertBelow = info.vertBelow, info.vertAbove

			hl := hlNone
			if step == m.circuitStep && m.focus == focusCircuit {
				hl = hlCursor
			}
			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	label := fmt.Sprintf("c%d", len(c.Measured))
	sb.WriteString(cbitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + cbitWireStyle.Render(strings.Repeat("═", 2+(endStep-startStep)*cellW)))

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderBoardPanel renders the player's view of the board with a cursor.
func (m Model) renderBoardPanel(width, height int) string {
	var sb strings.Builder
	b := m.board

	sb.WriteString(titleStyle.Render("Quantum Battleship"))
	sb.WriteString("\n\n")

	sb.WriteString("   ")
	for col := range b.Cols() {
		sb.WriteString(dimStyle.Render(padCenter(string(rune('A'+col)), boardCellW)))
	}
	sb.WriteString("\n")

	for row := range b.Rows() {
		fmt.Fprintf(&sb, "%s ", dimStyle.Render(fmt.Sprintf("%2d", row+1)))
		for col := range b.Cols() {
			mark := b.Mark(row, col)
			cell := padCenter(string(mark), boardCellW-2)
			if row == m.cursorRow && col == m.cursorCol && m.focus == focusBoard {
				sb.WriteString(cursorBoxStyle.Render("[") + markStyle(mark).Render(cell) + cursorBoxStyle.Render("]"))
			} else {
				sb.WriteString(" " + markStyle(mark).Render(cell) + " ")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Ships %d/%d   Hits %s   Score %s\n",
		b.Found(), b.TotalShips(),
		hitStyle.Render(fmt.Sprintf("%d", b.Hits())),
		shipStyle.Render(fmt.Sprintf("%d", b.Score())))
	fmt.Fprintf(&sb, "Depth N=%d   θ=%s\n", m.repetitions, formatParam(ZenoAngle(m.repetitions)))

	sb.WriteString("\n")
	sb.WriteString(m.input.View())

	return boardStyle.Width(width).Height(height).Render(sb.String())
}

// renderLogPanel renders the most recent scan verdicts.
func (m Model) renderLogPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Scan Log"))
	sb.WriteString("\n\n")

	if len(m.scans) == 0 {
		sb.WriteString(dimStyle.Render("No scans yet."))
	}
	start := max(len(m.scans)-scanLogLen, 0)
	for _, res := range m.scans[start:] {
		fmt.Fprintf(&sb, "%-4s %s\n", res.Cell, kindStyle(res.Kind).Render(res.Message()))
	}

	if m.board.Done() {
		sb.WriteString("\n")
		sb.WriteString(shipStyle.Render(fmt.Sprintf("VICTORY! Stealth score %d/%d", m.board.Score(), m.board.TotalShips())))
	}
	if m.statusMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(activeStyle.Render(m.statusMsg))
	}

	return logStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Navigate: "))
	sb.WriteString("↑↓←→/hjkl Move  ⏎/space Scan  : Type a cell")
	sb.WriteString("    ")
	sb.WriteString(activeStyle.Render("m"))
	sb.WriteString(" Menu\n")

	sb.WriteString(activeStyle.Render("Actions:  "))
	sb.WriteString("Tab Circuit focus  ^R New game  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// renderInfoBox renders the inspect overlay chosen from the menu.
func (m Model) renderInfoBox() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.infoTitle))
	sb.WriteString("\n\n")
	sb.WriteString(m.infoBody)
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}

// renderBars draws one horizontal bar per outcome, scaled to the largest value.
func renderBars(labels []string, values []float64, annotate func(i int) string) string {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	width := 0
	for _, l := range labels {
		width = max(width, len(l))
	}

	var sb strings.Builder
	for i, l := range labels {
		n := 0
		if peak > 0 {
			n = int(values[i] / peak * histBarW)
		}
		fmt.Fprintf(&sb, "%s │%s%s %s\n",
			qubitLabelStyle.Render(fmt.Sprintf("%*s", width, l)),
			barStyle.Render(strings.Repeat("█", n)),
			strings.Repeat(" ", histBarW-n),
			annotate(i))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// renderDistribution draws exact outcome probabilities as bars.
func renderDistribution(d Distribution) string {
	labels := d.Outcomes()
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = d[l]
	}
	return renderBars(labels, values, func(i int) string {
		return fmt.Sprintf("%.4f", values[i])
	})
}

// renderHistogram draws sampled counts as bars, with every basis outcome of
// width numQubits listed even when it was never drawn.
func renderHistogram(h Histogram, numQubits int) string {
	labels := make([]string, 1<<numQubits)
	values := make([]float64, len(labels))
	for i := range labels {
		labels[i] = bitString(i, numQubits)
		values[i] = float64(h[labels[i]])
	}
	return renderBars(labels, values, func(i int) string {
		return fmt.Sprintf("%5d  %.3f", h[labels[i]], h.Frequency(labels[i]))
	})
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at position (x, y).
// It handles ANSI escape sequences by tracking visible column positions.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

func isEscEnd(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// spliceLineAt replaces visible columns starting at position x in bgLine with overlay content.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	var prefix strings.Builder
	col := 0
	i := 0

	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				prefix.WriteRune(runes[i])
				i++
				if r := runes[i-1]; r != '\x1b' && r != '[' && isEscEnd(r) {
					break
				}
			}
		} else {
			prefix.WriteRune(runes[i])
			col++
			i++
		}
	}

	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			for i < len(runes) {
				i++
				if r := runes[i-1]; r != '\x1b' && r != '[' && isEscEnd(r) {
					break
				}
			}
		} else {
			skipped++
			i++
		}
	}

	return prefix.String() + overlay + string(runes[i:])
}

// visibleLen returns the number of visible (non-ANSI-escape) characters in a string.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if isEscEnd(r) {
				inEsc = false
			}
			continue
		}
		n++
	}
	return n
}

// joinPanels lays two panels side by side.
func joinPanels(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
