package main

import (
	"fmt"
	"strings"
)

// menuAction is what selecting a menu item does.
type menuAction int

const (
	actionSetDepth menuAction = iota
	actionShowQASM
	actionShowDistribution
	actionShowCircuit
)

// menuItem represents a single choice in the menu.
type menuItem struct {
	name        string
	hint        string
	action      menuAction
	repetitions int
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// probeMenu defines the probe picker categories and items.
var probeMenu = []menuCategory{
	{
		name: "Probe Depth",
		items: []menuItem{
			{name: "Single peek", hint: "N=1", action: actionSetDepth, repetitions: 1},
			{name: "Light", hint: "N=5", action: actionSetDepth, repetitions: 5},
			{name: "Standard", hint: "N=20", action: actionSetDepth, repetitions: 20},
			{name: "Deep", hint: "N=100", action: actionSetDepth, repetitions: 100},
		},
	},
	{
		name: "Inspect",
		items: []menuItem{
			{name: "Circuit diagram", hint: "ship", action: actionShowCircuit},
			{name: "QASM listing", hint: "ship", action: actionShowQASM},
			{name: "Exact odds", hint: "both cases", action: actionShowDistribution},
		},
	},
}

// renderMenu renders the floating probe-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Probe Menu"))
	sb.WriteString("\n")

	for i, cat := range probeMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(probeMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 32)))
	sb.WriteString("\n")

	cat := probeMenu[m.menuCat]
	for i, item := range cat.items {
		label := item.name
		if item.action == actionSetDepth && item.repetitions == m.repetitions {
			label += " *"
		}
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-18s", label)))
			sb.WriteString(gateStyle.Render(item.hint))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-18s", label)))
			sb.WriteString(dimStyle.Render(item.hint))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("←→ Tab  ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
