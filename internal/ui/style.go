package ui

import "github.com/charmbracelet/lipgloss"

var TableGray = lipgloss.Color("240")

var Title = lipgloss.NewStyle().Inline(true).Bold(true).Foreground(lipgloss.Color("252")).Render
var Help = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("241")).Render
var Error = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("203")).Render
var Good = lipgloss.NewStyle().Inline(true).Foreground(lipgloss.Color("114")).Render

var TableBase = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(TableGray).
	Render
