package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary     = lipgloss.Color("#2563EB")
	colorSuccess     = lipgloss.Color("#16A34A")
	colorDestructive = lipgloss.Color("#DC2626")
	colorMuted       = lipgloss.Color("#6B7280")
	colorFaint       = lipgloss.Color("#9CA3AF")
	colorBorder      = lipgloss.Color("#D1D5DB")
)

type Styles struct {
	Header     lipgloss.Style
	Title      lipgloss.Style
	Revenue    lipgloss.Style
	Loading    lipgloss.Style
	ViewTitle  lipgloss.Style
	Empty      lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Price      lipgloss.Style
	Meta       lipgloss.Style
	Action     lipgloss.Style
	Served     lipgloss.Style
	Deleted    lipgloss.Style
	Struck     lipgloss.Style
	Panel      lipgloss.Style
	PanelItem  lipgloss.Style
	PanelFocus lipgloss.Style
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style
	Stat       lipgloss.Style
	Help       lipgloss.Style
}

func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorPrimary).
		Padding(0, 1).
		MarginBottom(1)

	return Styles{
		Header:     lipgloss.NewStyle().Padding(0, 1).MarginBottom(1),
		Title:      lipgloss.NewStyle().Bold(true),
		Revenue:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Loading:    lipgloss.NewStyle().Foreground(colorMuted),
		ViewTitle:  lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Empty:      lipgloss.NewStyle().Foreground(colorMuted).Padding(1, 2),
		Card:       card,
		Selected:   card.BorderForeground(colorSuccess).Bold(true),
		Price:      lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		Meta:       lipgloss.NewStyle().Foreground(colorMuted),
		Action:     lipgloss.NewStyle().Foreground(colorPrimary),
		Served:     lipgloss.NewStyle().Foreground(colorMuted).Bold(true),
		Deleted:    lipgloss.NewStyle().Foreground(colorDestructive).Bold(true),
		Struck:     lipgloss.NewStyle().Strikethrough(true).Foreground(colorFaint),
		Panel:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1).MarginRight(2),
		PanelItem:  lipgloss.NewStyle().Padding(0, 1),
		PanelFocus: lipgloss.NewStyle().Padding(0, 1).Reverse(true),
		Modal:      lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(colorDestructive).Padding(1, 2).Width(48),
		ModalTitle: lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Stat:       lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 2),
		Help:       lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}
