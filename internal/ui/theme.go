package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles styles, card colours and symbols.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Header, Muted, Accent, Success, Error, Pending lipgloss.Style
	Done, Selected, Help                           lipgloss.Style
	Input, InputFocused, Button, ButtonFocused     lipgloss.Style
	Badge, BadgeDone, Modal, ModalButton, Empty    lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor
	// Cards are the per-row background colours, cycled by index.
	Cards []lipgloss.Color

	BoxChecked, BoxUnchecked string
	SymDone, SymPending      string
}

// Card returns the style for the row at index.
func (t Theme) Card(index int) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if len(t.Cards) == 0 {
		return s.Border(lipgloss.NormalBorder(), false, false, false, true)
	}
	return s.Background(t.Cards[index%len(t.Cards)]).Foreground(lipgloss.Color("#ffffff")).Bold(true)
}

var current = Named("classic")

// SetTheme switches the theme used by every renderer. Unknown names fall
// back to classic.
func SetTheme(name string) { current = Named(name) }

// Current returns the active theme.
func Current() Theme { return current }

// Named builds one of the built-in themes: classic, neon or mono.
func Named(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		t := base("neon", lipgloss.RoundedBorder(), lipgloss.Color("13"))
		t.Header = t.Header.Foreground(lipgloss.Color("13"))
		t.Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		t.Pending = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		t.Cards = []lipgloss.Color{"#ff6ec7", "#8e7dff", "#39ff14", "#00e5ff", "#ffb000"}
		t.BoxChecked, t.BoxUnchecked = "◼", "◻"
		return t
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:          "mono",
			Header:        plain.Bold(true),
			Muted:         plain,
			Accent:        plain,
			Success:       plain,
			Error:         plain,
			Pending:       plain,
			Done:          plain.Strikethrough(true),
			Selected:      plain.Bold(true),
			Help:          plain,
			Input:         plain,
			InputFocused:  plain.Bold(true),
			Button:        plain,
			ButtonFocused: plain.Bold(true).Reverse(true),
			Badge:         plain,
			BadgeDone:     plain,
			Modal:         plain.Border(lipgloss.ASCIIBorder()).Padding(1, 3),
			ModalButton:   plain.Reverse(true).Padding(0, 2),
			Empty:         plain,
			Border:        lipgloss.ASCIIBorder(),
			BorderColor:   lipgloss.NoColor{},
			BoxChecked:    "[x]",
			BoxUnchecked:  "[ ]",
			SymDone:       "x",
			SymPending:    "-",
		}
	default:
		// Card colours are the gradient end stops of the card palette.
		t := base("classic", lipgloss.RoundedBorder(), lipgloss.Color("8"))
		t.Cards = []lipgloss.Color{"#fcb69f", "#8ec5fc", "#96e6a1", "#56CCF2", "#a6c1ee"}
		return t
	}
}

func base(name string, border lipgloss.Border, borderColor lipgloss.Color) Theme {
	primary := lipgloss.Color("#08B4DF")
	return Theme{
		Name:          name,
		Header:        lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Faint(true),
		Accent:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Done:          lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Selected:      lipgloss.NewStyle().Bold(true).Foreground(primary),
		Help:          lipgloss.NewStyle().Faint(true),
		Input:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#e0e0e0")).Padding(0, 1),
		InputFocused:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),
		Button:        lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#5a9fb0")).Padding(0, 2),
		ButtonFocused: lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(primary).Bold(true).Padding(0, 2),
		Badge:         lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#34A853")).Padding(0, 1),
		BadgeDone:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#a5d6a7")).Padding(0, 1),
		Modal:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(1, 3).Align(lipgloss.Center),
		ModalButton:   lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(primary).Bold(true).Padding(0, 3),
		Empty:         lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")),
		Border:        border,
		BorderColor:   borderColor,
		BoxChecked:    "☑",
		BoxUnchecked:  "☐",
		SymDone:       "✔",
		SymPending:    "•",
	}
}
