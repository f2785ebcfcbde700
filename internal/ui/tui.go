package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/cardtodo/internal/app"
	"github.com/idilsaglam/cardtodo/internal/model"
)

// cardItem adapts a Record to bubbles/list.Item
type cardItem struct{ rec model.Record }

func (i cardItem) FilterValue() string { return i.rec.Name }

// cardDelegate renders each record as a single coloured row.
type cardDelegate struct{ theme Theme }

func (d cardDelegate) Height() int                               { return 1 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(cardItem)
	if !ok {
		return
	}
	t := d.theme
	width := m.Width() - 2
	if width < 24 {
		width = 24
	}

	num := fmt.Sprintf("%d.", index+1)
	badge := t.Badge.Render(it.rec.Age + " yrs")
	if it.rec.Completed {
		badge = t.BadgeDone.Render(it.rec.Age + " yrs")
	}
	// card padding (2) + number + one space + gap (1) + badge
	room := width - 2 - lipgloss.Width(num) - 1 - 1 - lipgloss.Width(badge)
	name := truncate(it.rec.Name, room)
	if it.rec.Completed {
		name = lipgloss.NewStyle().Strikethrough(true).Faint(true).Render(name)
	}
	left := num + " " + name
	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	card := t.Card(index).Width(width).Render(left + strings.Repeat(" ", gap) + badge)

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("▶ ")
	}
	fmt.Fprint(w, prefix+card)
}

type focus int

const (
	focusName focus = iota
	focusAge
	focusList
)

// Model is the single todo screen.
type Model struct {
	app   *app.App
	theme Theme
	keys  keyMap
	help  help.Model

	name, age textinput.Model
	list      list.Model
	focus     focus

	width, height int
}

// NewModel builds the screen around a, styled with the current theme.
func NewModel(a *app.App) Model {
	t := Current()

	name := textinput.New()
	name.Placeholder = "Enter your Name"
	name.Prompt = ""
	name.CharLimit = 0 // unlimited
	name.Focus()

	age := textinput.New()
	age.Placeholder = "Enter your Age"
	age.Prompt = ""
	age.CharLimit = 0

	l := list.New(nil, cardDelegate{theme: t}, 80, 10)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = t.Help

	h := help.New()
	h.Styles.ShortKey = t.Accent
	h.Styles.ShortDesc = t.Help

	m := Model{
		app:    a,
		theme:  t,
		keys:   defaultKeys(),
		help:   h,
		name:   name,
		age:    age,
		list:   l,
		focus:  focusName,
		width:  80,
		height: 24,
	}
	m.refresh()
	m.resize()
	return m
}

// Run starts the interactive screen and returns when the user quits or ctx
// is done.
func Run(ctx context.Context, a *app.App, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewModel(a), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		// The modal swallows everything until it is dismissed.
		if m.app.Notice().Visible() {
			if key.Matches(msg, m.keys.Dismiss) {
				m.app.Notice().Dismiss()
			}
			return m, nil
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateInputs(msg)
	}

	// Cursor blink and other ticks go to whichever input is focused.
	var cmd tea.Cmd
	switch m.focus {
	case focusName:
		m.name, cmd = m.name.Update(msg)
	case focusAge:
		m.age, cmd = m.age.Update(msg)
	}
	return m, cmd
}

func (m Model) updateInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus(m.focus + 1)
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus(m.focus + 2)
		return m, cmd
	case key.Matches(msg, m.keys.Leave):
		cmd := m.setFocus(focusList)
		return m, cmd
	case key.Matches(msg, m.keys.Save):
		cmd := m.submit()
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		if m.focus == focusName {
			cmd := m.setFocus(focusAge)
			return m, cmd
		}
		cmd := m.submit()
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.age, cmd = m.age.Update(msg)
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus(focusName)
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus(focusAge)
		return m, cmd
	case key.Matches(msg, m.keys.Write):
		cmd := m.setFocus(focusName)
		return m, cmd
	case key.Matches(msg, m.keys.Toggle):
		if rec, ok := m.selected(); ok {
			m.app.Toggle(rec.ID)
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Swipe):
		if rec, ok := m.selected(); ok {
			m.app.Remove(rec.ID)
			m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// submit dispatches the add intent. Drafts are cleared only on success.
func (m *Model) submit() tea.Cmd {
	if !m.app.Add(m.name.Value(), m.age.Value()) {
		return nil
	}
	m.name.SetValue("")
	m.age.SetValue("")
	m.refresh()
	m.list.Select(0)
	return m.setFocus(focusName)
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f % 3
	m.name.Blur()
	m.age.Blur()
	switch m.focus {
	case focusName:
		return m.name.Focus()
	case focusAge:
		return m.age.Focus()
	}
	return nil
}

func (m Model) selected() (model.Record, bool) {
	it, ok := m.list.SelectedItem().(cardItem)
	if !ok {
		return model.Record{}, false
	}
	return it.rec, true
}

// refresh re-reads the store into the list, keeping the cursor in range.
func (m *Model) refresh() {
	records := m.app.Records()
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = cardItem{rec: r}
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) resize() {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	m.name.Width = w - 4
	m.age.Width = w - 4
	h := m.height - lipgloss.Height(m.chrome()) - 3
	if h < 3 {
		h = 3
	}
	m.list.SetSize(w, h)
}

// chrome is everything above the list.
func (m Model) chrome() string {
	t := m.theme
	records := m.app.Records()
	d, p := model.Stats(records)

	header := t.Header.Render("✨ Todo App ✨")
	stats := Summary(records) + "  " + t.Muted.Render(ProgressBar(d, d+p, 20))

	nameBox, ageBox, button := t.Input, t.Input, t.Button
	switch m.focus {
	case focusName:
		nameBox = t.InputFocused
	case focusAge:
		ageBox = t.InputFocused
		button = t.ButtonFocused
	}
	w := m.width - 6
	if w < 30 {
		w = 30
	}
	form := lipgloss.JoinVertical(lipgloss.Left,
		nameBox.Width(w).Render(m.name.View()),
		ageBox.Width(w).Render(m.age.View()),
		button.Render("+ Add Todo"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, stats, "", form, "")
}

func (m Model) View() string {
	if m.app.Notice().Visible() {
		return m.modal()
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 {
		body = m.theme.Empty.Render(EmptyText)
	}

	var bindings []key.Binding
	if m.focus == focusList {
		bindings = m.keys.listHelp()
	} else {
		bindings = m.keys.inputHelp()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.chrome(),
		body,
		m.help.ShortHelpView(bindings),
	)
}

// modal draws the pending notification centred on an otherwise blank screen.
func (m Model) modal() string {
	t := m.theme
	box := t.Modal.Render(lipgloss.JoinVertical(lipgloss.Center,
		m.app.Notice().Message(),
		"",
		t.ModalButton.Render("OK"),
	))
	box = lipgloss.JoinVertical(lipgloss.Center, box, m.help.ShortHelpView(m.keys.modalHelp()))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars("·"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("#444444")),
	)
}
