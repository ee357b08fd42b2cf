package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"checkpoint/internal/ui/theme"
)

// AddFormSubmitMsg carries the raw field values of a completed manual-entry
// form. Parsing and validation happen behind the session port, not here.
type AddFormSubmitMsg struct {
	Game    string
	Start   string
	End     string
	Intent  string
	Outcome string
}

// AddFormCancelMsg is emitted when the user presses esc.
type AddFormCancelMsg struct{}

var formStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Lavender).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

var formLabels = []string{"game", "start", "end", "intent", "outcome"}

// AddForm is a five-field overlay for logging a past session by hand.
// Tab/shift+tab cycle fields, enter submits, esc cancels.
type AddForm struct {
	inputs  []textinput.Model
	focused int
	visible bool
	width   int
}

func NewAddForm() AddForm {
	inputs := make([]textinput.Model, len(formLabels))
	placeholders := []string{
		"Hades",
		"2026-02-25 19:00",
		"2026-02-25 20:30",
		"optional",
		"optional",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		inputs[i] = ti
	}
	return AddForm{inputs: inputs}
}

func (f AddForm) Visible() bool { return f.visible }

func (f *AddForm) SetWidth(w int) { f.width = w }

// Open shows the form with cleared fields and focuses the first one.
func (f *AddForm) Open() tea.Cmd {
	f.visible = true
	f.focused = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	return f.inputs[0].Focus()
}

func (f AddForm) Update(msg tea.Msg) (AddForm, tea.Cmd) {
	if !f.visible {
		return f, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			f.visible = false
			f.inputs[f.focused].Blur()
			return f, func() tea.Msg { return AddFormCancelMsg{} }
		case "enter":
			submit := AddFormSubmitMsg{
				Game:    strings.TrimSpace(f.inputs[0].Value()),
				Start:   strings.TrimSpace(f.inputs[1].Value()),
				End:     strings.TrimSpace(f.inputs[2].Value()),
				Intent:  strings.TrimSpace(f.inputs[3].Value()),
				Outcome: strings.TrimSpace(f.inputs[4].Value()),
			}
			f.visible = false
			f.inputs[f.focused].Blur()
			return f, func() tea.Msg { return submit }
		case "tab", "down":
			return f, f.focus((f.focused + 1) % len(f.inputs))
		case "shift+tab", "up":
			return f, f.focus((f.focused + len(f.inputs) - 1) % len(f.inputs))
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f *AddForm) focus(idx int) tea.Cmd {
	f.inputs[f.focused].Blur()
	f.focused = idx
	return f.inputs[idx].Focus()
}

func (f AddForm) View() string {
	if !f.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Log Session") + "\n\n")
	for i, label := range formLabels {
		marker := "  "
		if i == f.focused {
			marker = theme.Hot.Render("> ")
		}
		sb.WriteString(marker + theme.Muted.Render(padLabel(label)) + f.inputs[i].View() + "\n")
	}
	sb.WriteString("\n" + hintStyle.Render("enter: save  tab: next field  esc: cancel"))

	w := f.width
	if w < 20 {
		w = 64
	}
	return formStyle.Width(w - 2).Render(sb.String())
}

func padLabel(label string) string {
	const width = 9
	if len(label) >= width {
		return label + " "
	}
	return label + strings.Repeat(" ", width-len(label))
}
