package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "checkpoint/internal/modules/session/dto"
	"checkpoint/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type JournalPort interface {
	ListDay(ctx context.Context, dayKey int64) (sessiondto.DayOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type DayLoadedMsg struct {
	Day sessiondto.DayOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session sessiondto.SessionRecord
}

func (i sessionItem) Title() string { return i.session.Game }

func (i sessionItem) Description() string {
	start := time.UnixMilli(i.session.Start).Format("15:04")
	end := time.UnixMilli(i.session.End).Format("15:04")
	return fmt.Sprintf("%s–%s  %s", start, end, FormatDuration(i.session.End-i.session.Start))
}

func (i sessionItem) FilterValue() string { return i.session.Game }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    JournalPort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	day     sessiondto.DayOutput
	dayKey  int64
	loading bool
	width   int
	height  int
}

func New(port JournalPort, dayKey int64) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Journal"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		detail:  vp,
		spinner: sp,
		dayKey:  dayKey,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadDayCmd(m.dayKey), m.spinner.Tick)
}

// SetDay switches the view to another day and reloads it.
func (m *Model) SetDay(dayKey int64) tea.Cmd {
	m.dayKey = dayKey
	m.loading = true
	return tea.Batch(m.loadDayCmd(dayKey), m.spinner.Tick)
}

// Reload refetches the current day, keeping the selection index when the
// session is still present.
func (m *Model) Reload() tea.Cmd {
	return m.loadDayCmd(m.dayKey)
}

// DayKey returns the day currently shown.
func (m Model) DayKey() int64 { return m.dayKey }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case DayLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Journal — " + msg.Err.Error()
			return m, nil
		}
		m.day = msg.Day
		items := make([]list.Item, len(msg.Day.Sessions))
		for i, s := range msg.Day.Sessions {
			items[i] = sessionItem{session: s}
		}
		keep := m.list.Index()
		cmds = append(cmds, m.list.SetItems(items))
		if keep < len(items) {
			m.list.Select(keep)
		} else if len(items) > 0 {
			m.list.Select(len(items) - 1)
		}
		m.list.Title = "Journal — " + m.dayLabel()
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}

		var vCmd tea.Cmd
		m.detail, vCmd = m.detail.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading journal…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedSessionID returns the current selection's session id, if any.
func (m Model) SelectedSessionID() (string, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.ID, true
	}
	return "", false
}

// SelectedGame returns the current selection's game title.
func (m Model) SelectedGame() string {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.session.Game
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// FormatDuration renders a millisecond span as "1h 23m" or "12m".
func FormatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) dayLabel() string {
	label := time.UnixMilli(m.dayKey).Format("Mon, Jan 2")
	return fmt.Sprintf("%s  ·  %d sessions  ·  %s",
		label, len(m.day.Sessions), FormatDuration(m.day.TotalMS))
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("No sessions this day.\n\na: log one by hand  ←/→: other days")
	}
	s := item.session
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(s.Game) + "\n\n")
	sb.WriteString(theme.Muted.Render("start:    ") + time.UnixMilli(s.Start).Format("15:04:05") + "\n")
	sb.WriteString(theme.Muted.Render("end:      ") + time.UnixMilli(s.End).Format("15:04:05") + "\n")
	sb.WriteString(theme.Muted.Render("duration: ") + FormatDuration(s.End-s.Start) + "\n")
	if s.Intent != nil {
		sb.WriteString(theme.Muted.Render("intent:   ") + *s.Intent + "\n")
	}
	if s.Outcome != nil {
		sb.WriteString(theme.Muted.Render("outcome:  ") + *s.Outcome + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("d: delete  a: add  :: palette"))
	return sb.String()
}

func (m Model) loadDayCmd(dayKey int64) tea.Cmd {
	return func() tea.Msg {
		day, err := m.port.ListDay(context.Background(), dayKey)
		return DayLoadedMsg{Day: day, Err: err}
	}
}
