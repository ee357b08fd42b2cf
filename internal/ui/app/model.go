package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondomain "checkpoint/internal/modules/session/domain"
	sessiondto "checkpoint/internal/modules/session/dto"
	transferdto "checkpoint/internal/modules/transfer/dto"
	"checkpoint/internal/platform/clock"
	apperrors "checkpoint/internal/platform/errors"
	"checkpoint/internal/ui/components"
	"checkpoint/internal/ui/theme"
	journalview "checkpoint/internal/ui/views/journal"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type sessionPort interface {
	Start(ctx context.Context, game, intent string) (sessiondto.ActiveOutput, error)
	Stop(ctx context.Context) (sessiondto.SessionRecord, error)
	Checkout(ctx context.Context, outcome string, skip bool) (sessiondto.SessionRecord, error)
	ManualAdd(ctx context.Context, input sessiondto.ManualAddInput) (sessiondto.SessionRecord, error)
	Edit(ctx context.Context, input sessiondto.EditInput) (sessiondto.SessionRecord, error)
	Delete(ctx context.Context, id string) error
	ListDay(ctx context.Context, dayKey int64) (sessiondto.DayOutput, error)
	Active(ctx context.Context) (sessiondto.ActiveOutput, error)
	Pending(ctx context.Context) (sessiondto.SessionRecord, error)
}

type transferPort interface {
	ImportFile(ctx context.Context, path string) (transferdto.ImportOutput, error)
	ExportFile(ctx context.Context, path string) (transferdto.ExportOutput, error)
}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active  sessiondto.ActiveOutput
	pending sessiondto.SessionRecord
	err     error
	hasPend bool
}

type sessionStartedMsg struct {
	active sessiondto.ActiveOutput
	err    error
}

type sessionStoppedMsg struct {
	record sessiondto.SessionRecord
	err    error
}

type checkoutDoneMsg struct {
	record  sessiondto.SessionRecord
	skipped bool
	err     error
}

type sessionMutatedMsg struct {
	verb string
	err  error
}

type importedMsg struct {
	out transferdto.ImportOutput
	err error
}

type exportedMsg struct {
	out  transferdto.ExportOutput
	path string
	err  error
}

type timerTickMsg time.Time

type rolloverTickMsg time.Time

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Start   key.Binding
	Stop    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		PrevDay: key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "change day")),
		NextDay: key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "change day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop session")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "log by hand")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Add, k.Delete},
		{k.PrevDay, k.Today},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns day navigation, timer state,
// the checkout prompt, the global help overlay, and the command palette.
// All business logic is delegated to port interfaces; list rendering is
// delegated to the journal view.
type Model struct {
	session  sessionPort
	transfer transferPort
	clock    clock.Clock

	journal journalview.Model

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	addForm  components.AddForm

	// checkout prompt, opened when a session stops
	checkout        textinput.Model
	checkoutVisible bool

	active    sessiondto.ActiveOutput
	hasActive bool
	elapsedMS int64

	// followToday tracks whether the journal is pinned to the current day,
	// so the rollover tick can snap forward even across a multi-day suspend.
	followToday bool

	status string
	width  int
	height int
}

func NewModel(session sessionPort, transfer transferPort, clk clock.Clock) Model {
	prompt := textinput.New()
	prompt.Placeholder = "what happened? (enter: save, esc: skip)"
	prompt.CharLimit = sessiondomain.NoteLimit

	return Model{
		session:     session,
		transfer:    transfer,
		clock:       clk,
		journal:     journalview.New(session, sessiondomain.DayKey(clk.Now())),
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		addForm:     components.NewAddForm(),
		checkout:    prompt,
		followToday: true,
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.journal.Init(),
		m.loadActiveCmd(),
		rolloverTickCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Overlays intercept all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}
	if m.addForm.Visible() {
		var cmd tea.Cmd
		m.addForm, cmd = m.addForm.Update(msg)
		return m, cmd
	}
	if m.checkoutVisible {
		if model, cmd, handled := m.updateCheckoutPrompt(msg); handled {
			return model, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.addForm.SetWidth(min(m.width-4, 80))
		m.checkout.Width = min(m.width-8, 72)
		m.help.Width = m.width
		m.journal, _ = m.journal.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 3})
		return m, nil

	case activeLoadedMsg:
		switch {
		case msg.err != nil:
			m.status = "startup check: " + msg.err.Error()
		case msg.active.ID != "":
			m.hasActive = true
			m.active = msg.active
			m.elapsedMS = msg.active.ElapsedMS
			m.status = "session recovered: " + msg.active.Game
			cmds = append(cmds, timerTickCmd())
		case msg.hasPend:
			m.status = "unfinished checkout: " + msg.pending.Game
			cmds = append(cmds, m.openCheckoutPrompt())
		}

	case sessionStartedMsg:
		if errors.Is(msg.err, apperrors.ErrSessionActive) {
			// Not a failure: the running session simply continues.
			m.status = msg.err.Error()
		} else if msg.err != nil {
			m.status = "start failed: " + msg.err.Error()
		} else {
			m.hasActive = true
			m.active = msg.active
			m.elapsedMS = 0
			m.status = "session started: " + msg.active.Game
			cmds = append(cmds, timerTickCmd())
		}

	case sessionStoppedMsg:
		if msg.err != nil {
			m.status = "stop failed: " + msg.err.Error()
		} else {
			m.hasActive = false
			m.active = sessiondto.ActiveOutput{}
			m.status = fmt.Sprintf("stopped %s after %s",
				msg.record.Game, journalview.FormatDuration(msg.record.End-msg.record.Start))
			cmds = append(cmds, m.openCheckoutPrompt(), m.journal.Reload())
		}

	case checkoutDoneMsg:
		switch {
		case msg.err != nil:
			m.status = "checkout failed: " + msg.err.Error()
		case msg.skipped:
			m.status = "checkout skipped"
		default:
			m.status = "checkout saved: " + msg.record.Game
		}
		cmds = append(cmds, m.journal.Reload())

	case sessionMutatedMsg:
		if msg.err != nil {
			m.status = msg.verb + " failed: " + msg.err.Error()
		} else {
			m.status = msg.verb + " done"
			cmds = append(cmds, m.journal.Reload())
		}

	case importedMsg:
		switch {
		case msg.err != nil:
			m.status = "import failed: " + msg.err.Error()
		case msg.out.Total == 0:
			m.status = "import: no sessions found in file"
		default:
			m.status = fmt.Sprintf("imported %d of %d (skipped %d invalid)",
				msg.out.Imported, msg.out.Total, msg.out.Skipped)
			cmds = append(cmds, m.journal.Reload())
		}

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d sessions to %s (sha256 %.12s…)",
				msg.out.Count, msg.path, msg.out.Digest)
		}

	case timerTickMsg:
		if m.hasActive {
			m.elapsedMS = m.clock.Now().UnixMilli() - m.active.Start
			cmds = append(cmds, timerTickCmd())
		}

	case rolloverTickMsg:
		// Keep a today-pinned journal current across local midnight (or a
		// multi-day suspend) without restarting.
		today := sessiondomain.DayKey(m.clock.Now())
		if m.followToday && m.journal.DayKey() != today {
			cmds = append(cmds, m.journal.SetDay(today))
		}
		cmds = append(cmds, rolloverTickCmd())

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case components.AddFormSubmitMsg:
		return m, m.manualAddCmd(sessiondto.ManualAddInput{
			Game:    msg.Game,
			Start:   msg.Start,
			End:     msg.End,
			Intent:  msg.Intent,
			Outcome: msg.Outcome,
		})

	case components.AddFormCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.journal.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			return m, m.palette.Open()
		case "s":
			return m, m.palette.OpenWith("session:start ")
		case "x":
			return m, m.stopCmd()
		case "a":
			return m, m.addForm.Open()
		case "d":
			if id, ok := m.journal.SelectedSessionID(); ok {
				return m, m.deleteCmd(id)
			}
			m.status = "nothing selected"
		case "t":
			return m, m.goToday()
		case "left":
			return m, m.shiftDay(-1)
		case "right":
			return m, m.shiftDay(1)
		}
	}

	var jCmd tea.Cmd
	m.journal, jCmd = m.journal.Update(msg)
	cmds = append(cmds, jCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) updateCheckoutPrompt(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.checkout, cmd = m.checkout.Update(msg)
		return m, cmd, true
	}
	switch keyMsg.String() {
	case "esc":
		m.checkoutVisible = false
		m.checkout.Blur()
		return m, m.checkoutCmd("", true), true
	case "enter":
		outcome := strings.TrimSpace(m.checkout.Value())
		m.checkoutVisible = false
		m.checkout.Blur()
		return m, m.checkoutCmd(outcome, false), true
	}
	var cmd tea.Cmd
	m.checkout, cmd = m.checkout.Update(msg)
	return m, cmd, true
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(titleBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.addForm.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.addForm.View())
	case m.checkoutVisible:
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.renderCheckoutPrompt())
	default:
		content = m.journal.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, titleBar, content, statusBar)
}

func (m Model) renderTitleBar() string {
	bar := theme.Title.Render("checkpoint") + theme.Muted.Render("  ←/→: day  t: today")
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasActive {
		left = theme.Timer.Render("● "+m.active.Game+" "+formatElapsed(m.elapsedMS)) + "  " + left
	}
	right := theme.Muted.Render("s:start  x:stop  a:add  ?:help  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) renderCheckoutPrompt() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Checkout") + "\n")
	sb.WriteString(theme.Muted.Render("What did you accomplish?") + "\n\n")
	sb.WriteString(m.checkout.View())
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Green).
		Background(theme.Mantle).
		Padding(0, 1).
		Render(sb.String())
}

func formatElapsed(ms int64) string {
	total := ms / 1000
	if total < 0 {
		total = 0
	}
	h, rem := total/3600, total%3600
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, rem/60, rem%60)
	}
	return fmt.Sprintf("%02d:%02d", rem/60, rem%60)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "session:start":
		if rest == "" {
			m.status = "usage: session:start <game>"
			return m, nil
		}
		return m, m.startCmd(rest, "")

	case "session:stop":
		return m, m.stopCmd()

	case "session:checkout":
		return m, m.checkoutCmd(rest, false)

	case "session:skip":
		return m, m.checkoutCmd("", true)

	case "session:add":
		return m, m.addForm.Open()

	case "session:edit-title":
		return m, m.editSelected(func(in *sessiondto.EditInput) { in.Game = &rest })

	case "session:edit-intent":
		return m, m.editSelected(func(in *sessiondto.EditInput) { in.Intent = &rest })

	case "session:edit-outcome":
		return m, m.editSelected(func(in *sessiondto.EditInput) { in.Outcome = &rest })

	case "session:delete":
		if id, ok := m.journal.SelectedSessionID(); ok {
			return m, m.deleteCmd(id)
		}
		m.status = "nothing selected"
		return m, nil

	case "day:today":
		return m, m.goToday()

	case "transfer:import":
		if rest == "" {
			m.status = "usage: transfer:import <path>"
			return m, nil
		}
		return m, m.importCmd(rest)

	case "transfer:export":
		if rest == "" {
			m.status = "usage: transfer:export <path>"
			return m, nil
		}
		return m, m.exportCmd(rest)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) shiftDay(delta int) tea.Cmd {
	now := m.clock.Now()
	next := sessiondomain.ShiftDay(m.journal.DayKey(), delta, now.Location())
	m.followToday = next == sessiondomain.DayKey(now)
	return m.journal.SetDay(next)
}

func (m *Model) goToday() tea.Cmd {
	m.followToday = true
	return m.journal.SetDay(sessiondomain.DayKey(m.clock.Now()))
}

func (m *Model) openCheckoutPrompt() tea.Cmd {
	m.checkoutVisible = true
	m.checkout.SetValue("")
	return m.checkout.Focus()
}

func (m *Model) editSelected(apply func(*sessiondto.EditInput)) tea.Cmd {
	id, ok := m.journal.SelectedSessionID()
	if !ok {
		m.status = "nothing selected"
		return nil
	}
	input := sessiondto.EditInput{ID: id}
	apply(&input)
	return func() tea.Msg {
		_, err := m.session.Edit(context.Background(), input)
		return sessionMutatedMsg{verb: "edit", err: err}
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func timerTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

func rolloverTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return rolloverTickMsg(t) })
}

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.session.Active(context.Background())
		if err == nil {
			return activeLoadedMsg{active: active}
		}
		if !errors.Is(err, apperrors.ErrNoActiveSession) {
			return activeLoadedMsg{err: err}
		}
		pending, err := m.session.Pending(context.Background())
		if err == nil {
			return activeLoadedMsg{pending: pending, hasPend: true}
		}
		if !errors.Is(err, apperrors.ErrNoPendingCheckout) {
			return activeLoadedMsg{err: err}
		}
		return activeLoadedMsg{}
	}
}

func (m Model) startCmd(game, intent string) tea.Cmd {
	return func() tea.Msg {
		active, err := m.session.Start(context.Background(), game, intent)
		return sessionStartedMsg{active: active, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	return func() tea.Msg {
		record, err := m.session.Stop(context.Background())
		return sessionStoppedMsg{record: record, err: err}
	}
}

func (m Model) checkoutCmd(outcome string, skip bool) tea.Cmd {
	return func() tea.Msg {
		record, err := m.session.Checkout(context.Background(), outcome, skip)
		return checkoutDoneMsg{record: record, skipped: skip, err: err}
	}
}

func (m Model) manualAddCmd(input sessiondto.ManualAddInput) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.ManualAdd(context.Background(), input)
		return sessionMutatedMsg{verb: "add", err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.session.Delete(context.Background(), id)
		return sessionMutatedMsg{verb: "delete", err: err}
	}
}

func (m Model) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.transfer.ImportFile(context.Background(), path)
		return importedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.transfer.ExportFile(context.Background(), path)
		return exportedMsg{out: out, path: path, err: err}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
