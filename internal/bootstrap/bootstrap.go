package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	sessioninadapter "checkpoint/internal/modules/session/adapter/in"
	sessionoutadapter "checkpoint/internal/modules/session/adapter/out"
	sessionservice "checkpoint/internal/modules/session/service"
	sessionusecase "checkpoint/internal/modules/session/usecase"
	transferinadapter "checkpoint/internal/modules/transfer/adapter/in"
	transferservice "checkpoint/internal/modules/transfer/service"
	transferusecase "checkpoint/internal/modules/transfer/usecase"
	"checkpoint/internal/platform/clock"
	"checkpoint/internal/platform/config"
	"checkpoint/internal/platform/id"
	uiapp "checkpoint/internal/ui/app"
)

type App struct {
	SessionCLI  sessioninadapter.CLIHandler
	TransferCLI transferinadapter.CLIHandler

	clock clock.Clock
	store *sessionoutadapter.SQLiteSessionStore
}

// New wires the full dependency graph: system clock, uuid generator, the
// sqlite store behind the per-id write serializer, and the file-backed
// lifecycle state store.
func New(cfg config.Config, log *slog.Logger) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	store, err := sessionoutadapter.NewSQLiteSessionStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	serialized := sessionoutadapter.NewSerializedWrites(store)
	stateStore := sessionoutadapter.NewFileLifecycleStateStore(cfg.DataDir)

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, ids),
		clk,
		serialized,
		stateStore,
		log,
	)
	transferUC := transferusecase.NewInteractor(
		transferservice.NewTransferService(clk),
		sessionUC,
	)

	return &App{
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		TransferCLI: transferinadapter.NewCLIHandler(transferUC),
		clock:       clk,
		store:       store,
	}, nil
}

// Close releases the sqlite handle.
func (a *App) Close() error {
	return a.store.Close()
}

// RunTUI starts the Bubble Tea program in the alternate screen. The caller
// must route logs to a file, not stderr, before calling this.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.TransferCLI, app.clock)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// OpenLogFile opens (or creates) the append-only log file for TUI runs.
func OpenLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
