package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"checkpoint/internal/bootstrap"
	sessiondomain "checkpoint/internal/modules/session/domain"
	sessiondto "checkpoint/internal/modules/session/dto"
	"checkpoint/internal/platform/config"
	apperrors "checkpoint/internal/platform/errors"
	"checkpoint/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "checkpoint",
		Short:         "Gaming session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: XDG data dir)")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newStartCmd(&dataDir))
	root.AddCommand(newStopCmd(&dataDir))
	root.AddCommand(newCheckoutCmd(&dataDir))
	root.AddCommand(newActiveCmd(&dataDir))
	root.AddCommand(newAddCmd(&dataDir))
	root.AddCommand(newListCmd(&dataDir))
	root.AddCommand(newEditCmd(&dataDir))
	root.AddCommand(newDeleteCmd(&dataDir))
	root.AddCommand(newImportCmd(&dataDir))
	root.AddCommand(newExportCmd(&dataDir))
	return root
}

func loadApp(dataDir string, log *slog.Logger) (*bootstrap.App, error) {
	cfg, err := config.New(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, log)
}

func cliLogger() *slog.Logger {
	return logging.New(os.Stderr, slog.LevelWarn)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the checkpoint terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataDir)
			if err != nil {
				return err
			}
			logFile, err := bootstrap.OpenLogFile(cfg.LogPath)
			if err != nil {
				return err
			}
			defer func() { _ = logFile.Close() }()

			app, err := bootstrap.New(cfg, logging.New(logFile, slog.LevelInfo))
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newStartCmd(dataDir *string) *cobra.Command {
	var intent string
	start := &cobra.Command{
		Use:   "start <game>",
		Short: "Start a timed session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Start(context.Background(), strings.Join(args, " "), intent)
			if errors.Is(err, apperrors.ErrSessionActive) {
				// No-op, not a failure: the running session continues.
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), err.Error())
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %s (%s) at %s\n",
				out.Game, out.ID, formatTime(out.Start))
			return nil
		},
	}
	start.Flags().StringVar(&intent, "intent", "", "what you want to get done")
	return start
}

func newStopCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the active session (leaves it awaiting checkout)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Stop(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopped %s after %s; run `checkpoint checkout` to record the outcome\n",
				out.Game, formatSpan(out.End-out.Start))
			return nil
		},
	}
}

func newCheckoutCmd(dataDir *string) *cobra.Command {
	var outcome string
	var skip bool
	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Settle the pending checkout with an outcome note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Checkout(context.Background(), outcome, skip)
			if err != nil {
				return err
			}
			if skip {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checkout skipped for %s\n", out.Game)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checkout saved for %s\n", out.Game)
			return nil
		},
	}
	checkout.Flags().StringVar(&outcome, "outcome", "", "what happened during the session")
	checkout.Flags().BoolVar(&skip, "skip", false, "dismiss the checkout without a note")
	return checkout
}

func newActiveCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active session, if any",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Active(context.Background())
			if err == nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  started %s  elapsed %s\n",
					out.Game, formatTime(out.Start), formatSpan(out.ElapsedMS))
				if out.Intent != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "intent: %s\n", out.Intent)
				}
				return nil
			}
			if !errors.Is(err, apperrors.ErrNoActiveSession) {
				return err
			}
			pending, err := app.SessionCLI.Pending(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  awaiting checkout (%s, %s)\n",
				pending.Game, formatTime(pending.Start), formatSpan(pending.End-pending.Start))
			return nil
		},
	}
}

func newAddCmd(dataDir *string) *cobra.Command {
	var start, end, intent, outcome string
	add := &cobra.Command{
		Use:   "add <game> --start <time> --end <time>",
		Short: "Log a past session by hand",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.ManualAdd(context.Background(), sessiondto.ManualAddInput{
				Game:    strings.Join(args, " "),
				Start:   start,
				End:     end,
				Intent:  intent,
				Outcome: outcome,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) %s, %s\n",
				out.Game, out.ID, formatTime(out.Start), formatSpan(out.End-out.Start))
			return nil
		},
	}
	add.Flags().StringVar(&start, "start", "", "start time (2006-01-02 15:04 or epoch ms)")
	add.Flags().StringVar(&end, "end", "", "end time (2006-01-02 15:04 or epoch ms)")
	add.Flags().StringVar(&intent, "intent", "", "what you wanted to get done")
	add.Flags().StringVar(&outcome, "outcome", "", "what happened")
	return add
}

func newListCmd(dataDir *string) *cobra.Command {
	var day string
	var offset int
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if day != "" || cmd.Flags().Changed("offset") {
				base := time.Now()
				if day != "" {
					base, err = time.ParseInLocation("2006-01-02", day, time.Local)
					if err != nil {
						return fmt.Errorf("--day must be YYYY-MM-DD")
					}
				}
				dayKey := sessiondomain.ShiftDay(sessiondomain.DayKey(base), offset, time.Local)
				out, err := app.SessionCLI.ListDay(context.Background(), dayKey)
				if err != nil {
					return err
				}
				if len(out.Sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range out.Sessions {
					printRecord(cmd, s)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total: %s\n", formatSpan(out.TotalMS))
				return nil
			}

			sessions, err := app.SessionCLI.ListAll(context.Background())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				printRecord(cmd, s)
			}
			return nil
		},
	}
	list.Flags().StringVar(&day, "day", "", "limit to one local day (YYYY-MM-DD)")
	list.Flags().IntVar(&offset, "offset", 0, "shift the day by N calendar days (-1 is yesterday)")
	return list
}

func printRecord(cmd *cobra.Command, s sessiondto.SessionRecord) {
	line := fmt.Sprintf("%s\t%s\t%s\t%s", s.ID, formatTime(s.Start), formatSpan(s.End-s.Start), s.Game)
	if s.Outcome != nil {
		line += "\t" + *s.Outcome
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
}

func newEditCmd(dataDir *string) *cobra.Command {
	var game, intent, outcome string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a session's title or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := sessiondto.EditInput{ID: args[0]}
			if cmd.Flags().Changed("game") {
				input.Game = &game
			}
			if cmd.Flags().Changed("intent") {
				input.Intent = &intent
			}
			if cmd.Flags().Changed("outcome") {
				input.Outcome = &outcome
			}
			if input.Game == nil && input.Intent == nil && input.Outcome == nil {
				return fmt.Errorf("nothing to change: pass --game, --intent, or --outcome")
			}
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.SessionCLI.Edit(context.Background(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%s)\n", out.Game, out.ID)
			return nil
		},
	}
	edit.Flags().StringVar(&game, "game", "", "new game title")
	edit.Flags().StringVar(&intent, "intent", "", "new intent note (empty clears it)")
	edit.Flags().StringVar(&outcome, "outcome", "", "new outcome note (empty clears it)")
	return edit
}

func newDeleteCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.SessionCLI.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Import sessions from a JSON file, merging by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.TransferCLI.ImportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			if out.Total == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions found in file")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d sessions (skipped %d invalid); collection now holds %d\n",
				out.Imported, out.Total, out.Skipped, out.Collection)
			return nil
		},
	}
}

func newExportCmd(dataDir *string) *cobra.Command {
	var digest bool
	export := &cobra.Command{
		Use:   "export <path>",
		Short: "Export all sessions to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(*dataDir, cliLogger())
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.TransferCLI.ExportFile(context.Background(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", out.Count, args[0])
			if digest {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sha256 (canonical): %s\n", out.Digest)
			}
			return nil
		},
	}
	export.Flags().BoolVar(&digest, "digest", false, "print the canonical-JSON sha256 of the payload")
	return export
}

func formatTime(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func formatSpan(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
