package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/uncurl/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DB string
}

// SessionsResult lists recorded sessions.
type SessionsResult struct {
	Sessions []store.Session `json:"sessions"`
}

// Text renders one session per line.
func (r SessionsResult) Text() string {
	if len(r.Sessions) == 0 {
		return "No sessions recorded.\n"
	}
	var b strings.Builder
	for _, s := range r.Sessions {
		fmt.Fprintf(&b, "%s  %-16s %dx%d length=%d elem=%d  %s\n",
			s.ID, s.Curve, 1<<s.WidthLog2, 1<<s.WidthLog2, s.Length, s.ElemSize, s.Source)
	}
	return b.String()
}

// SessionHistory is one session with its lookups.
type SessionHistory struct {
	Session store.Session  `json:"session"`
	Lookups []store.Lookup `json:"lookups"`
}

// Text renders the lookups in order.
func (r SessionHistory) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s (%s)\n", r.Session.ID, r.Session.Curve, r.Session.Source)
	for _, l := range r.Lookups {
		if l.Position != nil {
			fmt.Fprintf(&b, "%d %s -> %d\n", l.Seq, l.Point, *l.Position)
		} else {
			fmt.Fprintf(&b, "%d %s -> unset\n", l.Seq, l.Point)
		}
	}
	return b.String()
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Show the lookup log",
		Long: `List recorded sessions, or the lookups of one session in order.

Examples:
  uncurl history --db uncurl.db
  uncurl history --db uncurl.db 0190c3e2-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to SQLite lookup log")

	return cmd
}

func runHistory(opts *HistoryOptions, args []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	s := settings{cmd: cmd, cfg: opts.config()}
	ctx := cmd.Context()

	dbPath := s.db(opts.DB)
	if dbPath == "" {
		return NewExitError(ExitCommandError, "no database: give --db or set db in the config")
	}
	// history never creates a database
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if len(args) == 0 {
		sessions, err := st.ReadSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read sessions", err)
		}
		return f.Success(SessionsResult{Sessions: sessions})
	}

	sess, ok, err := st.ReadSession(ctx, args[0])
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	if !ok {
		_ = f.Error("E001", fmt.Sprintf("session not found: %s", args[0]), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("session not found: %s", args[0]))
	}
	lookups, err := st.ReadLookups(ctx, sess.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read lookups", err)
	}
	return f.SuccessWithSession(SessionHistory{Session: sess, Lookups: lookups}, sess.ID)
}
