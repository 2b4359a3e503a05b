package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/goverload/goverload/internal/store"
)

// HistoryRun is the JSON shape of one recorded run.
type HistoryRun struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	Source      string           `json:"source"`
	Name        string           `json:"name"`
	Call        string           `json:"call"`
	WinnerIndex int              `json:"winner_index"`
	Attempts    []ExplainAttempt `json:"attempts,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded resolution runs",
		Long: `List recorded explain runs from the SQLite log, newest first. With
--run, show one run's per-candidate attempt rows instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, dbPath, limit, runID, cmd)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "goverload.db", "path to the run log database")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "show the attempt detail for one run ID")
	return cmd
}

func runHistory(opts *RootOptions, dbPath string, limit int, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening run log", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if runID != "" {
		attempts, err := st.GetAttempts(ctx, runID)
		if err != nil {
			return WrapExitError(ExitFailure, "reading attempts", err)
		}
		if len(attempts) == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("no run with id %q", runID))
		}
		out := make([]ExplainAttempt, 0, len(attempts))
		for _, a := range attempts {
			out = append(out, ExplainAttempt{
				Index:     a.Index,
				Signature: a.Signature,
				Bound:     a.Bound,
				BindError: a.BindError,
				Score:     a.Score,
				Winner:    a.Winner,
			})
		}
		if opts.Format == "json" {
			return formatter.JSON(out)
		}
		for _, a := range out {
			line := fmt.Sprintf("[%d] %s", a.Index, a.Signature)
			if a.Bound {
				line += fmt.Sprintf(" score=%d", a.Score)
				if a.Winner {
					line += " <- winner"
				}
			} else {
				line += " no-bind " + a.BindError
			}
			formatter.Text("%s", line)
		}
		return nil
	}

	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return WrapExitError(ExitFailure, "listing runs", err)
	}

	if opts.Format == "json" {
		out := make([]HistoryRun, 0, len(runs))
		for _, r := range runs {
			out = append(out, HistoryRun{
				ID:          r.ID,
				CreatedAt:   r.CreatedAt,
				Source:      r.Source,
				Name:        r.Name,
				Call:        r.Call,
				WinnerIndex: r.WinnerIndex,
			})
		}
		return formatter.JSON(out)
	}

	if len(runs) == 0 {
		formatter.Text("no recorded runs")
		return nil
	}
	for _, r := range runs {
		outcome := fmt.Sprintf("winner=%d", r.WinnerIndex)
		if r.WinnerIndex < 0 {
			outcome = "no match"
		}
		formatter.Text("%s  %s  %s  %s", r.ID, r.CreatedAt.Format(time.RFC3339), r.Call, outcome)
	}
	return nil
}
