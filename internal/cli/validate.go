package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goverload/goverload"
	"github.com/goverload/goverload/internal/compiler"
	"github.com/goverload/goverload/signature"
)

// Conflict is one detected overlap between two candidates of a set.
type Conflict struct {
	Set     string `json:"set"`
	Earlier int    `json:"earlier"`
	Later   int    `json:"later"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool       `json:"valid"`
	Sets      int        `json:"sets"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <decl-path>",
		Short: "Validate overload declarations and detect conflicts",
		Long: `Validate CUE overload declarations and run the static conflict
detector over every candidate pair.

Conflicts are advisories: two signatures whose arity ranges and per-name
constraint sets can both accept some call. At runtime the earlier
registration wins such ties. With --strict, conflicts fail the command.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], strict, cmd)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat conflicts as failures")
	return cmd
}

func runValidate(opts *RootOptions, path string, strict bool, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := LoadSets(path)
	if err != nil {
		return err
	}
	formatter.VerboseLog("loaded %d set(s) from %d file(s)", len(loaded.Sets), loaded.FileCount)

	result := ValidationResult{Valid: true, Sets: len(loaded.Sets)}
	for _, set := range loaded.Sets {
		conflicts, err := detectConflicts(set)
		if err != nil {
			return WrapExitError(ExitFailure, "invalid declaration", err)
		}
		result.Conflicts = append(result.Conflicts, conflicts...)
	}

	if opts.Format == "json" {
		if err := formatter.JSON(result); err != nil {
			return err
		}
	} else {
		formatter.Text("validated %d overload set(s)", result.Sets)
		for _, c := range result.Conflicts {
			formatter.Text("conflict: %s", c.Message)
		}
		if len(result.Conflicts) == 0 {
			formatter.Text("no conflicts detected")
		}
	}

	if strict && len(result.Conflicts) > 0 {
		return NewExitError(ExitFailure, "conflicting overloads detected")
	}
	return nil
}

// detectConflicts runs the pairwise overlap check exactly as registration
// would, without needing any callable.
func detectConflicts(set compiler.OverloadSet) ([]Conflict, error) {
	sigs := make([]*signature.Signature, 0, len(set.Candidates))
	for _, cd := range set.Candidates {
		sig, err := cd.Signature()
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}

	var conflicts []Conflict
	for j := 1; j < len(sigs); j++ {
		for i := 0; i < j; i++ {
			if goverload.Overlaps(sigs[i], sigs[j]) {
				conflicts = append(conflicts, Conflict{
					Set:     set.Name,
					Earlier: i,
					Later:   j,
					Message: fmt.Sprintf("overload collision on %q: %s overlaps %s; on a runtime tie the earlier registration wins",
						set.Name, sigs[j], sigs[i]),
				})
			}
		}
	}
	return conflicts, nil
}
