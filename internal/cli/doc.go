package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// DocEntry is the JSON shape of one set's documentation view.
type DocEntry struct {
	Set string `json:"set"`
	Doc string `json:"doc"`
}

// NewDocCommand creates the doc command.
func NewDocCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc <decl-path> [set-name]",
		Short: "Print the documentation view of overload sets",
		Long: `Print the aggregate documentation view for each overload set: the
logical name with every candidate's signature and doc line in
registration order. With a set name, print only that set.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			setName := ""
			if len(args) == 2 {
				setName = args[1]
			}
			return runDoc(rootOpts, args[0], setName, cmd)
		},
	}
	return cmd
}

func runDoc(opts *RootOptions, path, setName string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loaded, err := LoadSets(path)
	if err != nil {
		return err
	}

	sets := loaded.Sets
	if setName != "" {
		set, err := findSet(loaded, setName)
		if err != nil {
			return err
		}
		sets = sets[:0:0]
		sets = append(sets, set)
	}

	var entries []DocEntry
	for _, set := range sets {
		reg, _, err := buildSilent(set)
		if err != nil {
			return WrapExitError(ExitFailure, "building overload set", err)
		}
		entries = append(entries, DocEntry{Set: set.Name, Doc: reg.Doc()})
	}

	if opts.Format == "json" {
		return formatter.JSON(entries)
	}
	for i, e := range entries {
		if i > 0 {
			formatter.Text("")
		}
		formatter.Text("%s", strings.TrimSuffix(e.Doc, "\n"))
	}
	return nil
}
