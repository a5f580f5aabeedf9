package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/snug/internal/rep"
)

// TypeInfo describes one representation.
type TypeInfo struct {
	Name   string `json:"name"`
	Signed bool   `json:"signed"`
	Lower  string `json:"lower"`
	Upper  string `json:"upper"`
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List integer representations and their bounds",
		Long: `List every representation snug can evaluate, with its inclusive range.

Examples:
  snug types
  snug types --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(rootOpts, cmd)
		},
	}
}

func runTypes(opts *RootOptions, cmd *cobra.Command) error {
	types := rep.Types()
	infos := make([]TypeInfo, 0, len(types))
	for _, t := range types {
		lower, upper, err := t.Bounds()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read bounds", err)
		}
		infos = append(infos, TypeInfo{Name: t.String(), Signed: t.Signed(), Lower: lower, Upper: upper})
	}

	if opts.Format == "json" {
		return respond(cmd.OutOrStdout(), infos, nil)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tLOWER\tUPPER")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Lower, info.Upper)
	}
	return tw.Flush()
}
