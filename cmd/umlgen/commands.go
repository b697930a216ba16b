package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/umlgen/internal/command"
)

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the generator commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tLABEL\tKEYS\tALIASES")
		for _, s := range command.Specs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Label, strings.Join(s.Keys, ","), strings.Join(s.Aliases, ","))
		}
		return tw.Flush()
	},
}
