package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of conversations to list")
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived conversations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		limit, _ := cmd.Flags().GetInt("limit")
		convs, err := a.history.Conversations(cmd.Context(), limit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tMODEL\tSTARTED\tMESSAGES")
		for _, c := range convs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.ID, c.Model, c.CreatedAt.Format(time.DateTime), c.Messages)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		msgs, err := a.history.Messages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, m := range msgs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", m.Role, m.Content)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an archived conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.history.Delete(cmd.Context(), args[0])
	},
}
