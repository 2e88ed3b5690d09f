package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-feedback/internal/feedback"
)

var (
	listStatus   string
	listPriority string
	listLimit    int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback from the server, or the local cache when it is offline",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of items")
}

func runList(cmd *cobra.Command, args []string) error {
	c, _, err := newClient(cmd)
	if err != nil {
		return err
	}
	records, err := c.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list feedback: %w", err)
	}
	records = feedback.Filter{
		Status:   feedback.Status(listStatus),
		Priority: feedback.Priority(listPriority),
		Limit:    listLimit,
	}.Apply(records)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), feedback.ListItems(records))
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No feedback found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tSTATUS\tSECTION\tTEXT")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Type, r.Priority, r.Status, r.PageSection, feedback.Truncate(r.Text, 50))
	}
	return w.Flush()
}
