package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"portfolio-feedback/internal/feedback"
)

var statusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change the status of a feedback item",
	Args:  cobra.ExactArgs(2),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}
	c, _, err := newClient(cmd)
	if err != nil {
		return err
	}
	status := feedback.Status(args[1])
	if err := c.UpdateStatus(cmd.Context(), id, status); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Feedback #%d status updated to: %s\n", id, status)
	return nil
}
