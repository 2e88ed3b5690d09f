package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-feedback/internal/client"
	"portfolio-feedback/internal/feedback"
)

var (
	submitType     string
	submitPriority string
	submitSection  string
	submitExpected string
)

var submitCmd = &cobra.Command{
	Use:   "submit <text>",
	Short: "Submit a piece of feedback",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitType, "type", "update",
		"Feedback type: update, create, delete, fix, design")
	submitCmd.Flags().StringVar(&submitPriority, "priority", "medium",
		"Priority: high, medium, low")
	submitCmd.Flags().StringVar(&submitSection, "section", "",
		"Page or section the feedback is about")
	submitCmd.Flags().StringVar(&submitExpected, "expected", "",
		"Expected result (optional)")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	c, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	rec, err := c.Submit(cmd.Context(), client.Submission{
		Type:           feedback.Type(submitType),
		Priority:       feedback.Priority(submitPriority),
		PageSection:    submitSection,
		Text:           args[0],
		ExpectedResult: submitExpected,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), rec)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Feedback #%d: %s\n", rec.ID, rec.Status)
	return nil
}
