package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portfolio-feedback/internal/analytics"
)

var historyDate string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the delivery journal of submissions from this machine",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDate, "date", "",
		"Print delivery stats for one day (YYYY-MM-DD, local time) instead of the raw journal")
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, journal, err := newClient(cmd)
	if err != nil {
		return err
	}
	events, err := journal.Load()
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}

	if historyDate != "" {
		day, err := time.ParseInLocation("2006-01-02", historyDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", historyDate, err)
		}
		stats := analytics.AnalyzeDeliveries(events, day)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), stats)
		}
		fmt.Fprint(cmd.OutOrStdout(), stats.GenerateReportSummary())
		return nil
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), events)
	}
	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No deliveries recorded.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "TIME\tID\tSTATUS\tDETAIL")
	for _, ev := range events {
		detail := ev.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.FeedbackID, ev.Status, detail)
	}
	return w.Flush()
}
