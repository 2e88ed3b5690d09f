package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"portfolio-feedback/internal/client"
	"portfolio-feedback/internal/config"
	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/notify"
	"portfolio-feedback/internal/storage"
)

var (
	serverURL   string
	cachePath   string
	journalPath string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:          "feedbackctl",
	Short:        "Submit and track portfolio feedback from the terminal",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Feedback server URL (overrides FEEDBACK_SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "",
		"Local cache file (overrides FEEDBACK_CACHE_PATH)")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "",
		"Delivery journal file (overrides FEEDBACK_JOURNAL_PATH)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig applies .env, the environment and then command-line overrides.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load(".env")
	cfg, err := config.Parse()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if cachePath != "" {
		cfg.CachePath = cachePath
	}
	if journalPath != "" {
		cfg.JournalPath = journalPath
	}
	return cfg, nil
}

func newClient(cmd *cobra.Command) (*client.Client, *storage.FileRecorder, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cache, err := client.NewCache(cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	journal, err := storage.NewFileRecorder(cfg.JournalPath)
	if err != nil {
		return nil, nil, err
	}
	return client.New(cfg.ServerURL, cache,
		client.WithJournal(journal),
		client.WithEmailFallback(emailFallback(cmd, cfg)),
	), journal, nil
}

// emailFallback prefers Gmail when it is configured, otherwise prints a
// mailto: link.
func emailFallback(cmd *cobra.Command, cfg *config.Config) feedback.Notifier {
	creds, err := cfg.GmailCredentials()
	if err == nil && creds != "" && cfg.GmailRefreshToken != "" && cfg.NotifyEmailTo != "" {
		gm, err := notify.NewGmail(context.Background(), creds, cfg.GmailRefreshToken, cfg.NotifyEmailTo)
		if err == nil {
			return gm
		}
		log.Printf("⚠️ Gmail fallback unavailable: %v", err)
	}
	return client.MailtoFallback{To: cfg.NotifyEmailTo, Out: cmd.OutOrStdout()}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
