package config

import (
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderNone   LLMProvider = ""
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// HTTP server
	Host        string   `env:"FEEDBACK_HOST" envDefault:"localhost"`
	Port        int      `env:"FEEDBACK_PORT" envDefault:"3001"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	Debug       bool     `env:"FEEDBACK_DEBUG" envDefault:"false"`

	// Storage
	FeedbackFilePath string `env:"FEEDBACK_FILE_PATH" envDefault:"data/feedback-data.json"`

	// Admin
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`
	SecureCookie  bool   `env:"ADMIN_SECURE_COOKIE" envDefault:"false"`

	// Notifications
	DesktopNotifications bool   `env:"DESKTOP_NOTIFICATIONS" envDefault:"true"`
	TelegramBotToken     string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID       int64  `env:"TELEGRAM_CHAT_ID"`
	GmailCredentialsJSON string `env:"GMAIL_CREDENTIALS_JSON"`
	GmailCredentialsPath string `env:"GMAIL_CREDENTIALS_JSON_PATH"`
	GmailRefreshToken    string `env:"GMAIL_REFRESH_TOKEN"`
	NotifyEmailTo        string `env:"NOTIFY_EMAIL_TO"`

	// Pending digest
	DigestCron        string      `env:"DIGEST_CRON" envDefault:"0 9 * * *"`
	DigestLLMProvider LLMProvider `env:"DIGEST_LLM_PROVIDER"`
	OpenAIAPIKey      string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL     string      `env:"OPENAI_BASE_URL"`
	OpenAIModel       string      `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken  string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID    string      `env:"YANDEX_FOLDER_ID"`

	// Client
	ServerURL   string `env:"FEEDBACK_SERVER_URL" envDefault:"http://localhost:3001"`
	CachePath   string `env:"FEEDBACK_CACHE_PATH" envDefault:"data/site-feedbacks.json"`
	JournalPath string `env:"FEEDBACK_JOURNAL_PATH" envDefault:"data/deliveries.jsonl"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AdminEnabled reports whether both admin credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// GmailCredentials returns the inline credentials JSON or, failing that, the
// contents of the credentials file. Empty means Gmail is not configured.
func (c *Config) GmailCredentials() (string, error) {
	if c.GmailCredentialsJSON != "" {
		return c.GmailCredentialsJSON, nil
	}
	if c.GmailCredentialsPath == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.GmailCredentialsPath)
	if err != nil {
		return "", fmt.Errorf("read gmail credentials: %w", err)
	}
	return string(data), nil
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
