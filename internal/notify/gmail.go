package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// OAuth2Credentials структура для OAuth2 credentials
type OAuth2Credentials struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURIs []string `json:"redirect_uris"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
}

// GoogleCredentialsFile структура для файла credentials.json из Google Cloud Console
type GoogleCredentialsFile struct {
	Installed *OAuth2Credentials `json:"installed,omitempty"`
	Web       *OAuth2Credentials `json:"web,omitempty"`
}

// ParseGoogleCredentials парсит credentials JSON: прямой формат или формат Google Cloud Console
func ParseGoogleCredentials(data []byte) (*OAuth2Credentials, error) {
	var direct OAuth2Credentials
	if err := json.Unmarshal(data, &direct); err == nil {
		if direct.ClientID != "" && direct.ClientSecret != "" {
			return &direct, nil
		}
	}

	var googleFile GoogleCredentialsFile
	if err := json.Unmarshal(data, &googleFile); err != nil {
		return nil, fmt.Errorf("failed to parse credentials as Google format: %w", err)
	}
	if googleFile.Installed != nil {
		return googleFile.Installed, nil
	}
	if googleFile.Web != nil {
		return googleFile.Web, nil
	}
	return nil, fmt.Errorf("no valid credentials found in JSON - expected 'installed' or 'web' section")
}

// GmailOAuthConfig создает OAuth2 config с правом только на отправку писем
func GmailOAuthConfig(creds *OAuth2Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}
}

// Gmail отправляет уведомления письмом от имени авторизованного аккаунта
type Gmail struct {
	svc *gmail.Service
	to  string
}

func NewGmail(ctx context.Context, credentialsJSON, refreshToken, to string) (*Gmail, error) {
	creds, err := ParseGoogleCredentials([]byte(credentialsJSON))
	if err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("gmail refresh token is required (run gmail-auth-helper)")
	}
	cfg := GmailOAuthConfig(creds)
	httpClient := cfg.Client(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Gmail{svc: svc, to: to}, nil
}

func (g *Gmail) Notify(ctx context.Context, title, message string) error {
	return g.SendEmail(ctx, g.to, title, message)
}

// SendEmail sends a plain-text message.
func (g *Gmail) SendEmail(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("gmail: recipient is empty")
	}
	raw := buildRawMessage(to, subject, body)
	if _, err := g.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

func buildRawMessage(to, subject, body string) string {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.BEncoding.Encode("UTF-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
