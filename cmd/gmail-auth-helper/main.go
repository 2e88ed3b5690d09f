package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"

	"portfolio-feedback/internal/notify"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: gmail-auth-helper <credentials.json>")
	}

	credentialsFile := os.Args[1]
	credentialsData, err := os.ReadFile(credentialsFile)
	if err != nil {
		log.Fatalf("Failed to read credentials file: %v", err)
	}

	credentials, err := notify.ParseGoogleCredentials(credentialsData)
	if err != nil {
		log.Fatalf("Failed to parse credentials: %v", err)
	}

	// только отправка писем, читать почту уведомлениям не нужно
	config := notify.GmailOAuthConfig(credentials)
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("🔗 Gmail OAuth2 Authorization Helper (send-only)\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("1. Open this URL in your browser:\n")
	fmt.Printf("   %s\n\n", authURL)
	fmt.Printf("2. Authorize the application\n")
	fmt.Printf("3. Copy the authorization code and enter it below\n\n")
	fmt.Printf("📝 Enter the authorization code: ")

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		log.Fatalf("Failed to read authorization code: %v", err)
	}

	token, err := config.Exchange(context.Background(), authCode)
	if err != nil {
		log.Fatalf("Failed to exchange code for token: %v", err)
	}

	fmt.Printf("\n✅ Successfully obtained tokens!\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("Add these to your .env file:\n\n")
	fmt.Printf("GMAIL_CREDENTIALS_JSON_PATH='%s'\n", credentialsFile)
	if token.RefreshToken != "" {
		fmt.Printf("GMAIL_REFRESH_TOKEN='%s'\n", token.RefreshToken)
	} else {
		fmt.Printf("⚠️ No refresh token returned. Revoke the app's access and run again.\n")
	}
	fmt.Printf("NOTIFY_EMAIL_TO='you@example.com'\n")
	fmt.Printf("\nExpires: %v\n", token.Expiry)
}
