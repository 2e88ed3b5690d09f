package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"portfolio-feedback/internal/config"
	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/mcpserver"
)

func main() {
	// stdout принадлежит MCP протоколу, все логи только в stderr
	log.SetOutput(os.Stderr)

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	repo, err := feedback.NewFileRepository(cfg.FeedbackFilePath)
	if err != nil {
		log.Fatalf("❌ Failed to open feedback store: %v", err)
	}

	log.Printf("🚀 Starting %s MCP server", mcpserver.ServerName)
	log.Printf("💾 Using feedback file %s", repo.Path())

	server := mcpserver.NewServer(feedback.NewService(repo, nil))

	log.Printf("🔗 Starting MCP server on stdin/stdout...")
	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Feedback MCP Server failed: %v", err)
	}
}
