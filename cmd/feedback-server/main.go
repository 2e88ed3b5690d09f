package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"portfolio-feedback/internal/admin"
	"portfolio-feedback/internal/api"
	"portfolio-feedback/internal/config"
	"portfolio-feedback/internal/feedback"
	"portfolio-feedback/internal/llm"
	"portfolio-feedback/internal/notify"
	"portfolio-feedback/internal/scheduler"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	repo, err := feedback.NewFileRepository(cfg.FeedbackFilePath)
	if err != nil {
		log.Fatalf("failed to init feedback store: %v", err)
	}
	log.Printf("💾 Feedback stored in %s", repo.Path())

	notifier := buildNotifier(cfg)
	svc := feedback.NewService(repo, notifier)

	opts := api.Options{CORSOrigins: cfg.CORSOrigins, Debug: cfg.Debug}
	if cfg.AdminEnabled() {
		ah, err := admin.NewHandler(svc, admin.Config{
			Username:      cfg.AdminUsername,
			Password:      cfg.AdminPassword,
			SessionSecret: cfg.SessionSecret,
			SecureCookie:  cfg.SecureCookie,
		})
		if err != nil {
			log.Fatalf("failed to init admin: %v", err)
		}
		opts.Admin = ah
		log.Printf("🔐 Admin dashboard at http://%s/admin/dashboard", cfg.Addr())
	} else {
		log.Printf("⚠️ ADMIN_USERNAME/ADMIN_PASSWORD not set, admin dashboard disabled")
	}

	server := api.NewServer(cfg.Addr(), api.NewRouter(api.NewHandler(svc), opts))

	var sched *scheduler.Scheduler
	if cfg.DigestCron != "" {
		client, err := llm.NewFactory(cfg).CreateClient(cfg.DigestLLMProvider)
		if err != nil {
			log.Printf("⚠️ LLM digest disabled: %v", err)
			client = nil
		}
		sched = scheduler.New(cfg.DigestCron)
		sched.SetJob(scheduler.NewDigest(svc, client, notifier).Run)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("❌ HTTP server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🔌 Feedback server shutting down...")
	if sched != nil {
		sched.Stop()
	}
	if err := server.Stop(context.Background()); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
	}
	svc.Wait()
}

func buildNotifier(cfg *config.Config) feedback.Notifier {
	channels := notify.Multi{notify.Log{}}

	if cfg.DesktopNotifications {
		channels = append(channels, notify.NewDesktop())
	}

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Telegram notifications disabled: %v", err)
		} else {
			channels = append(channels, tg)
			log.Printf("📨 Telegram notifications enabled")
		}
	}

	creds, err := cfg.GmailCredentials()
	if err != nil {
		log.Printf("⚠️ Gmail notifications disabled: %v", err)
	} else if creds != "" && cfg.NotifyEmailTo != "" {
		gm, err := notify.NewGmail(context.Background(), creds, cfg.GmailRefreshToken, cfg.NotifyEmailTo)
		if err != nil {
			log.Printf("⚠️ Gmail notifications disabled: %v", err)
		} else {
			channels = append(channels, gm)
			log.Printf("📧 Email notifications to %s enabled", cfg.NotifyEmailTo)
		}
	}

	return channels
}
