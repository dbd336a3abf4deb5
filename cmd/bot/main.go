package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"PortfolioAgent/internal/bot"
	"PortfolioAgent/internal/config"
	"PortfolioAgent/internal/engine"
	"PortfolioAgent/internal/notifier"
	"PortfolioAgent/internal/reminder"
	"PortfolioAgent/internal/server"
	"PortfolioAgent/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] PortfolioAgent starting...")

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	eng := engine.New(st, engine.WithCurrency(cfg.Ledger.Currency))
	router := bot.NewRouter(eng)
	tg := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional daily due-step notice (transport-layer; the engine itself
	// only ever runs on inbound commands).
	rem := reminder.New(st, func(userID, text string) error {
		return tg.SendWithRetry(ctx, userID, text, 3)
	})
	if err := rem.Register(cfg.Reminder.Cron); err != nil {
		log.Fatalf("[FATAL] register reminder: %v", err)
	}
	if cfg.Reminder.Cron != "" {
		rem.Start()
		defer rem.Stop()
	}

	switch cfg.Telegram.Mode {
	case "webhook":
		srv := server.New(cfg.Telegram.SecretPath, router.Handle, tg)
		go func() {
			if err := srv.Start(cfg.Server.ListenAddr); err != nil {
				log.Fatalf("[FATAL] http server: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Println("[INFO] webhook mode")
	default:
		go tg.StartPolling(ctx, router.Handle)
		log.Println("[INFO] polling mode")
	}

	log.Println("[INFO] PortfolioAgent is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] PortfolioAgent stopped")
}
