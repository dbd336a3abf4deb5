package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Mode != "polling" {
		t.Errorf("mode: got %q, want polling", cfg.Telegram.Mode)
	}
	if cfg.Telegram.SecretPath != "hook" {
		t.Errorf("secret path: got %q", cfg.Telegram.SecretPath)
	}
	if cfg.Ledger.Currency != "ILS" {
		t.Errorf("currency: got %q, want ILS", cfg.Ledger.Currency)
	}
	if cfg.Database.SQLitePath != "data/pf_agent.db" {
		t.Errorf("sqlite path: got %q", cfg.Database.SQLitePath)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("telegram:\n  bot_token: from-file\nledger:\n  currency: EUR\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("env must win over file, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Ledger.Currency != "EUR" {
		t.Errorf("currency from file: got %q", cfg.Ledger.Currency)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing bot token")
	}

	cfg.Telegram.BotToken = "t"
	cfg.Telegram.Mode = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}

	cfg.Telegram.Mode = "webhook"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
