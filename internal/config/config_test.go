package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadDecodeDefaults(t *testing.T) {
	cfg, err := LoadDecode("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Out != "./data/decoded_blobs.jsonl" || cfg.Errors != "./data/decode_errors.jsonl" {
		t.Fatalf("unexpected paths: %+v", cfg.Common)
	}
	if cfg.BatchSize != 500 || cfg.MaxRetries != 5 || cfg.RetryBackoff != 500*time.Millisecond {
		t.Fatalf("unexpected pipeline defaults: %+v", cfg.Common)
	}
	if !cfg.Resume || cfg.StateName != "explorer-decode" || cfg.VersionFallback {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.ContractMap) != 0 {
		t.Fatalf("expected empty contract map, got %v", cfg.ContractMap)
	}
}

func TestLoadDecodeFlagsAndEnv(t *testing.T) {
	t.Setenv("EXPLORER_BATCH_SIZE", "7")
	t.Setenv("EXPLORER_PG_DSN", "postgres://localhost/explorer")

	flags := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flags.String("in", "", "")
	flags.String("contract-map", "", "")
	flags.Bool("version-fallback", false, "")
	if err := flags.Parse([]string{"--in", "txs.jsonl", "--contract-map", "amm=orderbook@2, bad, crash=minigame", "--version-fallback"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadDecode("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.In != "txs.jsonl" || !cfg.VersionFallback {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.BatchSize != 7 || cfg.PGDSN != "postgres://localhost/explorer" {
		t.Fatalf("env not applied: %+v", cfg.Common)
	}
	if len(cfg.ContractMap) != 2 || cfg.ContractMap["amm"] != "orderbook@2" || cfg.ContractMap["crash"] != "minigame" {
		t.Fatalf("unexpected contract map: %v", cfg.ContractMap)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadEventsFromFileAndDotEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "explorer.yaml")
	yaml := "in: events.jsonl\nbatch-size: 3\nmax-retries: 1\n"
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EXPLORER_STATE_NAME=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("EXPLORER_STATE_NAME") })

	cfg, err := LoadEvents(cfgPath, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.In != "events.jsonl" || cfg.BatchSize != 3 || cfg.MaxRetries != 1 {
		t.Fatalf("config file not applied: %+v", cfg.Common)
	}
	if cfg.StateName != "from-dotenv" {
		t.Fatalf("expected state name from .env, got %q", cfg.StateName)
	}
	if cfg.Out != "./data/processed_events.jsonl" {
		t.Fatalf("unexpected default out: %q", cfg.Out)
	}
}

func TestContractMapFromYAML(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "map.yaml")
	if err := os.WriteFile(mapPath, []byte("contract-map:\n  amm: orderbook@1\n  game: board_game\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadDecode(mapPath, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContractMap["amm"] != "orderbook@1" || cfg.ContractMap["game"] != "board_game" {
		t.Fatalf("unexpected map: %v", cfg.ContractMap)
	}

	listPath := filepath.Join(dir, "list.yaml")
	if err := os.WriteFile(listPath, []byte("contract-map:\n  - amm=wallet@3\n  - ' x = hyli '\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = LoadDecode(listPath, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ContractMap["amm"] != "wallet@3" || cfg.ContractMap["x"] != "hyli" {
		t.Fatalf("unexpected map from list: %v", cfg.ContractMap)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := LoadEvents(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []Common{
		{Out: "o", BatchSize: 1},
		{In: "i", BatchSize: 1},
		{In: "i", Out: "o"},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
	if err := (Common{In: "i", PGDSN: "dsn", BatchSize: 1}).Validate(); err != nil {
		t.Fatalf("pg-only output must be valid: %v", err)
	}
}
