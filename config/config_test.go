package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant-console/orders"

	"github.com/shopspring/decimal"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "memory" || cfg.Orders.PageSize != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	rates, err := cfg.Rates()
	if err != nil {
		t.Fatalf("Rates: %v", err)
	}
	if !rates.Tax.Equal(decimal.RequireFromString("0.10")) {
		t.Fatalf("tax rate = %s", rates.Tax)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	yml := `
server:
  addr: ":9000"
database:
  driver: sqlite
  dsn: test.db
auth:
  token_ttl: 30m
orders:
  transition_mode: forward_only
  status_policy: derived
  page_size: 10
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PAGE_SIZE", "7")
	t.Setenv("DB_DSN", "override.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.Database.Driver != "sqlite" {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.Database.DSN != "override.db" || cfg.Orders.PageSize != 7 {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 30*time.Minute {
		t.Fatalf("token ttl = %s", cfg.Auth.TokenTTL)
	}
	if cfg.Orders.StatusPolicy != string(orders.PolicyDerived) {
		t.Fatalf("status policy = %s", cfg.Orders.StatusPolicy)
	}
}

func TestValidateAcceptsEmptyStatusPolicy(t *testing.T) {
	cfg := Default()
	cfg.Orders.StatusPolicy = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty status policy: %v", err)
	}
	policy, err := orders.ParseStatusPolicy(cfg.Orders.StatusPolicy)
	if err != nil || policy != orders.PolicyIndependent {
		t.Fatalf("empty status policy parsed to %q, %v", policy, err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Orders.StatusPolicy = "reconciled"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown status policy")
	}

	cfg = Default()
	cfg.Orders.TaxRate = "ten percent"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for bad tax rate")
	}

	cfg = Default()
	cfg.Database.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
