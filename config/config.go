package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"restaurant-console/models"
	"restaurant-console/orders"
	"restaurant-console/statemachine"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Orders   Orders   `yaml:"orders"`
	Notify   Notify   `yaml:"notify"`
}

type Server struct {
	Addr    string `yaml:"addr"`
	GinMode string `yaml:"gin_mode"`
}

type Database struct {
	// Driver is one of memory, sqlite or postgres.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Seed   bool   `yaml:"seed"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Orders.StatusPolicy is independent or derived; empty means independent.
type Orders struct {
	TransitionMode    string `yaml:"transition_mode"`
	StatusPolicy      string `yaml:"status_policy"`
	PageSize          int    `yaml:"page_size"`
	ServiceChargeRate string `yaml:"service_charge_rate"`
	TaxRate           string `yaml:"tax_rate"`
}

type Notify struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

func Default() Config {
	return Config{
		Server:   Server{Addr: ":8080", GinMode: "debug"},
		Database: Database{Driver: "memory", DSN: "restaurant_console.db", Seed: true},
		Auth:     Auth{JWTSecret: "restaurant_console_dev_secret", TokenTTL: 12 * time.Hour},
		Orders: Orders{
			TransitionMode:    string(statemachine.ModePermissive),
			StatusPolicy:      string(orders.PolicyIndependent),
			PageSize:          5,
			ServiceChargeRate: "0.05",
			TaxRate:           "0.10",
		},
		Notify: Notify{Exchange: "order_status_fanout"},
	}
}

// Load reads the optional YAML file at path over the defaults, then applies
// environment overrides. An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.Server.Addr = getEnv("CONSOLE_ADDR", cfg.Server.Addr)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.GinMode = getEnv("GIN_MODE", cfg.Server.GinMode)
	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("DB_DSN", cfg.Database.DSN)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Orders.TransitionMode = getEnv("TRANSITION_MODE", cfg.Orders.TransitionMode)
	cfg.Orders.StatusPolicy = getEnv("STATUS_POLICY", cfg.Orders.StatusPolicy)
	cfg.Notify.AMQPURL = getEnv("AMQP_URL", cfg.Notify.AMQPURL)
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("PAGE_SIZE: %w", err)
		}
		cfg.Orders.PageSize = n
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := statemachine.ParseMode(c.Orders.TransitionMode); err != nil {
		return err
	}
	if _, err := orders.ParseStatusPolicy(c.Orders.StatusPolicy); err != nil {
		return err
	}
	if c.Orders.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.Orders.PageSize)
	}
	if _, err := c.Rates(); err != nil {
		return err
	}
	switch c.Database.Driver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

// Rates parses the configured service-charge and tax fractions.
func (c Config) Rates() (models.Rates, error) {
	sc, err := decimal.NewFromString(c.Orders.ServiceChargeRate)
	if err != nil {
		return models.Rates{}, fmt.Errorf("service charge rate: %w", err)
	}
	tax, err := decimal.NewFromString(c.Orders.TaxRate)
	if err != nil {
		return models.Rates{}, fmt.Errorf("tax rate: %w", err)
	}
	return models.Rates{ServiceCharge: sc, Tax: tax}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// OpenDB connects the sqlite or postgres driver configured in db.
func OpenDB(db Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch db.Driver {
	case "sqlite":
		dialector = sqlite.Open(db.DSN)
	case "postgres":
		dialector = postgres.Open(db.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no database connection", db.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", db.Driver, err)
	}
	if db.Driver == "sqlite" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return conn, nil
}
