package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-console/broker"
	"restaurant-console/config"
	"restaurant-console/fixtures"
	"restaurant-console/handlers"
	"restaurant-console/logger"
	"restaurant-console/middleware"
	"restaurant-console/models"
	"restaurant-console/orders"
	"restaurant-console/rolegate"
	"restaurant-console/routes"
	"restaurant-console/session"
	"restaurant-console/statemachine"
	"restaurant-console/store"
	"restaurant-console/validation"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("restaurant-console", os.Stdout, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	path := os.Getenv("CONSOLE_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Error("invalid configuration", logger.Action("startup"), logger.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", logger.Action("shutdown"), logger.Err(err))
		os.Exit(1)
	}
	log.Info("server stopped", logger.Action("shutdown"))
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	rates, err := cfg.Rates()
	if err != nil {
		return err
	}
	mode, err := statemachine.ParseMode(cfg.Orders.TransitionMode)
	if err != nil {
		return err
	}
	statusPolicy, err := orders.ParseStatusPolicy(cfg.Orders.StatusPolicy)
	if err != nil {
		return err
	}

	repo, err := openRepository(ctx, cfg.Database, rates, log)
	if err != nil {
		return err
	}

	notifier := orders.Multi{orders.LogNotifier{Log: log}}
	if cfg.Notify.AMQPURL != "" {
		pub, err := broker.Dial(cfg.Notify.AMQPURL, cfg.Notify.Exchange, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		notifier = append(notifier, pub)
	}

	sessions, err := session.NewManager(fixtures.Credentials(), session.Options{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return err
	}
	policy, err := rolegate.NewPolicy(rolegate.DefaultAffordances())
	if err != nil {
		return err
	}

	h := &handlers.Handler{
		Orders: orders.NewService(repo, orders.Options{
			Mode:     mode,
			Policy:   statusPolicy,
			Rates:    rates,
			Log:      log,
			Notifier: notifier,
		}),
		Sessions: sessions,
		Policy:   policy,
		Validate: validation.New(),
		PageSize: cfg.Orders.PageSize,
		Log:      log,
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Restaurant Console API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   models.Roles,
		})
	})
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server running", logger.Action("startup"),
			slog.String("addr", cfg.Server.Addr),
			slog.String("driver", cfg.Database.Driver),
			slog.String("transition_mode", string(mode)),
			slog.String("status_policy", string(statusPolicy)),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openRepository picks the order store for the configured driver and seeds
// it with the mock orders when asked to.
func openRepository(ctx context.Context, db config.Database, rates models.Rates, log *slog.Logger) (store.OrderRepository, error) {
	var seed []models.Order
	if db.Seed {
		seed = fixtures.Orders(time.Now(), rates)
	}
	if db.Driver == "memory" {
		return store.NewMemoryStore(seed...), nil
	}

	conn, err := config.OpenDB(db)
	if err != nil {
		return nil, err
	}
	s := store.NewGormStore(conn)
	if err := s.Migrate(ctx); err != nil {
		return nil, err
	}
	n, err := s.Seed(ctx, seed)
	if err != nil {
		return nil, err
	}
	log.Info("database ready", logger.Action("startup"),
		slog.String("driver", db.Driver), slog.Int("seeded_orders", n))
	return s, nil
}
