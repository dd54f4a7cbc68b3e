package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-console/fixtures"
	"restaurant-console/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testRates = models.Rates{
	ServiceCharge: decimal.RequireFromString("0.05"),
	Tax:           decimal.RequireFromString("0.10"),
}

func newGormTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// every new connection would get its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := NewGormStore(db)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func repositories(t *testing.T) map[string]OrderRepository {
	seed := fixtures.Orders(time.Now(), testRates)

	g := newGormTestStore(t)
	n, err := g.Seed(context.Background(), seed)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(seed) {
		t.Fatalf("seeded %d orders, want %d", n, len(seed))
	}

	return map[string]OrderRepository{
		"memory": NewMemoryStore(seed...),
		"gorm":   g,
	}
}

func TestListKeepsOrderAndItems(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			orders, err := repo.List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(orders) != 12 {
				t.Fatalf("expected 12 orders, got %d", len(orders))
			}
			if orders[0].ID != "001" || orders[11].ID != "012" {
				t.Fatalf("unexpected order sequence %s..%s", orders[0].ID, orders[11].ID)
			}
			multi := orders[3]
			if len(multi.Items) != 3 || multi.Items[0].Name != "Beef Lasagna" || multi.Items[2].Name != "Lemonade" {
				t.Fatalf("items out of add-to-cart order: %+v", multi.Items)
			}
		})
	}
}

func TestGetNotFound(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(context.Background(), "999")
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestUpdateBumpsVersionAndRecordsHistory(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			o, err := repo.Get(ctx, "003")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			o.Items[0].Status = models.StatusReady
			err = repo.Update(ctx, o, models.OrderStatusHistory{
				OrderID:    o.ID,
				ItemID:     o.Items[0].ID,
				FromStatus: models.StatusPreparing,
				ToStatus:   models.StatusReady,
				ChangedBy:  "u-3",
			})
			if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if o.Version != 2 {
				t.Fatalf("version = %d, want 2", o.Version)
			}

			got, err := repo.Get(ctx, "003")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Items[0].Status != models.StatusReady || got.Version != 2 {
				t.Fatalf("stored order = status %s version %d", got.Items[0].Status, got.Version)
			}

			hist, err := repo.History(ctx, "003")
			if err != nil {
				t.Fatalf("History: %v", err)
			}
			if len(hist) != 1 || hist[0].ToStatus != models.StatusReady || hist[0].ItemID != "003-1" {
				t.Fatalf("unexpected history %+v", hist)
			}
		})
	}
}

func TestUpdateDetectsStaleVersion(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, _ := repo.Get(ctx, "001")
			second, _ := repo.Get(ctx, "001")

			first.Status = models.StatusPreparing
			if err := repo.Update(ctx, first); err != nil {
				t.Fatalf("first update: %v", err)
			}
			second.Status = models.StatusServed
			if err := repo.Update(ctx, second); !errors.Is(err, ErrVersionConflict) {
				t.Fatalf("expected ErrVersionConflict, got %v", err)
			}

			got, _ := repo.Get(ctx, "001")
			if got.Status != models.StatusPreparing {
				t.Fatalf("stale write was applied: %s", got.Status)
			}
		})
	}
}

func TestCreateEnforcesTotals(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			o := &models.Order{
				ID:     "new-1",
				Type:   models.OrderTakeAway,
				Status: models.StatusReceive,
				Items: []models.OrderItem{
					{ID: "new-1-1", Name: "Soup", Quantity: 1, UnitPrice: decimal.NewFromInt(6), Status: models.StatusReceive},
				},
			}
			o.ComputeTotals(testRates)
			o.TotalAmount = o.TotalAmount.Add(decimal.NewFromInt(1))
			if err := repo.Create(ctx, o); !errors.Is(err, models.ErrTotalsMismatch) {
				t.Fatalf("expected ErrTotalsMismatch, got %v", err)
			}

			o.ComputeTotals(testRates)
			if err := repo.Create(ctx, o); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if err := repo.Create(ctx, o); !errors.Is(err, ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate, got %v", err)
			}

			got, err := repo.Get(ctx, "new-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if !got.TotalAmount.Equal(decimal.RequireFromString("6.90")) || got.Version != 1 {
				t.Fatalf("stored total %s version %d", got.TotalAmount, got.Version)
			}
		})
	}
}

func TestSeedSkipsNonEmptyTable(t *testing.T) {
	g := newGormTestStore(t)
	seed := fixtures.Orders(time.Now(), testRates)
	if _, err := g.Seed(context.Background(), seed); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, err := g.Seed(context.Background(), seed)
	if err != nil || n != 0 {
		t.Fatalf("second seed inserted %d (%v), want 0", n, err)
	}
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	s := NewMemoryStore(fixtures.Orders(time.Now(), testRates)...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
