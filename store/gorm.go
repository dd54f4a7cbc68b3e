package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-console/models"

	"gorm.io/gorm"
)

// GormStore persists orders through gorm (sqlite or postgres).
type GormStore struct {
	db      *gorm.DB
	nowFunc func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, nowFunc: time.Now}
}

// Migrate creates or updates the order tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		return fmt.Errorf("migrate orders: %w", err)
	}
	return nil
}

// Seed inserts orders only when the table is empty. It reports how many
// orders were inserted.
func (s *GormStore) Seed(ctx context.Context, orders []models.Order) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	for i := range orders {
		o := orders[i].Clone()
		if err := s.insert(ctx, o, o.CreatedAt); err != nil {
			return i, err
		}
	}
	return len(orders), nil
}

func itemsByPosition(db *gorm.DB) *gorm.DB { return db.Order("position asc") }

func (s *GormStore) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", itemsByPosition).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Items", itemsByPosition).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	return &o, nil
}

func (s *GormStore) Create(ctx context.Context, o *models.Order) error {
	if err := o.CheckTotals(); err != nil {
		return err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("check order %s: %w", o.ID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicate, o.ID)
	}
	now := s.nowFunc()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	return s.insert(ctx, o, now)
}

func (s *GormStore) insert(ctx context.Context, o *models.Order, updatedAt time.Time) error {
	o.Version = 1
	o.UpdatedAt = updatedAt
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		o.Items[i].Position = i
	}
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("create order %s: %w", o.ID, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, o *models.Order, history ...models.OrderStatusHistory) error {
	now := s.nowFunc()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", o.ID, o.Version).
			Updates(map[string]interface{}{
				"status":     o.Status,
				"version":    o.Version + 1,
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("update order %s: %w", o.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("check order %s: %w", o.ID, err)
			}
			if count == 0 {
				return fmt.Errorf("%w: %s", ErrNotFound, o.ID)
			}
			return fmt.Errorf("%w: %s (based on version %d)", ErrVersionConflict, o.ID, o.Version)
		}

		for _, it := range o.Items {
			err := tx.Model(&models.OrderItem{}).
				Where("id = ? AND order_id = ?", it.ID, o.ID).
				Update("status", it.Status).Error
			if err != nil {
				return fmt.Errorf("update item %s: %w", it.ID, err)
			}
		}

		if len(history) > 0 {
			rows := append([]models.OrderStatusHistory(nil), history...)
			for i := range rows {
				if rows[i].CreatedAt.IsZero() {
					rows[i].CreatedAt = now
				}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("record history for %s: %w", o.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	o.Version++
	o.UpdatedAt = now
	return nil
}

func (s *GormStore) History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check order %s: %w", orderID, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, orderID)
	}
	var rows []models.OrderStatusHistory
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("history for %s: %w", orderID, err)
	}
	return rows, nil
}
