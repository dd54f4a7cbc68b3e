// Package store is the persistence port for orders. Every call is a
// potential I/O boundary and takes a context.
package store

import (
	"context"
	"errors"

	"restaurant-console/models"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrDuplicate       = errors.New("order already exists")
	ErrVersionConflict = errors.New("order was modified concurrently")
)

// OrderRepository persists orders and their status history.
type OrderRepository interface {
	// List returns every order, oldest first, items in add-to-cart order.
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	// Update stores the order and item statuses of o when the stored version
	// still equals o.Version, appends history and bumps o.Version.
	Update(ctx context.Context, o *models.Order, history ...models.OrderStatusHistory) error
	History(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}
