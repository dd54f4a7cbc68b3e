package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurant-console/logger"
	"restaurant-console/models"
)

// Notice is the confirmation emitted after a status change has been stored.
type Notice struct {
	OrderID string             `json:"order_id"`
	ItemID  string             `json:"item_id,omitempty"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
	Actor   string             `json:"actor"`
	Message string             `json:"message"`
	At      time.Time          `json:"at"`
}

//go:generate mockgen -destination=mock_notifier_test.go -package=orders . Notifier

// Notifier delivers notices. Failures never roll back a stored change.
type Notifier interface {
	Notify(ctx context.Context, n Notice) error
}

func noticeMessage(orderID, itemName string, to models.OrderStatus) string {
	if itemName != "" {
		return fmt.Sprintf("%s on order #%s is now %s", itemName, orderID, to)
	}
	return fmt.Sprintf("Order #%s is now %s", orderID, to)
}

// LogNotifier writes notices to a structured logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, notice Notice) error {
	logger.FromContext(ctx, n.Log).Info(notice.Message,
		logger.Action("status_notice"),
		slog.String("order_id", notice.OrderID),
		slog.String("item_id", notice.ItemID),
		slog.String("from", string(notice.From)),
		slog.String("to", string(notice.To)),
		slog.String("actor", notice.Actor),
	)
	return nil
}

// Multi fans a notice out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notice) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
