// Package orders applies status transitions to stored orders and builds the
// read views (kitchen board, orders table, order detail, summary).
//
// The service takes no role. The actor string is only recorded in history;
// deciding who may change a status is left to the caller.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restaurant-console/logger"
	"restaurant-console/models"
	"restaurant-console/statemachine"
	"restaurant-console/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrItemNotFound    = errors.New("order item not found")
	ErrNoFurtherAction = errors.New("no further action: status is terminal")
	ErrDerivedStatus   = errors.New("order status is derived from its items")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrEmptyOrder      = errors.New("order has no items")
)

// StatusPolicy decides how order and item statuses of multi-item orders
// relate to each other.
type StatusPolicy string

const (
	// PolicyIndependent never reconciles order and item statuses.
	PolicyIndependent StatusPolicy = "independent"
	// PolicyDerived recomputes the order status from its items after every
	// item change and refuses order-level sets on multi-item orders.
	PolicyDerived StatusPolicy = "derived"
)

func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch StatusPolicy(s) {
	case PolicyIndependent, "":
		return PolicyIndependent, nil
	case PolicyDerived:
		return PolicyDerived, nil
	}
	return "", fmt.Errorf("unknown status policy %q", s)
}

type Options struct {
	Mode     statemachine.Mode
	Policy   StatusPolicy
	Rates    models.Rates
	Log      *slog.Logger
	Notifier Notifier
	Now      func() time.Time
}

type Service struct {
	repo     store.OrderRepository
	notifier Notifier
	mode     statemachine.Mode
	policy   StatusPolicy
	rates    models.Rates
	log      *slog.Logger
	now      func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(repo store.OrderRepository, opts Options) *Service {
	s := &Service{
		repo:     repo,
		notifier: opts.Notifier,
		mode:     opts.Mode,
		policy:   opts.Policy,
		rates:    opts.Rates,
		log:      opts.Log,
		now:      opts.Now,
		locks:    map[string]*sync.Mutex{},
	}
	if s.mode == "" {
		s.mode = statemachine.ModePermissive
	}
	if s.policy == "" {
		s.policy = PolicyIndependent
	}
	if s.log == nil {
		s.log = logger.Discard()
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{Log: s.log}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) Mode() statemachine.Mode { return s.mode }
func (s *Service) Policy() StatusPolicy    { return s.policy }

// TransitionResult describes one applied (or idempotent) status change.
// ItemID is empty for order-level changes.
type TransitionResult struct {
	Order   *models.Order      `json:"order"`
	ItemID  string             `json:"item_id,omitempty"`
	From    models.OrderStatus `json:"from"`
	To      models.OrderStatus `json:"to"`
	Changed bool               `json:"changed"`
}

// lock serializes transitions on one order id. Different ids never contend.
func (s *Service) lock(id string) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[id] = mu
	}
	s.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

func (s *Service) ListOrders(ctx context.Context, f Filter) ([]models.Order, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return ApplyFilter(all, f), nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) History(ctx context.Context, id string) ([]models.OrderStatusHistory, error) {
	rows, err := s.repo.History(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return rows, err
}

// SetOrderStatus assigns status to the order itself.
// note is recorded on the history row.
func (s *Service) SetOrderStatus(ctx context.Context, id string, status models.OrderStatus, actor, note string) (*TransitionResult, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStatus, status)
	}
	return s.transition(ctx, id, "", actor, note, func(models.OrderStatus) (models.OrderStatus, error) {
		return status, nil
	})
}

// SetItemStatus assigns status to one item of an order.
func (s *Service) SetItemStatus(ctx context.Context, orderID, itemID string, status models.OrderStatus, actor, note string) (*TransitionResult, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStatus, status)
	}
	return s.transition(ctx, orderID, itemID, actor, note, func(models.OrderStatus) (models.OrderStatus, error) {
		return status, nil
	})
}

// Advance moves the order to its successor status. A Served order returns
// ErrNoFurtherAction and is left untouched.
func (s *Service) Advance(ctx context.Context, id, actor string) (*TransitionResult, error) {
	return s.transition(ctx, id, "", actor, "", advance)
}

func (s *Service) AdvanceItem(ctx context.Context, orderID, itemID, actor string) (*TransitionResult, error) {
	return s.transition(ctx, orderID, itemID, actor, "", advance)
}

func advance(current models.OrderStatus) (models.OrderStatus, error) {
	next, ok := statemachine.NextStatus(current)
	if !ok {
		return "", fmt.Errorf("%w (%s)", ErrNoFurtherAction, current)
	}
	return next, nil
}

func (s *Service) transition(
	ctx context.Context,
	orderID, itemID, actor, note string,
	target func(current models.OrderStatus) (models.OrderStatus, error),
) (*TransitionResult, error) {
	unlock := s.lock(orderID)
	defer unlock()

	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var item *models.OrderItem
	if itemID != "" {
		it, ok := o.Item(itemID)
		if !ok {
			return nil, fmt.Errorf("%w: %s on order %s", ErrItemNotFound, itemID, orderID)
		}
		item = it
	} else if s.policy == PolicyDerived && !o.IsSingleItem() {
		return nil, fmt.Errorf("%w: set item statuses of order %s instead", ErrDerivedStatus, orderID)
	}

	from := o.Status
	if item != nil {
		from = item.Status
	}
	to, err := target(from)
	if err != nil {
		return nil, err
	}

	res := &TransitionResult{Order: o, ItemID: itemID, From: from, To: to}
	if from == to {
		return res, nil
	}
	if err := statemachine.CanTransition(from, to, s.mode); err != nil {
		return nil, err
	}

	history := []models.OrderStatusHistory{{
		OrderID:    o.ID,
		ItemID:     itemID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  actor,
		Note:       note,
	}}
	itemName := ""
	if item != nil {
		itemName = item.Name
	}
	switch {
	case o.IsSingleItem():
		// a single-item order has one status: order and item move together
		only := &o.Items[0]
		if item == nil && only.Status != to {
			history = append(history, models.OrderStatusHistory{
				OrderID:    o.ID,
				ItemID:     only.ID,
				FromStatus: only.Status,
				ToStatus:   to,
				ChangedBy:  actor,
				Note:       "item follows single-item order",
			})
		}
		if item != nil && o.Status != to {
			history = append(history, models.OrderStatusHistory{
				OrderID:    o.ID,
				FromStatus: o.Status,
				ToStatus:   to,
				ChangedBy:  actor,
				Note:       "single-item order follows its item",
			})
		}
		only.Status = to
		o.Status = to
	case item != nil:
		item.Status = to
		if s.policy == PolicyDerived {
			if derived, ok := statemachine.DeriveOrderStatus(o.Items); ok && derived != o.Status {
				history = append(history, models.OrderStatusHistory{
					OrderID:    o.ID,
					FromStatus: o.Status,
					ToStatus:   derived,
					ChangedBy:  actor,
					Note:       "derived from item statuses",
				})
				o.Status = derived
			}
		}
	default:
		o.Status = to
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o, history...); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	res.Changed = true

	log := logger.FromContext(ctx, s.log)
	log.Info("status changed",
		logger.Action("status_transition"),
		slog.String("order_id", o.ID),
		slog.String("item_id", itemID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("actor", actor),
		slog.Int("version", o.Version),
	)

	notice := Notice{
		OrderID: o.ID,
		ItemID:  itemID,
		From:    from,
		To:      to,
		Actor:   actor,
		Message: noticeMessage(o.ID, itemName, to),
		At:      s.now(),
	}
	if err := s.notifier.Notify(ctx, notice); err != nil {
		log.Warn("status notice not delivered", logger.Action("status_notice"), logger.Err(err))
	}
	return res, nil
}

// Checkout is a cart ready to become an order.
type Checkout struct {
	TableNo  string
	Type     models.OrderType
	Discount decimal.Decimal
	Lines    []CheckoutLine
}

type CheckoutLine struct {
	Name      string
	Category  string
	Image     string
	Size      string
	Extras    string
	Note      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PlaceOrder turns a checkout into a stored order. Every item starts in
// Receive and the totals are computed from the configured rates.
func (s *Service) PlaceOrder(ctx context.Context, c Checkout, actor string) (*models.Order, error) {
	if len(c.Lines) == 0 {
		return nil, ErrEmptyOrder
	}
	typ := c.Type
	if typ == "" {
		typ = models.OrderDineIn
	}
	id := uuid.NewString()
	o := &models.Order{
		ID:        id,
		TableNo:   c.TableNo,
		Type:      typ,
		Status:    models.StatusReceive,
		Discount:  c.Discount,
		CreatedAt: s.now(),
	}
	for i, l := range c.Lines {
		o.Items = append(o.Items, models.OrderItem{
			ID:        fmt.Sprintf("%s-%d", id, i+1),
			OrderID:   id,
			Position:  i,
			Name:      l.Name,
			Category:  l.Category,
			Image:     l.Image,
			Status:    models.StatusReceive,
			Size:      l.Size,
			Extras:    l.Extras,
			Note:      l.Note,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	o.ComputeTotals(s.rates)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	logger.FromContext(ctx, s.log).Info("order placed",
		logger.Action("place_order"),
		slog.String("order_id", o.ID),
		slog.String("actor", actor),
		slog.String("total", o.TotalAmount.StringFixed(2)),
	)
	return o, nil
}
