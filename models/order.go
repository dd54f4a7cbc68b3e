package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle states of a restaurant order
type OrderStatus string

const (
	StatusReceive   OrderStatus = "Receive"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusServed    OrderStatus = "Served"
)

// Statuses lists every status in happy-path order
var Statuses = []OrderStatus{StatusReceive, StatusPreparing, StatusReady, StatusServed}

var (
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrUnknownOrderType = errors.New("unknown order type")
	ErrTotalsMismatch   = errors.New("total amount does not equal subtotal + service charge + tax - discount")
)

// ParseOrderStatus accepts any casing, e.g. "ready" or "READY".
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// Rank is the position of the status on the happy path, -1 when unknown.
func (s OrderStatus) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool { return s.Rank() >= 0 }

// OrderType is how the order leaves the kitchen
type OrderType string

const (
	OrderDineIn   OrderType = "DineIn"
	OrderTakeAway OrderType = "TakeAway"
	OrderDelivery OrderType = "Delivery"
)

func ParseOrderType(s string) (OrderType, error) {
	for _, t := range []OrderType{OrderDineIn, OrderTakeAway, OrderDelivery} {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrderType, s)
}

type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	TableNo       string          `json:"table_no"`
	Type          OrderType       `json:"type" gorm:"not null;default:'DineIn'"`
	Status        OrderStatus     `json:"status" gorm:"not null;default:'Receive';index"`
	TimeLeft      string          `json:"time_left"` // display text only, nothing counts it down
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	ServiceCharge decimal.Decimal `json:"service_charge" gorm:"type:decimal(10,2);not null"`
	Tax           decimal.Decimal `json:"tax" gorm:"type:decimal(10,2);not null"`
	Discount      decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);not null"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Version       int             `json:"version" gorm:"not null;default:1"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(64)"`
	OrderID   string          `json:"order_id" gorm:"not null;index;type:varchar(64)"`
	Position  int             `json:"-" gorm:"not null"` // add-to-cart order
	Name      string          `json:"name" gorm:"not null"`
	Category  string          `json:"category"`
	Image     string          `json:"image"`
	Status    OrderStatus     `json:"status" gorm:"not null;default:'Receive'"`
	TimeLeft  string          `json:"time_left"`
	Size      string          `json:"size,omitempty"`
	Extras    string          `json:"extras,omitempty"`
	Note      string          `json:"note,omitempty"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
}

// OrderStatusHistory records every applied status change. ItemID is empty
// for order-level changes.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"not null;index;type:varchar(64)"`
	ItemID     string      `json:"item_id,omitempty" gorm:"type:varchar(64)"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string      `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o *Order) IsSingleItem() bool { return len(o.Items) == 1 }

// Item returns a pointer into o.Items so callers can mutate in place.
func (o *Order) Item(id string) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// Rates are fractions applied to the subtotal, e.g. 0.05 for 5%.
type Rates struct {
	ServiceCharge decimal.Decimal
	Tax           decimal.Decimal
}

// ComputeTotals fills every money field from the items, the rates and the
// already-set discount, rounding each component to cents.
func (o *Order) ComputeTotals(r Rates) {
	sub := decimal.Zero
	for _, it := range o.Items {
		sub = sub.Add(it.LineTotal())
	}
	o.Subtotal = sub.Round(2)
	o.ServiceCharge = sub.Mul(r.ServiceCharge).Round(2)
	o.Tax = sub.Mul(r.Tax).Round(2)
	o.Discount = o.Discount.Round(2)
	o.TotalAmount = o.Subtotal.Add(o.ServiceCharge).Add(o.Tax).Sub(o.Discount)
}

// CheckTotals enforces TotalAmount == Subtotal + ServiceCharge + Tax - Discount.
func (o *Order) CheckTotals() error {
	want := o.Subtotal.Add(o.ServiceCharge).Add(o.Tax).Sub(o.Discount)
	if !want.Equal(o.TotalAmount) {
		return fmt.Errorf("%w: order %s has %s, expected %s", ErrTotalsMismatch, o.ID, o.TotalAmount, want)
	}
	return nil
}

// Clone returns a deep copy so stores never share item slices with callers.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}
