package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseOrderStatus(t *testing.T) {
	cases := map[string]OrderStatus{
		"Receive":   StatusReceive,
		"preparing": StatusPreparing,
		"READY":     StatusReady,
		" served ":  StatusServed,
	}
	for in, want := range cases {
		got, err := ParseOrderStatus(in)
		if err != nil {
			t.Fatalf("ParseOrderStatus(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseOrderStatus(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseOrderStatus("cancelled"); !errors.Is(err, ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestComputeTotalsSatisfiesInvariant(t *testing.T) {
	o := &Order{
		ID:       "100",
		Discount: decimal.RequireFromString("2.00"),
		Items: []OrderItem{
			{ID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
			{ID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("4.25")},
		},
	}
	o.ComputeTotals(Rates{
		ServiceCharge: decimal.RequireFromString("0.05"),
		Tax:           decimal.RequireFromString("0.10"),
	})

	if !o.Subtotal.Equal(decimal.RequireFromString("29.25")) {
		t.Fatalf("subtotal = %s", o.Subtotal)
	}
	if !o.ServiceCharge.Equal(decimal.RequireFromString("1.46")) {
		t.Fatalf("service charge = %s", o.ServiceCharge)
	}
	if !o.Tax.Equal(decimal.RequireFromString("2.93")) {
		t.Fatalf("tax = %s", o.Tax)
	}
	if !o.TotalAmount.Equal(decimal.RequireFromString("31.64")) {
		t.Fatalf("total = %s", o.TotalAmount)
	}
	if err := o.CheckTotals(); err != nil {
		t.Fatalf("CheckTotals: %v", err)
	}
}

func TestCheckTotalsRejectsMismatch(t *testing.T) {
	o := &Order{
		ID:          "101",
		Subtotal:    decimal.NewFromInt(10),
		TotalAmount: decimal.NewFromInt(11),
	}
	if err := o.CheckTotals(); !errors.Is(err, ErrTotalsMismatch) {
		t.Fatalf("expected ErrTotalsMismatch, got %v", err)
	}
}

func TestCloneDoesNotShareItems(t *testing.T) {
	o := &Order{ID: "1", Items: []OrderItem{{ID: "a", Status: StatusReceive}}}
	c := o.Clone()
	c.Items[0].Status = StatusServed
	if o.Items[0].Status != StatusReceive {
		t.Fatalf("clone mutated original item")
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Chef")
	if err != nil || r != RoleChef {
		t.Fatalf("ParseRole(Chef) = %s, %v", r, err)
	}
	if _, err := ParseRole("owner"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if RoleCashier.DashboardRoute() != "/orders" || RoleChef.DashboardRoute() != "/chef" {
		t.Fatalf("unexpected dashboard routes")
	}
}
