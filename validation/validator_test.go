package validation

import (
	"strings"
	"testing"

	"restaurant-console/models"

	"github.com/shopspring/decimal"
)

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		TableNo:  "9A",
		Type:     "DineIn",
		Discount: decimal.RequireFromString("1.00"),
		Items: []CheckoutItem{
			{Name: "Falafel Bowl", Quantity: 2, UnitPrice: decimal.RequireFromString("7.50")},
		},
	}
}

func failedFields(t *testing.T, req CheckoutRequest) map[string]string {
	t.Helper()
	err := New().Struct(req)
	if err == nil {
		return nil
	}
	return FieldErrors(err)
}

func hasField(fields map[string]string, suffix string) bool {
	for k := range fields {
		if strings.HasSuffix(k, suffix) {
			return true
		}
	}
	return false
}

func TestCheckoutValidation(t *testing.T) {
	if fields := failedFields(t, validCheckout()); fields != nil {
		t.Fatalf("valid checkout rejected: %v", fields)
	}

	tests := []struct {
		name   string
		mutate func(*CheckoutRequest)
		field  string
	}{
		{"no items", func(r *CheckoutRequest) { r.Items = nil }, "Items"},
		{"zero price", func(r *CheckoutRequest) { r.Items[0].UnitPrice = decimal.Zero }, "Items[0].UnitPrice"},
		{"zero quantity", func(r *CheckoutRequest) { r.Items[0].Quantity = 0 }, "Quantity"},
		{"discount above subtotal", func(r *CheckoutRequest) { r.Discount = decimal.RequireFromString("15.01") }, "Discount"},
		{"negative discount", func(r *CheckoutRequest) { r.Discount = decimal.RequireFromString("-1") }, "Discount"},
		{"dine-in without table", func(r *CheckoutRequest) { r.TableNo = "" }, "TableNo"},
		{"unknown type", func(r *CheckoutRequest) { r.Type = "Drone" }, "Type"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validCheckout()
			tc.mutate(&req)
			fields := failedFields(t, req)
			if !hasField(fields, tc.field) {
				t.Fatalf("expected error on %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestTakeAwayNeedsNoTable(t *testing.T) {
	req := validCheckout()
	req.Type = "TakeAway"
	req.TableNo = ""
	if fields := failedFields(t, req); fields != nil {
		t.Fatalf("take-away rejected: %v", fields)
	}

	c, err := req.Checkout()
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if c.Type != models.OrderTakeAway || len(c.Lines) != 1 || c.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected checkout %+v", c)
	}
}
