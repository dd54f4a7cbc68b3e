package validation

import (
	"fmt"

	"restaurant-console/models"
	"restaurant-console/orders"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	Name      string          `json:"name" validate:"required,max=120"`
	Category  string          `json:"category" validate:"max=60"`
	Image     string          `json:"image" validate:"max=255"`
	Size      string          `json:"size" validate:"max=30"`
	Extras    string          `json:"extras" validate:"max=255"`
	Note      string          `json:"note" validate:"max=255"`
	Quantity  int             `json:"quantity" validate:"gt=0,lte=99"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CheckoutRequest is the cart submitted at checkout.
type CheckoutRequest struct {
	TableNo  string          `json:"table_no" validate:"max=8"`
	Type     string          `json:"type" validate:"omitempty,oneof=DineIn TakeAway Delivery"`
	Discount decimal.Decimal `json:"discount"`
	Items    []CheckoutItem  `json:"items" validate:"required,min=1,max=50,dive"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// New returns a validator with the checkout struct-level rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})
	return v
}

// checkoutStructValidation enforces positive prices, a discount within the
// subtotal and a table number for dine-in orders.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	sub := decimal.Zero
	for i, it := range req.Items {
		if !it.UnitPrice.IsPositive() {
			sl.ReportError(it.UnitPrice, fmt.Sprintf("items[%d].unit_price", i), fmt.Sprintf("Items[%d].UnitPrice", i), "positive_price", it.UnitPrice.String())
		}
		sub = sub.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	if req.Discount.IsNegative() {
		sl.ReportError(req.Discount, "discount", "Discount", "non_negative", req.Discount.String())
	} else if req.Discount.GreaterThan(sub) {
		sl.ReportError(req.Discount, "discount", "Discount", "discount_within_subtotal", fmt.Sprintf("discount %s > subtotal %s", req.Discount.StringFixed(2), sub.StringFixed(2)))
	}

	if (req.Type == "" || req.Type == string(models.OrderDineIn)) && req.TableNo == "" {
		sl.ReportError(req.TableNo, "table_no", "TableNo", "required_for_dine_in", "")
	}
}

// Checkout converts a validated request for the order service.
func (r CheckoutRequest) Checkout() (orders.Checkout, error) {
	typ := models.OrderDineIn
	if r.Type != "" {
		t, err := models.ParseOrderType(r.Type)
		if err != nil {
			return orders.Checkout{}, err
		}
		typ = t
	}
	c := orders.Checkout{TableNo: r.TableNo, Type: typ, Discount: r.Discount}
	for _, it := range r.Items {
		c.Lines = append(c.Lines, orders.CheckoutLine{
			Name:      it.Name,
			Category:  it.Category,
			Image:     it.Image,
			Size:      it.Size,
			Extras:    it.Extras,
			Note:      it.Note,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return c, nil
}
