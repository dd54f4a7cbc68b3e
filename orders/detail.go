package orders

import (
	"restaurant-console/models"
	"restaurant-console/statemachine"
)

// DetailMode tells a view where statuses are edited.
type DetailMode string

const (
	// DetailSingle orders are edited at the order level.
	DetailSingle DetailMode = "single"
	// DetailMulti orders are edited per item and also carry an overall status.
	DetailMulti DetailMode = "multi"
)

type ItemDetail struct {
	models.OrderItem
	LineTotal  string               `json:"line_total"`
	NextStatus *models.OrderStatus  `json:"next_status"`
	Targets    []models.OrderStatus `json:"targets"`
}

type Detail struct {
	Order      *models.Order        `json:"order"`
	Mode       DetailMode           `json:"mode"`
	Status     models.OrderStatus   `json:"status"`
	NextStatus *models.OrderStatus  `json:"next_status"`
	Targets    []models.OrderStatus `json:"targets"`
	Items      []ItemDetail         `json:"items,omitempty"`
	// Derived is set when the overall status is computed from the items and
	// cannot be set directly.
	Derived bool `json:"derived"`
}

func nextPtr(s models.OrderStatus) *models.OrderStatus {
	if next, ok := statemachine.NextStatus(s); ok {
		return &next
	}
	return nil
}

// BuildDetail resolves the single/multi item view of one order.
func (s *Service) BuildDetail(o *models.Order) Detail {
	return NewDetail(o, s.mode, s.policy)
}

func NewDetail(o *models.Order, mode statemachine.Mode, policy StatusPolicy) Detail {
	d := Detail{
		Order:      o,
		Mode:       DetailSingle,
		Status:     o.Status,
		NextStatus: nextPtr(o.Status),
		Targets:    statemachine.ValidTransitionsFrom(o.Status, mode),
	}
	if o.IsSingleItem() {
		return d
	}
	d.Mode = DetailMulti
	d.Derived = policy == PolicyDerived
	if d.Derived {
		d.NextStatus = nil
		d.Targets = nil
	}
	for _, it := range o.Items {
		d.Items = append(d.Items, ItemDetail{
			OrderItem:  it,
			LineTotal:  it.LineTotal().StringFixed(2),
			NextStatus: nextPtr(it.Status),
			Targets:    statemachine.ValidTransitionsFrom(it.Status, mode),
		})
	}
	return d
}
