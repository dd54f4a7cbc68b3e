package orders

import (
	"restaurant-console/models"

	"github.com/shopspring/decimal"
)

// Summary is the dashboard roll-up of the order set.
type Summary struct {
	Total    int                        `json:"total"`
	ByStatus map[models.OrderStatus]int `json:"by_status"`
	ByType   map[models.OrderType]int   `json:"by_type"`
	// Revenue only counts Served orders.
	Revenue decimal.Decimal `json:"revenue"`
	Items   int             `json:"items"`
}

func Summarize(orders []models.Order) Summary {
	s := Summary{
		Total:    len(orders),
		ByStatus: make(map[models.OrderStatus]int, len(models.Statuses)),
		ByType:   map[models.OrderType]int{},
		Revenue:  decimal.Zero,
	}
	for _, st := range models.Statuses {
		s.ByStatus[st] = 0
	}
	for _, o := range orders {
		s.ByStatus[o.Status]++
		s.ByType[o.Type]++
		for _, it := range o.Items {
			s.Items += it.Quantity
		}
		if o.Status == models.StatusServed {
			s.Revenue = s.Revenue.Add(o.TotalAmount)
		}
	}
	return s
}
