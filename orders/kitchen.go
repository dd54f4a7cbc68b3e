package orders

import "restaurant-console/models"

// Column is one status bucket of the kitchen board.
type Column struct {
	Status models.OrderStatus `json:"status"`
	Orders []models.Order     `json:"orders"`
}

// KitchenBoard partitions orders into the four status columns, in lifecycle
// order. Every order lands in exactly one column; an order carrying a status
// outside the enum is dropped and counted in the second return value.
func KitchenBoard(orders []models.Order) ([]Column, int) {
	cols := make([]Column, len(models.Statuses))
	for i, st := range models.Statuses {
		cols[i] = Column{Status: st, Orders: []models.Order{}}
	}
	unknown := 0
	for _, o := range orders {
		r := o.Status.Rank()
		if r < 0 {
			unknown++
			continue
		}
		cols[r].Orders = append(cols[r].Orders, o)
	}
	return cols, unknown
}
