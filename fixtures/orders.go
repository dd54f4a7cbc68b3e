// Package fixtures holds the mock data the console starts with.
package fixtures

import (
	"fmt"
	"time"

	"restaurant-console/models"

	"github.com/shopspring/decimal"
)

type line struct {
	name, category, size, extras, note string
	qty                                int
	price                              string
	status                             models.OrderStatus
}

type seed struct {
	table    string
	typ      models.OrderType
	status   models.OrderStatus
	timeLeft string
	discount string
	lines    []line
}

var seeds = []seed{
	{"6A", models.OrderDineIn, models.StatusReceive, "25 min", "0", []line{
		{"Chicken Burger", "Burgers", "Large", "Extra cheese", "", 1, "12.50", models.StatusReceive},
	}},
	{"6B", models.OrderDineIn, models.StatusReady, "5 min", "0", []line{
		{"Margherita Pizza", "Pizza", "Medium", "", "", 1, "14.00", models.StatusReady},
	}},
	{"2C", models.OrderDineIn, models.StatusPreparing, "15 min", "2.00", []line{
		{"Caesar Salad", "Salads", "", "", "Dressing on the side", 2, "8.75", models.StatusPreparing},
		{"Tomato Soup", "Soups", "", "", "", 1, "6.50", models.StatusReady},
	}},
	{"", models.OrderTakeAway, models.StatusReceive, "30 min", "0", []line{
		{"Beef Lasagna", "Pasta", "", "", "", 1, "15.25", models.StatusReceive},
		{"Garlic Bread", "Sides", "", "Mozzarella", "", 2, "4.00", models.StatusReceive},
		{"Lemonade", "Drinks", "Large", "", "No ice", 2, "3.50", models.StatusReceive},
	}},
	{"4A", models.OrderDineIn, models.StatusServed, "0 min", "0", []line{
		{"Grilled Salmon", "Seafood", "", "", "", 1, "22.00", models.StatusServed},
	}},
	{"", models.OrderDelivery, models.StatusPreparing, "20 min", "5.00", []line{
		{"Pepperoni Pizza", "Pizza", "Large", "Jalapeños", "", 2, "16.50", models.StatusPreparing},
		{"Chicken Wings", "Sides", "", "", "Extra hot", 1, "9.00", models.StatusReceive},
	}},
	{"1A", models.OrderDineIn, models.StatusReady, "2 min", "0", []line{
		{"Mushroom Risotto", "Mains", "", "Truffle oil", "", 1, "17.50", models.StatusReady},
	}},
	{"3B", models.OrderDineIn, models.StatusServed, "0 min", "0", []line{
		{"Fish Tacos", "Mains", "", "", "", 3, "5.50", models.StatusServed},
		{"Iced Tea", "Drinks", "Small", "", "", 3, "2.75", models.StatusServed},
	}},
	{"", models.OrderTakeAway, models.StatusReady, "1 min", "0", []line{
		{"Veggie Wrap", "Wraps", "", "", "Vegan", 1, "9.25", models.StatusReady},
	}},
	{"5C", models.OrderDineIn, models.StatusReceive, "35 min", "0", []line{
		{"Ribeye Steak", "Grill", "", "Pepper sauce", "Medium rare", 2, "29.00", models.StatusReceive},
		{"Mashed Potatoes", "Sides", "", "", "", 2, "5.00", models.StatusReceive},
	}},
	{"", models.OrderDelivery, models.StatusServed, "0 min", "3.00", []line{
		{"Pad Thai", "Noodles", "", "Tofu", "", 1, "13.75", models.StatusServed},
	}},
	{"7A", models.OrderDineIn, models.StatusPreparing, "10 min", "0", []line{
		{"Chocolate Lava Cake", "Desserts", "", "Vanilla ice cream", "Birthday candle", 1, "8.50", models.StatusPreparing},
	}},
}

// Orders builds the mock order set. Ids are "001".."012", created a few
// minutes apart ending at now.
func Orders(now time.Time, rates models.Rates) []models.Order {
	out := make([]models.Order, 0, len(seeds))
	for i, s := range seeds {
		id := fmt.Sprintf("%03d", i+1)
		created := now.Add(-time.Duration(len(seeds)-i) * 7 * time.Minute).UTC()
		o := models.Order{
			ID:        id,
			TableNo:   s.table,
			Type:      s.typ,
			Status:    s.status,
			TimeLeft:  s.timeLeft,
			Discount:  decimal.RequireFromString(s.discount),
			Version:   1,
			CreatedAt: created,
			UpdatedAt: created,
		}
		for j, l := range s.lines {
			o.Items = append(o.Items, models.OrderItem{
				ID:        fmt.Sprintf("%s-%d", id, j+1),
				OrderID:   id,
				Position:  j,
				Name:      l.name,
				Category:  l.category,
				Image:     fmt.Sprintf("/images/menu/%s-%d.jpg", id, j+1),
				Status:    l.status,
				TimeLeft:  s.timeLeft,
				Size:      l.size,
				Extras:    l.extras,
				Note:      l.note,
				Quantity:  l.qty,
				UnitPrice: decimal.RequireFromString(l.price),
			})
		}
		o.ComputeTotals(rates)
		out = append(out, o)
	}
	return out
}
