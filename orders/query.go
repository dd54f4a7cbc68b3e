package orders

import (
	"fmt"
	"strings"

	"restaurant-console/models"
)

// StatusAll is the filter value that matches every order.
const StatusAll = "all"

// Filter is the orders-table query: a free-text search combined with an
// exact status match.
type Filter struct {
	Search string `form:"search" json:"search"`
	Status string `form:"status" json:"status"`
}

func (f Filter) Validate() error {
	if f.Status == "" || strings.EqualFold(f.Status, StatusAll) {
		return nil
	}
	if _, err := models.ParseOrderStatus(f.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return nil
}

// Matches reports whether o passes both the search and the status filter.
// An unparseable status matches nothing.
func (f Filter) Matches(o models.Order) bool {
	if f.Status != "" && !strings.EqualFold(f.Status, StatusAll) {
		want, err := models.ParseOrderStatus(f.Status)
		if err != nil || o.Status != want {
			return false
		}
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.ID), q) || strings.Contains(strings.ToLower(o.TableNo), q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(strings.ToLower(it.Name), q) {
			return true
		}
	}
	return false
}

// ApplyFilter keeps the input order.
func ApplyFilter(orders []models.Order, f Filter) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// Page is one slice of a filtered result.
type Page struct {
	Orders     []models.Order `json:"orders"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
}

// Paginate clamps page to [1, TotalPages], so asking past either end returns
// the nearest real page. An empty input yields one empty page. Any positive
// perPage is accepted, up to math.MaxInt.
func Paginate(orders []models.Order, page, perPage int) Page {
	if perPage <= 0 {
		perPage = 1
	}
	total := len(orders)
	pages := total / perPage
	if total%perPage != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	page = min(max(page, 1), pages)

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)
	return Page{
		Orders:     orders[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalPages: pages,
		Total:      total,
	}
}
