// Package orderview derives the admin panel's order listing: filtering,
// searching, sorting, view-scoped aggregates and CSV export over the flat
// list of persisted orders.
package orderview

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/joescafe/storefront/models"
)

// Sort keys accepted by DeriveView.
const (
	SortByCreatedAt    = "created_at"
	SortByTotal        = "total"
	SortByCustomerName = "customer_name"
	SortByStatus       = "status"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

// StatusAll disables status filtering.
const StatusAll = "all"

// Query describes one derived view over the orders list. DateFrom/DateTo are
// "2006-01-02" strings; empty means unbounded.
type Query struct {
	Search   string
	Status   string
	DateFrom string
	DateTo   string
	SortKey  string
	SortDir  string
}

// DefaultDir is the direction a sort key starts with when freshly selected:
// newest-first for creation time, ascending for everything else.
func DefaultDir(key string) string {
	if key == SortByCreatedAt {
		return Desc
	}
	return Asc
}

// SortState tracks the admin table's current sort. Toggling the active key
// flips the direction; choosing a new key resets to that key's default.
type SortState struct {
	Key string `json:"key"`
	Dir string `json:"dir"`
}

func NewSortState() SortState {
	return SortState{Key: SortByCreatedAt, Dir: Desc}
}

func (s *SortState) Toggle(key string) {
	if s.Key == key {
		if s.Dir == Asc {
			s.Dir = Desc
		} else {
			s.Dir = Asc
		}
		return
	}
	s.Key = key
	s.Dir = DefaultDir(key)
}

// DeriveView filters, searches and sorts orders into a displayable slice.
// The input is not mutated. Filter order matches the storefront: status,
// then date range, then free text, then a stable sort.
func DeriveView(orders []models.Order, q Query) []models.Order {
	view := filterStatus(orders, q.Status)
	view = filterDateRange(view, q.DateFrom, q.DateTo)
	view = filterSearch(view, q.Search)
	sortOrders(view, q.SortKey, q.SortDir)
	return view
}

func filterStatus(orders []models.Order, status string) []models.Order {
	status = strings.ToLower(strings.TrimSpace(status))
	out := make([]models.Order, 0, len(orders))
	if status == "" || status == StatusAll {
		return append(out, orders...)
	}
	for _, o := range orders {
		if strings.ToLower(o.Status) == status {
			out = append(out, o)
		}
	}
	return out
}

func filterDateRange(orders []models.Order, from, to string) []models.Order {
	var fromTime, toTime *time.Time

	if from != "" {
		if t, err := time.ParseInLocation("2006-01-02", from, time.Local); err == nil {
			// Start of day
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
			fromTime = &t
		}
	}
	if to != "" {
		if t, err := time.ParseInLocation("2006-01-02", to, time.Local); err == nil {
			// End of day, inclusive
			t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, time.Local)
			toTime = &t
		}
	}
	if fromTime == nil && toTime == nil {
		return orders
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if fromTime != nil && o.CreatedAt.Before(*fromTime) {
			continue
		}
		if toTime != nil && o.CreatedAt.After(*toTime) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func filterSearch(orders []models.Order, query string) []models.Order {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return orders
	}

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		address := ""
		if o.Address != nil {
			address = *o.Address
		}
		if strings.Contains(strings.ToLower(o.CustomerName), q) ||
			strings.Contains(strings.ToLower(o.ContactNumber), q) ||
			strings.Contains(strings.ToLower(o.ID), q) ||
			strings.Contains(strings.ToLower(address), q) {
			out = append(out, o)
		}
	}
	return out
}

func sortOrders(orders []models.Order, key, dir string) {
	if dir != Asc && dir != Desc {
		dir = DefaultDir(key)
	}
	mul := 1
	if dir == Desc {
		mul = -1
	}

	// Collators are not safe for concurrent use, so build one per call.
	col := collate.New(language.English, collate.IgnoreCase)

	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		var cmp int
		switch key {
		case SortByTotal:
			cmp = a.Total.Cmp(b.Total)
		case SortByCustomerName:
			cmp = col.CompareString(a.CustomerName, b.CustomerName)
		case SortByStatus:
			cmp = col.CompareString(a.Status, b.Status)
		default:
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				cmp = -1
			case a.CreatedAt.After(b.CreatedAt):
				cmp = 1
			}
		}
		return cmp*mul < 0
	})
}

// CompletedStats returns total sales and order count over the completed
// orders within the given (already filtered) view, never the global list.
func CompletedStats(view []models.Order) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, o := range view {
		if strings.ToLower(o.Status) == models.StatusCompleted {
			total = total.Add(o.Total)
			count++
		}
	}
	return total, count
}
