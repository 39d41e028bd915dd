package orderview

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/joescafe/storefront/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(d int, hour int) time.Time {
	return time.Date(2026, 8, d, hour, 0, 0, 0, time.Local)
}

func sampleOrders() []models.Order {
	addr := "123 Mabini St, Quezon City"
	return []models.Order{
		{ID: "order-aaa11111", CustomerName: "Ana Reyes", ContactNumber: "0917000001", Status: models.StatusCompleted, Total: dec("250"), CreatedAt: day(10, 9), ServiceType: models.ServicePickup},
		{ID: "order-bbb22222", CustomerName: "Ben Cruz", ContactNumber: "0917000002", Status: models.StatusPending, Total: dec("120"), CreatedAt: day(11, 10), ServiceType: models.ServiceDineIn},
		{ID: "order-ccc33333", CustomerName: "Carla Lim", ContactNumber: "0917000003", Status: models.StatusCompleted, Total: dec("480"), CreatedAt: day(12, 11), ServiceType: models.ServiceDelivery, Address: &addr},
		{ID: "order-ddd44444", CustomerName: "ana dizon", ContactNumber: "0917000004", Status: models.StatusCancelled, Total: dec("300"), CreatedAt: day(13, 12), ServiceType: models.ServiceCounter},
	}
}

func TestDeriveViewStatusFilter(t *testing.T) {
	view := DeriveView(sampleOrders(), Query{Status: "Completed"})
	assert.Len(t, view, 2)
	for _, o := range view {
		assert.Equal(t, models.StatusCompleted, o.Status)
	}

	// "all" short-circuits
	view = DeriveView(sampleOrders(), Query{Status: StatusAll})
	assert.Len(t, view, 4)
}

func TestDeriveViewDateRangeInclusive(t *testing.T) {
	view := DeriveView(sampleOrders(), Query{DateFrom: "2026-08-11", DateTo: "2026-08-12", SortKey: SortByCreatedAt, SortDir: Asc})
	assert.Len(t, view, 2)
	assert.Equal(t, "Ben Cruz", view[0].CustomerName)
	assert.Equal(t, "Carla Lim", view[1].CustomerName)

	// An order created at 11:00 on the DateTo day is inside the range.
	view = DeriveView(sampleOrders(), Query{DateTo: "2026-08-12"})
	assert.Len(t, view, 3)
}

func TestDeriveViewFreeTextSearch(t *testing.T) {
	// Case-insensitive across name, contact, id and address.
	assert.Len(t, DeriveView(sampleOrders(), Query{Search: "ANA"}), 2)
	assert.Len(t, DeriveView(sampleOrders(), Query{Search: "0917000002"}), 1)
	assert.Len(t, DeriveView(sampleOrders(), Query{Search: "ccc33333"}), 1)
	assert.Len(t, DeriveView(sampleOrders(), Query{Search: "quezon"}), 1)
	// Orders without an address must not panic on address search.
	assert.Len(t, DeriveView(sampleOrders(), Query{Search: "no-such-thing"}), 0)
}

func TestDeriveViewSortByTotal(t *testing.T) {
	view := DeriveView(sampleOrders(), Query{SortKey: SortByTotal, SortDir: Asc})
	assert.Equal(t, "120", view[0].Total.String())
	assert.Equal(t, "480", view[len(view)-1].Total.String())

	view = DeriveView(sampleOrders(), Query{SortKey: SortByTotal, SortDir: Desc})
	assert.Equal(t, "480", view[0].Total.String())
}

func TestDeriveViewStableForEqualKeys(t *testing.T) {
	orders := sampleOrders()
	orders[0].Total = dec("120")
	orders[1].Total = dec("120")
	orders[2].Total = dec("120")
	orders[3].Total = dec("120")

	view := DeriveView(orders, Query{SortKey: SortByTotal, SortDir: Asc})
	// Equal totals keep their original relative order.
	assert.Equal(t, "Ana Reyes", view[0].CustomerName)
	assert.Equal(t, "Ben Cruz", view[1].CustomerName)
	assert.Equal(t, "Carla Lim", view[2].CustomerName)
	assert.Equal(t, "ana dizon", view[3].CustomerName)
}

func TestDeriveViewDefaultSortNewestFirst(t *testing.T) {
	view := DeriveView(sampleOrders(), Query{})
	assert.Equal(t, "ana dizon", view[0].CustomerName)
	assert.Equal(t, "Ana Reyes", view[len(view)-1].CustomerName)
}

func TestSortByCustomerNameIsCaseInsensitive(t *testing.T) {
	view := DeriveView(sampleOrders(), Query{SortKey: SortByCustomerName, SortDir: Asc})
	// "ana dizon" sorts next to "Ana Reyes" rather than after all capitals.
	assert.Equal(t, "ana dizon", view[0].CustomerName)
	assert.Equal(t, "Ana Reyes", view[1].CustomerName)
	assert.Equal(t, "Ben Cruz", view[2].CustomerName)
}

func TestSortStateToggle(t *testing.T) {
	s := NewSortState()
	assert.Equal(t, SortByCreatedAt, s.Key)
	assert.Equal(t, Desc, s.Dir)

	// New key resets to its default direction.
	s.Toggle(SortByTotal)
	assert.Equal(t, SortByTotal, s.Key)
	assert.Equal(t, Asc, s.Dir)

	// Same key flips.
	s.Toggle(SortByTotal)
	assert.Equal(t, Desc, s.Dir)
	s.Toggle(SortByTotal)
	assert.Equal(t, Asc, s.Dir)

	// Back to created_at resets to descending.
	s.Toggle(SortByCreatedAt)
	assert.Equal(t, Desc, s.Dir)
}

func TestCompletedStatsAreViewScoped(t *testing.T) {
	// Restrict the view to one day; only that day's completed order counts.
	view := DeriveView(sampleOrders(), Query{DateFrom: "2026-08-12", DateTo: "2026-08-12"})
	total, count := CompletedStats(view)
	assert.Equal(t, 1, count)
	assert.True(t, dec("480").Equal(total))

	// Unfiltered view counts both completed orders.
	total, count = CompletedStats(DeriveView(sampleOrders(), Query{}))
	assert.Equal(t, 2, count)
	assert.True(t, dec("730").Equal(total))
}

func TestWriteCSVExportsCompletedOnly(t *testing.T) {
	var buf bytes.Buffer
	count, err := WriteCSV(&buf, sampleOrders())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "OrderID,CustName,ContactNum,Email,TotalSpent,OrderDateandTime,ServiceType,remarks", lines[0])
	assert.Contains(t, lines[1], "AAA11111")
	assert.Contains(t, lines[1], "250.00")
	assert.Contains(t, lines[2], "Delivery")
}

func TestFormatServiceType(t *testing.T) {
	assert.Equal(t, "Dine in", FormatServiceType(models.ServiceDineIn))
	assert.Equal(t, "Pickup", FormatServiceType(models.ServicePickup))
}
