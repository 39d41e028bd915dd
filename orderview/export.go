package orderview

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/joescafe/storefront/models"
)

// Column order is fixed; downstream accounting sheets import by position.
var csvHeaders = []string{
	"OrderID",
	"CustName",
	"ContactNum",
	"Email",
	"TotalSpent",
	"OrderDateandTime",
	"ServiceType",
	"remarks",
}

// WriteCSV exports the completed orders of the given view as CSV and returns
// how many rows were written. Zero rows still produces the header.
func WriteCSV(w io.Writer, view []models.Order) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return 0, err
	}

	count := 0
	for i := range view {
		o := &view[i]
		if strings.ToLower(o.Status) != models.StatusCompleted {
			continue
		}

		remarks := o.Notes
		if remarks == "" {
			remarks = "N/A"
		}
		row := []string{
			o.ShortCode(),
			o.CustomerName,
			o.ContactNumber,
			"N/A", // email is not collected at checkout
			o.Total.StringFixed(2),
			o.CreatedAt.Format("01/02/2006 03:04 PM"),
			FormatServiceType(o.ServiceType),
			remarks,
		}
		if err := cw.Write(row); err != nil {
			return count, err
		}
		count++
	}

	cw.Flush()
	return count, cw.Error()
}

// FormatServiceType renders a service type for display: "dine-in" -> "Dine in".
func FormatServiceType(serviceType string) string {
	s := strings.ReplaceAll(serviceType, "-", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
