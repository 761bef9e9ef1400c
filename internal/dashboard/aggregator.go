package dashboard

import (
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/montanaflynn/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/vxsahu/crm-system/internal/domain"
)

// Stats are the headline dashboard counters derived from the full product
// collection. Revenue figures use the purchase price uniformly, even for
// sold items with a recorded sold price; existing reports depend on that.
type Stats struct {
	TotalInventory int     `json:"totalInventory"`
	InStockCount   int     `json:"inStockCount"`
	SoldCount      int     `json:"soldCount"`
	ReturnedCount  int     `json:"returnedCount"`
	UnbilledCount  int     `json:"unbilledCount"`
	UnbilledValue  float64 `json:"unbilledValue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	AverageSale    float64 `json:"averageSale"`
}

// MonthPoint is one month of the trailing revenue series.
type MonthPoint struct {
	Month   string  `json:"month"` // e.g. Jan '25
	Revenue float64 `json:"revenue"`
	Sales   int     `json:"sales"`
}

// CategoryRevenue is the revenue total for one category of sold products.
type CategoryRevenue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type        string `json:"type"` // sale | return | unbilled | added
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value"`
}

// enIN formats currency with Indian digit grouping, matching the reports
// the staff already use.
var enIN = message.NewPrinter(language.MustParse("en-IN"))

func formatCurrency(v float64) string {
	return enIN.Sprintf("₹%v", number.Decimal(v))
}

// purchaseMonth parses a product's purchase date tolerantly: legacy imports
// pass date strings through unchanged, so anything parseable is bucketed
// and the rest is skipped.
func purchaseMonth(p domain.Product) (time.Time, bool) {
	t, err := dateparse.ParseAny(p.PurchaseDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func inMonth(p domain.Product, year int, month time.Month) bool {
	t, ok := purchaseMonth(p)
	return ok && t.Year() == year && t.Month() == month
}

// ComputeStats aggregates the headline counters at the given wall-clock
// time.
func ComputeStats(products []domain.Product, now time.Time) Stats {
	var s Stats
	s.TotalInventory = len(products)

	var soldPrices []float64
	for _, p := range products {
		switch p.Status {
		case domain.StatusSold:
			s.SoldCount++
			s.TotalRevenue += p.PurchasePrice
			soldPrices = append(soldPrices, p.PurchasePrice)
			if inMonth(p, now.Year(), now.Month()) {
				s.MonthlyRevenue += p.PurchasePrice
			}
		case domain.StatusReturned:
			s.ReturnedCount++
		default:
			s.InStockCount++
		}
		if p.BillingStatus == domain.BillingUnbilled {
			s.UnbilledCount++
			s.UnbilledValue += p.PurchasePrice
		}
	}

	if len(soldPrices) > 0 {
		mean, err := stats.Mean(soldPrices)
		if err == nil {
			s.AverageSale = mean
		}
	}
	return s
}

// MonthlySeries computes revenue and sale counts for the 6 calendar months
// ending at now, oldest first.
func MonthlySeries(products []domain.Product, now time.Time) []MonthPoint {
	series := make([]MonthPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		point := MonthPoint{
			Month: anchor.Format("Jan") + " '" + anchor.Format("06"),
		}
		for _, p := range products {
			if p.Status != domain.StatusSold {
				continue
			}
			if inMonth(p, anchor.Year(), anchor.Month()) {
				point.Revenue += p.PurchasePrice
				point.Sales++
			}
		}
		series = append(series, point)
	}
	return series
}

// TopCategories groups sold products by category and returns the top 5 by
// revenue, descending. Products without a category count as "Other".
func TopCategories(products []domain.Product) []CategoryRevenue {
	totals := make(map[string]float64)
	for _, p := range products {
		if p.Status != domain.StatusSold {
			continue
		}
		category := p.Category
		if category == "" {
			category = "Other"
		}
		totals[category] += p.PurchasePrice
	}

	result := make([]CategoryRevenue, 0, len(totals))
	for name, value := range totals {
		result = append(result, CategoryRevenue{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Value != result[j].Value {
			return result[i].Value > result[j].Value
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > 5 {
		result = result[:5]
	}
	return result
}

// RecentActivities classifies the last 10 products in insertion order,
// most recent first, and truncates the feed to 8 entries. Classification
// priority: sold, then returned, then unbilled, then plain added.
func RecentActivities(products []domain.Product) []Activity {
	start := len(products) - 10
	if start < 0 {
		start = 0
	}
	recent := products[start:]

	activities := make([]Activity, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		p := recent[i]
		desc := p.ProductName + " - " + p.TagNumber
		switch {
		case p.Status == domain.StatusSold:
			activities = append(activities, Activity{
				Type: "sale", Title: "Product Sold",
				Description: desc, Value: formatCurrency(p.PurchasePrice),
			})
		case p.Status == domain.StatusReturned:
			activities = append(activities, Activity{
				Type: "return", Title: "Product Returned", Description: desc,
			})
		case p.BillingStatus == domain.BillingUnbilled:
			activities = append(activities, Activity{
				Type: "unbilled", Title: "Unbilled Item",
				Description: desc, Value: formatCurrency(p.PurchasePrice),
			})
		default:
			activities = append(activities, Activity{
				Type: "added", Title: "Product Added", Description: desc,
			})
		}
	}
	if len(activities) > 8 {
		activities = activities[:8]
	}
	return activities
}

// Overview bundles every dashboard view computed from one snapshot of the
// collection.
type Overview struct {
	Stats           Stats             `json:"stats"`
	MonthlyRevenue  []MonthPoint      `json:"monthlyRevenueData"`
	CategoryRevenue []CategoryRevenue `json:"categoryRevenueData"`
	Activities      []Activity        `json:"recentActivities"`
}

// BuildOverview computes all dashboard views at once.
func BuildOverview(products []domain.Product, now time.Time) Overview {
	return Overview{
		Stats:           ComputeStats(products, now),
		MonthlyRevenue:  MonthlySeries(products, now),
		CategoryRevenue: TopCategories(products),
		Activities:      RecentActivities(products),
	}
}
