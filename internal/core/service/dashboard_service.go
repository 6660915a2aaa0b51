package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/poing/admin-console/internal/core/domain"
	"github.com/poing/admin-console/internal/core/ports"
)

const topCountries = 5

// printer groups thousands the way the dashboard shows them ("12,847").
var printer = message.NewPrinter(language.English)

type dashboardService struct {
	gw  ports.DashboardGateway
	log zerolog.Logger
}

func NewDashboardService(gw ports.DashboardGateway, log zerolog.Logger) ports.DashboardService {
	return &dashboardService{gw: gw, log: log}
}

func (s *dashboardService) Overview(ctx context.Context, sess domain.Session) (*ports.DashboardOverview, error) {
	stats, err := s.gw.Stats(ctx, sess.Token)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return BuildOverview(*stats), nil
}

// BuildOverview turns raw aggregates into display figures.
func BuildOverview(st domain.DashboardStats) *ports.DashboardOverview {
	ov := &ports.DashboardOverview{
		Totals: []ports.StatCard{
			{Label: "Total Countries", Value: GroupInt(int64(st.TotalCountries))},
			{Label: "Total Categories", Value: GroupInt(int64(st.TotalCategories))},
			{Label: "Total Listings", Value: GroupInt(int64(st.TotalListings))},
			{Label: "Storage Used", Value: HumanBytes(st.StorageUsedBytes)},
		},
		StorageUsed:     HumanBytes(st.StorageUsedBytes),
		StorageCapacity: HumanBytes(st.StorageCapacityBytes),
		StoragePercent:  percent(st.StorageUsedBytes, st.StorageCapacityBytes),
		Uptime:          fmt.Sprintf("%.1f%%", st.UptimePercent),
		AvgResponse:     fmt.Sprintf("%dms", st.AvgResponseMs),
	}

	for _, c := range st.Categories {
		ov.Categories = append(ov.Categories, ports.CategoryCard{
			Name:     c.Name,
			Listings: GroupInt(int64(c.Listings)),
			Sales:    Money(c.SalesCents),
		})
	}

	countries := append([]domain.CountryStat(nil), st.Countries...)
	sort.SliceStable(countries, func(i, j int) bool { return countries[i].Listings > countries[j].Listings })
	if len(countries) > topCountries {
		countries = countries[:topCountries]
	}
	for _, c := range countries {
		ov.TopCountries = append(ov.TopCountries, ports.CountryShare{
			Name:     c.Name,
			Listings: GroupInt(int64(c.Listings)),
			Percent:  percent(int64(c.Listings), int64(st.TotalListings)),
		})
	}

	return ov
}

// GroupInt formats n with thousands separators.
func GroupInt(n int64) string {
	return printer.Sprintf("%d", n)
}

// Money formats cents as whole dollars, e.g. 4523000 -> "$45,230".
func Money(cents int64) string {
	dollars := int64(math.Round(float64(cents) / 100))
	if dollars < 0 {
		return "-$" + GroupInt(-dollars)
	}
	return "$" + GroupInt(dollars)
}

// HumanBytes renders a byte count with decimal units and one decimal place.
func HumanBytes(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 4; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTP"[exp])
}

// percent is part/total*100 rounded to one decimal; zero when total is zero.
func percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
