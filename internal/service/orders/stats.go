package orders

import (
	"math"
	"sort"
	"strconv"

	"github.com/brewandco/brew-counter/internal/model/order"
)

// ItemCount is one entry of the popularity ranking.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// HourlyRevenue is revenue bucketed by hour of day.
type HourlyRevenue struct {
	Hour    string  `json:"hour"`
	Revenue float64 `json:"revenue"`
}

// Stats are the owner-dashboard metrics computed over a snapshot.
type Stats struct {
	TotalRevenue   float64              `json:"totalRevenue"`
	TotalOrders    int                  `json:"totalOrders"`
	AvgOrderValue  float64              `json:"avgOrderValue"`
	CompletionRate float64              `json:"completionRate"`
	PopularItems   []ItemCount          `json:"popularItems"`
	HourlyRevenue  []HourlyRevenue      `json:"hourlyRevenue"`
	MilkBreakdown  map[string]int       `json:"milkBreakdown"`
	StatusCounts   map[order.Status]int `json:"statusCounts"`
}

const popularItemsLimit = 5

// ComputeStats derives dashboard metrics from the current order snapshot.
// Dashboards read snapshots only; nothing here mutates order state.
func (s *Service) ComputeStats() Stats {
	snapshot := s.Snapshot()

	stats := Stats{
		TotalOrders:   len(snapshot),
		MilkBreakdown: make(map[string]int),
		StatusCounts: map[order.Status]int{
			order.StatusPending:    0,
			order.StatusInProgress: 0,
			order.StatusCompleted:  0,
		},
	}

	itemCounts := make(map[string]int)
	hourly := make(map[int]float64)

	for _, o := range snapshot {
		stats.TotalRevenue += o.Total
		stats.StatusCounts[o.Status]++
		if !o.Timestamp.IsZero() {
			hourly[o.Timestamp.Hour()] += o.Total
		}
		for _, item := range o.Items {
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			itemCounts[item.Name] += qty
			if item.Milk != "" {
				stats.MilkBreakdown[item.Milk]++
			}
		}
	}

	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
		stats.CompletionRate = float64(stats.StatusCounts[order.StatusCompleted]) / float64(stats.TotalOrders) * 100
	}

	stats.PopularItems = rankItems(itemCounts)
	stats.HourlyRevenue = bucketHours(hourly)
	return stats
}

func rankItems(counts map[string]int) []ItemCount {
	ranked := make([]ItemCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, ItemCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > popularItemsLimit {
		ranked = ranked[:popularItemsLimit]
	}
	return ranked
}

func bucketHours(hourly map[int]float64) []HourlyRevenue {
	hours := make([]int, 0, len(hourly))
	for hour := range hourly {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	out := make([]HourlyRevenue, 0, len(hours))
	for _, hour := range hours {
		out = append(out, HourlyRevenue{
			Hour:    formatHour(hour),
			Revenue: math.Round(hourly[hour]*100) / 100,
		})
	}
	return out
}

func formatHour(hour int) string {
	return strconv.Itoa(hour) + ":00"
}
