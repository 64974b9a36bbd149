package service

import "commission-manager/models"

// MonthlyRevenueOf groups archived orders into (month, year) buckets, each
// order contributing its frozen total price to exactly one bucket. Buckets
// come back in first-occurrence order over the input, not calendar order;
// the archive is newest-first so recent months lead.
func MonthlyRevenueOf(archive []models.Order) []models.MonthlyRevenue {
	type key struct {
		month int
		year  int
	}

	buckets := []models.MonthlyRevenue{}
	index := map[key]int{}

	for _, order := range archive {
		if order.Date.IsZero() {
			continue
		}
		k := key{month: int(order.Date.Month()), year: order.Date.Year()}
		if i, ok := index[k]; ok {
			buckets[i].Total += order.TotalPrice
			continue
		}
		index[k] = len(buckets)
		buckets = append(buckets, models.MonthlyRevenue{
			Month: k.month,
			Year:  k.year,
			Total: order.TotalPrice,
		})
	}
	return buckets
}
