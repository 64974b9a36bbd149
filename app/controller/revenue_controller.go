package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"commission-manager/models"
	"commission-manager/service"
	"commission-manager/utils"
)

// RevenueController handles the monthly revenue rollup over the archive
type RevenueController struct {
	orders service.OrderServiceInterface
}

// NewRevenueController creates a new RevenueController
func NewRevenueController(orders service.OrderServiceInterface) *RevenueController {
	return &RevenueController{
		orders: orders,
	}
}

// revenueBucket decorates a revenue bucket with its display fields. The Thai
// month name and Buddhist-era year are presentation-only; the stored dates
// stay Gregorian.
type revenueBucket struct {
	models.MonthlyRevenue
	Label          string `json:"label"`
	FormattedTotal string `json:"formattedTotal"`
}

// Monthly handles GET /api/revenue/monthly
func (c *RevenueController) Monthly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	revenue := c.orders.MonthlyRevenue()
	buckets := make([]revenueBucket, 0, len(revenue))
	for _, bucket := range revenue {
		buckets = append(buckets, revenueBucket{
			MonthlyRevenue: bucket,
			Label:          utils.ThaiMonthYear(bucket.Month, bucket.Year),
			FormattedTotal: utils.FormatTHB(bucket.Total),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string][]revenueBucket{"months": buckets}); err != nil {
		log.Printf("❌ MonthlyRevenue: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
