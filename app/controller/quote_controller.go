package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"commission-manager/models"
	"commission-manager/pricing"
)

// QuoteController handles live pricing previews for draft orders
type QuoteController struct{}

// NewQuoteController creates a new QuoteController
func NewQuoteController() *QuoteController {
	return &QuoteController{}
}

// Quote handles POST /api/quote
// Computes the running total, deposit and balance for the current selection.
// The UI calls this on every change; nothing is persisted.
func (c *QuoteController) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Quote: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if !pricing.ValidMultiplier(req.Multiplier) {
		log.Printf("❌ Quote: Invalid multiplier: %v", req.Multiplier)
		http.Error(w, fmt.Sprintf("multiplier must be one of %v", pricing.Multipliers), http.StatusBadRequest)
		return
	}

	breakdown := pricing.Breakdown(req.Items, req.Multiplier, req.AddOns)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		log.Printf("❌ Quote: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
