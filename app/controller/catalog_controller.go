package controller

import (
	"encoding/json"
	"log"
	"net/http"

	"commission-manager/catalog"
)

// CatalogController handles HTTP requests for the commission catalog
type CatalogController struct {
	catalog *catalog.Catalog
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{
		catalog: cat,
	}
}

// List handles GET /api/catalog
// Returns the commission types the selection UI offers.
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		Entries []catalog.Entry `json:"entries"`
	}{
		Entries: c.catalog.Entries(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ ListCatalog: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
