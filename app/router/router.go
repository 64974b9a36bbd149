package router

import (
	"net/http"
	"strings"

	"commission-manager/app/controller"
)

type Controllers struct {
	Catalog *controller.CatalogController
	Quote   *controller.QuoteController
	Order   *controller.OrderController
	Revenue *controller.RevenueController
	Receipt *controller.ReceiptController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Catalog and live quote
	http.HandleFunc("/api/catalog", controllers.Catalog.List)
	http.HandleFunc("/api/quote", controllers.Quote.Quote)

	// Orders collection - POST checkout, GET queue
	http.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Order.Checkout(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Order.ListQueue(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order actions and receipt views
	http.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/orders/")

		// Route to specific actions first
		if strings.HasSuffix(path, "/status") && r.Method == http.MethodPut {
			controllers.Order.UpdateStatus(w, r)
			return
		}
		if strings.HasSuffix(path, "/deadline") && r.Method == http.MethodPut {
			controllers.Order.UpdateDeadline(w, r)
			return
		}
		if strings.HasSuffix(path, "/archive") && r.Method == http.MethodPost {
			controllers.Order.ArchiveOrder(w, r)
			return
		}
		if strings.HasSuffix(path, "/receipt.png") && r.Method == http.MethodGet {
			controllers.Receipt.ExportPNG(w, r)
			return
		}
		if strings.HasSuffix(path, "/receipt.pdf") && r.Method == http.MethodGet {
			controllers.Receipt.ExportPDF(w, r)
			return
		}
		if strings.HasSuffix(path, "/receipt") && r.Method == http.MethodGet {
			controllers.Receipt.Render(w, r)
			return
		}

		// DELETE /api/orders/{id}
		if r.Method == http.MethodDelete && !strings.Contains(path, "/") {
			controllers.Order.DeleteFromQueue(w, r)
			return
		}

		// Method not allowed
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Archive collection - GET list
	http.HandleFunc("/api/archive", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Order.ListArchive(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// DELETE /api/archive/{id}
	http.HandleFunc("/api/archive/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			controllers.Order.DeleteFromArchive(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Manual refresh from the sync gateway
	http.HandleFunc("/api/reload", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Order.Reload(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Revenue rollup
	http.HandleFunc("/api/revenue/monthly", controllers.Revenue.Monthly)
}
