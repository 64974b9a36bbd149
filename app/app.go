package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"commission-manager/app/controller"
	"commission-manager/app/router"
	"commission-manager/catalog"
	"commission-manager/db"
	"commission-manager/gateway"
	"commission-manager/service"
)

// Initialize initializes the application
func Initialize() error {
	// Load the commission catalog: an explicit config file wins, otherwise
	// the built-in table is used.
	var cat *catalog.Catalog
	if configPath := os.Getenv("CATALOG_CONFIG"); configPath != "" {
		loaded, err := catalog.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	} else {
		cat = catalog.Default()
		log.Printf("✅ Catalog: using built-in commission types")
	}

	// Select the sync gateway backend
	gw, err := newGateway()
	if err != nil {
		return err
	}

	// Initialize order service and load the initial snapshot. A transport
	// failure here is soft: the dashboard starts with empty collections and
	// the user can retry via /api/reload.
	orderService := service.NewOrderService(gw)
	if err := orderService.Reload(context.Background()); err != nil {
		log.Printf("⚠️  Initialize: initial reload failed, starting empty: %v", err)
	}

	// Receipt rendering and export
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}
	receiptService, err := service.NewReceiptService(baseURL)
	if err != nil {
		return err
	}
	if err := service.EnsureReceiptCacheDir(); err != nil {
		return err
	}

	// Create controllers
	controllers := &router.Controllers{
		Catalog: controller.NewCatalogController(cat),
		Quote:   controller.NewQuoteController(),
		Order:   controller.NewOrderController(orderService),
		Revenue: controller.NewRevenueController(orderService),
		Receipt: controller.NewReceiptController(orderService, receiptService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}

// newGateway builds the sync gateway selected by SYNC_BACKEND. With no
// backend configured the dashboard runs on local state only.
func newGateway() (gateway.Gateway, error) {
	backend := os.Getenv("SYNC_BACKEND")
	switch backend {
	case "", "none":
		log.Printf("ℹ️  Sync: no backend configured, running local-only")
		return gateway.Noop{}, nil

	case "webhook":
		url := os.Getenv("SYNC_WEBHOOK_URL")
		if url == "" {
			return nil, fmt.Errorf("SYNC_BACKEND=webhook requires SYNC_WEBHOOK_URL")
		}
		log.Printf("🔄 Sync: using webhook backend")
		return gateway.NewWebhookGateway(url), nil

	case "sheets":
		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			return nil, fmt.Errorf("SYNC_BACKEND=sheets requires GOOGLE_APPLICATION_CREDENTIALS")
		}
		spreadsheetID := os.Getenv("SHEETS_SPREADSHEET_ID")
		if spreadsheetID == "" {
			return nil, fmt.Errorf("SYNC_BACKEND=sheets requires SHEETS_SPREADSHEET_ID")
		}
		gw, err := gateway.NewSheetsGateway(context.Background(), credentialsPath, spreadsheetID)
		if err != nil {
			return nil, err
		}
		log.Printf("🔄 Sync: using sheets backend (spreadsheet %s)", spreadsheetID)
		return gw, nil

	case "postgres":
		if err := db.InitDB(); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		gw := gateway.NewPostgresGateway(db.DB)
		if err := gw.Migrate(context.Background()); err != nil {
			return nil, err
		}
		log.Printf("🔄 Sync: using postgres backend")
		return gw, nil

	default:
		return nil, fmt.Errorf("unknown SYNC_BACKEND %q (use none, webhook, sheets or postgres)", backend)
	}
}
