package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"commission-manager/models"
	"commission-manager/service"
)

// ReceiptController serves the receipt view and its image/PDF exports
type ReceiptController struct {
	orders   service.OrderServiceInterface
	receipts *service.ReceiptService
}

// NewReceiptController creates a new ReceiptController
func NewReceiptController(orders service.OrderServiceInterface, receipts *service.ReceiptService) *ReceiptController {
	return &ReceiptController{
		orders:   orders,
		receipts: receipts,
	}
}

// findOrder resolves the order for a receipt request. source=archive reads
// the archive; the queue is the default.
func (c *ReceiptController) findOrder(r *http.Request, id string) (*models.Order, error) {
	fromArchive := r.URL.Query().Get("source") == "archive"
	return c.orders.GetOrder(id, fromArchive)
}

// Render handles GET /api/orders/{id}/receipt
// Serves the HTML receipt view; Chrome loads this same view for exports.
func (c *ReceiptController) Render(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDFromPath(w, r.URL.Path, "/receipt")
	if !ok {
		return
	}

	order, err := c.findOrder(r, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load order: %v", err), http.StatusInternalServerError)
		return
	}

	html, err := c.receipts.RenderHTML(order)
	if err != nil {
		log.Printf("❌ RenderReceipt: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render receipt: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// ExportPNG handles GET /api/orders/{id}/receipt.png
// Rasterizes the receipt view. The result is cached; on a rasterization
// failure a previously cached copy is served so the export stays available.
func (c *ReceiptController) ExportPNG(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ExportReceiptPNG: Received %s request to %s", r.Method, r.URL.Path)

	id, ok := orderIDFromPath(w, r.URL.Path, "/receipt.png")
	if !ok {
		return
	}

	order, err := c.findOrder(r, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load order: %v", err), http.StatusInternalServerError)
		return
	}

	source := r.URL.Query().Get("source")
	data, err := c.receipts.GeneratePNG(r.Context(), order.ID, source)
	if err != nil {
		log.Printf("❌ ExportReceiptPNG: generation failed for order %s: %v", id, err)
		if cached, ok := service.CachedReceipt(order.ID); ok {
			log.Printf("♻️  ExportReceiptPNG: serving cached receipt for order %s", id)
			writeReceiptFile(w, "image/png", receiptFilename(order, "png"), cached)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to generate receipt image: %v", err), http.StatusInternalServerError)
		return
	}

	optimized, err := service.OptimizeReceiptPNG(data)
	if err != nil {
		log.Printf("⚠️  ExportReceiptPNG: optimization failed, serving raw capture: %v", err)
		optimized = data
	}

	if err := service.SaveReceiptToCache(order.ID, optimized); err != nil {
		log.Printf("⚠️  ExportReceiptPNG: %v", err)
	}

	writeReceiptFile(w, "image/png", receiptFilename(order, "png"), optimized)
}

// ExportPDF handles GET /api/orders/{id}/receipt.pdf
func (c *ReceiptController) ExportPDF(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ExportReceiptPDF: Received %s request to %s", r.Method, r.URL.Path)

	id, ok := orderIDFromPath(w, r.URL.Path, "/receipt.pdf")
	if !ok {
		return
	}

	order, err := c.findOrder(r, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to load order: %v", err), http.StatusInternalServerError)
		return
	}

	source := r.URL.Query().Get("source")
	data, err := c.receipts.GeneratePDF(r.Context(), order.ID, source)
	if err != nil {
		log.Printf("❌ ExportReceiptPDF: generation failed for order %s: %v", id, err)
		http.Error(w, fmt.Sprintf("Failed to generate receipt PDF: %v", err), http.StatusInternalServerError)
		return
	}

	writeReceiptFile(w, "application/pdf", receiptFilename(order, "pdf"), data)
}

func receiptFilename(order *models.Order, ext string) string {
	name := order.ClientName
	if name == "" {
		name = "order"
	}
	name = strings.ReplaceAll(name, " ", "-")
	return fmt.Sprintf("receipt-%s.%s", name, ext)
}

func writeReceiptFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
