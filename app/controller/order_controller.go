package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"commission-manager/models"
	"commission-manager/service"
)

// OrderController handles HTTP requests for the order queue and archive
type OrderController struct {
	orders service.OrderServiceInterface
}

// NewOrderController creates a new OrderController
func NewOrderController(orders service.OrderServiceInterface) *OrderController {
	return &OrderController{
		orders: orders,
	}
}

// Checkout handles POST /api/orders
// Confirms a draft: validates it, freezes the total and inserts the order at
// the front of the queue.
func (c *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Checkout: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Checkout: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	order, err := c.orders.Checkout(&req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("❌ Checkout: %v", err)
		http.Error(w, fmt.Sprintf("Failed to create order: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		log.Printf("❌ Checkout: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListQueue handles GET /api/orders
func (c *OrderController) ListQueue(w http.ResponseWriter, r *http.Request) {
	writeOrderList(w, "queue", c.orders.Queue())
}

// ListArchive handles GET /api/archive
func (c *OrderController) ListArchive(w http.ResponseWriter, r *http.Request) {
	writeOrderList(w, "archive", c.orders.Archive())
}

func writeOrderList(w http.ResponseWriter, key string, orders []models.Order) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string][]models.Order{key: orders}); err != nil {
		log.Printf("❌ ListOrders: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// UpdateStatus handles PUT /api/orders/{id}/status
// An absent id is a silent no-op: a concurrent reload may have removed the
// order while the action was pending in the UI.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateStatus: Received %s request to %s", r.Method, r.URL.Path)

	id, ok := orderIDFromPath(w, r.URL.Path, "/status")
	if !ok {
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateStatus: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if !req.Status.Valid() {
		log.Printf("❌ UpdateStatus: Invalid status: %q", req.Status)
		http.Error(w, fmt.Sprintf("unknown status %q", req.Status), http.StatusBadRequest)
		return
	}

	order, updated := c.orders.SetStatus(id, req.Status)
	writeOrderUpdate(w, order, updated)
}

// UpdateDeadline handles PUT /api/orders/{id}/deadline
func (c *OrderController) UpdateDeadline(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 UpdateDeadline: Received %s request to %s", r.Method, r.URL.Path)

	id, ok := orderIDFromPath(w, r.URL.Path, "/deadline")
	if !ok {
		return
	}

	var req models.UpdateDeadlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ UpdateDeadline: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	order, updated := c.orders.SetDeadline(id, req.Deadline)
	writeOrderUpdate(w, order, updated)
}

func writeOrderUpdate(w http.ResponseWriter, order *models.Order, updated bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := struct {
		Updated bool          `json:"updated"`
		Order   *models.Order `json:"order,omitempty"`
	}{
		Updated: updated,
		Order:   order,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ UpdateOrder: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ArchiveOrder handles POST /api/orders/{id}/archive
// Only finished orders may be archived; the check lives here at the boundary,
// matching the dashboard that only enables the action on finished orders.
func (c *OrderController) ArchiveOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 ArchiveOrder: Received %s request to %s", r.Method, r.URL.Path)

	id, ok := orderIDFromPath(w, r.URL.Path, "/archive")
	if !ok {
		return
	}

	current, err := c.orders.GetOrder(id, false)
	if err != nil {
		http.Error(w, fmt.Sprintf("order %s not found in queue", id), http.StatusNotFound)
		return
	}
	if current.Status != models.StatusFinished {
		log.Printf("❌ ArchiveOrder: order %s is %q, not finished", id, current.Status)
		http.Error(w, fmt.Sprintf("order %s is not finished", id), http.StatusConflict)
		return
	}

	order, err := c.orders.MoveToArchive(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("❌ ArchiveOrder: %v", err)
		http.Error(w, fmt.Sprintf("Failed to archive order: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(order); err != nil {
		log.Printf("❌ ArchiveOrder: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// DeleteFromQueue handles DELETE /api/orders/{id}?confirm=true
func (c *OrderController) DeleteFromQueue(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 DeleteFromQueue: Received %s request to %s", r.Method, r.URL.Path)

	id := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	c.deleteOrder(w, r, id, false)
}

// DeleteFromArchive handles DELETE /api/archive/{id}?confirm=true
func (c *OrderController) DeleteFromArchive(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 DeleteFromArchive: Received %s request to %s", r.Method, r.URL.Path)

	id := strings.TrimPrefix(r.URL.Path, "/api/archive/")
	c.deleteOrder(w, r, id, true)
}

// deleteOrder performs the destructive removal. Deletion is irreversible, so
// the request must carry confirm=true, the caller's assertion that the user
// confirmed the prompt.
func (c *OrderController) deleteOrder(w http.ResponseWriter, r *http.Request, id string, fromArchive bool) {
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "order id parameter is required", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		log.Printf("❌ DeleteOrder: missing confirmation for order %s", id)
		http.Error(w, "deletion requires confirm=true", http.StatusBadRequest)
		return
	}

	var deleted bool
	if fromArchive {
		deleted = c.orders.DeleteFromArchive(id)
	} else {
		deleted = c.orders.DeleteFromQueue(id)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"deleted": deleted}); err != nil {
		log.Printf("❌ DeleteOrder: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// Reload handles POST /api/reload
// Replaces both collections from the sync gateway. Transport failure is a
// soft error: the local view stays usable, so the response is still 200.
func (c *OrderController) Reload(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Reload: Received %s request to %s", r.Method, r.URL.Path)

	synced := true
	if err := c.orders.Reload(r.Context()); err != nil {
		synced = false
	}

	response := struct {
		Synced  bool           `json:"synced"`
		Queue   []models.Order `json:"queue"`
		Archive []models.Order `json:"archive"`
	}{
		Synced:  synced,
		Queue:   c.orders.Queue(),
		Archive: c.orders.Archive(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ Reload: Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// orderIDFromPath extracts the order id from /api/orders/{id}{suffix} paths.
func orderIDFromPath(w http.ResponseWriter, path, suffix string) (string, bool) {
	trimmed := strings.TrimPrefix(path, "/api/orders/")
	id := strings.TrimSuffix(trimmed, suffix)
	if id == trimmed || id == "" || strings.Contains(id, "/") {
		http.Error(w, "order id parameter is required", http.StatusBadRequest)
		return "", false
	}
	return id, true
}
