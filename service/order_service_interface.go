package service

import (
	"context"

	"commission-manager/models"
)

// OrderServiceInterface defines the contract for order lifecycle operations.
type OrderServiceInterface interface {
	// Checkout validates a draft and turns it into an order at the front of
	// the queue, freezing its total price. Validation failure mutates nothing.
	Checkout(req *models.CheckoutRequest) (*models.Order, error)
	Queue() []models.Order
	Archive() []models.Order
	// GetOrder looks an order up in the queue, or in the archive when
	// fromArchive is set.
	GetOrder(id string, fromArchive bool) (*models.Order, error)
	// SetStatus and SetDeadline are silent no-ops when the id is absent from
	// the queue: a concurrent reload can legitimately remove an order out from
	// under a pending action. The bool reports whether an order was updated.
	SetStatus(id string, status models.Status) (*models.Order, bool)
	SetDeadline(id string, deadline string) (*models.Order, bool)
	// MoveToArchive transfers a queued order to the archive, forcing its
	// status to finished regardless of the current value.
	MoveToArchive(id string) (*models.Order, error)
	DeleteFromQueue(id string) bool
	DeleteFromArchive(id string) bool
	// Reload replaces both collections from the sync gateway snapshot. On
	// transport failure the in-memory collections are kept unchanged.
	Reload(ctx context.Context) error
	MonthlyRevenue() []models.MonthlyRevenue
	// Flush waits for in-flight sync dispatches; used on shutdown and in tests.
	Flush()
}
