package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"commission-manager/gateway"
	"commission-manager/models"
	"commission-manager/pricing"
)

// OrderService owns the in-memory queue and archive collections and mirrors
// every mutation to the sync gateway. Local state is the source of truth until
// the next successful reload; writes to the gateway are fire-and-forget.
type OrderService struct {
	mu      sync.Mutex
	queue   []models.Order
	archive []models.Order

	gateway gateway.Gateway
	wg      sync.WaitGroup
	now     func() time.Time
}

// NewOrderService creates an order service backed by the given gateway.
func NewOrderService(gw gateway.Gateway) *OrderService {
	return &OrderService{
		gateway: gw,
		now:     time.Now,
	}
}

// Ensure OrderService implements OrderServiceInterface
var _ OrderServiceInterface = (*OrderService)(nil)

// Checkout validates the draft, freezes the total via the pricing engine and
// inserts the new order at the front of the queue.
func (s *OrderService) Checkout(req *models.CheckoutRequest) (*models.Order, error) {
	if err := validateCheckout(req); err != nil {
		log.Printf("❌ Checkout: rejected draft for %q: %v", req.ClientName, err)
		return nil, err
	}

	contactType := req.ContactType
	if contactType == "" {
		contactType = models.ContactFacebook
	}

	order := models.Order{
		ID:            uuid.NewString(),
		ClientName:    req.ClientName,
		ClientContact: req.ClientContact,
		ContactType:   contactType,
		Items:         cloneItems(req.Items),
		Multiplier:    req.Multiplier,
		AddOns:        req.AddOns,
		TotalPrice:    pricing.OrderTotal(req.Items, req.Multiplier, req.AddOns),
		Date:          models.NewDate(s.now()),
		Deadline:      req.Deadline,
		Status:        models.StatusAwaitingDeposit,
	}

	s.mu.Lock()
	s.queue = append([]models.Order{order}, s.queue...)
	s.mu.Unlock()

	s.dispatch(gateway.Mutation{Action: gateway.ActionCreate, Order: &order})

	log.Printf("✅ Checkout: created order %s for %q, total=%.2f", order.ID, order.ClientName, order.TotalPrice)
	return &order, nil
}

func validateCheckout(req *models.CheckoutRequest) error {
	if req.ClientName == "" {
		return fmt.Errorf("%w: client name is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	if !pricing.ValidMultiplier(req.Multiplier) {
		return fmt.Errorf("%w: multiplier must be one of %v", ErrValidation, pricing.Multipliers)
	}
	if req.ContactType != "" && !req.ContactType.Valid() {
		return fmt.Errorf("%w: unknown contact channel %q", ErrValidation, req.ContactType)
	}
	for _, item := range req.Items {
		// Custom-priced entries carry no base price; the per-order price must
		// be filled in before checkout.
		if item.BasePrice <= 0 && item.CustomPrice == nil {
			return fmt.Errorf("%w: item %q requires a custom price", ErrValidation, item.Name)
		}
	}
	if req.AddOns.PropSmall < 0 || req.AddOns.PropLarge < 0 || req.AddOns.CustomDesignPrice < 0 {
		return fmt.Errorf("%w: add-ons cannot be negative", ErrValidation)
	}
	return nil
}

func cloneItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].CustomPrice != nil {
			price := *out[i].CustomPrice
			out[i].CustomPrice = &price
		}
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

// Queue returns a copy of the active orders, newest first.
func (s *OrderService) Queue() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.queue))
	copy(out, s.queue)
	return out
}

// Archive returns a copy of the archived orders, newest first.
func (s *OrderService) Archive() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.archive))
	copy(out, s.archive)
	return out
}

// GetOrder looks an order up by id in the queue, or in the archive when
// fromArchive is set.
func (s *OrderService) GetOrder(id string, fromArchive bool) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.queue
	if fromArchive {
		collection = s.archive
	}
	for i := range collection {
		if collection[i].ID == id {
			order := collection[i]
			return &order, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// SetStatus replaces the status of a queued order. Any status value is
// accepted, including moving backward; mis-set stages are corrected this way.
func (s *OrderService) SetStatus(id string, status models.Status) (*models.Order, bool) {
	s.mu.Lock()
	var updated *models.Order
	for i := range s.queue {
		if s.queue[i].ID == id {
			s.queue[i].Status = status
			order := s.queue[i]
			updated = &order
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		log.Printf("⏭️  SetStatus: order %s not in queue, ignoring", id)
		return nil, false
	}

	s.dispatch(gateway.Mutation{Action: gateway.ActionUpdate, Order: updated})
	log.Printf("✅ SetStatus: order %s -> %s", id, status)
	return updated, true
}

// SetDeadline replaces the deadline of a queued order.
func (s *OrderService) SetDeadline(id string, deadline string) (*models.Order, bool) {
	s.mu.Lock()
	var updated *models.Order
	for i := range s.queue {
		if s.queue[i].ID == id {
			s.queue[i].Deadline = deadline
			order := s.queue[i]
			updated = &order
			break
		}
	}
	s.mu.Unlock()

	if updated == nil {
		log.Printf("⏭️  SetDeadline: order %s not in queue, ignoring", id)
		return nil, false
	}

	s.dispatch(gateway.Mutation{Action: gateway.ActionUpdate, Order: updated})
	log.Printf("✅ SetDeadline: order %s -> %q", id, deadline)
	return updated, true
}

// MoveToArchive transfers a queued order into the archive, forcing the
// terminal status regardless of the current value. The transfer is atomic
// from the caller's perspective even though the remote store catches up
// asynchronously.
func (s *OrderService) MoveToArchive(id string) (*models.Order, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.queue {
		if s.queue[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	order := s.queue[idx]
	order.Status = models.StatusFinished
	s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
	s.archive = append([]models.Order{order}, s.archive...)
	s.mu.Unlock()

	s.dispatch(gateway.Mutation{Action: gateway.ActionArchive, ID: order.ID, Order: &order})

	log.Printf("✅ MoveToArchive: order %s archived", id)
	return &order, nil
}

// DeleteFromQueue removes an order from the queue. The caller is trusted to
// have obtained user confirmation already.
func (s *OrderService) DeleteFromQueue(id string) bool {
	if !s.remove(&s.queue, id) {
		log.Printf("⏭️  DeleteFromQueue: order %s not in queue, ignoring", id)
		return false
	}
	s.dispatch(gateway.Mutation{Action: gateway.ActionDeleteQueue, ID: id})
	log.Printf("🗑️  DeleteFromQueue: order %s deleted", id)
	return true
}

// DeleteFromArchive removes an order from the archive.
func (s *OrderService) DeleteFromArchive(id string) bool {
	if !s.remove(&s.archive, id) {
		log.Printf("⏭️  DeleteFromArchive: order %s not in archive, ignoring", id)
		return false
	}
	s.dispatch(gateway.Mutation{Action: gateway.ActionDeleteArchive, ID: id})
	log.Printf("🗑️  DeleteFromArchive: order %s deleted", id)
	return true
}

func (s *OrderService) remove(collection *[]models.Order, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range *collection {
		if (*collection)[i].ID == id {
			*collection = append((*collection)[:i], (*collection)[i+1:]...)
			return true
		}
	}
	return false
}

// Reload replaces both collections from the gateway snapshot. A collection
// the snapshot does not carry stays untouched; a transport failure keeps all
// local state and is surfaced as a soft error.
func (s *OrderService) Reload(ctx context.Context) error {
	snap, err := s.gateway.Snapshot(ctx)
	if err != nil {
		log.Printf("⚠️  Reload: snapshot fetch failed, keeping local state: %v", err)
		return fmt.Errorf("failed to reload from sync gateway: %w", err)
	}

	s.mu.Lock()
	if snap.QueueSet {
		s.queue = snap.Queue
	}
	if snap.ArchiveSet {
		s.archive = snap.Archive
	}
	queueLen, archiveLen := len(s.queue), len(s.archive)
	s.mu.Unlock()

	log.Printf("🔄 Reload: queue=%d archive=%d", queueLen, archiveLen)
	return nil
}

// MonthlyRevenue aggregates the archive into monthly buckets.
func (s *OrderService) MonthlyRevenue() []models.MonthlyRevenue {
	return MonthlyRevenueOf(s.Archive())
}

// dispatch mirrors a mutation to the gateway without awaiting it. Errors are
// logged only; local state has already moved on.
func (s *OrderService) dispatch(m gateway.Mutation) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.gateway.Dispatch(context.Background(), m); err != nil {
			log.Printf("⚠️  Sync: %s dispatch failed (local state kept): %v", m.Action, err)
		}
	}()
}

// Flush waits for all in-flight dispatches to complete.
func (s *OrderService) Flush() {
	s.wg.Wait()
}
