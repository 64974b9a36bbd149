package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-manager/gateway"
	"commission-manager/models"
)

// fakeGateway records dispatched mutations and serves a canned snapshot.
type fakeGateway struct {
	mu        sync.Mutex
	mutations []gateway.Mutation

	snapshot    *gateway.Snapshot
	snapshotErr error
	dispatchErr error
}

var _ gateway.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) Snapshot(ctx context.Context) (*gateway.Snapshot, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	if f.snapshot != nil {
		return f.snapshot, nil
	}
	return &gateway.Snapshot{}, nil
}

func (f *fakeGateway) Dispatch(ctx context.Context, m gateway.Mutation) error {
	f.mu.Lock()
	f.mutations = append(f.mutations, m)
	f.mu.Unlock()
	return f.dispatchErr
}

func (f *fakeGateway) recorded() []gateway.Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]gateway.Mutation, len(f.mutations))
	copy(out, f.mutations)
	return out
}

func newTestService() (*OrderService, *fakeGateway) {
	gw := &fakeGateway{}
	s := NewOrderService(gw)
	s.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return s, gw
}

func validCheckout() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		ClientName:  "Mint",
		ContactType: models.ContactDiscord,
		Items: []models.LineItem{
			{Name: "Chibi", SubType: "Fullbody", BasePrice: 200},
		},
		Multiplier: 1,
	}
}

func TestCheckout(t *testing.T) {
	s, gw := newTestService()

	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "Mint", order.ClientName)
	assert.Equal(t, models.StatusAwaitingDeposit, order.Status)
	assert.Equal(t, 200.0, order.TotalPrice)
	assert.Equal(t, "31/8/2026", order.Date.String())

	queue := s.Queue()
	require.Len(t, queue, 1)
	assert.Equal(t, order.ID, queue[0].ID)

	s.Flush()
	muts := gw.recorded()
	require.Len(t, muts, 1)
	assert.Equal(t, gateway.ActionCreate, muts[0].Action)
	assert.Equal(t, order.ID, muts[0].Order.ID)
}

func TestCheckoutNewestFirst(t *testing.T) {
	s, _ := newTestService()

	first, err := s.Checkout(validCheckout())
	require.NoError(t, err)

	req := validCheckout()
	req.ClientName = "Fern"
	second, err := s.Checkout(req)
	require.NoError(t, err)

	queue := s.Queue()
	require.Len(t, queue, 2)
	assert.Equal(t, second.ID, queue[0].ID)
	assert.Equal(t, first.ID, queue[1].ID)
}

func TestCheckoutDefaultsContactType(t *testing.T) {
	s, _ := newTestService()

	req := validCheckout()
	req.ContactType = ""
	order, err := s.Checkout(req)
	require.NoError(t, err)
	assert.Equal(t, models.ContactFacebook, order.ContactType)
}

func TestCheckoutFreezesItems(t *testing.T) {
	s, _ := newTestService()

	price := 3500.0
	req := validCheckout()
	req.Items = []models.LineItem{{Name: "Video / PV", CustomPrice: &price}}

	order, err := s.Checkout(req)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, order.TotalPrice)
	assert.NotEmpty(t, order.Items[0].ID)

	// Mutating the caller's pointer must not reach the frozen order.
	price = 9999
	stored, err := s.GetOrder(order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3500.0, *stored.Items[0].CustomPrice)
}

func TestCheckoutValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CheckoutRequest)
	}{
		{"missing client name", func(r *models.CheckoutRequest) { r.ClientName = "" }},
		{"no items", func(r *models.CheckoutRequest) { r.Items = nil }},
		{"bad multiplier", func(r *models.CheckoutRequest) { r.Multiplier = 3 }},
		{"unknown contact channel", func(r *models.CheckoutRequest) { r.ContactType = "LINE" }},
		{"custom entry without price", func(r *models.CheckoutRequest) {
			r.Items = []models.LineItem{{Name: "Video / PV", BasePrice: 0}}
		}},
		{"negative add-ons", func(r *models.CheckoutRequest) { r.AddOns.PropSmall = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, gw := newTestService()
			req := validCheckout()
			tt.mutate(req)

			_, err := s.Checkout(req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			assert.Empty(t, s.Queue())
			s.Flush()
			assert.Empty(t, gw.recorded())
		})
	}
}

func TestSetStatus(t *testing.T) {
	s, gw := newTestService()
	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)

	updated, ok := s.SetStatus(order.ID, models.StatusLineart)
	require.True(t, ok)
	assert.Equal(t, models.StatusLineart, updated.Status)

	// Backward moves are allowed.
	updated, ok = s.SetStatus(order.ID, models.StatusBriefing)
	require.True(t, ok)
	assert.Equal(t, models.StatusBriefing, updated.Status)

	s.Flush()
	muts := gw.recorded()
	require.Len(t, muts, 3) // create + two updates
	assert.Equal(t, gateway.ActionUpdate, muts[1].Action)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	s, gw := newTestService()

	updated, ok := s.SetStatus("missing", models.StatusDraft)
	assert.False(t, ok)
	assert.Nil(t, updated)

	s.Flush()
	assert.Empty(t, gw.recorded())
}

func TestSetDeadline(t *testing.T) {
	s, _ := newTestService()
	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)

	updated, ok := s.SetDeadline(order.ID, "15/9/2026")
	require.True(t, ok)
	assert.Equal(t, "15/9/2026", updated.Deadline)

	_, ok = s.SetDeadline("missing", "15/9/2026")
	assert.False(t, ok)
}

func TestMoveToArchive(t *testing.T) {
	s, gw := newTestService()
	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)

	// Archiving forces the terminal status even when the order isn't there yet.
	archived, err := s.MoveToArchive(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, archived.Status)

	assert.Empty(t, s.Queue())
	archive := s.Archive()
	require.Len(t, archive, 1)
	assert.Equal(t, order.ID, archive[0].ID)

	s.Flush()
	muts := gw.recorded()
	require.Len(t, muts, 2)
	assert.Equal(t, gateway.ActionArchive, muts[1].Action)
	assert.Equal(t, order.ID, muts[1].ID)
	assert.Equal(t, models.StatusFinished, muts[1].Order.Status)
}

func TestMoveToArchiveUnknownOrder(t *testing.T) {
	s, _ := newTestService()
	_, err := s.MoveToArchive("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchivedOrdersAreFrozen(t *testing.T) {
	s, _ := newTestService()
	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)
	_, err = s.MoveToArchive(order.ID)
	require.NoError(t, err)

	// Status and deadline updates only look at the queue.
	_, ok := s.SetStatus(order.ID, models.StatusDraft)
	assert.False(t, ok)
	_, ok = s.SetDeadline(order.ID, "1/1/2027")
	assert.False(t, ok)

	stored, err := s.GetOrder(order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, stored.Status)
}

func TestDelete(t *testing.T) {
	s, gw := newTestService()
	queued, err := s.Checkout(validCheckout())
	require.NoError(t, err)
	archivedSrc, err := s.Checkout(validCheckout())
	require.NoError(t, err)
	_, err = s.MoveToArchive(archivedSrc.ID)
	require.NoError(t, err)

	assert.True(t, s.DeleteFromQueue(queued.ID))
	assert.False(t, s.DeleteFromQueue(queued.ID))
	assert.Empty(t, s.Queue())

	assert.True(t, s.DeleteFromArchive(archivedSrc.ID))
	assert.False(t, s.DeleteFromArchive(archivedSrc.ID))
	assert.Empty(t, s.Archive())

	s.Flush()
	var actions []gateway.Action
	for _, m := range gw.recorded() {
		actions = append(actions, m.Action)
	}
	assert.Contains(t, actions, gateway.ActionDeleteQueue)
	assert.Contains(t, actions, gateway.ActionDeleteArchive)
}

func TestGetOrder(t *testing.T) {
	s, _ := newTestService()
	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)

	found, err := s.GetOrder(order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Not in the archive.
	_, err = s.GetOrder(order.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetOrder("missing", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReload(t *testing.T) {
	remoteQueue := []models.Order{{ID: "r1", ClientName: "Remote", Status: models.StatusDraft}}
	remoteArchive := []models.Order{{ID: "r2", ClientName: "Done", Status: models.StatusFinished}}

	t.Run("full snapshot replaces both collections", func(t *testing.T) {
		s, gw := newTestService()
		_, err := s.Checkout(validCheckout())
		require.NoError(t, err)

		gw.snapshot = &gateway.Snapshot{
			Queue: remoteQueue, Archive: remoteArchive,
			QueueSet: true, ArchiveSet: true,
		}
		require.NoError(t, s.Reload(context.Background()))

		queue := s.Queue()
		require.Len(t, queue, 1)
		assert.Equal(t, "r1", queue[0].ID)
		archive := s.Archive()
		require.Len(t, archive, 1)
		assert.Equal(t, "r2", archive[0].ID)
	})

	t.Run("partial snapshot keeps the missing collection", func(t *testing.T) {
		s, gw := newTestService()
		local, err := s.Checkout(validCheckout())
		require.NoError(t, err)

		gw.snapshot = &gateway.Snapshot{Archive: remoteArchive, ArchiveSet: true}
		require.NoError(t, s.Reload(context.Background()))

		queue := s.Queue()
		require.Len(t, queue, 1)
		assert.Equal(t, local.ID, queue[0].ID)
		assert.Len(t, s.Archive(), 1)
	})

	t.Run("transport failure keeps local state", func(t *testing.T) {
		s, gw := newTestService()
		local, err := s.Checkout(validCheckout())
		require.NoError(t, err)

		gw.snapshotErr = fmt.Errorf("connection refused")
		err = s.Reload(context.Background())
		require.Error(t, err)

		queue := s.Queue()
		require.Len(t, queue, 1)
		assert.Equal(t, local.ID, queue[0].ID)
	})
}

func TestDispatchFailureKeepsLocalState(t *testing.T) {
	s, gw := newTestService()
	gw.dispatchErr = fmt.Errorf("boom")

	order, err := s.Checkout(validCheckout())
	require.NoError(t, err)
	s.Flush()

	queue := s.Queue()
	require.Len(t, queue, 1)
	assert.Equal(t, order.ID, queue[0].ID)
}
