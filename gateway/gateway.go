// Package gateway defines the contract for mirroring the order collections to
// a remote store, plus the available backends. Local state is the source of
// truth: writes are best-effort, unconfirmed dispatches and reads replace the
// local collections wholesale.
package gateway

import (
	"context"

	"commission-manager/models"
)

// Action tags a mutation dispatched to the remote store.
type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionArchive       Action = "archive"
	ActionDeleteQueue   Action = "delete_queue"
	ActionDeleteArchive Action = "delete_archive"
)

// Mutation is one write dispatched to the remote store. Create, update and
// archive carry the full order; the delete actions carry only the id.
type Mutation struct {
	Action Action        `json:"action"`
	ID     string        `json:"id,omitempty"`
	Order  *models.Order `json:"order,omitempty"`
}

// Snapshot is the remote store's current view of the collections. A backend
// that omits a collection leaves the corresponding Set flag false, and the
// caller keeps its local copy untouched.
type Snapshot struct {
	Queue      []models.Order
	Archive    []models.Order
	QueueSet   bool
	ArchiveSet bool
}

// Gateway is the contract for a remote order store.
type Gateway interface {
	// Snapshot fetches the remote store's current collections.
	Snapshot(ctx context.Context) (*Snapshot, error)
	// Dispatch sends one mutation. Callers treat it as fire-and-forget: a
	// returned error is logged, never retried, and never rolls back local
	// state.
	Dispatch(ctx context.Context, m Mutation) error
}

// Noop is the gateway used when no sync backend is configured; the dashboard
// then runs purely on in-memory state.
type Noop struct{}

var _ Gateway = (*Noop)(nil)

func (Noop) Snapshot(ctx context.Context) (*Snapshot, error) {
	return &Snapshot{}, nil
}

func (Noop) Dispatch(ctx context.Context, m Mutation) error {
	return nil
}
