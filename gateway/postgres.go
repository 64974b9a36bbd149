package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"commission-manager/models"
)

// PostgresGateway stores both collections in a single commission_orders table
// for self-hosted deployments. The position column preserves insertion order
// so snapshots come back newest-first like the in-memory collections.
type PostgresGateway struct {
	db *sql.DB
}

var _ Gateway = (*PostgresGateway)(nil)

// NewPostgresGateway creates a gateway on an open database handle.
func NewPostgresGateway(db *sql.DB) *PostgresGateway {
	return &PostgresGateway{db: db}
}

// Migrate creates the backing table if it does not exist.
func (g *PostgresGateway) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS commission_orders (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL CHECK (collection IN ('queue', 'archive')),
			payload JSONB NOT NULL,
			position BIGSERIAL
		)
	`
	if _, err := g.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create commission_orders table: %w", err)
	}
	return nil
}

// Snapshot reads both collections, newest-first.
func (g *PostgresGateway) Snapshot(ctx context.Context) (*Snapshot, error) {
	query := `
		SELECT collection, payload
		FROM commission_orders
		ORDER BY position DESC
	`
	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read commission orders: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{
		Queue:      []models.Order{},
		Archive:    []models.Order{},
		QueueSet:   true,
		ArchiveSet: true,
	}
	for rows.Next() {
		var collection string
		var payload []byte
		if err := rows.Scan(&collection, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan commission order row: %w", err)
		}

		var order models.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			log.Printf("⚠️  PostgresGateway: skipping unparsable order payload in %s: %v", collection, err)
			continue
		}

		switch collection {
		case "queue":
			snap.Queue = append(snap.Queue, order)
		case "archive":
			snap.Archive = append(snap.Archive, order)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commission order rows: %w", err)
	}
	return snap, nil
}

// Dispatch applies one mutation.
func (g *PostgresGateway) Dispatch(ctx context.Context, m Mutation) error {
	switch m.Action {
	case ActionCreate:
		return g.upsert(ctx, "queue", m.Order)
	case ActionUpdate:
		return g.update(ctx, "queue", m.Order)
	case ActionArchive:
		return g.moveToArchive(ctx, m.Order)
	case ActionDeleteQueue:
		return g.delete(ctx, "queue", m.ID)
	case ActionDeleteArchive:
		return g.delete(ctx, "archive", m.ID)
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
}

func encodeOrder(order *models.Order) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("mutation requires an order payload")
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order %s: %w", order.ID, err)
	}
	return payload, nil
}

func (g *PostgresGateway) upsert(ctx context.Context, collection string, order *models.Order) error {
	payload, err := encodeOrder(order)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO commission_orders (id, collection, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET collection = EXCLUDED.collection, payload = EXCLUDED.payload
	`
	if _, err := g.db.ExecContext(ctx, query, order.ID, collection, payload); err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", order.ID, err)
	}
	return nil
}

func (g *PostgresGateway) update(ctx context.Context, collection string, order *models.Order) error {
	payload, err := encodeOrder(order)
	if err != nil {
		return err
	}

	query := `
		UPDATE commission_orders
		SET payload = $1
		WHERE id = $2 AND collection = $3
	`
	result, err := g.db.ExecContext(ctx, query, payload, order.ID, collection)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", order.ID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		// Remote copy may lag behind local state; recreate the row.
		log.Printf("⚠️  PostgresGateway: order %s not found in %s, recreating", order.ID, collection)
		return g.upsert(ctx, collection, order)
	}
	return nil
}

// moveToArchive transfers a row to the archive collection, bumping its
// position so it shows up at the front of the archive view.
func (g *PostgresGateway) moveToArchive(ctx context.Context, order *models.Order) error {
	payload, err := encodeOrder(order)
	if err != nil {
		return err
	}

	query := `
		UPDATE commission_orders
		SET collection = 'archive',
		    payload = $1,
		    position = nextval(pg_get_serial_sequence('commission_orders', 'position'))
		WHERE id = $2
	`
	result, err := g.db.ExecContext(ctx, query, payload, order.ID)
	if err != nil {
		return fmt.Errorf("failed to archive order %s: %w", order.ID, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return g.upsert(ctx, "archive", order)
	}
	return nil
}

func (g *PostgresGateway) delete(ctx context.Context, collection string, id string) error {
	query := `
		DELETE FROM commission_orders
		WHERE id = $1 AND collection = $2
	`
	if _, err := g.db.ExecContext(ctx, query, id, collection); err != nil {
		return fmt.Errorf("failed to delete order %s from %s: %w", id, collection, err)
	}
	return nil
}
