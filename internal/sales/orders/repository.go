package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PostgresStore archives snapshots in the order_snapshots table.
type PostgresStore struct {
	db dbtx
}

// NewPostgresStore constructs the archive store over a pool or transaction.
func NewPostgresStore(db dbtx) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("orders: encode snapshot: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO order_snapshots (order_id, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (order_id) DO UPDATE
		SET status = EXCLUDED.status, payload = EXCLUDED.payload, updated_at = NOW()`,
		snap.OrderID, string(snap.Status.State), payload, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("orders: upsert snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, orderID string) (Snapshot, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM order_snapshots WHERE order_id = $1`, orderID).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, fmt.Errorf("%w: order %s has no saved snapshot", shared.ErrNotFound, orderID)
		}
		return Snapshot{}, fmt.Errorf("orders: select snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("orders: decode snapshot: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Delete(ctx context.Context, orderID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM order_snapshots WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("orders: delete snapshot: %w", err)
	}
	return nil
}
