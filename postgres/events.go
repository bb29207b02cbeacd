package postgres

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goIdentity/outbox"
	"github.com/MrEthical07/goIdentity/user"
)

// EventRepository is the outbox.Store over the events table.
type EventRepository struct {
	db DBTX
}

func NewEventRepository(db DBTX) *EventRepository {
	return &EventRepository{db: db}
}

// List returns up to limit events, oldest first.
func (r *EventRepository) List(ctx context.Context, limit int) ([]outbox.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, checksum, kind, payload, created_at FROM events
		 ORDER BY id
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []outbox.Record
	for rows.Next() {
		var (
			rec     outbox.Record
			kind    string
			payload []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Checksum, &kind, &payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.Kind = user.EventKind(kind)
		rec.Payload = payload
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Delete acknowledges a published event. Deleting a missing id is not an
// error, so a retried publish stays idempotent.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
