// Package statelog records state machine transitions as explicit audit rows:
// every transition writes a (kind, object, from, to, actor, timestamp) record
// inside the same transaction that moves the state.
package statelog

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Record is one persisted transition.
type Record struct {
	bun.BaseModel `bun:"table:state_logs,alias:sl"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	ObjectKind string    `bun:"object_kind,notnull" json:"object_kind"`
	ObjectID   string    `bun:"object_id,notnull" json:"object_id"`
	FromState  string    `bun:"from_state,notnull" json:"from_state"`
	ToState    string    `bun:"to_state,notnull" json:"to_state"`
	Actor      string    `bun:"actor,nullzero" json:"actor"`
	At         time.Time `bun:"at,nullzero,notnull,default:current_timestamp" json:"at"`
}

// Recorder persists transition records.
type Recorder interface {
	Record(ctx context.Context, db bun.IDB, rec *Record) error
}

// DBRecorder writes records through bun.
type DBRecorder struct{}

func (DBRecorder) Record(ctx context.Context, db bun.IDB, rec *Record) error {
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(rec).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert state log for %s %s: %w", rec.ObjectKind, rec.ObjectID, err)
	}
	return nil
}

// NoOpRecorder discards records; used in tests.
type NoOpRecorder struct{}

func (NoOpRecorder) Record(context.Context, bun.IDB, *Record) error { return nil }
