// Package events announces snapshot changes so readers know to reload.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collection names used in change events and routing keys.
const (
	CollectionAccounts          = "accounts"
	CollectionIncomeSources     = "income_sources"
	CollectionExpenseCategories = "expense_categories"
	CollectionTransactions      = "transactions"
)

// Op is the kind of write that produced a change.
type Op string

const (
	OpCreate  Op = "create"
	OpReplace Op = "replace"
	OpDelete  Op = "delete"
)

// Change describes one committed write.
type Change struct {
	Collection string    `json:"collection"`
	Op         Op        `json:"op"`
	ID         uuid.UUID `json:"id"`
	At         time.Time `json:"at"`
}

// NewChange stamps a change with the current time.
func NewChange(collection string, op Op, id uuid.UUID) Change {
	return Change{Collection: collection, Op: op, ID: id, At: time.Now().UTC()}
}

// RoutingKey is "<collection>.<op>".
func (c Change) RoutingKey() string { return c.Collection + "." + string(c.Op) }

func (c Change) ToJSON() ([]byte, error) { return json.Marshal(c) }

// Publisher delivers change events.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Notify publishes c and logs a failure instead of returning it; the write it
// describes has already been committed.
func Notify(ctx context.Context, p Publisher, c Change) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, c); err != nil {
		slog.WarnContext(ctx, "publish change failed", "routing_key", c.RoutingKey(), "id", c.ID.String(), "err", err)
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }

// Recorder keeps published events in memory, mostly for tests.
type Recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *Recorder) Publish(_ context.Context, c Change) error {
	r.mu.Lock()
	r.changes = append(r.changes, c)
	r.mu.Unlock()
	return nil
}

// Changes returns a copy of everything published so far.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}
