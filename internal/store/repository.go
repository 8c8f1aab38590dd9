package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository bundles the per-entity stores over one database handle and
// runs the delete-cascade consumer.
type Repository struct {
	db     *gorm.DB
	events chan deleteEvent
	done   chan struct{}
}

// New builds a repository and starts its cascade consumer.
func New(db *gorm.DB) *Repository {
	r := &Repository{
		db:     db,
		events: make(chan deleteEvent, 64),
		done:   make(chan struct{}),
	}
	go r.consumeDeleteEvents()
	return r
}

// Close stops the cascade consumer after draining pending events.
func (r *Repository) Close() {
	close(r.events)
	<-r.done
}

// DB exposes the underlying handle for migrations and tests.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// TestCases returns the test case store.
func (r *Repository) TestCases() *TestCases {
	return &TestCases{repo: r}
}

// Actions returns the action store.
func (r *Repository) Actions() *Actions {
	return &Actions{repo: r}
}

// Parameters returns the parameter store.
func (r *Repository) Parameters() *Parameters {
	return &Parameters{repo: r}
}

// Assertions returns the assertion store.
func (r *Repository) Assertions() *Assertions {
	return &Assertions{repo: r}
}

// Runs returns the run store.
func (r *Repository) Runs() *Runs {
	return &Runs{repo: r}
}

// ActionExecutions returns the execution store.
func (r *Repository) ActionExecutions() *ActionExecutions {
	return &ActionExecutions{repo: r}
}

// AuthProviders returns the authentication provider store.
func (r *Repository) AuthProviders() *AuthProviders {
	return &AuthProviders{repo: r}
}

// emit queues a delete event without blocking the caller. The cascade
// consumer itself emits follow-up events, so a full buffer falls back to a
// detached send instead of blocking the consumer.
func (r *Repository) emit(event deleteEvent) {
	select {
	case r.events <- event:
	default:
		go func() { r.events <- event }()
	}
}

func (r *Repository) background() context.Context {
	return context.Background()
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
