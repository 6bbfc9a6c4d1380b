// Package session keeps server-side scroll sessions.
//
// A scroll session pairs a computed layout with the [scroll.Tracker] that
// follows one client's scroll position. Clients post coordinates, wheel
// deltas and select commands; the server feeds them to the tracker and
// answers with frames. Sessions expire after a TTL of inactivity and are
// swept by [Store.Cleanup].
//
// # Usage
//
//	store := session.NewMemoryStore(1024)
//	sess := session.New(res, tracker, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err // ErrNotFound or ErrExpired
//	}
//	sess.Lock()
//	defer sess.Unlock()
//	ev := sess.Tracker.Observe(coord, time.Now())
//
// The package also holds [ResumeFile], which remembers where the terminal
// browser was left so the next run can start there.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/pipeline"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New(errors.ErrCodeSessionNotFound, "session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New(errors.ErrCodeSessionNotFound, "session expired")

	// ErrFull is returned by Set when the store is at capacity.
	ErrFull = errors.New(errors.ErrCodeUnsupported, "too many open sessions")
)

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = 30 * time.Minute

// Session is one client's scroll state. Result and Tracker are guarded by
// the session's own lock; handlers hold it for the whole request.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// Options reproduce Result on a metric change.
	Options pipeline.Options       `json:"-"`
	Result  *pipeline.LayoutResult `json:"-"`
	Tracker *scroll.Tracker        `json:"-"`
	// Viewport is the client's visible row width in scroll units, or 0.
	Viewport float64 `json:"viewport,omitempty"`

	ttl time.Duration
	mu  sync.Mutex
}

// New creates a session with a fresh random ID.
func New(res *pipeline.LayoutResult, tracker *scroll.Tracker, ttl time.Duration) *Session {
	return newAt(res, tracker, ttl, time.Now())
}

func newAt(res *pipeline.LayoutResult, tracker *scroll.Tracker, ttl time.Duration, now time.Time) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Result:    res,
		Tracker:   tracker,
		ttl:       ttl,
	}
}

// IsExpired reports whether the session had expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch pushes the expiry one TTL past now.
func (s *Session) Touch(now time.Time) {
	s.ExpiresAt = now.Add(s.ttl)
}

// Lock acquires the session for one request.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID and extends its lifetime.
	// Returns ErrNotFound or ErrExpired when it cannot be used.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns their IDs.
	Cleanup(ctx context.Context) ([]string, error)

	// Len returns the number of stored sessions, expired ones included.
	Len() int
}
