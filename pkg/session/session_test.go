package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	bterrors "github.com/matzehuels/bubblerow/pkg/errors"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestStore(limit int) (*MemoryStore, *clock) {
	c := &clock{now: t0}
	s := NewMemoryStore(limit)
	s.now = c.Now
	return s, c
}

func TestNewSession(t *testing.T) {
	tr := scroll.NewTracker(scroll.Config{Spacing: 10}, 3)
	a := newAt(nil, tr, time.Minute, t0)
	b := newAt(nil, tr, 0, t0)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs %q and %q must be distinct and non-empty", a.ID, b.ID)
	}
	if !a.ExpiresAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v", a.ExpiresAt)
	}
	if !b.ExpiresAt.Equal(t0.Add(DefaultTTL)) {
		t.Errorf("zero ttl should use DefaultTTL, got %v", b.ExpiresAt.Sub(t0))
	}
	if a.IsExpired(t0.Add(time.Minute)) || !a.IsExpired(t0.Add(time.Minute+time.Nanosecond)) {
		t.Error("IsExpired boundary wrong")
	}
}

func TestMemoryStoreGetTouches(t *testing.T) {
	ctx := context.Background()
	store, c := newTestStore(0)
	sess := newAt(nil, nil, time.Minute, t0)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatal(err)
	}

	c.Advance(50 * time.Second)
	if _, err := store.Get(ctx, sess.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	c.Advance(50 * time.Second)
	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() after touch error = %v", err)
	}
	if got != sess {
		t.Error("Get returned a different session")
	}
}

func TestMemoryStoreNotFoundAndExpired(t *testing.T) {
	ctx := context.Background()
	store, c := newTestStore(0)

	_, err := store.Get(ctx, "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if bterrors.GetCode(err) != bterrors.ErrCodeSessionNotFound {
		t.Errorf("code = %q", bterrors.GetCode(err))
	}

	sess := newAt(nil, nil, time.Minute, t0)
	store.Set(ctx, sess)
	c.Advance(2 * time.Minute)
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get(expired) error = %v, want ErrExpired", err)
	}
	if store.Len() != 0 {
		t.Errorf("expired session should be dropped on Get, Len() = %d", store.Len())
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store, c := newTestStore(0)

	short := newAt(nil, nil, time.Minute, t0)
	long := newAt(nil, nil, time.Hour, t0)
	store.Set(ctx, short)
	store.Set(ctx, long)

	c.Advance(10 * time.Minute)
	expired, err := store.Cleanup(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0] != short.ID {
		t.Errorf("Cleanup() = %v, want [%s]", expired, short.ID)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}

	if err := store.Delete(ctx, long.ID); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, long.ID); err != nil {
		t.Errorf("deleting twice should succeed, got %v", err)
	}
}

func TestMemoryStoreCapacity(t *testing.T) {
	ctx := context.Background()
	store, c := newTestStore(2)

	a := newAt(nil, nil, time.Minute, t0)
	b := newAt(nil, nil, time.Hour, t0)
	store.Set(ctx, a)
	store.Set(ctx, b)

	if err := store.Set(ctx, newAt(nil, nil, time.Hour, t0)); !errors.Is(err, ErrFull) {
		t.Errorf("Set() on full store error = %v, want ErrFull", err)
	}
	if err := store.Set(ctx, b); err != nil {
		t.Errorf("replacing an existing session should not count, got %v", err)
	}

	c.Advance(2 * time.Minute)
	if err := store.Set(ctx, newAt(nil, nil, time.Hour, c.now)); err != nil {
		t.Errorf("Set() should evict expired sessions first, got %v", err)
	}
}

func TestResumeFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewResumeFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path() != filepath.Join(dir, "resume.json") {
		t.Errorf("Path() = %q", f.Path())
	}
	if _, ok := f.Load(); ok {
		t.Error("Load() on missing file should report nothing saved")
	}

	id := 7
	if err := f.Save(Resume{CenteredID: &id, DataPath: "companies.json"}); err != nil {
		t.Fatal(err)
	}
	got, ok := f.Load()
	if !ok {
		t.Fatal("Load() after Save reported nothing saved")
	}
	if got.DataPath != "companies.json" || got.CenteredID == nil || *got.CenteredID != 7 {
		t.Errorf("Load() = %+v", got)
	}
	if got.SavedAt.IsZero() {
		t.Error("SavedAt not stamped")
	}

	if err := f.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := f.Clear(); err != nil {
		t.Errorf("Clear() twice error = %v", err)
	}
	if _, ok := f.Load(); ok {
		t.Error("Load() after Clear should report nothing saved")
	}
}
