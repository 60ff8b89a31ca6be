package tracker

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/dgraph-io/badger/v4"

    "github.com/park285/Cheese-board-tracker/internal/board"
)

func newBadgerStore(t *testing.T) *BadgerStore {
    t.Helper()
    store, err := NewBadgerStoreWithOptions(badger.DefaultOptions("").WithInMemory(true))
    if err != nil { t.Fatalf("NewBadgerStoreWithOptions: %v", err) }
    t.Cleanup(func() { _ = store.Close() })
    return store
}

func sampleSession(id string, moves ...string) *Session {
    now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
    return &Session{
        ID:          id,
        Orientation: "a1",
        Corners:     []board.Point{board.Pt(0, 0), board.Pt(100, 0)},
        Moves:       moves,
        StartedAt:   now,
        UpdatedAt:   now,
    }
}

func exerciseStore(t *testing.T, store SessionStore) {
    t.Helper()
    ctx := context.Background()

    missing, err := store.Load(ctx, "missing")
    if err != nil || missing != nil { t.Fatalf("Load missing: %+v %v", missing, err) }

    if err := store.Save(ctx, sampleSession("s1", "e2e4"), time.Hour); err != nil { t.Fatalf("Save: %v", err) }
    if err := store.Save(ctx, sampleSession("s1", "e2e4", "e7e5"), time.Hour); err != nil { t.Fatalf("Save advance: %v", err) }

    got, err := store.Load(ctx, "s1")
    if err != nil || got == nil { t.Fatalf("Load: %+v %v", got, err) }
    if len(got.Moves) != 2 || got.Orientation != "a1" || len(got.Corners) != 2 || !got.StartedAt.Equal(sampleSession("s1").StartedAt) {
        t.Fatalf("unexpected session: %+v", got)
    }

    if err := store.Save(ctx, sampleSession("s1", "e2e4"), time.Hour); !errors.Is(err, ErrStaleSession) {
        t.Fatalf("expected ErrStaleSession, got %v", err)
    }

    latest, err := store.Latest(ctx)
    if err != nil || latest != "s1" { t.Fatalf("Latest: %q %v", latest, err) }

    if err := store.Save(ctx, sampleSession("s2"), time.Hour); err != nil { t.Fatalf("Save s2: %v", err) }
    if err := store.Delete(ctx, "s1"); err != nil { t.Fatalf("Delete s1: %v", err) }
    if latest, _ := store.Latest(ctx); latest != "s2" { t.Fatalf("deleting another session cleared latest: %q", latest) }
    if err := store.Delete(ctx, "s2"); err != nil { t.Fatalf("Delete s2: %v", err) }
    if latest, _ := store.Latest(ctx); latest != "" { t.Fatalf("latest should be cleared, got %q", latest) }
}

func TestRedisStore(t *testing.T) {
    store, _ := newRedisStore(t)
    exerciseStore(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
    store, mr := newRedisStore(t)
    ctx := context.Background()
    if err := store.Save(ctx, sampleSession("s1"), time.Minute); err != nil { t.Fatalf("Save: %v", err) }
    mr.FastForward(2 * time.Minute)
    got, err := store.Load(ctx, "s1")
    if err != nil || got != nil { t.Fatalf("expected expired session, got %+v %v", got, err) }
}

func TestBadgerStore(t *testing.T) {
    exerciseStore(t, newBadgerStore(t))
}

func TestParseRedisURL(t *testing.T) {
    opts, err := ParseRedisURL("redis://:secret@localhost:6380/3")
    if err != nil { t.Fatalf("ParseRedisURL: %v", err) }
    if opts.Addr != "localhost:6380" || opts.Password != "secret" || opts.DB != 3 { t.Fatalf("unexpected options: %+v", opts) }
    if _, err := ParseRedisURL("http://localhost"); err == nil { t.Fatalf("expected scheme error") }
    if _, err := ParseRedisURL("redis://localhost/x"); err == nil { t.Fatalf("expected db error") }
}
