package detect

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "nhooyr.io/websocket"
    "nhooyr.io/websocket/wsjson"
)

func TestStreamKeepsOnlyLatestFrame(t *testing.T) {
    s := NewStream("ws://unused")
    s.offer(Frame{Seq: 1})
    s.offer(Frame{Seq: 2})
    s.offer(Frame{Seq: 3})

    ctx, cancel := context.WithTimeout(context.Background(), time.Second)
    defer cancel()
    f, err := s.Next(ctx)
    if err != nil || f.Seq != 3 { t.Fatalf("Next = %d, %v", f.Seq, err) }
    if s.Dropped() != 2 { t.Fatalf("dropped %d, want 2", s.Dropped()) }

    if _, err := s.Next(ctx); !errors.Is(err, context.DeadlineExceeded) { t.Fatalf("expected deadline with empty slot, got %v", err) }
}

func TestStreamReceivesFramesOverWebSocket(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        c, err := websocket.Accept(w, r, nil)
        if err != nil { return }
        defer c.Close(websocket.StatusNormalClosure, "")
        ctx := c.CloseRead(r.Context())
        for seq := uint64(1); seq <= 3; seq++ {
            if err := wsjson.Write(ctx, c, Frame{Seq: seq, Boxes: []Box{{Label: "white-king", Confidence: 0.9}}}); err != nil { return }
        }
        <-ctx.Done()
    }))
    defer srv.Close()

    var states []StreamState
    s := NewStream("ws"+strings.TrimPrefix(srv.URL, "http"), WithReconnect(0), WithStateCallback(func(st StreamState) { states = append(states, st) }))
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := s.Connect(ctx); err != nil { t.Fatalf("Connect: %v", err) }
    if s.State() != StreamConnected { t.Fatalf("state %s", s.State()) }

    var last uint64
    for last < 3 {
        f, err := s.Next(ctx)
        if err != nil { t.Fatalf("Next: %v", err) }
        if f.Seq <= last { t.Fatalf("frames out of order: %d after %d", f.Seq, last) }
        last = f.Seq
    }

    if err := s.Close(ctx); err != nil { t.Fatalf("Close: %v", err) }
    if _, err := s.Next(ctx); !errors.Is(err, ErrStreamClosed) { t.Fatalf("expected ErrStreamClosed, got %v", err) }
    if len(states) < 2 || states[0] != StreamConnecting || states[1] != StreamConnected { t.Fatalf("unexpected state sequence %v", states) }
}

func TestStreamNextFailsOnceReconnectsAreExhausted(t *testing.T) {
    s := NewStream("ws://127.0.0.1:1/frames", WithReconnect(1))
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    t.Cleanup(func() { _ = s.Close(context.Background()) })

    if err := s.Connect(ctx); err == nil { t.Fatalf("expected dial error against closed port") }

    start := time.Now()
    if _, err := s.Next(ctx); !errors.Is(err, ErrStreamFailed) { t.Fatalf("expected ErrStreamFailed, got %v", err) }
    if time.Since(start) >= 5*time.Second { t.Fatalf("Next returned only at the context deadline") }
    if s.State() != StreamFailed { t.Fatalf("state %s, want %s", s.State(), StreamFailed) }
}

func TestStreamWithoutReconnectFailsWhenServerDrops(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        c, err := websocket.Accept(w, r, nil)
        if err != nil { return }
        _ = wsjson.Write(r.Context(), c, Frame{Seq: 1})
        _ = c.Close(websocket.StatusGoingAway, "restart")
    }))
    defer srv.Close()

    s := NewStream("ws"+strings.TrimPrefix(srv.URL, "http"), WithReconnect(0))
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    t.Cleanup(func() { _ = s.Close(context.Background()) })
    if err := s.Connect(ctx); err != nil { t.Fatalf("Connect: %v", err) }

    for {
        _, err := s.Next(ctx)
        if err == nil { continue }
        if !errors.Is(err, ErrStreamFailed) { t.Fatalf("expected ErrStreamFailed, got %v", err) }
        break
    }
}
