package detect

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type StreamState int

const (
	StreamDisconnected StreamState = iota
	StreamConnecting
	StreamConnected
	StreamReconnecting
	StreamFailed
)

func (s StreamState) String() string {
	switch s {
	case StreamConnecting:
		return "connecting"
	case StreamConnected:
		return "connected"
	case StreamReconnecting:
		return "reconnecting"
	case StreamFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// Stream receives detector frames over a WebSocket. It keeps only the most
// recent unread frame: a frame arriving before the previous one was read
// replaces it.
type Stream struct {
	wsURL  string
	logger *zap.Logger

	connM sync.Mutex
	conn  *websocket.Conn

	state   StreamState
	stateM  sync.RWMutex
	onState func(StreamState)

	latest  chan Frame
	dropped atomic.Uint64

	maxReconnectAttempts int
	pingInterval         time.Duration
	headerProvider       HeaderProvider

	stopCh   chan struct{}
	stopOnce sync.Once
	failedCh chan struct{}
	failOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

type StreamOption func(*Stream)

func WithStreamLogger(l *zap.Logger) StreamOption {
	return func(s *Stream) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithReconnect(maxAttempts int) StreamOption {
	return func(s *Stream) { s.maxReconnectAttempts = maxAttempts }
}

func WithPingInterval(d time.Duration) StreamOption {
	return func(s *Stream) { s.pingInterval = d }
}

func WithStreamHeaders(h HeaderProvider) StreamOption {
	return func(s *Stream) { s.headerProvider = h }
}

// WithStateCallback is invoked on every state transition.
func WithStateCallback(cb func(StreamState)) StreamOption {
	return func(s *Stream) { s.onState = cb }
}

func NewStream(wsURL string, opts ...StreamOption) *Stream {
	s := &Stream{
		wsURL:                wsURL,
		logger:               zap.NewNop(),
		state:                StreamDisconnected,
		latest:               make(chan Frame, 1),
		maxReconnectAttempts: 5,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
		failedCh:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Stream) Connect(ctx context.Context) error {
	if st := s.State(); st == StreamConnected || st == StreamConnecting {
		return nil
	}

	s.rootCtx, s.rootCancel = context.WithCancel(context.Background())
	s.setState(StreamConnecting)

	conn, err := s.dial(ctx)
	if err != nil {
		s.setState(StreamFailed)
		s.scheduleReconnect()
		return err
	}
	s.attach(conn)
	return nil
}

// Next returns the latest unread frame, blocking until one arrives. It
// returns ErrStreamFailed once reconnect attempts are exhausted and
// ErrStreamClosed after Close.
func (s *Stream) Next(ctx context.Context) (Frame, error) {
	select {
	case f := <-s.latest:
		return f, nil
	default:
	}
	select {
	case f := <-s.latest:
		return f, nil
	case <-s.stopCh:
		return Frame{}, ErrStreamClosed
	case <-s.failedCh:
		return Frame{}, ErrStreamFailed
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	}
}

// Dropped counts frames replaced before they were read.
func (s *Stream) Dropped() uint64 { return s.dropped.Load() }

func (s *Stream) State() StreamState {
	s.stateM.RLock()
	defer s.stateM.RUnlock()
	return s.state
}

func (s *Stream) offer(f Frame) {
	for {
		select {
		case s.latest <- f:
			return
		default:
		}
		select {
		case <-s.latest:
			s.dropped.Add(1)
		default:
		}
	}
}

func (s *Stream) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(dialCtx, s.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      s.buildHeaders(),
	})
	if err != nil {
		return nil, err
	}
	// Frames with many boxes exceed the 32KiB default.
	conn.SetReadLimit(1 << 20)
	return conn, nil
}

func (s *Stream) attach(conn *websocket.Conn) {
	s.connM.Lock()
	s.conn = conn
	s.connM.Unlock()
	s.setState(StreamConnected)

	s.wg.Add(2)
	go s.listen(conn)
	go s.pingLoop(conn)
}

func (s *Stream) listen(conn *websocket.Conn) {
	defer s.wg.Done()
	for {
		var f Frame
		if err := wsjson.Read(s.rootCtx, conn, &f); err != nil {
			if s.isStopping() {
				return
			}
			s.logger.Warn("detect_stream_read_failed", zap.Error(err))
			s.dropConn(conn, websocket.StatusGoingAway, "reconnect")
			return
		}
		s.offer(f)
	}
}

func (s *Stream) pingLoop(conn *websocket.Conn) {
	defer s.wg.Done()
	t := time.NewTicker(s.pingInterval)
	defer t.Stop()
	failures := 0
	for {
		select {
		case <-s.stopCh:
			return
		case <-s.rootCtx.Done():
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(s.rootCtx, 3*time.Second)
			err := conn.Ping(ctx)
			cancel()
			if err == nil {
				failures = 0
				continue
			}
			if s.current() != conn {
				return
			}
			failures++
			if failures >= 2 {
				s.logger.Warn("detect_stream_ping_failed", zap.Error(err))
				s.dropConn(conn, websocket.StatusGoingAway, "ping failure")
				return
			}
		}
	}
}

// dropConn closes conn once and schedules a reconnect if it was current.
func (s *Stream) dropConn(conn *websocket.Conn, code websocket.StatusCode, reason string) {
	s.connM.Lock()
	current := s.conn == conn
	if current {
		s.conn = nil
	}
	s.connM.Unlock()
	_ = conn.Close(code, reason)
	if current && !s.isStopping() {
		s.setState(StreamDisconnected)
		s.scheduleReconnect()
	}
}

func (s *Stream) current() *websocket.Conn {
	s.connM.Lock()
	defer s.connM.Unlock()
	return s.conn
}

func (s *Stream) scheduleReconnect() {
	if s.maxReconnectAttempts <= 0 {
		s.fail()
		return
	}
	s.setState(StreamReconnecting)

	go func() {
		for attempt := 1; attempt <= s.maxReconnectAttempts; attempt++ {
			select {
			case <-s.stopCh:
				return
			case <-time.After(backoffDuration(attempt)):
			}
			conn, err := s.dial(s.rootCtx)
			if err != nil {
				s.logger.Debug("detect_stream_reconnect_failed", zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			if s.isStopping() {
				_ = conn.Close(websocket.StatusNormalClosure, "close")
				return
			}
			s.attach(conn)
			s.logger.Info("detect_stream_reconnected", zap.Int("attempt", attempt))
			return
		}
		s.logger.Warn("detect_stream_gave_up", zap.Int("attempts", s.maxReconnectAttempts))
		s.fail()
	}()
}

// fail marks the stream as permanently down and wakes blocked readers.
func (s *Stream) fail() {
	if s.isStopping() {
		return
	}
	s.setState(StreamFailed)
	s.failOnce.Do(func() { close(s.failedCh) })
}

func (s *Stream) setState(state StreamState) {
	s.stateM.Lock()
	s.state = state
	s.stateM.Unlock()
	if s.onState != nil {
		s.onState(state)
	}
}

func (s *Stream) Close(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if conn := s.current(); conn != nil {
		s.connM.Lock()
		s.conn = nil
		s.connM.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "close")
	}
	if s.rootCancel != nil {
		s.rootCancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		s.setState(StreamDisconnected)
		return nil
	}
}

func (s *Stream) isStopping() bool {
	select {
	case <-s.stopCh:
		return true
	default:
		return false
	}
}

func (s *Stream) buildHeaders() http.Header {
	hdr := http.Header{}
	if s.headerProvider == nil {
		return hdr
	}
	for k, v := range s.headerProvider() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}
