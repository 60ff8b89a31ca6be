package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/Cheese-board-tracker/internal/board"
	"github.com/park285/Cheese-board-tracker/internal/detect"
	"github.com/park285/Cheese-board-tracker/internal/domain"
	"github.com/park285/Cheese-board-tracker/internal/render"
	"github.com/park285/Cheese-board-tracker/pkg/trackerdto"
)

type Config struct {
	StableFrames    int
	SessionTTL      time.Duration
	GameDir         string
	SaveBoardImages bool
}

// Tracker owns the board State and the rules-engine game for one physical
// board. Calls are serialized.
type Tracker struct {
	mu sync.Mutex

	corners  []board.Point
	store    SessionStore
	repo     Repository
	renderer render.BoardRenderer
	cfg      Config
	logger   *zap.Logger

	override *[2]board.Color

	state   *board.State
	game    *nchess.Game
	session *Session
	gate    *stabilityGate

	now func() time.Time
}

// New builds a tracker for a calibrated board. store, repo and renderer may
// be nil; the matching side effects are then skipped.
func New(corners []board.Point, store SessionStore, repo Repository, renderer render.BoardRenderer, cfg Config, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.StableFrames < 1 {
		cfg.StableFrames = 1
	}
	return &Tracker{
		corners:  append([]board.Point(nil), corners...),
		store:    store,
		repo:     repo,
		renderer: renderer,
		cfg:      cfg,
		logger:   logger,
		gate:     newStabilityGate(cfg.StableFrames),
		now:      time.Now,
	}
}

// SetBoundaryOverride fixes the boundary colors instead of reading them
// from the first frame.
func (t *Tracker) SetBoundaryOverride(left, right board.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.override = &[2]board.Color{left, right}
}

func (t *Tracker) Initialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != nil
}

// SetupReady reports whether detections show every piece on its starting
// square.
func (t *Tracker) SetupReady(detections []board.Detection) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	state, err := t.startingState(detections)
	if err != nil {
		return false
	}
	return state.Classify(detections).Len() == 0
}

func (t *Tracker) startingState(detections []board.Detection) (*board.State, error) {
	var left, right board.Color
	if t.override != nil {
		left, right = t.override[0], t.override[1]
	} else {
		var err error
		left, right, err = detect.BoundaryColors(detections)
		if err != nil {
			return nil, fmt.Errorf("boundary colors: %w", err)
		}
	}
	return board.NewState(t.corners, left, right)
}

// Initialize sets up the board in the starting position, oriented by the
// boundary pieces of the first frame, and opens a new session.
func (t *Tracker) Initialize(ctx context.Context, detections []board.Detection) (*trackerdto.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != nil {
		return nil, ErrSessionInProgress
	}

	state, err := t.startingState(detections)
	if err != nil {
		return nil, err
	}
	if delta := state.Classify(detections); delta.Len() > 0 {
		t.logger.Warn("tracker_initial_mismatch",
			zap.Int("changed", delta.Len()),
			zap.String("orientation", state.Orientation().String()),
		)
	}

	now := t.now()
	sess := &Session{
		ID:          uuid.NewString(),
		Orientation: state.Orientation().String(),
		Corners:     append([]board.Point(nil), t.corners...),
		Moves:       []string{},
		StartedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.saveSession(ctx, sess); err != nil {
		return nil, err
	}

	t.state = state
	t.game = nchess.NewGame()
	t.session = sess
	t.gate.reset()

	t.logger.Info("tracker_initialized",
		zap.String("session", sess.ID),
		zap.String("orientation", sess.Orientation),
	)
	return t.snapshotLocked(), nil
}

// Process runs one frame through the engine. It returns nil, nil when the
// frame shows no change. On any error the board is left untouched.
func (t *Tracker) Process(ctx context.Context, detections []board.Detection) (*trackerdto.MoveOutcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return nil, ErrNotInitialized
	}
	if finished(t.game) {
		return nil, ErrGameFinished
	}

	delta := t.state.Classify(detections)
	if delta.Len() == 0 {
		t.gate.reset()
		return nil, nil
	}

	legal := legalMoves(t.game)
	res, err := t.state.Reconstruct(delta, detections, legal)
	if err != nil {
		t.gate.reset()
		level := t.logger.Debug
		if errors.Is(err, board.ErrInvalidBothEmpty) {
			level = t.logger.Warn
		}
		level("tracker_reconstruct_failed",
			zap.Int("changed", delta.Len()),
			zap.String("shape", board.ShapeOf(delta).String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("reconstruct: %w", err)
	}
	if !legal.Contains(res.Move) {
		t.gate.reset()
		t.logger.Debug("tracker_illegal_move", zap.String("move", res.Move), zap.String("shape", res.Shape.String()))
		return nil, fmt.Errorf("%w: %s", ErrIllegalMove, res.Move)
	}
	if !t.gate.observe(res) {
		return nil, fmt.Errorf("%w: %s (%d/%d)", ErrAwaitingStability, res.Move, t.gate.pending(), t.cfg.StableFrames)
	}

	next := t.game.Clone()
	san, err := pushUCI(next, res.Move)
	if err != nil {
		t.gate.reset()
		return nil, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	if err := t.state.Commit(res); err != nil {
		t.gate.reset()
		return nil, err
	}
	t.game = next
	t.gate.reset()

	resynced, err := t.resyncLocked()
	if err != nil {
		return nil, err
	}

	ply := len(t.game.Moves())
	t.session.Moves = append(t.session.Moves, res.Move)
	t.session.UpdatedAt = t.now()
	if err := t.saveSession(ctx, t.session); err != nil {
		t.logger.Warn("tracker_session_save_failed", zap.String("session", t.session.ID), zap.Error(err))
	}

	out := &trackerdto.MoveOutcome{
		UCI:      res.Move,
		SAN:      san,
		Ply:      ply,
		Shape:    res.Shape.String(),
		Resynced: resynced,
	}
	for _, c := range res.Discarded {
		out.Discarded = append(out.Discarded, c.String())
	}
	t.renderLocked(ctx, res, san, out)

	if finished(t.game) {
		out.Finished = true
		id, err := t.archiveLocked(ctx, resultFromOutcome(t.game.Outcome()), methodFromOutcome(t.game.Method()))
		if err != nil {
			t.logger.Error("tracker_archive_failed", zap.String("session", t.session.ID), zap.Error(err))
		}
		out.GameID = id
		t.deleteSession(ctx, t.session.ID)
	}

	eco, name := openingOf(t.game)
	t.logger.Info("tracker_move",
		zap.String("session", t.session.ID),
		zap.Int("ply", ply),
		zap.String("uci", res.Move),
		zap.String("san", san),
		zap.String("shape", res.Shape.String()),
		zap.Bool("resynced", resynced),
		zap.String("eco", eco),
		zap.String("opening", name),
	)
	out.State = t.snapshotLocked()
	return out, nil
}

// resyncLocked brings the board State to the rules engine's placement when
// the two diverge; the State does not model every side effect of a move.
func (t *Tracker) resyncLocked() (bool, error) {
	want := placementOf(t.game)
	if samePlacement(t.state.Placement(), want) {
		return false, nil
	}
	fix := t.state.Diff(want)
	if err := t.state.Commit(fix); err != nil {
		return false, err
	}
	t.logger.Warn("tracker_board_resync", zap.Int("squares", len(fix.Updates)))
	return true, nil
}

func samePlacement(a, b map[board.Coordinate]board.Piece) bool {
	if len(a) != len(b) {
		return false
	}
	for c, p := range a {
		if b[c] != p {
			return false
		}
	}
	return true
}

func (t *Tracker) renderLocked(ctx context.Context, res board.Result, san string, out *trackerdto.MoveOutcome) {
	if t.renderer == nil {
		return
	}
	opts := render.Options{Title: moveTitle(out.Ply, san)}
	from, okFrom := res.Origin()
	to, okTo := res.Destination()
	if okFrom && okTo {
		opts.Highlight = &render.Highlight{From: from, To: to}
	}
	png, err := t.renderer.RenderPNG(ctx, t.state.Placement(), opts)
	if err != nil {
		t.logger.Warn("tracker_render_failed", zap.Error(err))
		return
	}
	out.BoardImage = png
	if !t.cfg.SaveBoardImages || strings.TrimSpace(t.cfg.GameDir) == "" {
		return
	}
	path := boardImagePath(t.cfg.GameDir, t.session.StartedAt, out.Ply)
	if err := writeBoardImage(path, png); err != nil {
		t.logger.Warn("tracker_image_write_failed", zap.String("path", path), zap.Error(err))
		return
	}
	out.ImagePath = path
}

func moveTitle(ply int, san string) string {
	n := (ply + 1) / 2
	if ply%2 == 1 {
		return strconv.Itoa(n) + ". " + san
	}
	return strconv.Itoa(n) + "... " + san
}

func (t *Tracker) archiveLocked(ctx context.Context, result, method string) (int64, error) {
	if t.repo == nil {
		return 0, nil
	}
	now := t.now()
	eco, name := openingOf(t.game)
	rec := &domain.TrackedGame{
		SessionUUID:  t.session.ID,
		Orientation:  t.session.Orientation,
		Result:       result,
		ResultMethod: method,
		MovesUCI:     append([]string(nil), t.session.Moves...),
		MovesSAN:     sanMoves(t.game),
		OpeningECO:   eco,
		OpeningName:  name,
		StartedAt:    t.session.StartedAt,
		EndedAt:      now,
		Duration:     now.Sub(t.session.StartedAt),
	}
	if rec.Duration < 0 {
		rec.Duration = 0
	}
	rec.PGN = buildPGN(rec)
	id, err := t.repo.InsertGame(ctx, rec)
	if err != nil {
		return 0, err
	}
	t.logger.Info("tracker_game_archived",
		zap.Int64("id", id),
		zap.String("session", rec.SessionUUID),
		zap.String("result", result),
		zap.String("method", method),
		zap.Int("moves", len(rec.MovesUCI)),
	)
	return id, nil
}

// Resume restores a stored session by replaying its moves. id may be
// LatestSession.
func (t *Tracker) Resume(ctx context.Context, id string) (*trackerdto.Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != nil {
		return nil, ErrSessionInProgress
	}
	if t.store == nil {
		return nil, ErrSessionNotFound
	}
	id = strings.TrimSpace(id)
	if id == "" || id == LatestSession {
		latest, err := t.store.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("latest session: %w", err)
		}
		id = latest
	}
	if id == "" {
		return nil, ErrSessionNotFound
	}
	sess, err := t.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	game, err := replayMoves(sess.Moves)
	if err != nil {
		return nil, fmt.Errorf("replay session %s: %w", id, err)
	}
	start, err := board.ParseCoordinate(sess.Orientation)
	if err != nil {
		return nil, fmt.Errorf("session orientation: %w", err)
	}
	corners := sess.Corners
	if len(corners) == 0 {
		corners = t.corners
	}
	state, err := board.NewStateWithOrientation(corners, start)
	if err != nil {
		return nil, err
	}
	if err := state.Commit(state.Diff(placementOf(game))); err != nil {
		return nil, err
	}

	t.state = state
	t.game = game
	t.session = sess
	t.gate.reset()
	t.logger.Info("tracker_resumed", zap.String("session", sess.ID), zap.Int("moves", len(sess.Moves)))
	return t.snapshotLocked(), nil
}

// Reset closes the current session. An unfinished game with at least one
// move is archived with an open result.
func (t *Tracker) Reset(ctx context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == nil {
		return 0, nil
	}
	var (
		id  int64
		err error
	)
	if !finished(t.game) && len(t.game.Moves()) > 0 {
		id, err = t.archiveLocked(ctx, "unfinished", "reset")
		if errors.Is(err, ErrDuplicateGame) {
			err = nil
		}
	}
	t.deleteSession(ctx, t.session.ID)
	t.logger.Info("tracker_reset", zap.String("session", t.session.ID))
	t.state, t.game, t.session = nil, nil, nil
	t.gate.reset()
	return id, err
}

func (t *Tracker) Snapshot() *trackerdto.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() *trackerdto.Snapshot {
	if t.state == nil {
		return nil
	}
	eco, name := openingOf(t.game)
	snap := &trackerdto.Snapshot{
		SessionUUID: t.session.ID,
		Orientation: t.session.Orientation,
		FEN:         t.game.FEN(),
		MovesUCI:    append([]string(nil), t.session.Moves...),
		MovesSAN:    sanMoves(t.game),
		Turn:        turnOf(t.game),
		MoveCount:   len(t.session.Moves),
		Outcome:     string(t.game.Outcome()),
		OpeningECO:  eco,
		OpeningName: name,
		StartedAt:   t.session.StartedAt,
		UpdatedAt:   t.session.UpdatedAt,
	}
	if finished(t.game) {
		snap.OutcomeMeta = methodFromOutcome(t.game.Method())
	}
	return snap
}

func (t *Tracker) saveSession(ctx context.Context, sess *Session) error {
	if t.store == nil {
		return nil
	}
	return t.store.Save(ctx, sess, t.cfg.SessionTTL)
}

func (t *Tracker) deleteSession(ctx context.Context, id string) {
	if t.store == nil {
		return
	}
	if err := t.store.Delete(ctx, id); err != nil {
		t.logger.Warn("tracker_session_delete_failed", zap.String("session", id), zap.Error(err))
	}
}
