package board

import (
    "errors"
    "testing"
)

func reconstructFrame(t *testing.T, st *State, edits map[string]Piece, legal LegalMoves) (Result, error) {
    t.Helper()
    dets := frame(st, moved(st, edits))
    return st.Reconstruct(st.Classify(dets), dets, legal)
}

func change(sq string, kind ChangeKind, p Piece) Change {
    return Change{Coord: MustCoordinate(sq), Kind: kind, Piece: p}
}

func TestReconstructPawnPush(t *testing.T) {
    st := newTestState(t)
    res, err := reconstructFrame(t, st, map[string]Piece{"e2": Empty, "e4": WhitePawn}, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e2e4" || res.Shape != ShapeTwoMove { t.Fatalf("got %q shape %s", res.Move, res.Shape) }
    if res.Generation != st.Generation() { t.Fatalf("result generation %d, state %d", res.Generation, st.Generation()) }
    from, _ := res.Origin()
    to, _ := res.Destination()
    if from.String() != "e2" || to.String() != "e4" { t.Fatalf("origin/destination %s/%s", from, to) }
}

func TestReconstructCapture(t *testing.T) {
    st := newTestState(t)
    setup(t, st, map[string]Piece{"e1": WhiteKing, "e8": BlackKing, "e4": WhitePawn, "d5": BlackPawn})
    res, err := reconstructFrame(t, st, map[string]Piece{"d5": Empty, "e4": BlackPawn}, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "d5e4" { t.Fatalf("got %q", res.Move) }
    if res.Updates[1].From != WhitePawn || res.Updates[1].To != BlackPawn { t.Fatalf("capture update %+v", res.Updates[1]) }
}

func TestReconstructCastlesInAnyOrder(t *testing.T) {
    cases := []struct {
        name  string
        delta Delta
        move  string
        want  map[string]Piece
    }{
        {"white long", Delta{
            change("e1", OccupiedToEmpty, WhiteKing), change("a1", OccupiedToEmpty, WhiteRook),
            change("d1", EmptyToOccupied, Empty), change("c1", EmptyToOccupied, Empty),
        }, "e1c1", map[string]Piece{"a1": Empty, "b1": Empty, "c1": WhiteKing, "d1": WhiteRook, "e1": Empty}},
        {"white short", Delta{
            change("g1", EmptyToOccupied, Empty), change("h1", OccupiedToEmpty, WhiteRook),
            change("f1", EmptyToOccupied, Empty), change("e1", OccupiedToEmpty, WhiteKing),
        }, "e1g1", map[string]Piece{"e1": Empty, "f1": WhiteRook, "g1": WhiteKing, "h1": Empty}},
        {"black long", Delta{
            change("c8", EmptyToOccupied, Empty), change("a8", OccupiedToEmpty, BlackRook),
            change("e8", OccupiedToEmpty, BlackKing), change("d8", EmptyToOccupied, Empty),
        }, "e8c8", map[string]Piece{"a8": Empty, "b8": Empty, "c8": BlackKing, "d8": BlackRook, "e8": Empty}},
        {"black short", Delta{
            change("h8", OccupiedToEmpty, BlackRook), change("e8", OccupiedToEmpty, BlackKing),
            change("g8", EmptyToOccupied, Empty), change("f8", EmptyToOccupied, Empty),
        }, "e8g8", map[string]Piece{"e8": Empty, "f8": BlackRook, "g8": BlackKing, "h8": Empty}},
    }
    for _, tc := range cases {
        st := newTestState(t)
        setup(t, st, map[string]Piece{"e1": WhiteKing, "a1": WhiteRook, "h1": WhiteRook, "e8": BlackKing, "a8": BlackRook, "h8": BlackRook})
        res, err := st.Reconstruct(tc.delta, nil, nil)
        if err != nil { t.Fatalf("%s: Reconstruct: %v", tc.name, err) }
        if res.Move != tc.move || res.Shape != ShapeCastle { t.Fatalf("%s: got %q shape %s", tc.name, res.Move, res.Shape) }
        if err := st.Commit(res); err != nil { t.Fatalf("%s: Commit: %v", tc.name, err) }
        for sq, p := range tc.want {
            if got := st.Piece(MustCoordinate(sq)); got != p { t.Fatalf("%s: %s holds %s, want %s", tc.name, sq, got, p) }
        }
    }
}

func TestReconstructCastleFromFrame(t *testing.T) {
    st := newTestState(t)
    setup(t, st, map[string]Piece{"e1": WhiteKing, "h1": WhiteRook, "e8": BlackKing})
    res, err := reconstructFrame(t, st, map[string]Piece{"e1": Empty, "h1": Empty, "g1": WhiteKing, "f1": WhiteRook}, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e1g1" { t.Fatalf("got %q", res.Move) }
}

func TestReconstructCastleNeedsKingAndRook(t *testing.T) {
    st := newTestState(t)
    d := Delta{
        change("e1", OccupiedToEmpty, WhiteKing), change("d1", OccupiedToEmpty, WhiteQueen),
        change("c1", EmptyToOccupied, Empty), change("b1", EmptyToOccupied, Empty),
    }
    if _, err := st.Reconstruct(d, nil, nil); !errors.Is(err, ErrNoMoveDetected) {
        t.Fatalf("expected ErrNoMoveDetected, got %v", err)
    }
}

func TestReconstructEnPassant(t *testing.T) {
    st := newTestState(t)
    setup(t, st, map[string]Piece{"e1": WhiteKing, "e8": BlackKing, "e5": WhitePawn, "d5": BlackPawn})
    res, err := reconstructFrame(t, st, map[string]Piece{"e5": Empty, "d5": Empty, "d6": WhitePawn}, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e5d6" || res.Shape != ShapeEnPassant { t.Fatalf("got %q shape %s", res.Move, res.Shape) }
    if err := st.Commit(res); err != nil { t.Fatalf("Commit: %v", err) }
    if st.Piece(MustCoordinate("d6")) != WhitePawn || !st.Piece(MustCoordinate("d5")).IsEmpty() || !st.Piece(MustCoordinate("e5")).IsEmpty() {
        t.Fatalf("unexpected board after en passant: %v", st.Placement())
    }
    if st.Occupied() != 3 { t.Fatalf("occupied %d, want 3", st.Occupied()) }
}

func TestReconstructEnPassantWithoutPawnOrigin(t *testing.T) {
    st := newTestState(t)
    d := Delta{
        change("d5", OccupiedToEmpty, BlackPawn), change("c3", OccupiedToEmpty, WhiteKnight),
        change("d6", EmptyToOccupied, Empty),
    }
    if ShapeOf(d) != ShapeEnPassant { t.Fatalf("shape %s", ShapeOf(d)) }
    if _, err := st.Reconstruct(d, nil, nil); !errors.Is(err, ErrNoMoveDetected) {
        t.Fatalf("expected ErrNoMoveDetected, got %v", err)
    }
}

func TestReconstructEnPassantLeavesLegalityToCaller(t *testing.T) {
    st := newTestState(t)
    setup(t, st, map[string]Piece{"e1": WhiteKing, "e8": BlackKing, "a2": WhitePawn, "f2": WhitePawn})
    res, err := reconstructFrame(t, st, map[string]Piece{"a2": Empty, "f2": Empty, "f3": WhitePawn}, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "a2f3" || res.Shape != ShapeEnPassant { t.Fatalf("got %q shape %s", res.Move, res.Shape) }
}

func TestReconstructHeuristicDropsNoise(t *testing.T) {
    st := newTestState(t)
    legal := NewMoveSet("e2e4", "e2e3", "g1f3")
    res, err := reconstructFrame(t, st, map[string]Piece{"e2": Empty, "e4": WhitePawn, "a8": Empty}, legal)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e2e4" || res.Shape != ShapeHeuristicTwoMove { t.Fatalf("got %q shape %s", res.Move, res.Shape) }
    if len(res.Discarded) != 1 || res.Discarded[0].String() != "a8" { t.Fatalf("discarded %v", res.Discarded) }
    if err := st.Commit(res); err != nil { t.Fatalf("Commit: %v", err) }
    if st.Piece(MustCoordinate("a8")) != BlackRook { t.Fatalf("noise square must keep its piece") }
}

func TestReconstructHeuristicAmbiguous(t *testing.T) {
    st := newTestState(t)
    legal := NewMoveSet("e2e4", "a8e4")
    _, err := reconstructFrame(t, st, map[string]Piece{"e2": Empty, "e4": WhitePawn, "a8": Empty}, legal)
    if !errors.Is(err, ErrAmbiguousStartSquare) { t.Fatalf("expected ErrAmbiguousStartSquare, got %v", err) }
    var berr *Error
    if !errors.As(err, &berr) || !berr.Retryable() { t.Fatalf("ambiguous start square should be retryable: %v", err) }

    _, err = reconstructFrame(t, st, map[string]Piece{"e2": Empty, "e4": WhitePawn, "a8": Empty}, nil)
    if !errors.Is(err, ErrAmbiguousStartSquare) { t.Fatalf("nil legal set: expected ErrAmbiguousStartSquare, got %v", err) }
}

func TestReconstructHeuristicWithoutDestination(t *testing.T) {
    st := newTestState(t)
    d := Delta{
        change("a2", OccupiedToEmpty, WhitePawn), change("b2", OccupiedToEmpty, WhitePawn),
        change("c2", OccupiedToEmpty, WhitePawn),
    }
    if _, err := st.Reconstruct(d, nil, NewMoveSet("a2a3")); !errors.Is(err, ErrNoMoveDetected) {
        t.Fatalf("expected ErrNoMoveDetected, got %v", err)
    }
}

func TestLegalPairAcceptsPromotionSuffix(t *testing.T) {
    legal := NewMoveSet("e7e8q", "e7e8r", "e7e8b", "e7e8n")
    if !legalPair(legal, MustCoordinate("e7"), MustCoordinate("e8")) { t.Fatalf("e7e8 should match a promotion move") }
    if legalPair(legal, MustCoordinate("d7"), MustCoordinate("e8")) { t.Fatalf("d7e8 is not legal") }
}

func TestReconstructTwoMoveErrors(t *testing.T) {
    st := newTestState(t)
    _, err := st.Reconstruct(Delta{change("e4", EmptyToOccupied, Empty), change("e5", EmptyToOccupied, Empty)}, nil, nil)
    if !errors.Is(err, ErrInvalidBothEmpty) { t.Fatalf("expected ErrInvalidBothEmpty, got %v", err) }
    var berr *Error
    if !errors.As(err, &berr) || berr.Retryable() { t.Fatalf("InvalidBothEmpty must not be retryable") }

    _, err = st.Reconstruct(Delta{change("e2", OccupiedToEmpty, WhitePawn), change("d2", OccupiedToEmpty, WhitePawn)}, nil, nil)
    if !errors.Is(err, ErrNoMoveDetected) { t.Fatalf("two vacated squares: expected ErrNoMoveDetected, got %v", err) }
}

func TestReconstructOtherCountsFail(t *testing.T) {
    st := newTestState(t)
    for _, edits := range []map[string]Piece{
        {"e2": Empty},
        {"a2": Empty, "b2": Empty, "c2": Empty, "d2": Empty, "e2": Empty},
    } {
        _, err := reconstructFrame(t, st, edits, nil)
        var berr *Error
        if !errors.As(err, &berr) || berr.Kind != NoMoveDetected || berr.Changed != len(edits) {
            t.Fatalf("%d changes: expected NoMoveDetected, got %v", len(edits), err)
        }
    }
}

func TestReconstructPromotion(t *testing.T) {
    pieces := map[string]Piece{"e7": WhitePawn, "g1": WhiteKing, "a8": BlackKing}

    st := newTestState(t)
    setup(t, st, pieces)
    res, err := reconstructFrame(t, st, map[string]Piece{"e7": Empty, "e8": WhiteQueen}, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e7e8q" || res.Promotion != Queen { t.Fatalf("got %q promotion %s", res.Move, res.Promotion) }
    if err := st.Commit(res); err != nil { t.Fatalf("Commit: %v", err) }
    if st.Piece(MustCoordinate("e8")) != WhiteQueen { t.Fatalf("e8 holds %s", st.Piece(MustCoordinate("e8"))) }
}

func TestReconstructPromotionPicksMostConfident(t *testing.T) {
    st := newTestState(t)
    setup(t, st, map[string]Piece{"e7": WhitePawn, "g1": WhiteKing, "a8": BlackKing})
    e8 := st.Square(MustCoordinate("e8")).Quad.Center()
    dets := []Detection{
        {Point: st.Square(MustCoordinate("g1")).Quad.Center(), Label: "white-king", Confidence: 0.9},
        {Point: st.Square(MustCoordinate("a8")).Quad.Center(), Label: "black-king", Confidence: 0.9},
        {Point: e8, Label: "white-pawn", Confidence: 0.99},
        {Point: e8, Label: "white-rook", Confidence: 0.4},
        {Point: e8, Label: "white-knight", Confidence: 0.7},
        {Point: e8, Label: "white-bishop", Confidence: 0.7},
    }
    res, err := st.Reconstruct(st.Classify(dets), dets, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e7e8n" { t.Fatalf("got %q, want e7e8n", res.Move) }
}

func TestReconstructPromotionFallback(t *testing.T) {
    st := newTestState(t)
    setup(t, st, map[string]Piece{"e7": WhitePawn, "g1": WhiteKing, "a8": BlackKing})
    e8 := st.Square(MustCoordinate("e8")).Quad.Center()

    // No promotable label on e8: the first detection of the frame decides,
    // even though it sits on g1.
    dets := []Detection{
        {Point: st.Square(MustCoordinate("g1")).Quad.Center(), Label: "white-rook", Confidence: 0.9},
        {Point: st.Square(MustCoordinate("a8")).Quad.Center(), Label: "black-king", Confidence: 0.9},
        {Point: e8, Label: "white-pawn", Confidence: 0.8},
    }
    res, err := st.Reconstruct(st.Classify(dets), dets, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e7e8r" { t.Fatalf("got %q, want e7e8r", res.Move) }

    // A king as the fallback yields no suffix and the pawn stays a pawn.
    dets[0].Label = "white-king"
    res, err = st.Reconstruct(st.Classify(dets), dets, nil)
    if err != nil { t.Fatalf("Reconstruct: %v", err) }
    if res.Move != "e7e8" || res.Updates[1].To != WhitePawn { t.Fatalf("got %q to %s", res.Move, res.Updates[1].To) }
}
