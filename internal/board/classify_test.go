package board

import "testing"

func TestClassifyUnchangedFrame(t *testing.T) {
    st := newTestState(t)
    if d := st.Classify(frame(st, st.Placement())); d.Len() != 0 {
        t.Fatalf("expected no changes, got %v", d)
    }
}

func TestClassifyMoveAndCapture(t *testing.T) {
    st := newTestState(t)
    d := st.Classify(frame(st, moved(st, map[string]Piece{"e2": Empty, "e4": WhitePawn})))
    if d.Len() != 2 { t.Fatalf("expected 2 changes, got %v", d) }
    if d[0].Coord.String() != "e2" || d[0].Kind != OccupiedToEmpty || d[0].Piece != WhitePawn {
        t.Fatalf("unexpected first change %+v", d[0])
    }
    if d[1].Coord.String() != "e4" || d[1].Kind != EmptyToOccupied || !d[1].Piece.IsEmpty() {
        t.Fatalf("unexpected second change %+v", d[1])
    }

    d = st.Classify(frame(st, moved(st, map[string]Piece{"d2": Empty, "d7": WhitePawn})))
    if d.Count(ColorChange) != 1 || d.Count(OccupiedToEmpty) != 1 {
        t.Fatalf("expected one color change and one vacated square, got %v", d)
    }
}

func TestClassifySameColorOtherTypeKeepsScanning(t *testing.T) {
    st := newTestState(t)
    e2 := st.Square(MustCoordinate("e2")).Quad.Center()
    base := frame(st, moved(st, map[string]Piece{"e2": Empty}))

    // A white knight label on a white pawn is not decisive and the square
    // still counts as seen.
    dets := append(append([]Detection(nil), base...), Detection{Point: e2, Label: "white-knight", Confidence: 0.5})
    if d := st.Classify(dets); d.Len() != 0 { t.Fatalf("expected unchanged, got %v", d) }

    // A later black detection on the same square decides.
    dets = append(dets, Detection{Point: e2, Label: "black-pawn", Confidence: 0.4})
    d := st.Classify(dets)
    if d.Len() != 1 || d[0].Kind != ColorChange { t.Fatalf("expected color change, got %v", d) }

    // The first decisive detection wins.
    dets = append(append([]Detection(nil), base...),
        Detection{Point: e2, Label: "white-pawn", Confidence: 0.2},
        Detection{Point: e2, Label: "black-queen", Confidence: 0.9})
    if d := st.Classify(dets); d.Len() != 0 { t.Fatalf("expected unchanged, got %v", d) }
}
