package detect

import (
    "errors"
    "testing"

    "github.com/park285/Cheese-board-tracker/internal/board"
)

func TestAnchorNearPieceBase(t *testing.T) {
    cases := []struct {
        box  Box
        want board.Point
    }{
        {Box{XMin: 100, YMin: 200, XMax: 140, YMax: 300}, board.Pt(120, 285)},
        {Box{XMin: 100.9, YMin: 200.7, XMax: 140.2, YMax: 300.9}, board.Pt(120, 285)},
        {Box{XMin: 0, YMin: 0, XMax: 11, YMax: 7}, board.Pt(5, 6)},
    }
    for _, tc := range cases {
        if got := Anchor(tc.box); got != tc.want { t.Fatalf("Anchor(%+v) = %v, want %v", tc.box, got, tc.want) }
    }
}

func TestFrameDetectionsFiltersConfidence(t *testing.T) {
    f := Frame{Boxes: []Box{
        {XMin: 0, YMin: 0, XMax: 10, YMax: 10, Label: "white-pawn", Confidence: 0.05},
        {XMin: 0, YMin: 0, XMax: 10, YMax: 10, Label: "black-king", Confidence: 0.8},
    }}
    dets := f.Detections(0.1)
    if len(dets) != 1 || dets[0].Label != "black-king" { t.Fatalf("unexpected detections %+v", dets) }
}

func det(x, y int, label string) board.Detection {
    return board.Detection{Point: board.Pt(x, y), Label: board.Label(label), Confidence: 1}
}

func TestBoundary(t *testing.T) {
    dets := []board.Detection{
        det(400, 50, "black-queen"),
        det(50, 750, "white-rook"),
        det(750, 750, "black-rook"),
    }
    left, right, ok := Boundary(dets)
    if !ok { t.Fatalf("expected boundary pieces") }
    if left.Label != "white-rook" || right.Label != "black-rook" { t.Fatalf("left=%s right=%s", left.Label, right.Label) }

    l, r, err := BoundaryColors(dets)
    if err != nil || l != board.White || r != board.Black { t.Fatalf("BoundaryColors = %s %s %v", l, r, err) }
}

func TestBoundaryTiesGoToLaterAndSkipsZeroY(t *testing.T) {
    dets := []board.Detection{
        det(0, 0, "white-pawn"),
        det(50, 500, "white-rook"),
        det(50, 500, "black-rook"),
    }
    left, right, ok := Boundary(dets)
    if !ok { t.Fatalf("expected boundary pieces") }
    if left.Label != "black-rook" || right.Label != "black-rook" { t.Fatalf("left=%s right=%s", left.Label, right.Label) }

    if _, _, err := BoundaryColors(nil); !errors.Is(err, ErrNoBoundary) { t.Fatalf("expected ErrNoBoundary, got %v", err) }
}
