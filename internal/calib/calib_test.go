package calib

import (
    "fmt"
    "path/filepath"
    "strings"
    "testing"

    "github.com/park285/Cheese-board-tracker/internal/board"
)

func latticeYAML(n int, extra string) string {
    var b strings.Builder
    b.WriteString("camera: overhead\n")
    b.WriteString(extra)
    b.WriteString("corners:\n")
    for i := 0; i < n; i++ {
        fmt.Fprintf(&b, "  - {x: %d, y: %d}\n", 100*(i/9), 100*(i%9))
    }
    return b.String()
}

func TestParseLattice(t *testing.T) {
    c, err := Parse([]byte(latticeYAML(81, "")))
    if err != nil { t.Fatalf("Parse: %v", err) }
    if c.Corners[10] != board.Pt(100, 100) { t.Fatalf("corner 10 = %v", c.Corners[10]) }
    if _, _, ok, _ := c.BoundaryOverride(); ok { t.Fatalf("no override expected") }

    st, err := board.NewState(c.Corners, board.White, board.White)
    if err != nil { t.Fatalf("NewState from calibration: %v", err) }
    if st.Square(board.MustCoordinate("a1")).Quad.TopLeft != board.Pt(0, 700) { t.Fatalf("a1 not at bottom-left") }
}

func TestParseRejectsBadInput(t *testing.T) {
    cases := map[string]string{
        "short":     latticeYAML(80, ""),
        "one side":  latticeYAML(81, "left: white\n"),
        "bad color": latticeYAML(81, "left: white\nright: green\n"),
        "not yaml":  "corners: [",
    }
    for name, raw := range cases {
        if _, err := Parse([]byte(raw)); err == nil { t.Fatalf("%s: expected error", name) }
    }
}

func TestSaveLoadOverride(t *testing.T) {
    c, err := Parse([]byte(latticeYAML(81, "left: b\nright: white\n")))
    if err != nil { t.Fatalf("Parse: %v", err) }
    path := filepath.Join(t.TempDir(), "calibration.yaml")
    if err := c.Save(path); err != nil { t.Fatalf("Save: %v", err) }

    loaded, err := Load(path)
    if err != nil { t.Fatalf("Load: %v", err) }
    left, right, ok, err := loaded.BoundaryOverride()
    if err != nil || !ok || left != board.Black || right != board.White { t.Fatalf("override = %s %s %v %v", left, right, ok, err) }
    if len(loaded.Corners) != CornerCount || loaded.Corners[80] != board.Pt(800, 800) { t.Fatalf("corners not preserved") }
}
