// Package render draws tracked positions as PNG images.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/Cheese-board-tracker/internal/board"
)

// Highlight marks the last move.
type Highlight struct {
	From board.Coordinate
	To   board.Coordinate
}

type Options struct {
	Highlight *Highlight
	Title     string
	// Flip draws the board from black's side.
	Flip bool
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, placement map[board.Coordinate]board.Piece, opts Options) ([]byte, error)
}

const (
	squareSize  = 64
	boardSize   = squareSize * 8
	sideMargin  = 28
	topMargin   = 60
	titleHeight = 32
	panelRadius = 10
)

type svgBoardRenderer struct {
	pieces *pieceCache
}

func NewSVGBoardRenderer() BoardRenderer {
	return &svgBoardRenderer{pieces: newPieceCache()}
}

func (r *svgBoardRenderer) RenderPNG(ctx context.Context, placement map[board.Coordinate]board.Piece, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := geometry{origin: image.Pt(sideMargin, topMargin), flip: opts.Flip}
	img := image.NewRGBA(image.Rect(0, 0, boardSize+2*sideMargin, boardSize+topMargin+sideMargin))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawTitle(img, opts.Title, g.boardRect())
	drawSquares(img, g)
	drawHighlight(img, placement, opts.Highlight, g)
	for c, p := range placement {
		if p.IsEmpty() || !c.Valid() {
			continue
		}
		icon, err := r.pieces.get(p, squareSize)
		if err != nil {
			return nil, err
		}
		imagedraw.Draw(img, g.squareRect(c), icon, image.Point{}, imagedraw.Over)
	}
	drawCoordinates(img, g)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	backgroundColor     = color.RGBA{36, 38, 48, 255}
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	whiteMoveFill       = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	blackMoveArrow      = color.NRGBA{R: 148, G: 207, B: 255, A: 170}
	neutralMoveArrow    = color.NRGBA{R: 182, G: 184, B: 190, A: 140}
	titlePanelColor     = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	titleTextColor      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	coordinateTextColor = color.NRGBA{R: 8, G: 214, B: 120, A: 255}
)

// geometry maps coordinates to pixel rectangles for one orientation.
type geometry struct {
	origin image.Point
	flip   bool
}

func (g geometry) boardRect() image.Rectangle {
	return image.Rect(g.origin.X, g.origin.Y, g.origin.X+boardSize, g.origin.Y+boardSize)
}

// cell returns the column and row of c, row 0 at the top.
func (g geometry) cell(c board.Coordinate) (col, row int) {
	col, row = int(c.File()), 7-int(c.Rank())
	if g.flip {
		col, row = 7-col, 7-row
	}
	return col, row
}

func (g geometry) squareRect(c board.Coordinate) image.Rectangle {
	col, row := g.cell(c)
	x := g.origin.X + col*squareSize
	y := g.origin.Y + row*squareSize
	return image.Rect(x, y, x+squareSize, y+squareSize)
}

func (g geometry) center(c board.Coordinate) pointF {
	r := g.squareRect(c)
	return pointF{X: float64(r.Min.X + squareSize/2), Y: float64(r.Min.Y + squareSize/2)}
}

func drawSquares(img *image.RGBA, g geometry) {
	for c := board.Coordinate(0); c < board.NumSquares; c++ {
		clr := lightSquare
		if (int(c.File())+int(c.Rank()))%2 == 0 {
			clr = darkSquare
		}
		imagedraw.Draw(img, g.squareRect(c), image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
}

// drawHighlight fills both squares for a white move and draws an arrow for
// a black one, judged by whichever end of the move holds a piece.
func drawHighlight(img *image.RGBA, placement map[board.Coordinate]board.Piece, h *Highlight, g geometry) {
	if h == nil || h.From == h.To {
		return
	}
	mover := placement[h.To].Color()
	if mover == board.NoColor {
		mover = placement[h.From].Color()
	}
	switch mover {
	case board.White:
		fillRect(img, g.squareRect(h.From), whiteMoveFill)
		fillRect(img, g.squareRect(h.To), whiteMoveFill)
	case board.Black:
		drawArrow(img, g.center(h.From), g.center(h.To), blackMoveArrow)
	default:
		drawArrow(img, g.center(h.From), g.center(h.To), neutralMoveArrow)
	}
}

func drawTitle(img *image.RGBA, title string, boardRect image.Rectangle) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(titleTextColor)}
	width := drawer.MeasureString(title).Round() + 32
	if width > boardRect.Dx() {
		width = boardRect.Dx()
	}
	bottom := boardRect.Min.Y - 14
	rect := image.Rect(boardRect.Min.X, bottom-titleHeight, boardRect.Min.X+width, bottom)
	drawRoundedPanel(img, rect, panelRadius, titlePanelColor)

	m := face.Metrics()
	baseline := rect.Min.Y + (rect.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	drawer.Dot = fixed.P(rect.Min.X+16, baseline)
	drawer.DrawString(title)
}

func drawCoordinates(img *image.RGBA, g geometry) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(coordinateTextColor)}
	ascent := face.Metrics().Ascent.Ceil()
	br := g.boardRect()
	for i := 0; i < 8; i++ {
		rankLabel := board.NewCoordinate(board.FileA, board.Rank(i))
		r := g.squareRect(rankLabel)
		drawCenteredText(drawer, board.Rank(i).String(), br.Min.X-sideMargin/2, r.Min.Y+squareSize/2+ascent/2)

		fileLabel := board.NewCoordinate(board.File(i), board.Rank1)
		r = g.squareRect(fileLabel)
		drawCenteredText(drawer, board.File(i).String(), r.Min.X+squareSize/2, br.Max.Y+ascent+2)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
