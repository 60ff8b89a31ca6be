package render

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/Cheese-board-tracker/internal/board"
)

// Piece outlines on a 45x45 canvas.
var pieceShapes = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="14" r="6"/>
<path d="M 14 36 L 31 36 L 27 21 L 18 21 Z"/>
<rect x="11" y="35" width="23" height="5"/>`,
	board.Knight: `<path d="M 12 39 L 34 39 L 32 30 C 33 20 30 11 22 9 L 21 6 L 18 10 C 14 13 10 19 9 24 L 12 26 L 17 22 L 21 21 C 17 25 14 30 14 34 Z"/>`,
	board.Bishop: `<circle cx="22.5" cy="9" r="3"/>
<path d="M 12 39 L 33 39 L 33 36 L 27 33 C 31 29 31 22 22.5 13 C 14 22 14 29 18 33 L 12 36 Z"/>`,
	board.Rook: `<path d="M 11 39 L 34 39 L 34 35 L 31 35 L 29 17 L 33 17 L 33 9 L 29 9 L 29 12 L 25 12 L 25 9 L 20 9 L 20 12 L 16 12 L 16 9 L 12 9 L 12 17 L 16 17 L 14 35 L 11 35 Z"/>`,
	board.Queen: `<path d="M 10 39 L 35 39 L 33 33 L 37 15 L 29 26 L 27 11 L 22.5 25 L 18 11 L 16 26 L 8 15 L 12 33 Z"/>
<circle cx="8" cy="13" r="2"/><circle cx="18" cy="9" r="2"/><circle cx="27" cy="9" r="2"/><circle cx="37" cy="13" r="2"/>`,
	board.King: `<path d="M 21 4 L 24 4 L 24 8 L 28 8 L 28 11 L 24 11 L 24 17 L 21 17 L 21 11 L 17 11 L 17 8 L 21 8 Z"/>
<path d="M 11 39 L 34 39 L 33 32 C 38 26 36 19 30 19 C 26 19 24 22 22.5 25 C 21 22 19 19 15 19 C 9 19 7 26 12 32 Z"/>`,
}

func pieceSVG(p board.Piece) ([]byte, error) {
	shape, ok := pieceShapes[p.Type()]
	if !ok {
		return nil, fmt.Errorf("no shape for %s", p)
	}
	fill, stroke := "#ffffff", "#000000"
	if p.Color() == board.Black {
		fill, stroke = "#202020", "#d8d8d8"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 45 45" width="45" height="45">`)
	fmt.Fprintf(&b, `<g fill="%s" stroke="%s" stroke-width="1.5" stroke-linejoin="round">%s</g></svg>`, fill, stroke, shape)
	return b.Bytes(), nil
}

type pieceKey struct {
	piece board.Piece
	size  int
}

type pieceCache struct {
	mu     sync.RWMutex
	images map[pieceKey]image.Image
}

func newPieceCache() *pieceCache {
	return &pieceCache{images: make(map[pieceKey]image.Image)}
}

func (c *pieceCache) get(p board.Piece, size int) (image.Image, error) {
	key := pieceKey{piece: p, size: size}
	c.mu.RLock()
	img, ok := c.images[key]
	c.mu.RUnlock()
	if ok {
		return img, nil
	}

	img, err := rasterizePiece(p, size)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()
	return img, nil
}

func rasterizePiece(p board.Piece, size int) (image.Image, error) {
	data, err := pieceSVG(p)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", p, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img, nil
}
