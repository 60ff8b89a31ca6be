package board

import (
	"fmt"
	"strings"
)

// Color is the side a piece belongs to.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// ParseColor accepts "white"/"black" and the w/b shorthands.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return NoColor, fmt.Errorf("unknown color %q", s)
	}
}

// PieceType is the kind of piece irrespective of color.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (t PieceType) String() string {
	if int(t) < len(pieceTypeNames) {
		return pieceTypeNames[t]
	}
	return "none"
}

// PromotionLetter returns the coordinate-notation suffix, or "" when t is
// not a legal promotion target.
func (t PieceType) PromotionLetter() string {
	switch t {
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	default:
		return ""
	}
}

func parsePieceType(s string) (PieceType, bool) {
	for i, name := range pieceTypeNames {
		if i > 0 && name == s {
			return PieceType(i), true
		}
	}
	return NoPieceType, false
}

// Piece is one of the twelve colored pieces or Empty.
type Piece uint8

const Empty Piece = 0

const (
	WhitePawn Piece = iota + 1
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// NewPiece returns Empty for NoColor or NoPieceType.
func NewPiece(c Color, t PieceType) Piece {
	if t == NoPieceType || t > King {
		return Empty
	}
	switch c {
	case White:
		return Piece(t)
	case Black:
		return Piece(uint8(t) + 6)
	default:
		return Empty
	}
}

func (p Piece) IsEmpty() bool { return p == Empty }

func (p Piece) Color() Color {
	switch {
	case p >= WhitePawn && p <= WhiteKing:
		return White
	case p >= BlackPawn && p <= BlackKing:
		return Black
	default:
		return NoColor
	}
}

func (p Piece) Type() PieceType {
	switch p.Color() {
	case White:
		return PieceType(p)
	case Black:
		return PieceType(uint8(p) - 6)
	default:
		return NoPieceType
	}
}

// String renders the detector label form, e.g. "white-knight", or "empty".
func (p Piece) String() string {
	if p.IsEmpty() || p.Color() == NoColor {
		return "empty"
	}
	return p.Color().String() + "-" + p.Type().String()
}

// Label is the detector's flat class tag, e.g. "black-rook". It is not
// validated against game legality.
type Label string

// Color reads the prefix before the first dash.
func (l Label) Color() Color {
	head, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(string(l))), "-")
	c, err := ParseColor(head)
	if err != nil {
		return NoColor
	}
	return c
}

// Type reads the suffix after the first dash.
func (l Label) Type() PieceType {
	_, tail, ok := strings.Cut(strings.ToLower(strings.TrimSpace(string(l))), "-")
	if !ok {
		return NoPieceType
	}
	t, _ := parsePieceType(tail)
	return t
}

// Piece converts the label, returning Empty when either half is unknown.
func (l Label) Piece() Piece {
	return NewPiece(l.Color(), l.Type())
}
