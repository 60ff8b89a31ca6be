package tracker

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	"github.com/park285/Cheese-board-tracker/internal/board"
)

// The rules engine is authoritative for legality, notation and outcome;
// the board State only tracks what the camera saw.

func legalMoves(game *nchess.Game) board.MoveSet {
	set := board.NewMoveSet()
	for _, mv := range game.ValidMoves() {
		set.Add(strings.ToLower(mv.String()))
	}
	return set
}

// pushUCI applies a coordinate-notation move and returns its SAN.
func pushUCI(game *nchess.Game, uci string) (string, error) {
	pos := game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, strings.ToLower(strings.TrimSpace(uci)))
	if err != nil {
		return "", fmt.Errorf("decode move %s: %w", uci, err)
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := game.Move(mv, nil); err != nil {
		return "", fmt.Errorf("apply move %s: %w", uci, err)
	}
	return san, nil
}

func replayMoves(moves []string) (*nchess.Game, error) {
	game := nchess.NewGame()
	for _, mv := range moves {
		if _, err := pushUCI(game, mv); err != nil {
			return nil, err
		}
	}
	return game, nil
}

func sanMoves(game *nchess.Game) []string {
	positions := game.Positions()
	moves := game.Moves()
	out := make([]string, len(moves))
	notation := nchess.AlgebraicNotation{}
	for i, mv := range moves {
		if i < len(positions) {
			out[i] = notation.Encode(positions[i], mv)
		}
	}
	return out
}

// placementOf converts the engine's board to tracker pieces. Square
// indices match: a1 is 0 and h8 is 63 in both.
func placementOf(game *nchess.Game) map[board.Coordinate]board.Piece {
	out := make(map[board.Coordinate]board.Piece)
	for sq, p := range game.Position().Board().SquareMap() {
		if p == nchess.NoPiece {
			continue
		}
		if piece := toBoardPiece(p); !piece.IsEmpty() {
			out[board.Coordinate(sq)] = piece
		}
	}
	return out
}

func toBoardPiece(p nchess.Piece) board.Piece {
	var c board.Color
	switch p.Color() {
	case nchess.White:
		c = board.White
	case nchess.Black:
		c = board.Black
	default:
		return board.Empty
	}
	var t board.PieceType
	switch p.Type() {
	case nchess.Pawn:
		t = board.Pawn
	case nchess.Knight:
		t = board.Knight
	case nchess.Bishop:
		t = board.Bishop
	case nchess.Rook:
		t = board.Rook
	case nchess.Queen:
		t = board.Queen
	case nchess.King:
		t = board.King
	}
	return board.NewPiece(c, t)
}

var ecoBook = opening.NewBookECO()

func openingOf(game *nchess.Game) (code, title string) {
	if ecoBook == nil || len(game.Moves()) == 0 {
		return "", ""
	}
	if eco := ecoBook.Find(game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}

func finished(game *nchess.Game) bool {
	return game.Outcome() != nchess.NoOutcome
}

func turnOf(game *nchess.Game) string {
	if game.Position().Turn() == nchess.Black {
		return "black"
	}
	return "white"
}
