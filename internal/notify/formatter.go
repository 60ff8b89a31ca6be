package notify

import (
	"strconv"
	"strings"

	"github.com/park285/Cheese-board-tracker/internal/msgcat"
	"github.com/park285/Cheese-board-tracker/pkg/trackerdto"
)

// Formatter renders tracker DTOs into chat text through the message
// catalog. A template failure falls back to a plain line.
type Formatter struct {
	catalog *msgcat.Catalog
}

func NewFormatter(catalog *msgcat.Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f == nil || f.catalog == nil {
		return fallback
	}
	out, err := f.catalog.Render(key, data)
	if err != nil || strings.TrimSpace(out) == "" {
		return fallback
	}
	return out
}

func (f *Formatter) Start(snap *trackerdto.Snapshot, resumed bool) string {
	if snap == nil {
		return "Tracking started."
	}
	data := map[string]any{
		"SessionUUID": snap.SessionUUID,
		"Orientation": snap.Orientation,
		"MoveCount":   snap.MoveCount,
	}
	if resumed {
		return f.render("tracker.resume", data, "Tracking resumed: "+snap.SessionUUID)
	}
	return f.render("tracker.start", data, "Tracking started: "+snap.SessionUUID)
}

func (f *Formatter) Move(out *trackerdto.MoveOutcome) string {
	if out == nil {
		return ""
	}
	number := moveNumber(out.Ply)
	data := map[string]any{
		"Number":   number,
		"SAN":      out.SAN,
		"UCI":      out.UCI,
		"Resynced": out.Resynced,
		"Turn":     "",
	}
	key := "tracker.move"
	if strings.HasSuffix(out.SAN, "+") && out.State != nil {
		key = "tracker.check"
		data["Turn"] = out.State.Turn
	}
	return f.render(key, data, number+out.SAN)
}

func (f *Formatter) Finished(out *trackerdto.MoveOutcome) string {
	if out == nil || out.State == nil {
		return ""
	}
	s := out.State
	opening := ""
	if s.OpeningECO != "" {
		opening = s.OpeningECO + " " + s.OpeningName
	}
	data := map[string]any{
		"Outcome":   s.Outcome,
		"Method":    s.OutcomeMeta,
		"MoveCount": s.MoveCount,
		"Opening":   opening,
		"GameID":    out.GameID,
	}
	return f.render("tracker.finished", data, "Game over: "+s.Outcome)
}

func (f *Formatter) Reset(gameID int64) string {
	return f.render("tracker.reset", map[string]any{"GameID": gameID}, "Tracking reset.")
}

func (f *Formatter) Failure(de *trackerdto.DomainError) string {
	if de == nil {
		return ""
	}
	data := map[string]any{"Code": de.Code, "Message": de.Message}
	return f.render("tracker.failure", data, de.Error())
}

// moveNumber returns "12. " for white's move and "12... " for black's.
func moveNumber(ply int) string {
	if ply < 1 {
		return ""
	}
	n := strconv.Itoa((ply + 1) / 2)
	if ply%2 == 1 {
		return n + ". "
	}
	return n + "... "
}
