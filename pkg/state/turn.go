package state

import (
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
)

// Turn is the outcome of folding one model reply into the game state.
type Turn struct {
	Update *response.Update
	Events []gameevent.Event
	// Applied is the subset of Events that changed the state.
	Applied []gameevent.Event

	// Message is the narrative to display, without event markers.
	Message string

	// Fallback is set when the envelope could not be parsed; Message then
	// holds the raw reply and Update is nil.
	Fallback   bool
	ParseError error
}

// ProcessTurn parses raw, merges the envelope, then applies inline events.
// A malformed envelope never fails the turn: the state keeps its previous
// structured fields and the raw text becomes the message. Inline events are
// applied either way.
func (gs *GameState) ProcessTurn(raw string) *Turn {
	t := &Turn{Events: gameevent.Extract(raw, gs.Lang())}

	u, err := response.Parse(raw)
	if err != nil {
		t.Fallback = true
		t.ParseError = err
		t.Message = response.NormalizeMessage(gameevent.Strip(raw))
	} else {
		gs.ApplyUpdate(u)
		t.Update = u
		t.Message = response.NormalizeMessage(gameevent.Strip(u.Message))
	}

	for _, e := range t.Events {
		if gs.ApplyEvent(e) {
			t.Applied = append(t.Applied, e)
		}
	}
	return t
}
