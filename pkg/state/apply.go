package state

import (
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
)

// ApplyEvent folds one inline event into the game state and reports whether
// it changed anything. Health and mana deltas are clamped to
// [MinVital, MaxVital]; found items are appended to the inventory. Applied
// events are recorded in the event log. XP and unknown types are not applied.
func (gs *GameState) ApplyEvent(e gameevent.Event) bool {
	switch e.Type {
	case gameevent.TypeHealth:
		gs.Health = clampVital(gs.Health + boundDelta(e.Amount))
	case gameevent.TypeMana:
		gs.Mana = clampVital(gs.Mana + boundDelta(e.Amount))
	case gameevent.TypeItemFound:
		gs.Inventory = append(gs.Inventory, e.Value)
	default:
		return false
	}
	gs.EventLog = append(gs.EventLog, e.Display)
	return true
}

// boundDelta limits a vital delta to the vital range so the sum cannot overflow.
func boundDelta(n int) int {
	return max(-MaxVital, min(MaxVital, n))
}

// ApplyEvents applies events in order and returns how many were applied.
func (gs *GameState) ApplyEvents(events []gameevent.Event) int {
	applied := 0
	for _, e := range events {
		if gs.ApplyEvent(e) {
			applied++
		}
	}
	return applied
}

// ApplyUpdate merges a structured update. Fields the reply restates replace
// the stored ones; event log entries are appended. Degraded updates carry no
// state and are ignored.
func (gs *GameState) ApplyUpdate(u *response.Update) {
	if u == nil || !u.Structured {
		return
	}
	if u.CharacterName != "" {
		gs.CharacterName = u.CharacterName
	}
	if u.CharacterDescription != "" {
		gs.CharacterDescription = u.CharacterDescription
	}
	if len(u.Stats) > 0 {
		gs.Stats = append(gs.Stats[:0:0], u.Stats...)
	}
	if len(u.Inventory) > 0 {
		gs.Inventory = append(gs.Inventory[:0:0], u.Inventory...)
	}
	if u.MainQuest != nil {
		q := *u.MainQuest
		gs.MainQuest = &q
	}
	if len(u.SideQuests) > 0 {
		gs.SideQuests = append(gs.SideQuests[:0:0], u.SideQuests...)
	}
	gs.EventLog = append(gs.EventLog, u.EventLog...)
}
