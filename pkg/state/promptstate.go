package state

import "github.com/jwebster45206/chronicle/pkg/response"

// PromptState is a reduced game state for model prompts. Chat history is
// sent separately and only the tail of the event log is included.
type PromptState struct {
	CharacterName        string           `json:"character_name,omitempty"`
	CharacterDescription string           `json:"character_description,omitempty"`
	Health               int              `json:"health"`
	Mana                 int              `json:"mana"`
	Stats                []response.Stat  `json:"stats,omitempty"`
	Inventory            []string         `json:"inventory"`
	MainQuest            *response.Quest  `json:"main_quest,omitempty"`
	SideQuests           []response.Quest `json:"side_quests,omitempty"`
	RecentEvents         []string         `json:"recent_events,omitempty"`
}

// PromptEventLimit is the number of event log lines included in a PromptState.
const PromptEventLimit = 5

func ToPromptState(gs *GameState) *PromptState {
	if gs == nil {
		return nil
	}
	recent := gs.EventLog
	if len(recent) > PromptEventLimit {
		recent = recent[len(recent)-PromptEventLimit:]
	}
	return &PromptState{
		CharacterName:        gs.CharacterName,
		CharacterDescription: gs.CharacterDescription,
		Health:               gs.Health,
		Mana:                 gs.Mana,
		Stats:                gs.Stats,
		Inventory:            gs.Inventory,
		MainQuest:            gs.MainQuest,
		SideQuests:           gs.SideQuests,
		RecentEvents:         recent,
	}
}
