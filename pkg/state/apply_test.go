package state

import (
	"testing"

	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestApplyEvents_HealthAndItem(t *testing.T) {
	gs := NewGameState("u1")
	events := gameevent.Extract("<event>HEALTH:-10</event> text <event>ITEM_FOUND:Sword</event>", language.French)
	require.Len(t, events, 2)

	applied := gs.ApplyEvents(events)

	assert.Equal(t, 2, applied)
	assert.Equal(t, 90, gs.Health)
	assert.Equal(t, []string{"Sword"}, gs.Inventory)
	assert.Equal(t, []string{"Santé -10", "Objet trouvé: Sword"}, gs.EventLog)
}

func TestApplyEvent_Clamping(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		marker string
		want   int
	}{
		{"large loss floors at zero", 30, "<event>HEALTH:-500</event>", 0},
		{"large gain caps at max", 90, "<event>HEALTH:500</event>", 100},
		{"exact floor", 10, "<event>HEALTH:-10</event>", 0},
		{"in range", 50, "<event>HEALTH:25</event>", 75},
		{"max int gain caps at max", 90, "<event>HEALTH:9223372036854775807</event>", 100},
		{"min int loss floors at zero", 90, "<event>HEALTH:-9223372036854775808</event>", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState("")
			gs.Health = tt.start
			gs.ApplyEvents(gameevent.Extract(tt.marker, language.English))
			assert.Equal(t, tt.want, gs.Health)
		})
	}
}

func TestApplyEvent_ManaClamped(t *testing.T) {
	gs := NewGameState("")
	gs.Mana = 5
	gs.ApplyEvents(gameevent.Extract("<event>MANA:-20</event><event>MANA:7</event>", language.English))
	assert.Equal(t, 7, gs.Mana)
	assert.Equal(t, []string{"Mana -20", "Mana +7"}, gs.EventLog)
}

func TestApplyEvent_UnappliedTypes(t *testing.T) {
	gs := NewGameState("")
	applied := gs.ApplyEvents([]gameevent.Event{
		{Type: gameevent.TypeXP, Value: "50", Amount: 50, Display: "XP +50"},
		{Type: "GOLD", Value: "3", Display: "GOLD: 3"},
	})
	assert.Equal(t, 0, applied)
	assert.Empty(t, gs.EventLog)
	assert.Equal(t, MaxVital, gs.Health)
}

func TestApplyUpdate(t *testing.T) {
	gs := NewGameState("")
	gs.CharacterName = "Old"
	gs.Inventory = []string{"Stick"}
	gs.EventLog = []string{"earlier"}
	gs.SideQuests = []response.Quest{{Title: "Old side"}}

	u := &response.Update{
		Structured:    true,
		CharacterName: "Aria",
		Stats:         []response.Stat{{Name: "Gold", Value: "3", Config: response.StatConfig{Kind: response.StatNumber}}},
		Inventory:     []string{"Lute"},
		EventLog:      []string{"Met the barkeep"},
		MainQuest:     &response.Quest{Title: "Find the song"},
		SideQuests:    []response.Quest{},
	}
	gs.ApplyUpdate(u)

	assert.Equal(t, "Aria", gs.CharacterName)
	assert.Equal(t, []string{"Lute"}, gs.Inventory)
	assert.Equal(t, []string{"earlier", "Met the barkeep"}, gs.EventLog)
	require.NotNil(t, gs.MainQuest)
	assert.Equal(t, "Find the song", gs.MainQuest.Title)
	assert.Equal(t, []response.Quest{{Title: "Old side"}}, gs.SideQuests, "empty sequence keeps stored quests")
	require.Len(t, gs.Stats, 1)

	// The stored slices must not alias the update.
	u.Inventory[0] = "Changed"
	assert.Equal(t, "Lute", gs.Inventory[0])
}

func TestApplyUpdate_DegradedIgnored(t *testing.T) {
	gs := NewGameState("")
	gs.ApplyUpdate(&response.Update{Message: "plain text", Inventory: []string{"ignored"}})
	gs.ApplyUpdate(nil)
	assert.Empty(t, gs.Inventory)
}
