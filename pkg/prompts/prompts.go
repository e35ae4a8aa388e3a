package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/state"
)

// SystemPrompt tells the model how to format its replies so they can be
// parsed into a game update.
const SystemPrompt = `You are the game master of a text role-playing game. Narrate the world, voice its characters and react to the player's actions. Never act or speak for the player.

Always answer with a single <response> block using these tags:

<response>
<message>Narration shown to the player. Plain text, paragraphs separated by blank lines.</message>
<characterName>Player character name</characterName>
<characterDescription>One or two sentences about the player character.</characterDescription>
<stat1><name>Health</name><value>80</value><config>{"type":"progress","max":100,"color":"#e53935"}</config></stat1>
<stat2><name>Gold</name><value>12</value><config>{"type":"number"}</config></stat2>
<item1>First inventory item</item1>
<event1>Short log line describing what just happened</event1>
<mainQuest><title>Main quest title</title><description>What the player must do.</description></mainQuest>
<sideQuest1><title>Side quest title</title><description>Details.</description></sideQuest1>
</response>

Rules:
- Number stats, items, events and side quests from 1 without gaps.
- The config of a stat is JSON with "type" set to "progress", "number" or "text". Progress stats may set "max" and "color".
- List the full inventory every time.
- When health, mana, experience or items change, add inline markers inside the message: <event>HEALTH:-10</event>, <event>MANA:5</event>, <event>XP:20</event>, <event>ITEM_FOUND:Rusty key</event>.`

// UserPostPrompt is appended after the player's message as a reminder.
const UserPostPrompt = "Reply with one <response> block. Keep the narration under 200 words."

// GetStatePrompt renders the current game state as a system message.
func GetStatePrompt(gs *state.GameState) (chat.ChatMessage, error) {
	if gs == nil {
		return chat.ChatMessage{}, fmt.Errorf("gamestate is nil")
	}
	data, err := json.Marshal(state.ToPromptState(gs))
	if err != nil {
		return chat.ChatMessage{}, fmt.Errorf("failed to marshal prompt state: %w", err)
	}
	return chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: "Current game state:\n```json\n" + string(data) + "\n```",
	}, nil
}
