// Package response turns the tagged text returned by the language model into
// a structured game update.
//
// A structured reply is wrapped in a <response> envelope:
//
//	<response>
//	  <message>You enter the tavern.</message>
//	  <characterName>Aria</characterName>
//	  <stat1><name>Health</name><value>80</value><config>{"type":"progress","max":100}</config></stat1>
//	  <item1>Rope</item1>
//	  <event1>Entered the tavern</event1>
//	  <mainQuest><title>...</title><description>...</description></mainQuest>
//	  <sideQuest1><title>...</title><description>...</description></sideQuest1>
//	</response>
//
// Nested fields may also be written as flat path tags (<stat1/name>).
package response

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	envelopePattern = regexp.MustCompile(`(?s)<response>(.*?)</response>`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// Quest is a titled objective.
type Quest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Stat is one named, independently rendered character stat.
type Stat struct {
	Name   string     `json:"name"`
	Value  string     `json:"value"`
	Config StatConfig `json:"config"`
}

// Update is the structured result of parsing one model reply.
// Sequences are never nil.
type Update struct {
	Message              string   `json:"message"`
	Stats                []Stat   `json:"stats"`
	Inventory            []string `json:"inventory"`
	EventLog             []string `json:"event_log"`
	CharacterName        string   `json:"character_name,omitempty"`
	CharacterDescription string   `json:"character_description,omitempty"`
	MainQuest            *Quest   `json:"main_quest,omitempty"`
	SideQuests           []Quest  `json:"side_quests"`

	// Structured is false when no envelope was found and Message holds the
	// whole input.
	Structured bool `json:"structured"`
}

func newUpdate(message string) *Update {
	return &Update{
		Message:    message,
		Stats:      make([]Stat, 0),
		Inventory:  make([]string, 0),
		EventLog:   make([]string, 0),
		SideQuests: make([]Quest, 0),
	}
}

// Parse extracts an Update from raw model output. Input without a
// <response> envelope is returned as a degraded update carrying only the
// message. The only error is a malformed stat config (see ConfigError).
func Parse(raw string) (*Update, error) {
	m := envelopePattern.FindStringSubmatch(raw)
	if m == nil {
		return newUpdate(NormalizeMessage(raw)), nil
	}
	body := m[1]

	u := newUpdate(NormalizeMessage(Tag(body, "message")))
	u.Structured = true
	u.CharacterName = Tag(body, "characterName")
	u.CharacterDescription = Tag(body, "characterDescription")
	u.Inventory = Numbered(body, "item")
	u.EventLog = Numbered(body, "event")

	stats, err := parseStats(body)
	if err != nil {
		return nil, err
	}
	u.Stats = stats

	u.MainQuest = parseQuest(body, "mainQuest")
	for i := 1; ; i++ {
		q := parseQuest(body, "sideQuest"+strconv.Itoa(i))
		if q == nil || q.Title == "" {
			break
		}
		u.SideQuests = append(u.SideQuests, *q)
	}

	return u, nil
}

func parseStats(body string) ([]Stat, error) {
	stats := make([]Stat, 0)
	for i := 1; ; i++ {
		prefix := "stat" + strconv.Itoa(i)
		name := Field(body, prefix+"/name")
		if name == "" {
			return stats, nil
		}

		raw := Field(body, prefix+"/config")
		cfg, err := DecodeStatConfig(raw)
		if err != nil {
			return nil, &ConfigError{Stat: i, Raw: raw, Err: err}
		}

		stats = append(stats, Stat{
			Name:   name,
			Value:  Field(body, prefix+"/value"),
			Config: cfg,
		})
	}
}

func parseQuest(body, prefix string) *Quest {
	title := Field(body, prefix+"/title")
	description := Field(body, prefix+"/description")
	if title == "" && description == "" {
		return nil
	}
	return &Quest{Title: title, Description: description}
}

// NormalizeMessage collapses runs of three or more newlines into exactly two
// and trims surrounding whitespace. It is idempotent.
func NormalizeMessage(s string) string {
	return strings.TrimSpace(blankRunPattern.ReplaceAllString(s, "\n\n"))
}
