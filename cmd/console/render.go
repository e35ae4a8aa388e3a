package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/chronicle/pkg/gameevent"
	"github.com/jwebster45206/chronicle/pkg/response"
	"github.com/jwebster45206/chronicle/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const (
	defaultBarColor = "#5A9BD5"
	healthBarColor  = "#D9534F"
	manaBarColor    = "#5B6FD9"

	// sheetEventLimit is how many event log lines the sheet shows.
	sheetEventLimit = 6
)

// narrative returns the text to show for a stored model reply. Replies whose
// envelope cannot be parsed are shown raw, minus event markers.
func narrative(raw string) string {
	u, err := response.Parse(raw)
	if err != nil {
		return response.NormalizeMessage(gameevent.Strip(raw))
	}
	return response.NormalizeMessage(gameevent.Strip(u.Message))
}

// statPercent maps a stat value onto [0,1] for a progress bar.
func statPercent(value string, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return min(1, max(0, v/limit))
}

func renderBar(label string, percent float64, color string, width int) string {
	if color == "" {
		color = defaultBarColor
	}
	bar := progress.New(
		progress.WithSolidFill(color),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)
	return label + "\n" + bar.ViewAs(percent)
}

// renderStat renders one stat according to its config kind.
func renderStat(s response.Stat, width int) string {
	switch s.Config.Kind {
	case response.StatProgress:
		label := fmt.Sprintf("%s %s/%s", s.Name, s.Value, strconv.FormatFloat(s.Config.Max, 'f', -1, 64))
		return renderBar(label, statPercent(s.Value, s.Config.Max), s.Config.Color, width)
	case response.StatNumber:
		return fmt.Sprintf("%s: %s", s.Name, numberStyle.Render(s.Value))
	default:
		return wordwrap.String(fmt.Sprintf("%s: %s", s.Name, s.Value), width)
	}
}

// renderSheet builds the character sheet side panel.
func renderSheet(gs *state.GameState, width int) string {
	if gs == nil {
		return ""
	}
	width = max(width, 10)

	var content strings.Builder
	name := gs.CharacterName
	if name == "" {
		name = "Unknown hero"
	}
	content.WriteString(titleStyle.Render(strings.ToUpper(name)) + "\n")
	if gs.CharacterDescription != "" {
		content.WriteString(wordwrap.String(gs.CharacterDescription, width) + "\n")
	}
	content.WriteString("\n")

	content.WriteString(renderBar(fmt.Sprintf("Health %d/%d", gs.Health, state.MaxVital),
		float64(gs.Health)/state.MaxVital, healthBarColor, width) + "\n")
	content.WriteString(renderBar(fmt.Sprintf("Mana %d/%d", gs.Mana, state.MaxVital),
		float64(gs.Mana)/state.MaxVital, manaBarColor, width) + "\n\n")

	if len(gs.Stats) > 0 {
		content.WriteString(headingStyle.Render("Stats") + "\n")
		for _, s := range gs.Stats {
			content.WriteString(renderStat(s, width) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(headingStyle.Render("Inventory") + "\n")
	if len(gs.Inventory) == 0 {
		content.WriteString(promptStyle.Render("Empty") + "\n")
	}
	for _, item := range gs.Inventory {
		content.WriteString(wordwrap.String("• "+item, width) + "\n")
	}
	content.WriteString("\n")

	if gs.MainQuest != nil || len(gs.SideQuests) > 0 {
		content.WriteString(headingStyle.Render("Quests") + "\n")
		if gs.MainQuest != nil {
			content.WriteString(wordwrap.String("★ "+gs.MainQuest.Title, width) + "\n")
			if gs.MainQuest.Description != "" {
				content.WriteString(promptStyle.Render(wordwrap.String(gs.MainQuest.Description, width)) + "\n")
			}
		}
		for _, q := range gs.SideQuests {
			content.WriteString(wordwrap.String("◦ "+q.Title, width) + "\n")
		}
		content.WriteString("\n")
	}

	if len(gs.EventLog) > 0 {
		content.WriteString(headingStyle.Render("Recent events") + "\n")
		for _, line := range gs.EventLog[max(0, len(gs.EventLog)-sheetEventLimit):] {
			content.WriteString(wordwrap.String(line, width) + "\n")
		}
		content.WriteString("\n")
	}

	content.WriteString(promptStyle.Render("/help /copy /log · Esc quits") + "\n")
	return content.String()
}

// renderEventLog renders the full event log for the /log command.
func renderEventLog(gs *state.GameState) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Event log:") + "\n")
	if gs == nil || len(gs.EventLog) == 0 {
		b.WriteString("Nothing has happened yet.\n")
		return b.String()
	}
	for _, line := range gs.EventLog {
		b.WriteString("• " + line + "\n")
	}
	return b.String()
}

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Underline(true)

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)
