package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const (
	AgentName       = "Narrator"
	PlaceHolderText = "Type your message here..."
	newGameLabel    = "+ New game"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	gameState     *state.GameState
	chatViewport  viewport.Model
	sheetViewport viewport.Model
	textarea      textarea.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool

	// Game selection state
	showGameModal bool
	games         []GameSummary
	selectedGame  int
	loadingGames  bool

	// Quit confirmation state
	showQuitModal bool

	// notice is a one-off line shown under the chat (fallback turns, command output)
	notice string

	// Progress bar state
	progressTick int
}

type chatResponseMsg struct {
	response *chat.ChatResponse
	err      error
}

type gameStateMsg struct {
	gameState *state.GameState
	err       error
}

type gamesLoadedMsg struct {
	games []GameSummary
	err   error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	sheetPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = chat.MaxMessageLength
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	sheetVp := viewport.New(20, 20)

	return ConsoleUI{
		config:        cfg,
		client:        client,
		textarea:      ta,
		chatViewport:  chatVp,
		sheetViewport: sheetVp,
		showGameModal: true,
		loadingGames:  true,
	}
}

// panelWidths splits the terminal between chat (3/4) and sheet.
func panelWidths(total int) (chatWidth, sheetWidth int) {
	chatWidth = int(float64(total)*0.75) - 4
	sheetWidth = total - chatWidth - 6
	return chatWidth, sheetWidth
}

func (m *ConsoleUI) resize() {
	chatWidth, sheetWidth := panelWidths(m.width)
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.sheetViewport.Width = sheetWidth - 2
	m.sheetViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m *ConsoleUI) writeSheet() {
	m.sheetViewport.SetContent(renderSheet(m.gameState, m.sheetViewport.Width))
}

func formatNarratorResponse(text string, width int) string {
	prefix := AgentName + ": "
	return narratorStyle.Render(prefix) + wordwrap.String(text, max(width-len(prefix), 10))
}

// writeChatContent builds the chat content from game state for the current viewport width
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6 // Account for left(3) + right(3) padding

	var content strings.Builder
	content.WriteString(titleStyle.Render("CHRONICLE") + "\n\n")
	content.WriteString("Type your messages below to interact with the story.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	if m.gameState != nil {
		for _, msg := range m.gameState.ChatHistory {
			switch msg.Role {
			case chat.ChatRoleAgent:
				content.WriteString(formatNarratorResponse(narrative(msg.Content), chatWidth) + "\n\n")
			case chat.ChatRoleUser:
				content.WriteString(userStyle.Render("You: ") + wordwrap.String(msg.Content, max(chatWidth-6, 10)) + "\n\n")
			}
		}
	}

	if m.notice != "" {
		content.WriteString(m.notice + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// lastNarration returns the most recent narrator text, if any.
func (m ConsoleUI) lastNarration() string {
	if m.gameState == nil {
		return ""
	}
	for i := len(m.gameState.ChatHistory) - 1; i >= 0; i-- {
		if msg := m.gameState.ChatHistory[i]; msg.Role == chat.ChatRoleAgent {
			return narrative(msg.Content)
		}
	}
	return ""
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadGames()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	if m.showGameModal {
		return m.updateGameModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		svCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.sheetViewport, svCmd = m.sheetViewport.Update(msg)
		return m, tea.Batch(vpCmd, svCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeChatContent()
		m.writeSheet()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.notice = ""
			m.progressTick = 0

			// Show the player's message right away; the refreshed state replaces it
			m.gameState.AppendHistory(chat.ChatRoleUser, input)
			m.writeChatContent()

			return m, tea.Batch(m.sendChatMessage(input), progressTick())
		}

	case chatResponseMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.notice = errorStyle.Render("Error: " + msg.err.Error())
		} else if msg.response.Fallback {
			m.notice = loadingStyle.Render("The narrator's notes could not be read; showing the raw reply.")
		}
		m.writeChatContent()
		return m, m.refreshGameState()

	case gameStateMsg:
		if msg.err != nil {
			m.notice = errorStyle.Render("Error: " + msg.err.Error())
		} else if msg.gameState != nil {
			m.gameState = msg.gameState
		}
		m.writeChatContent()
		m.writeSheet()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.sheetViewport, svCmd = m.sheetViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, svCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch cmd {
	case "/help":
		m.notice = titleStyle.Render("Help:") + `
• /help - Show this help
• /copy - Copy the last narration to the clipboard
• /log  - Show the full event log
• Esc   - Quit game

How to play:
• Type your actions and press Enter
• The character sheet on the right follows the story`

	case "/copy":
		text := m.lastNarration()
		switch {
		case text == "":
			m.notice = promptStyle.Render("Nothing to copy yet.")
		case clipboard.Unsupported:
			m.notice = errorStyle.Render("Clipboard is not available on this system.")
		default:
			if err := clipboard.WriteAll(text); err != nil {
				m.notice = errorStyle.Render("Copy failed: " + err.Error())
			} else {
				m.notice = promptStyle.Render("Copied the last narration.")
			}
		}

	case "/log":
		m.notice = renderEventLog(m.gameState)

	default:
		m.notice = errorStyle.Render(fmt.Sprintf("Unknown command %s. Try /help.", cmd))
	}

	m.textarea.Reset()
	m.writeChatContent()
	return m, nil
}

func (m ConsoleUI) sendChatMessage(message string) tea.Cmd {
	return func() tea.Msg {
		resp, err := sendChat(m.client, m.config.APIBaseURL, m.gameState.ID, message)
		return chatResponseMsg{resp, err}
	}
}

func (m ConsoleUI) refreshGameState() tea.Cmd {
	return func() tea.Msg {
		gs, err := getGameState(m.client, m.config.APIBaseURL, m.gameState.ID)
		return gameStateMsg{gs, err}
	}
}

func (m ConsoleUI) loadGames() tea.Cmd {
	return func() tea.Msg {
		games, err := listGameStates(m.client, m.config.APIBaseURL, m.config.UserID)
		return gamesLoadedMsg{games, err}
	}
}

func (m ConsoleUI) openGame(index int) tea.Cmd {
	return func() tea.Msg {
		if index == 0 {
			gs, err := createGameState(m.client, m.config.APIBaseURL, m.config.UserID, m.config.Language)
			return gameStateMsg{gs, err}
		}
		gs, err := getGameState(m.client, m.config.APIBaseURL, m.games[index-1].ID)
		return gameStateMsg{gs, err}
	}
}

// gameChoices lists the modal entries: a new game first, then saved games.
func (m ConsoleUI) gameChoices() []string {
	choices := []string{newGameLabel}
	for _, g := range m.games {
		name := g.CharacterName
		if name == "" {
			name = "Unnamed hero"
		}
		choices = append(choices, fmt.Sprintf("%s (%s)", name, g.ID.String()[:8]))
	}
	return choices
}

func (m ConsoleUI) updateGameModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case gamesLoadedMsg:
		m.loadingGames = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.games = msg.games
		}

	case gameStateMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.gameState = msg.gameState
		m.showGameModal = false
		if m.width > 0 && m.height > 0 {
			m.resize()
		}
		m.writeChatContent()
		m.writeSheet()
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.loadingGames {
				return m, tea.Quit
			}
			m.showQuitModal = true
			return m, nil
		}
		if m.loadingGames || m.loading || m.err != nil {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyUp:
			if m.selectedGame > 0 {
				m.selectedGame--
			}
		case tea.KeyDown:
			if m.selectedGame < len(m.games) {
				m.selectedGame++
			}
		case tea.KeyEnter:
			m.loading = true
			return m, m.openGame(m.selectedGame)
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showGameModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to quit your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderGameModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingGames:
		content.WriteString(modalTitleStyle.Render("Loading Games..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while we fetch your saved games..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Opening Game..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Setting up your adventure..."))
	default:
		content.WriteString(modalTitleStyle.Render("Select a Game"))
		content.WriteString("\n\n")

		for i, choice := range m.gameChoices() {
			if i == m.selectedGame {
				content.WriteString(modalSelectedItemStyle.Render("▶ " + choice))
			} else {
				content.WriteString(modalItemStyle.Render("  " + choice))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showGameModal {
		return m.renderGameModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth, sheetWidth := panelWidths(m.width)

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	sheetPanel := sheetPanelStyle.Width(sheetWidth).Height(m.height - 2).Render(
		m.sheetViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, sheetPanel)
}

// renderProgressBar creates an animated bar while waiting for the narrator
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}
	usable = min(max(usable, 10), 80)

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓") // Blinking effect at the progress point
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
