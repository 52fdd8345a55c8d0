package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/adventure-engine/internal/services"
	"github.com/jwebster45206/adventure-engine/internal/storage"
	"github.com/jwebster45206/adventure-engine/pkg/campaign"
	"github.com/jwebster45206/adventure-engine/pkg/rules"
	"github.com/jwebster45206/adventure-engine/pkg/state"
)

const placeholderText = "What do you do?"

// chatLine is one rendered line of the session transcript.
type chatLine struct {
	role    string // player, rules, narrator, companion, error
	content string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine   *rules.Engine
	narrator services.Narrator
	store    storage.Storage
	registry *campaign.Registry
	logger   *slog.Logger
	gs       *state.GameState

	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	loading      bool
	progressTick int

	showQuitModal bool

	history       []chatLine
	lastNarration string
	pending       []state.PendingDecision
	finished      bool
}

type narrationMsg struct {
	text string
	err  error
}

type suggestionMsg struct {
	text string
	err  error
}

type saveDoneMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	rulesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // light grey

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	companionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

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

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(engine *rules.Engine, narrator services.Narrator, store storage.Storage, registry *campaign.Registry, gs *state.GameState, intro string, logger *slog.Logger) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		engine:       engine,
		narrator:     narrator,
		store:        store,
		registry:     registry,
		logger:       logger,
		gs:           gs,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		history:      []chatLine{{role: "rules", content: intro}},
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeStatus())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			if m.lastNarration != "" {
				if err := clipboard.WriteAll(m.lastNarration); err != nil {
					m.logger.Warn("clipboard copy failed", "error", err)
				}
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m.handleInput(input)
		}

	case narrationMsg:
		m.loading = false
		if msg.err != nil {
			m.history = append(m.history, chatLine{role: "error", content: "Narration failed: " + msg.err.Error()})
		} else {
			m.lastNarration = msg.text
			m.gs.AppendNarration("assistant", msg.text)
			m.history = append(m.history, chatLine{role: "narrator", content: msg.text})
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeStatus())
		if !m.gs.GameOver && len(m.pending) == 0 {
			return m, m.suggest()
		}
		return m, nil

	case suggestionMsg:
		if msg.err == nil && msg.text != "" {
			m.history = append(m.history, chatLine{role: "companion", content: msg.text})
			m.writeChatContent()
		}
		return m, nil

	case saveDoneMsg:
		if msg.err != nil {
			m.logger.Error("save failed", "error", msg.err)
			m.history = append(m.history, chatLine{role: "error", content: "Save failed: " + msg.err.Error()})
			m.writeChatContent()
		}
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// handleInput resolves one line of player input: a pending level-up
// choice if one is open, otherwise a normal engine action.
func (m ConsoleUI) handleInput(input string) (tea.Model, tea.Cmd) {
	m.history = append(m.history, chatLine{role: "player", content: input})

	if len(m.pending) > 0 {
		line, resolved := m.engine.ResolveDecision(m.gs, input)
		m.history = append(m.history, chatLine{role: "rules", content: line})
		if resolved {
			m.pending = m.gs.PendingDecisions
			if len(m.pending) > 0 {
				m.history = append(m.history, chatLine{role: "rules", content: m.pendingPrompt()})
			}
		}
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeStatus())
		return m, m.save()
	}

	res, err := m.engine.Apply(m.gs, input)
	if err != nil {
		m.logger.Error("action failed", "input", input, "error", err)
		m.history = append(m.history, chatLine{role: "error", content: err.Error()})
		m.writeChatContent()
		return m, nil
	}
	for _, line := range res.Lines {
		m.history = append(m.history, chatLine{role: "rules", content: line})
	}
	if len(res.Pending) > 0 {
		m.pending = res.Pending
		m.history = append(m.history, chatLine{role: "rules", content: m.pendingPrompt()})
	}
	if m.gs.GameOver && !m.finished && !m.gs.Player.IsDown() {
		lines, err := m.engine.FinishCampaign(m.gs)
		if err != nil {
			m.logger.Error("campaign wrap-up failed", "error", err)
		} else {
			m.finished = true
			for _, line := range lines {
				m.history = append(m.history, chatLine{role: "rules", content: line})
			}
		}
	}

	m.gs.AppendNarration("user", input)
	m.loading = true
	m.progressTick = 0
	m.writeChatContent()
	m.metaViewport.SetContent(m.writeStatus())
	return m, tea.Batch(m.narrate(input, res.Text()), m.save(), progressTick())
}

func (m ConsoleUI) pendingPrompt() string {
	d := m.pending[0]
	return fmt.Sprintf("Level %d %s choice. Choose one of: %s.", d.Level, d.Type, strings.Join(d.Choices, ", "))
}

func (m ConsoleUI) narrate(input, rulesResult string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		text, err := m.narrator.Narrate(ctx, m.gs, input, rulesResult)
		return narrationMsg{text: text, err: err}
	}
}

func (m ConsoleUI) suggest() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		text, err := m.narrator.Suggest(ctx, m.gs)
		return suggestionMsg{text: text, err: err}
	}
}

func (m ConsoleUI) save() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return saveDoneMsg{err: saveGame(ctx, m.store, m.gs)}
	}
}

func (m *ConsoleUI) layout() {
	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6
	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

// writeChatContent reformats the whole transcript for the current width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6
	if chatWidth < 20 {
		chatWidth = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("SOLO ADVENTURE") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", chatWidth-6)) + "\n\n")

	for _, line := range m.history {
		content.WriteString(m.formatLine(line, chatWidth) + "\n\n")
	}
	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

func (m *ConsoleUI) formatLine(line chatLine, width int) string {
	switch line.role {
	case "player":
		return userStyle.Render("You: ") + wordwrap.String(line.content, width-6)
	case "narrator":
		return narratorStyle.Render("Narrator: ") + wordwrap.String(line.content, width-10)
	case "companion":
		name := "Companion"
		if c := m.gs.ActiveCompanion(); c != nil {
			name = c.Name
		}
		return companionStyle.Render(speakerStyle.Render(name+": ") + wordwrap.String(line.content, width-len(name)-2))
	case "error":
		return errorStyle.Render(wordwrap.String(line.content, width))
	default:
		return rulesStyle.Render(wordwrap.String(line.content, width))
	}
}

// writeStatus renders the side panel.
func (m *ConsoleUI) writeStatus() string {
	gs := m.gs
	player := gs.Player

	roomName := gs.RoomID
	if room, err := m.registry.Room(gs.CampaignID, gs.RoomID); err == nil {
		roomName = room.Name
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("PARTY") + "\n\n")
	content.WriteString(fmt.Sprintf("%s\n%s %s, level %d\n", player.Name, player.Race, player.Class, player.Level))
	content.WriteString(fmt.Sprintf("HP %d/%d  AC %d\n", player.HP, player.MaxHP, player.AC))
	if player.MaxMana > 0 {
		content.WriteString(fmt.Sprintf("Mana %d/%d\n", player.Mana, player.MaxMana))
	}
	content.WriteString(fmt.Sprintf("XP %d  Gold %d\n", player.XP, player.Gold))
	if c := gs.ActiveCompanion(); c != nil {
		content.WriteString(fmt.Sprintf("\n%s\nHP %d/%d\n", c.Name, c.HP, c.MaxHP))
	}

	content.WriteString("\n" + titleStyle.Render("WORLD") + "\n\n")
	content.WriteString("Room: " + roomName + "\n")
	content.WriteString(fmt.Sprintf("Turn: %d\n", gs.Turn))
	content.WriteString(fmt.Sprintf("Pack: %d items\n", len(gs.Inventory)))

	if gs.InCombat {
		content.WriteString("\n" + titleStyle.Render("COMBAT") + "\n\n")
		for _, enemy := range gs.Enemies {
			marker := ""
			if enemy.IsDown() {
				marker = " (down)"
			}
			content.WriteString(fmt.Sprintf("%s %d/%d%s\n", enemy.Name, enemy.HP, enemy.MaxHP, marker))
		}
	}
	if gs.GameOver {
		content.WriteString("\n" + titleStyle.Render("GAME OVER") + "\n")
	}

	content.WriteString("\n" + promptStyle.Render("Enter: act  Ctrl+Y: copy\nCtrl+C: quit") + "\n")
	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Sequence(m.save(), tea.Quit)
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Sequence(m.save(), tea.Quit)
			case "n", "N":
				m.showQuitModal = false
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
	content.WriteString("Your progress is saved automatically.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit or N to continue"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}
	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar animates the loading state under the transcript.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		switch {
		case i < filled:
			bar.WriteString("█")
		case i == filled && frame%4 < 2:
			bar.WriteString("▓")
		default:
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
