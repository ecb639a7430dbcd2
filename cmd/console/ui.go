package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/questforge/questforge/internal/engine"
	"github.com/questforge/questforge/pkg/scenario"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config        *ConsoleConfig
	client        *http.Client
	sceneViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	loading       bool
	progressTick  int

	// Scenario selection state
	showScenarioModal bool
	loadingScenarios  bool
	scenarios         []scenario.Scenario
	selectedScenario  int

	// Quit confirmation state
	showQuitModal bool

	// Game state
	title          string
	turn           *engine.TurnResponse
	transcript     []string
	selectedChoice int
}

type scenariosLoadedMsg struct {
	scenarios []scenario.Scenario
	err       error
}

type turnMsg struct {
	turn *engine.TurnResponse
	err  error
}

type progressTickMsg struct{}

var (
	scenePanelStyle = lipgloss.NewStyle().
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

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedChoiceStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

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
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:            cfg,
		client:            client,
		sceneViewport:     sceneVp,
		metaViewport:      metaVp,
		showScenarioModal: true,
		loadingScenarios:  true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return m.loadScenarios()
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showScenarioModal {
		return m.updateScenarioModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if !m.loading && m.selectedChoice > 0 {
				m.selectedChoice--
			}
		case tea.KeyDown:
			if !m.loading && m.turn != nil && m.selectedChoice < len(m.turn.Choices)-1 {
				m.selectedChoice++
			}
		case tea.KeyEnter:
			if m.loading || m.turn == nil || len(m.turn.Choices) == 0 {
				return m, nil
			}
			choice := m.turn.Choices[m.selectedChoice]
			m.transcript = append(m.transcript, userStyle.Render("You: ")+choice)
			m.loading = true
			m.progressTick = 0
			m.writeSceneContent()
			return m, tea.Batch(m.sendChoice(choice), progressTick())
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.writeSceneContent()
			return m, nil
		}
		m.err = nil

		// A redirect means the session is gone; back to scenario selection.
		if msg.turn.Redirect != "" {
			m.turn = nil
			m.transcript = nil
			m.showScenarioModal = true
			m.loadingScenarios = true
			m.selectedScenario = 0
			return m, m.loadScenarios()
		}

		m.turn = msg.turn
		m.selectedChoice = 0
		m.transcript = append(m.transcript, narratorStyle.Render(msg.turn.Scene))
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())
		return m, nil

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeSceneContent()
			return m, progressTick()
		}
	}

	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	return m, vpCmd
}

func (m *ConsoleUI) resize() {
	sceneWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - sceneWidth - 6

	choiceLines := 0
	if m.turn != nil {
		choiceLines = len(m.turn.Choices)
	}

	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 7 - choiceLines
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

// writeSceneContent rebuilds the transcript for the current viewport
// width and scrolls to the bottom.
func (m *ConsoleUI) writeSceneContent() {
	sceneWidth := m.sceneViewport.Width - 6
	if sceneWidth < 10 {
		sceneWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("QUESTFORGE") + "\n\n")
	if m.title != "" {
		content.WriteString(m.title + "\n\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", sceneWidth)) + "\n\n")

	for _, block := range m.transcript {
		content.WriteString(wordwrap.String(block, sceneWidth) + "\n\n")
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.sceneViewport.SetContent(content.String())
	m.sceneViewport.GotoBottom()
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE") + "\n\n")

	if m.turn == nil {
		content.WriteString("No session yet.\n")
		return content.String()
	}

	content.WriteString("Session:\n")
	content.WriteString(m.turn.SessionID.String()[:8] + "...\n\n")

	content.WriteString(fmt.Sprintf("HP: %d\n\n", m.turn.CurrentHP))

	content.WriteString("Inventory:\n")
	if len(m.turn.Inventory) == 0 {
		content.WriteString("Empty\n")
	} else {
		for _, item := range m.turn.Inventory {
			content.WriteString("• " + item + "\n")
		}
	}

	if m.turn.GameOver {
		content.WriteString("\n")
		if m.turn.Victory {
			content.WriteString(titleStyle.Render("VICTORY") + "\n")
		} else {
			content.WriteString(errorStyle.Render("GAME OVER") + "\n")
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• ↑/↓: Choose\n")
	content.WriteString("• Enter: Confirm\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) loadScenarios() tea.Cmd {
	return func() tea.Msg {
		scenarios, err := fetchScenarios(m.client, m.config.APIBaseURL)
		return scenariosLoadedMsg{scenarios, err}
	}
}

func (m ConsoleUI) startAdventure(title string) tea.Cmd {
	return func() tea.Msg {
		turn, err := startSession(m.client, m.config.APIBaseURL, title)
		return turnMsg{turn, err}
	}
}

func (m ConsoleUI) sendChoice(choice string) tea.Cmd {
	sessionID := m.turn.SessionID
	return func() tea.Msg {
		turn, err := sendTurn(m.client, m.config.APIBaseURL, sessionID, choice)
		return turnMsg{turn, err}
	}
}

func (m ConsoleUI) updateScenarioModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case scenariosLoadedMsg:
		m.loadingScenarios = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.scenarios = msg.scenarios
		}

	case turnMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.turn = msg.turn
		m.selectedChoice = 0
		m.transcript = []string{narratorStyle.Render(msg.turn.Scene)}
		m.showScenarioModal = false
		m.resize()
		m.writeSceneContent()
		m.metaViewport.SetContent(m.writeMetadata())
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if m.loadingScenarios || m.loading {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedScenario > 0 {
				m.selectedScenario--
			}
		case tea.KeyDown:
			if m.selectedScenario < len(m.scenarios)-1 {
				m.selectedScenario++
			}
		case tea.KeyEnter:
			if len(m.scenarios) > 0 {
				m.title = m.scenarios[m.selectedScenario].Title
				m.loading = true
				m.progressTick = 0
				return m, tea.Batch(m.startAdventure(m.title), progressTick())
			}
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			return m, progressTick()
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
				if m.turn != nil {
					// Best effort; the session expires on its own anyway.
					_ = abandonSession(m.client, m.config.APIBaseURL, m.turn.SessionID)
				}
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderScenarioModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	switch {
	case m.loadingScenarios:
		content.WriteString(modalTitleStyle.Render("Generating Adventures..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Please wait while fresh adventures are written..."))
	case m.err != nil:
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load adventures: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	case m.loading:
		content.WriteString(modalTitleStyle.Render("Starting Adventure..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("The opening scene is being written..."))
	default:
		content.WriteString(modalTitleStyle.Render("Choose Your Adventure"))
		content.WriteString("\n\n")

		for i, sc := range m.scenarios {
			line := fmt.Sprintf("%s — %s", sc.Title, sc.Setting)
			if len(line) > 70 {
				line = line[:67] + "..."
			}
			if i == m.selectedScenario {
				content.WriteString(selectedChoiceStyle.Render("▶ " + line))
			} else {
				content.WriteString(choiceStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(80).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to abandon your adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderChoices() string {
	if m.turn == nil || len(m.turn.Choices) == 0 {
		return ""
	}

	var content strings.Builder
	for i, choice := range m.turn.Choices {
		if i == m.selectedChoice && !m.loading {
			content.WriteString(selectedChoiceStyle.Render("▶ " + choice))
		} else {
			content.WriteString(choiceStyle.Render("  " + choice))
		}
		if i < len(m.turn.Choices)-1 {
			content.WriteString("\n")
		}
	}
	return content.String()
}

func (m ConsoleUI) View() string {
	if m.showScenarioModal {
		return m.renderScenarioModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.sceneViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", sceneWidth-4)),
			m.renderChoices(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.sceneViewport.Width - 6
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
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
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
