package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/decision-duel/internal/game"
	"github.com/user/decision-duel/internal/interfaces"
	"github.com/user/decision-duel/internal/types"
)

// pollInterval is how often the view refreshes while a round is resolving
const pollInterval = 200 * time.Millisecond

type keyMap struct {
	Strategy key.Binding
	Restart  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Strategy, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Strategy: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5"),
		key.WithHelp("1-5", "choose strategy"),
	),
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "new game"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(0, 1).
			Width(34)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2)

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D787")).
			Bold(true)

	loseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
)

type model struct {
	gameManager interfaces.GameManager
	state       types.GameState
	analysis    *types.GameAnalysis
	log         []string
	busy        bool
	err         error
	help        help.Model
	viewport    viewport.Model
	width       int
	height      int
}

// NewModel creates the terminal UI for a game manager
func NewModel(gameManager interfaces.GameManager) tea.Model {
	return model{
		gameManager: gameManager,
		help:        help.New(),
		viewport:    viewport.New(70, 8),
	}
}

// Run starts the terminal UI and blocks until the player quits
func Run(gameManager interfaces.GameManager) error {
	p := tea.NewProgram(NewModel(gameManager), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type startedMsg struct {
	state types.GameState
}

type roundMsg struct {
	result *types.TurnResult
	err    error
}

type pollMsg struct{}

func (m model) startGame() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{state: m.gameManager.StartGame()}
	}
}

func (m model) chooseStrategy(id types.StrategyID) tea.Cmd {
	return func() tea.Msg {
		result, err := m.gameManager.ChooseStrategy(id)
		return roundMsg{result: result, err: err}
	}
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (m model) Init() tea.Cmd {
	return m.startGame()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Restart):
			m.gameManager.ResetGame()
			m.log = nil
			m.analysis = nil
			m.busy = false
			m.err = nil
			return m, m.startGame()

		case key.Matches(msg, keys.Strategy):
			if m.busy || m.state.IsGameOver {
				return m, nil
			}
			id, ok := game.ParseStrategy(msg.String())
			if !ok {
				return m, nil
			}
			m.busy = true
			m.appendLog(fmt.Sprintf("Round %d: AI is thinking...", m.state.Round))
			return m, m.chooseStrategy(id)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(4, msg.Height-22)
		m.viewport.SetContent(strings.Join(m.log, "\n"))

	case startedMsg:
		m.state = msg.state
		m.appendLog("New game started. Pick a strategy with keys 1-5.")
		return m, nil

	case roundMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if !msg.result.Accepted {
			return m, nil
		}
		m.state = msg.result.State
		for _, line := range msg.result.Log {
			m.appendLog(line)
		}
		if msg.result.Analysis != nil {
			m.analysis = msg.result.Analysis
		}
		if m.state.Phase == types.PhaseResolving {
			m.busy = true
			return m, poll()
		}
		return m, nil

	case pollMsg:
		state, ok := m.gameManager.GetState()
		if !ok {
			m.busy = false
			return m, nil
		}
		m.state = state
		if state.Phase == types.PhaseResolving {
			return m, poll()
		}
		m.busy = false
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) appendLog(line string) {
	m.log = append(m.log, line)
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()
}

func renderStats(title string, s types.Stats, extra string) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title) + "\n")
	for _, attr := range types.Attributes {
		b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render(fmt.Sprintf("%-11s", attr)), s.Get(attr)))
	}
	b.WriteString(fmt.Sprintf("%s %.1f\n", labelStyle.Render(fmt.Sprintf("%-11s", "ability")), game.Ability(s)))
	b.WriteString(extra)
	return panelStyle.Render(b.String())
}

func (m model) renderStrategies() string {
	var b strings.Builder
	for _, s := range m.gameManager.GetStrategies() {
		b.WriteString(fmt.Sprintf("[%s] %s %-24s risk %2d\n", s.Hotkey, s.Icon, s.Name, s.Risk))
	}
	return b.String()
}

func (m model) renderAnalysis() string {
	a := m.analysis
	var b strings.Builder

	switch a.Winner {
	case types.WinnerPlayer:
		b.WriteString(winStyle.Render("You win!") + "\n")
	case types.WinnerAI:
		b.WriteString(loseStyle.Render("The AI wins.") + "\n")
	default:
		b.WriteString(labelStyle.Render("Draw.") + "\n")
	}
	b.WriteString(a.Outcome.OutcomeReason + "\n\n")

	b.WriteString(titleStyle.Render("Thinking patterns") + "\n")
	for _, p := range a.StrategyPatterns {
		b.WriteString(fmt.Sprintf("%s %s: %d rounds (%d%%), effectiveness %.0f\n",
			p.Icon, p.Description, p.Frequency, p.FrequencyPercentage, p.Effectiveness))
	}
	for _, line := range a.AIExplanation {
		b.WriteString("- " + line + "\n")
	}
	if a.Recommendations.Overall != "" {
		b.WriteString("\n" + a.Recommendations.Overall + "\n")
	}
	for _, s := range a.Recommendations.Specific {
		b.WriteString(fmt.Sprintf("%s: %s\n", s.Situation, s.Suggestion))
	}
	b.WriteString(labelStyle.Render("Analysis id: "+a.GameID) + "\n")
	return b.String()
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Decision Duel") + "\n\n")
	if m.state.MaxRounds > 0 {
		b.WriteString(fmt.Sprintf("Round %d/%d   Risk level %d\n\n", m.state.Round, m.state.MaxRounds, m.state.RiskLevel))
	}

	player := renderStats("You", m.state.Player, "")
	ai := renderStats("AI", m.state.AI.Stats, fmt.Sprintf("%s %d", labelStyle.Render(fmt.Sprintf("%-11s", "threat")), m.state.AI.ThreatLevel))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, player, " ", ai) + "\n\n")

	if m.analysis != nil {
		b.WriteString(m.renderAnalysis() + "\n")
	} else {
		b.WriteString(m.renderStrategies() + "\n")
	}

	b.WriteString(logStyle.Render(m.viewport.View()) + "\n")

	if m.err != nil {
		b.WriteString(loseStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(keys)))
	return b.String()
}
