package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/quest-chronicles/internal/engine"
	"github.com/tatianab/quest-chronicles/internal/narrator"
)

type sessionState int

const (
	stateTitle sessionState = iota
	statePlaying
	stateBattle
	stateDead
	stateError
)

// narrateTimeout bounds one narrator call.
const narrateTimeout = 20 * time.Second

type model struct {
	state     sessionState
	game      *Game
	narrator  narrator.Narrator
	textInput textinput.Model
	viewport  viewport.Model
	err       error
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AFAFD7")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

var placeholders = map[sessionState]string{
	stateTitle:   "new <name> <class>, load <name>, list...",
	statePlaying: "What do you do? (help for commands)",
	stateBattle:  "attack, special or run?",
	stateDead:    "revive, menu or /quit",
}

func NewModel(g *Game, n narrator.Narrator) model {
	ti := textinput.New()
	ti.Placeholder = placeholders[stateTitle]
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 60

	if n == nil {
		n = narrator.Plain{}
	}
	m := model{
		state:     stateTitle,
		game:      g,
		narrator:  n,
		textInput: ti,
	}
	m.gameLog = titleStyle.Render("QUEST CHRONICLES") + "\n\n"
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type narrationMsg struct {
	text string
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateError {
				return m, nil
			}
			line := strings.TrimSpace(m.textInput.Value())
			if line == "" {
				return m, nil
			}
			m.textInput.Reset()

			reply, err := m.game.Exec(line)
			if err != nil {
				log.Printf("command %q failed: %v", line, err)
				m.err = err
				m.state = stateError
				return m, nil
			}
			m.appendLine(userStyle.Width(m.logWidth()).Render("> " + line))
			for _, l := range reply.Lines {
				style := gameStyle
				if strings.HasPrefix(l, "Error:") {
					style = errorStyle
				}
				m.appendLine(style.Width(m.logWidth()).Render(l))
			}
			if reply.Quit {
				return m, tea.Quit
			}
			m.syncState()
			m.refreshLog()

			if len(reply.Events) == 0 {
				return m, nil
			}
			cmds := make([]tea.Cmd, 0, len(reply.Events))
			for _, ev := range reply.Events {
				cmds = append(cmds, m.narrate(ev))
			}
			return m, tea.Sequence(cmds...)

		case tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(m.logWidth(), msg.Height-6)
		} else {
			m.viewport.Width = m.logWidth()
			m.viewport.Height = msg.Height - 6
		}
		m.refreshLog()

	case narrationMsg:
		m.appendLine(narrationStyle.Width(m.logWidth()).Render(msg.text))
		m.refreshLog()
		return m, nil
	}

	if m.state != stateError {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *model) appendLine(s string) {
	m.gameLog += s + "\n"
}

func (m *model) refreshLog() {
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	return int(float64(m.width) * 0.65)
}

func (m *model) syncState() {
	switch m.game.Mode() {
	case ModeTitle:
		m.state = stateTitle
	case ModeBattle:
		m.state = stateBattle
	case ModeDead:
		m.state = stateDead
	default:
		m.state = statePlaying
	}
	m.textInput.Placeholder = placeholders[m.state]
}

func (m model) View() string {
	if m.state == stateError {
		return fmt.Sprintf("\n  Error: %v\n\nPress Esc to quit.\n", m.err)
	}

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)
	help := helpStyle.Render("Type help for commands, /quit to save and exit.")

	s := lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+help,
	)
	return "\n" + s + "\n"
}

func (m model) renderState() string {
	var content string
	s := m.game.Session
	if s == nil {
		content = titleStyle.Render("CLASSES") + "\n" + strings.ReplaceAll(classList(), ", ", "\n") + "\n"
	} else {
		content = titleStyle.Render("CHARACTER") + "\n" + strings.Join(statsLines(s), "\n") + "\n\n" +
			titleStyle.Render("INVENTORY") + "\n" + strings.Join(inventoryLines(s), "\n") + "\n"
		if b := s.Battle(); b != nil {
			content += "\n" + titleStyle.Render("ENEMY") + "\n" + renderEnemy(b) + "\n"
		}
		if m.state == stateDead {
			content += "\n" + errorStyle.Render("YOU ARE DEAD") + "\n"
		}
	}

	stateWidth := int(float64(m.width) * 0.33)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func renderEnemy(b *engine.Battle) string {
	e := b.Enemy
	special := "ready"
	if !b.SpecialAvailable() {
		special = "cooling down"
	}
	return fmt.Sprintf("%s\nHP %d/%d  STR %d\n%s: %s", e.Name, e.Health, e.MaxHealth, e.Strength, engine.SpecialName(b.Character.Class), special)
}

func (m model) narrate(ev narrator.Event) tea.Cmd {
	n := m.narrator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), narrateTimeout)
		defer cancel()
		text, err := n.Narrate(ctx, ev)
		if err != nil {
			log.Printf("narrator: %v", err)
			return nil
		}
		if text == "" {
			return nil
		}
		return narrationMsg{text}
	}
}

// Run starts the interactive program.
func Run(g *Game, n narrator.Narrator) error {
	p := tea.NewProgram(NewModel(g, n), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
