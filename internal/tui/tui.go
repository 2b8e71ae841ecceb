package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/matchmaker/internal/models"
	"github.com/tatianab/matchmaker/internal/pairing"
)

type sessionState int

const (
	stateLoading sessionState = iota
	stateIdle
	statePaired
	stateHistory
	stateError
)

type model struct {
	state    sessionState
	session  *pairing.Session
	timeout  time.Duration
	viewport viewport.Model
	spinner  spinner.Model
	loading  string
	selected int
	err      error
	width    int
	height   int
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A5B4FC")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#FFA500"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)

	outcomeStyles = map[models.Outcome]lipgloss.Style{
		models.OutcomeHappy:   lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399")).Bold(true),
		models.OutcomeNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5E1")).Bold(true),
		models.OutcomeBitter:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FB7185")).Bold(true),
	}
)

func NewModel(session *pairing.Session, timeout time.Duration) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		state:    stateLoading,
		session:  session,
		timeout:  timeout,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		loading:  "Summoning two strangers...",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.reset())
}

// sessionUpdatedMsg reports that a session operation finished.
type sessionUpdatedMsg struct {
	err error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.state == stateLoading {
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		// The session belongs to the running command while loading.
		if m.state != stateLoading {
			m.refreshContent()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionUpdatedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.selected = 0
		if m.session.State() == pairing.StatePaired {
			m.state = statePaired
		} else {
			m.state = stateIdle
		}
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || (key == "esc" && m.state != stateError && m.state != stateHistory) {
		return m, tea.Quit
	}

	switch m.state {
	case stateError:
		// Failed operations leave the session untouched; go back to it.
		m.err = nil
		return m.update(sessionUpdatedMsg{})

	case stateHistory:
		if key == "h" || key == "esc" {
			return m.update(sessionUpdatedMsg{})
		}

	case stateIdle:
		switch key {
		case "enter", "p":
			return m.startLoading("The goddess ties the red thread...", m.pair())
		case "1":
			return m.startLoading("Finding a new candidate A...", m.refresh(pairing.SlotA))
		case "2":
			return m.startLoading("Finding a new candidate B...", m.refresh(pairing.SlotB))
		case "r":
			return m.startLoading("Summoning two strangers...", m.reset())
		case "h":
			m.state = stateHistory
			m.refreshContent()
			m.viewport.GotoTop()
			return m, nil
		}

	case statePaired:
		result, _ := m.session.Result()
		switch key {
		case "left", "k":
			if m.selected > 0 {
				m.selected--
			}
			m.refreshContent()
			return m, nil
		case "right", "j":
			if m.selected < len(result.Children)-1 {
				m.selected++
			}
			m.refreshContent()
			return m, nil
		case "a", "b":
			slot := pairing.SlotA
			if key == "b" {
				slot = pairing.SlotB
			}
			err := m.session.ContinueLineage(result.Children[m.selected], slot)
			return m.update(sessionUpdatedMsg{err: err})
		case "r":
			return m.startLoading("Summoning two strangers...", m.reset())
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.Update(msg)
}

func (m model) startLoading(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.state = stateLoading
	m.loading = label
	return m, tea.Batch(m.spinner.Tick, cmd)
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateLoading:
		s = fmt.Sprintf("\n  %s %s\n", m.spinner.View(), m.loading)

	case stateIdle:
		s = lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			helpStyle.Render("enter: pair • 1/2: new candidate A/B • r: reset • h: stories • q: quit"),
		)

	case statePaired:
		s = lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			helpStyle.Render("←/→: choose child • a/b: replace candidate A/B • r: reset • q: quit"),
		)

	case stateHistory:
		s = lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			helpStyle.Render("h/esc: back • ↑/↓: scroll"),
		)

	case stateError:
		s = fmt.Sprintf("\n  %s %v\n\n%s",
			errorStyle.Render("Error:"), m.err,
			helpStyle.Render("  Press any key to go back, q to quit."))
	}

	return "\n" + s + "\n"
}

func (m *model) refreshContent() {
	width := max(m.width/2-2, 30)

	var content string
	switch m.state {
	case stateIdle:
		a, okA := m.session.Parent(pairing.SlotA)
		b, okB := m.session.Parent(pairing.SlotB)
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Width(width).Render(titleStyle.Render("CANDIDATE A")+"\n"+renderNPC(a, okA)),
			cardStyle.Width(width).Render(titleStyle.Render("CANDIDATE B")+"\n"+renderNPC(b, okB)),
		)

	case statePaired:
		result, _ := m.session.Result()
		header := titleStyle.Render("MARRIAGE") + " " + outcomeStyles[result.Outcome].Render(string(result.Outcome))
		story := lipgloss.NewStyle().Width(m.viewport.Width).Render(result.Story)

		card := selectedCardStyle.Width(width).Render(
			titleStyle.Render(fmt.Sprintf("CHILD %d/%d", m.selected+1, len(result.Children))) + "\n" +
				renderNPC(result.Children[m.selected], true))
		content = header + "\n\n" + story + "\n\n" + card

	case stateHistory:
		history := m.session.History()
		if len(history) == 0 {
			content = dimStyle.Render("No marriages yet.")
			break
		}
		var sb strings.Builder
		sb.WriteString(titleStyle.Render("STORIES") + "\n\n")
		for i, story := range history {
			sb.WriteString(dimStyle.Render(fmt.Sprintf("#%d", len(history)-i)) + "\n")
			sb.WriteString(lipgloss.NewStyle().Width(m.viewport.Width).Render(story) + "\n\n")
		}
		content = sb.String()
	}

	m.viewport.SetContent(content)
}

func renderNPC(npc models.NPC, ok bool) string {
	if !ok {
		return dimStyle.Render("(empty, press r)")
	}
	var sb strings.Builder
	sb.WriteString(nameStyle.Render(npc.Identity) + "\n")
	sb.WriteString(dimStyle.Render(fmt.Sprintf("Generation %d | %s | %s", npc.Generation, npc.Race, npc.SocialClass)) + "\n\n")

	sb.WriteString(fmt.Sprintf("Appearance (%d)\n", npc.Appearance.Score))
	sb.WriteString(fmt.Sprintf("  Hair: %s  Eyes: %s\n", npc.Appearance.HairColor, npc.Appearance.EyeColor))
	sb.WriteString(fmt.Sprintf("  Face: %s  Eye shape: %s\n", npc.Appearance.FaceShape, npc.Appearance.EyeShape))
	sb.WriteString("  " + npc.Appearance.Description + "\n")
	sb.WriteString(fmt.Sprintf("Combat (%d): %s\n", npc.Combat.Value, npc.Combat.Description))
	sb.WriteString(fmt.Sprintf("Constitution (%d): %s\n", npc.Constitution.Value, npc.Constitution.Description))
	sb.WriteString(fmt.Sprintf("Intelligence (%d): %s\n", npc.Intelligence.Value, npc.Intelligence.Description))

	if len(npc.Tags) > 0 {
		sb.WriteString("#" + strings.Join(npc.Tags, " #") + "\n")
	}
	sb.WriteString("\nPersonality: " + npc.Personality + "\n")
	sb.WriteString("Likes: " + strings.Join(npc.Likes, ", ") + "\n")
	sb.WriteString("Dislikes: " + strings.Join(npc.Dislikes, ", ") + "\n")
	sb.WriteString(dimStyle.Render(npc.Backstory) + "\n")
	sb.WriteString("Ideal partner: " + npc.Preference)
	return sb.String()
}

func (m model) run(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		return sessionUpdatedMsg{err: op(ctx)}
	}
}

func (m model) reset() tea.Cmd {
	return m.run(m.session.Reset)
}

func (m model) refresh(slot pairing.Slot) tea.Cmd {
	return m.run(func(ctx context.Context) error {
		return m.session.Refresh(ctx, slot)
	})
}

func (m model) pair() tea.Cmd {
	return m.run(func(ctx context.Context) error {
		_, err := m.session.Pair(ctx)
		return err
	})
}

func Run(session *pairing.Session, timeout time.Duration) error {
	p := tea.NewProgram(NewModel(session, timeout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
