package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"neighbournode.dev/cli/internal/core/domain"
)

// newChatCommand creates the chat subcommand
func newChatCommand(container *CLIContainer) *cobra.Command {
	var (
		lat float64
		lng float64
	)

	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask the neighbourhood assistant",
		Long: `Ask the Neighbour Node assistant what is available around you. It
answers from live listings and urgent needs near your location.

With a question argument it answers once and exits. Without arguments it
opens an interactive session.`,
		Example: `  nn chat "anyone lending a pressure washer?"
  nn chat`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			latPtr, lngPtr := resolveChatLocation(cmd, container, lat, lng)

			if len(args) > 0 {
				return runChatOnce(cmd, container, strings.Join(args, " "), latPtr, lngPtr)
			}
			return runChatSession(container, latPtr, lngPtr)
		},
	}

	addLocationFlags(cmd, &lat, &lng)

	return cmd
}

// resolveChatLocation picks the location sent with chat queries. Flags
// win, then the profile home location; without either the assistant
// answers location-free.
func resolveChatLocation(cmd *cobra.Command, container *CLIContainer, lat, lng float64) (*float64, *float64) {
	flags := cmd.Flags()
	if flags.Changed("lat") && flags.Changed("lng") {
		return &lat, &lng
	}

	profile, err := container.Gateway.Profile(cmd.Context())
	if err != nil || profile == nil {
		return nil, nil
	}
	return &profile.Lat, &profile.Lng
}

// runChatOnce sends a single question and prints the answer
func runChatOnce(cmd *cobra.Command, container *CLIContainer, question string, lat, lng *float64) error {
	query := domain.ChatQuery{Query: question, Lat: lat, Lng: lng}

	answer, err := container.Gateway.AskChatbot(cmd.Context(), query)
	if err != nil {
		return err
	}

	return renderResult(cmd, container.Config.Output, answer, func() string {
		return formatChatAnswer(answer)
	})
}

// runChatSession starts the interactive Bubble Tea chat
func runChatSession(container *CLIContainer, lat, lng *float64) error {
	program := tea.NewProgram(newChatModel(container, lat, lng))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}

const (
	roleYou       = "you"
	roleAssistant = "nn"
)

var (
	chatYouStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	chatAssistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// chatEntry is one line of the transcript
type chatEntry struct {
	role string
	text string
}

// chatModel holds the state for the Bubble Tea chat session
type chatModel struct {
	container   *CLIContainer
	lat         *float64
	lng         *float64
	history     []chatEntry
	input       []rune
	waiting     bool
	windowWidth int
}

// newChatModel creates a new chat model
func newChatModel(container *CLIContainer, lat, lng *float64) chatModel {
	return chatModel{
		container: container,
		lat:       lat,
		lng:       lng,
		history:   []chatEntry{},
		input:     []rune{},
	}
}

// Init implements the Bubble Tea init method
func (m chatModel) Init() tea.Cmd {
	return nil
}

// Update implements the Bubble Tea update method
func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			question := strings.TrimSpace(string(m.input))
			if question == "" || m.waiting {
				return m, nil
			}
			if question == "/quit" || question == "/exit" {
				return m, tea.Quit
			}
			m.history = append(m.history, chatEntry{role: roleYou, text: question})
			m.input = m.input[:0]
			m.waiting = true
			return m, m.askCmd(question)

		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil

		case tea.KeySpace:
			m.input = append(m.input, ' ')
			return m, nil

		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
			return m, nil
		}

	case chatAnswerMsg:
		m.waiting = false
		m.history = append(m.history, chatEntry{role: roleAssistant, text: formatChatAnswer(msg.answer)})
		return m, nil

	case chatErrMsg:
		// Keep the session alive, show the failure inline
		m.waiting = false
		m.history = append(m.history, chatEntry{role: roleAssistant, text: warnStyle.Render("⚠️  " + msg.err.Error())})
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m chatModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("💬 Neighbour Node Assistant"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Enter sends, Esc or /quit leaves"))
	b.WriteString("\n\n")

	for _, entry := range m.history {
		prefix := chatYouStyle.Render(roleYou + " ❯ ")
		if entry.role == roleAssistant {
			prefix = chatAssistantStyle.Render(roleAssistant + " ❯ ")
		}
		b.WriteString(prefix + entry.text + "\n")
	}

	if m.waiting {
		b.WriteString(dimStyle.Render("nn is thinking...") + "\n")
	}

	b.WriteString("\n" + chatYouStyle.Render(roleYou+" ❯ ") + string(m.input) + "█")
	return b.String()
}

// chatAnswerMsg is sent when the assistant answers
type chatAnswerMsg struct {
	answer *domain.ChatAnswer
}

// chatErrMsg is sent when a query fails
type chatErrMsg struct {
	err error
}

// askCmd sends the question to the backend off the UI loop
func (m chatModel) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		query := domain.ChatQuery{Query: question, Lat: m.lat, Lng: m.lng}

		answer, err := m.container.Gateway.AskChatbot(context.Background(), query)
		if err != nil {
			return chatErrMsg{err: err}
		}
		return chatAnswerMsg{answer: answer}
	}
}
