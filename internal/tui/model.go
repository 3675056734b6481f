package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
)

// entry is one exchange in the conversation log.
type entry struct {
	question string
	provider string
	answer   string
	sources  []Source
	err      error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	client   *Client
	input    textinput.Model
	viewport viewport.Model
	history  []entry
	provider int
	status   string
	waiting  bool
	ready    bool
}

// New creates a chat model talking to the given client.
func New(client *Client) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question, or /upload <path>. Tab switches provider."
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{client: client, input: ti, viewport: vp, status: "Connected. Type to chat."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

type answerMsg struct {
	question string
	provider string
	result   *QueryResult
	err      error
}

type uploadMsg struct {
	path   string
	result *UploadResult
	err    error
}

func (m Model) queryCmd(question, provider string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Query(context.Background(), question, 3, provider)
		return answerMsg{question: question, provider: provider, result: res, err: err}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		res, err := client.Upload(context.Background(), path)
		return uploadMsg{path: path, result: res, err: err}
	}
}

// Update handles key, window, and API response events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ch)
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case answerMsg:
		m.waiting = false
		e := entry{question: msg.question, provider: msg.provider, err: msg.err}
		if msg.err == nil {
			e.answer = msg.result.Answer
			e.sources = msg.result.Sources
			m.status = fmt.Sprintf("Answered via %s.", msg.provider)
		} else {
			m.status = "Error: " + msg.err.Error()
		}
		m.history = append(m.history, e)
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil

	case uploadMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Upload failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("Indexed %s (%d chunks).", msg.result.Filename, msg.result.Chunks)
			if msg.result.Summary != "" {
				m.history = append(m.history, entry{
					question: "/upload " + msg.path,
					answer:   "Summary: " + msg.result.Summary,
				})
				m.viewport.SetContent(m.renderHistory())
				m.viewport.GotoBottom()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.Reset()
			if path, ok := strings.CutPrefix(line, "/upload "); ok {
				m.waiting = true
				m.status = "Uploading " + strings.TrimSpace(path) + "..."
				return m, m.uploadCmd(strings.TrimSpace(path))
			}
			m.waiting = true
			m.status = "Thinking..."
			return m, m.queryCmd(line, m.currentProvider())
		case "tab":
			m.provider = (m.provider + 1) % len(domain.ProviderPriority)
			m.status = "Provider: " + m.currentProvider()
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) currentProvider() string {
	return string(domain.ProviderPriority[m.provider])
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("docqa chat") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("  provider: "+m.currentProvider())
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "No messages yet. Upload a document and ask about it."
	}
	var b strings.Builder
	for i, e := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + e.question))
		b.WriteString("\n")
		if e.err != nil {
			b.WriteString(errorStyle.Render("Error: " + e.err.Error()))
			continue
		}
		b.WriteString(e.answer)
		for _, src := range e.sources {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render("  • " + src.Metadata[domain.MetaSource] + ": " + excerpt(src.Text, 80)))
		}
	}
	return b.String()
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

var (
	chatBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
