// Package tui provides a Bubble Tea terminal user interface for jimeng-imagegen.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/jimeng-imagegen/internal/config"
	"github.com/handiism/jimeng-imagegen/internal/generate"
	"github.com/handiism/jimeng-imagegen/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	failBoxStyle = boxStyle.
			BorderForeground(lipgloss.Color("#FF6B6B"))
)

// maxLogEntries bounds the in-memory log.
const maxLogEntries = 500

// focusField is the form element receiving key input.
type focusField int

const (
	focusAccessKey focusField = iota
	focusSecretKey
	focusOutputDir
	focusRatio
	focusWidth
	focusHeight
	focusPrompt
)

// Message types
type (
	// EventMsg carries one workflow event from the running executor.
	EventMsg struct {
		Event generate.Event
	}

	// RunDoneMsg is sent once the event stream of a run is closed.
	RunDoneMsg struct{}
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	path     string
	settings config.Settings
	executor *generate.Executor

	focus     focusField
	accessKey textinput.Model
	secretKey textinput.Model
	outputDir textinput.Model
	width     textinput.Model
	height    textinput.Model
	prompt    textarea.Model

	spinner spinner.Model
	log     viewport.Model
	logs    []generate.Event
	verbose bool

	// Current run
	running bool
	state   generate.State
	events  <-chan generate.Event
	handle  *generate.Handle

	// modal holds the result of the last run until dismissed.
	modal       string
	modalFailed bool

	// status is the last settings problem, shown under the form.
	status string

	ctx    context.Context
	cancel context.CancelFunc

	termWidth  int
	termHeight int
}

// NewModel creates a TUI model editing settings that are persisted to path.
func NewModel(path string, settings config.Settings, executor *generate.Executor) Model {
	newInput := func(placeholder, value string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 256
		ti.Width = 48
		ti.SetValue(value)
		return ti
	}

	ak := newInput("access key", settings.AccessKey)
	ak.EchoMode = textinput.EchoPassword
	ak.EchoCharacter = '•'
	ak.Focus()

	sk := newInput("secret key", settings.SecretKey)
	sk.EchoMode = textinput.EchoPassword
	sk.EchoCharacter = '•'

	w := newInput("width", strconv.Itoa(settings.CustomWidth))
	w.CharLimit = 5
	w.Width = 8
	h := newInput("height", strconv.Itoa(settings.CustomHeight))
	h.CharLimit = 5
	h.Width = 8

	ta := textarea.New()
	ta.Placeholder = "Describe the image..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(4)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		path:      path,
		settings:  settings,
		executor:  executor,
		focus:     focusAccessKey,
		accessKey: ak,
		secretKey: sk,
		outputDir: newInput(config.DefaultOutputDirectory, settings.OutputDirectory),
		width:     w,
		height:    h,
		prompt:    ta,
		spinner:   sp,
		log:       viewport.New(80, 8),
		state:     generate.StateIdle,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Settings returns the settings as currently edited.
func (m Model) Settings() config.Settings { return m.settings }

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.log.Width = max(msg.Width-4, 20)
		m.log.Height = max(msg.Height-26, 4)
		m.prompt.SetWidth(min(max(msg.Width-6, 20), 100))
		m.refreshLog()
		return m, nil

	case tea.KeyMsg:
		if m.modal != "" {
			switch msg.String() {
			case "enter", "esc", " ":
				m.modal = ""
			case "ctrl+c":
				return m.quit()
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()

		case "tab", "down":
			if msg.String() == "down" && m.focus == focusPrompt {
				break
			}
			return m, m.moveFocus(1)

		case "shift+tab", "up":
			if msg.String() == "up" && m.focus == focusPrompt {
				break
			}
			return m, m.moveFocus(-1)

		case "left", "right":
			if m.focus == focusRatio {
				step := 1
				if msg.String() == "left" {
					step = -1
				}
				m.cycleRatio(step)
				return m, nil
			}

		case "ctrl+g":
			return m, m.startRun()

		case "ctrl+d":
			m.prompt.SetValue(config.DefaultPrompt)
			return m, nil

		case "ctrl+x":
			m.prompt.Reset()
			return m, nil

		case "ctrl+t":
			m.verbose = !m.verbose
			m.refreshLog()
			return m, nil
		}

		cmds = append(cmds, m.updateFocused(msg))

	case spinner.TickMsg:
		if m.running {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case EventMsg:
		m.state = msg.Event.State
		m.logs = append(m.logs, msg.Event)
		if len(m.logs) > maxLogEntries {
			m.logs = m.logs[len(m.logs)-maxLogEntries:]
		}
		m.refreshLog()
		cmds = append(cmds, waitForEvent(m.events))

	case RunDoneMsg:
		m.finishRun()

	default:
		cmds = append(cmds, m.updateFocused(msg))
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Jimeng Image Generator"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Text-to-image with the Volcengine visual API"))
	b.WriteString("\n\n")

	b.WriteString(m.viewForm())
	b.WriteString("\n")

	if m.modal != "" {
		style := boxStyle
		if m.modalFailed {
			style = failBoxStyle
		}
		b.WriteString(style.Render(m.modal))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewStatus())
		b.WriteString("\n\n")
		b.WriteString(m.log.View())
		b.WriteString("\n")
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	row := func(f focusField, label, value string) {
		marker := "  "
		l := infoStyle.Render(fmt.Sprintf("%-14s", label))
		if m.focus == f {
			marker = focusStyle.Render("› ")
			l = focusStyle.Render(fmt.Sprintf("%-14s", label))
		}
		b.WriteString(marker + l + " " + value + "\n")
	}

	row(focusAccessKey, "Access key", m.accessKey.View())
	row(focusSecretKey, "Secret key", m.secretKey.View())
	row(focusOutputDir, "Output dir", m.outputDir.View())
	row(focusRatio, "Aspect ratio", m.viewRatio())
	if m.settings.AspectRatio == model.RatioCustom {
		row(focusWidth, "Width", m.width.View())
		row(focusHeight, "Height", m.height.View())
	}

	w, h := m.settings.Dimensions()
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Image size: %d×%d", w, h)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(warningStyle.Render("  " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	label := subtitleStyle.Render("Prompt:")
	if m.focus == focusPrompt {
		label = focusStyle.Render("Prompt:")
	}
	b.WriteString(label)
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRatio() string {
	var parts []string
	for _, r := range model.AspectRatios() {
		if r == m.settings.AspectRatio {
			parts = append(parts, focusStyle.Render("["+string(r)+"]"))
		} else {
			parts = append(parts, dimStyle.Render(string(r)))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) viewStatus() string {
	if m.running {
		return m.spinner.View() + " " + subtitleStyle.Render("Generating... ("+m.state.String()+")")
	}
	if !m.settings.HasCredentials() {
		return warningStyle.Render("Enter access key and secret key to generate")
	}
	return successStyle.Render("Ready. Press ctrl+g to generate")
}

func (m Model) getHelpText() string {
	if m.modal != "" {
		return "enter: close"
	}
	verbose := "off"
	if m.verbose {
		verbose = "on"
	}
	help := "tab: next field • ←/→: ratio • ctrl+d: default prompt • ctrl+x: clear prompt • ctrl+t: verbose " + verbose + " • esc: quit"
	if !m.running {
		help = "ctrl+g: generate • " + help
	}
	return help
}

// renderLogs formats the log as timestamped lines.
func (m Model) renderLogs() string {
	var b strings.Builder

	for _, ev := range m.logs {
		if ev.Level == generate.LevelVerbose && !m.verbose {
			continue
		}

		var style lipgloss.Style
		switch ev.Level {
		case generate.LevelError:
			style = errorStyle
		case generate.LevelWarning:
			style = warningStyle
		case generate.LevelSuccess:
			style = successStyle
		case generate.LevelInfo:
			style = infoStyle
		default:
			style = dimStyle
		}
		b.WriteString(dimStyle.Render("[" + ev.Time.Format("15:04:05") + "] "))
		b.WriteString(style.Render(ev.Message))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m *Model) refreshLog() {
	m.log.SetContent(m.renderLogs())
	m.log.GotoBottom()
}

// focusable lists the fields reachable with tab in the current layout.
func (m Model) focusable() []focusField {
	fields := []focusField{focusAccessKey, focusSecretKey, focusOutputDir, focusRatio}
	if m.settings.AspectRatio == model.RatioCustom {
		fields = append(fields, focusWidth, focusHeight)
	}
	return append(fields, focusPrompt)
}

func (m *Model) moveFocus(step int) tea.Cmd {
	fields := m.focusable()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(fields)) % len(fields)
	return m.setFocus(fields[idx])
}

func (m *Model) setFocus(f focusField) tea.Cmd {
	if in := m.input(m.focus); in != nil {
		in.Blur()
	}
	m.prompt.Blur()

	// Show the clamped value once editing of a size ends.
	m.width.SetValue(strconv.Itoa(m.settings.CustomWidth))
	m.height.SetValue(strconv.Itoa(m.settings.CustomHeight))

	m.focus = f
	if f == focusPrompt {
		return m.prompt.Focus()
	}
	if in := m.input(f); in != nil {
		return in.Focus()
	}
	return nil
}

// input returns the text input behind f, or nil for the ratio and prompt.
func (m *Model) input(f focusField) *textinput.Model {
	switch f {
	case focusAccessKey:
		return &m.accessKey
	case focusSecretKey:
		return &m.secretKey
	case focusOutputDir:
		return &m.outputDir
	case focusWidth:
		return &m.width
	case focusHeight:
		return &m.height
	}
	return nil
}

func settingsField(f focusField) config.Field {
	switch f {
	case focusAccessKey:
		return config.FieldAccessKey
	case focusSecretKey:
		return config.FieldSecretKey
	case focusOutputDir:
		return config.FieldOutputDirectory
	case focusWidth:
		return config.FieldCustomWidth
	case focusHeight:
		return config.FieldCustomHeight
	}
	return config.FieldAspectRatio
}

// updateFocused forwards msg to the focused component and applies any edit
// to the settings.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.focus == focusPrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return cmd
	}

	in := m.input(m.focus)
	if in == nil {
		return nil
	}
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != before {
		m.applyField(settingsField(m.focus), in.Value())
	}
	return cmd
}

func (m *Model) cycleRatio(step int) {
	ratios := model.AspectRatios()
	idx := 0
	for i, r := range ratios {
		if r == m.settings.AspectRatio {
			idx = i
		}
	}
	idx = (idx + step + len(ratios)) % len(ratios)
	m.applyField(config.FieldAspectRatio, string(ratios[idx]))
}

// applyField updates one setting and persists the result when it changed.
func (m *Model) applyField(field config.Field, value string) {
	next, err := m.settings.With(field, value)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
	if next == m.settings {
		return
	}
	m.settings = next
	m.save()
}

func (m *Model) save() {
	if err := config.Save(m.path, m.settings); err != nil {
		m.status = "Settings not saved: " + err.Error()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	m.save()
	return m, tea.Quit
}

// startRun launches the workflow unless one is already active.
func (m *Model) startRun() tea.Cmd {
	if m.running {
		return nil
	}

	m.logs = nil
	m.refreshLog()
	m.running = true
	m.state = generate.StateIdle
	m.events, m.handle = m.executor.Stream(m.ctx, m.settings, m.prompt.Value())

	return tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

func (m *Model) finishRun() {
	if m.handle == nil {
		return
	}
	outcome := m.handle.Wait()
	m.running = false
	m.state = outcome.State
	m.events = nil
	m.handle = nil
	m.modal, m.modalFailed = resultText(outcome), outcome.State == generate.StateFailed
}

// resultText is the body of the result box.
func resultText(out generate.Outcome) string {
	if out.State == generate.StateFailed {
		return errorStyle.Render("Generation failed") + "\n\n" + out.Err.Error()
	}

	var b strings.Builder
	b.WriteString(successStyle.Render("Generation complete"))
	b.WriteString(fmt.Sprintf("\n\nSaved %d of %d images", out.Saved, len(out.Results)))
	for _, r := range out.Results {
		if r.Success {
			b.WriteString("\n  " + r.LocalPath)
		}
	}
	return b.String()
}

// waitForEvent reads the next event of a run.
func waitForEvent(events <-chan generate.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return RunDoneMsg{}
		}
		return EventMsg{Event: ev}
	}
}

// Run starts the TUI application with settings from path.
func Run(path string) error {
	m := NewModel(path, config.Load(path), generate.NewExecutor(generate.Options{}))
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.cancel()
		if fm.handle != nil {
			for range fm.events {
			}
			fm.handle.Wait()
		}
	}
	return err
}
