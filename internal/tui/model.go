package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuispeak/internal/i18n"
	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/prompts"
	"github.com/verte-zerg/tuispeak/internal/recorder"
)

const defaultToastTTL = 3 * time.Second

// Controller is the part of recorder.Controller the UI drives.
type Controller interface {
	State() recorder.State
	SetInput(text, topic string)
	Start(ctx context.Context) error
	Stop() error
	Abandon()
}

type toast struct {
	id    int
	level recorder.Level
	key   string
}

type eventMsg recorder.Event

type eventsClosedMsg struct{}

type toastExpiredMsg struct{ id int }

type controllerErrMsg struct{ err error }

// Model implements the Bubble Tea practice UI.
type Model struct {
	ctrl     Controller
	events   <-chan recorder.Event
	bank     *prompts.Bank
	logger   logging.Logger
	lang     i18n.Lang
	toastTTL time.Duration

	topics   []string
	topicIdx int

	input   textinput.Model
	spinner spinner.Model

	state      recorder.State
	processing bool
	score      *model.ScoreResult

	toasts    []toast
	nextToast int

	width  int
	height int
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	topicStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	recordingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	idleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle      = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)

	toastStyles = map[recorder.Level]lipgloss.Style{
		recorder.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6CB6FF")),
		recorder.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
		recorder.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")),
		recorder.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
)

// Options configures a practice Model.
type Options struct {
	Lang     i18n.Lang
	Topics   []string
	Topic    string
	Text     string
	ToastTTL time.Duration
	Logger   logging.Logger
}

// NewModel constructs a practice TUI model. Events must be the channel the controller reports to.
func NewModel(ctrl Controller, events <-chan recorder.Event, bank *prompts.Bank, opts Options) *Model {
	if opts.Lang == "" {
		opts.Lang = i18n.English
	}
	if opts.ToastTTL <= 0 {
		opts.ToastTTL = defaultToastTTL
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	topics := opts.Topics
	if len(topics) == 0 {
		topics = bank.Topics()
	}

	input := textinput.New()
	input.CharLimit = 500
	input.SetValue(opts.Text)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctrl:     ctrl,
		events:   events,
		bank:     bank,
		logger:   opts.Logger,
		lang:     opts.Lang,
		toastTTL: opts.ToastTTL,
		topics:   topics,
		input:    input,
		spinner:  sp,
	}
	for i, t := range topics {
		if t == opts.Topic {
			m.topicIdx = i
		}
	}
	m.applyLang()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(10, m.contentWidth()-lipgloss.Width(m.input.Prompt)-1)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		cmd := m.handleEvent(recorder.Event(msg))
		return m, tea.Batch(cmd, m.listen())
	case eventsClosedMsg:
		return m, nil
	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil
	case controllerErrMsg:
		m.logger.Warnw("controller call failed", "error", msg.err)
		return m, nil
	case spinner.TickMsg:
		if !m.processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Sequence(m.abandon(), tea.Quit)
	case tea.KeyCtrlR:
		return m, m.toggleRecording()
	case tea.KeyCtrlG:
		return m, m.fillSample()
	case tea.KeyCtrlL:
		m.lang = m.lang.Next()
		m.applyLang()
		return m, nil
	case tea.KeyTab:
		m.moveTopic(1)
		return m, nil
	case tea.KeyShiftTab:
		m.moveTopic(-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// toggleRecording starts or stops capture off the UI goroutine; outcomes arrive as events.
func (m *Model) toggleRecording() tea.Cmd {
	ctrl := m.ctrl
	ctrl.SetInput(m.input.Value(), m.currentTopic())
	if st := ctrl.State(); st == recorder.Recording || st == recorder.Opening {
		return func() tea.Msg {
			if err := ctrl.Stop(); err != nil {
				return controllerErrMsg{err: err}
			}
			return nil
		}
	}
	m.score = nil
	return func() tea.Msg {
		err := ctrl.Start(context.Background())
		if err == nil || errors.Is(err, recorder.ErrAlreadyRecording) {
			return nil
		}
		return controllerErrMsg{err: err}
	}
}

func (m *Model) abandon() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Abandon()
		return nil
	}
}

func (m *Model) listen() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *Model) handleEvent(ev recorder.Event) tea.Cmd {
	var cmds []tea.Cmd
	if ev.State != nil {
		prev := m.state
		m.state = *ev.State
		if prev == recorder.Recording && m.state == recorder.Idle {
			m.processing = true
			cmds = append(cmds, m.spinner.Tick)
		}
	}
	if ev.Score != nil {
		res := *ev.Score
		m.score = &res
	}
	if n := ev.Notification; n != nil {
		switch n.Key {
		case recorder.MsgEvaluationDone, recorder.MsgEvaluationRejected, recorder.MsgEvaluationFailed, recorder.MsgMissingInput:
			m.processing = false
		}
		if n.Err != nil {
			m.logger.Infow("notification", "key", string(n.Key), "level", n.Level.String(), "error", n.Err)
		}
		cmds = append(cmds, m.pushToast(n.Level, string(n.Key)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) pushToast(level recorder.Level, key string) tea.Cmd {
	m.nextToast++
	id := m.nextToast
	m.toasts = append(m.toasts, toast{id: id, level: level, key: key})
	return tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m *Model) fillSample() tea.Cmd {
	text, ok := m.bank.Pick(m.currentTopic())
	if !ok {
		return m.pushToast(recorder.LevelInfo, i18n.KeyNoSample)
	}
	m.input.SetValue(text)
	m.input.CursorEnd()
	return nil
}

func (m *Model) moveTopic(delta int) {
	count := len(m.topics)
	if count == 0 {
		return
	}
	m.topicIdx = (m.topicIdx + delta + count) % count
}

func (m *Model) currentTopic() string {
	if len(m.topics) == 0 {
		return ""
	}
	return m.topics[m.topicIdx]
}

func (m *Model) applyLang() {
	m.input.Prompt = m.lang.T(i18n.KeyPracticeText) + ": "
	m.input.Placeholder = m.lang.T(i18n.KeyPlaceholder)
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := int(float64(m.width) * 0.70)
	if w < 20 {
		w = minInt(m.width, 20)
	}
	return w
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render(m.lang.T(i18n.KeyTitle)) + "  " + m.renderStatus(),
		m.renderTopic(),
		m.input.View(),
	}
	if card := m.renderScore(); card != "" {
		sections = append(sections, card)
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderStatus() string {
	switch {
	case m.state == recorder.Recording:
		return recordingStyle.Render("● " + m.lang.T(i18n.KeyRecording))
	case m.processing:
		return idleStyle.Render(m.spinner.View() + " " + m.lang.T(i18n.KeyProcessing))
	default:
		return idleStyle.Render("○ " + m.lang.T(i18n.KeyIdle))
	}
}

func (m *Model) renderTopic() string {
	topic := m.lang.TopicName(m.currentTopic())
	return labelStyle.Render(m.lang.T(i18n.KeyTopic)+": ") + topicStyle.Render("‹ "+topic+" ›")
}

func (m *Model) renderScore() string {
	if m.score == nil {
		return ""
	}
	res := m.score
	lines := []string{
		fmt.Sprintf("%s %s", labelStyle.Render(m.lang.T(i18n.KeyScore)+":"), cardValueStyle.Render(formatScore(res.Score))),
		fmt.Sprintf("%s %s", labelStyle.Render(m.lang.T(i18n.KeyPronunciation)+":"), cardValueStyle.Render(formatScore(res.PronunciationScore))),
		fmt.Sprintf("%s %s", labelStyle.Render(m.lang.T(i18n.KeyFluency)+":"), cardValueStyle.Render(formatScore(res.FluencyScore))),
	}
	if res.Feedback != "" {
		lines = append(lines, labelStyle.Render(m.lang.T(i18n.KeyFeedback)+":"))
		lines = append(lines, wrapText(res.Feedback, m.contentWidth()-4)...)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		lines = append(lines, toastStyles[t.level].Render(m.lang.T(t.key)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	lang := m.lang.T(i18n.KeyLanguage) + ": " + m.lang.Name()
	return footerStyle.Render(lang + " • " + m.lang.T(i18n.KeyHelp))
}

func formatScore(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
