// Package statsui provides the Bubble Tea practice history interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/stats"
)

const (
	tabOverview = iota
	tabRecords
	tabTopics
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

type reportMsg struct {
	report stats.Report
	err    error
}

// Model implements the Bubble Tea history UI.
type Model struct {
	src stats.RecordSource
	cfg model.HistoryConfig

	report  stats.Report
	loaded  bool
	loading bool
	errMsg  string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	records   table.Model

	width  int
	height int
}

// NewModel constructs a history UI model. Records load asynchronously from src.
func NewModel(src stats.RecordSource, cfg model.HistoryConfig) *Model {
	m := &Model{
		src:  src,
		cfg:  cfg,
		tabs: []string{"Overview", "Records", "Topics"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.records = buildRecordTable(nil, 0, 1)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	src, cfg := m.src, m.cfg
	return func() tea.Msg {
		report, err := stats.BuildReport(context.Background(), src, cfg)
		return reportMsg{report: report, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case reportMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("failed to load records: %v", msg.err)
		} else {
			m.errMsg = ""
			m.report = msg.report
			m.loaded = true
		}
		m.records.SetRows(recordRows(m.report.Records))
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "r":
			return m, m.load()
		case "g", "home":
			if m.activeTab == tabRecords {
				m.records.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRecords {
				m.records.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabRecords {
				var cmd tea.Cmd
				m.records, cmd = m.records.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.records.SetColumns(recordColumns(m.width))
	m.records.SetWidth(m.width)
	m.records.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRecords {
		m.records.Focus()
	} else {
		m.records.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	topic := m.cfg.Topic
	if topic == "" {
		topic = "any"
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	since := "all"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	summary := fmt.Sprintf("Settings: topic=%s  since=%s  last=%s  window=%d", topic, since, last, m.cfg.CurveWindow)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	switch {
	case m.loading && !m.loaded:
		return "Loading records..."
	case m.activeTab == tabRecords:
		if len(m.report.Records) == 0 {
			return "No practice records found."
		}
		return tableMutedStyle.Render(m.records.View())
	default:
		return m.viewports[m.activeTab].View()
	}
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" && !m.loaded {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load records.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Records, m.cfg.CurveWindow, width))
	m.viewports[tabTopics].SetContent(renderTopics(m.report.Records))
}

func renderOverview(records []model.PracticeRecord, window, width int) string {
	if len(records) == 0 {
		return "No practice records found."
	}
	s := stats.Summarize(records)
	cards := []string{
		metricCard("Attempts", fmt.Sprintf("%d", s.Count)),
		metricCard("Avg Score", fmt.Sprintf("%.1f", s.AvgScore)),
		metricCard("Best Score", fmt.Sprintf("%.1f", s.BestScore)),
		metricCard("Avg Pron.", fmt.Sprintf("%.1f", s.AvgPronunciation)),
		metricCard("Avg Fluency", fmt.Sprintf("%.1f", s.AvgFluency)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, records, window, width-2); err != nil {
		return summary
	}
	if skill, gap := stats.WeakestSkill(records); skill != "" {
		buf.WriteString(headerStyle.Render(fmt.Sprintf("Focus: %s (%.1f below the other)", skill, gap)))
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderTopics(records []model.PracticeRecord) string {
	var buf bytes.Buffer
	if err := stats.RenderTopicTable(&buf, records); err != nil {
		return fmt.Sprintf("Failed to render topics: %v", err)
	}
	if buf.Len() == 0 {
		return "No practice records found."
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func recordColumns(width int) []table.Column {
	cols := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Topic", Width: 10},
		{Title: "Score", Width: 5},
		{Title: "Pron.", Width: 5},
		{Title: "Fluency", Width: 7},
		{Title: "Text", Width: 30},
	}
	fixed := 0
	for _, c := range cols[:len(cols)-1] {
		fixed += c.Width + 1
	}
	if width-fixed > 10 {
		cols[len(cols)-1].Width = width - fixed - 1
	}
	return cols
}

// recordRows lists records newest first.
func recordRows(records []model.PracticeRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		rows = append(rows, table.Row{
			r.PracticedAt.Local().Format("2006-01-02 15:04"),
			r.Topic,
			fmt.Sprintf("%.0f", r.Score),
			fmt.Sprintf("%.0f", r.PronunciationScore),
			fmt.Sprintf("%.0f", r.FluencyScore),
			r.Text,
		})
	}
	return rows
}

func buildRecordTable(records []model.PracticeRecord, width, height int) table.Model {
	t := table.New(
		table.WithColumns(recordColumns(width)),
		table.WithRows(recordRows(records)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(recordTableStyles())
	return t
}

func recordTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextCurveWindow(n int) int {
	if n < 1 {
		return 1
	}
	return minInt(n+1, 50)
}

func prevCurveWindow(n int) int {
	if n <= 1 {
		return 1
	}
	return n - 1
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

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
