// Package statsui provides the Bubble Tea pace dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tinytracker/internal/model"
	"github.com/verte-zerg/tinytracker/internal/stats"
	"github.com/verte-zerg/tinytracker/internal/store"
)

const (
	tabFeeding = iota
	tabNursing
	tabSolids
	tabSleep
	tabSummary
)

const (
	plotHeight = 10
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
	aheadStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	behindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// tabActivities maps activity tabs to the activity they show.
var tabActivities = map[int]model.Activity{
	tabFeeding: model.ActivityFeeding,
	tabNursing: model.ActivityNursing,
	tabSolids:  model.ActivitySolids,
	tabSleep:   model.ActivitySleep,
}

// Model implements the Bubble Tea pace dashboard.
type Model struct {
	store *store.Store
	cfg   model.PaceConfig
	// live re-evaluates at the current time on every reload.
	live bool
	now  func() time.Time

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	paceTable table.Model

	width  int
	height int
}

// NewModel constructs a dashboard model. A zero cfg.NowMs follows the wall clock.
func NewModel(st *store.Store, cfg model.PaceConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		live:  cfg.NowMs == 0,
		now:   time.Now,
		tabs:  []string{"Feeding", "Nursing", "Solids", "Sleep", "Summary"},
	}
	m.initViewports()
	m.paceTable = buildPaceTable(nil, 0, 80)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
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
		case "r":
			m.refreshReport()
			return m, nil
		case "[":
			m.shiftBucket(-1)
			return m, nil
		case "]":
			m.shiftBucket(1)
			return m, nil
		case "0":
			m.cfg.Bucket = nil
			m.refreshReport()
			return m, nil
		case "g", "home":
			m.viewports[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.viewports[m.activeTab].GotoBottom()
			return m, nil
		default:
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
	body := fitLines(m.viewports[m.activeTab].View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
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
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
}

// shiftBucket moves the evaluation bucket, starting from the one currently shown.
func (m *Model) shiftBucket(delta int) {
	next := max(0, min(m.report.Bucket+delta, model.BucketCount-1))
	m.cfg.Bucket = &next
	m.refreshReport()
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
	tabs := padLines(m.renderTabs(), m.width)
	status := padLines(m.renderStatus(), m.width)
	return tabs + "\n" + status
}

func (m *Model) renderStatus() string {
	at := stats.BucketLabel(m.report.Bucket)
	mode := "now"
	if m.cfg.Bucket != nil {
		mode = "pinned"
	}
	day := time.UnixMilli(m.report.TodayStartMs).In(time.Local).Format("Mon 2006-01-02")
	summary := fmt.Sprintf("Day: %s  at=%s (%s)", day, at, mode)
	if m.report.ActiveSleep != nil {
		summary += "  " + stats.ActiveSleepLine(*m.report.ActiveSleep, m.report.NowMs)
	}
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Time: [/]  Now: 0  Reload: r  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) refreshReport() {
	if m.live {
		m.cfg.NowMs = m.now().UnixMilli()
	}
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	for tab, activity := range tabActivities {
		pace, ok := m.report.Pace(activity)
		if !ok {
			m.viewports[tab].SetContent("No data.")
			continue
		}
		m.viewports[tab].SetContent(renderActivity(pace, m.report.Bucket, width))
	}
	m.paceTable = buildPaceTable(m.report.Paces, m.report.Bucket, width)
	m.viewports[tabSummary].SetContent(renderSummary(m.report, m.paceTable))
}

func renderActivity(p stats.ActivityPace, bucket, width int) string {
	cards := renderPaceCards(p, bucket, width)
	curve := renderCurve(p, width)
	return strings.TrimRight(cards+"\n\n"+curve, "\n")
}

func renderPaceCards(p stats.ActivityPace, bucket, width int) string {
	avg := "-"
	days := "0"
	if p.Average != nil {
		avg = stats.FormatAmount(p.AverageAt(bucket), p.Unit)
		days = fmt.Sprintf("%d", p.Average.DaysUsed)
	}
	cards := []string{
		metricCard("Today", stats.FormatAmount(p.Today, p.Unit)),
		metricCard("Avg by "+stats.BucketLabel(bucket), avg),
		metricCard("Days", days),
		paceCard(p.Comparison),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func paceCard(c *model.Comparison) string {
	value := stats.FormatComparison(c)
	style := cardValueStyle
	if c != nil {
		switch stats.Direction(*c) {
		case stats.DirectionAhead:
			style = aheadStyle
		case stats.DirectionBehind:
			style = behindStyle
		}
	}
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render("Pace"), style.Render(value))
	return cardStyle.Render(content)
}

func renderCurve(p stats.ActivityPace, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderPaceCurve(&buf, p, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curve: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummary(r stats.Report, paceTable table.Model) string {
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, r); err != nil {
		return fmt.Sprintf("Failed to render summary: %v", err)
	}
	view := tableMutedStyle.Render(paceTable.View())
	return strings.TrimRight(view+"\n\n"+buf.String(), "\n")
}

func buildPaceTable(paces []stats.ActivityPace, bucket, width int) table.Model {
	columns := []table.Column{
		{Title: "Activity", Width: 9},
		{Title: "Today", Width: 10},
		{Title: "Avg", Width: 10},
		{Title: "Days", Width: 5},
		{Title: "Pace", Width: 24},
	}
	rows := make([]table.Row, 0, len(paces))
	for _, p := range paces {
		avg := "-"
		days := "0"
		if p.Average != nil {
			avg = stats.FormatAmount(p.AverageAt(bucket), p.Unit)
			days = fmt.Sprintf("%d", p.Average.DaysUsed)
		}
		rows = append(rows, table.Row{
			stats.ActivityTitle(p.Activity),
			stats.FormatAmount(p.Today, p.Unit),
			avg,
			days,
			stats.FormatComparison(p.Comparison),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, len(rows)+1)),
	)
	t.SetWidth(width)
	t.SetStyles(paceTableStyles())
	return t
}

func paceTableStyles() table.Styles {
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
	// The table is display-only; keep the cursor row unstyled.
	styles.Selected = styles.Cell
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
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
