// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuishi/internal/model"
	"github.com/verte-zerg/tuishi/internal/poems"
	"github.com/verte-zerg/tuishi/internal/session"
	"github.com/verte-zerg/tuishi/internal/stats"
)

const (
	prefAlign      = "align"
	prefPinyinHint = "pinyin-hint"
	historyRows    = 5
)

// Recorder persists completed sessions.
type Recorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, chars []model.CharStats) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
}

// Preferences is a key-value store for UI settings.
type Preferences interface {
	GetPref(ctx context.Context, key string) (string, bool, error)
	SetPref(ctx context.Context, key, value string) error
}

type result struct {
	stats      session.Stats
	wpm        float64
	durationMs int64
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	mode   session.Mode
	lib    *poems.Library
	picker *poems.Picker
	rec    Recorder
	prefs  Preferences
	logger *slog.Logger
	now    func() time.Time

	poem      poems.Poem
	sess      *session.Session
	started   bool
	startedAt time.Time
	result    *result

	align    Align
	showHint bool

	width  int
	height int

	bar     progress.Model
	history table.Model
	errMsg  string
}

// NewModel constructs a typing TUI model. rec and prefs may be nil.
func NewModel(cfg model.Config, lib *poems.Library, picker *poems.Picker, rec Recorder, prefs Preferences, logger *slog.Logger) (*Model, error) {
	mode, err := session.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Model{
		config: cfg,
		mode:   mode,
		lib:    lib,
		picker: picker,
		rec:    rec,
		prefs:  prefs,
		logger: logger,
		now:    time.Now,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.loadPrefs()
	poem, err := picker.Pick(lib, cfg.Author, cfg.Title)
	if err != nil {
		return nil, err
	}
	m.startPoem(poem)
	return m, nil
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
		m.bar.Width = max(10, m.contentWidth()/2)
		return m, nil
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleClick(msg.X, msg.Y)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyCtrlR:
		m.restart()
		return m, nil
	case tea.KeyCtrlA:
		m.setAlign(m.align.Next())
		return m, nil
	case tea.KeyCtrlP:
		m.setHint(!m.showHint)
		return m, nil
	}

	if m.sess.Completed() {
		switch msg.String() {
		case "enter":
			m.next()
		case "r":
			m.restart()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		m.sess.SkipWord()
	case tea.KeyBackspace:
		m.submit(session.KeyBackspace)
	case tea.KeyEnter:
		m.submit(session.KeyEnter)
	case tea.KeySpace:
		m.submit(session.KeySpace)
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.submit(string(r))
		}
	}
	return m, nil
}

func (m *Model) submit(key string) {
	if !m.started {
		m.started = true
		m.startedAt = m.now()
	}
	m.sess.SubmitKey(key)
}

func (m *Model) handleClick(x, y int) {
	if m.sess.Completed() {
		return
	}
	idx := m.layout().hitTest(y, x)
	if idx >= 0 {
		m.sess.ClickCharacter(idx)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sess.Completed() {
		return m.renderResult()
	}
	body := strings.Join(m.layout().rows, "\n")
	footer := m.renderFooter()
	if m.height < 3 {
		return body
	}
	lines := strings.Count(body, "\n") + 1
	pad := max(0, m.height-1-lines)
	return body + strings.Repeat("\n", pad+1) + footer
}

// layout wraps the poem into rows placed in the middle of the screen.
func (m *Model) layout() rendered {
	width := m.contentWidth()
	lines := wrapBlocks(buildBlocks(m.sess.Words(), m.sess.Cursor()), width)
	left := 0
	top := 1
	if m.width > 0 {
		left = (m.width - width) / 2
	}
	if m.height > 0 {
		top = max(1, (m.height-1-len(lines))/2)
	}
	out := renderLines(lines, width, m.align, left)

	header := titleStyle.Render(m.poem.Title) + footerStyle.Render("  "+m.poem.Author)
	headerPad := left
	if m.align == AlignCenter && width > 0 {
		headerPad += max(0, (width-lipgloss.Width(header))/2)
	}
	rows := make([]string, 0, top+len(out.rows))
	hits := make([][]hit, 0, top+len(out.rows))
	for i := 0; i < top-1; i++ {
		rows = append(rows, "")
		hits = append(hits, nil)
	}
	rows = append(rows, strings.Repeat(" ", headerPad)+header)
	hits = append(hits, nil)
	rows = append(rows, out.rows...)
	hits = append(hits, out.hits...)
	return rendered{rows: rows, hits: hits}
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderFooter() string {
	total := m.sess.Len()
	segments := []string{
		m.bar.ViewAs(m.sess.Progress()),
		fmt.Sprintf("%d/%d", m.sess.Cursor(), total),
		m.sess.Mode().String(),
		m.align.String(),
	}
	if m.sess.Mode() == session.ModePinyin && m.sess.Cursor() < total {
		slot := m.sess.Slot(m.sess.Cursor())
		if slot.ExpectedPinyin != "" {
			input := m.sess.PinyinInput()
			if input == "" {
				input = "_"
			}
			segments = append(segments, "pinyin "+input)
			if m.showHint {
				segments = append(segments, "hint "+slot.Hint())
			}
		}
	}
	if m.errMsg != "" {
		segments = append(segments, incorrectStyle.Render(m.errMsg))
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return ""
	}
	st := m.result.stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Accuracy", fmt.Sprintf("%d%%", st.Accuracy)),
		card("WPM", fmt.Sprintf("%.1f", m.result.wpm)),
		card("Correct", fmt.Sprintf("%d", st.CorrectCharacters)),
		card("Incorrect", fmt.Sprintf("%d", st.IncorrectCharacters)),
		card("Skipped", fmt.Sprintf("%d", st.SkippedCharacters)),
		card("Total", fmt.Sprintf("%d", st.TotalCharacters)),
		card("Time", fmt.Sprintf("%.1fs", float64(m.result.durationMs)/1000)),
	)
	parts := []string{
		titleStyle.Render(m.poem.Title) + footerStyle.Render("  "+m.poem.Author),
		"",
		cards,
	}
	if len(m.history.Rows()) > 0 {
		parts = append(parts, "", m.history.View())
	}
	if m.errMsg != "" {
		parts = append(parts, "", incorrectStyle.Render(m.errMsg))
	}
	parts = append(parts, "", footerStyle.Render("enter next poem · r practice again · q quit"))
	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func card(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
}

func (m *Model) startPoem(poem poems.Poem) {
	m.poem = poem
	m.begin(session.New(poem.Text(), session.WithMode(m.mode), session.WithOnComplete(m.finish)))
}

func (m *Model) begin(sess *session.Session) {
	m.sess = sess
	m.errMsg = ""
	m.started = false
	m.startedAt = time.Time{}
	m.result = nil
	m.sess.Start()
}

func (m *Model) restart() {
	m.begin(m.sess.Restart())
}

func (m *Model) next() {
	poem, err := m.picker.Pick(m.lib, m.config.Author, m.config.Title)
	if err != nil {
		m.logger.Error("failed to pick poem", "err", err)
		m.restart()
		m.errMsg = err.Error()
		return
	}
	m.startPoem(poem)
}

// finish runs once per session, after the final keystroke is applied.
func (m *Model) finish(st session.Stats) {
	endedAt := m.now()
	startedAt := m.startedAt
	if !m.started {
		startedAt = endedAt
	}
	durationMs := endedAt.Sub(startedAt).Milliseconds()
	wpm, _, _ := stats.SessionMetrics(st.CorrectCharacters, st.IncorrectCharacters, durationMs)
	m.result = &result{stats: st, wpm: wpm, durationMs: durationMs}
	m.logger.Info("session completed",
		"title", m.poem.Title,
		"accuracy", st.Accuracy,
		"correct", st.CorrectCharacters,
		"incorrect", st.IncorrectCharacters,
		"skipped", st.SkippedCharacters,
	)
	if m.rec == nil {
		return
	}

	results := m.sess.CharResults()
	chars := make([]model.CharStats, 0, len(results))
	for _, r := range results {
		chars = append(chars, model.CharStats{Char: r.Char, Correct: r.Correct, Incorrect: r.Incorrect})
	}
	rec := model.SessionRecord{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Mode:       m.sess.Mode().String(),
		PoemID:     m.poem.ID,
		Title:      m.poem.Title,
		Author:     m.poem.Author,
		Total:      st.TotalCharacters,
		Correct:    st.CorrectCharacters,
		Incorrect:  st.IncorrectCharacters,
		Skipped:    st.SkippedCharacters,
		Accuracy:   st.Accuracy,
		DurationMs: durationMs,
	}
	ctx := context.Background()
	if _, err := m.rec.InsertSession(ctx, rec, chars); err != nil {
		m.logger.Error("failed to save session", "err", err)
		m.errMsg = "session not saved"
	}
	m.loadHistory(ctx)
}

func (m *Model) loadHistory(ctx context.Context) {
	sessions, err := m.rec.ListSessions(ctx, model.StatsConfig{Last: historyRows})
	if err != nil {
		m.logger.Error("failed to load session history", "err", err)
		return
	}
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		wpm, _, acc := stats.SessionMetrics(s.Correct, s.Incorrect, s.DurationMs)
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format("01-02 15:04"),
			s.Title,
			fmt.Sprintf("%.1f", wpm),
			fmt.Sprintf("%.0f%%", acc*100),
		})
	}
	m.history = table.New(
		table.WithColumns([]table.Column{
			{Title: "When", Width: 11},
			{Title: "Poem", Width: 24},
			{Title: "WPM", Width: 6},
			{Title: "Acc", Width: 5},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
}

func (m *Model) loadPrefs() {
	ctx := context.Background()
	if align, err := ParseAlign(m.config.Align); err == nil && m.config.Align != "" {
		m.align = align
	} else if m.prefs != nil {
		if v, ok, err := m.prefs.GetPref(ctx, prefAlign); err != nil {
			m.logger.Warn("failed to load preference", "key", prefAlign, "err", err)
		} else if ok {
			if align, err := ParseAlign(v); err == nil {
				m.align = align
			}
		}
	}
	if m.prefs == nil {
		return
	}
	if v, ok, err := m.prefs.GetPref(ctx, prefPinyinHint); err != nil {
		m.logger.Warn("failed to load preference", "key", prefPinyinHint, "err", err)
	} else if ok {
		m.showHint = v == "on"
	}
}

func (m *Model) setAlign(a Align) {
	m.align = a
	m.savePref(prefAlign, a.String())
}

func (m *Model) setHint(on bool) {
	m.showHint = on
	value := "off"
	if on {
		value = "on"
	}
	m.savePref(prefPinyinHint, value)
}

func (m *Model) savePref(key, value string) {
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SetPref(context.Background(), key, value); err != nil {
		m.logger.Warn("failed to save preference", "key", key, "err", err)
	}
}
