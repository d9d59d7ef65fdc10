package statsui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuispeak/internal/evaluator"
	"github.com/verte-zerg/tuispeak/internal/model"
)

type fakeSource struct {
	records []model.PracticeRecord
	err     error
}

func (f fakeSource) Records(context.Context, evaluator.RecordsQuery) ([]model.PracticeRecord, error) {
	return f.records, f.err
}

func sampleRecords() []model.PracticeRecord {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []model.PracticeRecord{
		{ID: 2, Topic: "business", Text: "Thank you for joining.", Score: 88, PronunciationScore: 84, FluencyScore: 86, PracticedAt: base.Add(time.Hour)},
		{ID: 1, Topic: "travel", Text: "One ticket, please.", Score: 72, PronunciationScore: 70, FluencyScore: 78, PracticedAt: base},
	}
}

func loaded(t *testing.T, src fakeSource) *Model {
	t.Helper()
	m := NewModel(src, model.HistoryConfig{CurveWindow: 2})
	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(cmd())
	return m
}

func TestOverviewShowsSummary(t *testing.T) {
	m := loaded(t, fakeSource{records: sampleRecords()})
	view := m.View()
	assert.Contains(t, view, "Attempts")
	assert.Contains(t, view, "80.0")
	assert.Contains(t, view, "88.0")
}

func TestRecordsTabListsNewestFirst(t *testing.T) {
	m := loaded(t, fakeSource{records: sampleRecords()})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabRecords, m.activeTab)

	rows := m.records.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "business", rows[0][1])
	assert.Equal(t, "travel", rows[1][1])
}

func TestTopicsTab(t *testing.T) {
	m := loaded(t, fakeSource{records: sampleRecords()})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, tabTopics, m.activeTab)
	assert.Contains(t, m.View(), "Per-Topic")
}

func TestLoadErrorIsShown(t *testing.T) {
	m := loaded(t, fakeSource{err: errors.New("connection refused")})
	view := m.View()
	assert.Contains(t, view, "failed to load records")
	assert.Contains(t, view, "Failed to load records.")
}

func TestCurveWindowKeys(t *testing.T) {
	m := loaded(t, fakeSource{records: sampleRecords()})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	assert.Equal(t, 3, m.cfg.CurveWindow)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	assert.Equal(t, 1, m.cfg.CurveWindow)
}
