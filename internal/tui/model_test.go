package tui

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuispeak/internal/capture"
	"github.com/verte-zerg/tuispeak/internal/i18n"
	"github.com/verte-zerg/tuispeak/internal/model"
	"github.com/verte-zerg/tuispeak/internal/prompts"
	"github.com/verte-zerg/tuispeak/internal/recorder"
)

type fakeController struct {
	mu       sync.Mutex
	state    recorder.State
	text     string
	topic    string
	starts   int
	stops    int
	abandons int
	startErr error
}

func (f *fakeController) State() recorder.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeController) SetInput(text, topic string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text, f.topic = text, topic
}

func (f *fakeController) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.state = recorder.Recording
	return nil
}

func (f *fakeController) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.state = recorder.Idle
	return nil
}

func (f *fakeController) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abandons++
}

func newTestModel(ctrl *fakeController, events chan recorder.Event) *Model {
	bank := prompts.NewWithSource(rand.NewSource(1), map[string][]string{"travel": {"One ticket, please."}})
	return NewModel(ctrl, events, bank, Options{
		Lang:     i18n.English,
		Topic:    "travel",
		Text:     "Where is the station?",
		ToastTTL: time.Second,
	})
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func stateEvent(s recorder.State) eventMsg { return eventMsg(recorder.Event{State: &s}) }

func noteEvent(level recorder.Level, k recorder.MessageKey) eventMsg {
	return eventMsg(recorder.Event{Notification: &recorder.Notification{Level: level, Key: k}})
}

func TestToggleStartsThenStops(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)

	_, cmd := m.Update(key(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, 1, ctrl.starts)
	assert.Equal(t, "Where is the station?", ctrl.text)
	assert.Equal(t, "travel", ctrl.topic)

	_, cmd = m.Update(key(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, 1, ctrl.stops)
}

func TestToggleWhileOpeningStops(t *testing.T) {
	ctrl := &fakeController{state: recorder.Opening}
	m := newTestModel(ctrl, nil)

	_, cmd := m.Update(key(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Equal(t, 0, ctrl.starts)
	assert.Equal(t, 1, ctrl.stops)
}

func TestToggleStartFailureIsLogged(t *testing.T) {
	ctrl := &fakeController{startErr: capture.ErrPermissionDenied}
	m := newTestModel(ctrl, nil)

	_, cmd := m.Update(key(tea.KeyCtrlR))
	msg := cmd()
	errMsg, ok := msg.(controllerErrMsg)
	require.True(t, ok)
	assert.ErrorIs(t, errMsg.err, capture.ErrPermissionDenied)

	ctrl.startErr = recorder.ErrAlreadyRecording
	_, cmd = m.Update(key(tea.KeyCtrlR))
	assert.Nil(t, cmd())
}

func TestScoreEventRendersCard(t *testing.T) {
	m := newTestModel(&fakeController{}, nil)
	m.Update(stateEvent(recorder.Recording))
	assert.Contains(t, m.View(), "Recording")

	m.Update(stateEvent(recorder.Idle))
	assert.True(t, m.processing)
	assert.Contains(t, m.View(), "Evaluating")

	res := model.ScoreResult{Success: true, Score: 85, PronunciationScore: 80, FluencyScore: 90, Feedback: "Good"}
	m.Update(eventMsg(recorder.Event{Score: &res}))
	m.Update(noteEvent(recorder.LevelSuccess, recorder.MsgEvaluationDone))
	assert.False(t, m.processing)

	view := m.View()
	for _, want := range []string{"85", "80", "90", "Good", "Evaluation complete"} {
		assert.Contains(t, view, want)
	}
	assert.Equal(t, 1, strings.Count(view, "Pronunciation:"))
}

func TestFailureShowsNoScore(t *testing.T) {
	m := newTestModel(&fakeController{}, nil)
	m.Update(stateEvent(recorder.Recording))
	m.Update(stateEvent(recorder.Idle))
	m.Update(noteEvent(recorder.LevelError, recorder.MsgEvaluationRejected))

	assert.False(t, m.processing)
	view := m.View()
	assert.NotContains(t, view, "Pronunciation:")
	assert.Contains(t, view, "The evaluation was not successful")
}

func TestToastExpires(t *testing.T) {
	m := newTestModel(&fakeController{}, nil)
	_, cmd := m.Update(noteEvent(recorder.LevelWarning, recorder.MsgMissingInput))
	require.NotNil(t, cmd)
	require.Len(t, m.toasts, 1)

	m.Update(toastExpiredMsg{id: m.toasts[0].id})
	assert.Empty(t, m.toasts)
	assert.NotContains(t, m.View(), "Enter the practice text first")
}

func TestSampleTopicAndLanguageKeys(t *testing.T) {
	m := newTestModel(&fakeController{}, nil)

	m.Update(key(tea.KeyCtrlG))
	assert.Equal(t, "One ticket, please.", m.input.Value())

	before := m.currentTopic()
	m.Update(key(tea.KeyTab))
	assert.NotEqual(t, before, m.currentTopic())
	m.Update(key(tea.KeyShiftTab))
	assert.Equal(t, before, m.currentTopic())

	assert.Contains(t, m.View(), "Language: English")
	m.Update(key(tea.KeyCtrlL))
	assert.Contains(t, m.View(), "口语练习")
	assert.Contains(t, m.View(), "语言: 中文")
	m.Update(key(tea.KeyCtrlL))
	assert.Contains(t, m.View(), "Luyện nói AI")
	assert.Contains(t, m.View(), "Ngôn ngữ: Tiếng Việt")
	assert.Contains(t, m.View(), "Du lịch")
	m.Update(key(tea.KeyCtrlL))
	assert.Contains(t, m.View(), "Speech Practice")
}

func TestSampleMissingTopicToasts(t *testing.T) {
	bank := prompts.NewWithSource(rand.NewSource(1), nil)
	m := NewModel(&fakeController{}, nil, bank, Options{Topics: []string{"custom"}})

	cmd := m.fillSample()
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "No sample sentences")
}

func TestQuitAbandonsRecording(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(ctrl, nil)
	_, cmd := m.Update(key(tea.KeyEsc))
	require.NotNil(t, cmd)

	m.abandon()()
	assert.Equal(t, 1, ctrl.abandons)
}

func TestListenForwardsEvents(t *testing.T) {
	events := make(chan recorder.Event, 1)
	m := newTestModel(&fakeController{}, events)

	s := recorder.Recording
	events <- recorder.Event{State: &s}
	msg := m.listen()()
	ev, ok := msg.(eventMsg)
	require.True(t, ok)
	require.NotNil(t, ev.State)
	assert.Equal(t, recorder.Recording, *ev.State)

	close(events)
	assert.IsType(t, eventsClosedMsg{}, m.listen()())
}
