package phasetimer

import (
	"errors"
	"testing"
	"time"

	"focusforge/internal/core/model"
	"focusforge/internal/core/sessions"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)

// manualSource records armed sources; tests drive Tick directly.
type manualSource struct {
	armed     int
	active    int
	maxActive int
}

func (source *manualSource) Arm(_ time.Duration, _ func()) func() {
	source.armed++
	source.active++
	if source.active > source.maxActive {
		source.maxActive = source.active
	}
	cancelled := false
	return func() {
		if !cancelled {
			cancelled = true
			source.active--
		}
	}
}

type recorderStub struct {
	records []sessions.Record
	err     error
}

func (recorder *recorderStub) RecordSessions(record sessions.Record) error {
	recorder.records = append(recorder.records, record)
	return recorder.err
}

type idleStub struct {
	idle time.Duration
	err  error
	hits int
}

func (checker *idleStub) IdleDuration() (time.Duration, error) {
	checker.hits++
	return checker.idle, checker.err
}

type harness struct {
	timer    *PhaseTimer
	clock    *clockwork.FakeClock
	source   *manualSource
	recorder *recorderStub
}

func newHarness(t *testing.T, config model.Config) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(testStart)
	source := &manualSource{}
	recorder := &recorderStub{}
	timer := New(config, sessions.Record{Date: sessions.DateKey(testStart)}, Options{
		Clock:    clock,
		Source:   source,
		Recorder: recorder,
	})
	t.Cleanup(timer.Close)
	return &harness{timer: timer, clock: clock, source: source, recorder: recorder}
}

func (h *harness) advance(d time.Duration) Snapshot {
	h.clock.Advance(d)
	h.timer.Tick()
	return h.timer.Snapshot()
}

// finishPhase runs the current phase to its deadline.
func (h *harness) finishPhase() Snapshot {
	return h.advance(h.timer.Snapshot().Remaining())
}

func drain(ch <-chan Event) []EventType {
	var types []EventType
	for {
		select {
		case event := <-ch:
			types = append(types, event.Type)
		default:
			return types
		}
	}
}

func TestNewTimerIsIdle(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())

	snapshot := h.timer.Snapshot()
	assert.Equal(t, PhaseIdle, snapshot.Phase)
	assert.False(t, snapshot.Running)
	assert.False(t, snapshot.Paused())
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.Zero(t, h.source.active)
}

func TestStartEntersFocus(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())

	h.timer.Start()
	h.timer.Start()

	snapshot := h.timer.Snapshot()
	assert.Equal(t, PhaseFocus, snapshot.Phase)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.True(t, snapshot.Running)
	assert.Equal(t, 1, h.source.armed, "second Start must not arm another source")
	assert.Equal(t, 1, h.source.active)
}

func TestTickCountsDownFromDeadline(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()

	assert.Equal(t, 1499, h.advance(time.Second).RemainingSeconds)
	assert.Equal(t, 1489, h.advance(10*time.Second+400*time.Millisecond).RemainingSeconds)

	// A tick that lands early does not move the display backwards.
	h.timer.Tick()
	assert.Equal(t, 1489, h.timer.Snapshot().RemainingSeconds)
}

func TestTickWhileIdleOrPausedDoesNothing(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())

	assert.Equal(t, 1500, h.advance(time.Minute).RemainingSeconds)

	h.timer.Start()
	h.timer.Pause()
	assert.Equal(t, 1500, h.advance(time.Hour).RemainingSeconds)
}

func TestLongBreakCadence(t *testing.T) {
	for n := 1; n <= 6; n++ {
		config := model.Config{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: n}
		h := newHarness(t, config)
		h.timer.Start()

		for session := 1; session <= 2*n; session++ {
			snapshot := h.finishPhase()
			assert.Equal(t, session, snapshot.CompletedFocusSessions)
			if session%n == 0 {
				assert.Equalf(t, PhaseLongBreak, snapshot.Phase, "n=%d session=%d", n, session)
				assert.Equal(t, 900, snapshot.RemainingSeconds)
			} else {
				assert.Equalf(t, PhaseShortBreak, snapshot.Phase, "n=%d session=%d", n, session)
				assert.Equal(t, 300, snapshot.RemainingSeconds)
			}
			assert.True(t, snapshot.Running)

			snapshot = h.finishPhase()
			assert.Equal(t, PhaseFocus, snapshot.Phase)
			assert.Equal(t, session, snapshot.CompletedFocusSessions, "breaks never count")
		}
	}
}

func TestDefaultScheduleExample(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	require.Equal(t, 1500, h.timer.Snapshot().RemainingSeconds)

	for cycle := 1; cycle <= 3; cycle++ {
		assert.Equal(t, PhaseShortBreak, h.finishPhase().Phase)
		assert.Equal(t, PhaseFocus, h.finishPhase().Phase)
	}

	snapshot := h.finishPhase()
	assert.Equal(t, 4, snapshot.CompletedFocusSessions)
	assert.Equal(t, PhaseLongBreak, snapshot.Phase)
	assert.Equal(t, 900, snapshot.RemainingSeconds)
}

func TestSkipMatchesNaturalCompletion(t *testing.T) {
	config := model.Config{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 2}

	natural := newHarness(t, config)
	skipped := newHarness(t, config)
	natural.timer.Start()
	skipped.timer.Start()

	for step := 0; step < 6; step++ {
		natural.finishPhase()
		skipped.advance(17 * time.Second)
		skipped.timer.Skip()

		assert.Equal(t, natural.timer.Snapshot(), skipped.timer.Snapshot(), "step %d", step)
	}
	assert.LessOrEqual(t, skipped.source.maxActive, 1)
}

func TestSkipWhilePausedStartsNextPhase(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	h.timer.Pause()

	h.timer.Skip()

	snapshot := h.timer.Snapshot()
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.True(t, snapshot.Running)
	assert.Equal(t, 1, snapshot.CompletedFocusSessions)
	assert.Equal(t, 299, h.advance(time.Second).RemainingSeconds)
}

func TestSkipWhileIdleIsNoop(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())

	h.timer.Skip()

	assert.Equal(t, PhaseIdle, h.timer.Snapshot().Phase)
	assert.Zero(t, h.timer.Snapshot().CompletedFocusSessions)
	assert.Empty(t, h.recorder.records)
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	h.advance(100 * time.Second)

	h.clock.Advance(300 * time.Millisecond)
	h.timer.Pause()
	paused := h.timer.Snapshot()
	assert.Equal(t, 1400, paused.RemainingSeconds)
	assert.True(t, paused.Paused())
	assert.Zero(t, h.source.active)

	h.clock.Advance(3 * time.Hour)
	h.timer.Resume()
	resumed := h.timer.Snapshot()
	assert.Equal(t, 1400, resumed.RemainingSeconds)
	assert.True(t, resumed.Running)

	assert.Equal(t, 1399, h.advance(time.Second).RemainingSeconds)
}

func TestStartWhilePausedResumes(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	h.advance(time.Minute)
	h.timer.Pause()

	h.timer.Start()

	snapshot := h.timer.Snapshot()
	assert.Equal(t, PhaseFocus, snapshot.Phase)
	assert.Equal(t, 1440, snapshot.RemainingSeconds)
	assert.True(t, snapshot.Running)
}

func TestPauseAndResumeNoops(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	events := h.timer.Subscribe(8)

	h.timer.Pause()
	h.timer.Resume()
	assert.Equal(t, PhaseIdle, h.timer.Snapshot().Phase)
	assert.Empty(t, drain(events))

	h.timer.Start()
	h.timer.Resume()
	h.timer.Pause()
	h.timer.Pause()
	assert.Equal(t, []EventType{EventStarted, EventPaused}, drain(events))
}

func TestResetProtocol(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	h.finishPhase()
	h.finishPhase()
	require.Equal(t, 1, h.timer.Snapshot().CompletedFocusSessions)

	intent := h.timer.RequestReset()
	snapshot := h.timer.Snapshot()
	assert.True(t, snapshot.ResetPending)
	assert.True(t, snapshot.Running, "requesting a reset keeps the countdown going")

	require.NoError(t, h.timer.ConfirmReset(intent))

	snapshot = h.timer.Snapshot()
	assert.Equal(t, PhaseIdle, snapshot.Phase)
	assert.False(t, snapshot.Running)
	assert.False(t, snapshot.ResetPending)
	assert.Zero(t, snapshot.CompletedFocusSessions)
	assert.Equal(t, 1500, snapshot.RemainingSeconds)
	assert.Zero(t, h.source.active, "no countdown may remain armed")
	assert.Equal(t, sessions.Record{Count: 0, Date: "2026-10-18"}, h.recorder.records[len(h.recorder.records)-1])

	assert.ErrorIs(t, h.timer.ConfirmReset(intent), ErrNoPendingReset)
}

func TestResetIntentMustBeCurrent(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	h.timer.Skip()

	stale := h.timer.RequestReset()
	current := h.timer.RequestReset()

	err := h.timer.ConfirmReset(stale)
	assert.True(t, errors.Is(err, ErrStaleResetIntent))
	assert.Equal(t, 1, h.timer.Snapshot().CompletedFocusSessions)

	require.NoError(t, h.timer.CancelReset(current))
	snapshot := h.timer.Snapshot()
	assert.False(t, snapshot.ResetPending)
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, 1, snapshot.CompletedFocusSessions)

	assert.ErrorIs(t, h.timer.CancelReset(current), ErrNoPendingReset)
}

func TestResetFromAnyState(t *testing.T) {
	sequences := map[string]func(h *harness){
		"idle":       func(h *harness) {},
		"running":    func(h *harness) { h.timer.Start() },
		"paused":     func(h *harness) { h.timer.Start(); h.timer.Pause() },
		"long break": func(h *harness) { h.timer.Start(); h.timer.Skip(); h.timer.Skip(); h.timer.Skip(); h.timer.Skip(); h.timer.Skip(); h.timer.Skip(); h.timer.Skip() },
	}

	for name, prepare := range sequences {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, model.DefaultConfig())
			prepare(h)

			h.timer.Reset()

			snapshot := h.timer.Snapshot()
			assert.Equal(t, PhaseIdle, snapshot.Phase)
			assert.Zero(t, snapshot.CompletedFocusSessions)
			assert.False(t, snapshot.Running)
			assert.Zero(t, h.source.active)
			assert.LessOrEqual(t, h.source.maxActive, 1)
		})
	}
}

func TestRecorderCalledOncePerFocusCompletion(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()

	h.finishPhase() // focus
	h.finishPhase() // short break
	h.timer.Skip()  // focus

	require.Len(t, h.recorder.records, 2)
	assert.Equal(t, 1, h.recorder.records[0].Count)
	assert.Equal(t, 2, h.recorder.records[1].Count)
}

func TestRecorderFailureDoesNotAffectTimer(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.recorder.err = errors.New("disk full")
	h.timer.Start()

	snapshot := h.finishPhase()

	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, 1, snapshot.CompletedFocusSessions)
}

func TestFocusCompletionOnNewDayRollsOver(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testStart)
	recorder := &recorderStub{}
	timer := New(model.DefaultConfig(), sessions.Record{Count: 3, Date: "2026-10-17"}, Options{
		Clock:    clock,
		Source:   &manualSource{},
		Recorder: recorder,
	})
	defer timer.Close()

	timer.Start()
	clock.Advance(25 * time.Minute)
	timer.Tick()

	snapshot := timer.Snapshot()
	assert.Equal(t, 1, snapshot.CompletedFocusSessions)
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, []sessions.Record{{Count: 1, Date: "2026-10-18"}}, recorder.records)
}

func TestUpdateConfig(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())

	h.timer.UpdateConfig(model.Config{FocusMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, SessionsBeforeLongBreak: 2})
	assert.Equal(t, 3000, h.timer.Snapshot().RemainingSeconds)

	h.timer.Start()
	h.advance(time.Minute)
	h.timer.UpdateConfig(model.Config{FocusMinutes: 25, ShortBreakMinutes: 3, LongBreakMinutes: 30, SessionsBeforeLongBreak: 2})
	assert.Equal(t, 2940, h.timer.Snapshot().RemainingSeconds, "running phase keeps its countdown")

	snapshot := h.finishPhase()
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, 180, snapshot.RemainingSeconds)
}

func TestUpdateConfigKeepsRunningPhaseTotal(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	h.timer.Start()
	h.advance(5 * time.Minute)

	h.timer.UpdateConfig(model.Config{FocusMinutes: 5, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 4})

	snapshot := h.timer.Snapshot()
	assert.Equal(t, 1500, snapshot.TotalSeconds)
	assert.InDelta(t, 0.2, snapshot.Progress(), 0.001)

	snapshot = h.finishPhase()
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.Equal(t, 300, snapshot.TotalSeconds)
}

func TestPauseAfterDeadlineCompletesPhase(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	events := h.timer.Subscribe(16)
	h.timer.Start()

	h.clock.Advance(25 * time.Minute)
	h.timer.Pause()

	snapshot := h.timer.Snapshot()
	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.True(t, snapshot.Running)
	assert.Equal(t, 300, snapshot.RemainingSeconds)
	assert.Equal(t, 1, snapshot.CompletedFocusSessions)
	assert.Equal(t, 1, h.source.active)

	types := drain(events)
	assert.Contains(t, types, EventPhaseComplete)
	assert.NotContains(t, types, EventPaused)
}

func TestIdleTickAfterDeadlineCompletesPhase(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	checker := &idleStub{idle: time.Hour}
	h.timer.SetIdleChecker(checker, 5*time.Minute)
	events := h.timer.Subscribe(16)
	h.timer.Start()

	snapshot := h.advance(25 * time.Minute)

	assert.Equal(t, PhaseShortBreak, snapshot.Phase)
	assert.True(t, snapshot.Running)
	assert.Equal(t, 1, snapshot.CompletedFocusSessions)
	require.Len(t, h.recorder.records, 1)
	assert.Equal(t, 1, h.recorder.records[0].Count)

	types := drain(events)
	assert.Contains(t, types, EventPhaseComplete)
	assert.NotContains(t, types, EventIdlePause)
}

func TestIdlePausePausesFocusOnly(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	checker := &idleStub{idle: 10 * time.Minute}
	h.timer.SetIdleChecker(checker, 5*time.Minute)
	events := h.timer.Subscribe(16)

	h.timer.Start()
	snapshot := h.advance(time.Second)

	assert.False(t, snapshot.Running)
	assert.Equal(t, PhaseFocus, snapshot.Phase)
	assert.Contains(t, drain(events), EventIdlePause)

	h.timer.Skip()
	h.advance(time.Minute)
	assert.True(t, h.timer.Snapshot().Running, "breaks are never idle-paused")
	assert.Equal(t, 1, checker.hits)
}

func TestIdleCheckRateLimited(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	checker := &idleStub{idle: time.Second}
	h.timer.SetIdleChecker(checker, 5*time.Minute)
	h.timer.Start()

	h.advance(time.Second)
	h.advance(time.Second)
	h.advance(time.Second)
	assert.Equal(t, 1, checker.hits)

	h.advance(5 * time.Second)
	assert.Equal(t, 2, checker.hits)
	assert.True(t, h.timer.Snapshot().Running)
}

func TestIdleUnsupportedDisablesCheck(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	checker := &idleStub{err: ErrIdleUnsupported}
	h.timer.SetIdleChecker(checker, time.Minute)
	h.timer.Start()

	h.advance(10 * time.Second)
	h.advance(10 * time.Second)

	assert.Equal(t, 1, checker.hits)
	assert.True(t, h.timer.Snapshot().Running)
}

func TestEventsCarrySnapshots(t *testing.T) {
	h := newHarness(t, model.Config{FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1, SessionsBeforeLongBreak: 4})
	events := h.timer.Subscribe(256)

	h.timer.Start()
	h.advance(time.Second)
	h.finishPhase()

	var complete Event
	var ticks int
	for {
		select {
		case event := <-events:
			switch event.Type {
			case EventTick:
				ticks++
			case EventPhaseComplete:
				complete = event
			}
			continue
		default:
		}
		break
	}

	assert.Equal(t, 1, ticks)
	assert.Equal(t, PhaseFocus, complete.Completed)
	assert.False(t, complete.Skipped)
	assert.Equal(t, PhaseShortBreak, complete.Snapshot.Phase)
	assert.Equal(t, 60, complete.Snapshot.RemainingSeconds)
	assert.Equal(t, 1, complete.Snapshot.CompletedFocusSessions)
	assert.True(t, complete.Snapshot.Running)
}

func TestCloseClosesSubscribers(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())
	events := h.timer.Subscribe(1)
	h.timer.Start()

	h.timer.Close()

	_, open := <-events
	for open {
		_, open = <-events
	}
	assert.Zero(t, h.source.active)

	late := h.timer.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestAtMostOneSourceArmed(t *testing.T) {
	h := newHarness(t, model.DefaultConfig())

	h.timer.Start()
	h.timer.Pause()
	h.timer.Resume()
	h.timer.Skip()
	h.finishPhase()
	h.timer.Pause()
	h.timer.Skip()
	h.timer.Start()
	h.timer.Reset()
	h.timer.Start()

	assert.Equal(t, 1, h.source.maxActive)
	assert.Equal(t, 1, h.source.active)
}

func TestClockSourceDrivesCompletion(t *testing.T) {
	clock := clockwork.NewFakeClockAt(testStart)
	timer := New(model.Config{FocusMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 1, SessionsBeforeLongBreak: 4},
		sessions.Record{Date: sessions.DateKey(testStart)},
		Options{Clock: clock, TickInterval: time.Second})
	defer timer.Close()
	events := timer.Subscribe(64)

	timer.Start()
	clock.Advance(time.Minute)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == EventPhaseComplete {
				assert.Equal(t, PhaseFocus, event.Completed)
				assert.Equal(t, PhaseShortBreak, event.Snapshot.Phase)
				return
			}
		case <-deadline:
			t.Fatal("phase did not complete")
		}
	}
}

func TestAdvance(t *testing.T) {
	config := model.Config{FocusMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, SessionsBeforeLongBreak: 3}

	tests := []struct {
		phase     Phase
		completed int
		wantPhase Phase
		wantCount int
	}{
		{PhaseFocus, 0, PhaseShortBreak, 1},
		{PhaseFocus, 2, PhaseLongBreak, 3},
		{PhaseFocus, 5, PhaseLongBreak, 6},
		{PhaseShortBreak, 1, PhaseFocus, 1},
		{PhaseLongBreak, 3, PhaseFocus, 3},
	}

	for _, tt := range tests {
		next, count := Advance(tt.phase, tt.completed, config)
		assert.Equal(t, tt.wantPhase, next)
		assert.Equal(t, tt.wantCount, count)
	}
}

func TestSnapshotClockAndProgress(t *testing.T) {
	snapshot := Snapshot{Phase: PhaseFocus, RemainingSeconds: 1499, TotalSeconds: 1500, Running: true}
	assert.Equal(t, "24:59", snapshot.Clock())
	assert.InDelta(t, 1.0/1500, snapshot.Progress(), 1e-9)

	assert.Equal(t, "00:00", Snapshot{RemainingSeconds: -3}.Clock())
	assert.Equal(t, "90:00", Snapshot{RemainingSeconds: 5400}.Clock())
	assert.Zero(t, Snapshot{Phase: PhaseIdle, RemainingSeconds: 10, TotalSeconds: 1500}.Progress())
}

func TestSnapshotControls(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		want     Controls
	}{
		{
			name:     "idle",
			snapshot: Snapshot{Phase: PhaseIdle},
			want:     Controls{Start: true, Reset: true},
		},
		{
			name:     "running",
			snapshot: Snapshot{Phase: PhaseFocus, Running: true},
			want:     Controls{Pause: true, Skip: true, Reset: true},
		},
		{
			name:     "paused",
			snapshot: Snapshot{Phase: PhaseShortBreak},
			want:     Controls{Resume: true, Skip: true, Reset: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snapshot.Controls())
		})
	}
}
