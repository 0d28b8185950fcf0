package phasetimer

import (
	"errors"
	"math"
	"sync"
	"time"

	"focusforge/internal/core/model"
	"focusforge/internal/core/sessions"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

var (
	// ErrIdleUnsupported indicates idle detection is not available on this system.
	ErrIdleUnsupported = errors.New("idle detection unsupported")
	// ErrNoPendingReset is returned when confirming or cancelling without a request.
	ErrNoPendingReset = errors.New("no reset pending")
	// ErrStaleResetIntent is returned for an intent superseded by a newer request.
	ErrStaleResetIntent = errors.New("reset intent is no longer current")
)

const (
	defaultTickInterval      = 250 * time.Millisecond
	defaultIdleCheckInterval = 5 * time.Second
)

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Recorder persists the focus session counter.
type Recorder interface {
	RecordSessions(record sessions.Record) error
}

// Options contains runtime options for PhaseTimer.
type Options struct {
	TickInterval      time.Duration
	IdleCheckInterval time.Duration
	Clock             clockwork.Clock
	Source            Source
	Recorder          Recorder
}

// ResetIntent identifies one reset request awaiting confirmation.
type ResetIntent struct {
	seq uint64
}

// PhaseTimer is the focus/break state machine.
type PhaseTimer struct {
	mu      sync.Mutex
	config  model.Config
	options Options
	clock   clockwork.Clock
	source  Source

	phase     Phase
	running   bool
	remaining int
	total     int
	deadline  time.Time
	record    sessions.Record

	cancelSource func()
	sourceGen    uint64

	resetSeq     uint64
	resetPending bool

	idleChecker    IdleChecker
	idlePauseAfter time.Duration
	lastIdleCheck  time.Time

	events []chan Event
	closed bool
}

// New creates an idle PhaseTimer. record carries the persisted session
// counter after daily rollover has been applied.
func New(config model.Config, record sessions.Record, options Options) *PhaseTimer {
	if options.TickInterval <= 0 {
		options.TickInterval = defaultTickInterval
	}
	if options.IdleCheckInterval <= 0 {
		options.IdleCheckInterval = defaultIdleCheckInterval
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	if options.Source == nil {
		options.Source = NewClockSource(options.Clock)
	}

	timer := &PhaseTimer{
		config:  config,
		options: options,
		clock:   options.Clock,
		source:  options.Source,
		phase:   PhaseIdle,
		record:  record,
	}
	timer.remaining = DurationSeconds(PhaseIdle, config)
	timer.total = timer.remaining
	return timer
}

// SetIdleChecker enables pausing a running focus phase after the user has
// been idle for after. A nil checker or non-positive after disables it.
func (timer *PhaseTimer) SetIdleChecker(checker IdleChecker, after time.Duration) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if after <= 0 {
		checker = nil
	}
	timer.idleChecker = checker
	timer.idlePauseAfter = after
	timer.lastIdleCheck = time.Time{}
}

// Subscribe registers a new observer channel.
func (timer *PhaseTimer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	if timer.closed {
		close(ch)
	} else {
		timer.events = append(timer.events, ch)
	}
	timer.mu.Unlock()
	return ch
}

// Close stops the countdown and closes observers.
func (timer *PhaseTimer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.disarmLocked()
	timer.closed = true
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Snapshot returns the current state.
func (timer *PhaseTimer) Snapshot() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

// Config returns the configuration currently in effect.
func (timer *PhaseTimer) Config() model.Config {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.config
}

// Start begins a focus phase from idle, or resumes a paused phase.
func (timer *PhaseTimer) Start() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.running {
		return
	}
	if timer.phase != PhaseIdle {
		timer.resumeLocked()
		return
	}

	now := timer.clock.Now()
	timer.enterPhaseLocked(PhaseFocus, now)
	timer.running = true
	timer.armLocked()
	timer.emitLocked(Event{Type: EventStarted, At: now})
}

// Pause freezes the countdown.
func (timer *PhaseTimer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.pauseLocked(EventPaused)
}

// Resume continues a paused phase with the remaining time it had.
func (timer *PhaseTimer) Resume() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.resumeLocked()
}

// Skip completes the current phase immediately and starts the next one.
func (timer *PhaseTimer) Skip() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.phase == PhaseIdle {
		return
	}
	timer.disarmLocked()
	timer.running = true
	timer.completeLocked(timer.clock.Now(), true)
	timer.armLocked()
}

// Tick recomputes the remaining time from the phase deadline and
// transitions when it reaches zero.
func (timer *PhaseTimer) Tick() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.tickLocked()
}

// RequestReset records an intent to reset. The countdown keeps running
// until the intent is confirmed.
func (timer *PhaseTimer) RequestReset() ResetIntent {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.resetSeq++
	timer.resetPending = true
	timer.emitLocked(Event{Type: EventResetRequested, At: timer.clock.Now()})
	return ResetIntent{seq: timer.resetSeq}
}

// ConfirmReset performs the reset described by intent.
func (timer *PhaseTimer) ConfirmReset(intent ResetIntent) error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if err := timer.checkIntentLocked(intent); err != nil {
		return err
	}
	timer.resetLocked()
	return nil
}

// CancelReset discards intent.
func (timer *PhaseTimer) CancelReset(intent ResetIntent) error {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if err := timer.checkIntentLocked(intent); err != nil {
		return err
	}
	timer.resetPending = false
	timer.emitLocked(Event{Type: EventResetCancelled, At: timer.clock.Now()})
	return nil
}

// Reset stops the countdown, returns to idle and zeroes the session count.
// Interactive callers go through RequestReset and ConfirmReset instead.
func (timer *PhaseTimer) Reset() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.resetLocked()
}

// UpdateConfig replaces the durations used from the next phase entry on.
func (timer *PhaseTimer) UpdateConfig(config model.Config) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.config = config
	if timer.phase == PhaseIdle {
		timer.remaining = DurationSeconds(PhaseIdle, config)
		timer.total = timer.remaining
	}
	timer.emitLocked(Event{Type: EventConfigUpdated, At: timer.clock.Now()})
}

// pauseLocked completes the phase instead of pausing when its deadline has
// already passed.
func (timer *PhaseTimer) pauseLocked(eventType EventType) {
	if !timer.running {
		return
	}
	now := timer.clock.Now()
	if timer.finishIfDueLocked(now) {
		return
	}
	timer.remaining = timer.remainingAtLocked(now)
	timer.running = false
	timer.disarmLocked()
	timer.emitLocked(Event{Type: eventType, At: now})
}

func (timer *PhaseTimer) resumeLocked() {
	if timer.running || timer.phase == PhaseIdle {
		return
	}
	now := timer.clock.Now()
	timer.deadline = now.Add(time.Duration(timer.remaining) * time.Second)
	timer.running = true
	timer.lastIdleCheck = time.Time{}
	timer.armLocked()
	timer.emitLocked(Event{Type: EventResumed, At: now})
}

func (timer *PhaseTimer) tickLocked() {
	if !timer.running {
		return
	}
	now := timer.clock.Now()
	if timer.finishIfDueLocked(now) {
		return
	}

	if timer.phase == PhaseFocus && timer.handleIdleCheckLocked(now) {
		return
	}

	remaining := timer.remainingAtLocked(now)
	if remaining != timer.remaining {
		timer.remaining = remaining
		timer.emitLocked(Event{Type: EventTick, At: now})
	}
}

// finishIfDueLocked completes a running phase whose deadline has passed and
// starts the next one.
func (timer *PhaseTimer) finishIfDueLocked(now time.Time) bool {
	if timer.remainingAtLocked(now) > 0 {
		return false
	}
	timer.remaining = 0
	timer.disarmLocked()
	timer.completeLocked(now, false)
	timer.armLocked()
	return true
}

// completeLocked applies the transition rule and loads the next phase.
func (timer *PhaseTimer) completeLocked(now time.Time, skipped bool) {
	completed := timer.phase
	count := timer.record.Count
	today := sessions.DateKey(now)
	if completed == PhaseFocus {
		count, _ = sessions.Rollover(timer.record.Date, timer.record.Count, today)
	}

	next, count := Advance(completed, count, timer.config)
	if completed == PhaseFocus {
		timer.record = sessions.Record{Count: count, Date: today}
		timer.persistLocked()
	}

	timer.enterPhaseLocked(next, now)
	timer.emitLocked(Event{
		Type:      EventPhaseComplete,
		Completed: completed,
		Skipped:   skipped,
		At:        now,
	})
}

func (timer *PhaseTimer) resetLocked() {
	now := timer.clock.Now()
	timer.disarmLocked()
	timer.phase = PhaseIdle
	timer.running = false
	timer.remaining = DurationSeconds(PhaseIdle, timer.config)
	timer.total = timer.remaining
	timer.deadline = time.Time{}
	timer.resetPending = false
	timer.record = sessions.Record{Count: 0, Date: sessions.DateKey(now)}
	timer.persistLocked()
	timer.emitLocked(Event{Type: EventReset, At: now})
}

func (timer *PhaseTimer) checkIntentLocked(intent ResetIntent) error {
	if !timer.resetPending {
		return ErrNoPendingReset
	}
	if intent.seq != timer.resetSeq {
		return ErrStaleResetIntent
	}
	return nil
}

func (timer *PhaseTimer) enterPhaseLocked(phase Phase, now time.Time) {
	timer.phase = phase
	timer.remaining = DurationSeconds(phase, timer.config)
	timer.total = timer.remaining
	timer.deadline = now.Add(time.Duration(timer.remaining) * time.Second)
	timer.lastIdleCheck = time.Time{}
}

// remainingAtLocked never reports more time than is already on display.
func (timer *PhaseTimer) remainingAtLocked(now time.Time) int {
	if !timer.running {
		return timer.remaining
	}
	seconds := int(math.Round(timer.deadline.Sub(now).Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	if seconds > timer.remaining {
		seconds = timer.remaining
	}
	return seconds
}

// handleIdleCheckLocked pauses the timer when the user has been idle too
// long and reports whether it did.
func (timer *PhaseTimer) handleIdleCheckLocked(now time.Time) bool {
	if timer.idleChecker == nil {
		return false
	}
	if !timer.lastIdleCheck.IsZero() && now.Sub(timer.lastIdleCheck) < timer.options.IdleCheckInterval {
		return false
	}
	timer.lastIdleCheck = now

	idleDuration, err := timer.idleChecker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			timer.idleChecker = nil
			log.Info().Msg("idle detection unavailable, idle pause disabled")
			return false
		}
		log.Warn().Err(err).Msg("idle check failed")
		return false
	}
	if idleDuration < timer.idlePauseAfter {
		return false
	}

	timer.pauseLocked(EventIdlePause)
	log.Info().Dur("idle", idleDuration).Msg("paused focus after inactivity")
	return true
}

func (timer *PhaseTimer) persistLocked() {
	if timer.options.Recorder == nil {
		return
	}
	if err := timer.options.Recorder.RecordSessions(timer.record); err != nil {
		log.Warn().Err(err).Int("count", timer.record.Count).Msg("persist focus sessions")
	}
}

// armLocked replaces any armed source so at most one delivers ticks.
func (timer *PhaseTimer) armLocked() {
	timer.disarmLocked()
	if timer.closed {
		return
	}
	timer.sourceGen++
	generation := timer.sourceGen
	timer.cancelSource = timer.source.Arm(timer.options.TickInterval, func() {
		timer.mu.Lock()
		defer timer.mu.Unlock()
		if generation != timer.sourceGen {
			return
		}
		timer.tickLocked()
	})
}

func (timer *PhaseTimer) disarmLocked() {
	if timer.cancelSource == nil {
		return
	}
	timer.cancelSource()
	timer.cancelSource = nil
	timer.sourceGen++
}

func (timer *PhaseTimer) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:                  timer.phase,
		RemainingSeconds:       timer.remaining,
		TotalSeconds:           timer.total,
		Running:                timer.running,
		CompletedFocusSessions: timer.record.Count,
		ResetPending:           timer.resetPending,
	}
}

// emitLocked stamps the current snapshot and drops the event for observers
// whose buffers are full.
func (timer *PhaseTimer) emitLocked(event Event) {
	event.Snapshot = timer.snapshotLocked()
	for _, ch := range timer.events {
		select {
		case ch <- event:
		default:
		}
	}
}
