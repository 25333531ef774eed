package capture

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"frontdesk/models"
	"frontdesk/telemetry"

	"go.uber.org/zap"
)

var (
	ErrCaptureInProgress = errors.New("a capture session is already active")
	ErrNoActiveSession   = errors.New("no capture session with that id")
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	ErrSessionClosed     = errors.New("capture session is closed")
	ErrEmptyTranscript   = errors.New("transcript is empty")
	ErrCancelled         = errors.New("capture cancelled")
)

// EventKind identifies what the speech collaborator reported.
type EventKind int

const (
	// EventInterim carries the latest full transcript so far in Text.
	EventInterim EventKind = iota + 1
	// EventStop ends listening. Text, when set, is the final transcript.
	EventStop
	// EventProviderError reports a capture failure in Err.
	EventProviderError
)

// Event is a message from the speech collaborator to a session.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Result is what a successful confirmation hands back to the caller.
type Result struct {
	DraftID string                        `json:"draftId"`
	Draft   models.ParsedAppointmentDraft `json:"draft"`
}

// Processor turns a reviewed transcript into a stored draft.
type Processor interface {
	Process(ctx context.Context, transcript string) (Result, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, transcript string) (Result, error)

func (f ProcessorFunc) Process(ctx context.Context, transcript string) (Result, error) {
	return f(ctx, transcript)
}

// Config tunes a session.
type Config struct {
	// MinTranscriptLen is the length a transcript must exceed for Stop to
	// move to review instead of discarding it.
	MinTranscriptLen int
	// ErrorDelay is how long a processing failure is shown before Idle.
	ErrorDelay time.Duration
	// ProviderErrorDelay is the same for speech collaborator failures.
	ProviderErrorDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinTranscriptLen:   3,
		ErrorDelay:         3 * time.Second,
		ProviderErrorDelay: 2 * time.Second,
	}
}

type op int

const (
	opEvent op = iota
	opConfirm
	opCancel
	opProcessed
	opRevert
)

type reply struct {
	snap models.CaptureSnapshot
	err  error
	wait <-chan outcome
}

type outcome struct {
	result Result
	err    error
}

type message struct {
	op      op
	event   Event
	text    string
	attempt uint64
	result  Result
	err     error
	reply   chan reply
}

// Session is one voice-capture attempt. All transitions are applied by a
// single goroutine reading the inbox, so collaborator events and operator
// actions are ordered as they arrive.
type Session struct {
	id        string
	cfg       Config
	processor Processor
	logger    *zap.Logger

	inbox    chan message
	done     chan struct{}
	stopOnce sync.Once

	// owned by the loop goroutine
	status    models.CaptureStatus
	live      string
	final     *string
	errMsg    string
	draftID   string
	attempt   uint64
	cancelRun context.CancelFunc
	waiter    chan outcome
	timer     *time.Timer

	mu   sync.RWMutex
	snap models.CaptureSnapshot
}

func newSession(id string, cfg Config, processor Processor, logger *zap.Logger) *Session {
	s := &Session{
		id:        id,
		cfg:       cfg,
		processor: processor,
		logger:    logger.With(zap.String("capture_session", id)),
		inbox:     make(chan message, 16),
		done:      make(chan struct{}),
		status:    models.CaptureIdle,
	}
	s.transition(models.CaptureListening)
	go s.loop()
	return s
}

func (s *Session) ID() string { return s.id }

// Done is closed once the session is back to Idle for good.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Finished() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) Snapshot() models.CaptureSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Publish delivers a collaborator event and waits until it is applied.
func (s *Session) Publish(ctx context.Context, ev Event) error {
	_, err := s.call(ctx, message{op: opEvent, event: ev})
	return err
}

// Feed publishes events from ch until it is closed, the session ends or ctx
// is done. Events the current state does not accept are dropped.
func (s *Session) Feed(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := s.Publish(ctx, ev); err != nil {
				if errors.Is(err, ErrSessionClosed) || ctx.Err() != nil {
					return
				}
				s.logger.Debug("Capture event dropped", zap.Int("kind", int(ev.Kind)), zap.Error(err))
			}
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop ends listening on behalf of the operator.
func (s *Session) Stop(ctx context.Context) (models.CaptureSnapshot, error) {
	return s.call(ctx, message{op: opEvent, event: Event{Kind: EventStop}})
}

// Confirm sends the reviewed transcript for extraction and waits for the
// result. A blank transcript keeps the frozen one.
func (s *Session) Confirm(ctx context.Context, transcript string) (Result, error) {
	m := message{op: opConfirm, text: transcript, reply: make(chan reply, 1)}
	if err := s.send(ctx, m); err != nil {
		return Result{}, err
	}
	r, err := s.await(ctx, m.reply)
	if err != nil {
		return Result{}, err
	}
	if r.err != nil {
		return Result{}, r.err
	}
	select {
	case o := <-r.wait:
		return o.result, o.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Cancel discards the session from any state. Cancelling a finished session
// is a no-op.
func (s *Session) Cancel(ctx context.Context) (models.CaptureSnapshot, error) {
	snap, err := s.call(ctx, message{op: opCancel})
	if errors.Is(err, ErrSessionClosed) {
		return s.Snapshot(), nil
	}
	return snap, err
}

func (s *Session) call(ctx context.Context, m message) (models.CaptureSnapshot, error) {
	m.reply = make(chan reply, 1)
	if err := s.send(ctx, m); err != nil {
		return s.Snapshot(), err
	}
	r, err := s.await(ctx, m.reply)
	if err != nil {
		return s.Snapshot(), err
	}
	return r.snap, r.err
}

// await waits for the loop's answer. A message that was queued just as the
// session finished is never answered, so done also ends the wait.
func (s *Session) await(ctx context.Context, ch <-chan reply) (reply, error) {
	select {
	case r := <-ch:
		return r, nil
	case <-s.done:
		select {
		case r := <-ch:
			return r, nil
		default:
			return reply{}, ErrSessionClosed
		}
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

func (s *Session) send(ctx context.Context, m message) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.inbox <- m:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post is used by the processing goroutine and timers; it never blocks after
// the session has finished.
func (s *Session) post(m message) {
	select {
	case s.inbox <- m:
	case <-s.done:
	}
}

func (s *Session) loop() {
	for {
		select {
		case m := <-s.inbox:
			r := s.apply(m)
			if m.reply != nil {
				r.snap = s.Snapshot()
				m.reply <- r
			}
			if s.status == models.CaptureIdle {
				s.finish()
				s.drain()
				return
			}
		case <-s.done:
			return
		}
	}
}

// drain answers callers that queued behind the final transition.
func (s *Session) drain() {
	for {
		select {
		case m := <-s.inbox:
			if m.reply != nil {
				m.reply <- reply{snap: s.Snapshot(), err: ErrSessionClosed}
			}
		default:
			return
		}
	}
}

func (s *Session) apply(m message) reply {
	switch m.op {
	case opEvent:
		return s.applyEvent(m.event)
	case opConfirm:
		return s.applyConfirm(m.text)
	case opCancel:
		s.applyCancel()
		return reply{}
	case opProcessed:
		s.applyProcessed(m)
		return reply{}
	case opRevert:
		if s.status == models.CaptureError && m.attempt == s.attempt {
			s.transition(models.CaptureIdle)
		}
		return reply{}
	}
	return reply{err: ErrInvalidTransition}
}

func (s *Session) applyEvent(ev Event) reply {
	if s.status != models.CaptureListening {
		return reply{err: ErrInvalidTransition}
	}
	switch ev.Kind {
	case EventInterim:
		s.live = ev.Text
		s.publishSnapshot()
	case EventStop:
		if ev.Text != "" {
			s.live = ev.Text
		}
		text := strings.TrimSpace(s.live)
		if len([]rune(text)) > s.cfg.MinTranscriptLen {
			s.final = &text
			s.transition(models.CaptureAwaitingReview)
		} else {
			s.logger.Debug("Transcript too short, discarding", zap.Int("length", len([]rune(text))))
			s.transition(models.CaptureIdle)
		}
	case EventProviderError:
		s.errMsg = "speech capture failed"
		if ev.Err != nil {
			s.errMsg = ev.Err.Error()
		}
		s.logger.Warn("Speech capture failed", zap.String("error", s.errMsg))
		s.attempt++
		s.transition(models.CaptureError)
		s.scheduleRevert(s.cfg.ProviderErrorDelay)
	default:
		return reply{err: ErrInvalidTransition}
	}
	return reply{}
}

func (s *Session) applyConfirm(edited string) reply {
	if s.status != models.CaptureAwaitingReview {
		return reply{err: ErrInvalidTransition}
	}
	transcript := strings.TrimSpace(edited)
	if transcript == "" && s.final != nil {
		transcript = *s.final
	}
	if transcript == "" {
		return reply{err: ErrEmptyTranscript}
	}
	s.final = &transcript

	s.attempt++
	attempt := s.attempt
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelRun = cancel
	s.waiter = make(chan outcome, 1)
	s.transition(models.CaptureProcessing)

	go func() {
		res, err := s.processor.Process(ctx, transcript)
		s.post(message{op: opProcessed, attempt: attempt, result: res, err: err})
	}()
	return reply{wait: s.waiter}
}

func (s *Session) applyProcessed(m message) {
	if s.status != models.CaptureProcessing || m.attempt != s.attempt {
		return
	}
	s.cancelRun()
	s.cancelRun = nil
	waiter := s.waiter
	s.waiter = nil

	if m.err != nil {
		s.errMsg = m.err.Error()
		s.logger.Warn("Transcript processing failed", zap.Error(m.err))
		s.transition(models.CaptureError)
		s.scheduleRevert(s.cfg.ErrorDelay)
		waiter <- outcome{err: m.err}
		return
	}
	s.draftID = m.result.DraftID
	s.transition(models.CaptureIdle)
	waiter <- outcome{result: m.result}
}

func (s *Session) applyCancel() {
	if s.cancelRun != nil {
		s.cancelRun()
		s.cancelRun = nil
	}
	if s.waiter != nil {
		s.waiter <- outcome{err: ErrCancelled}
		s.waiter = nil
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.live = ""
	s.final = nil
	s.transition(models.CaptureIdle)
}

func (s *Session) scheduleRevert(delay time.Duration) {
	attempt := s.attempt
	s.timer = time.AfterFunc(delay, func() {
		s.post(message{op: opRevert, attempt: attempt})
	})
}

func (s *Session) transition(to models.CaptureStatus) {
	from := s.status
	s.status = to
	if to != models.CaptureError {
		s.errMsg = ""
	}
	telemetry.CaptureTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
	s.logger.Debug("Capture transition", zap.String("from", string(from)), zap.String("to", string(to)))
	s.publishSnapshot()
}

func (s *Session) publishSnapshot() {
	snap := models.CaptureSnapshot{
		SessionID:      s.id,
		Status:         s.status,
		LiveTranscript: s.live,
		Error:          s.errMsg,
		DraftID:        s.draftID,
	}
	if s.final != nil {
		f := *s.final
		snap.FinalTranscript = &f
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Session) finish() {
	s.stopOnce.Do(func() {
		if s.timer != nil {
			s.timer.Stop()
		}
		close(s.done)
	})
}
