package orchestration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/ema-festdesk/core/events"
)

// fakeClock only moves when told to. Ticks are delivered through tick, which
// tests running the real loop send on.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	tick chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:  time.Date(2026, time.January, 9, 10, 0, 0, 0, time.UTC),
		tick: make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	return fakeTicker{c: c.tick}
}

type fakeTicker struct {
	c chan time.Time
}

func (t fakeTicker) C() <-chan time.Time { return t.c }
func (t fakeTicker) Stop()               {}

type fakeCapture struct {
	listening   bool
	starts      int
	stops       int
	resets      int
	lastOptions ListenOptions
	startErr    error
}

func (c *fakeCapture) StartListening(_ context.Context, opts ListenOptions) error {
	if c.startErr != nil {
		return c.startErr
	}
	c.starts++
	c.listening = true
	c.lastOptions = opts
	return nil
}

func (c *fakeCapture) StopListening() error {
	c.stops++
	c.listening = false
	return nil
}

func (c *fakeCapture) Reset()            { c.resets++ }
func (c *fakeCapture) IsListening() bool { return c.listening }

type fakePlayback struct {
	requests  []SpeechRequest
	callbacks []PlaybackCallbacks
	cancels   int
	speakErr  error
}

func (p *fakePlayback) Speak(_ context.Context, req SpeechRequest, callbacks PlaybackCallbacks) error {
	if p.speakErr != nil {
		return p.speakErr
	}
	p.requests = append(p.requests, req)
	p.callbacks = append(p.callbacks, callbacks)
	return nil
}

func (p *fakePlayback) Cancel() error {
	p.cancels++
	return nil
}

func (p *fakePlayback) last() PlaybackCallbacks {
	if len(p.callbacks) == 0 {
		return PlaybackCallbacks{}
	}
	return p.callbacks[len(p.callbacks)-1]
}

type fakeAnswerer struct {
	mu         sync.Mutex
	utterances []string
	answer     func(utterance string) (string, error)
}

func (a *fakeAnswerer) Answer(_ context.Context, utterance string) (string, error) {
	a.mu.Lock()
	a.utterances = append(a.utterances, utterance)
	a.mu.Unlock()

	if a.answer == nil {
		return fmt.Sprintf("answer to %s", utterance), nil
	}
	return a.answer(utterance)
}

type recordingObserver struct {
	messages    []Message
	statuses    []Status
	transcripts []string
	rejected    []string
}

func (o *recordingObserver) OnMessage(message Message)      { o.messages = append(o.messages, message) }
func (o *recordingObserver) OnStatus(status Status)         { o.statuses = append(o.statuses, status) }
func (o *recordingObserver) OnTranscript(transcript string) { o.transcripts = append(o.transcripts, transcript) }
func (o *recordingObserver) OnSubmitRejected(text string, _ error) {
	o.rejected = append(o.rejected, text)
}

// controllerHarness drives a controller without running its loop. Answer
// fetches are parked until runFetches is called, device calls run inline.
type controllerHarness struct {
	t          *testing.T
	controller *Controller
	clock      *fakeClock
	capture    *fakeCapture
	playback   *fakePlayback
	answerer   *fakeAnswerer
	observer   *recordingObserver
	pending    []func()
}

func newControllerHarness(t *testing.T, opts ...ControllerOption) *controllerHarness {
	t.Helper()

	h := &controllerHarness{
		t:        t,
		clock:    newFakeClock(),
		capture:  &fakeCapture{},
		playback: &fakePlayback{},
		answerer: &fakeAnswerer{},
		observer: &recordingObserver{},
	}

	opts = append([]ControllerOption{
		WithClock(h.clock),
		WithObserver(h.observer),
		withSpawn(func(f func()) { h.pending = append(h.pending, f) }),
		withDeviceCalls(func(call func()) { call() }),
	}, opts...)
	h.controller = NewController(h.capture, h.playback, h.answerer, opts...)
	return h
}

func (h *controllerHarness) send(event events.Event) {
	h.controller.handle(event)
	h.drain()
}

func (h *controllerHarness) drain() {
	for {
		select {
		case event := <-h.controller.queue:
			h.controller.handle(event)
		default:
			return
		}
	}
}

func (h *controllerHarness) advance(d time.Duration) {
	h.send(events.NewSchedulerTick(h.clock.Add(d)))
}

func (h *controllerHarness) runFetches() {
	pending := h.pending
	h.pending = nil
	for _, fetch := range pending {
		fetch()
	}
	h.drain()
}

func (h *controllerHarness) endPlayback() {
	if onEnd := h.playback.last().OnEnd; onEnd != nil {
		onEnd()
	}
	h.drain()
}

func (h *controllerHarness) requireState(want TurnState) {
	h.t.Helper()
	if got := h.controller.Status().State; got != want {
		h.t.Fatalf("expected state %q, got %q", want, got)
	}
}
