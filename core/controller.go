package orchestration

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-festdesk/core/answers"
	"github.com/koscakluka/ema-festdesk/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const controllerEventQueueCapacity = 64

// Controller is the turn-taking state machine. All state changes happen on
// the goroutine running Run, everything else talks to it through events.
// Device calls that may block are handed to a separate queue and report back
// with events, so Stop takes effect even while a device is connecting.
type Controller struct {
	capture  CaptureDevice
	answerer Answerer
	speech   *SpeechCoordinator
	detector *SilenceDetector
	clock    Clock
	observer Observer

	spawn     func(func())
	runDevice func(func())
	devices   *deviceCalls
	newID     func() string

	locale       string
	settleDelay  time.Duration
	tickInterval time.Duration

	baseContext context.Context
	queue       chan events.Event
	done        chan struct{}
	runOnce     sync.Once

	// Owned by the loop.
	session    ConversationSession
	cancelTurn context.CancelFunc
	resumeAt   time.Time

	// captureAttempt identifies the pending or open listen request,
	// captureOpen is set once the device confirmed it.
	captureAttempt string
	captureOpen    bool
	cancelCapture  context.CancelFunc

	mu       sync.RWMutex
	status   Status
	messages []Message
}

func NewController(capture CaptureDevice, playback PlaybackDevice, answerer Answerer, opts ...ControllerOption) *Controller {
	if capture == nil {
		capture = &NoopCapture{}
	}
	if playback == nil {
		playback = NoopPlayback{}
	}

	c := &Controller{
		capture:      capture,
		answerer:     answerer,
		detector:     NewSilenceDetector(defaultSilenceDuration),
		clock:        systemClock{},
		observer:     noopObserver{},
		spawn:        func(f func()) { go f() },
		newID:        uuid.NewString,
		locale:       defaultLocale,
		settleDelay:  defaultSettleDelay,
		tickInterval: defaultTickInterval,
		baseContext:  context.Background(),
		queue:        make(chan events.Event, controllerEventQueueCapacity),
		done:         make(chan struct{}),
		session:      ConversationSession{CurrentState: TurnStateIdle},
	}
	c.devices = newDeviceCalls()
	c.runDevice = c.devices.Do
	c.status = statusFor(c.session, false)

	for _, opt := range opts {
		opt(c)
	}

	c.speech = newSpeechCoordinator(playback, capture, c.locale, c.post, c.runDevice)
	return c
}

// Run processes events until ctx is cancelled. The session is torn down on
// return, and Run only returns once the device calls made by the teardown
// have finished, so devices can be closed afterwards.
func (c *Controller) Run(ctx context.Context) error {
	started := false
	c.runOnce.Do(func() { started = true })
	if !started {
		return errors.New("controller is already running")
	}

	go c.devices.run()
	defer func() {
		close(c.done)
		c.devices.close()
		<-c.devices.finished
	}()

	c.baseContext = ctx
	ticker := c.clock.NewTicker(c.tickInterval)
	defer ticker.Stop()

	logger.Info("turn controller started", "locale", c.locale)
	for {
		select {
		case <-ctx.Done():
			c.teardown()
			return nil
		case now := <-ticker.C():
			c.handle(events.NewSchedulerTick(now))
		case event := <-c.queue:
			c.handle(event)
		}
	}
}

// Start begins listening for voice input.
func (c *Controller) Start() {
	c.post(events.NewConversationStartRequested())
}

// Stop ends voice mode and discards anything in flight.
func (c *Controller) Stop() {
	c.post(events.NewConversationStopRequested())
}

// UpdateTranscript feeds the full live transcript as currently heard.
func (c *Controller) UpdateTranscript(transcript string) {
	c.post(events.NewUserTranscriptUpdated(transcript))
}

// Submit queues typed input. It fails fast when the input is blank or a turn
// is already being answered. The loop checks the guard again on receipt and
// reports a late rejection through Observer.OnSubmitRejected.
func (c *Controller) Submit(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyUtterance
	}

	status := c.Status()
	if status.Thinking || status.Speaking {
		return ErrTurnInProgress
	}

	c.post(events.NewUserTextSubmitted(text))
	return nil
}

func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Messages returns a copy of the conversation so far.
func (c *Controller) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	messages := []Message{}
	if err := copier.Copy(&messages, &c.messages); err != nil {
		logger.Error("failed to copy messages", "error", err)
	}
	return messages
}

func (c *Controller) post(event events.Event) {
	select {
	case c.queue <- event:
	case <-c.done:
	}
}

func (c *Controller) handle(event events.Event) {
	switch e := event.(type) {
	case events.ConversationStartRequested:
		c.start()
	case events.ConversationStopRequested:
		c.stop()
	case events.UserTranscriptUpdated:
		c.observeTranscript(e.Transcript)
	case events.UserTextSubmitted:
		c.finalize(Utterance{Text: e.Text, Source: UtteranceSourceTyped})
	case events.SchedulerTick:
		c.tick(e.Now())
	case events.AnswerReady:
		c.completeTurn(e.SessionID, e.TurnID, e.Answer, nil)
	case events.AnswerFailed:
		c.completeTurn(e.SessionID, e.TurnID, "", e.Err)
	case events.CaptureStarted:
		if e.AttemptID == c.captureAttempt && c.captureAttempt != "" {
			c.captureOpen = true
		}
	case events.CaptureFailed:
		c.captureFailed(e.AttemptID, e.Err)
	case events.AssistantPlaybackStarted:
		if c.speech.IsActive(e.JobID) {
			capture := c.capture
			c.runDevice(capture.Reset)
		}
	case events.AssistantPlaybackEnded:
		c.finishPlayback(e.JobID, nil)
	case events.AssistantPlaybackFailed:
		c.finishPlayback(e.JobID, &SpeechPlaybackError{JobID: e.JobID, Err: e.Err})
	default:
		logger.Warn("unhandled controller event", "kind", event.Kind())
	}

	c.publishStatus()
}

func (c *Controller) start() {
	if c.session.Active {
		return
	}

	c.session.Active = true
	if c.session.inProgress() {
		// A typed turn is being answered, listening resumes after it.
		return
	}

	c.session.ID = c.newID()
	logger.Info("conversation started", "session_id", c.session.ID)
	c.resumeListening()
}

func (c *Controller) stop() {
	c.session.Active = false
	c.speech.Cancel()
	c.detector.Reset()
	c.resumeAt = time.Time{}

	if c.cancelTurn != nil {
		c.cancelTurn()
		c.cancelTurn = nil
	}
	c.session.PendingUtteranceText = ""
	c.session.TurnID = ""

	c.suspendCapture()
	c.session.CurrentState = TurnStateStopped
	logger.Info("conversation stopped", "session_id", c.session.ID)
}

func (c *Controller) teardown() {
	c.stop()
	c.publishStatus()
}

// resumeListening asks the capture device to open. The state is Listening
// right away, transcripts only count once the device confirmed with a
// CaptureStarted event.
func (c *Controller) resumeListening() {
	c.detector.Reset()
	c.resumeAt = time.Time{}
	c.releaseCaptureAttempt()

	attemptID := c.newID()
	ctx, cancel := context.WithCancel(c.baseContext)
	c.captureAttempt = attemptID
	c.cancelCapture = cancel
	c.session.CurrentState = TurnStateListening

	capture := c.capture
	opts := ListenOptions{Continuous: true, Language: c.locale}
	c.runDevice(func() {
		capture.Reset()
		if err := capture.StartListening(ctx, opts); err != nil {
			c.post(events.NewCaptureFailed(attemptID, err))
			return
		}
		c.post(events.NewCaptureStarted(attemptID))
	})
}

func (c *Controller) captureFailed(attemptID string, err error) {
	if attemptID != c.captureAttempt || c.captureAttempt == "" {
		logger.Debug("ignoring failure of abandoned listen request", "attempt_id", attemptID, "error", err)
		return
	}

	logger.Error("failed to start listening", "error", err)
	c.releaseCaptureAttempt()
	c.session.Active = false
	c.session.CurrentState = TurnStateIdle
	c.appendMessage(Message{Role: MessageRoleAssistant, Content: errorMessagePrefix + err.Error()})
}

// suspendCapture abandons any pending listen request and closes capture.
// Calls are queued in order, so a request that still succeeds is closed
// right after.
func (c *Controller) suspendCapture() {
	c.releaseCaptureAttempt()

	capture := c.capture
	c.runDevice(func() {
		if err := capture.StopListening(); err != nil {
			logger.Warn("failed to stop listening", "error", err)
		}
		capture.Reset()
	})
}

func (c *Controller) releaseCaptureAttempt() {
	if c.cancelCapture != nil {
		c.cancelCapture()
		c.cancelCapture = nil
	}
	c.captureAttempt = ""
	c.captureOpen = false
}

// capturing is true while transcript updates belong to the current turn.
// During the settle delay the state is already Listening but capture has not
// resumed yet.
func (c *Controller) capturing() bool {
	return c.session.Active && c.session.CurrentState == TurnStateListening && c.captureOpen
}

func (c *Controller) observeTranscript(transcript string) {
	if !c.capturing() {
		return
	}

	c.detector.Observe(transcript, c.clock.Now())
	c.observer.OnTranscript(transcript)
}

func (c *Controller) tick(now time.Time) {
	if c.capturing() {
		if text, ok := c.detector.Poll(now); ok {
			c.finalize(Utterance{Text: text, Source: UtteranceSourceVoice})
		}
	}

	if !c.resumeAt.IsZero() && !now.Before(c.resumeAt) {
		c.resumeAt = time.Time{}
		if c.session.Active && c.session.CurrentState == TurnStateListening {
			c.resumeListening()
		}
	}
}

func (c *Controller) finalize(utterance Utterance) {
	text := strings.TrimSpace(utterance.Text)
	if text == "" {
		return
	}
	if c.session.inProgress() {
		logger.Info("utterance rejected, turn in progress", "source", utterance.Source, "state", c.session.CurrentState)
		if utterance.Source == UtteranceSourceTyped {
			c.observer.OnSubmitRejected(text, ErrTurnInProgress)
		}
		return
	}
	if utterance.Source == UtteranceSourceVoice && !c.capturing() {
		return
	}

	c.detector.Reset()
	c.resumeAt = time.Time{}
	c.suspendCapture()

	c.appendMessage(Message{Role: MessageRoleUser, Content: text})

	turnID := c.newID()
	sessionID := c.session.ID
	c.session.PendingUtteranceText = text
	c.session.TurnID = turnID
	c.session.TurnSource = utterance.Source
	c.session.CurrentState = TurnStateFinalizing

	ctx, cancel := context.WithCancel(c.baseContext)
	c.cancelTurn = cancel

	finalized := Utterance{Text: text, Source: utterance.Source}
	c.spawn(func() { c.fetchAnswer(ctx, sessionID, turnID, finalized) })
}

func (c *Controller) fetchAnswer(ctx context.Context, sessionID, turnID string, utterance Utterance) {
	ctx, span := tracer.Start(ctx, "fetch answer")
	defer span.End()
	span.SetAttributes(
		attribute.String("turn.id", turnID),
		attribute.String("turn.source", string(utterance.Source)),
	)

	answer, err := c.answerer.Answer(ctx, utterance.Text)
	if err == nil && strings.TrimSpace(answer) == "" {
		err = errEmptyAnswer
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer fetch failed")
		c.post(events.NewAnswerFailed(sessionID, turnID, err))
		return
	}

	c.post(events.NewAnswerReady(sessionID, turnID, strings.TrimSpace(answer)))
}

func (c *Controller) completeTurn(sessionID, turnID, answer string, err error) {
	if c.session.CurrentState != TurnStateFinalizing || sessionID != c.session.ID || turnID != c.session.TurnID {
		logger.Debug("discarding stale answer", "session_id", sessionID, "turn_id", turnID)
		return
	}

	if c.cancelTurn != nil {
		c.cancelTurn()
		c.cancelTurn = nil
	}
	c.session.PendingUtteranceText = ""
	c.session.TurnID = ""

	spoken := answer
	if err != nil {
		logger.Error("failed to answer utterance", "turn_id", turnID, "error", err)
		c.appendMessage(Message{Role: MessageRoleAssistant, Content: errorMessagePrefix + userFacingMessage(err)})
		spoken = spokenErrorFallback
	} else {
		c.appendMessage(Message{Role: MessageRoleAssistant, Content: answer})
	}

	if !c.session.Active {
		c.session.CurrentState = TurnStateIdle
		return
	}

	c.speech.Speak(c.baseContext, spoken)
	c.session.CurrentState = TurnStateSpeaking
}

func (c *Controller) finishPlayback(jobID string, playbackErr *SpeechPlaybackError) {
	if !c.speech.Finish(jobID) {
		return
	}
	if playbackErr != nil {
		logger.Warn("speech playback failed", "job_id", jobID, "error", playbackErr)
	}
	if c.session.CurrentState != TurnStateSpeaking {
		return
	}

	if !c.session.Active {
		c.session.CurrentState = TurnStateIdle
		return
	}

	c.session.CurrentState = TurnStateListening
	c.resumeAt = c.clock.Now().Add(c.settleDelay)
}

func (c *Controller) appendMessage(message Message) {
	c.mu.Lock()
	c.messages = append(c.messages, message)
	c.mu.Unlock()

	c.observer.OnMessage(message)
}

func (c *Controller) publishStatus() {
	status := statusFor(c.session, c.capturing())

	c.mu.Lock()
	changed := status != c.status
	c.status = status
	c.mu.Unlock()

	if changed {
		c.observer.OnStatus(status)
	}
}

func userFacingMessage(err error) string {
	var remoteErr *answers.RemoteServiceError
	switch {
	case errors.As(err, &remoteErr):
		return remoteErr.Message
	case errors.Is(err, answers.ErrRateLimited):
		return "The answer service is busy right now, please try again in a moment."
	default:
		return err.Error()
	}
}
