package orchestration

import (
	"context"
	"sync"
)

// ListenOptions configures a capture session.
type ListenOptions struct {
	Continuous bool
	Language   string
}

// CaptureDevice produces the live user transcript. Transcript updates are
// pushed into the controller with UpdateTranscript by whoever owns the device.
type CaptureDevice interface {
	StartListening(ctx context.Context, opts ListenOptions) error
	StopListening() error
	// Reset clears the accumulated transcript.
	Reset()
	IsListening() bool
}

type SpeechRequest struct {
	Text   string
	Rate   float64
	Pitch  float64
	Volume float64
	Locale string
}

// PlaybackCallbacks are the lifecycle notifications of one Speak call. They
// may be invoked from any goroutine, including the one calling Speak.
// Exactly one of OnEnd and OnError is expected per call, unless the playback
// is cancelled.
type PlaybackCallbacks struct {
	OnStart func()
	OnEnd   func()
	OnError func(error)
}

type PlaybackDevice interface {
	Speak(ctx context.Context, req SpeechRequest, callbacks PlaybackCallbacks) error
	// Cancel stops any playback in progress. Cancelled playbacks do not
	// report completion.
	Cancel() error
}

type Answerer interface {
	Answer(ctx context.Context, utterance string) (string, error)
}

// Observer receives display updates. Calls are made from the controller loop
// and should not block for long.
type Observer interface {
	OnMessage(message Message)
	OnStatus(status Status)
	OnTranscript(transcript string)
	// OnSubmitRejected reports typed input that Submit accepted but the loop
	// dropped because a turn had started in the meantime.
	OnSubmitRejected(text string, err error)
}

type noopObserver struct{}

func (noopObserver) OnMessage(Message)              {}
func (noopObserver) OnStatus(Status)                {}
func (noopObserver) OnTranscript(string)            {}
func (noopObserver) OnSubmitRejected(string, error) {}

// NoopCapture is a capture device that never hears anything. It backs the
// typed-only mode.
type NoopCapture struct {
	mu        sync.Mutex
	listening bool
}

func (c *NoopCapture) StartListening(context.Context, ListenOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listening = true
	return nil
}

func (c *NoopCapture) StopListening() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listening = false
	return nil
}

func (c *NoopCapture) Reset() {}

func (c *NoopCapture) IsListening() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listening
}

// NoopPlayback finishes every utterance immediately without producing sound.
type NoopPlayback struct{}

func (NoopPlayback) Speak(_ context.Context, _ SpeechRequest, callbacks PlaybackCallbacks) error {
	if callbacks.OnStart != nil {
		callbacks.OnStart()
	}
	if callbacks.OnEnd != nil {
		callbacks.OnEnd()
	}
	return nil
}

func (NoopPlayback) Cancel() error { return nil }
