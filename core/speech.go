package orchestration

import (
	"context"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-festdesk/core/events"
)

const (
	defaultSpeechRate   = 1.0
	defaultSpeechPitch  = 1.0
	defaultSpeechVolume = 1.0
)

type speechJob struct {
	id     string
	text   string
	done   chan struct{}
	cancel context.CancelFunc
}

// SpeechCoordinator owns the playback device and keeps at most one speech
// job active. Device calls go through runDevice so they never hold up the
// controller loop, and lifecycle callbacks of the device are turned into
// events posted back to it. The loop is the only caller of the coordinator.
type SpeechCoordinator struct {
	device    PlaybackDevice
	capture   CaptureDevice
	post      func(events.Event)
	runDevice func(func())

	locale string
	newID  func() string

	active *speechJob
}

func newSpeechCoordinator(device PlaybackDevice, capture CaptureDevice, locale string, post func(events.Event), runDevice func(func())) *SpeechCoordinator {
	return &SpeechCoordinator{
		device:    device,
		capture:   capture,
		post:      post,
		runDevice: runDevice,
		locale:    locale,
		newID:     uuid.NewString,
	}
}

// Speak cancels whatever is playing and starts a new job. The returned
// channel is closed once the job ends, fails or is superseded. The job's
// context is cancelled when it is superseded, which aborts a playback that
// is still connecting.
func (c *SpeechCoordinator) Speak(ctx context.Context, text string) (string, <-chan struct{}) {
	c.Cancel()

	ctx, cancel := context.WithCancel(ctx)
	job := &speechJob{id: c.newID(), text: text, done: make(chan struct{}), cancel: cancel}
	c.active = job

	jobID := job.id
	req := SpeechRequest{
		Text:   text,
		Rate:   defaultSpeechRate,
		Pitch:  defaultSpeechPitch,
		Volume: defaultSpeechVolume,
		Locale: c.locale,
	}
	callbacks := PlaybackCallbacks{
		OnStart: func() { c.post(events.NewAssistantPlaybackStarted(jobID)) },
		OnEnd:   func() { c.post(events.NewAssistantPlaybackEnded(jobID)) },
		OnError: func(err error) { c.post(events.NewAssistantPlaybackFailed(jobID, err)) },
	}

	device, capture := c.device, c.capture
	c.runDevice(func() {
		if err := capture.StopListening(); err != nil {
			logger.Warn("failed to suspend capture before speaking", "error", err)
		}
		if ctx.Err() != nil {
			// Superseded before it got to the device.
			return
		}
		if err := device.Speak(ctx, req, callbacks); err != nil {
			c.post(events.NewAssistantPlaybackFailed(jobID, err))
		}
	})

	return jobID, job.done
}

// IsActive reports whether jobID is the job currently playing.
func (c *SpeechCoordinator) IsActive(jobID string) bool {
	return c.active != nil && c.active.id == jobID
}

func (c *SpeechCoordinator) Speaking() bool {
	return c.active != nil
}

// Finish resolves the active job if it matches jobID. Reports of superseded
// jobs are ignored and return false.
func (c *SpeechCoordinator) Finish(jobID string) bool {
	if !c.IsActive(jobID) {
		return false
	}

	c.active.cancel()
	close(c.active.done)
	c.active = nil
	return true
}

// Cancel stops the active job, if any, and resolves its completion signal.
func (c *SpeechCoordinator) Cancel() {
	if c.active == nil {
		return
	}

	job := c.active
	c.active = nil
	job.cancel()
	close(job.done)

	device := c.device
	c.runDevice(func() {
		if err := device.Cancel(); err != nil {
			logger.Warn("failed to cancel speech playback", "job_id", job.id, "error", err)
		}
	})
}
