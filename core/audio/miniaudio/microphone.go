package miniaudio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// audioDevice is the part of *malgo.Device the microphone and speaker use.
type audioDevice interface {
	Start() error
	Stop() error
	IsStarted() bool
	Uninit()
}

type microphone struct {
	// mu serializes lifecycle calls. The data callback must never take it,
	// malgo's Stop and Uninit wait for an in-flight callback to return.
	mu     sync.Mutex
	device audioDevice

	onAudio atomic.Pointer[func(audio []byte)]
}

func (m *microphone) init(audioContext *malgo.AllocatedContext) error {
	config := deviceConfig(malgo.Capture)
	config.Capture.Format = sampleFormat
	config.Capture.Channels = channels
	config.PerformanceProfile = malgo.LowLatency
	config.PeriodSizeInFrames = 480
	config.Periods = 3

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{
		Data: func(_, input []byte, frameCount uint32) { m.deliver(input, frameCount) },
	})
	if err != nil {
		return err
	}

	m.device = device
	return nil
}

func (m *microphone) deliver(input []byte, frameCount uint32) {
	n := int(frameCount) * bytesPerFrame
	if n == 0 || len(input) < n {
		return
	}

	if onAudio := m.onAudio.Load(); onAudio != nil {
		// malgo reuses the buffer after the callback returns.
		(*onAudio)(append([]byte(nil), input[:n]...))
	}
}

// StartCapture streams microphone audio to onAudio until StopCapture.
func (m *microphone) StartCapture(onAudio func(audio []byte)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return fmt.Errorf("microphone not initialized")
	}
	m.onAudio.Store(&onAudio)
	if m.device.IsStarted() {
		return nil
	}
	if err := m.device.Start(); err != nil {
		m.onAudio.Store(nil)
		return fmt.Errorf("failed to start microphone: %w", err)
	}
	return nil
}

func (m *microphone) StopCapture() error {
	m.onAudio.Store(nil)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil || !m.device.IsStarted() {
		return nil
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop microphone: %w", err)
	}
	return nil
}

func (m *microphone) uninit() {
	m.onAudio.Store(nil)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
}
