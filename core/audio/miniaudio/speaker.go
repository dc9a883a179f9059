package miniaudio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// speaker plays queued audio. mu guards the buffer and marks and is taken by
// the data callback, so it is never held across device calls.
type speaker struct {
	device atomic.Pointer[audioDevice]

	buffer []byte
	marks  []playbackMark
	mu     sync.Mutex
}

// playbackMark fires once all audio queued before it has been played.
type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (s *speaker) init(audioContext *malgo.AllocatedContext) error {
	config := deviceConfig(malgo.Playback)
	config.Playback.Format = sampleFormat
	config.Playback.Channels = channels
	config.PeriodSizeInFrames = config.SampleRate / 10
	config.Periods = 4

	device, err := malgo.InitDevice(audioContext.Context, config, malgo.DeviceCallbacks{Data: s.fill})
	if err != nil {
		return err
	}

	s.setDevice(device)
	return nil
}

func (s *speaker) setDevice(device audioDevice) {
	s.device.Store(&device)
}

func (s *speaker) start() error {
	device := s.device.Load()
	if device == nil {
		return fmt.Errorf("speaker not initialized")
	}
	return (*device).Start()
}

// Write queues audio for playback.
func (s *speaker) Write(audio []byte) error {
	if device := s.device.Load(); device == nil || !(*device).IsStarted() {
		return fmt.Errorf("speaker not running")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = append(s.buffer, audio...)
	return nil
}

// Mark calls callback once everything written so far has been played.
func (s *speaker) Mark(name string, callback func(string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.marks = append(s.marks, playbackMark{name: name, position: len(s.buffer), callback: callback})
}

// ClearBuffer drops queued audio and pending marks without calling them.
func (s *speaker) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = nil
	s.marks = nil
}

func (s *speaker) fill(output, _ []byte, frameCount uint32) {
	need := int(frameCount) * bytesPerFrame

	s.mu.Lock()
	played := copy(output[:min(need, len(output))], s.buffer)
	s.buffer = s.buffer[played:]
	reached := s.advanceMarks(played)
	s.mu.Unlock()

	if len(reached) > 0 {
		go func() {
			for _, mark := range reached {
				mark.callback(mark.name)
			}
		}()
	}
}

// advanceMarks moves marks forward by played bytes and returns the ones that
// were reached. Marks at the end of an empty buffer are reached immediately.
func (s *speaker) advanceMarks(played int) []playbackMark {
	reached := 0
	for i := range s.marks {
		s.marks[i].position -= played
		if s.marks[i].position <= 0 {
			reached = i + 1
		}
	}

	if reached == 0 {
		return nil
	}
	done := s.marks[:reached]
	s.marks = append([]playbackMark(nil), s.marks[reached:]...)
	return done
}

func (s *speaker) uninit() {
	if device := s.device.Swap(nil); device != nil {
		(*device).Uninit()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = nil
	s.marks = nil
}
