package miniaudio

import (
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-festdesk/core/audio"
)

// Device owns the malgo context together with the default microphone and
// speaker. Both run mono linear16 at the default sample rate.
type Device struct {
	// audioContext is kept only so it can be released on Close.
	audioContext *malgo.AllocatedContext
	microphone
	speaker
}

func NewDevice() (*Device, error) {
	audioContext, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	device := &Device{audioContext: audioContext}
	if err := device.speaker.init(audioContext); err != nil {
		device.Close()
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}
	if err := device.speaker.start(); err != nil {
		device.Close()
		return nil, fmt.Errorf("failed to start speaker: %w", err)
	}
	if err := device.microphone.init(audioContext); err != nil {
		device.Close()
		return nil, fmt.Errorf("failed to initialize microphone: %w", err)
	}

	return device, nil
}

func (d *Device) Close() {
	d.microphone.uninit()
	d.speaker.uninit()
	if d.audioContext != nil {
		_ = d.audioContext.Uninit()
		d.audioContext.Free()
		d.audioContext = nil
	}
}

func (d *Device) EncodingInfo() audio.EncodingInfo {
	return audio.DefaultEncoding()
}

func deviceConfig(deviceType malgo.DeviceType) malgo.DeviceConfig {
	config := malgo.DefaultDeviceConfig(deviceType)
	config.SampleRate = uint32(audio.DefaultSampleRate)
	config.Alsa.NoMMap = 1
	return config
}

const (
	sampleFormat = malgo.FormatS16
	channels     = 1
)

var bytesPerFrame = malgo.SampleSizeInBytes(sampleFormat) * channels
