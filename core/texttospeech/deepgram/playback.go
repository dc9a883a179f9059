package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	orchestration "github.com/koscakluka/ema-festdesk/core"
	"github.com/koscakluka/ema-festdesk/core/audio"
)

const defaultSpeakURL = "wss://api.deepgram.com/v1/speak"

// Sink plays synthesized audio. Marks are called once everything written
// before them has been played, ClearBuffer drops queued audio and marks.
type Sink interface {
	Write(audio []byte) error
	Mark(name string, callback func(string))
	ClearBuffer()
}

// PlaybackDevice speaks text through Deepgram's streaming speak API into a
// Sink. Each Speak uses its own websocket so a cancelled utterance can never
// leak audio into the next one.
//
// Deepgram voices have a fixed rate and pitch, only volume is applied.
type PlaybackDevice struct {
	apiKey   string
	voice    Voice
	url      string
	encoding audio.EncodingInfo
	dialer   *websocket.Dialer
	sink     Sink

	mu     sync.Mutex
	active *utterance
}

type utterance struct {
	conn      *websocket.Conn
	callbacks orchestration.PlaybackCallbacks
	volume    float64

	writeMu sync.Mutex
	started bool
	done    bool
}

type PlaybackOption func(*PlaybackDevice)

func WithVoice(voice Voice) PlaybackOption {
	return func(d *PlaybackDevice) { d.voice = voice }
}

func WithSpeakURL(speakURL string) PlaybackOption {
	return func(d *PlaybackDevice) { d.url = speakURL }
}

func WithPlaybackEncoding(encoding audio.EncodingInfo) PlaybackOption {
	return func(d *PlaybackDevice) { d.encoding = encoding }
}

func NewPlaybackDevice(apiKey string, sink Sink, opts ...PlaybackOption) (*PlaybackDevice, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key missing")
	}
	if sink == nil {
		return nil, fmt.Errorf("audio sink missing")
	}

	d := &PlaybackDevice{
		apiKey:   apiKey,
		voice:    DefaultVoice,
		url:      defaultSpeakURL,
		encoding: audio.DefaultEncoding(),
		dialer:   websocket.DefaultDialer,
		sink:     sink,
	}
	for _, opt := range opts {
		opt(d)
	}

	if !slices.Contains(AvailableVoices(), d.voice) {
		return nil, fmt.Errorf("invalid voice %q", d.voice)
	}
	if d.encoding.Format != audio.FormatLinear16 {
		return nil, fmt.Errorf("only linear16 playback is supported")
	}
	return d, nil
}

func (d *PlaybackDevice) Speak(ctx context.Context, req orchestration.SpeechRequest, callbacks orchestration.PlaybackCallbacks) error {
	if err := d.Cancel(); err != nil {
		logger.Warn("failed to cancel previous utterance", "error", err)
	}
	if req.Rate != 1 || req.Pitch != 1 {
		logger.Debug("deepgram voices ignore rate and pitch", "rate", req.Rate, "pitch", req.Pitch)
	}

	conn, _, err := d.dialer.DialContext(ctx, d.speakURL(), http.Header{"Authorization": {"token " + d.apiKey}})
	if err != nil {
		return fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	u := &utterance{conn: conn, callbacks: withDefaultCallbacks(callbacks), volume: req.Volume}
	if err := u.send(speakMessage{Type: "Speak", Text: req.Text}); err != nil {
		_ = conn.Close()
		return err
	}
	if err := u.send(controlMessage{Type: "Flush"}); err != nil {
		_ = conn.Close()
		return err
	}

	d.mu.Lock()
	d.active = u
	d.mu.Unlock()

	go d.readAudio(u)
	return nil
}

func (d *PlaybackDevice) speakURL() string {
	query := url.Values{}
	query.Set("encoding", string(d.encoding.Format))
	query.Set("sample_rate", strconv.Itoa(d.encoding.SampleRate))
	query.Set("model", string(d.voice))
	query.Set("container", "none")
	return d.url + "?" + query.Encode()
}

// Cancel stops the active utterance. No callbacks are made for it afterwards.
func (d *PlaybackDevice) Cancel() error {
	d.mu.Lock()
	u := d.active
	d.active = nil
	if u != nil {
		u.done = true
	}
	d.mu.Unlock()

	if u == nil {
		return nil
	}

	d.sink.ClearBuffer()
	clearErr := u.send(controlMessage{Type: "Clear"})
	return errors.Join(clearErr, u.conn.Close())
}

func (d *PlaybackDevice) readAudio(u *utterance) {
	defer u.conn.Close()

	for {
		msgType, msg, err := u.conn.ReadMessage()
		if err != nil {
			if d.finish(u) && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				u.callbacks.OnError(fmt.Errorf("speech stream ended before playback: %w", err))
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if !d.playAudio(u, msg) {
				return
			}
		case websocket.TextMessage:
			var header controlMessage
			if err := json.Unmarshal(msg, &header); err != nil {
				logger.Warn("failed to unmarshal deepgram message", "error", err)
				continue
			}
			if header.Type != "Flushed" {
				continue
			}

			// All audio is queued, the utterance ends when the sink reaches
			// this point.
			d.sink.Mark("end", func(string) {
				if d.finish(u) {
					u.callbacks.OnEnd()
				}
			})
			_ = u.send(controlMessage{Type: "Close"})
			return
		}
	}
}

func (d *PlaybackDevice) playAudio(u *utterance, chunk []byte) bool {
	d.mu.Lock()
	if u.done {
		d.mu.Unlock()
		return false
	}
	firstChunk := !u.started
	u.started = true
	d.mu.Unlock()

	if firstChunk {
		u.callbacks.OnStart()
	}

	audio.ScaleLinear16(chunk, u.volume)
	if err := d.sink.Write(chunk); err != nil {
		if d.finish(u) {
			u.callbacks.OnError(fmt.Errorf("failed to play speech audio: %w", err))
		}
		return false
	}
	return true
}

// finish marks u as done and reports whether the caller should notify.
func (d *PlaybackDevice) finish(u *utterance) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if u.done {
		return false
	}
	u.done = true
	if d.active == u {
		d.active = nil
	}
	return true
}

func withDefaultCallbacks(callbacks orchestration.PlaybackCallbacks) orchestration.PlaybackCallbacks {
	if callbacks.OnStart == nil {
		callbacks.OnStart = func() {}
	}
	if callbacks.OnEnd == nil {
		callbacks.OnEnd = func() {}
	}
	if callbacks.OnError == nil {
		callbacks.OnError = func(error) {}
	}
	return callbacks
}

type controlMessage struct {
	Type string `json:"type"`
}

type speakMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (u *utterance) send(msg any) error {
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	if err := u.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to deepgram websocket: %w", err)
	}
	return nil
}
