package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	orchestration "github.com/koscakluka/ema-festdesk/core"
	"github.com/koscakluka/ema-festdesk/core/audio"
)

const defaultListenURL = "wss://api.deepgram.com/v1/listen"

// AudioSource is the microphone feeding the transcription stream.
type AudioSource interface {
	StartCapture(onAudio func(audio []byte)) error
	StopCapture() error
}

// CaptureDevice turns microphone audio into a live, growing transcript using
// Deepgram's streaming listen API. The transcript is every finalized segment
// heard since the last Reset plus the current interim guess.
type CaptureDevice struct {
	apiKey   string
	source   AudioSource
	encoding audio.EncodingInfo
	model    string
	url      string
	dialer   *websocket.Dialer

	onTranscript func(transcript string)

	mu         sync.Mutex
	writeMu    sync.Mutex
	conn       *websocket.Conn
	continuous bool
	finalized  []string
	interim    string
}

type CaptureOption func(*CaptureDevice)

func WithEncoding(encoding audio.EncodingInfo) CaptureOption {
	return func(d *CaptureDevice) { d.encoding = encoding }
}

func WithModel(model string) CaptureOption {
	return func(d *CaptureDevice) { d.model = model }
}

// WithListenURL points the device at a different websocket endpoint.
func WithListenURL(listenURL string) CaptureOption {
	return func(d *CaptureDevice) { d.url = listenURL }
}

// WithTranscriptCallback receives the full transcript on every change.
func WithTranscriptCallback(callback func(transcript string)) CaptureOption {
	return func(d *CaptureDevice) { d.onTranscript = callback }
}

func NewCaptureDevice(apiKey string, source AudioSource, opts ...CaptureOption) (*CaptureDevice, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("deepgram api key missing")
	}
	if source == nil {
		return nil, fmt.Errorf("audio source missing")
	}

	d := &CaptureDevice{
		apiKey:       apiKey,
		source:       source,
		encoding:     audio.DefaultEncoding(),
		model:        "nova-3",
		url:          defaultListenURL,
		dialer:       websocket.DefaultDialer,
		onTranscript: func(string) {},
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := validateEncoding(d.encoding); err != nil {
		return nil, fmt.Errorf("invalid encoding: %w", err)
	}
	return d, nil
}

func (d *CaptureDevice) StartListening(ctx context.Context, opts orchestration.ListenOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn != nil {
		return nil
	}

	listenURL, err := d.listenURL(opts)
	if err != nil {
		return err
	}

	conn, _, err := d.dialer.DialContext(ctx, listenURL, http.Header{"Authorization": {"Token " + d.apiKey}})
	if err != nil {
		return fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	d.conn = conn
	d.continuous = opts.Continuous
	go d.readMessages(conn)

	if err := d.source.StartCapture(func(audio []byte) { d.sendAudio(conn, audio) }); err != nil {
		d.closeLocked()
		return fmt.Errorf("failed to start audio capture: %w", err)
	}

	return nil
}

func (d *CaptureDevice) listenURL(opts orchestration.ListenOptions) (string, error) {
	listenURL, err := url.Parse(d.url)
	if err != nil {
		return "", fmt.Errorf("invalid listen url: %w", err)
	}

	query := listenURL.Query()
	query.Set("encoding", string(d.encoding.Format))
	query.Set("sample_rate", strconv.Itoa(d.encoding.SampleRate))
	query.Set("channels", "1")
	query.Set("model", d.model)
	query.Set("smart_format", "true")
	query.Set("interim_results", "true")
	query.Set("endpointing", "300")
	if opts.Language != "" {
		query.Set("language", opts.Language)
	}
	listenURL.RawQuery = query.Encode()

	return listenURL.String(), nil
}

func (d *CaptureDevice) StopListening() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil
	}

	stopErr := d.source.StopCapture()
	closeErr := d.closeLocked()
	if err := errors.Join(stopErr, closeErr); err != nil {
		return fmt.Errorf("failed to stop listening: %w", err)
	}
	return nil
}

func (d *CaptureDevice) closeLocked() error {
	conn := d.conn
	d.conn = nil

	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	err := conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)})
	return errors.Join(err, conn.Close())
}

// Reset forgets the accumulated transcript.
func (d *CaptureDevice) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.finalized = nil
	d.interim = ""
}

func (d *CaptureDevice) IsListening() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn != nil
}

// Transcript returns the transcript as currently heard.
func (d *CaptureDevice) Transcript() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transcriptLocked()
}

func (d *CaptureDevice) transcriptLocked() string {
	parts := append([]string(nil), d.finalized...)
	if d.interim != "" {
		parts = append(parts, d.interim)
	}
	return strings.Join(parts, " ")
}

func (d *CaptureDevice) sendAudio(conn *websocket.Conn, audio []byte) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	if err := conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		logger.Debug("failed to send audio to deepgram", "error", err)
	}
}

func (d *CaptureDevice) readMessages(conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && d.isCurrent(conn) {
				logger.Warn("failed to read deepgram websocket message", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if !d.isCurrent(conn) {
			return
		}
		d.handleMessage(msg)
	}
}

func (d *CaptureDevice) isCurrent(conn *websocket.Conn) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn == conn
}

func (d *CaptureDevice) handleMessage(msg []byte) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &header); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}
	if api.TypeResponse(header.Type) != api.TypeMessageResponse {
		return
	}

	var result api.MessageResponse
	if err := json.Unmarshal(msg, &result); err != nil {
		logger.Warn("failed to unmarshal deepgram transcript", "error", err)
		return
	}

	segment := ""
	if len(result.Channel.Alternatives) > 0 {
		segment = strings.TrimSpace(result.Channel.Alternatives[0].Transcript)
	}

	d.mu.Lock()
	before := d.transcriptLocked()
	if result.IsFinal {
		if segment != "" {
			d.finalized = append(d.finalized, segment)
		}
		d.interim = ""
	} else {
		d.interim = segment
	}
	transcript := d.transcriptLocked()
	stopAfterUtterance := result.SpeechFinal && !d.continuous
	d.mu.Unlock()

	if transcript != before {
		d.onTranscript(transcript)
	}
	if stopAfterUtterance {
		if err := d.StopListening(); err != nil {
			logger.Warn("failed to stop after utterance", "error", err)
		}
	}
}
