package deepgram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	orchestration "github.com/koscakluka/ema-festdesk/core"
	"github.com/koscakluka/ema-festdesk/core/audio"
)

type fakeSource struct {
	mu      sync.Mutex
	onAudio func([]byte)
	stops   int
}

func (s *fakeSource) StartCapture(onAudio func([]byte)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAudio = onAudio
	return nil
}

func (s *fakeSource) StopCapture() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAudio = nil
	s.stops++
	return nil
}

func resultMessage(transcript string, isFinal, speechFinal bool) []byte {
	return []byte(fmt.Sprintf(
		`{"type":%q,"channel":{"alternatives":[{"transcript":%q}]},"is_final":%t,"speech_final":%t}`,
		string(api.TypeMessageResponse), transcript, isFinal, speechFinal,
	))
}

func TestCaptureDeviceAccumulatesTranscript(t *testing.T) {
	var transcripts []string
	device, err := NewCaptureDevice("key", &fakeSource{},
		WithTranscriptCallback(func(transcript string) { transcripts = append(transcripts, transcript) }),
	)
	if err != nil {
		t.Fatalf("NewCaptureDevice: %v", err)
	}

	device.handleMessage(resultMessage("when", false, false))
	device.handleMessage(resultMessage("when is", false, false))
	device.handleMessage(resultMessage("when is", true, false))
	device.handleMessage(resultMessage("tech", false, false))
	device.handleMessage(resultMessage("tech fest", true, true))
	device.handleMessage([]byte(`{"type":"Metadata"}`))

	want := []string{"when", "when is", "when is tech", "when is tech fest"}
	if strings.Join(transcripts, "|") != strings.Join(want, "|") {
		t.Fatalf("expected transcripts %q, got %q", want, transcripts)
	}

	device.Reset()
	if got := device.Transcript(); got != "" {
		t.Fatalf("expected reset transcript, got %q", got)
	}
}

func TestNewCaptureDeviceValidation(t *testing.T) {
	if _, err := NewCaptureDevice("", &fakeSource{}); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewCaptureDevice("key", nil); err == nil {
		t.Fatalf("expected error for missing source")
	}
	if _, err := NewCaptureDevice("key", &fakeSource{}, WithEncoding(audio.EncodingInfo{SampleRate: 16000, Format: audio.FormatMulaw})); err == nil {
		t.Fatalf("expected error for mulaw above 8kHz")
	}
}

func TestCaptureDeviceStreamsOverWebsocket(t *testing.T) {
	queries := make(chan string, 1)
	received := make(chan []byte, 1)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		queries <- r.URL.RawQuery

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if _, audioChunk, err := conn.ReadMessage(); err == nil {
			received <- audioChunk
		}
		_ = conn.WriteMessage(websocket.TextMessage, resultMessage("hello there", true, true))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	transcripts := make(chan string, 4)
	source := &fakeSource{}
	device, err := NewCaptureDevice("key", source,
		WithListenURL("ws"+strings.TrimPrefix(server.URL, "http")),
		WithTranscriptCallback(func(transcript string) { transcripts <- transcript }),
	)
	if err != nil {
		t.Fatalf("NewCaptureDevice: %v", err)
	}

	if err := device.StartListening(context.Background(), orchestration.ListenOptions{Continuous: true, Language: "en-IN"}); err != nil {
		t.Fatalf("StartListening: %v", err)
	}
	if !device.IsListening() {
		t.Fatalf("expected device to be listening")
	}

	if query := <-queries; !strings.Contains(query, "language=en-IN") || !strings.Contains(query, "encoding=linear16") {
		t.Fatalf("unexpected query %q", query)
	}

	source.mu.Lock()
	onAudio := source.onAudio
	source.mu.Unlock()
	onAudio([]byte{1, 2, 3, 4})

	select {
	case chunk := <-received:
		if len(chunk) != 4 {
			t.Fatalf("expected 4 audio bytes, got %d", len(chunk))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for audio")
	}

	select {
	case transcript := <-transcripts:
		if transcript != "hello there" {
			t.Fatalf("unexpected transcript %q", transcript)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for transcript")
	}

	if err := device.StopListening(); err != nil {
		t.Fatalf("StopListening: %v", err)
	}
	if device.IsListening() || source.stops != 1 {
		t.Fatalf("expected capture to be stopped")
	}
}
