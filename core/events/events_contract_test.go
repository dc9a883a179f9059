package events

import (
	"errors"
	"testing"
	"time"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "conversation start", event: NewConversationStartRequested(), expected: KindConversationStartRequested},
		{name: "conversation stop", event: NewConversationStopRequested(), expected: KindConversationStopRequested},
		{name: "transcript updated", event: NewUserTranscriptUpdated("hel"), expected: KindUserTranscriptUpdated},
		{name: "text submitted", event: NewUserTextSubmitted("hello"), expected: KindUserTextSubmitted},
		{name: "scheduler tick", event: NewSchedulerTick(time.Unix(10, 0)), expected: KindSchedulerTick},
		{name: "answer ready", event: NewAnswerReady("s", "t", "a"), expected: KindAnswerReady},
		{name: "answer failed", event: NewAnswerFailed("s", "t", errors.New("boom")), expected: KindAnswerFailed},
		{name: "playback started", event: NewAssistantPlaybackStarted("j"), expected: KindAssistantPlaybackStarted},
		{name: "playback ended", event: NewAssistantPlaybackEnded("j"), expected: KindAssistantPlaybackEnded},
		{name: "playback failed", event: NewAssistantPlaybackFailed("j", errors.New("boom")), expected: KindAssistantPlaybackFailed},
		{name: "capture started", event: NewCaptureStarted("a"), expected: KindCaptureStarted},
		{name: "capture failed", event: NewCaptureFailed("a", errors.New("boom")), expected: KindCaptureFailed},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestSchedulerTickUsesProvidedTime(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tick := NewSchedulerTick(now)

	if !tick.Now().Equal(now) {
		t.Fatalf("expected tick time %v, got %v", now, tick.Now())
	}
}

func TestPlaybackEndedAndFailedKindsAreDistinct(t *testing.T) {
	ended := NewAssistantPlaybackEnded("j")
	failed := NewAssistantPlaybackFailed("j", nil)

	if ended.Kind() == failed.Kind() {
		t.Fatalf("expected playback ended and failed kinds to differ, both were %q", ended.Kind())
	}
}
