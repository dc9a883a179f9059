package topics

import (
	"strings"
	"testing"
)

func TestGateClassify(t *testing.T) {
	gate := NewGate(DefaultFestival())

	tests := []struct {
		name      string
		utterance string
		want      Classification
	}{
		{name: "date question", utterance: "When is Tech Fest?", want: InDomain},
		{name: "off topic recipe", utterance: "Give me a pasta recipe", want: OutOfDomain},
		{name: "no lexicon hit", utterance: "tell me something", want: InDomain},
		{name: "off topic with domain keyword", utterance: "Is there a cinema show about history?", want: InDomain},
		{name: "lyrics", utterance: "Sing the lyrics of my favourite song", want: OutOfDomain},
		{name: "programme name", utterance: "Treasure hunt rules please", want: InDomain},
		{name: "empty", utterance: "", want: InDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate.Classify(tt.utterance); got != tt.want {
				t.Fatalf("Classify(%q) = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestGateCannedAnswer(t *testing.T) {
	festival := DefaultFestival()
	gate := NewGate(festival)

	answer, ok := gate.CannedAnswer("Give me a pasta recipe")
	if !ok || answer != festival.Deflection() {
		t.Fatalf("expected deflection for off-topic input, got %q (ok=%v)", answer, ok)
	}

	answer, ok = gate.CannedAnswer("What is happening at the fest?")
	if !ok {
		t.Fatalf("expected programme listing to be canned")
	}
	for _, programme := range festival.Programmes {
		if !strings.Contains(answer, programme.Name) {
			t.Fatalf("expected listing to mention %q, got %q", programme.Name, answer)
		}
	}

	if answer, ok := gate.CannedAnswer("Tell me about AI Room"); ok {
		t.Fatalf("expected no canned answer, got %q", answer)
	}
}

func TestGateExtraKeywords(t *testing.T) {
	gate := NewGate(DefaultFestival(), WithOffTopicKeywords("Crypto"))
	if got := gate.Classify("what about crypto prices"); got != InDomain {
		t.Fatalf("expected domain pattern to win, got %q", got)
	}
	if got := gate.Classify("crypto prices"); got != OutOfDomain {
		t.Fatalf("expected extra off-topic keyword to apply, got %q", got)
	}

	gate = NewGate(DefaultFestival(), WithDomainKeywords("pasta"))
	if got := gate.Classify("pasta recipe"); got != InDomain {
		t.Fatalf("expected extra domain keyword to apply, got %q", got)
	}
}
