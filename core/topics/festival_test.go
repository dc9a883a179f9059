package topics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultFestival(t *testing.T) {
	festival := DefaultFestival()
	if festival.Name != "Tech Fest 2026" {
		t.Fatalf("unexpected festival name %q", festival.Name)
	}
	if len(festival.Programmes) != 6 {
		t.Fatalf("expected 6 programmes, got %d", len(festival.Programmes))
	}
}

func TestLoadFestival(t *testing.T) {
	path := filepath.Join(t.TempDir(), "festival.yaml")
	data := "name: Robotics Expo\nwhen: 1st week of March\nprogrammes:\n  - name: Drone Race\n    description: Fast drones.\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write festival: %v", err)
	}

	festival, err := LoadFestival(path)
	if err != nil {
		t.Fatalf("LoadFestival: %v", err)
	}
	if festival.Assistant != "JARVIS" {
		t.Fatalf("expected default assistant name, got %q", festival.Assistant)
	}
	if !strings.Contains(festival.Listing(), "• Drone Race: Fast drones.") {
		t.Fatalf("unexpected listing %q", festival.Listing())
	}
}

func TestParseFestivalRejectsUnnamed(t *testing.T) {
	if _, err := ParseFestival([]byte("when: soon\n")); err == nil {
		t.Fatalf("expected error for missing name")
	}
	if _, err := ParseFestival([]byte("name: X\nprogrammes:\n  - description: nameless\n")); err == nil {
		t.Fatalf("expected error for unnamed programme")
	}
}

func TestSystemPrompt(t *testing.T) {
	prompt, err := DefaultFestival().SystemPrompt()
	if err != nil {
		t.Fatalf("SystemPrompt: %v", err)
	}
	for _, want := range []string{"JARVIS", "1. Gaming Competition", "6. Gaming Room", "I was created by MSC CS 1ST YEAR STUDENT JATHU"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}
}
