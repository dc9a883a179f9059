package topics

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed festival.yaml
var defaultFestivalYAML []byte

// Festival is the static programme listing the assistant answers about.
type Festival struct {
	Name       string      `yaml:"name"`
	Assistant  string      `yaml:"assistant"`
	Creator    string      `yaml:"creator"`
	When       string      `yaml:"when"`
	DateRange  string      `yaml:"dateRange"`
	Programmes []Programme `yaml:"programmes"`
}

type Programme struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// DefaultFestival returns the built-in listing.
func DefaultFestival() Festival {
	festival, err := ParseFestival(defaultFestivalYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded festival listing is invalid: %v", err))
	}
	return festival
}

// LoadFestival reads a listing from a YAML file.
func LoadFestival(path string) (Festival, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Festival{}, fmt.Errorf("failed to read festival listing: %w", err)
	}

	festival, err := ParseFestival(data)
	if err != nil {
		return Festival{}, fmt.Errorf("failed to parse festival listing %s: %w", path, err)
	}
	return festival, nil
}

func ParseFestival(data []byte) (Festival, error) {
	var festival Festival
	if err := yaml.Unmarshal(data, &festival); err != nil {
		return Festival{}, err
	}

	if strings.TrimSpace(festival.Name) == "" {
		return Festival{}, fmt.Errorf("festival name is required")
	}
	if festival.Assistant == "" {
		festival.Assistant = "JARVIS"
	}
	for i, programme := range festival.Programmes {
		if strings.TrimSpace(programme.Name) == "" {
			return Festival{}, fmt.Errorf("programme %d has no name", i)
		}
	}

	return festival, nil
}

// Listing formats the programme overview used for "what is happening" style
// questions.
func (f Festival) Listing() string {
	programmes := make([]string, 0, len(f.Programmes))
	for _, p := range f.Programmes {
		programmes = append(programmes, fmt.Sprintf("• %s: %s", p.Name, p.Description))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎉 %s 🎉\n", f.Name)
	fmt.Fprintf(&b, "📅 When: %s", f.When)
	if f.DateRange != "" {
		fmt.Fprintf(&b, " (%s)", f.DateRange)
	}
	b.WriteString("\n📍 What's Happening:\n\n")
	b.WriteString(strings.Join(programmes, "\n\n"))
	b.WriteString("\n\nLooking forward to seeing you there! What would you like to know more about?")
	return b.String()
}

// Deflection is the canned reply for questions outside the festival.
func (f Festival) Deflection() string {
	return fmt.Sprintf(
		"I'm %s, your %s assistant! 🤖 I'm specifically here to help with questions about %s happening in the %s. What would you like to know about the event, the programs, or any activities?",
		f.Assistant, f.Name, f.Name, f.When,
	)
}
