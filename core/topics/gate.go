package topics

import (
	"regexp"
	"strings"
)

type Classification string

const (
	InDomain    Classification = "in_domain"
	OutOfDomain Classification = "out_of_domain"
)

var defaultDomainKeywords = []string{
	"tech fest", "techfest", "event", "gaming", "competition", "food",
	"treasure hunt", "cinema", "show", "ai room", "gaming room", "jarvis",
	"jathu", "created", "who", "when", "what", "which", "how", "where",
	"schedule", "date", "january", "programs", "activities", "happen",
	"will happen", "going to happen", "taking place", "happening",
	"vr", "virtual reality", "ai", "artificial intelligence", "movie",
	"stall", "hunt", "room", "gamer",
}

var defaultDomainPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what.*happening`),
	regexp.MustCompile(`what.*going.*happen`),
	regexp.MustCompile(`what.*event`),
	regexp.MustCompile(`when.*happening`),
	regexp.MustCompile(`when.*event`),
	regexp.MustCompile(`is.*happening`),
	regexp.MustCompile(`tell.*about`),
	regexp.MustCompile(`describe.*event`),
	regexp.MustCompile(`activities`),
	regexp.MustCompile(`programs`),
	regexp.MustCompile(`something.*do`),
	regexp.MustCompile(`anything.*do`),
}

var defaultOffTopicKeywords = []string{
	"recipe", "cook", "weather", "news", "sports score", "movie review",
	"song", "lyrics", "homework", "math problem", "assignment",
	"general knowledge", "history", "politics", "covid", "vaccine",
}

// Gate decides whether an utterance is about the festival and answers the
// questions that never need the network.
//
// Classification is deliberately permissive: input is only out of domain when
// it hits the off-topic lexicon and nothing from the domain lexicon.
type Gate struct {
	festival Festival

	domainKeywords   []string
	domainPatterns   []*regexp.Regexp
	offTopicKeywords []string
}

type GateOption func(*Gate)

// WithDomainKeywords adds keywords on top of the built-in domain lexicon.
func WithDomainKeywords(keywords ...string) GateOption {
	return func(g *Gate) {
		for _, keyword := range keywords {
			g.domainKeywords = append(g.domainKeywords, strings.ToLower(keyword))
		}
	}
}

// WithOffTopicKeywords adds keywords on top of the built-in off-topic lexicon.
func WithOffTopicKeywords(keywords ...string) GateOption {
	return func(g *Gate) {
		for _, keyword := range keywords {
			g.offTopicKeywords = append(g.offTopicKeywords, strings.ToLower(keyword))
		}
	}
}

func NewGate(festival Festival, opts ...GateOption) *Gate {
	g := &Gate{
		festival:         festival,
		domainKeywords:   append([]string(nil), defaultDomainKeywords...),
		domainPatterns:   defaultDomainPatterns,
		offTopicKeywords: append([]string(nil), defaultOffTopicKeywords...),
	}
	for _, programme := range festival.Programmes {
		g.domainKeywords = append(g.domainKeywords, strings.ToLower(programme.Name))
	}
	if festival.Name != "" {
		g.domainKeywords = append(g.domainKeywords, strings.ToLower(festival.Name))
	}

	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) Festival() Festival { return g.festival }

func (g *Gate) Classify(utterance string) Classification {
	text := strings.ToLower(utterance)

	if containsAny(text, g.offTopicKeywords) && !g.matchesDomain(text) {
		return OutOfDomain
	}
	return InDomain
}

func (g *Gate) matchesDomain(text string) bool {
	if containsAny(text, g.domainKeywords) {
		return true
	}
	for _, pattern := range g.domainPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// CannedAnswer returns an answer that bypasses the remote service, if any.
// Out-of-domain input always gets the deflection; "what is happening" style
// questions get the programme listing.
func (g *Gate) CannedAnswer(utterance string) (string, bool) {
	if g.Classify(utterance) == OutOfDomain {
		return g.festival.Deflection(), true
	}

	text := strings.ToLower(utterance)
	if strings.Contains(text, "what") && strings.Contains(text, "happen") {
		return g.festival.Listing(), true
	}

	return "", false
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
