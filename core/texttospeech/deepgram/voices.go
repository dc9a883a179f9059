package deepgram

// Voice is a Deepgram Aura model name.
type Voice string

const DefaultVoice Voice = "aura-2-thalia-en"

func AvailableVoices() []Voice {
	return []Voice{
		"aura-2-thalia-en",
		"aura-2-andromeda-en",
		"aura-2-helena-en",
		"aura-2-apollo-en",
		"aura-2-arcas-en",
		"aura-2-aries-en",
		"aura-asteria-en",
		"aura-luna-en",
		"aura-orion-en",
	}
}
