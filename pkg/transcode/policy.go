package transcode

import "github.com/goliatone/go-candidform/pkg/idl"

// ParseConfig selects between parsing and synthesis.
type ParseConfig struct {
	// Random enables synthesis for empty input.
	Random bool
	// Synthesizer overrides the process-wide random source.
	Synthesizer *Synthesizer
}

// ParseValue synthesizes a value when cfg.Random is set and text is empty;
// any other input is parsed strictly.
func ParseValue(t idl.Type, cfg ParseConfig, text string) (any, error) {
	if cfg.Random && text == "" {
		synth := cfg.Synthesizer
		if synth == nil {
			synth = NewSynthesizer()
		}
		return synth.Synthesize(t)
	}
	return Parse(t, text)
}
