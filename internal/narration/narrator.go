package narration

import "context"

// Engine identifies which synthesizer produced (or should produce) the audio.
type Engine string

const (
	// EngineBrowser signals the client to use the browser's local speech
	// synthesis instead of server audio.
	EngineBrowser Engine = "browser"
	EnginePolly   Engine = "polly"
)

// Result is the outcome of a narration request. When UseLocalFallback is set
// the Audio field is empty and the client should speak the text locally;
// narration failures degrade to this, they never become hard errors.
type Result struct {
	Audio            []byte `json:"-"`
	ContentType      string `json:"content_type,omitempty"`
	UseLocalFallback bool   `json:"use_local_fallback"`
	Engine           Engine `json:"engine"`
}

// Narrator converts response text to speech.
type Narrator interface {
	Narrate(ctx context.Context, text string) (Result, error)
}

// BrowserFallback is the zero-dependency narrator: it always defers to the
// client's local speech synthesis.
type BrowserFallback struct{}

func (BrowserFallback) Narrate(context.Context, string) (Result, error) {
	return Result{UseLocalFallback: true, Engine: EngineBrowser}, nil
}
