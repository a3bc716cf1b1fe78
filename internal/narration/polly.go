package narration

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/tusabogados/intake-platform/pkg/logging"
)

// speechClient is the slice of the Polly API the narrator needs.
// Satisfied by *polly.Client; tests substitute a fake.
type speechClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// PollyNarrator renders Spanish response text to MP3 via Amazon Polly. Any
// synthesis failure degrades to the browser fallback; callers never see a
// hard error for a narration problem.
type PollyNarrator struct {
	client  speechClient
	voiceID string
	logger  *logging.Logger
}

// NewPollyNarrator creates a Polly-backed narrator. voiceID defaults to
// "Lucia" (es-ES).
func NewPollyNarrator(client speechClient, voiceID string, logger *logging.Logger) *PollyNarrator {
	if voiceID == "" {
		voiceID = "Lucia"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PollyNarrator{client: client, voiceID: voiceID, logger: logger}
}

// Narrate synthesizes the text. Neural first, standard voice on engine
// errors, browser fallback on anything else.
func (n *PollyNarrator) Narrate(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" || n.client == nil {
		return Result{UseLocalFallback: true, Engine: EngineBrowser}, nil
	}

	audio, contentType, err := n.synthesize(ctx, text, pollytypes.EngineNeural)
	if err != nil {
		n.logger.Warn("narration: neural synthesis failed, retrying standard", "error", err)
		audio, contentType, err = n.synthesize(ctx, text, pollytypes.EngineStandard)
	}
	if err != nil {
		n.logger.Error("narration: synthesis failed, degrading to browser speech", "error", err)
		return Result{UseLocalFallback: true, Engine: EngineBrowser}, nil
	}

	return Result{
		Audio:       audio,
		ContentType: contentType,
		Engine:      EnginePolly,
	}, nil
}

func (n *PollyNarrator) synthesize(ctx context.Context, text string, engine pollytypes.Engine) ([]byte, string, error) {
	out, err := n.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(text),
		OutputFormat: pollytypes.OutputFormatMp3,
		VoiceId:      pollytypes.VoiceId(n.voiceID),
		Engine:       engine,
	})
	if err != nil {
		return nil, "", fmt.Errorf("narration: polly synthesize: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, "", fmt.Errorf("narration: read audio stream: %w", err)
	}

	contentType := "audio/mpeg"
	if out.ContentType != nil && *out.ContentType != "" {
		contentType = *out.ContentType
	}
	return audio, contentType, nil
}
