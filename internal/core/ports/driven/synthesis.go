package driven

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// SpeechSynthesizer turns text into audio.
type SpeechSynthesizer interface {
	// Synthesize returns mp3 audio of text spoken in voice.
	Synthesize(ctx context.Context, text string, voice domain.Voice) ([]byte, error)
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	// Transcribe returns the text spoken in the audio file at path.
	Transcribe(ctx context.Context, path string) (string, error)
}

// ImageGenerator renders images from a prompt.
type ImageGenerator interface {
	// Generate returns PNG bytes for the request.
	Generate(ctx context.Context, req ImageRequest) ([]byte, error)
}

// ImageRequest describes one image generation call.
type ImageRequest struct {
	Prompt string

	// Model selects the image model; quality is only sent for dall-e-3.
	Model   string
	Size    string
	Quality string
}
