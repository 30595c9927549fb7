package driving

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// SynthesisService produces optional speech, transcription and cover artifacts.
type SynthesisService interface {
	// Voices enumerates the selectable voices.
	Voices() []domain.Voice

	// Voice returns the voice used by Speak.
	Voice() domain.Voice

	// SetVoice changes the voice used by Speak; unknown voices become alloy.
	SetVoice(v domain.Voice)

	// Speak renders "My pick is <title>. <why>" to an mp3 file and returns its path.
	Speak(ctx context.Context, title, why string) (string, error)

	// Cover returns the cached cover for title or generates it.
	Cover(ctx context.Context, title, why string) (string, error)

	// Transcribe returns the text spoken in an audio file.
	Transcribe(ctx context.Context, path string) (string, error)
}
