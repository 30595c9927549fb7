// Package openai provides text-to-speech and transcription adapters.
package openai

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/openaiapi"
	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure the adapters implement the interfaces.
var (
	_ driven.SpeechSynthesizer = (*Speech)(nil)
	_ driven.Transcriber       = (*Speech)(nil)
)

// Default models.
const (
	DefaultTTSModel = "gpt-4o-mini-tts"
	DefaultSTTModel = "whisper-1"
)

// Config holds configuration for the speech adapter.
type Config struct {
	APIKey  string
	BaseURL string

	// TTSModel is the text-to-speech model (default: gpt-4o-mini-tts).
	TTSModel string

	// STTModel is the transcription model (default: whisper-1).
	STTModel string

	Limiter *ratelimit.Limiter
}

// Speech synthesises and transcribes audio with the OpenAI audio endpoints.
type Speech struct {
	client   *openaiapi.Client
	ttsModel string
	sttModel string
}

// NewSpeech creates a new speech adapter.
func NewSpeech(cfg Config) (*Speech, error) {
	client, err := openaiapi.NewClient(openaiapi.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Limiter: cfg.Limiter,
	})
	if err != nil {
		return nil, err
	}
	if cfg.TTSModel == "" {
		cfg.TTSModel = DefaultTTSModel
	}
	if cfg.STTModel == "" {
		cfg.STTModel = DefaultSTTModel
	}
	return &Speech{client: client, ttsModel: cfg.TTSModel, sttModel: cfg.STTModel}, nil
}

// Synthesize returns mp3 audio of text spoken in voice.
func (s *Speech) Synthesize(ctx context.Context, text string, voice domain.Voice) ([]byte, error) {
	var audio []byte
	err := s.client.Do(ctx, "speech", func(ctx context.Context) error {
		resp, err := s.client.API.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          openai.SpeechModel(s.ttsModel),
			Input:          text,
			Voice:          openai.SpeechVoice(voice.OrDefault()),
			ResponseFormat: openai.SpeechResponseFormatMp3,
		})
		if err != nil {
			return err
		}
		defer resp.Close()

		audio, err = io.ReadAll(resp)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("openai: speech returned no audio")
	}
	return audio, nil
}

// Transcribe returns the trimmed text spoken in the audio file at path.
func (s *Speech) Transcribe(ctx context.Context, path string) (string, error) {
	var resp openai.AudioResponse
	err := s.client.Do(ctx, "transcription", func(ctx context.Context) error {
		var err error
		resp, err = s.client.API.CreateTranscription(ctx, openai.AudioRequest{
			Model:    s.sttModel,
			FilePath: path,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}
