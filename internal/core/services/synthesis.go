package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure SynthesisService implements the interface.
var _ driving.SynthesisService = (*SynthesisService)(nil)

// artifactPerm is the file mode for written audio and cover files.
const artifactPerm = 0o644

// SynthesisService writes speech and cover artifacts for recommendations.
type SynthesisService struct {
	speech      driven.SpeechSynthesizer
	transcriber driven.Transcriber
	images      driven.ImageGenerator
	prompts     driven.PromptStore

	outputDir string
	image     domain.ImageSettings

	mu    sync.RWMutex
	voice domain.Voice
}

// NewSynthesisService creates a new synthesis service.
// The speech, transcriber and images parameters are optional (can be nil);
// the matching operations then fail with domain.ErrSynthesisUnavailable.
func NewSynthesisService(
	speech driven.SpeechSynthesizer,
	transcriber driven.Transcriber,
	images driven.ImageGenerator,
	prompts driven.PromptStore,
	cfg domain.Config,
) *SynthesisService {
	return &SynthesisService{
		speech:      speech,
		transcriber: transcriber,
		images:      images,
		prompts:     prompts,
		outputDir:   cfg.OutputDir,
		voice:       cfg.Speech.Voice.OrDefault(),
		image:       cfg.Image,
	}
}

// SetVoice changes the voice used by Speak.
func (s *SynthesisService) SetVoice(v domain.Voice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voice = v.OrDefault()
}

// Voice returns the voice used by Speak.
func (s *SynthesisService) Voice() domain.Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voice
}

// Voices enumerates the selectable voices.
func (s *SynthesisService) Voices() []domain.Voice {
	return domain.AllVoices()
}

// Speak renders the pick as mp3 and returns the file path.
func (s *SynthesisService) Speak(ctx context.Context, title, why string) (string, error) {
	if s.speech == nil {
		return "", fmt.Errorf("%w: speech is not configured", domain.ErrSynthesisUnavailable)
	}

	text := fmt.Sprintf("My pick is %s. %s", title, why)
	voice := s.Voice()
	logger.Debug("Synthesising speech with voice %s", voice)

	audio, err := s.speech.Synthesize(ctx, text, voice)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, err)
	}

	path := filepath.Join(s.outputDir, "speech_"+uuid.NewString()+".mp3")
	if err := writeArtifact(path, audio); err != nil {
		return "", err
	}
	return path, nil
}

// Cover returns the cached cover for title, or generates and saves it.
func (s *SynthesisService) Cover(ctx context.Context, title, why string) (string, error) {
	path := CoverPath(s.outputDir, title)
	if _, err := os.Stat(path); err == nil {
		logger.Debug("Cover cache hit: %s", path)
		return path, nil
	}

	if s.images == nil {
		return "", fmt.Errorf("%w: image generation is not configured", domain.ErrSynthesisUnavailable)
	}

	prompt, err := s.coverPrompt(title, why)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, err)
	}
	logger.Debug("Cover prompt: %s", prompt)

	img, err := s.images.Generate(ctx, driven.ImageRequest{
		Prompt:  prompt,
		Model:   s.image.Model,
		Size:    s.image.Size,
		Quality: s.image.Quality,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, err)
	}

	if err := writeArtifact(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// Transcribe returns the text spoken in an audio file.
func (s *SynthesisService) Transcribe(ctx context.Context, path string) (string, error) {
	if s.transcriber == nil {
		return "", fmt.Errorf("%w: transcription is not configured", domain.ErrSynthesisUnavailable)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	text, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSynthesisUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}

func (s *SynthesisService) coverPrompt(title, why string) (string, error) {
	tmpl, err := s.prompts.Load(driven.PromptCover)
	if err != nil {
		return "", fmt.Errorf("load cover prompt: %w", err)
	}

	prompt := fmt.Sprintf(tmpl, title, why)
	if phrase := s.image.Style.Phrase(); phrase != "" {
		prompt += " Render it " + phrase + "."
	}
	return prompt, nil
}

// CoverPath returns the cover file for title: cover_<title>.png with
// spaces replaced by underscores.
func CoverPath(outputDir, title string) string {
	name := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return filepath.Join(outputDir, "cover_"+name+".png")
}

func writeArtifact(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty output for %s", domain.ErrSynthesisUnavailable, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create output dir: %w", domain.ErrSynthesisUnavailable, err)
	}
	if err := os.WriteFile(path, data, artifactPerm); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrSynthesisUnavailable, path, err)
	}
	return nil
}
