package speech

import (
	"context"

	"github.com/brewandco/brew-counter/internal/config"
	"github.com/brewandco/brew-counter/internal/model/speech"
)

// Service owns speech synthesis for the ordering surface.
type Service struct {
	config    config.SpeechConfig
	ttsClient *ElevenLabsTTSClient
}

// NewService creates a speech service from the vendor configuration.
func NewService(cfg config.SpeechConfig) *Service {
	return &Service{
		config:    cfg,
		ttsClient: NewElevenLabsTTSClient(cfg),
	}
}

// Enabled reports whether the vendor credentials are configured.
func (s *Service) Enabled() bool {
	return s.config.Enabled
}

// SynthesizeSpeech converts text into playable audio.
func (s *Service) SynthesizeSpeech(ctx context.Context, req *speech.TTSRequest) (*speech.TTSResponse, error) {
	return s.ttsClient.Synthesize(ctx, req)
}

// SynthesizeToBuffer converts text into audio using the configured voice.
func (s *Service) SynthesizeToBuffer(ctx context.Context, sessionID, text, voice string) (*speech.TTSResponse, error) {
	req := &speech.TTSRequest{
		SessionID: sessionID,
		Text:      text,
		Voice:     voice,
	}

	return s.SynthesizeSpeech(ctx, req)
}
