package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/brewandco/brew-counter/internal/config"
	"github.com/brewandco/brew-counter/internal/model/speech"
)

const defaultBaseURL = "https://api.elevenlabs.io"

// ElevenLabsTTSClient calls the ElevenLabs text-to-speech HTTP API.
type ElevenLabsTTSClient struct {
	config     config.SpeechConfig
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsTTSClient builds a TTS client from the speech configuration.
func NewElevenLabsTTSClient(cfg config.SpeechConfig) *ElevenLabsTTSClient {
	return &ElevenLabsTTSClient{
		config:  cfg,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

type elevenLabsTTSRequest struct {
	Text          string                  `json:"text"`
	ModelID       string                  `json:"model_id"`
	VoiceSettings elevenLabsVoiceSettings `json:"voice_settings"`
}

type elevenLabsVoiceSettings struct {
	Stability       float32 `json:"stability"`
	SimilarityBoost float32 `json:"similarity_boost"`
}

type elevenLabsErrorBody struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

// Synthesize converts text into MPEG audio.
func (c *ElevenLabsTTSClient) Synthesize(ctx context.Context, req *speech.TTSRequest) (*speech.TTSResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("TTS text is empty")
	}
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is not configured")
	}

	voiceID := strings.TrimSpace(req.Voice)
	if voiceID == "" {
		voiceID = c.config.VoiceID
	}

	payload := elevenLabsTTSRequest{
		Text:    text,
		ModelID: c.config.ModelID,
		VoiceSettings: elevenLabsVoiceSettings{
			Stability:       c.config.Stability,
			SimilarityBoost: c.config.Boost,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode TTS request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build TTS request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("TTS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("TTS returned empty audio")
	}

	return &speech.TTSResponse{
		SessionID: req.SessionID,
		AudioData: audio,
		Format:    "audio/mpeg",
		CreatedAt: time.Now(),
	}, nil
}

func (c *ElevenLabsTTSClient) decodeError(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("TTS request rejected with status %d", resp.StatusCode)
	}

	var body elevenLabsErrorBody
	if json.Unmarshal(raw, &body) == nil && body.Detail.Message != "" {
		return fmt.Errorf("TTS request rejected (%d %s): %s", resp.StatusCode, body.Detail.Status, body.Detail.Message)
	}

	log.Printf("[TTS] unrecognized error body: %s", strings.TrimSpace(string(raw)))
	return fmt.Errorf("TTS request rejected with status %d", resp.StatusCode)
}
