package speech

import "time"

// TTSRequest asks for synthesis of cleaned reply text. Text must already be
// stripped of receipt blocks and emphasis markup.
type TTSRequest struct {
	SessionID string  `json:"sessionId"`
	Text      string  `json:"text"`
	Voice     string  `json:"voice,omitempty"`
	Speed     float32 `json:"speed,omitempty"`
}

// TTSResponse carries the synthesized audio byte stream. The audio is played
// once and discarded; it is never persisted.
type TTSResponse struct {
	SessionID string    `json:"sessionId"`
	AudioData []byte    `json:"-"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"createdAt"`
}
