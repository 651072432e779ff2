package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Synthesizer turns an answer into an audio artifact and returns a
// reference to it (URL or storage path).
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) (string, error)
}

// HTTPSynthesizer calls an external text-to-speech service.
type HTTPSynthesizer struct {
	BaseURL string
	Client  *http.Client
}

var _ Synthesizer = &HTTPSynthesizer{}

func NewHTTPSynthesizer(baseURL string) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type synthesizeResponse struct {
	AudioURL string `json:"audio_url"`
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, language string) (string, error) {
	payloadBytes, err := json.Marshal(synthesizeRequest{
		Text:     text,
		Language: language,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := s.BaseURL + "/synthesize"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tts error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var synthResp synthesizeResponse
	if err := json.Unmarshal(bodyBytes, &synthResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if synthResp.AudioURL == "" {
		return "", fmt.Errorf("tts reply carries no audio url")
	}

	return synthResp.AudioURL, nil
}
