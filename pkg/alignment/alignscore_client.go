package alignment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// AlignScoreClient scores against a dedicated AlignScore-style HTTP
// service.
type AlignScoreClient struct {
	BaseURL string
	Client  *http.Client
}

var _ Scorer = &AlignScoreClient{}

func NewAlignScoreClient(baseURL string) *AlignScoreClient {
	return &AlignScoreClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type alignScoreRequest struct {
	Evidence string `json:"evidence"`
	Claim    string `json:"claim"`
}

type alignScoreResponse struct {
	AlignScore *float64 `json:"alignscore"`
}

func (c *AlignScoreClient) Score(ctx context.Context, evidence, claim string) (float64, string, error) {
	payloadBytes, err := json.Marshal(alignScoreRequest{
		Evidence: evidence,
		Claim:    claim,
	})
	if err != nil {
		return 0, "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.BaseURL + "/alignscore"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("alignscore request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("alignscore error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var scoreResp alignScoreResponse
	if err := json.Unmarshal(bodyBytes, &scoreResp); err != nil {
		return 0, "", fmt.Errorf("unmarshal response: %w", err)
	}
	if scoreResp.AlignScore == nil {
		return 0, "", fmt.Errorf("alignscore reply carries no score: %s", string(bodyBytes))
	}

	return *scoreResp.AlignScore, "alignscore model", nil
}
