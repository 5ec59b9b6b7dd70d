package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// Fallback is returned whenever the text-generation service is
// unreachable or misbehaves. Suggestion failures never surface as
// queue errors.
const Fallback = "A popular service from our team. Ask our staff for details."

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type suggestRequest struct {
	Prompt string `json:"prompt"`
}

type suggestResponse struct {
	Text string `json:"text"`
}

// Suggest asks the external service for a short text and degrades to
// the fixed fallback on any failure.
func (c *Client) Suggest(ctx context.Context, prompt string) string {
	if c.baseURL == "" {
		return Fallback
	}

	body, err := json.Marshal(suggestRequest{Prompt: prompt})
	if err != nil {
		return Fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Fallback
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Println("suggestion service:", err)
		return Fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Println("suggestion service status:", resp.StatusCode)
		return Fallback
	}

	var out suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Text == "" {
		return Fallback
	}

	return out.Text
}
