package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CoachClient talks to an external LLM service that comments on saved
// workouts. The bot works fully without it: an unconfigured client
// reports Available() == false and callers skip the comment.
type CoachClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewCoachClient(baseURL, apiKey string, httpClient *http.Client) *CoachClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &CoachClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		maxRetries: 3,
	}
}

func (c *CoachClient) Available() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

type coachRequest struct {
	Prompt string `json:"prompt"`
}

type coachResponse struct {
	Comment string `json:"comment"`
}

// GenerateComment asks the service for a short training comment. Retries
// on 429 and 5xx with capped exponential backoff, honoring ctx.
func (c *CoachClient) GenerateComment(ctx context.Context, prompt string) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("coach client not configured")
	}

	body, err := json.Marshal(coachRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > 10*time.Second {
				backoff = 10 * time.Second
			}
		}

		comment, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return comment, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}
	return "", lastErr
}

func (c *CoachClient) doRequest(ctx context.Context, body []byte) (comment string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/comment", bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return "", true, fmt.Errorf("coach service returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", false, fmt.Errorf("coach service returned %d", resp.StatusCode)
	}

	var parsed coachResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, err
	}
	return parsed.Comment, false, nil
}
