package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/colinswan/sentinel/internal/models"
)

// FallbackText is returned whenever the external model is unreachable or
// unconfigured. The unlock flow is never blocked by an AI outage.
const FallbackText = "Session logged. Take your break and come back fresh."

// Feedback is the generator's result.
type Feedback struct {
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
}

// Generator calls an external chat-completions API.
type Generator struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

// NewGenerator builds a client for the given endpoint. An empty apiKey
// produces a generator that always falls back.
func NewGenerator(apiKey, baseURL, model string) *Generator {
	return &Generator{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate produces feedback for a session note. Any failure, including
// an unset API key, yields the neutral fallback instead of an error.
func (g *Generator) Generate(ctx context.Context, profile *models.UserProfile, note string) Feedback {
	if g == nil || g.APIKey == "" || g.BaseURL == "" {
		return Feedback{Text: FallbackText, Sentiment: SentimentNeutral}
	}

	system, user := BuildPrompt(profile, note)
	text, err := g.complete(ctx, system, user)
	if err != nil || text == "" {
		return Feedback{Text: FallbackText, Sentiment: SentimentNeutral}
	}

	return Feedback{Text: text, Sentiment: ClassifySentiment(text)}
}

func (g *Generator) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("coach api returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("coach api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
