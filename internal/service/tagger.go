// Package service holds the upload ingest pipeline and the external
// tagging collaborator client
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// FallbackTags is what an image gets when tagging is disabled or the
// service misbehaves. Tagging must never block or fail an upload.
var FallbackTags = []string{"untagged"}

const tagInstruction = "Describe this image with 5-7 short comma-separated keywords. Reply with only the keywords."

// Tagger asks an OpenAI-style chat completions endpoint for descriptive
// keywords for an image.
type Tagger struct {
	client *http.Client
	apiURL string
	apiKey string
	model  string
}

func NewTagger() *Tagger {
	return &Tagger{
		client: &http.Client{},
		apiURL: viper.GetString("tagging.api_url"),
		apiKey: viper.GetString("tagging.api_key"),
		model:  viper.GetString("tagging.model"),
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string     `json:"role"`
	Content []chatPart `json:"content"`
}

type chatPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Tags returns descriptive keywords for the image held in the data URI.
// Any transport, auth or decode problem degrades to FallbackTags so the
// upload always completes.
func (t *Tagger) Tags(ctx context.Context, dataURI string) []string {
	if !viper.GetBool("tagging.enabled") || t.apiKey == "" {
		return FallbackTags
	}

	timeout := time.Duration(viper.GetInt("tagging.timeout_seconds")) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tags, err := t.request(ctx, dataURI)
	if err != nil {
		zap.L().Warn("Tagging service unavailable, using fallback tags", zap.Error(err))
		return FallbackTags
	}

	return tags
}

func (t *Tagger) request(ctx context.Context, dataURI string) ([]string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:     t.model,
		MaxTokens: 100,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatPart{
				{Type: "text", Text: tagInstruction},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading tagging response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tagging service returned %d", resp.StatusCode)
	}

	var res chatResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}

	if len(res.Choices) == 0 {
		return nil, fmt.Errorf("tagging service returned no choices")
	}

	tags := splitTags(res.Choices[0].Message.Content)
	if len(tags) == 0 {
		return nil, fmt.Errorf("tagging service returned no usable tags")
	}

	return tags, nil
}

func splitTags(content string) []string {
	parts := strings.Split(content, ",")
	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
