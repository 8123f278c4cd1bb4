// Package ollamaage predicts a pet's age in months by asking an Ollama
// vision model for a strict JSON answer. It implements features.AgePredictor
// and is typically grafted onto an embedding provider with
// features.WithAgePredictor.
package ollamaage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// AgePrompt instructs the model to answer with JSON only. The raw value it
// returns is calibrated downstream; the model is not expected to know
// breed life-expectancy caps.
const AgePrompt = `You are a veterinary age estimator for cats and dogs.

Look at the animal in the photo and estimate its age in months.

Return JSON only:
{
  "age_months": 0.0,
  "confidence": 0.0
}

HARD RULES
- age_months is a positive number of months, not years.
- confidence is in [0,1].
- Judge from facial features, eye clarity, coat condition and body proportions.
- If the animal is clearly a puppy or kitten, age_months must be under 12.
- JSON only. No markdown, no code fences, no comments, no trailing commas.`

// Client wraps the Ollama API client for age prediction.
type Client struct {
	client *api.Client
	model  string
}

// NewClient creates a client for the given Ollama URL and vision model.
func NewClient(ollamaURL, model string) (*Client, error) {
	parsedURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	baseURL := &url.URL{
		Scheme: parsedURL.Scheme,
		Host:   parsedURL.Host,
	}
	return &Client{
		client: api.NewClient(baseURL, http.DefaultClient),
		model:  model,
	}, nil
}

type ageAnswer struct {
	AgeMonths  float64 `json:"age_months"`
	Confidence float64 `json:"confidence"`
}

// PredictAgeMonths sends the image to the vision model and parses the raw
// age from its JSON answer.
func (c *Client) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	// Vision models on CPU can be slow; give them room if the caller
	// set no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return 0, fmt.Errorf("failed to encode image: %w", err)
	}

	streamFalse := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{
				Role:    "user",
				Content: AgePrompt,
				Images:  []api.ImageData{api.ImageData(buf.Bytes())},
			},
		},
		Stream: &streamFalse,
	}

	var responseContent string
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		responseContent = resp.Message.Content
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ollama chat error: %w", err)
	}
	if responseContent == "" {
		return 0, fmt.Errorf("empty response from ollama")
	}

	return parseAgeAnswer(responseContent)
}

func parseAgeAnswer(raw string) (float64, error) {
	raw = sanitizeModelJSON(raw)

	var answer ageAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return 0, fmt.Errorf("failed to parse age answer: %w", err)
	}
	if answer.AgeMonths <= 0 {
		return 0, fmt.Errorf("model returned non-positive age %.1f", answer.AgeMonths)
	}
	return answer.AgeMonths, nil
}

// sanitizeModelJSON removes code fences, comments and trailing commas that
// vision models like to wrap around their JSON.
func sanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	reBlock := regexp.MustCompile(`(?s)/\*.*?\*/`)
	raw = reBlock.ReplaceAllString(raw, "")

	reLine := regexp.MustCompile(`(?m)^\s*//.*$`)
	raw = reLine.ReplaceAllString(raw, "")
	reInline := regexp.MustCompile(`(?m)//.*$`)
	raw = reInline.ReplaceAllString(raw, "")

	reTrailing := regexp.MustCompile(`,(\s*[}\]])`)
	raw = reTrailing.ReplaceAllString(raw, "$1")

	// Keep only the outermost {...}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
