// Package embedhttp is a feature provider backed by an HTTP embedding
// server: images are posted as base64 JPEG and the server answers with the
// global vector and patch matrix, plus an optional raw age prediction when
// the loaded model has an age head.
package embedhttp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/menta2k/pet-triage/pkg/features"
	"github.com/menta2k/pet-triage/pkg/types"
)

const defaultTimeout = 120 * time.Second

// Client talks to an embedding server over HTTP.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client

	ageCapable bool
}

// embedRequest is the wire format sent to /v1/embed-image.
type embedRequest struct {
	Model     string `json:"model,omitempty"`
	Image     string `json:"image"` // base64 JPEG
	WithAge   bool   `json:"with_age,omitempty"`
	PatchGrid int    `json:"patch_grid,omitempty"`
}

type embedResponse struct {
	Global    []float64   `json:"global"`
	Patches   [][]float64 `json:"patches"`
	AgeMonths *float64    `json:"age_months,omitempty"`
}

type capabilitiesResponse struct {
	Age bool `json:"age"`
}

// NewClient creates a client for the given server URL and probes its
// capabilities. A failed probe is not fatal; the client just reports no
// age support.
func NewClient(serverURL, model string) (*Client, error) {
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	c := &Client{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
	c.probeCapabilities()
	return c, nil
}

func (c *Client) probeCapabilities() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/capabilities", nil)
	if err != nil {
		return
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	var caps capabilitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&caps); err != nil {
		return
	}
	c.ageCapable = caps.Age
}

// ExtractFeatures posts the image and returns the extracted feature set.
func (c *Client) ExtractFeatures(ctx context.Context, img image.Image) (types.FeatureSet, error) {
	resp, err := c.embed(ctx, img, false)
	if err != nil {
		return types.FeatureSet{}, err
	}
	if len(resp.Global) == 0 {
		return types.FeatureSet{}, fmt.Errorf("embedding server returned empty global vector")
	}
	return types.FeatureSet{Global: resp.Global, Patches: resp.Patches}, nil
}

// AgeCapable reports whether the server advertised an age head.
func (c *Client) AgeCapable() bool { return c.ageCapable }

// PredictAgeMonths asks the server for a raw age prediction.
func (c *Client) PredictAgeMonths(ctx context.Context, img image.Image) (float64, error) {
	if !c.ageCapable {
		return 0, features.ErrAgeUnsupported
	}
	resp, err := c.embed(ctx, img, true)
	if err != nil {
		return 0, err
	}
	if resp.AgeMonths == nil {
		return 0, features.ErrAgeUnsupported
	}
	return *resp.AgeMonths, nil
}

func (c *Client) embed(ctx context.Context, img image.Image, withAge bool) (*embedResponse, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	imgB64, err := encodeJPEGBase64(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	body, err := c.sendRequest(ctx, "/v1/embed-image", embedRequest{
		Model:   c.model,
		Image:   imgB64,
		WithAge: withAge,
	})
	if err != nil {
		return nil, err
	}

	var resp embedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	return &resp, nil
}

func (c *Client) sendRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func encodeJPEGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
