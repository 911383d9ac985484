package aigen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnsupportedStyle is returned when the provider rejects the requested
// style. Retrying the same request cannot succeed.
var ErrUnsupportedStyle = errors.New("aigen: style rejected by provider")

// ProviderClient talks to the external image generation API.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewProviderClient creates a client for the generation API.
func NewProviderClient(baseURL, apiKey string) *ProviderClient {
	return &ProviderClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Generation regularly takes tens of seconds.
			Timeout: 120 * time.Second,
		},
	}
}

type generateRequest struct {
	Style string `json:"style"`
	Image string `json:"image"` // base64-encoded source JPEG
}

type generateReply struct {
	Image string `json:"image"` // base64-encoded result JPEG
	Error string `json:"error,omitempty"`
}

// Generate submits the source image and returns the styled result bytes.
func (p *ProviderClient) Generate(ctx context.Context, style string, source []byte) ([]byte, error) {
	reqBody, err := json.Marshal(generateRequest{
		Style: style,
		Image: base64.StdEncoding.EncodeToString(source),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/stylize", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aigen: provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStyle, string(body))
	default:
		return nil, fmt.Errorf("aigen: provider returned status %d", resp.StatusCode)
	}

	var reply generateReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("aigen: malformed provider response: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("aigen: provider error: %s", reply.Error)
	}

	result, err := base64.StdEncoding.DecodeString(reply.Image)
	if err != nil || len(result) == 0 {
		return nil, errors.New("aigen: provider returned no image data")
	}
	return result, nil
}
