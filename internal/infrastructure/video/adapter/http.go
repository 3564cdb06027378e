package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/JEGHTNER/Zooting/internal/infrastructure/video/port"
)

// HTTPProvider talks to an OpenVidu-compatible session server over its REST
// API. Both calls use basic auth with the fixed application user and the
// shared secret.
type HTTPProvider struct {
	baseURL string
	secret  string
	client  *http.Client
}

// NewHTTPProviderFromEnv constructs a provider from SESSION_API_URL and
// SESSION_API_SECRET.
func NewHTTPProviderFromEnv() (*HTTPProvider, error) {
	baseURL := strings.TrimRight(os.Getenv("SESSION_API_URL"), "/")
	if baseURL == "" {
		return nil, errors.New("video: SESSION_API_URL environment variable is not set")
	}
	secret := os.Getenv("SESSION_API_SECRET")
	if secret == "" {
		return nil, errors.New("video: SESSION_API_SECRET environment variable is not set")
	}
	return NewHTTPProvider(baseURL, secret), nil
}

func NewHTTPProvider(baseURL string, secret string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Ensure interface compliance at compile time
var _ port.Provider = (*HTTPProvider)(nil)

func (p *HTTPProvider) CreateSession(ctx context.Context) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	if err := p.post(ctx, "/openvidu/api/sessions", map[string]any{}, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", fmt.Errorf("%w: empty session id", port.ErrProvider)
	}
	return res.ID, nil
}

func (p *HTTPProvider) CreateConnection(ctx context.Context, sessionID string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	path := fmt.Sprintf("/openvidu/api/sessions/%s/connection", sessionID)
	if err := p.post(ctx, path, map[string]any{}, &res); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("%w: empty connection token", port.ErrProvider)
	}
	return res.Token, nil
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", port.ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", port.ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("OPENVIDUAPP", p.secret)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d", port.ErrProvider, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", port.ErrProvider, err)
	}
	return nil
}
