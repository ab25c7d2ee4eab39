package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/wordbias/internal/model"
)

const (
	// maxResponseBytes caps how much of a tagger response is read
	maxResponseBytes = 32 << 20

	remoteDefaultURL = "http://localhost:8700"
)

// RemoteTagger calls a morphological analysis HTTP service
// (for example a Kkma/Komoran wrapper) at POST {baseURL}/pos.
type RemoteTagger struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

type remoteRequest struct {
	Text string `json:"text"`
}

type remoteResponse struct {
	Tokens []model.Token `json:"tokens"`
	Error  string        `json:"error,omitempty"`
}

// NewRemoteTagger creates a client for the service at baseURL
// (http://localhost:8700 when empty)
func NewRemoteTagger(baseURL string, httpClient *http.Client) (*RemoteTagger, error) {
	if baseURL == "" {
		baseURL = remoteDefaultURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid remote tagger URL: %w", err)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0, "", "")
	}

	return &RemoteTagger{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		maxRetries: 3,
	}, nil
}

// Name returns the backend name
func (t *RemoteTagger) Name() string {
	return "remote"
}

// Tag sends text to the service and decodes its token list. Transient
// failures (429, 502-504) are retried with exponential backoff.
func (t *RemoteTagger) Tag(ctx context.Context, text string) ([]model.Token, error) {
	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			if err := retrySleepFunc(ctx, backoff(attempt)); err != nil {
				return nil, err
			}
		}

		tokens, status, err := t.call(ctx, body)
		if err == nil {
			return tokens, nil
		}
		lastErr = err
		if !isTransient(status) {
			break
		}
	}
	return nil, lastErr
}

func (t *RemoteTagger) call(ctx context.Context, body []byte) ([]model.Token, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/pos", bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call tagger: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	var out remoteResponse
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, fmt.Errorf("tagger error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.StatusCode != http.StatusOK || out.Error != "" {
		return nil, resp.StatusCode, fmt.Errorf("tagger error (HTTP %d): %s", resp.StatusCode, out.Error)
	}

	return out.Tokens, resp.StatusCode, nil
}

// retrySleepFunc is replaced in tests
var retrySleepFunc = sleepContext

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

func isTransient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
