package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Match is a recognized track identity. Found reports whether the service
// returned a track at all; an unrecognized clip is not an error.
type Match struct {
	Title    string
	Subtitle string
	Found    bool
}

// Recognizer identifies a raw audio clip.
type Recognizer interface {
	Detect(ctx context.Context, pcm []byte) (Match, error)
}

// Client calls the song recognition HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	host       string
	httpClient *http.Client
}

var _ Recognizer = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a recognition client.
func New(apiKey, baseURL, host string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("recognition api key required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("recognition base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		host:       strings.TrimSpace(host),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Detect submits a raw PCM clip and parses the service response. A response
// without a track object means "not recognized" and is not an error.
func (c *Client) Detect(ctx context.Context, pcm []byte) (Match, error) {
	if len(pcm) == 0 {
		return Match{}, errors.New("empty audio clip")
	}

	body := base64.StdEncoding.EncodeToString(pcm)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/songs/v2/detect", bytes.NewBufferString(body))
	if err != nil {
		return Match{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	if c.host != "" {
		req.Header.Set("X-RapidAPI-Host", c.host)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Match{}, fmt.Errorf("recognition request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Match{}, fmt.Errorf("recognition request: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded struct {
		Track *struct {
			Title    string `json:"title"`
			Subtitle string `json:"subtitle"`
		} `json:"track"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Match{}, fmt.Errorf("decode recognition response: %w", err)
	}
	if decoded.Track == nil {
		return Match{}, nil
	}
	return Match{
		Title:    decoded.Track.Title,
		Subtitle: decoded.Track.Subtitle,
		Found:    true,
	}, nil
}
