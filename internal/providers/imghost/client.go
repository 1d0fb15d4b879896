package imghost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrMissingAPIKey indicates that the host was configured without credentials.
var ErrMissingAPIKey = errors.New("imghost: api key is required")

// Options configures the public image host client.
type Options struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client uploads images to an ImgBB compatible host and returns their public URL.
type Client struct {
	http    *resty.Client
	apiKey  string
	baseURL string
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with a 30 second default timeout.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.imgbb.com/1"
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseURL: baseURL,
	}
}

// HasCredentials reports whether uploads can be attempted.
func (c *Client) HasCredentials() bool {
	return c != nil && c.apiKey != ""
}

// Upload sends raw base64 image data and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, base64Image string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	base64Image = strings.TrimSpace(base64Image)
	if base64Image == "" {
		return "", errors.New("imghost: image payload is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"key":   c.apiKey,
			"image": base64Image,
		}).
		Post(c.baseURL + "/upload")
	if err != nil {
		return "", fmt.Errorf("imghost: upload: %w", err)
	}
	var out uploadResponse
	decodeErr := json.Unmarshal(resp.Body(), &out)
	if resp.IsError() {
		if decodeErr == nil && out.Error.Message != "" {
			return "", fmt.Errorf("imghost: status %d: %s", resp.StatusCode(), out.Error.Message)
		}
		return "", fmt.Errorf("imghost: status %d", resp.StatusCode())
	}
	if decodeErr != nil {
		return "", fmt.Errorf("imghost: decode response: %w", decodeErr)
	}
	if !out.Success || strings.TrimSpace(out.Data.URL) == "" {
		return "", errors.New("imghost: upload was not accepted")
	}
	return strings.TrimSpace(out.Data.URL), nil
}
