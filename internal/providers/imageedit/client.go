package imageedit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrNoResponse marks edit calls that never received an HTTP response,
// including timeouts.
var ErrNoResponse = errors.New("imageedit: no response from edit service")

// ErrMissingAPIKey indicates that the caller did not supply a credential.
var ErrMissingAPIKey = errors.New("imageedit: api key is required")

// TransportError wraps a transport level failure. errors.Is(err, ErrNoResponse)
// holds for every TransportError.
type TransportError struct {
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("imageedit: edit request timed out: %v", e.Err)
	}
	return fmt.Sprintf("imageedit: edit request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrNoResponse, e.Err} }

// StatusError is a non-2xx answer from the edit service.
type StatusError struct {
	StatusCode int
	Message    string
	Type       string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("imageedit: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("imageedit: status %d", e.StatusCode)
}

// RawResponse is a successful edit response before interpretation.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// Options configures the edit client.
type Options struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// Client calls the images/edits endpoint with the caller's bearer token.
type Client struct {
	http    *resty.Client
	baseURL string
	model   string
	logger  zerolog.Logger
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient constructs a client with a 60 second default timeout.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		http:    resty.New().SetTimeout(timeout),
		baseURL: baseURL,
		model:   strings.TrimSpace(opts.Model),
		logger:  logger,
	}
}

// Edit sends payload to the edit endpoint authenticated with apiKey. A
// response with a non-2xx status yields *StatusError; a call that got no
// response yields *TransportError.
func (c *Client) Edit(ctx context.Context, payload Payload, apiKey string) (*RawResponse, error) {
	if c == nil {
		return nil, errors.New("imageedit: client not configured")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req := c.http.R().SetContext(ctx).SetAuthToken(apiKey)
	var opened []io.Closer
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, part := range payload.Files {
		f, err := os.Open(part.Path)
		if err != nil {
			return nil, fmt.Errorf("imageedit: open %s: %w", part.Field, err)
		}
		opened = append(opened, f)
		req.SetMultipartField(part.Field, part.FileName, part.ContentType, f)
	}
	form := make(map[string]string, len(payload.Fields)+1)
	for _, field := range payload.Fields {
		form[field.Name] = field.Value
	}
	if c.model != "" {
		form["model"] = c.model
	}
	req.SetMultipartFormData(form)

	start := time.Now()
	resp, err := req.Post(c.baseURL + "/images/edits")
	if err != nil {
		terr := &TransportError{Timeout: isTimeout(err), Err: err}
		c.logger.Warn().Err(err).Bool("timeout", terr.Timeout).Dur("elapsed", time.Since(start)).Msg("imageedit: no response")
		return nil, terr
	}

	status := resp.StatusCode()
	c.logger.Debug().Int("status", status).Dur("elapsed", time.Since(start)).Msg("imageedit: edit response")
	if status < 200 || status >= 300 {
		return nil, newStatusError(status, resp.Body())
	}
	return &RawResponse{StatusCode: status, Body: resp.Body()}, nil
}

func newStatusError(status int, body []byte) *StatusError {
	serr := &StatusError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	var detail errorResponse
	if err := json.Unmarshal(body, &detail); err == nil {
		serr.Message = strings.TrimSpace(detail.Error.Message)
		serr.Type = strings.TrimSpace(detail.Error.Type)
	}
	return serr
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
