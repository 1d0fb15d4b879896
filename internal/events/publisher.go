package events

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ce "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/client"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

// Publisher emits a CloudEvent for every durably saved transformation.
type Publisher struct {
	ceClient  client.Client
	sinkURL   string
	source    string
	eventType string
	logger    zerolog.Logger
}

type savedImageData struct {
	Key         string `json:"key"`
	ImageURL    string `json:"image_url"`
	ContentType string `json:"content_type"`
	Bytes       int64  `json:"bytes"`
}

const defaultSendTimeout = 5 * time.Second

// Option adjusts a Publisher.
type Option func(*publisherConfig)

type publisherConfig struct {
	sendTimeout time.Duration
}

// WithSendTimeout bounds every delivery attempt to the sink.
func WithSendTimeout(d time.Duration) Option {
	return func(c *publisherConfig) {
		if d > 0 {
			c.sendTimeout = d
		}
	}
}

// NewPublisher creates a CloudEvents HTTP client targeting sinkURL.
func NewPublisher(sinkURL, source, eventType string, logger zerolog.Logger, opts ...Option) (*Publisher, error) {
	sinkURL = strings.TrimSpace(sinkURL)
	if sinkURL == "" {
		return nil, errors.New("events: sink url is required")
	}
	cfg := publisherConfig{sendTimeout: defaultSendTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	ceClient, err := ce.NewClientHTTP(
		ce.WithTarget(sinkURL),
		cehttp.WithClient(http.Client{Timeout: cfg.sendTimeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("events: create cloudevents client: %w", err)
	}
	if source == "" {
		source = "artify/transform"
	}
	if eventType == "" {
		eventType = "image.transform.saved"
	}
	return &Publisher{
		ceClient:  ceClient,
		sinkURL:   sinkURL,
		source:    source,
		eventType: eventType,
		logger:    logger,
	}, nil
}

// ImageSaved implements transform.SaveObserver.
func (p *Publisher) ImageSaved(ctx context.Context, img transform.SavedImage) error {
	event := ce.NewEvent()
	event.SetID(uuid.NewString())
	event.SetSource(p.source)
	event.SetType(p.eventType)
	event.SetTime(img.CreatedAt)
	event.SetSubject(img.Key)
	event.SetExtension("category", "storage")
	if err := event.SetData(ce.ApplicationJSON, savedImageData{
		Key:         img.Key,
		ImageURL:    img.URL,
		ContentType: img.ContentType,
		Bytes:       img.Bytes,
	}); err != nil {
		return fmt.Errorf("events: set data: %w", err)
	}

	result := p.ceClient.Send(ctx, event)
	if !ce.IsACK(result) {
		return fmt.Errorf("events: deliver %s: %w", event.ID(), result)
	}
	p.logger.Debug().Str("event_id", event.ID()).Str("sink", p.sinkURL).Msg("events: image saved event sent")
	return nil
}

var _ transform.SaveObserver = (*Publisher)(nil)
