package transform

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/topdev70/artify-and-buy-now-server/internal/providers/imageedit"
	"github.com/topdev70/artify-and-buy-now-server/internal/tempfile"
)

// Editor performs the external image edit call.
type Editor interface {
	Edit(ctx context.Context, payload imageedit.Payload, apiKey string) (*imageedit.RawResponse, error)
}

// Request is a single image transformation.
type Request struct {
	// Image is a base64 data URI.
	Image string
	// APIKey authenticates the edit call on the caller's behalf.
	APIKey string
	Prompt string
	// Persist requests a durable copy in addition to the data URI.
	Persist bool
}

// Result is a successful transformation. SavedImageURL is set only for
// persisted requests.
type Result struct {
	TransformedImageURL string `json:"transformedImageUrl"`
	SavedImageURL       string `json:"savedImageUrl,omitempty"`
}

// Options wires the collaborators of a Service.
type Options struct {
	Temp          *tempfile.Manager
	Editor        Editor
	Fetcher       Fetcher
	Store         BlobStore
	Observers     []SaveObserver
	// ObserverTimeout bounds each SaveObserver call. Defaults to 5s.
	ObserverTimeout time.Duration
	DefaultPrompt   string
	Logger        zerolog.Logger
	NewID         func() string
	Now           func() time.Time
}

// Service orchestrates image transformations.
type Service struct {
	temp          *tempfile.Manager
	editor        Editor
	fetcher       Fetcher
	store         BlobStore
	observers     []SaveObserver
	observerTTL   time.Duration
	pending       sync.WaitGroup
	defaultPrompt string
	logger        zerolog.Logger
	newID         func() string
	now           func() time.Time
}

// NewService validates opts and builds a Service.
func NewService(opts Options) (*Service, error) {
	switch {
	case opts.Temp == nil:
		return nil, errors.New("transform: temp manager is required")
	case opts.Editor == nil:
		return nil, errors.New("transform: editor is required")
	case opts.Fetcher == nil:
		return nil, errors.New("transform: fetcher is required")
	case opts.Store == nil:
		return nil, errors.New("transform: store is required")
	}
	s := &Service{
		temp:          opts.Temp,
		editor:        opts.Editor,
		fetcher:       opts.Fetcher,
		store:         opts.Store,
		observers:     opts.Observers,
		observerTTL:   opts.ObserverTimeout,
		defaultPrompt: strings.TrimSpace(opts.DefaultPrompt),
		logger:        opts.Logger,
		newID:         opts.NewID,
		now:           opts.Now,
	}
	if s.defaultPrompt == "" {
		s.defaultPrompt = DefaultPrompt
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.observerTTL <= 0 {
		s.observerTTL = defaultObserverTimeout
	}
	return s, nil
}

// Transform runs one edit attempt: validate, stage the temp artifacts, call
// the edit service, interpret its answer and optionally persist it. Every
// failure is returned as *Error and every temp artifact is released before
// Transform returns.
func (s *Service) Transform(ctx context.Context, req Request) (*Result, error) {
	src, err := req.source()
	if err != nil {
		return nil, err
	}
	prompt := normalizePrompt(req.Prompt)
	if prompt == "" {
		prompt = s.defaultPrompt
	}
	log := s.logger.With().
		Str("api_key", maskKey(req.APIKey)).
		Bool("persist", req.Persist).
		Logger()
	log.Info().
		Int("image_bytes", len(src)).
		Str("prompt", truncateForLog(prompt)).
		Msg("transform: started")

	scope := s.temp.Scope()
	defer func() {
		if err := scope.Close(); err != nil {
			log.Warn().Err(err).Msg("transform: temp cleanup failed")
		}
	}()

	imagePath, err := scope.Acquire("temp", ".png", src)
	if err != nil {
		return nil, s.fail(log, internalError("failed to stage source image", err))
	}
	maskPath, err := scope.Acquire("mask", ".png", imageedit.SynthesizeMask(src))
	if err != nil {
		return nil, s.fail(log, internalError("failed to create mask for image editing", err))
	}

	raw, err := s.editor.Edit(ctx, imageedit.BuildEditPayload(imagePath, maskPath, prompt), req.APIKey)
	if err != nil {
		return nil, s.fail(log, Classify(err))
	}
	img, err := s.interpret(ctx, raw)
	if err != nil {
		return nil, s.fail(log, Classify(err))
	}

	result := &Result{TransformedImageURL: EncodeDataURI(img.ContentType, img.Data)}
	if !req.Persist {
		log.Info().Str("content_type", img.ContentType).Msg("transform: completed without saving")
		return result, nil
	}
	saved, err := s.persist(ctx, img)
	if err != nil {
		return nil, s.fail(log, Classify(err))
	}
	result.SavedImageURL = saved.URL
	log.Info().Str("key", saved.Key).Str("url", saved.URL).Msg("transform: completed and saved")
	return result, nil
}

func (s *Service) fail(log zerolog.Logger, e *Error) *Error {
	if e.Canceled() {
		log.Info().
			Str("category", string(e.Category)).
			Msg("transform: canceled by caller")
		return e
	}
	log.Error().
		Err(e.Err).
		Str("category", string(e.Category)).
		Int("upstream_status", e.UpstreamStatus).
		Str("message", e.Message).
		Msg("transform: failed")
	return e
}

// source validates the request and decodes its image payload.
func (r Request) source() ([]byte, error) {
	if strings.TrimSpace(r.Image) == "" || strings.TrimSpace(r.APIKey) == "" {
		return nil, validationError("Missing image data or API key")
	}
	_, data, err := ParseDataURI(r.Image)
	if err != nil {
		return nil, validationError(err.Error())
	}
	return data, nil
}
