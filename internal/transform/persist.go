package transform

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BlobStore is the durable, append-only storage for transformed images.
type BlobStore interface {
	Create(ctx context.Context, key string, data []byte) (string, error)
	URL(key string) string
}

// SavedImage describes a durably stored transformation result.
type SavedImage struct {
	Key         string
	URL         string
	ContentType string
	Bytes       int64
	CreatedAt   time.Time
}

// SaveObserver is notified after an image has been stored. Observer failures
// never fail the transformation.
type SaveObserver interface {
	ImageSaved(ctx context.Context, img SavedImage) error
}

// persist writes img under a fresh key and returns where it can be
// retrieved.
func (s *Service) persist(ctx context.Context, img Image) (*SavedImage, error) {
	now := s.now().UTC()
	key := fmt.Sprintf("transformed-%d-%s%s", now.UnixMilli(), s.newID(), extensionFor(img.ContentType))
	stored, err := s.store.Create(ctx, key, img.Data)
	if err != nil {
		return nil, internalError("failed to save transformed image", err)
	}
	saved := &SavedImage{
		Key:         stored,
		URL:         s.store.URL(stored),
		ContentType: img.ContentType,
		Bytes:       int64(len(img.Data)),
		CreatedAt:   now,
	}
	s.notify(ctx, *saved)
	return saved, nil
}

const defaultObserverTimeout = 5 * time.Second

// notify hands img to every observer in the background. Each call gets its
// own deadline and outlives the request context; Wait drains them.
func (s *Service) notify(ctx context.Context, img SavedImage) {
	base := context.WithoutCancel(ctx)
	for _, obs := range s.observers {
		s.pending.Add(1)
		go func(obs SaveObserver) {
			defer s.pending.Done()
			octx, cancel := context.WithTimeout(base, s.observerTTL)
			defer cancel()
			if err := obs.ImageSaved(octx, img); err != nil {
				s.logger.Warn().Err(err).Str("key", img.Key).Msgf("transform: save observer %T failed", obs)
			}
		}(obs)
	}
}

// Wait blocks until pending observer notifications finish or ctx ends.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func extensionFor(contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
