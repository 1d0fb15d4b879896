package imageedit

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Downloader fetches generated images that the edit service returned by URL.
type Downloader struct {
	http *resty.Client
}

// NewDownloader builds a Downloader bounded by timeout (15 seconds by default).
func NewDownloader(timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Downloader{http: resty.New().SetTimeout(timeout)}
}

// Fetch downloads imageURL and returns its bytes and media type.
func (d *Downloader) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	if d == nil {
		return nil, "", errors.New("imageedit: downloader not configured")
	}
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, "", fmt.Errorf("imageedit: invalid image url: %s", imageURL)
	}
	resp, err := d.http.R().SetContext(ctx).Get(parsed.String())
	if err != nil {
		return nil, "", fmt.Errorf("imageedit: download image: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return nil, "", fmt.Errorf("imageedit: download status %d", resp.StatusCode())
	}
	data := resp.Body()
	if len(data) == 0 {
		return nil, "", errors.New("imageedit: downloaded image is empty")
	}
	return data, mediaType(resp.Header().Get("Content-Type")), nil
}

func mediaType(header string) string {
	if header == "" {
		return "image/png"
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil || mt == "" {
		return "image/png"
	}
	return mt
}
