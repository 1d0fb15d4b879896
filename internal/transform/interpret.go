package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/topdev70/artify-and-buy-now-server/internal/providers/imageedit"
)

// inlineContentType is the media type of inline results; the edit service
// encodes b64_json output as PNG.
const inlineContentType = "image/png"

// Image is the canonical result of an edit, independent of how the service
// delivered it.
type Image struct {
	Data        []byte
	ContentType string
}

// Fetcher downloads an image by URL and reports its media type.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, string, error)
}

// interpret turns a raw edit response into the canonical Image. Only the
// RemoteImage variant performs a network fetch.
func (s *Service) interpret(ctx context.Context, raw *imageedit.RawResponse) (Image, error) {
	if raw == nil {
		return Image{}, newError(CategoryProtocol, "empty response from image service", nil)
	}
	out, err := imageedit.ParseOutput(raw.Body)
	if err != nil {
		return Image{}, Classify(err)
	}
	switch o := out.(type) {
	case imageedit.InlineImage:
		if len(o.Data) == 0 {
			return Image{}, newError(CategoryProtocol, "image service returned empty inline image", nil)
		}
		return Image{Data: o.Data, ContentType: inlineContentType}, nil
	case imageedit.RemoteImage:
		data, contentType, err := s.fetcher.Fetch(ctx, o.URL)
		if err != nil {
			return Image{}, newError(CategorySecondaryFetch, err.Error(), err)
		}
		if contentType == "" {
			contentType = inlineContentType
		}
		if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
			return Image{}, newError(CategorySecondaryFetch,
				fmt.Sprintf("generated image url returned %s instead of an image", contentType), nil)
		}
		return Image{Data: data, ContentType: contentType}, nil
	default:
		return Image{}, newError(CategoryProtocol, fmt.Sprintf("unsupported output %T", out), nil)
	}
}
