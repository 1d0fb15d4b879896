package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/topdev70/artify-and-buy-now-server/internal/metrics"
	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

// Transformer runs one image transformation.
type Transformer interface {
	Transform(ctx context.Context, req transform.Request) (*transform.Result, error)
}

// ImageHost re-hosts an image on a public host.
type ImageHost interface {
	HasCredentials() bool
	Upload(ctx context.Context, base64Image string) (string, error)
}

// SavedImageCatalog lists durably saved transformations.
type SavedImageCatalog interface {
	Count(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]transform.SavedImage, error)
}

// App carries the dependencies shared by every handler. ImageHost and
// Catalog are optional.
type App struct {
	Transformer  Transformer
	ImageHost    ImageHost
	Catalog      SavedImageCatalog
	Metrics      *metrics.Registry
	Logger       zerolog.Logger
	GeneratedDir string
	MaxBodyBytes int64
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
	Details  string `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, title string, category transform.Category, details string) {
	a.json(w, code, errorResponse{Error: title, Category: string(category), Details: details})
}

func (a *App) transformError(w http.ResponseWriter, e *transform.Error) {
	a.error(w, e.StatusCode(), e.Title(), e.Category, e.Detail())
}

// logger returns the request scoped logger installed by the access log
// middleware, falling back to the application logger.
func (a *App) logger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}
