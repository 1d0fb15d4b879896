package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/topdev70/artify-and-buy-now-server/internal/metrics"
	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

type transformRequest struct {
	Image           string           `json:"image"`
	APIKey          string           `json:"apiKey"`
	Prompt          string           `json:"prompt"`
	NoSave          *Flag            `json:"noSave"`
	PersistenceMode *PersistenceMode `json:"persistenceMode"`
}

// persist resolves the persistence decision. persistenceMode wins over
// noSave; with neither present the image is saved.
func (req transformRequest) persist() bool {
	if req.PersistenceMode != nil && req.PersistenceMode.Set {
		return req.PersistenceMode.Value
	}
	if req.NoSave != nil && req.NoSave.Set {
		return !req.NoSave.Value
	}
	return true
}

// TransformImage handles POST /api/transform-image.
func (a *App) TransformImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	a.Metrics.Inc(ctx, metrics.TransformRequests, nil, 1)

	var req transformRequest
	if err := a.decode(w, r, &req); err != nil {
		a.transformFailed(w, r, err)
		return
	}

	res, err := a.Transformer.Transform(ctx, transform.Request{
		Image:   req.Image,
		APIKey:  req.APIKey,
		Prompt:  req.Prompt,
		Persist: req.persist(),
	})
	if err != nil {
		a.transformFailed(w, r, transform.Classify(err))
		return
	}
	if res.SavedImageURL != "" {
		a.Metrics.Inc(ctx, metrics.ImagesSaved, nil, 1)
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) transformFailed(w http.ResponseWriter, r *http.Request, e *transform.Error) {
	if e.Canceled() {
		// the caller is gone; keep these out of the timeout series
		a.Metrics.Inc(r.Context(), metrics.TransformFailures, map[string]string{"category": "canceled"}, 1)
		a.logger(r).Info().Msg("transform request canceled by client")
		a.transformError(w, e)
		return
	}
	a.Metrics.Inc(r.Context(), metrics.TransformFailures, map[string]string{"category": string(e.Category)}, 1)
	a.logger(r).Warn().Str("category", string(e.Category)).Int("status", e.StatusCode()).Msg("transform request failed")
	a.transformError(w, e)
}

// decode reads a size-limited JSON body. Failures are validation errors.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) *transform.Error {
	body := r.Body
	if a.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &transform.Error{
				Category: transform.CategoryValidation,
				Message:  fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
				Err:      err,
			}
		}
		return &transform.Error{
			Category: transform.CategoryValidation,
			Message:  "Invalid JSON body: " + err.Error(),
			Err:      err,
		}
	}
	return nil
}
