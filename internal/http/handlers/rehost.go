package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/topdev70/artify-and-buy-now-server/internal/metrics"
	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

type rehostRequest struct {
	Image string `json:"image"`
}

type rehostResponse struct {
	URL string `json:"url"`
}

// RehostImage handles POST /api/rehost-image: it uploads a data URI image to
// the public image host and returns the hosted URL.
func (a *App) RehostImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.ImageHost == nil || !a.ImageHost.HasCredentials() {
		a.rehostResult(r, "unavailable")
		a.error(w, http.StatusServiceUnavailable, "Image host not configured", transform.CategoryExternalService,
			"Public image hosting is not enabled on this server.")
		return
	}

	var req rehostRequest
	if err := a.decode(w, r, &req); err != nil {
		a.rehostResult(r, "invalid")
		a.transformError(w, err)
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		a.rehostResult(r, "invalid")
		a.error(w, http.StatusBadRequest, "Missing or invalid request data", transform.CategoryValidation, "Missing image data")
		return
	}
	_, data, err := transform.ParseDataURI(req.Image)
	if err != nil {
		a.rehostResult(r, "invalid")
		a.error(w, http.StatusBadRequest, "Missing or invalid request data", transform.CategoryValidation, err.Error())
		return
	}

	url, err := a.ImageHost.Upload(ctx, base64.StdEncoding.EncodeToString(data))
	if err != nil {
		a.rehostResult(r, "failed")
		a.logger(r).Error().Err(err).Msg("rehost upload failed")
		a.error(w, http.StatusBadGateway, "Failed to upload image", transform.CategoryExternalService, "The public image host rejected the upload.")
		return
	}
	a.rehostResult(r, "ok")
	a.json(w, http.StatusOK, rehostResponse{URL: url})
}

func (a *App) rehostResult(r *http.Request, result string) {
	a.Metrics.Inc(r.Context(), metrics.RehostRequests, map[string]string{"result": result}, 1)
}
