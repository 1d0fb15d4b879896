package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
	"github.com/topdev70/artify-and-buy-now-server/pkg/zip"
)

const maxSavedImagesLimit = 100

type savedImageItem struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Bytes       int64  `json:"bytes"`
	CreatedAt   string `json:"createdAt"`
}

type savedImagesResponse struct {
	Total int64            `json:"total"`
	Items []savedImageItem `json:"items"`
}

// SavedImages handles GET /api/saved-images?limit=N when the catalog is enabled.
func (a *App) SavedImages(w http.ResponseWriter, r *http.Request) {
	if a.Catalog == nil {
		a.error(w, http.StatusServiceUnavailable, "Catalog not configured", transform.CategoryInternal,
			"The saved image catalog is not enabled on this server.")
		return
	}
	limit, ok := a.savedImagesLimit(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	total, err := a.Catalog.Count(ctx)
	if err != nil {
		a.logger(r).Error().Err(err).Msg("count saved images")
		a.error(w, http.StatusInternalServerError, "Failed to load saved images", transform.CategoryInternal, "catalog unavailable")
		return
	}
	items, err := a.Catalog.ListRecent(ctx, limit)
	if err != nil {
		a.logger(r).Error().Err(err).Msg("list saved images")
		a.error(w, http.StatusInternalServerError, "Failed to load saved images", transform.CategoryInternal, "catalog unavailable")
		return
	}

	resp := savedImagesResponse{Total: total, Items: make([]savedImageItem, 0, len(items))}
	for _, img := range items {
		resp.Items = append(resp.Items, savedImageItem{
			Key:         img.Key,
			URL:         img.URL,
			ContentType: img.ContentType,
			Bytes:       img.Bytes,
			CreatedAt:   img.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	a.json(w, http.StatusOK, resp)
}

// SavedImagesArchive handles GET /api/saved-images/archive?limit=N and
// returns the most recent saved images as a zip file. Catalog entries whose
// file is gone are skipped.
func (a *App) SavedImagesArchive(w http.ResponseWriter, r *http.Request) {
	if a.Catalog == nil {
		a.error(w, http.StatusServiceUnavailable, "Catalog not configured", transform.CategoryInternal,
			"The saved image catalog is not enabled on this server.")
		return
	}
	limit, ok := a.savedImagesLimit(w, r)
	if !ok {
		return
	}
	items, err := a.Catalog.ListRecent(r.Context(), limit)
	if err != nil {
		a.logger(r).Error().Err(err).Msg("list saved images")
		a.error(w, http.StatusInternalServerError, "Failed to load saved images", transform.CategoryInternal, "catalog unavailable")
		return
	}

	entries := make([]zip.Entry, 0, len(items))
	for _, img := range items {
		name := filepath.Base(img.Key)
		data, err := os.ReadFile(filepath.Join(a.GeneratedDir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			a.logger(r).Error().Err(err).Str("key", img.Key).Msg("read saved image")
			a.error(w, http.StatusInternalServerError, "Failed to load saved images", transform.CategoryInternal, "storage unavailable")
			return
		}
		entries = append(entries, zip.Entry{Filename: name, Modified: img.CreatedAt, Data: data})
	}

	var buf bytes.Buffer
	if err := zip.Write(&buf, entries); err != nil {
		a.logger(r).Error().Err(err).Msg("build archive")
		a.error(w, http.StatusInternalServerError, "Failed to build archive", transform.CategoryInternal, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="saved-images-%d.zip"`, time.Now().Unix()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (a *App) savedImagesLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 20, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		a.error(w, http.StatusBadRequest, "Missing or invalid request data", transform.CategoryValidation, "limit must be a positive integer")
		return 0, false
	}
	return min(n, maxSavedImagesLimit), true
}
