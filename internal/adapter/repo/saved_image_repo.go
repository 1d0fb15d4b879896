package repo

import (
	"context"
	"fmt"

	"github.com/topdev70/artify-and-buy-now-server/internal/infra"
	"github.com/topdev70/artify-and-buy-now-server/internal/sqlinline"
	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

// SavedImageRepository catalogs durably saved transformations in PostgreSQL.
type SavedImageRepository struct {
	sql infra.SQLExecutor
}

func NewSavedImageRepository(sql infra.SQLExecutor) *SavedImageRepository {
	return &SavedImageRepository{sql: sql}
}

// EnsureSchema creates the catalog table when it does not exist.
func (r *SavedImageRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCreateSavedImagesTable); err != nil {
		return fmt.Errorf("saved images schema: %w", err)
	}
	return nil
}

// ImageSaved implements transform.SaveObserver.
func (r *SavedImageRepository) ImageSaved(ctx context.Context, img transform.SavedImage) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertSavedImage, img.Key, img.URL, img.ContentType, img.Bytes, img.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert saved image %s: %w", img.Key, err)
	}
	return nil
}

// Count returns how many images have been cataloged.
func (r *SavedImageRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.sql.QueryRow(ctx, sqlinline.QCountSavedImages).Scan(&n); err != nil {
		return 0, fmt.Errorf("count saved images: %w", err)
	}
	return n, nil
}

// ListRecent returns the newest saved images first.
func (r *SavedImageRepository) ListRecent(ctx context.Context, limit int) ([]transform.SavedImage, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListRecentSavedImages, limit)
	if err != nil {
		return nil, fmt.Errorf("list saved images: %w", err)
	}
	defer rows.Close()

	var items []transform.SavedImage
	for rows.Next() {
		var img transform.SavedImage
		if err := rows.Scan(&img.Key, &img.URL, &img.ContentType, &img.Bytes, &img.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ transform.SaveObserver = (*SavedImageRepository)(nil)
