package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/topdev70/artify-and-buy-now-server/internal/sqlinline"
	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

type execCall struct {
	query string
	args  []any
}

type stubSQL struct {
	execs   []execCall
	execErr error
	count   int64
	rows    [][]any
}

func (s *stubSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, execCall{query: query, args: args})
	if s.execErr != nil {
		return pgconn.CommandTag{}, s.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (s *stubSQL) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return countRow{n: s.count}
}

func (s *stubSQL) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return &sliceRows{data: s.rows, idx: -1}, nil
}

type countRow struct{ n int64 }

func (r countRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.n
	return nil
}

type sliceRows struct {
	pgx.Rows
	data [][]any
	idx  int
}

func (r *sliceRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *sliceRows) Close()     {}
func (r *sliceRows) Err() error { return nil }

func (r *sliceRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	*(dest[0].(*string)) = row[0].(string)
	*(dest[1].(*string)) = row[1].(string)
	*(dest[2].(*string)) = row[2].(string)
	*(dest[3].(*int64)) = row[3].(int64)
	*(dest[4].(*time.Time)) = row[4].(time.Time)
	return nil
}

func TestSavedImageRepositoryInsert(t *testing.T) {
	sql := &stubSQL{}
	r := NewSavedImageRepository(sql)
	created := time.UnixMilli(1700000000000).UTC()

	require.NoError(t, r.EnsureSchema(context.Background()))
	require.NoError(t, r.ImageSaved(context.Background(), transform.SavedImage{
		Key: "transformed-1-a.png", URL: "http://h/generated/transformed-1-a.png",
		ContentType: "image/png", Bytes: 3, CreatedAt: created,
	}))

	require.Len(t, sql.execs, 2)
	require.Equal(t, sqlinline.QCreateSavedImagesTable, sql.execs[0].query)
	require.Equal(t, sqlinline.QInsertSavedImage, sql.execs[1].query)
	require.Equal(t, []any{"transformed-1-a.png", "http://h/generated/transformed-1-a.png", "image/png", int64(3), created}, sql.execs[1].args)
}

func TestSavedImageRepositoryInsertError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewSavedImageRepository(&stubSQL{execErr: boom})
	err := r.ImageSaved(context.Background(), transform.SavedImage{Key: "k"})
	require.ErrorIs(t, err, boom)
}

func TestSavedImageRepositoryReads(t *testing.T) {
	created := time.UnixMilli(1700000000000).UTC()
	r := NewSavedImageRepository(&stubSQL{
		count: 7,
		rows:  [][]any{{"k1", "u1", "image/png", int64(10), created}},
	})

	n, err := r.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), n)

	items, err := r.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "k1", items[0].Key)
	require.Equal(t, created, items[0].CreatedAt)
}
