package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryIncConcurrent(t *testing.T) {
	reg := NewRegistry("test")
	labels := map[string]string{"category": "validation_error"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg.Inc(context.Background(), TransformFailures, labels, 1)
		}()
	}
	wg.Wait()

	require.Equal(t, int64(50), reg.Value(TransformFailures, labels))
	require.Zero(t, reg.Value(TransformFailures, nil))
}

func TestSeriesKeySortsLabels(t *testing.T) {
	got := seriesKey("x", map[string]string{"b": "2", "a": "1"})
	require.Equal(t, "x{a=1,b=2}", got)
	require.Equal(t, "x", seriesKey("x", nil))
}

func TestHandlers(t *testing.T) {
	reg := NewRegistry("test")
	ctx := context.Background()
	reg.Inc(ctx, TransformRequests, nil, 2)
	reg.Inc(ctx, ImagesSaved, map[string]string{"mode": "inline"}, 1)

	rec := httptest.NewRecorder()
	reg.Handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, "transform_images_saved_total{mode=inline} 1\ntransform_requests_total 2\n", rec.Body.String())

	rec = httptest.NewRecorder()
	reg.HandlerJSON(rec, httptest.NewRequest(http.MethodGet, "/metrics.json", nil))
	var got map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(2), got[TransformRequests])
}

func TestNilRegistryInc(t *testing.T) {
	var reg *Registry
	require.NotPanics(t, func() { reg.Inc(context.Background(), TransformRequests, nil, 1) })
}
