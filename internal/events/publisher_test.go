package events

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/topdev70/artify-and-buy-now-server/internal/transform"
)

func savedImage() transform.SavedImage {
	return transform.SavedImage{
		Key:         "transformed-1-abc.png",
		URL:         "http://localhost:3000/generated/transformed-1-abc.png",
		ContentType: "image/png",
		Bytes:       3,
		CreatedAt:   time.UnixMilli(1700000000000).UTC(),
	}
}

func TestPublisherSendsBinaryEvent(t *testing.T) {
	type received struct {
		header http.Header
		body   []byte
	}
	got := make(chan received, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{header: r.Header.Clone(), body: body}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	pub, err := NewPublisher(ts.URL, "test/source", "image.transform.saved", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, pub.ImageSaved(context.Background(), savedImage()))

	r := <-got
	require.Equal(t, "image.transform.saved", r.header.Get("Ce-Type"))
	require.Equal(t, "test/source", r.header.Get("Ce-Source"))
	require.Equal(t, "transformed-1-abc.png", r.header.Get("Ce-Subject"))
	require.Equal(t, "storage", r.header.Get("Ce-Category"))

	var data savedImageData
	require.NoError(t, json.Unmarshal(r.body, &data))
	require.Equal(t, "http://localhost:3000/generated/transformed-1-abc.png", data.ImageURL)
	require.Equal(t, int64(3), data.Bytes)
}

func TestPublisherReportsRejectedEvent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	pub, err := NewPublisher(ts.URL, "", "", zerolog.Nop())
	require.NoError(t, err)
	require.Error(t, pub.ImageSaved(context.Background(), savedImage()))
}

func TestNewPublisherRequiresSink(t *testing.T) {
	_, err := NewPublisher(" ", "", "", zerolog.Nop())
	require.Error(t, err)
}

func TestPublisherBoundsSlowSink(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()
	defer close(release)

	pub, err := NewPublisher(ts.URL, "", "", zerolog.Nop(), WithSendTimeout(100*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	require.Error(t, pub.ImageSaved(context.Background(), savedImage()))
	require.Less(t, time.Since(start), 2*time.Second)
}
