package infra

import (
	"errors"
	"testing"

	"github.com/topdev70/artify-and-buy-now-server/internal/sqlinline"
)

func TestExtractMarker(t *testing.T) {
	marker, body, err := extractMarker(sqlinline.QCountSavedImages)
	if err != nil {
		t.Fatalf("extractMarker error: %v", err)
	}
	if marker != "bc3f870b-e02a-4bf7-84a8-aba8fd26ceff" {
		t.Fatalf("marker = %q", marker)
	}
	if body != "select count(*) from saved_images;" {
		t.Fatalf("body = %q", body)
	}
}

func TestExtractMarkerRejects(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  error
	}{
		{name: "empty", query: "  \n ", want: ErrEmptyQuery},
		{name: "no marker", query: "select 1;", want: ErrInvalidMarker},
		{name: "short uuid", query: "--sql 1234\nselect 1;", want: ErrInvalidMarker},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := extractMarker(tc.query); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestErrorRowScan(t *testing.T) {
	if err := (errorRow{err: ErrInvalidMarker}).Scan(); !errors.Is(err, ErrInvalidMarker) {
		t.Fatalf("Scan err = %v", err)
	}
}
