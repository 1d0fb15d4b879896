package transform

import (
	"bytes"
	"testing"
)

func TestParseDataURI(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantType string
		wantData []byte
		wantErr  bool
	}{
		{name: "png", in: "data:image/png;base64,AAAA", wantType: "image/png", wantData: []byte{0, 0, 0}},
		{name: "upper scheme", in: "DATA:image/JPEG;base64,/9j/", wantType: "image/jpeg", wantData: []byte{0xff, 0xd8, 0xff}},
		{name: "unpadded", in: "data:image/png;base64,AAE", wantType: "image/png", wantData: []byte{0x00, 0x01}},
		{name: "line breaks", in: "data:image/png;base64,AA\nAA", wantType: "image/png", wantData: []byte{0, 0, 0}},
		{name: "no media type", in: "data:;base64,AAAA", wantType: "text/plain", wantData: []byte{0, 0, 0}},
		{name: "not a data uri", in: "https://example.com/a.png", wantErr: true},
		{name: "no comma", in: "data:image/png;base64", wantErr: true},
		{name: "not base64", in: "data:image/png,hello", wantErr: true},
		{name: "bad payload", in: "data:image/png;base64,@@@@", wantErr: true},
		{name: "empty payload", in: "data:image/png;base64,", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mt, data, err := ParseDataURI(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDataURI(%q) expected error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataURI(%q) unexpected error: %v", tc.in, err)
			}
			if mt != tc.wantType {
				t.Fatalf("media type = %q, want %q", mt, tc.wantType)
			}
			if !bytes.Equal(data, tc.wantData) {
				t.Fatalf("data = %v, want %v", data, tc.wantData)
			}
		})
	}
}

func TestEncodeDataURI(t *testing.T) {
	if got := EncodeDataURI("image/png", []byte{0x04, 0x10, 0x41}); got != "data:image/png;base64,BBBB" {
		t.Fatalf("EncodeDataURI() = %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	if got := maskKey("sk-test-1234567"); got != "****4567" {
		t.Fatalf("maskKey() = %q", got)
	}
	if got := maskKey("abc"); got != "****" {
		t.Fatalf("maskKey() = %q", got)
	}
}
