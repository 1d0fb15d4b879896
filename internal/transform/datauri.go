package transform

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ParseDataURI decodes a base64 data URI ("data:<type>;base64,<payload>").
func ParseDataURI(uri string) (string, []byte, error) {
	uri = strings.TrimSpace(uri)
	if len(uri) < 5 || !strings.EqualFold(uri[:5], "data:") {
		return "", nil, errors.New("image must be a data URI")
	}
	meta, payload, ok := strings.Cut(uri[5:], ",")
	if !ok {
		return "", nil, errors.New("data URI has no payload")
	}
	params := strings.Split(meta, ";")
	if !strings.EqualFold(strings.TrimSpace(params[len(params)-1]), "base64") {
		return "", nil, errors.New("data URI payload must be base64 encoded")
	}
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	if len(params) == 1 || mediaType == "" {
		mediaType = "text/plain"
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return "", nil, fmt.Errorf("data URI payload is not valid base64: %w", err)
		}
		data = raw
	}
	if len(data) == 0 {
		return "", nil, errors.New("data URI payload is empty")
	}
	return mediaType, data, nil
}

// EncodeDataURI renders data as a base64 data URI.
func EncodeDataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
