package imageedit

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedOutput reports a 2xx edit response that carries neither
// inline image bytes nor an image URL.
var ErrUnrecognizedOutput = errors.New("imageedit: unrecognized edit response")

// Output is the first generated image of an edit response. It is either an
// InlineImage or a RemoteImage.
type Output interface {
	isOutput()
}

// InlineImage holds image bytes that were returned base64 encoded.
type InlineImage struct {
	Data []byte
}

// RemoteImage points at an image hosted by the edit service.
type RemoteImage struct {
	URL string
}

func (InlineImage) isOutput() {}
func (RemoteImage) isOutput() {}

type editResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		B64JSON       string `json:"b64_json"`
		URL           string `json:"url"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

// ParseOutput decodes a successful edit response body and decides which of
// the two result shapes it carries. Inline bytes win when both are present.
func ParseOutput(body []byte) (Output, error) {
	var decoded editResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnrecognizedOutput, err)
	}
	if len(decoded.Data) == 0 {
		return nil, fmt.Errorf("%w: no result items", ErrUnrecognizedOutput)
	}
	item := decoded.Data[0]
	if b64 := strings.TrimSpace(item.B64JSON); b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid b64_json: %v", ErrUnrecognizedOutput, err)
		}
		return InlineImage{Data: data}, nil
	}
	if u := strings.TrimSpace(item.URL); u != "" {
		return RemoteImage{URL: u}, nil
	}
	return nil, fmt.Errorf("%w: result has neither b64_json nor url", ErrUnrecognizedOutput)
}
