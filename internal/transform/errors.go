package transform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/topdev70/artify-and-buy-now-server/internal/providers/imageedit"
)

// Category is the caller-facing class of a failed transformation.
type Category string

const (
	CategoryValidation       Category = "validation_error"
	CategoryTransportTimeout Category = "transport_timeout"
	CategoryAuthentication   Category = "authentication_error"
	CategoryRateLimit        Category = "rate_limit_error"
	CategoryImageSize        Category = "image_size_error"
	CategoryImageFormat      Category = "image_format_error"
	CategoryExternalService  Category = "external_service_error"
	CategoryProtocol         Category = "protocol_error"
	CategorySecondaryFetch   Category = "secondary_fetch_error"
	CategoryInternal         Category = "internal_error"
)

var categoryTitles = map[Category]string{
	CategoryValidation:       "Missing or invalid request data",
	CategoryTransportTimeout: "Image service request timeout",
	CategoryAuthentication:   "Authentication error",
	CategoryRateLimit:        "Rate limit exceeded",
	CategoryImageSize:        "Image size error",
	CategoryImageFormat:      "Image format error",
	CategoryExternalService:  "Image service error",
	CategoryProtocol:         "Invalid response from image service",
	CategorySecondaryFetch:   "Failed to fetch the generated image",
	CategoryInternal:         "Failed to process image",
}

// Error is a classified transformation failure.
type Error struct {
	Category Category
	// UpstreamStatus is the edit service's HTTP status, zero when no response
	// was received.
	UpstreamStatus int
	// Message is diagnostic text and is not stable.
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.UpstreamStatus != 0 {
		return fmt.Sprintf("transform: %s (status %d): %s", e.Category, e.UpstreamStatus, e.Message)
	}
	return fmt.Sprintf("transform: %s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Canceled reports whether the attempt ended because the caller went away
// rather than because the image service was slow.
func (e *Error) Canceled() bool {
	return e != nil && errors.Is(e.Err, context.Canceled)
}

// Title is a short human readable label for the category.
func (e *Error) Title() string {
	if t, ok := categoryTitles[e.Category]; ok {
		return t
	}
	return categoryTitles[CategoryInternal]
}

// Detail is the message returned to callers.
func (e *Error) Detail() string {
	switch e.Category {
	case CategoryTransportTimeout:
		return "The request to the image service timed out. Please try again."
	case CategoryAuthentication:
		return "Invalid API key or token. Please check your image service API key."
	case CategoryRateLimit:
		return "You have hit your rate limit or quota with the image service."
	}
	if e.Message == "" {
		return "Unknown error"
	}
	return e.Message
}

// StatusCode is the HTTP status the transform endpoint answers with.
func (e *Error) StatusCode() int {
	switch e.Category {
	case CategoryValidation, CategoryImageSize, CategoryImageFormat:
		return http.StatusBadRequest
	case CategoryAuthentication:
		return http.StatusUnauthorized
	case CategoryRateLimit:
		return http.StatusTooManyRequests
	case CategoryTransportTimeout:
		return http.StatusGatewayTimeout
	case CategoryExternalService:
		if e.UpstreamStatus >= 400 && e.UpstreamStatus <= 599 {
			return e.UpstreamStatus
		}
		return http.StatusBadGateway
	case CategoryProtocol, CategorySecondaryFetch:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(category Category, message string, err error) *Error {
	return &Error{Category: category, Message: message, Err: err}
}

func validationError(message string) *Error {
	return newError(CategoryValidation, message, nil)
}

func internalError(message string, err error) *Error {
	if err != nil {
		message = message + ": " + err.Error()
	}
	return newError(CategoryInternal, message, err)
}

// Classify maps a failure from any transformation stage onto a Category.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}
	var statusErr *imageedit.StatusError
	switch {
	case errors.As(err, &statusErr):
		return classifyStatus(statusErr)
	case errors.Is(err, imageedit.ErrNoResponse), errors.Is(err, context.DeadlineExceeded):
		return newError(CategoryTransportTimeout, err.Error(), err)
	case errors.Is(err, imageedit.ErrUnrecognizedOutput):
		return newError(CategoryProtocol, err.Error(), err)
	default:
		return internalError("request setup failed", err)
	}
}

func classifyStatus(serr *imageedit.StatusError) *Error {
	message := serr.Message
	if message == "" {
		message = serr.Body
	}
	out := &Error{UpstreamStatus: serr.StatusCode, Message: message, Err: serr}
	switch serr.StatusCode {
	case http.StatusUnauthorized:
		out.Category = CategoryAuthentication
	case http.StatusTooManyRequests:
		out.Category = CategoryRateLimit
	case http.StatusBadRequest:
		out.Category = refineBadRequest(serr.Message)
	default:
		out.Category = CategoryExternalService
	}
	return out
}

// badRequestRules refine a 400 by the service's error text. The matching is a
// heuristic; the first rule that matches wins.
var badRequestRules = []struct {
	substr   string
	category Category
}{
	{"must be less than", CategoryImageSize},
	{"format", CategoryImageFormat},
	{"dimensions", CategoryImageFormat},
}

func refineBadRequest(message string) Category {
	lower := strings.ToLower(message)
	for _, rule := range badRequestRules {
		if strings.Contains(lower, rule.substr) {
			return rule.category
		}
	}
	return CategoryExternalService
}
