package errors

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Common error types following RFC 7807
const (
	TypeValidation  = "/errors/validation"
	TypeNotFound    = "/errors/not-found"
	TypeRateLimit   = "/errors/rate-limit"
	TypeInternal    = "/errors/internal"
	TypeTimeout     = "/errors/timeout"
	TypeEmptyData   = "/errors/data/empty"
	TypeDataMissing = "/errors/data/not-found"
)

// ProblemDetails is an RFC 7807 problem response.
type ProblemDetails struct {
	Type       string                 `json:"type"`
	Title      string                 `json:"title"`
	Status     int                    `json:"status"`
	Detail     string                 `json:"detail,omitempty"`
	Instance   string                 `json:"instance,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Render implements render.Renderer.
func (p *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, p.Status)
	w.Header().Set("Content-Type", "application/problem+json")
	return nil
}

// WithExtension attaches an extension member to the problem.
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.Extensions == nil {
		p.Extensions = make(map[string]interface{})
	}
	p.Extensions[key] = value
	return p
}

// NewProblemDetails creates a problem response.
func NewProblemDetails(status int, problemType, title, detail, instance string) *ProblemDetails {
	return &ProblemDetails{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	}
}

// ErrorHandler provides centralized error handling for the HTTP surface.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{logger: logger.With(slog.String("component", "error_handler"))}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)
	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout,
			"Request Timeout", "The request took too long to process and was cancelled", r.URL.Path)
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return NewProblemDetails(apiErr.StatusCode, typeForStatus(apiErr.StatusCode),
			apiErr.ErrorCode, apiErr.Message, r.URL.Path)
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Type {
		case ErrTypeValidation, ErrTypeParsing, ErrTypeIngest:
			return NewProblemDetails(http.StatusBadRequest, TypeValidation,
				string(appErr.Type), appErr.Message, r.URL.Path)
		case ErrTypeNotFound:
			return NewProblemDetails(http.StatusNotFound, TypeNotFound,
				"Not Found", appErr.Message, r.URL.Path)
		}
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal,
		"Internal Server Error", "An unexpected error occurred", r.URL.Path)
}

func typeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return TypeValidation
	case http.StatusNotFound:
		return TypeDataMissing
	case http.StatusUnprocessableEntity:
		return TypeEmptyData
	case http.StatusTooManyRequests:
		return TypeRateLimit
	default:
		return TypeInternal
	}
}
