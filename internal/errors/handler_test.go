package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, ProblemDetails) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	testHandler().HandleError(rec, req, err)

	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestHandleError_APIError(t *testing.T) {
	rec, problem := handle(t, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeDataMissing, problem.Type)
	assert.Equal(t, "DATASET_NOT_FOUND", problem.Title)
	assert.Equal(t, "/api/analysis", problem.Instance)
}

func TestHandleError_EmptyDataset(t *testing.T) {
	rec, problem := handle(t, EmptyDatasetError(stderrors.New("no valid rows")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, TypeEmptyData, problem.Type)
}

func TestHandleError_AppError(t *testing.T) {
	rec, problem := handle(t, NewIngestError("no work order sheet found", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, TypeValidation, problem.Type)
}

func TestHandleError_ContextCancellation(t *testing.T) {
	rec, problem := handle(t, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, TypeTimeout, problem.Type)
}

func TestHandleError_UnknownErrorIsInternal(t *testing.T) {
	rec, problem := handle(t, stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, problem.Type)
	// Internal details never leak to the client.
	assert.NotContains(t, problem.Detail, "boom")
}

func TestAppError_WrappingAndContext(t *testing.T) {
	cause := stderrors.New("underlying")
	err := NewIngestError("failed to open workbook", cause).
		WithContext("file", "orders.xlsx")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "INGEST")
	assert.Contains(t, err.Error(), "underlying")
	assert.Equal(t, "orders.xlsx", err.Context["file"])

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypeIngest, appErr.Type)
}
