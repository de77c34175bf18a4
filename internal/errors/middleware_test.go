package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, handlerErr error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	e.Use(Middleware())
	e.GET("/test", func(c echo.Context) error { return handlerErr })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_PassesThroughSuccess(t *testing.T) {
	rec := runMiddleware(t, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_RendersStructuredError(t *testing.T) {
	rec := runMiddleware(t, CapacityError("registry full").WithField("max_connections", 2))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "registry full", resp.Error)
	assert.Equal(t, TypeCapacity, resp.Type)
	assert.Equal(t, 2.0, resp.Context["max_connections"])
}

func TestMiddleware_WrapsPlainErrorAsInternal(t *testing.T) {
	rec := runMiddleware(t, assertableError("kaboom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, TypeInternal, resp.Type)
	assert.Equal(t, "internal server error", resp.Error, "plain error details must not leak to clients")
}

func TestMiddleware_EchoHTTPErrorPassesThrough(t *testing.T) {
	rec := runMiddleware(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestWrapHTTPError(t *testing.T) {
	wrapped := WrapHTTPError(echo.NewHTTPError(http.StatusBadRequest, "bad request"))
	assert.Equal(t, TypeValidation, wrapped.Type)
	assert.Equal(t, "bad request", wrapped.Message)

	wrapped = WrapHTTPError(echo.NewHTTPError(http.StatusServiceUnavailable, "draining"))
	assert.Equal(t, TypeCapacity, wrapped.Type)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
