package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestWriteHTML_LogsWriteError(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	r := httptest.NewRequest(http.MethodGet, "/v1/forecast/chart", nil)
	r = r.WithContext(logger.WithContext(r.Context()))
	w := brokenWriter{httptest.NewRecorder()}

	writeHTML(w, r, []byte("<html></html>"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, logs.String(), "Error writing response")
	assert.Contains(t, logs.String(), "connection reset by peer")
}
