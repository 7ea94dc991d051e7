package httpjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"baby-care-tracker/internal/platform/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Status(errs.ErrInvalidInput))
	assert.Equal(t, http.StatusNotFound, Status(fmt.Errorf("baby %w", errs.ErrNotFound)))
	assert.Equal(t, http.StatusConflict, Status(errs.ErrConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, Status(errs.ErrLegacyAccount))
	assert.Equal(t, http.StatusServiceUnavailable, Status(errs.ErrTransientNetwork))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("pq: boom")))
}

func TestErrorHidesInternalMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("pq: relation babies does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body.Error)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","x":1}`))
	var dst struct {
		Name string `json:"name"`
	}
	err := Decode(r, &dst)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
