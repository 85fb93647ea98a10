package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-goods/internal/validation"
)

func TestWriteErrorStatus(t *testing.T) {
	logger := zap.NewNop().Sugar()
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"unauthorized", apperr.New(apperr.ErrUnauthorized, "Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", apperr.New(apperr.ErrForbidden, "Access denied"), http.StatusForbidden, "Access denied"},
		{"not found wrapped", fmt.Errorf("load good: %w", apperr.New(apperr.ErrNotFound, "Good not found")), http.StatusNotFound, "Good not found"},
		{"conflict", apperr.New(apperr.ErrConflict, "User with this email already exists"), http.StatusConflict, "User with this email already exists"},
		{"bad payload", ErrInvalidPayload, http.StatusBadRequest, "invalid payload"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, logger, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.msg, body["error"])
			assert.NotContains(t, body, "errors")
		})
	}
}

func TestWriteErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, nil, validation.Register("", "short", "A").Err())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"error": "Validation failed",
		"errors": {
			"email": "Email is required",
			"password": "Password must be at least 8 characters long",
			"name": "Name must be at least 2 characters long"
		}
	}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Pen"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Pen", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrInvalidPayload)
}

func TestFormValues(t *testing.T) {
	form := url.Values{"email": {"ann@x.io"}, "password": {"secret123"}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	require.True(t, IsForm(r))
	vals, err := FormValues(r, "email", "password", "name")
	require.NoError(t, err)
	assert.Equal(t, "ann@x.io", vals["email"])
	assert.Equal(t, "secret123", vals["password"])
	assert.Equal(t, "", vals["name"])

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.False(t, IsForm(r))
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var ok bool
	mux.HandleFunc("GET /goods/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = PathID(r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/goods/42", nil))
	assert.True(t, ok)
	assert.Equal(t, int64(42), got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/goods/abc", nil))
	assert.False(t, ok)
}
