package httpx

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/ovaphlow/pitchfork/service-goods/internal/apperr"
)

// ErrInvalidPayload is returned for bodies that cannot be decoded.
var ErrInvalidPayload = apperr.New(apperr.ErrBadRequest, "invalid payload")

const maxBody = 1 << 20

// DecodeJSON decodes the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		return ErrInvalidPayload
	}
	return nil
}

// IsForm reports whether the request carries a url-encoded or multipart form.
func IsForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// FormValues reads the named fields from a form body.
func FormValues(r *http.Request, keys ...string) (map[string]string, error) {
	if err := r.ParseMultipartForm(maxBody); err != nil && err != http.ErrNotMultipart {
		return nil, ErrInvalidPayload
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = r.FormValue(k)
	}
	return out, nil
}

// PathID parses the {id} path segment. ok is false for non-numeric values.
func PathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
