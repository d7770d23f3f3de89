package handlers

import (
	"encoding/json"
	"errors"
	"fintrack-server/src/middleware"
	"fintrack-server/src/util"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return util.Validation("Request body is required")
		}
		return util.Wrap(util.ErrValidation, "Invalid request body", err)
	}
	return nil
}

func currentUserID(r *http.Request) (int64, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return 0, util.Unauthorized("Access token required")
	}
	return id, nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, util.Validation("Invalid %s", name)
	}
	return id, nil
}
