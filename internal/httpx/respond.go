package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ariefcatur/zander-storefront/internal/storefront"
	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body; an empty body leaves v untouched when optional is set.
func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return errInvalidJSON
	}
	return nil
}

var errInvalidJSON = errors.New("invalid json")

// fail maps domain errors onto status codes. Unknown errors are logged and reported as 500.
func (h *StoreHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *storefront.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, errInvalidJSON),
		errors.Is(err, storefront.ErrInvalidQuantity),
		errors.Is(err, storefront.ErrEmptyCart),
		errors.Is(err, storefront.ErrSelectionRequired),
		errors.Is(err, storefront.ErrInvalidOperation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, storefront.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		h.logger().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
