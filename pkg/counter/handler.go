package counter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Handler answers every request with the incremented counter value.
type Handler struct {
	store Store
}

// NewHandler creates a counting handler over the store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// Handle increments the counter once and writes the new value.
// The body is "API calls: N", or {"count":N} when the client accepts JSON.
// A store failure is returned before anything is written.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) error {
	n, err := h.store.Incr(r.Context())
	if err != nil {
		return err
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return json.NewEncoder(w).Encode(map[string]int64{"count": n})
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write([]byte("API calls: " + strconv.FormatInt(n, 10)))
	return err
}

// wantsJSON checks if the client wants JSON response.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
