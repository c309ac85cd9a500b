package masterdata

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"biofuel_tea/pkg/core/refdata"
)

// Handler serves reference-data reads and (when the backing store is
// writable) upserts. Writes invalidate the cache entry for the key so
// the next calculation sees the new record.
type Handler struct {
	cache  *refdata.Cache
	writer refdata.Writer // nil for read-only deployments
	logger *zap.Logger
}

func NewHandler(cache *refdata.Cache, writer refdata.Writer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cache: cache, writer: writer, logger: logger}
}

func keyFromQuery(r *http.Request) refdata.Key {
	q := r.URL.Query()
	return refdata.Key{
		Process:   q.Get("process"),
		Feedstock: q.Get("feedstock"),
		Country:   q.Get("country"),
	}
}

// HandleGet returns the record for ?process=&feedstock=&country=.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := keyFromQuery(r)
	rec, err := h.cache.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, refdata.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("reference data read failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec)
}

// HandlePut upserts a record and invalidates its cache entry.
// PUT /api/refdata?process=&feedstock=&country=, body: refdata.Record.
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.writer == nil {
		http.Error(w, "reference data store is read-only", http.StatusForbidden)
		return
	}

	key := keyFromQuery(r)
	if key.Process == "" || key.Feedstock == "" || key.Country == "" {
		http.Error(w, "process, feedstock and country are required", http.StatusBadRequest)
		return
	}

	var rec refdata.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.writer.Put(r.Context(), key, &rec); err != nil {
		h.logger.Error("reference data upsert failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.cache.Invalidate(key)
	h.logger.Info("reference data updated", zap.String("key", key.String()))

	w.WriteHeader(http.StatusNoContent)
}
