package entry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/taplog/taplog/internal/rest"
)

type EntryDTO struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Notes     *string `json:"notes,omitempty"`
	Time      *string `json:"time,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type EntryRequest struct {
	Timestamp *string `json:"timestamp"`
	Notes     *string `json:"notes"`
	Time      *string `json:"time"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// AddEntry godoc
// @Summary Record a new log entry
// @Tags Log
// @Accept json
// @Produce json
// @Success 201 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/log [post]
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Adding new entry")

	var request EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	input := NewEntry{Notes: request.Notes, DisplayTime: request.Time}
	if request.Timestamp != nil {
		timestamp, err := time.Parse(time.RFC3339, *request.Timestamp)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error:   "Invalid timestamp format",
				Details: "timestamp must be in RFC3339 format",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		input.Timestamp = &timestamp
	}

	created, err := h.service.Add(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// QuickAddEntry records an entry at the current time with no notes.
func (h *Handler) QuickAddEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Quick-adding entry")

	created, err := h.service.QuickAdd(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// GetEntries godoc
// @Summary List cached entries for a day or a timestamp range
// @Tags Log
// @Produce json
// @Param date query string false "Local date (YYYY-MM-DD)"
// @Param from query string false "Range start (RFC3339, inclusive)"
// @Param to query string false "Range end (RFC3339, inclusive)"
// @Success 200 {array} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/log [get]
func (h *Handler) GetEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var entries []Entry
	query := r.URL.Query()
	switch {
	case query.Get("date") != "":
		day, err := time.ParseInLocation("2006-01-02", query.Get("date"), time.Local)
		if err != nil {
			writeBadRequest(w, "Invalid date format", "date must be YYYY-MM-DD")
			return
		}
		entries = h.service.ByDate(day)
	case query.Get("from") != "" && query.Get("to") != "":
		from, err := time.Parse(time.RFC3339, query.Get("from"))
		if err != nil {
			writeBadRequest(w, "Invalid from format", "from must be in RFC3339 format")
			return
		}
		to, err := time.Parse(time.RFC3339, query.Get("to"))
		if err != nil {
			writeBadRequest(w, "Invalid to format", "to must be in RFC3339 format")
			return
		}
		entries = h.service.InRange(from, to)
	default:
		writeBadRequest(w, "Missing query parameters", "provide either date or from and to")
		return
	}

	response := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		response = append(response, entryToDTO(e))
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateEntry merges the supplied fields into an existing entry. A missing id
// yields 404; the store itself treats it as a no-op.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id := mux.Vars(r)["entryId"]

	var request EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	update := EntryUpdate{Notes: request.Notes, DisplayTime: request.Time}
	if request.Timestamp != nil {
		timestamp, err := time.Parse(time.RFC3339, *request.Timestamp)
		if err != nil {
			writeBadRequest(w, "Invalid timestamp format", "timestamp must be in RFC3339 format")
			return
		}
		update.Timestamp = &timestamp
	}

	updated, err := h.service.Update(r.Context(), id, update)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !updated {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteEntry removes an entry; deleting an unknown id still yields 204.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["entryId"]
	log.Tracef("Deleting entry %s", id)

	if err := h.service.Remove(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReloadEntries rebuilds the cache from the durable store.
func (h *Handler) ReloadEntries(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reloading entry cache from store")

	if err := h.service.LoadAll(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func entryToDTO(e Entry) EntryDTO {
	return EntryDTO{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Notes:     e.Notes,
		Time:      e.DisplayTime,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}
