package settings

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/taplog/taplog/internal/rest"
)

type SettingsDTO struct {
	CostPerUnit          float64 `json:"costPerUnit"`
	CurrencySymbol       string  `json:"currencySymbol"`
	DailyGoal            *int    `json:"dailyGoal,omitempty"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

type UpdateRequest struct {
	CostPerUnit          *float64 `json:"costPerUnit"`
	CurrencySymbol       *string  `json:"currencySymbol"`
	DailyGoal            *int     `json:"dailyGoal"`
	NotificationsEnabled *bool    `json:"notificationsEnabled"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSettings godoc
// @Summary Get current settings
// @Description Returns the settings singleton, creating the defaults on first access
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := h.service.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(settingsToDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateSettings godoc
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Updating settings")

	var request UpdateRequest
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

	if request.CostPerUnit != nil && *request.CostPerUnit < 0 {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "costPerUnit must not be negative",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}
	if request.DailyGoal != nil && *request.DailyGoal < 0 {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "dailyGoal must not be negative",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	updated, err := h.service.Update(r.Context(), Update{
		CostPerUnit:          request.CostPerUnit,
		CurrencySymbol:       request.CurrencySymbol,
		DailyGoal:            request.DailyGoal,
		NotificationsEnabled: request.NotificationsEnabled,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(settingsToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// ResetSettings restores the fixed defaults.
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Resetting settings to defaults")

	restored, err := h.service.Reset(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(settingsToDTO(restored)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func settingsToDTO(s Settings) SettingsDTO {
	return SettingsDTO{
		CostPerUnit:          s.CostPerUnit,
		CurrencySymbol:       s.CurrencySymbol,
		DailyGoal:            s.DailyGoal,
		NotificationsEnabled: s.NotificationsEnabled,
		CreatedAt:            s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            s.UpdatedAt.Format(time.RFC3339),
	}
}
