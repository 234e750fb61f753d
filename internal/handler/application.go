package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/timvest/intake-server-go/internal/service"
)

// ApplicationHandler serves the public intake form.
type ApplicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

func (h *ApplicationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Submit)
	return r
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input service.SubmitApplicationInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.applicationService.Submit(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Info().Int64("applicationId", app.ID).Str("companyType", string(app.CompanyType)).Msg("application submitted")
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":       "Application submitted successfully",
		"applicationId": app.ID,
	})
}
