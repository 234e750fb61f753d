package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/timvest/intake-server-go/internal/audit"
	apperrors "github.com/timvest/intake-server-go/internal/errors"
	"github.com/timvest/intake-server-go/internal/listing"
	"github.com/timvest/intake-server-go/internal/middleware"
	"github.com/timvest/intake-server-go/internal/model"
	"github.com/timvest/intake-server-go/internal/service"
	"github.com/timvest/intake-server-go/internal/util"
)

var statusFilterValues = []string{
	listing.StatusAll,
	string(model.ApplicationStatusPending),
	string(model.ApplicationStatusApproved),
	string(model.ApplicationStatusRejected),
}

type AdminHandler struct {
	applicationService *service.ApplicationService
	authMiddleware     func(http.Handler) http.Handler
	now                func() time.Time
}

func NewAdminHandler(
	applicationService *service.ApplicationService,
	authMiddleware func(http.Handler) http.Handler,
) *AdminHandler {
	return &AdminHandler{
		applicationService: applicationService,
		authMiddleware:     authMiddleware,
		now:                time.Now,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Use(middleware.RequireRole(model.RoleAdmin))

		r.Get("/applications", h.ListApplications)
		r.Get("/applications/search", h.SearchApplications)
		r.Get("/applications/export", h.ExportApplications)
		r.Put("/applications/{id}", h.UpdateApplication)
		r.Get("/stats", h.Stats)
	})

	return r
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.applicationService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list applications")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, apps)
}

func (h *AdminHandler) SearchApplications(w http.ResponseWriter, r *http.Request) {
	apps, ok := h.filteredApplications(w, r)
	if !ok {
		return
	}

	params := ParsePagination(r)
	writeJSON(w, http.StatusOK, listing.Paginate(apps, params.Page, params.PageSize))
}

func (h *AdminHandler) ExportApplications(w http.ResponseWriter, r *http.Request) {
	apps, ok := h.filteredApplications(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", listing.ContentTypeCSV)
	w.Header().Set("Content-Disposition", `attachment; filename="`+listing.ExportFilename(h.now())+`"`)
	w.WriteHeader(http.StatusOK)
	if err := listing.WriteCSV(w, apps); err != nil {
		log.Error().Err(err).Msg("failed to write csv export")
		return
	}

	log.Info().Int("count", len(apps)).Msg("applications exported")
}

func (h *AdminHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := service.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	app, err := h.applicationService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.ErrCodeDatabase {
			log.Error().Err(err).Int64("applicationId", id).Msg("failed to update application")
		}
		writeError(w, err)
		return
	}

	var adminID int64
	if principal := middleware.GetPrincipal(r.Context()); principal != nil {
		adminID = principal.ID
	}
	audit.LogFromRequest(r, audit.Event{
		Type:          audit.EventStatusDecision,
		AdminID:       adminID,
		ApplicationID: app.ID,
		Details:       map[string]any{"status": string(app.Status)},
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Application updated successfully",
		"application": app,
	})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.applicationService.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to get stats")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) filteredApplications(w http.ResponseWriter, r *http.Request) ([]model.Application, bool) {
	query := listing.Query{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}
	if !util.IsValidEnum(query.Status, statusFilterValues) {
		writeError(w, apperrors.InvalidInput("status", "must be one of all, pending, approved, rejected"))
		return nil, false
	}

	apps, err := h.applicationService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list applications")
		writeError(w, err)
		return nil, false
	}

	return listing.Filter(apps, query), true
}
