package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jobdesk/jobdesk/internal/domain"
	"github.com/jobdesk/jobdesk/internal/pkg/httputil"
)

// Handler handles HTTP requests for the catalog module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new catalog handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers catalog routes. All of them require
// authentication; there is no per-user scoping for catalog entities.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portals", func(r chi.Router) {
		r.Get("/", h.ListPortals)
		r.Post("/", h.CreatePortal)
		r.Get("/{id}", h.GetPortal)
		r.Put("/{id}", h.UpdatePortal)
		r.Delete("/{id}", h.DeletePortal)
	})

	r.Route("/jobdescriptions", func(r chi.Router) {
		r.Get("/", h.ListDescriptions)
		r.Post("/", h.CreateDescription)
		r.Get("/{id}", h.GetDescription)
		r.Put("/{id}", h.UpdateDescription)
		r.Delete("/{id}", h.DeleteDescription)
	})
}

// PortalSummary is the list projection of a portal.
type PortalSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PortalDetail is the detail projection of a portal: the list fields plus
// every remaining descriptive field. id is read-only.
type PortalDetail struct {
	PortalSummary
	Description string `json:"description"`
}

func portalSummary(p *domain.Portal) PortalSummary {
	return PortalSummary{ID: p.ID, Name: p.Name}
}

func portalDetail(p *domain.Portal) PortalDetail {
	return PortalDetail{
		PortalSummary: portalSummary(p),
		Description:   p.Description,
	}
}

// PortalRequest represents the write payload for portals. The same
// mapping validates creates and full updates.
type PortalRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Description string `json:"description"`
}

// CreatePortal handles POST /portals.
func (h *Handler) CreatePortal(w http.ResponseWriter, r *http.Request) {
	var req PortalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	portal := &domain.Portal{Name: req.Name, Description: req.Description}
	if err := h.service.CreatePortal(r.Context(), portal); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, portalDetail(portal))
}

// ListPortals handles GET /portals.
func (h *Handler) ListPortals(w http.ResponseWriter, r *http.Request) {
	portals, err := h.service.ListPortals(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	summaries := make([]PortalSummary, 0, len(portals))
	for i := range portals {
		summaries = append(summaries, portalSummary(&portals[i]))
	}

	httputil.Success(w, http.StatusOK, summaries)
}

// GetPortal handles GET /portals/{id}.
func (h *Handler) GetPortal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	portal, err := h.service.GetPortal(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, portalDetail(portal))
}

// UpdatePortal handles PUT /portals/{id}.
func (h *Handler) UpdatePortal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req PortalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	portal := &domain.Portal{ID: id, Name: req.Name, Description: req.Description}
	if err := h.service.UpdatePortal(r.Context(), portal); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, portalDetail(portal))
}

// DeletePortal handles DELETE /portals/{id}.
func (h *Handler) DeletePortal(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePortal(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DescriptionSummary is the list projection of a job description.
type DescriptionSummary struct {
	ID   int64  `json:"id"`
	Role string `json:"role"`
}

// DescriptionDetail is the detail projection of a job description.
type DescriptionDetail struct {
	DescriptionSummary
	DescriptionText string    `json:"description_text"`
	PubDate         time.Time `json:"pub_date"`
}

func descriptionSummary(d *domain.JobDescription) DescriptionSummary {
	return DescriptionSummary{ID: d.ID, Role: d.Role}
}

func descriptionDetail(d *domain.JobDescription) DescriptionDetail {
	return DescriptionDetail{
		DescriptionSummary: descriptionSummary(d),
		DescriptionText:    d.DescriptionText,
		PubDate:            d.PubDate,
	}
}

// DescriptionRequest represents the write payload for job descriptions.
type DescriptionRequest struct {
	Role            string     `json:"role" validate:"required,min=1,max=255"`
	DescriptionText string     `json:"description_text"`
	PubDate         *time.Time `json:"pub_date"`
}

// CreateDescription handles POST /jobdescriptions.
func (h *Handler) CreateDescription(w http.ResponseWriter, r *http.Request) {
	var req DescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	desc, err := h.service.CreateDescription(r.Context(), CreateDescriptionInput{
		Role:            req.Role,
		DescriptionText: req.DescriptionText,
		PubDate:         req.PubDate,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, descriptionDetail(desc))
}

// ListDescriptions handles GET /jobdescriptions.
func (h *Handler) ListDescriptions(w http.ResponseWriter, r *http.Request) {
	descs, err := h.service.ListDescriptions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	summaries := make([]DescriptionSummary, 0, len(descs))
	for i := range descs {
		summaries = append(summaries, descriptionSummary(&descs[i]))
	}

	httputil.Success(w, http.StatusOK, summaries)
}

// GetDescription handles GET /jobdescriptions/{id}.
func (h *Handler) GetDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	desc, err := h.service.GetDescription(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, descriptionDetail(desc))
}

// UpdateDescription handles PUT /jobdescriptions/{id}.
func (h *Handler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req DescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	existing, err := h.service.GetDescription(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	existing.Role = req.Role
	existing.DescriptionText = req.DescriptionText
	if req.PubDate != nil {
		existing.PubDate = *req.PubDate
	}

	if err := h.service.UpdateDescription(r.Context(), existing); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, descriptionDetail(existing))
}

// DeleteDescription handles DELETE /jobdescriptions/{id}.
func (h *Handler) DeleteDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDescription(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// idParam parses the {id} route parameter. A non-numeric id behaves like
// a missing record.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrPortalNotFound, Status: http.StatusNotFound},
		{Error: ErrDescriptionNotFound, Status: http.StatusNotFound},
		{Error: ErrPortalInUse, Status: http.StatusConflict},
		{Error: ErrDescriptionInUse, Status: http.StatusConflict},
	})
}
