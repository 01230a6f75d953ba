package jobs

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jobdesk/jobdesk/internal/catalog"
	"github.com/jobdesk/jobdesk/internal/domain"
	"github.com/jobdesk/jobdesk/internal/pkg/httputil"
)

// Handler handles HTTP requests for the job title resource.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new job title handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers job title routes. All of them sit behind the
// auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobtitles", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// JobTitleSummary is the list projection of a job title.
type JobTitleSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Label string `json:"label"`
}

// JobTitleDetail is the detail projection: the list fields plus the owner
// and the referenced catalog entries. id and user_id are read-only.
type JobTitleDetail struct {
	JobTitleSummary
	UserID         int64                      `json:"user_id"`
	Portal         catalog.PortalSummary      `json:"portal"`
	JobDescription catalog.DescriptionSummary `json:"job_description"`
}

func summary(t *domain.JobTitle) JobTitleSummary {
	return JobTitleSummary{
		ID:    t.ID,
		Title: t.Title,
		Label: t.Label(),
	}
}

func detail(t *domain.JobTitle) JobTitleDetail {
	return JobTitleDetail{
		JobTitleSummary: summary(t),
		UserID:          t.UserID,
		Portal: catalog.PortalSummary{
			ID:   t.Portal.ID,
			Name: t.Portal.Name,
		},
		JobDescription: catalog.DescriptionSummary{
			ID:   t.JobDescription.ID,
			Role: t.JobDescription.Role,
		},
	}
}

// JobTitleRequest represents the write payload. The owner is never part
// of it; it comes from the token.
type JobTitleRequest struct {
	Title            string `json:"title" validate:"required,min=1,max=255"`
	PortalID         int64  `json:"portal_id" validate:"required"`
	JobDescriptionID int64  `json:"job_description_id" validate:"required"`
}

// List handles GET /jobtitles.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	titles, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	summaries := make([]JobTitleSummary, 0, len(titles))
	for i := range titles {
		summaries = append(summaries, summary(&titles[i]))
	}

	httputil.Success(w, http.StatusOK, summaries)
}

// Create handles POST /jobtitles.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	var req JobTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	title, err := h.service.Create(r.Context(), userID, CreateInput(req))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, detail(title))
}

// Get handles GET /jobtitles/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	title, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, detail(title))
}

// Update handles PUT /jobtitles/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var req JobTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	title, err := h.service.Update(r.Context(), userID, id, CreateInput(req))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusOK, detail(title))
}

// Delete handles DELETE /jobtitles/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r.Context())

	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusNotFound, ErrTitleNotFound.Error())
		return 0, false
	}
	return id, true
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrTitleNotFound, Status: http.StatusNotFound},
		// Unresolved references are payload errors, not missing resources.
		{Error: ErrPortalNotFound, Status: http.StatusBadRequest},
		{Error: ErrDescriptionNotFound, Status: http.StatusBadRequest},
	})
}
