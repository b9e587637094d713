// AngelaMos | 2026
// handler.go

package student

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tharunrega/smansys/internal/core"
	"github.com/tharunrega/smansys/internal/middleware"
	"github.com/tharunrega/smansys/internal/user"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/students", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(middleware.RequireRole(user.RoleManager, user.RoleAdmin))

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Replace)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, details := ParseListQuery(r.URL.Query())
	if len(details) > 0 {
		core.JSONError(w, core.ValidationError(details))
		return
	}

	if err := h.validator.Struct(q); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	students, pagination, err := h.service.List(r.Context(), q)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListResponse{
		Data:       ToResponseList(students),
		Pagination: pagination,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	st, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, DataResponse{
		Message: "Student created successfully",
		Data:    ToResponse(st),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}

	st, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, DataResponse{Data: ToResponse(st)})
}

func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	st, err := h.service.Replace(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, DataResponse{
		Message: "Student updated successfully",
		Data:    ToResponse(st),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := studentID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "student deleted",
		"student_id", id,
		"actor_id", middleware.GetUserID(r.Context()),
		"actor_role", middleware.GetUserRole(r.Context()),
	)
	core.Message(w, "Student deleted successfully")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (Request, bool) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.InvalidBody(w)
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return req, false
	}

	return req, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRollNumberTaken):
		core.JSONError(w, core.DuplicateError(
			"Duplicate roll number",
			"A student with this roll number already exists",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "Student")
	default:
		core.InternalServerError(w, err)
	}
}

// studentID rejects ids that cannot exist before they reach the store.
func studentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		core.NotFound(w, "Student")
		return "", false
	}
	return id, true
}
