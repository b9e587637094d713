// AngelaMos | 2026
// handler.go

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Overview)
		r.With(middleware.RequireRole(user.RoleManager, user.RoleAdmin)).
			Get("/analytics", h.Analytics)
	})
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	q, window, ok := h.parse(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Overview(r.Context(), q, window)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	q, window, ok := h.parse(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Analytics(r.Context(), q, window)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}

// parse validates the whole query and resolves the window before any store
// access.
func (h *Handler) parse(
	w http.ResponseWriter,
	r *http.Request,
) (Query, Window, bool) {
	q, details := ParseQuery(r.URL.Query())
	if len(details) > 0 {
		core.JSONError(w, core.ValidationError(details))
		return q, Window{}, false
	}

	if err := h.validator.Struct(q); err != nil {
		core.ValidationFailed(w, err)
		return q, Window{}, false
	}

	window, details := q.Window(h.service.Now())
	if len(details) > 0 {
		core.JSONError(w, core.ValidationError(details))
		return q, Window{}, false
	}

	return q, window, true
}
