// AngelaMos | 2026
// handler.go

package profile

import (
	"encoding/json"
	"errors"
	"log/slog"
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
	r.Route("/profile", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Put("/password", h.ChangePassword)
		r.Post("/avatar", h.UploadAvatar)
		r.Delete("/avatar", h.RemoveAvatar)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, Response{User: user.ToResponse(u)})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.InvalidBody(w)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	u, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, Response{
		Message: "Profile updated successfully",
		User:    user.ToResponse(u),
	})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.InvalidBody(w)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	err := h.service.ChangePassword(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Message(w, "Password changed successfully")
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	upload, err := readAvatar(w, r)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	avatar, err := h.service.ReplaceAvatar(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "avatar replaced",
		"user_id", userID,
		"content_type", upload.ContentType,
		"size", upload.Size,
	)

	core.OK(w, AvatarResponse{
		Message: "Avatar uploaded successfully",
		Avatar:  avatar,
	})
}

func (h *Handler) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	avatar, err := h.service.RemoveAvatar(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, AvatarResponse{
		Message: "Avatar removed successfully",
		Avatar:  avatar,
	})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoChanges):
		core.JSONError(w, core.BadRequestError(
			"No data to update",
			"Please provide at least one field to update",
		))
	case errors.Is(err, user.ErrInvalidPassword):
		core.JSONError(w, core.BadRequestError(
			"Invalid password",
			"Current password is incorrect",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "User")
	default:
		core.InternalServerError(w, err)
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoFile):
		core.JSONError(w, core.BadRequestError(
			"No file uploaded",
			"Please upload an image file",
		))
	case errors.Is(err, ErrInvalidFileType):
		core.JSONError(w, core.BadRequestError(
			"Invalid file type",
			"Please upload a valid image file (JPEG, PNG, GIF, or WebP)",
		))
	case errors.Is(err, ErrFileTooLarge):
		core.JSONError(w, core.BadRequestError(
			"File too large",
			"File size must be less than 5MB",
		))
	default:
		core.InternalServerError(w, err)
	}
}
