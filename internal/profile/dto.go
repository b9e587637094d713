// AngelaMos | 2026
// dto.go

package profile

import (
	"github.com/tharunrega/smansys/internal/user"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=128"`
}

type Response struct {
	Message string        `json:"message,omitempty"`
	User    user.Response `json:"user"`
}

type AvatarResponse struct {
	Message string `json:"message"`
	Avatar  string `json:"avatar"`
}
