// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/tharunrega/smansys/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName"  validate:"required,min=2,max=50"`
	Email     string `json:"email"     validate:"required,email,max=255"`
	Password  string `json:"password"  validate:"required,min=6,max=128"`
	Role      string `json:"role"      validate:"omitempty,oneof=admin manager user"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Avatar    *string `json:"avatar,omitempty"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type MeResponse struct {
	User user.Response `json:"user"`
}

func toUserResponse(u *user.User, withAvatar bool) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
	}
	if withAvatar {
		avatar := u.Avatar
		resp.Avatar = &avatar
	}
	return resp
}
