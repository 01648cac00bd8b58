package dto

import (
	"time"

	"github.com/valutatrade/valutatrade_hub/internal/core/domain"
)

// RegisterRequest is the payload for creating a new user.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=4"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse carries a session token after a successful login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
