package models

import "time"

type User struct {
	ID                     string     `json:"id" bson:"id"`
	Email                  string     `json:"email" bson:"email"`
	PasswordHash           string     `json:"-" bson:"password_hash"`
	Region                 string     `json:"region" bson:"region"`
	IsEmailVerified        bool       `json:"is_email_verified" bson:"is_email_verified"`
	IsAdmin                bool       `json:"is_admin" bson:"is_admin"`
	EmailVerificationToken string     `json:"-" bson:"email_verification_token,omitempty"`
	PasswordResetToken     string     `json:"-" bson:"password_reset_token,omitempty"`
	PasswordResetExpires   *time.Time `json:"-" bson:"password_reset_expires,omitempty"`
	CreatedAt              time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" bson:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Region   string `json:"region" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Region          string    `json:"region"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Region:          u.Region,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type EmailVerificationRequest struct {
	Token string `json:"token" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirm struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Region string `json:"region"`
}
