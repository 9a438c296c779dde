package model

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are JWT claims for admin authentication
type AdminClaims struct {
	AdminID string `json:"adminId"`
	jwt.RegisteredClaims
}

// RespondentClaims are JWT claims for category-scoped respondent tokens,
// issued when an assessment is started
type RespondentClaims struct {
	RespondentID string `json:"respondentId"`
	Category     string `json:"category"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}
