package models

import "github.com/golang-jwt/jwt/v5"

// LoginRequest selects a seeded account by email. There is no password: the
// dashboard signs in by picking an identity.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// LoginResponse returns the issued token and the resolved identity.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	User        User   `json:"user"`
	Actor       Actor  `json:"actor"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID int64    `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}
