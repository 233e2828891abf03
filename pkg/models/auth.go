package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	APIKey   string    `json:"api_key"`
	UserTier string    `json:"user_tier"`
	jwt.RegisteredClaims
}

type AuthContext struct {
	UserID   uuid.UUID `json:"user_id"`
	UserTier string    `json:"user_tier"`
	APIKey   string    `json:"api_key"`
}

type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"reset_time"`
}
