package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/pkg/models"
)

const tokenIssuer = "github.com/szlakly/trailrec"

// Demo API keys and their tiers. A production deployment would look
// these up in the database.
var apiKeyTiers = map[string]string{
	"demo-free-key":       "free",
	"demo-premium-key":    "premium",
	"demo-enterprise-key": "enterprise",
}

// AuthService issues and validates HS256 JWTs. Live sessions are
// mirrored in redis so a token can be revoked before it expires;
// session checks degrade gracefully when redis is down.
type AuthService struct {
	tokenTTL  time.Duration
	logger    *logrus.Logger
	redis     *redis.Client
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *AuthService {
	return &AuthService{
		tokenTTL:  cfg.Auth.TokenTTL,
		logger:    logger,
		redis:     redisClient,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
	}
}

func (s *AuthService) GenerateToken(userID uuid.UUID, apiKey, userTier string) (string, error) {
	now := time.Now()
	claims := &models.JWTClaims{
		UserID:   userID,
		APIKey:   apiKey,
		UserTier: userTier,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	// Token issuance must not depend on redis being up.
	if err := s.redis.Set(context.Background(), sessionKey(userID), signed, s.tokenTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to store session in redis")
	}

	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	exists, err := s.redis.Exists(context.Background(), sessionKey(claims.UserID)).Result()
	if err != nil {
		// Signature and expiry already checked above; accept the token
		// rather than reject everyone while redis is unreachable.
		s.logger.WithError(err).Warn("Failed to check session in redis")
	} else if exists == 0 {
		return nil, fmt.Errorf("session not found or expired")
	}

	return claims, nil
}

func (s *AuthService) RevokeToken(userID uuid.UUID) error {
	if err := s.redis.Del(context.Background(), sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *AuthService) ValidateAPIKey(apiKey string) (string, error) {
	tier, ok := apiKeyTiers[apiKey]
	if !ok {
		return "", fmt.Errorf("invalid API key")
	}
	return tier, nil
}

func sessionKey(userID uuid.UUID) string {
	return "session:" + userID.String()
}
