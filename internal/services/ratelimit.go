package services

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/szlakly/trailrec/internal/config"
	"github.com/szlakly/trailrec/pkg/models"
)

// RateLimitService enforces per-caller request quotas with a sliding
// window kept in a redis sorted set. When redis is unreachable the
// service fails open so recommendations stay available.
type RateLimitService struct {
	cfg    config.RateLimitConfig
	logger *logrus.Logger
	redis  *redis.Client
}

func NewRateLimitService(cfg *config.Config, logger *logrus.Logger, redisClient *redis.Client) *RateLimitService {
	return &RateLimitService{
		cfg:    cfg.Auth.RateLimit,
		logger: logger,
		redis:  redisClient,
	}
}

// Allow records one request for the caller and reports whether it fits
// inside the tier quota for the current window.
func (s *RateLimitService) Allow(ctx context.Context, callerID, tier string) (bool, *models.RateLimitInfo, error) {
	info, err := s.take(ctx, callerID, tier)
	if err != nil {
		return false, nil, err
	}
	return info.Remaining > 0, info, nil
}

func (s *RateLimitService) take(ctx context.Context, callerID, tier string) (*models.RateLimitInfo, error) {
	limit := s.tierLimit(tier)
	window := s.cfg.Window
	now := time.Now()

	key := "rate_limit:caller:" + callerID
	cutoff := strconv.FormatInt(now.Add(-window).Unix(), 10)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// One round trip: drop entries older than the window, count what is
	// left, record this request, refresh the key TTL.
	pipe := s.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoff)
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.Unix()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.WithError(err).WithField("caller_id", callerID).
			Error("Rate limit pipeline failed, allowing request")
		return &models.RateLimitInfo{
			Limit:     limit,
			Remaining: limit - 1,
			ResetTime: now.Add(window).Unix(),
		}, nil
	}

	remaining := limit - int(countCmd.Val())
	if remaining < 0 {
		remaining = 0
	}

	return &models.RateLimitInfo{
		Limit:     limit,
		Remaining: remaining,
		ResetTime: now.Add(window).Unix(),
	}, nil
}

func (s *RateLimitService) tierLimit(tier string) int {
	switch tier {
	case "premium":
		return s.cfg.Premium
	case "enterprise":
		// Enterprise callers get ten premium quotas.
		return s.cfg.Premium * 10
	default:
		return s.cfg.Default
	}
}
