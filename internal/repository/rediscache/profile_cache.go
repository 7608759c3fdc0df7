package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "profile:"

// ProfileCache shares profiles between API replicas. Redis failures are
// logged and reported as misses so the database stays the source of truth.
type ProfileCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

var _ contract.ProfileCache = (*ProfileCache)(nil)

type cachedProfile struct {
	Id        uuid.UUID         `json:"id"`
	UserId    uuid.UUID         `json:"user_id"`
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl, logger: log}
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (c *ProfileCache) Get(ctx context.Context, userID uuid.UUID) (*entity.PersonalInfo, bool) {
	raw, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("PROFILE_CACHE", "redis get failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var cp cachedProfile
	if err := json.Unmarshal(raw, &cp); err != nil {
		c.logger.Warn("PROFILE_CACHE", "corrupt cache entry", map[string]interface{}{"user_id": userID.String()})
		return nil, false
	}
	return &entity.PersonalInfo{
		Id:        cp.Id,
		UserId:    cp.UserId,
		Data:      cp.Data,
		CreatedAt: cp.CreatedAt,
		UpdatedAt: cp.UpdatedAt,
	}, true
}

func (c *ProfileCache) Set(ctx context.Context, info *entity.PersonalInfo) {
	if info == nil {
		return
	}
	raw, err := json.Marshal(cachedProfile{
		Id:        info.Id,
		UserId:    info.UserId,
		Data:      info.Data,
		CreatedAt: info.CreatedAt,
		UpdatedAt: info.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(info.UserId), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("PROFILE_CACHE", "redis set failed", map[string]interface{}{"error": err.Error()})
	}
}
