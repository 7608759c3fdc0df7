package memory

import (
	"context"
	"time"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type ProfileCache struct {
	cache *cache.Cache
}

var _ contract.ProfileCache = (*ProfileCache)(nil)

func NewProfileCache(ttl time.Duration) *ProfileCache {
	return &ProfileCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *ProfileCache) Get(_ context.Context, userID uuid.UUID) (*entity.PersonalInfo, bool) {
	if x, found := c.cache.Get(userID.String()); found {
		return clone(x.(*entity.PersonalInfo)), true
	}
	return nil, false
}

func (c *ProfileCache) Set(_ context.Context, info *entity.PersonalInfo) {
	if info == nil {
		return
	}
	c.cache.Set(info.UserId.String(), clone(info), cache.DefaultExpiration)
}

// clone keeps callers from mutating the cached map.
func clone(info *entity.PersonalInfo) *entity.PersonalInfo {
	cp := *info
	cp.Data = make(map[string]string, len(info.Data))
	for k, v := range info.Data {
		cp.Data[k] = v
	}
	return &cp
}
