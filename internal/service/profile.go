package service

import (
	"context"

	"chatbot-be/internal/entity"
	"chatbot-be/internal/repository/contract"
	"chatbot-be/internal/repository/specification"
	"chatbot-be/internal/repository/unitofwork"
	"chatbot-be/pkg/extraction"
	"chatbot-be/pkg/llm"

	"github.com/google/uuid"
)

// IProfileExtractor is satisfied by *extraction.Extractor.
type IProfileExtractor interface {
	ExtractSummary(ctx context.Context, messages []llm.Message, opts ...llm.Option) extraction.Summary
	ExtractProfile(ctx context.Context, messages []llm.Message, opts ...llm.Option) extraction.Profile
}

func profileUpdates(p extraction.Profile) map[string]string {
	return map[string]string{
		entity.ProfileKeyProfession:   p.Profession,
		entity.ProfileKeyPersonalInfo: p.PersonalInfo,
	}
}

// mergeProfile creates the user's PersonalInfo or shallow-merges updates into it.
// It must run inside the caller's transaction.
func mergeProfile(ctx context.Context, uow unitofwork.UnitOfWork, userID uuid.UUID, updates map[string]string) (*entity.PersonalInfo, error) {
	repo := uow.PersonalInfoRepository()

	info, err := repo.FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}

	if info == nil {
		info = &entity.PersonalInfo{UserId: userID}
		info.Merge(updates)
		if err := repo.Create(ctx, info); err != nil {
			return nil, err
		}
		return info, nil
	}

	if info.Merge(updates) {
		if err := repo.Update(ctx, info); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// loadProfile reads through the cache. A missing profile is (nil, nil).
func loadProfile(ctx context.Context, cache contract.ProfileCache, uowFactory unitofwork.RepositoryFactory, userID uuid.UUID) (*entity.PersonalInfo, error) {
	if cache != nil {
		if info, ok := cache.Get(ctx, userID); ok {
			return info, nil
		}
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	info, err := uow.PersonalInfoRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userID})
	if err != nil {
		return nil, err
	}
	if info != nil && cache != nil {
		cache.Set(ctx, info)
	}
	return info, nil
}

func toLLMMessages(messages []entity.ChatMessage) []llm.Message {
	out := make([]llm.Message, len(messages))
	for i, m := range messages {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
