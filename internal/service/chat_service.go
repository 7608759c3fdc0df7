package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"chatbot-be/internal/dto"
	"chatbot-be/internal/entity"
	"chatbot-be/internal/pkg/apperror"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/internal/repository/contract"
	"chatbot-be/internal/repository/unitofwork"
	"chatbot-be/pkg/events"
	"chatbot-be/pkg/llm"
	"chatbot-be/pkg/prompt"
)

const (
	msgAPIKeyRequired = "API key is required."
	msgChatTimeout    = "Request to the language model timed out"
	redacted          = "[REDACTED]"
)

var secretKeyPattern = regexp.MustCompile(`sk-[A-Za-z0-9_\-]{8,}`)

type ChatConfig struct {
	APIKey         string
	Model          string
	Temperature    float64
	MaxTokens      int
	PromptTemplate string
}

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatService struct {
	provider     llm.LLMProvider
	extractor    IProfileExtractor
	profileCache contract.ProfileCache
	uowFactory   unitofwork.RepositoryFactory
	publisher    IPublisherService
	logger       logger.ILogger
	cfg          ChatConfig
}

func NewChatService(
	provider llm.LLMProvider,
	extractor IProfileExtractor,
	profileCache contract.ProfileCache,
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	logger logger.ILogger,
	cfg ChatConfig,
) IChatService {
	return &chatService{
		provider:     provider,
		extractor:    extractor,
		profileCache: profileCache,
		uowFactory:   uowFactory,
		publisher:    publisher,
		logger:       logger,
		cfg:          cfg,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	apiKey := strings.TrimSpace(req.ApiKey)
	if apiKey == "" {
		apiKey = s.cfg.APIKey
	}
	if apiKey == "" {
		return nil, apperror.Validation(msgAPIKeyRequired)
	}

	messages := toEntityMessages(req.Messages)

	info, err := loadProfile(ctx, s.profileCache, s.uowFactory, req.UserId)
	if err != nil {
		return nil, apperror.Internal("Error loading profile", err)
	}
	profession, personalInfo := info.Profession(), info.Text()

	if profession == "" && len(messages) >= 2 {
		if warmed := s.warmUpProfile(ctx, req, messages, apiKey); warmed != nil {
			profession, personalInfo = warmed.Profession(), warmed.Text()
		}
	}

	history := make([]llm.Message, 0, len(messages)+1)
	history = append(history, llm.Message{
		Role:    entity.RoleSystem,
		Content: prompt.BuildSystemPrompt(s.cfg.PromptTemplate, profession, personalInfo),
	})
	history = append(history, toLLMMessages(messages)...)

	opts := []llm.Option{
		llm.WithAPIKey(apiKey),
		llm.WithModel(s.cfg.Model),
		llm.WithTemperature(s.cfg.Temperature),
		llm.WithMaxTokens(s.cfg.MaxTokens),
	}
	if req.Model != nil && *req.Model != "" {
		opts = append(opts, llm.WithModel(*req.Model))
	}
	if req.Temperature != nil {
		opts = append(opts, llm.WithTemperature(*req.Temperature))
	}
	if req.MaxTokens != nil {
		opts = append(opts, llm.WithMaxTokens(*req.MaxTokens))
	}

	reply, err := s.provider.Chat(ctx, history, opts...)
	if err != nil {
		return nil, s.upstreamError(err, apiKey)
	}

	return &dto.ChatResponse{Response: reply}, nil
}

// warmUpProfile extracts a profession from the running conversation and
// persists it before the reply is generated. It returns nil when nothing
// usable was extracted or the write failed.
func (s *chatService) warmUpProfile(ctx context.Context, req *dto.ChatRequest, messages []entity.ChatMessage, apiKey string) *entity.PersonalInfo {
	profile := s.extractor.ExtractProfile(ctx, toLLMMessages(messages), llm.WithAPIKey(apiKey))
	if profile.Degraded || profile.Profession == "" {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		s.logWarmUpFailure(req, err)
		return nil
	}
	defer uow.Rollback()

	info, err := mergeProfile(ctx, uow, req.UserId, profileUpdates(profile))
	if err != nil {
		s.logWarmUpFailure(req, err)
		return nil
	}
	if err := uow.Commit(); err != nil {
		s.logWarmUpFailure(req, err)
		return nil
	}

	if s.profileCache != nil {
		s.profileCache.Set(ctx, info)
	}
	if err := s.publisher.Publish(ctx, events.ProfileUpdated(req.UserId.String(), "chat")); err != nil {
		s.logger.Warn("CHAT", "publish profile.updated failed", map[string]interface{}{"error": err.Error()})
	}

	s.logger.Info("CHAT", "profile warmed up", map[string]interface{}{
		"user_id":    req.UserId.String(),
		"profession": info.Profession(),
	})
	return info
}

func (s *chatService) logWarmUpFailure(req *dto.ChatRequest, err error) {
	s.logger.Warn("CHAT", "profile warm-up not persisted", map[string]interface{}{
		"user_id": req.UserId.String(),
		"error":   err.Error(),
	})
}

func (s *chatService) upstreamError(err error, keys ...string) error {
	msg := RedactSecrets(err.Error(), append(keys, s.cfg.APIKey)...)
	s.logger.Error("CHAT", "upstream call failed", map[string]interface{}{"error": msg})

	if errors.Is(err, llm.ErrTimeout) {
		return apperror.UpstreamTimeout(msgChatTimeout, nil)
	}
	var netErr *llm.NetworkError
	if errors.As(err, &netErr) {
		return apperror.UpstreamNetwork("Network error: "+msg, nil)
	}
	return apperror.Internal(msg, nil)
}

// RedactSecrets replaces every occurrence of the given keys, and anything
// shaped like an OpenAI secret key, with a placeholder.
func RedactSecrets(msg string, keys ...string) string {
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			msg = strings.ReplaceAll(msg, k, redacted)
		}
	}
	return secretKeyPattern.ReplaceAllString(msg, redacted)
}
