package service

import (
	"context"
	"time"

	"chatbot-be/internal/dto"
	"chatbot-be/internal/entity"
	"chatbot-be/internal/pkg/apperror"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/internal/repository/contract"
	"chatbot-be/internal/repository/specification"
	"chatbot-be/internal/repository/unitofwork"
	"chatbot-be/pkg/events"
	"chatbot-be/pkg/extraction"

	"github.com/google/uuid"
)

const (
	msgSessionSaved      = "Session saved successfully"
	msgSessionUpdated    = "Session updated successfully"
	msgSessionFinalized  = "Session updated and summary generated"
	msgSessionNotFound   = "Session not found"
	msgSessionSaveFailed = "Error saving session"
)

type ISessionService interface {
	SaveSession(ctx context.Context, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error)
	UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req *dto.UpdateSessionRequest) (*dto.UpdateSessionResponse, error)
	GetActiveSession(ctx context.Context, userID uuid.UUID) (*dto.ActiveSessionResponse, error)
	ListSessions(ctx context.Context, userID uuid.UUID) (*dto.SessionListResponse, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*dto.SessionDetailResponse, error)
}

type sessionService struct {
	uowFactory   unitofwork.RepositoryFactory
	extractor    IProfileExtractor
	profileCache contract.ProfileCache
	publisher    IPublisherService
	logger       logger.ILogger
	activeWindow time.Duration
	now          func() time.Time
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	extractor IProfileExtractor,
	profileCache contract.ProfileCache,
	publisher IPublisherService,
	logger logger.ILogger,
	activeWindow time.Duration,
) ISessionService {
	return &sessionService{
		uowFactory:   uowFactory,
		extractor:    extractor,
		profileCache: profileCache,
		publisher:    publisher,
		logger:       logger,
		activeWindow: activeWindow,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// activeSessionSpecs selects the newest unfinalized session updated inside the window.
func (s *sessionService) activeSessionSpecs(userID uuid.UUID) []specification.Specification {
	return []specification.Specification{
		specification.UserOwnedBy{UserID: userID},
		specification.ActiveSession{},
		specification.UpdatedSince{Cutoff: s.now().Add(-s.activeWindow)},
		specification.OrderBy{Field: "updated_at", Desc: true},
	}
}

// SaveSession continues the active session or starts a new one. With
// generate_summary it also finalizes the session and merges the extracted
// profile. All writes commit together or not at all.
//
// A finalizing save when no session is active (e.g. a second logout) creates
// and finalizes a new session.
func (s *sessionService) SaveSession(ctx context.Context, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error) {
	userID := req.UserId
	messages := toEntityMessages(req.Messages)
	finalize := req.ShouldGenerateSummary()

	// Extraction talks to the LLM, so it runs before the transaction opens.
	var summary extraction.Summary
	var profile extraction.Profile
	if finalize {
		transcript := toLLMMessages(messages)
		summary = s.extractor.ExtractSummary(ctx, transcript)
		profile = s.extractor.ExtractProfile(ctx, transcript)
		if summary.Degraded || profile.Degraded {
			s.logger.Warn("SESSION", "extraction degraded", map[string]interface{}{
				"user_id":          userID.String(),
				"summary_degraded": summary.Degraded,
				"profile_degraded": profile.Degraded,
			})
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(msgSessionSaveFailed, err)
	}
	defer uow.Rollback()

	sessions := uow.ChatSessionRepository()
	session, err := sessions.FindOne(ctx, s.activeSessionSpecs(userID)...)
	if err != nil {
		return nil, apperror.Internal(msgSessionSaveFailed, err)
	}

	continued := session != nil
	if continued {
		session.Messages = messages
		session.UpdatedAt = s.now()
		err = sessions.Update(ctx, session)
	} else {
		session = &entity.ChatSession{UserId: userID, Messages: messages}
		err = sessions.Create(ctx, session)
	}
	if err != nil {
		return nil, apperror.Internal(msgSessionSaveFailed, err)
	}

	res := &dto.SaveSessionResponse{SessionId: session.Id, Message: msgSessionSaved}
	if continued {
		res.Message = msgSessionUpdated
	}

	if !finalize {
		if err := uow.Commit(); err != nil {
			return nil, apperror.Internal(msgSessionSaveFailed, err)
		}
		return res, nil
	}

	if err := uow.SummaryRepository().Create(ctx, &entity.Summary{
		ChatSessionId: session.Id,
		UserId:        userID,
		Text:          summary.Text,
	}); err != nil {
		return nil, apperror.Internal(msgSessionSaveFailed, err)
	}

	// PersonalInfo is only written once something was actually extracted.
	var info *entity.PersonalInfo
	if !profile.Empty() {
		info, err = mergeProfile(ctx, uow, userID, profileUpdates(profile))
		if err != nil {
			return nil, apperror.Internal(msgSessionSaveFailed, err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(msgSessionSaveFailed, err)
	}

	s.publish(ctx, events.SessionFinalized(userID.String(), session.Id.String()))
	if info != nil {
		if s.profileCache != nil {
			s.profileCache.Set(ctx, info)
		}
		s.publish(ctx, events.ProfileUpdated(userID.String(), "logout"))
	}

	s.logger.Info("SESSION", "session finalized", map[string]interface{}{
		"user_id":    userID.String(),
		"session_id": session.Id.String(),
		"profession": info.Profession(),
	})

	if continued {
		res.Message = msgSessionFinalized
	}
	res.Summary = &dto.SummaryDto{Summary: summary.Text}
	res.PersonalInfo = profileUpdates(profile)
	return res, nil
}

func (s *sessionService) UpdateSession(ctx context.Context, userID, sessionID uuid.UUID, req *dto.UpdateSessionRequest) (*dto.UpdateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal("Error updating session", err)
	}
	defer uow.Rollback()

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, apperror.Internal("Error updating session", err)
	}
	if session == nil || session.UserId != userID {
		return nil, apperror.NotFound(msgSessionNotFound)
	}

	session.Messages = toEntityMessages(req.Messages)
	session.UpdatedAt = s.now()
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, apperror.Internal("Error updating session", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal("Error updating session", err)
	}

	return &dto.UpdateSessionResponse{Message: msgSessionUpdated, SessionId: session.Id}, nil
}

func (s *sessionService) GetActiveSession(ctx context.Context, userID uuid.UUID) (*dto.ActiveSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, s.activeSessionSpecs(userID)...)
	if err != nil {
		return nil, apperror.Internal("Error loading session", err)
	}

	empty := &dto.ActiveSessionResponse{Messages: []dto.MessageDto{}}
	if session == nil {
		return empty, nil
	}
	// The query already filters by owner; a mismatch here means a query bug, not a valid result.
	if session.UserId != userID {
		s.logger.Error("SESSION", "active session owner mismatch", map[string]interface{}{
			"user_id":    userID.String(),
			"session_id": session.Id.String(),
		})
		return empty, nil
	}

	id := session.Id
	return &dto.ActiveSessionResponse{SessionId: &id, Messages: toMessageDtos(session.Messages)}, nil
}

func (s *sessionService) ListSessions(ctx context.Context, userID uuid.UUID) (*dto.SessionListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.WithSummary{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Internal("Error loading sessions", err)
	}

	items := make([]dto.SessionListItem, len(sessions))
	for i, session := range sessions {
		items[i] = dto.SessionListItem{
			Id:        session.Id,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
			Summary:   toSummaryDto(session.Summary),
		}
	}
	return &dto.SessionListResponse{Sessions: items}, nil
}

func (s *sessionService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionID},
		specification.WithSummary{},
	)
	if err != nil {
		return nil, apperror.Internal("Error loading session", err)
	}
	if session == nil || session.UserId != userID {
		return nil, apperror.NotFound(msgSessionNotFound)
	}

	return &dto.SessionDetailResponse{
		Id:        session.Id,
		Messages:  toMessageDtos(session.Messages),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Summary:   toSummaryDto(session.Summary),
	}, nil
}

func (s *sessionService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("SESSION", "publish event failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func toEntityMessages(in []dto.MessageDto) []entity.ChatMessage {
	out := make([]entity.ChatMessage, len(in))
	for i, m := range in {
		out[i] = entity.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

func toMessageDtos(in []entity.ChatMessage) []dto.MessageDto {
	out := make([]dto.MessageDto, len(in))
	for i, m := range in {
		out[i] = dto.MessageDto{Role: m.Role, Content: m.Content}
	}
	return out
}

func toSummaryDto(s *entity.Summary) *dto.SummaryDto {
	if s == nil {
		return nil
	}
	return &dto.SummaryDto{Summary: s.Text}
}
