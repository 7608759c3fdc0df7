package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"chatbot-be/internal/dto"
	"chatbot-be/internal/entity"
	"chatbot-be/internal/pkg/apperror"
	"chatbot-be/internal/pkg/logger"
	"chatbot-be/internal/repository/specification"
	"chatbot-be/internal/repository/unitofwork"
	"chatbot-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgEmailTaken       = "Email already registered"
	msgBadCredentials   = "Incorrect email or password"
	msgRegistrationDone = "Registration successful"
	msgLoginDone        = "Login successful"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	logger     logger.ILogger
	jwtSecret  []byte
	tokenTTL   time.Duration
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	logger logger.ILogger,
	jwtSecret string,
	tokenTTL time.Duration,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Internal("Error registering user", err)
	}
	if existing != nil {
		return nil, apperror.Conflict(msgEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Error registering user", err)
	}

	user := &entity.User{
		Id:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal("Error registering user", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict(msgEmailTaken)
		}
		return nil, apperror.Internal("Error registering user", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal("Error registering user", err)
	}

	token, err := s.issueToken(user.Id)
	if err != nil {
		return nil, apperror.Internal("Error issuing token", err)
	}

	s.logger.Info("AUTH", "user registered", map[string]interface{}{"user_id": user.Id.String()})
	if err := s.publisher.Publish(ctx, events.UserRegistered(user.Id.String())); err != nil {
		s.logger.Warn("AUTH", "publish user.registered failed", map[string]interface{}{"error": err.Error()})
	}

	return &dto.AuthResponse{UserId: user.Id, Message: msgRegistrationDone, AccessToken: token}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: normalizeEmail(req.Email)})
	if err != nil {
		return nil, apperror.Internal("Error logging in", err)
	}
	if user == nil {
		return nil, apperror.Auth(msgBadCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Auth(msgBadCredentials)
	}

	token, err := s.issueToken(user.Id)
	if err != nil {
		return nil, apperror.Internal("Error issuing token", err)
	}

	return &dto.AuthResponse{UserId: user.Id, Message: msgLoginDone, AccessToken: token}, nil
}

func (s *authService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
