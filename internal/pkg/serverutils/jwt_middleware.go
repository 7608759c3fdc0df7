package serverutils

import (
	"strings"

	"chatbot-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIDLocal = "user_id"

// NewJwtMiddleware verifies the bearer token and stores its user_id claim in Locals.
func NewJwtMiddleware(secret string) fiber.Handler {
	key := []byte(secret)

	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			return apperror.Auth("Missing token")
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			return apperror.Auth("Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return apperror.Auth("Invalid claims")
		}
		raw, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(raw)
		if err != nil {
			return apperror.Auth("Invalid claims")
		}

		ctx.Locals(userIDLocal, userID)
		return ctx.Next()
	}
}

// CurrentUserID returns the user id set by the JWT middleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := ctx.Locals(userIDLocal).(uuid.UUID)
	return id, ok
}
