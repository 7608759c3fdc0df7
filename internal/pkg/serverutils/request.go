package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"chatbot-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseBody decodes the JSON body into req and validates its tags.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return ValidateRequest(req)
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Validation("Invalid request")
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag())
	}
	return apperror.Validation(strings.Join(msgs, "; "))
}

// ParamUUID reads a path parameter as a UUID.
func ParamUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// RequireSelf rejects requests whose token belongs to a different user.
func RequireSelf(ctx *fiber.Ctx, userID uuid.UUID) error {
	current, ok := CurrentUserID(ctx)
	if !ok {
		return apperror.Auth("Missing token")
	}
	if current != userID {
		return apperror.Forbidden("Token does not match user_id")
	}
	return nil
}
