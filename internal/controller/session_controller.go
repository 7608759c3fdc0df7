package controller

import (
	"chatbot-be/internal/dto"
	"chatbot-be/internal/pkg/apperror"
	"chatbot-be/internal/pkg/serverutils"
	"chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	SaveSession(ctx *fiber.Ctx) error
	UpdateSession(ctx *fiber.Ctx) error
	GetActiveSession(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	r.Post("/save-session", auth, c.SaveSession)
	r.Put("/update-session/:id", auth, c.UpdateSession)
	r.Get("/active-session/:user_id", auth, c.GetActiveSession)
	r.Get("/sessions/:user_id", auth, c.ListSessions)
	r.Get("/session/:id", auth, c.GetSession)
}

func (c *sessionController) SaveSession(ctx *fiber.Ctx) error {
	var req dto.SaveSessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.RequireSelf(ctx, req.UserId); err != nil {
		return err
	}

	res, err := c.service.SaveSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) UpdateSession(ctx *fiber.Ctx) error {
	sessionID, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSessionRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	userID, ok := serverutils.CurrentUserID(ctx)
	if !ok {
		return apperror.Auth("Missing token")
	}

	res, err := c.service.UpdateSession(ctx.UserContext(), userID, sessionID, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) GetActiveSession(ctx *fiber.Ctx) error {
	userID, err := serverutils.ParamUUID(ctx, "user_id")
	if err != nil {
		return err
	}
	if err := serverutils.RequireSelf(ctx, userID); err != nil {
		return err
	}

	res, err := c.service.GetActiveSession(ctx.UserContext(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) ListSessions(ctx *fiber.Ctx) error {
	userID, err := serverutils.ParamUUID(ctx, "user_id")
	if err != nil {
		return err
	}
	if err := serverutils.RequireSelf(ctx, userID); err != nil {
		return err
	}

	res, err := c.service.ListSessions(ctx.UserContext(), userID)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *sessionController) GetSession(ctx *fiber.Ctx) error {
	sessionID, err := serverutils.ParamUUID(ctx, "id")
	if err != nil {
		return err
	}
	userID, ok := serverutils.CurrentUserID(ctx)
	if !ok {
		return apperror.Auth("Missing token")
	}

	res, err := c.service.GetSession(ctx.UserContext(), userID, sessionID)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
