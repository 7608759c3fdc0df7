package controller

import "github.com/gofiber/fiber/v2"

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Info(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	name string
}

func NewHealthController(name string) IHealthController {
	return &healthController{name: name}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Info)
	r.Get("/health", c.Health)
}

func (c *healthController) Info(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message": c.name + " is running",
		"endpoints": fiber.Map{
			"register":       "POST /register",
			"login":          "POST /login",
			"chat":           "POST /chat",
			"save_session":   "POST /save-session",
			"update_session": "PUT /update-session/{session_id}",
			"active_session": "GET /active-session/{user_id}",
			"sessions":       "GET /sessions/{user_id}",
			"session":        "GET /session/{session_id}",
			"health":         "GET /health",
		},
	})
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "healthy"})
}
