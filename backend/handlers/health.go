package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studydex/studydex/backend/models"
	"github.com/studydex/studydex/backend/utils"
)

// HealthCheck reports server, database and cache health.
func HealthCheck(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := models.NewHealthCheck(app.Version)

		if err := app.DB.Ping(c.Context()); err != nil {
			health.AddComponent("database", "unhealthy", err.Error())
		} else {
			health.AddComponent("database", "healthy", "")
		}

		if app.Redis != nil {
			if err := app.Redis.Ping(c.Context()).Err(); err != nil {
				health.AddComponent("redis", "unhealthy", err.Error())
			} else {
				health.AddComponent("redis", "healthy", "")
			}
		}

		status := fiber.StatusOK
		if health.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return utils.SendJSON(c, status, health)
	}
}
