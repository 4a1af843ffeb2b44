package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studydex/studydex/backend/utils"
)

type startSessionRequest struct {
	UserID          string `json:"userId"`
	PlannedDuration int64  `json:"plannedDuration"`
}

// StartSession begins a study session for a user.
func StartSession(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req startSessionRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.UserID == "" {
			return utils.SendBadRequest(c, "User id is required", nil)
		}

		session, err := app.Study.StartSession(c.Context(), req.UserID, req.PlannedDuration)
		if err != nil {
			return err
		}
		return utils.SendCreated(c, session, "Session started")
	}
}

// GetSession returns a session by id.
func GetSession(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return utils.SendBadRequest(c, "Invalid session id", nil)
		}

		session, err := app.Repos.Session.GetByID(c.Context(), int64(id))
		if err != nil {
			return utils.SendNotFound(c, "Session not found")
		}
		return utils.SendSuccess(c, session, "")
	}
}

// CompleteSession finishes a session and pays out any earned reward.
func CompleteSession(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return utils.SendBadRequest(c, "Invalid session id", nil)
		}

		result, err := app.Study.CompleteSession(c.Context(), int64(id))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, result, "Session completed")
	}
}

// FailSession abandons a session without reward.
func FailSession(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return utils.SendBadRequest(c, "Invalid session id", nil)
		}

		session, err := app.Study.FailSession(c.Context(), int64(id))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, session, "Session failed")
	}
}
