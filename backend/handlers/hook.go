package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/studydex/studydex/backend/utils"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
)

// hookEvent mirrors the identity provider's webhook payload.
type hookEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		ImageURL       string `json:"image_url"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

// IdentityHook receives user lifecycle events from the identity
// provider and mirrors them into the users table. Unknown event types
// are acknowledged so the provider does not retry them.
func IdentityHook(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var event hookEvent
		if err := c.BodyParser(&event); err != nil {
			return utils.SendBadRequest(c, "Invalid webhook payload", nil)
		}
		if event.Data.ID == "" {
			return utils.SendBadRequest(c, "Missing user id in webhook payload", nil)
		}

		email := ""
		if len(event.Data.EmailAddresses) > 0 {
			email = event.Data.EmailAddresses[0].EmailAddress
		}

		switch event.Type {
		case "user.created":
			user := &models.User{
				ID:           event.Data.ID,
				Username:     event.Data.Username,
				Email:        email,
				ProfileImage: event.Data.ImageURL,
				Level:        1,
			}
			if err := app.Repos.User.Create(c.Context(), user); err != nil {
				return err
			}
			slog.Info("User created from webhook",
				slog.String("type", "system"),
				slog.String("user_id", user.ID),
			)
			return utils.SendCreated(c, user, "User created")

		case "user.updated":
			user, err := app.Repos.User.GetByID(c.Context(), event.Data.ID)
			if err != nil {
				if repositories.IsNotFound(err) {
					return utils.SendNotFound(c, "User not found")
				}
				return err
			}
			if event.Data.Username != "" {
				user.Username = event.Data.Username
			}
			if email != "" {
				user.Email = email
			}
			if event.Data.ImageURL != "" {
				user.ProfileImage = event.Data.ImageURL
			}
			if err := app.Repos.User.Update(c.Context(), user); err != nil {
				return err
			}
			return utils.SendSuccess(c, user, "User updated")

		case "user.deleted":
			if err := app.Repos.User.Delete(c.Context(), event.Data.ID); err != nil {
				if repositories.IsNotFound(err) {
					// Already gone; the provider retries on errors.
					return utils.SendSuccess(c, nil, "User already deleted")
				}
				return err
			}
			slog.Info("User deleted from webhook",
				slog.String("type", "system"),
				slog.String("user_id", event.Data.ID),
			)
			return utils.SendSuccess(c, nil, "User deleted")

		default:
			slog.Debug("Ignoring webhook event",
				slog.String("type", "system"),
				slog.String("event", event.Type),
			)
			return utils.SendSuccess(c, nil, "Event ignored")
		}
	}
}
