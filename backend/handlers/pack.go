package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studydex/studydex/backend/utils"
	"github.com/studydex/studydex/studydex/database/repositories"
)

// ListPacks returns every purchasable pack.
func ListPacks(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		packs, err := app.Repos.Pack.GetAll(c.Context())
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, packs, "")
	}
}

// GetPack returns one pack with its slot distributions.
func GetPack(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pack, err := app.Repos.Pack.GetByCode(c.Context(), c.Params("code"))
		if err != nil {
			if repositories.IsNotFound(err) {
				return utils.SendNotFound(c, "CardPack not found")
			}
			return err
		}
		return utils.SendSuccess(c, pack, "")
	}
}

// OpenPack opens a pack for a user: one card per slot, cost deducted,
// cards added to the collection.
func OpenPack(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		userID := c.Params("userId")
		if code == "" || userID == "" {
			return utils.SendBadRequest(c, "Pack code and user id are required", nil)
		}

		result, err := app.Gacha.OpenPack(c.Context(), code, userID)
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, result, "Pack opened")
	}
}
