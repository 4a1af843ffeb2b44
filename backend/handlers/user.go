package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilm/fuzzy"
	"github.com/studydex/studydex/backend/utils"
	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/collection"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/leveling"
)

type userProfile struct {
	User      *models.User            `json:"user"`
	LevelInfo *leveling.UserLevelInfo `json:"levelInfo"`
	CardCount int                     `json:"cardCount"`
}

// GetUser returns a user's profile with level progress and collection
// size.
func GetUser(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Params("userId")

		user, err := app.Repos.User.GetByID(c.Context(), userID)
		if err != nil {
			if repositories.IsNotFound(err) {
				return apperrors.NotFound("User not found", err)
			}
			return err
		}

		info, err := app.Leveling.Progress(c.Context(), user)
		if err != nil {
			return err
		}

		count, err := app.Repos.UserCard.CountDistinct(c.Context(), userID)
		if err != nil {
			return err
		}

		return utils.SendSuccess(c, userProfile{
			User:      user,
			LevelInfo: info,
			CardCount: count,
		}, "")
	}
}

// SearchUsers finds users by username substring.
func SearchUsers(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return utils.SendBadRequest(c, "Query parameter q is required", nil)
		}

		users, err := app.Repos.User.SearchByUsername(c.Context(), query, c.QueryInt("limit", 20))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, users, "")
	}
}

// GetCollection lists a user's cards with filters and sorting.
func GetCollection(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Params("userId")

		entries, err := app.Collection.List(c.Context(), userID, collection.Filters{
			Rarity: c.Query("rarity"),
			Name:   c.Query("name"),
			Sort:   c.Query("sort"),
		})
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, entries, "")
	}
}

// GetCardDisplay returns the cards pinned to a user's profile.
func GetCardDisplay(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cards, err := app.Collection.CardDisplay(c.Context(), c.Params("userId"))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, cards, "")
	}
}

type cardDisplayRequest struct {
	CardIDs []string `json:"cardIds"`
}

// UpdateCardDisplay replaces the pinned profile cards.
func UpdateCardDisplay(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cardDisplayRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		if err := app.Collection.UpdateCardDisplay(c.Context(), c.Params("userId"), req.CardIDs); err != nil {
			return err
		}
		return utils.SendSuccess(c, nil, "Card display updated")
	}
}

// ListCards returns the full card catalog.
func ListCards(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cards, err := app.Repos.Card.GetAll(c.Context())
		if err != nil {
			return err
		}

		if rarity := c.Query("rarity"); rarity != "" {
			filtered := cards[:0]
			for _, card := range cards {
				if card.Rarity == rarity {
					filtered = append(filtered, card)
				}
			}
			cards = filtered
		}

		if name := c.Query("name"); name != "" {
			names := make([]string, len(cards))
			for i, card := range cards {
				names[i] = card.Name
			}
			matches := fuzzy.Find(name, names)
			matched := make([]*models.Card, 0, len(matches))
			for _, m := range matches {
				matched = append(matched, cards[m.Index])
			}
			cards = matched
		}

		return utils.SendSuccess(c, cards, "")
	}
}

// WeeklyStats returns the user's study summary for the current week.
func WeeklyStats(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := app.Stats.WeeklyStats(c.Context(), c.Params("userId"))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, out, "")
	}
}

// Leaderboards returns this week's minute and point rankings among the
// user and their friends.
func Leaderboards(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := app.Stats.WeeklyLeaderboards(c.Context(), c.Params("userId"))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, out, "")
	}
}
