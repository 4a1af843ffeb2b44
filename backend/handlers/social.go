package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/studydex/studydex/backend/utils"
	"github.com/studydex/studydex/studydex/database/repositories"
)

type friendRequestBody struct {
	RecipientID       string `json:"recipientId"`
	RecipientUsername string `json:"recipientUsername"`
}

// SendFriendRequest creates a pending friend request. The recipient can
// be addressed by id or by username; the mobile client's add-friend
// screen only knows usernames.
func SendFriendRequest(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body friendRequestBody
		if err := c.BodyParser(&body); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		recipientID := body.RecipientID
		if recipientID == "" && body.RecipientUsername != "" {
			recipient, err := app.Repos.User.GetByUsername(c.Context(), body.RecipientUsername)
			if err != nil {
				if repositories.IsNotFound(err) {
					return utils.SendNotFound(c, "User not found")
				}
				return err
			}
			recipientID = recipient.ID
		}
		if recipientID == "" {
			return utils.SendBadRequest(c, "Recipient id or username is required", nil)
		}

		req, err := app.Social.SendFriendRequest(c.Context(), c.Params("userId"), recipientID)
		if err != nil {
			return err
		}
		return utils.SendCreated(c, req, "Friend request sent")
	}
}

// PendingFriendRequests lists requests awaiting a user's response.
func PendingFriendRequests(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqs, err := app.Social.PendingRequests(c.Context(), c.Params("userId"))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, reqs, "")
	}
}

type respondRequestBody struct {
	UserID string `json:"userId"`
}

// AcceptFriendRequest accepts a pending request.
func AcceptFriendRequest(app *WebApp) fiber.Handler {
	return respondToFriendRequest(app, true, "Friend request accepted")
}

// DeclineFriendRequest declines a pending request.
func DeclineFriendRequest(app *WebApp) fiber.Handler {
	return respondToFriendRequest(app, false, "Friend request declined")
}

func respondToFriendRequest(app *WebApp, accept bool, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return utils.SendBadRequest(c, "Invalid request id", nil)
		}

		var body respondRequestBody
		if err := c.BodyParser(&body); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if body.UserID == "" {
			return utils.SendBadRequest(c, "User id is required", nil)
		}

		if err := app.Social.RespondToRequest(c.Context(), int64(id), body.UserID, accept); err != nil {
			return err
		}
		return utils.SendSuccess(c, nil, message)
	}
}

// ListFriends returns a user's friends.
func ListFriends(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		friends, err := app.Social.Friends(c.Context(), c.Params("userId"))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, friends, "")
	}
}

// RemoveFriend unlinks two friends.
func RemoveFriend(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := app.Social.RemoveFriend(c.Context(), c.Params("userId"), c.Params("friendId")); err != nil {
			return err
		}
		return utils.SendSuccess(c, nil, "Friend removed")
	}
}

// SendGift sends the daily coin gift to a friend.
func SendGift(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body friendRequestBody
		if err := c.BodyParser(&body); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if body.RecipientID == "" {
			return utils.SendBadRequest(c, "Recipient id is required", nil)
		}

		gift, err := app.Social.SendGift(c.Context(), c.Params("userId"), body.RecipientID)
		if err != nil {
			return err
		}
		return utils.SendCreated(c, gift, "Gift sent")
	}
}

// CanSendGift reports whether the daily gift to a friend is still
// available.
func CanSendGift(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		canSend, err := app.Social.CanSendGift(c.Context(), c.Params("userId"), c.Params("recipientId"))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, fiber.Map{"canSend": canSend}, "")
	}
}

// Mailbox lists a user's mail.
func Mailbox(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mails, err := app.Social.Mailbox(c.Context(), c.Params("userId"), c.QueryBool("uncollected", false))
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, mails, "")
	}
}

// CollectMail credits a mail's coins to its recipient.
func CollectMail(app *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return utils.SendBadRequest(c, "Invalid mail id", nil)
		}

		var body respondRequestBody
		if err := c.BodyParser(&body); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if body.UserID == "" {
			return utils.SendBadRequest(c, "User id is required", nil)
		}

		mail, err := app.Social.CollectMail(c.Context(), int64(id), body.UserID)
		if err != nil {
			return err
		}
		return utils.SendSuccess(c, mail, "Mail collected")
	}
}
