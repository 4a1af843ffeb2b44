package social

import (
	"context"
	"fmt"
	"time"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/studydex/studydex/studydex/stats"
	"github.com/uptrace/bun"
)

// PendingRequest is a friend request joined with its sender's profile.
type PendingRequest struct {
	Request *models.FriendRequest `json:"request"`
	Sender  *models.User          `json:"sender"`
}

// Service handles friendships, daily gifts and the coin mailbox.
type Service struct {
	users   repositories.UserRepository
	friends repositories.FriendRepository
	gifts   repositories.GiftRepository
	mail    repositories.MailRepository
	tm      *economy.TransactionManager
	loc     *time.Location
	now     func() time.Time
}

func NewService(
	users repositories.UserRepository,
	friends repositories.FriendRepository,
	gifts repositories.GiftRepository,
	mail repositories.MailRepository,
	tm *economy.TransactionManager,
) (*Service, error) {
	loc, err := time.LoadLocation(stats.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", stats.TimezoneName, err)
	}
	return &Service{
		users:   users,
		friends: friends,
		gifts:   gifts,
		mail:    mail,
		tm:      tm,
		loc:     loc,
		now:     time.Now,
	}, nil
}

// SendFriendRequest creates a pending request from sender to recipient.
func (s *Service) SendFriendRequest(ctx context.Context, senderID, recipientID string) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, apperrors.InvalidState("Cannot send a friend request to yourself", nil)
	}

	sender, err := s.getUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getUser(ctx, recipientID); err != nil {
		return nil, err
	}

	if sender.HasFriend(recipientID) {
		return nil, apperrors.InvalidState("Already friends", nil)
	}

	pending, err := s.friends.HasPendingBetween(ctx, senderID, recipientID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check pending requests", err)
	}
	if pending {
		return nil, apperrors.InvalidState("Friend request already pending", nil)
	}

	req := &models.FriendRequest{SenderID: senderID, RecipientID: recipientID}
	if err := s.friends.CreateRequest(ctx, req); err != nil {
		return nil, apperrors.Internal("Failed to create friend request", err)
	}
	return req, nil
}

// PendingRequests lists requests awaiting the user's response, enriched
// with sender profiles.
func (s *Service) PendingRequests(ctx context.Context, userID string) ([]PendingRequest, error) {
	reqs, err := s.friends.PendingForRecipient(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load friend requests", err)
	}
	if len(reqs) == 0 {
		return []PendingRequest{}, nil
	}

	senderIDs := make([]string, len(reqs))
	for i, r := range reqs {
		senderIDs[i] = r.SenderID
	}
	senders, err := s.users.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, apperrors.Internal("Failed to load senders", err)
	}
	byID := make(map[string]*models.User, len(senders))
	for _, u := range senders {
		byID[u.ID] = u
	}

	out := make([]PendingRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, PendingRequest{Request: r, Sender: byID[r.SenderID]})
	}
	return out, nil
}

// RespondToRequest accepts or declines a pending request. Only the
// recipient may respond. Accepting links both friends lists atomically.
func (s *Service) RespondToRequest(ctx context.Context, requestID int64, userID string, accept bool) error {
	req, err := s.friends.GetRequest(ctx, requestID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return apperrors.NotFound("Friend request not found", err)
		}
		return apperrors.Internal("Failed to load friend request", err)
	}
	if req.RecipientID != userID {
		return apperrors.Forbidden("Cannot respond to another user's friend request", nil)
	}
	if req.Status != models.FriendRequestPending {
		return apperrors.InvalidState("Friend request already handled", nil)
	}

	if !accept {
		if err := s.friends.UpdateStatus(ctx, requestID, models.FriendRequestDeclined); err != nil {
			return apperrors.Internal("Failed to decline friend request", err)
		}
		return nil
	}

	err = s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Lock in a fixed order to avoid deadlocks on crossed accepts.
		firstID, secondID := req.SenderID, req.RecipientID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.tm.LockUser(ctx, tx, firstID)
		if err != nil {
			return err
		}
		second, err := s.tm.LockUser(ctx, tx, secondID)
		if err != nil {
			return err
		}

		addFriend(first, second.ID)
		addFriend(second, first.ID)

		now := time.Now()
		for _, u := range []*models.User{first, second} {
			u.UpdatedAt = now
			if _, err := tx.NewUpdate().Model(u).WherePK().Exec(ctx); err != nil {
				return err
			}
		}

		_, err = tx.NewUpdate().
			Model((*models.FriendRequest)(nil)).
			Set("status = ?", models.FriendRequestAccepted).
			Set("updated_at = ?", now).
			Where("id = ?", requestID).
			Exec(ctx)
		return err
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return err
		}
		return apperrors.Internal("Failed to accept friend request", err)
	}
	return nil
}

// Friends returns the user's friends with their profiles.
func (s *Service) Friends(ctx context.Context, userID string) ([]*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Friends) == 0 {
		return []*models.User{}, nil
	}

	friends, err := s.users.GetByIDs(ctx, user.Friends)
	if err != nil {
		return nil, apperrors.Internal("Failed to load friends", err)
	}
	return friends, nil
}

// RemoveFriend unlinks two users from each other's friends lists.
func (s *Service) RemoveFriend(ctx context.Context, userID, friendID string) error {
	err := s.tm.WithTransaction(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		firstID, secondID := userID, friendID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.tm.LockUser(ctx, tx, firstID)
		if err != nil {
			return err
		}
		second, err := s.tm.LockUser(ctx, tx, secondID)
		if err != nil {
			return err
		}

		var user *models.User
		if first.ID == userID {
			user = first
		} else {
			user = second
		}
		if !user.HasFriend(friendID) {
			return apperrors.InvalidState("Not friends", nil)
		}

		first.RemoveFriend(second.ID)
		second.RemoveFriend(first.ID)

		now := time.Now()
		for _, u := range []*models.User{first, second} {
			u.UpdatedAt = now
			if _, err := tx.NewUpdate().Model(u).WherePK().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return err
		}
		return apperrors.Internal("Failed to remove friend", err)
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperrors.NotFound("User not found", err)
		}
		return nil, apperrors.Internal("Failed to load user", err)
	}
	return user, nil
}

func addFriend(u *models.User, id string) {
	if !u.HasFriend(id) {
		u.Friends = append(u.Friends, id)
	}
}
