package models

import (
	"github.com/studydex/studydex/studydex/database/repositories"
)

// Repositories groups all repository interfaces for easy injection
type Repositories struct {
	User     repositories.UserRepository
	Card     repositories.CardRepository
	UserCard repositories.UserCardRepository
	Pack     repositories.PackRepository
	Session  repositories.SessionRepository
	Level    repositories.LevelRepository
	Friend   repositories.FriendRepository
	Gift     repositories.GiftRepository
	Mail     repositories.MailRepository
}

// NewRepositories creates a new repositories group from individual repositories
func NewRepositories(
	user repositories.UserRepository,
	card repositories.CardRepository,
	userCard repositories.UserCardRepository,
	pack repositories.PackRepository,
	session repositories.SessionRepository,
	level repositories.LevelRepository,
	friend repositories.FriendRepository,
	gift repositories.GiftRepository,
	mail repositories.MailRepository,
) *Repositories {
	return &Repositories{
		User:     user,
		Card:     card,
		UserCard: userCard,
		Pack:     pack,
		Session:  session,
		Level:    level,
		Friend:   friend,
		Gift:     gift,
		Mail:     mail,
	}
}
