package handlers

import (
	"github.com/go-redis/redis/v8"
	"github.com/studydex/studydex/backend/models"
	"github.com/studydex/studydex/studydex"
	"github.com/studydex/studydex/studydex/collection"
	"github.com/studydex/studydex/studydex/database"
	"github.com/studydex/studydex/studydex/gacha"
	"github.com/studydex/studydex/studydex/leveling"
	"github.com/studydex/studydex/studydex/social"
	"github.com/studydex/studydex/studydex/stats"
	"github.com/studydex/studydex/studydex/study"
)

// WebApp bundles everything the HTTP handlers need.
type WebApp struct {
	Config *studydex.Config
	DB     *database.DB
	Redis  *redis.Client
	Repos  *models.Repositories

	Gacha      *gacha.Service
	Study      *study.Service
	Leveling   *leveling.Service
	Stats      *stats.Service
	Collection *collection.Service
	Social     *social.Service

	Version string
	Commit  string
}
