// Package migration imports the legacy Mongo deployment into Postgres.
// It reads the original collections directly and rewrites them into the
// relational schema, batch by batch. Safe to re-run: existing rows are
// left untouched.
package migration

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migrator struct {
	pgDB      *bun.DB
	mongoDB   *mongo.Database
	batchSize int
	stats     MigrationStats

	// Mongo collection names (overrideable)
	collNames map[string]string
}

func NewMigrator(pgDB *bun.DB, mongoDB *mongo.Database) *Migrator {
	return &Migrator{
		pgDB:      pgDB,
		mongoDB:   mongoDB,
		batchSize: 500,
		stats: MigrationStats{
			Tables:    make(map[string]*TableStats),
			StartTime: time.Now(),
		},
		collNames: map[string]string{
			"users":    "users",
			"cards":    "cards",
			"packs":    "cardpacks",
			"sessions": "studysessions",
		},
	}
}

// Connect opens a Mongo client for the given URI and database name.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client.Database(dbName), nil
}

// SetBatchSize overrides the default insert batch size.
func (m *Migrator) SetBatchSize(size int) {
	if size > 0 {
		m.batchSize = size
	}
}

// MigrateAll runs every migration step in dependency order: the card
// catalog first, then packs, users, inventories and sessions.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"cards", m.migrateCards},
		{"card_packs", m.migratePacks},
		{"users", m.migrateUsers},
		{"study_sessions", m.migrateSessions},
	}

	for _, step := range steps {
		slog.Info("Migrating", slog.String("type", "system"), slog.String("step", step.name))
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("migration step %s failed: %w", step.name, err)
		}
	}

	m.logSummary()
	return nil
}

func (m *Migrator) migrateCards(ctx context.Context) error {
	stats := m.stats.table("cards")

	cursor, err := m.mongoDB.Collection(m.collNames["cards"]).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	now := time.Now()
	var batch []*models.Card
	for cursor.Next(ctx) {
		var doc legacyCard
		if err := cursor.Decode(&doc); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++
		if doc.CardID == "" {
			stats.Skipped++
			continue
		}

		batch = append(batch, &models.Card{
			ID:         doc.CardID,
			Name:       doc.Name,
			Types:      doc.Types,
			Rarity:     doc.Rarity,
			SmallImage: doc.SmallImage,
			LargeImage: doc.LargeImage,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if len(batch) >= m.batchSize {
			if err := m.flushCards(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := m.flushCards(ctx, batch, stats); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (m *Migrator) flushCards(ctx context.Context, batch []*models.Card, stats *TableStats) error {
	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil {
		stats.Inserted += rows
	}
	return nil
}

func (m *Migrator) migratePacks(ctx context.Context) error {
	stats := m.stats.table("card_packs")

	cursor, err := m.mongoDB.Collection(m.collNames["packs"]).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	now := time.Now()
	for cursor.Next(ctx) {
		var doc legacyPack
		if err := cursor.Decode(&doc); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++
		if doc.Code == "" {
			stats.Skipped++
			continue
		}

		slots := make([]models.PackSlot, 0, len(doc.Slots))
		for _, s := range doc.Slots {
			probs := make([]models.SlotProbability, 0, len(s.Probabilities))
			for _, p := range s.Probabilities {
				probs = append(probs, models.SlotProbability{Rarity: p.Rarity, Chance: p.Chance})
			}
			slots = append(slots, models.PackSlot{Slot: s.Slot, Probabilities: probs})
		}

		pack := &models.CardPack{
			Code:        doc.Code,
			Name:        doc.Name,
			Cost:        doc.Cost,
			Description: doc.Description,
			CardIDs:     doc.Cards,
			Slots:       slots,
			NumCards:    doc.NumOfCards,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		res, err := m.pgDB.NewInsert().
			Model(pack).
			On("CONFLICT (code) DO NOTHING").
			Exec(ctx)
		if err != nil {
			stats.Errors++
			continue
		}
		if rows, err := res.RowsAffected(); err == nil {
			stats.Inserted += rows
		}
	}
	return cursor.Err()
}

func (m *Migrator) migrateUsers(ctx context.Context) error {
	stats := m.stats.table("users")
	cardStats := m.stats.table("user_cards")

	cursor, err := m.mongoDB.Collection(m.collNames["users"]).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	now := time.Now()
	for cursor.Next(ctx) {
		var doc legacyUser
		if err := cursor.Decode(&doc); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++
		if doc.ClerkID == "" {
			stats.Skipped++
			continue
		}

		level := doc.Level
		if level < 1 {
			level = 1
		}
		createdAt := doc.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		user := &models.User{
			ID:           doc.ClerkID,
			Username:     doc.Username,
			Email:        doc.Email,
			ProfileImage: doc.ProfileImage,
			Coins:        doc.Coins,
			Experience:   doc.Experience,
			Level:        level,
			CardDisplay:  emptyIfNil(doc.CardDisplay),
			Friends:      emptyIfNil(doc.Friends),
			CreatedAt:    createdAt,
			UpdatedAt:    now,
		}
		res, err := m.pgDB.NewInsert().
			Model(user).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			stats.Errors++
			continue
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			// User already migrated; inventory was too.
			continue
		}
		stats.Inserted += rows

		// The legacy model stored the inventory as a flat card id list
		// with repeats marking duplicates.
		if err := m.insertInventory(ctx, doc.ClerkID, doc.Cards, now, cardStats); err != nil {
			cardStats.Errors++
		}
	}
	return cursor.Err()
}

func (m *Migrator) insertInventory(ctx context.Context, userID string, cardIDs []string, now time.Time, stats *TableStats) error {
	if len(cardIDs) == 0 {
		return nil
	}

	copies := make(map[string]int64, len(cardIDs))
	for _, id := range cardIDs {
		copies[id]++
	}

	batch := make([]*models.UserCard, 0, len(copies))
	for id, n := range copies {
		batch = append(batch, &models.UserCard{
			UserID:      userID,
			CardID:      id,
			Copies:      n,
			CollectedAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	res, err := m.pgDB.NewInsert().
		Model(&batch).
		On("CONFLICT (user_id, card_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil {
		stats.Inserted += rows
	}
	return nil
}

func (m *Migrator) migrateSessions(ctx context.Context) error {
	stats := m.stats.table("study_sessions")

	cursor, err := m.mongoDB.Collection(m.collNames["sessions"]).Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	now := time.Now()
	var batch []*models.StudySession
	for cursor.Next(ctx) {
		var doc legacySession
		if err := cursor.Decode(&doc); err != nil {
			stats.Errors++
			continue
		}
		stats.Read++
		if doc.ClerkID == "" {
			stats.Skipped++
			continue
		}

		status := doc.Status
		// Anything still marked active in the legacy dump was abandoned
		// long ago.
		if status == models.SessionActive {
			status = models.SessionFailed
		}

		batch = append(batch, &models.StudySession{
			UserID:           doc.ClerkID,
			PlannedDuration:  doc.PlannedDuration,
			ActualDuration:   doc.ActualDuration,
			Status:           status,
			StartTime:        doc.StartTime,
			EndTime:          doc.EndTime,
			RewardCoins:      doc.RewardCoins,
			RewardExperience: doc.RewardExp,
			CreatedAt:        doc.StartTime,
			UpdatedAt:        now,
		})
		if len(batch) >= m.batchSize {
			if err := m.flushSessions(ctx, batch, stats); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := m.flushSessions(ctx, batch, stats); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (m *Migrator) flushSessions(ctx context.Context, batch []*models.StudySession, stats *TableStats) error {
	res, err := m.pgDB.NewInsert().
		Model(&batch).
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil {
		stats.Inserted += rows
	}
	return nil
}

func (m *Migrator) logSummary() {
	for name, t := range m.stats.Tables {
		slog.Info("Migration table summary",
			slog.String("type", "system"),
			slog.String("table", name),
			slog.Int64("read", t.Read),
			slog.Int64("inserted", t.Inserted),
			slog.Int64("skipped", t.Skipped),
			slog.Int64("errors", t.Errors),
		)
	}
	slog.Info("Migration finished",
		slog.String("type", "system"),
		slog.Duration("took", time.Since(m.stats.StartTime)),
	)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
