package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type LevelRepository interface {
	// GetByLevel returns the requirement row for the given level, or
	// nil when the level is beyond the seeded curve.
	GetByLevel(ctx context.Context, level int) (*models.LevelRequirement, error)
	GetAll(ctx context.Context) ([]*models.LevelRequirement, error)
}

type levelRepository struct {
	*BaseRepository
}

func NewLevelRepository(db *bun.DB) LevelRepository {
	return &levelRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *levelRepository) GetByLevel(ctx context.Context, level int) (*models.LevelRequirement, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	req := new(models.LevelRequirement)
	err := r.GetDB().NewSelect().
		Model(req).
		Where("level = ?", level).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("get", "level_requirement", level, err)
	}
	return req, nil
}

func (r *levelRepository) GetAll(ctx context.Context) ([]*models.LevelRequirement, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var reqs []*models.LevelRequirement
	err := r.GetDB().NewSelect().
		Model(&reqs).
		Order("level ASC").
		Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, r.HandleError("get_all", "level_requirement", err)
	}
	return reqs, nil
}
