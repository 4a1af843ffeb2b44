package repositories

import (
	"context"

	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

type PackRepository interface {
	GetByCode(ctx context.Context, code string) (*models.CardPack, error)
	GetAll(ctx context.Context) ([]*models.CardPack, error)
	Create(ctx context.Context, pack *models.CardPack) error
}

type packRepository struct {
	*BaseRepository
}

func NewPackRepository(db *bun.DB) PackRepository {
	return &packRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *packRepository) GetByCode(ctx context.Context, code string) (*models.CardPack, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	pack := new(models.CardPack)
	err := r.GetDB().NewSelect().
		Model(pack).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "card_pack", code, err)
	}
	return pack, nil
}

func (r *packRepository) GetAll(ctx context.Context) ([]*models.CardPack, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var packs []*models.CardPack
	err := r.GetDB().NewSelect().
		Model(&packs).
		Order("code ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_all", "card_pack", err)
	}
	return packs, nil
}

func (r *packRepository) Create(ctx context.Context, pack *models.CardPack) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().
		Model(pack).
		On("CONFLICT (code) DO NOTHING").
		Exec(ctx)
	return r.HandleErrorWithID("create", "card_pack", pack.Code, err)
}
