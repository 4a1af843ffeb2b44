package repositories

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/uptrace/bun"
)

const cardCacheSize = 2048

// CardRepository reads the card catalog. The catalog is effectively
// immutable at runtime so single-card lookups go through an LRU cache.
type CardRepository interface {
	GetByID(ctx context.Context, id string) (*models.Card, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Card, error)
	GetAll(ctx context.Context) ([]*models.Card, error)
	Create(ctx context.Context, card *models.Card) error
}

type cardRepository struct {
	*BaseRepository
	cache *lru.Cache
}

func NewCardRepository(db *bun.DB) CardRepository {
	cache, _ := lru.New(cardCacheSize)
	return &cardRepository{
		BaseRepository: NewBaseRepository(db),
		cache:          cache,
	}
}

func (r *cardRepository) GetByID(ctx context.Context, id string) (*models.Card, error) {
	if cached, ok := r.cache.Get(id); ok {
		return cached.(*models.Card), nil
	}

	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	card := new(models.Card)
	err := r.GetDB().NewSelect().
		Model(card).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("get", "card", id, err)
	}

	r.cache.Add(id, card)
	return card, nil
}

func (r *cardRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Card, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// Serve what we can from cache and fetch the rest in one query.
	found := make(map[string]*models.Card, len(ids))
	var missing []string
	for _, id := range ids {
		if cached, ok := r.cache.Get(id); ok {
			found[id] = cached.(*models.Card)
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		ctx, cancel := r.WithTimeout(ctx)
		defer cancel()

		var cards []*models.Card
		err := r.GetDB().NewSelect().
			Model(&cards).
			Where("id IN (?)", bun.In(missing)).
			Scan(ctx)
		if err != nil {
			return nil, r.HandleError("get_many", "card", err)
		}
		for _, c := range cards {
			found[c.ID] = c
			r.cache.Add(c.ID, c)
		}
	}

	// Preserve caller order; ids not in the catalog are skipped.
	out := make([]*models.Card, 0, len(ids))
	for _, id := range ids {
		if c, ok := found[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *cardRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var cards []*models.Card
	err := r.GetDB().NewSelect().
		Model(&cards).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleError("get_all", "card", err)
	}
	return cards, nil
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewInsert().
		Model(card).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	return r.HandleErrorWithID("create", "card", card.ID, err)
}
