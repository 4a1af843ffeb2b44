package gacha

import (
	"context"
	"testing"

	"github.com/studydex/studydex/studydex/apperrors"
	"github.com/studydex/studydex/studydex/database/models"
	"github.com/studydex/studydex/studydex/database/repositories"
	"github.com/studydex/studydex/studydex/economy"
	"github.com/studydex/studydex/studydex/gacha/mock"
	"go.uber.org/mock/gomock"
)

// scriptedRand replays fixed rolls so draws are deterministic.
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func testPack() *models.CardPack {
	return &models.CardPack{
		ID:       1,
		Code:     "eevee",
		Name:     "Eevee Evolutions",
		Cost:     20,
		CardIDs:  []string{"c1", "c2", "c3"},
		NumCards: 1,
		Slots: []models.PackSlot{
			{Slot: 1, Probabilities: []models.SlotProbability{
				{Rarity: models.RarityCommon, Chance: 100},
			}},
		},
	}
}

func testPool() []*models.Card {
	return []*models.Card{
		{ID: "c1", Name: "Eevee", Rarity: models.RarityCommon},
		{ID: "c2", Name: "Vaporeon", Rarity: models.RarityUncommon},
		{ID: "c3", Name: "Umbreon", Rarity: models.RarityRare},
	}
}

func TestOpenPack_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	rng := &scriptedRand{floats: []float64{0.5}, ints: []int{0}}
	svc := NewService(repo, nil, rng)

	ctx := context.Background()
	pack := testPack()

	repo.EXPECT().PackByCode(ctx, "eevee").Return(pack, nil)
	repo.EXPECT().User(ctx, "user-1").Return(&models.User{ID: "user-1", Coins: 100}, nil)
	repo.EXPECT().CardsByIDs(ctx, pack.CardIDs).Return(testPool(), nil)
	repo.EXPECT().ApplyOpening(ctx, "user-1", int64(20), []string{"c1"}).Return(nil)

	result, err := svc.OpenPack(ctx, "eevee", "user-1")
	if err != nil {
		t.Fatalf("OpenPack() error = %v", err)
	}
	if len(result.Cards) != 1 {
		t.Fatalf("got %d cards, want 1", len(result.Cards))
	}
	if result.Cards[0].ID != "c1" {
		t.Errorf("got card %s, want c1", result.Cards[0].ID)
	}
	if result.Coins != 80 {
		t.Errorf("got coins %d, want 80", result.Coins)
	}
}

func TestOpenPack_PackNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := NewService(repo, nil, &scriptedRand{floats: []float64{0}, ints: []int{0}})

	ctx := context.Background()
	repo.EXPECT().PackByCode(ctx, "missing").
		Return(nil, &repositories.NotFoundError{Entity: "card_pack", ID: "missing"})

	_, err := svc.OpenPack(ctx, "missing", "user-1")
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("got kind %v, want not_found", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "CardPack not found" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestOpenPack_UserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := NewService(repo, nil, &scriptedRand{floats: []float64{0}, ints: []int{0}})

	ctx := context.Background()
	repo.EXPECT().PackByCode(ctx, "eevee").Return(testPack(), nil)
	repo.EXPECT().User(ctx, "ghost").
		Return(nil, &repositories.NotFoundError{Entity: "user", ID: "ghost"})

	_, err := svc.OpenPack(ctx, "eevee", "ghost")
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("got kind %v, want not_found", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "User not found" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestOpenPack_InsufficientCoins(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := NewService(repo, nil, &scriptedRand{floats: []float64{0}, ints: []int{0}})

	ctx := context.Background()
	repo.EXPECT().PackByCode(ctx, "eevee").Return(testPack(), nil)
	repo.EXPECT().User(ctx, "user-1").Return(&models.User{ID: "user-1", Coins: 19}, nil)

	_, err := svc.OpenPack(ctx, "eevee", "user-1")
	if apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("got kind %v, want forbidden", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "Not enough coins to open this pack" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestOpenPack_EmptyPool(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	svc := NewService(repo, nil, &scriptedRand{floats: []float64{0}, ints: []int{0}})

	ctx := context.Background()
	pack := testPack()
	repo.EXPECT().PackByCode(ctx, "eevee").Return(pack, nil)
	repo.EXPECT().User(ctx, "user-1").Return(&models.User{ID: "user-1", Coins: 100}, nil)
	repo.EXPECT().CardsByIDs(ctx, pack.CardIDs).Return(nil, nil)

	_, err := svc.OpenPack(ctx, "eevee", "user-1")
	if apperrors.KindOf(err) != apperrors.KindInternal {
		t.Fatalf("got kind %v, want internal", apperrors.KindOf(err))
	}
	if apperrors.MessageOf(err) != "No cards found in pack" {
		t.Errorf("got message %q", apperrors.MessageOf(err))
	}
}

func TestOpenPack_GuardRejectsConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRepository(ctrl)
	guard := economy.NewUserGuard()
	guard.TryLock("user-1")
	svc := NewService(repo, guard, &scriptedRand{floats: []float64{0}, ints: []int{0}})

	_, err := svc.OpenPack(context.Background(), "eevee", "user-1")
	if apperrors.KindOf(err) != apperrors.KindInvalidState {
		t.Fatalf("got kind %v, want invalid_state", apperrors.KindOf(err))
	}
}

func TestDrawRarity(t *testing.T) {
	probs := []models.SlotProbability{
		{Rarity: models.RarityRare, Chance: 60},
		{Rarity: models.RarityIllustrationRare, Chance: 30},
		{Rarity: models.RarityDoubleRare, Chance: 10},
	}

	tests := []struct {
		name string
		roll float64
		want string
	}{
		{"low roll hits first bucket", 0.0, models.RarityRare},
		{"boundary stays in first bucket", 0.599, models.RarityRare},
		{"middle bucket", 0.75, models.RarityIllustrationRare},
		{"high roll hits last bucket", 0.95, models.RarityDoubleRare},
		{"top of range still lands", 0.999, models.RarityDoubleRare},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{rng: &scriptedRand{floats: []float64{tt.roll}, ints: []int{0}}}
			if got := svc.drawRarity(probs); got != tt.want {
				t.Errorf("drawRarity(roll=%v) = %q, want %q", tt.roll, got, tt.want)
			}
		})
	}
}

func TestDrawRarity_UndershootFallsToLast(t *testing.T) {
	// Chances summing under 100 leave a dead zone; the roll falls
	// through to the last rarity.
	probs := []models.SlotProbability{
		{Rarity: models.RarityCommon, Chance: 40},
		{Rarity: models.RarityUncommon, Chance: 40},
	}
	svc := &Service{rng: &scriptedRand{floats: []float64{0.95}, ints: []int{0}}}
	if got := svc.drawRarity(probs); got != models.RarityUncommon {
		t.Errorf("drawRarity() = %q, want %q", got, models.RarityUncommon)
	}
}

func TestDrawCards_EmptySlotProbabilities(t *testing.T) {
	// A slot with no probability table must not panic; the draw falls
	// back to the whole pool.
	pack := testPack()
	pack.Slots = []models.PackSlot{{Slot: 1, Probabilities: nil}}

	svc := &Service{rng: &scriptedRand{floats: []float64{0}, ints: []int{2}}}
	drawn := svc.drawCards(pack, testPool())
	if len(drawn) != 1 {
		t.Fatalf("got %d cards, want 1", len(drawn))
	}
	if drawn[0].ID != "c3" {
		t.Errorf("drew %s, want c3", drawn[0].ID)
	}
}

func TestPickCard_FallsBackToPool(t *testing.T) {
	pool := testPool()
	svc := &Service{rng: &scriptedRand{floats: []float64{0}, ints: []int{1}}}

	// No Special Illustration Rare in the pool; the pick must still
	// return a card.
	got := svc.pickCard(testPack(), 1, models.RaritySpecialIllustrationRare, pool)
	if got == nil {
		t.Fatal("pickCard() returned nil")
	}
	if got.ID != "c2" {
		t.Errorf("pickCard() = %s, want c2", got.ID)
	}
}

func TestDrawCards_SlotOrder(t *testing.T) {
	pack := testPack()
	pack.Slots = []models.PackSlot{
		{Slot: 2, Probabilities: []models.SlotProbability{{Rarity: models.RarityUncommon, Chance: 100}}},
		{Slot: 1, Probabilities: []models.SlotProbability{{Rarity: models.RarityCommon, Chance: 100}}},
	}

	svc := &Service{rng: &scriptedRand{floats: []float64{0}, ints: []int{0}}}
	drawn := svc.drawCards(pack, testPool())
	if len(drawn) != 2 {
		t.Fatalf("got %d cards, want 2", len(drawn))
	}
	if drawn[0].Rarity != models.RarityCommon {
		t.Errorf("slot 1 drew %s, want a Common", drawn[0].Rarity)
	}
	if drawn[1].Rarity != models.RarityUncommon {
		t.Errorf("slot 2 drew %s, want an Uncommon", drawn[1].Rarity)
	}
}
