package collection

import (
	"testing"
	"time"

	"github.com/studydex/studydex/studydex/database/models"
)

func entry(id, name, rarity string, copies int64, collected time.Time, types ...string) Entry {
	return Entry{
		Card: &models.Card{
			ID:     id,
			Name:   name,
			Rarity: rarity,
			Types:  types,
		},
		Copies:      copies,
		CollectedAt: collected,
	}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Card.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortEntries(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	entries := func() []Entry {
		return []Entry{
			entry("c1", "Eevee", models.RarityCommon, 3, base.Add(2*time.Hour), "Colorless"),
			entry("c2", "Umbreon", models.RarityRare, 1, base.Add(3*time.Hour), "Darkness"),
			entry("c3", "Vaporeon", models.RarityUncommon, 5, base.Add(1*time.Hour), "Water"),
			entry("c4", "Sylveon", models.RarityRare, 1, base, "Psychic"),
		}
	}

	tests := []struct {
		name  string
		order string
		want  []string
	}{
		{"recent is newest first", SortRecent, []string{"c2", "c1", "c3", "c4"}},
		{"empty order defaults to recent", "", []string{"c2", "c1", "c3", "c4"}},
		{"rarity is rarest first, names break ties", SortRarity, []string{"c4", "c2", "c3", "c1"}},
		{"types groups alphabetically", SortTypes, []string{"c1", "c2", "c4", "c3"}},
		{"duplicates is most copies first", SortDuplicates, []string{"c3", "c1", "c4", "c2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := entries()
			sortEntries(es, tt.order)
			if got := ids(es); !equalIDs(got, tt.want) {
				t.Errorf("sortEntries(%q) = %v, want %v", tt.order, got, tt.want)
			}
		})
	}
}

func TestFilterByName(t *testing.T) {
	base := time.Now()
	entries := []Entry{
		entry("c1", "Eevee", models.RarityCommon, 1, base),
		entry("c2", "Umbreon", models.RarityRare, 1, base),
		entry("c3", "Vaporeon", models.RarityUncommon, 1, base),
	}

	got := filterByName(entries, "eon")
	for _, e := range got {
		if e.Card.ID == "c1" {
			t.Error("Eevee should not match \"eon\"")
		}
	}
	if len(got) != 2 {
		t.Errorf("got %d matches, want 2", len(got))
	}

	if got := filterByName(entries, "zzz"); len(got) != 0 {
		t.Errorf("got %d matches for a miss, want 0", len(got))
	}
}
