package category

import (
	"context"
	"testing"

	"pawpals/internal/db/dbtest"
	"pawpals/internal/domain"
)

func TestPostgres_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	repo := NewPostgres(pool)
	for _, name := range []string{"Oiseau", "Chien", "Chat"} {
		if _, err := repo.Upsert(ctx, domain.Category{Name: name}); err != nil {
			t.Fatalf("upsert %s: %v", name, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Name != "Chat" || list[2].Name != "Oiseau" {
		t.Fatalf("expected categories ordered by name, got %+v", list)
	}
}

func TestPostgres_UpsertUpdatesExisting(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Pool(t)

	repo := NewPostgres(pool)
	first, err := repo.Upsert(ctx, domain.Category{Name: "Chien", Description: "old"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, domain.Category{Name: "Chien", Description: "Tout pour les chiens"})
	if err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same ID after update")
	}
	if second.Description != "Tout pour les chiens" {
		t.Fatalf("expected updated description, got %+v", second)
	}
}
