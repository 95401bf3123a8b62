package memory

import (
	"context"
	"testing"
	"time"

	"waterwise-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(sampleCatalog(t)),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestCatalogRepositoryReloadsAfterTTL(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(sampleCatalog(t)),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	now := time.Now()
	repo.clock = func() time.Time { return now }

	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog: %v", err)
	}

	// Jitter adds at most 10%, so two minutes is safely past expiry.
	now = now.Add(2 * time.Minute)
	if _, err := repo.GetCatalog(context.Background()); err != nil {
		t.Fatalf("get catalog after expiry: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after TTL, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog([]domain.Screen{
		{
			ID:    "s1",
			Title: "One",
			Questions: []domain.Question{
				{Prompt: "Pick right", Options: []string{"wrong", "right"}, Answer: "right", Fact: "ok"},
			},
			Next:  domain.TerminalNext,
			Badge: "badge-1",
		},
	})
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return catalog
}
