package cache

import (
	"context"
	"time"

	"kmcpos/backend/internal/domain"
)

// CatalogCache holds the medicine list between catalog writes. Any write to
// the catalog (create, update, delete, purchase receive, sale commit) must
// invalidate it.
type CatalogCache interface {
	Get(ctx context.Context, key string) ([]domain.Medicine, bool, error)
	Set(ctx context.Context, key string, value []domain.Medicine, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopCatalogCache struct{}

func (NoopCatalogCache) Get(_ context.Context, _ string) ([]domain.Medicine, bool, error) {
	return nil, false, nil
}

func (NoopCatalogCache) Set(_ context.Context, _ string, _ []domain.Medicine, _ time.Duration) error {
	return nil
}

func (NoopCatalogCache) Invalidate(_ context.Context, _ string) error {
	return nil
}

// SuggestionCache holds computed add-on suggestions keyed by cart contents.
// Entries are short-lived, so there is no invalidation path.
type SuggestionCache interface {
	Get(ctx context.Context, key string) (*domain.SuggestionResponse, bool, error)
	Set(ctx context.Context, key string, value *domain.SuggestionResponse, ttl time.Duration) error
}

type NoopSuggestionCache struct{}

func (NoopSuggestionCache) Get(_ context.Context, _ string) (*domain.SuggestionResponse, bool, error) {
	return nil, false, nil
}

func (NoopSuggestionCache) Set(_ context.Context, _ string, _ *domain.SuggestionResponse, _ time.Duration) error {
	return nil
}
