package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"waterwise-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads screens JSONB from Postgres in traversal order.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM screens ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load screens: %w", err)
	}
	defer rows.Close()

	var screens []domain.Screen
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan screen: %w", err)
		}
		var screen domain.Screen
		if err := json.Unmarshal(raw, &screen); err != nil {
			return nil, fmt.Errorf("unmarshal screen: %w", err)
		}
		screens = append(screens, screen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read screens: %w", err)
	}

	catalog, err := domain.NewCatalog(screens)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return catalog, nil
}
