package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	appconfig "github.com/wolfman30/coaching-intake/internal/config"
	"github.com/wolfman30/coaching-intake/internal/leads"
	"github.com/wolfman30/coaching-intake/pkg/logging"
)

// BuildLeadsRepository connects to Postgres when DATABASE_URL is set and
// falls back to an in-memory repository otherwise. The returned func releases
// the pool and is never nil.
func BuildLeadsRepository(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (leads.Repository, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		logger.Warn("DATABASE_URL not set; leads are kept in memory")
		return leads.NewInMemoryRepository(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, func() {}, fmt.Errorf("bootstrap: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, func() {}, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	return leads.NewPostgresRepository(pool), pool.Close, nil
}
