package cache

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// Querier is the slice of pgxpool.Pool the Postgres store needs. Tests
// substitute a stub.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	qCacheUpsert = `insert into generation_cache(key, value, expires_at)
values ($1, $2, $3)
on conflict (key) do update set value = excluded.value, expires_at = excluded.expires_at`
	qCacheGet    = `select value, expires_at from generation_cache where key = $1`
	qCacheDelete = `delete from generation_cache where key = $1`
	qCacheClear  = `delete from generation_cache`
	qCacheSweep  = `delete from generation_cache where expires_at <= now()`
	qCacheCount  = `select count(*) from generation_cache`
)

// Postgres is a Store backed by a generation_cache table, for deployments
// that want memoization to survive restarts. Database failures are logged
// and treated as misses so cache operations keep their no-failure contract.
type Postgres struct {
	db         Querier
	logger     zerolog.Logger
	defaultTTL time.Duration
}

func NewPostgres(db Querier, logger zerolog.Logger, defaultTTL time.Duration) *Postgres {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Postgres{db: db, logger: logger, defaultTTL: defaultTTL}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool) {
	var value string
	var expiresAt time.Time
	err := p.db.QueryRow(ctx, qCacheGet, key).Scan(&value, &expiresAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			p.logger.Warn().Err(err).Msg("cache get failed, treating as miss")
		}
		return "", false
	}
	if !time.Now().Before(expiresAt) {
		p.Delete(ctx, key)
		return "", false
	}
	return value, true
}

func (p *Postgres) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = p.defaultTTL
	}
	if _, err := p.db.Exec(ctx, qCacheUpsert, key, value, time.Now().Add(ttl)); err != nil {
		p.logger.Warn().Err(err).Msg("cache set failed")
	}
}

func (p *Postgres) Delete(ctx context.Context, key string) {
	if _, err := p.db.Exec(ctx, qCacheDelete, key); err != nil {
		p.logger.Warn().Err(err).Msg("cache delete failed")
	}
}

func (p *Postgres) Clear(ctx context.Context) {
	if _, err := p.db.Exec(ctx, qCacheClear); err != nil {
		p.logger.Warn().Err(err).Msg("cache clear failed")
	}
}

func (p *Postgres) Sweep(ctx context.Context) int {
	tag, err := p.db.Exec(ctx, qCacheSweep)
	if err != nil {
		p.logger.Warn().Err(err).Msg("cache sweep failed")
		return 0
	}
	return int(tag.RowsAffected())
}

func (p *Postgres) Len(ctx context.Context) int {
	var count int
	if err := p.db.QueryRow(ctx, qCacheCount).Scan(&count); err != nil {
		p.logger.Warn().Err(err).Msg("cache count failed")
		return 0
	}
	return count
}

var _ Store = (*Postgres)(nil)
