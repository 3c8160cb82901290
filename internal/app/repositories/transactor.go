package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edulearn/backend/internal/db"
)

type pgTransactor struct {
	pool *pgxpool.Pool
}

// WithinTransaction rebinds every repository to a single pgx.Tx
func (t *pgTransactor) WithinTransaction(ctx context.Context, _ *Repositories, fn TxFunc) error {
	return db.WithTransaction(ctx, t.pool, func(ctx context.Context, tx pgx.Tx) error {
		txRepos := newRepositories(tx)
		txRepos.Tx = nestedTransactor{}
		return fn(ctx, txRepos)
	})
}

// nestedTransactor joins the already open transaction
type nestedTransactor struct{}

func (nestedTransactor) WithinTransaction(ctx context.Context, repos *Repositories, fn TxFunc) error {
	return fn(ctx, repos)
}
