package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketline/ticketline/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies *MoviesRepository
	Sales  *SalesRepository

	pool *pgxpool.Pool
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies: &MoviesRepository{pool: pool},
		Sales:  &SalesRepository{pool: pool},
		pool:   pool,
	}
}

// WithTx runs fn inside a single database transaction. Repository calls
// made with the context passed to fn share that transaction, so an
// inventory decrement and its ledger insert commit or roll back as one
// unit.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// TrySell exposes the atomic check-and-decrement primitive at the
// aggregate level for the sale transaction service.
func (r *Repository) TrySell(ctx context.Context, movieID int64, requested int) (SaleQuote, error) {
	return r.Movies.TrySell(ctx, movieID, requested)
}

// RecordSale appends a ledger entry for a committed decrement.
func (r *Repository) RecordSale(ctx context.Context, params SaleParams) (int64, error) {
	return r.Sales.Insert(ctx, params)
}
