package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketline/ticketline/internal/domain"
)

// SalesRepository provides helpers for the append-only sales ledger.
type SalesRepository struct {
	pool *pgxpool.Pool
}

// SaleParams captures the payload required to record a sale.
type SaleParams struct {
	MovieID         int64
	CustomerName    string
	NumberOfTickets int
	Total           float64
	SaleTime        time.Time
}

// Insert appends a sale record and returns its id. Sales are never
// updated or deleted afterwards.
func (r *SalesRepository) Insert(ctx context.Context, params SaleParams) (int64, error) {
	const query = `
        INSERT INTO sales (movie_id, customer_name, number_of_tickets, total, sale_time)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id
    `
	var id int64
	err := db(ctx, r.pool).QueryRow(ctx, query,
		params.MovieID, params.CustomerName, params.NumberOfTickets, params.Total, params.SaleTime).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	return id, nil
}

// ListByMovie returns the ledger entries for one movie, oldest first.
// Entries survive deletion of the movie they reference.
func (r *SalesRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Sale, error) {
	const query = `
        SELECT id, movie_id, customer_name, number_of_tickets, total, sale_time
        FROM sales
        WHERE movie_id = $1
        ORDER BY id ASC
    `
	rows, err := db(ctx, r.pool).Query(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0)
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.MovieID, &sale.CustomerName, &sale.NumberOfTickets, &sale.Total, &sale.SaleTime); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}
