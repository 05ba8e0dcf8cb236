package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketline/ticketline/internal/domain"
)

// MoviesRepository provides persistence helpers for the movie catalog.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    cinema_room,
    release_date,
    end_date,
    tickets_available,
    ticket_price
`

// MovieParams bundles the mutable fields of a movie. Create assigns a
// fresh id; Update replaces all of them on an existing row.
type MovieParams struct {
	Title            string
	CinemaRoom       int
	ReleaseDate      string
	EndDate          string
	TicketsAvailable int
	TicketPrice      float64
}

// SaleQuote carries the price and title frozen by TrySell while the row
// lock is held.
type SaleQuote struct {
	Title string
	Price float64
}

// List returns the whole catalog ordered by id ascending.
func (r *MoviesRepository) List(ctx context.Context) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY id ASC`, movieColumns)
	rows, err := db(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieParams) (domain.Movie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (title, cinema_room, release_date, end_date, tickets_available, ticket_price)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING %s
    `, movieColumns)

	row := db(ctx, r.pool).QueryRow(ctx, query,
		params.Title, params.CinemaRoom, params.ReleaseDate, params.EndDate,
		params.TicketsAvailable, params.TicketPrice)
	return scanMovie(row)
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	row := db(ctx, r.pool).QueryRow(ctx, query, id)
	movie, err := scanMovie(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// Update replaces every mutable field of the movie in one statement.
func (r *MoviesRepository) Update(ctx context.Context, id int64, params MovieParams) error {
	const query = `
        UPDATE movies
        SET title = $2,
            cinema_room = $3,
            release_date = $4,
            end_date = $5,
            tickets_available = $6,
            ticket_price = $7
        WHERE id = $1
    `
	tag, err := db(ctx, r.pool).Exec(ctx, query, id,
		params.Title, params.CinemaRoom, params.ReleaseDate, params.EndDate,
		params.TicketsAvailable, params.TicketPrice)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a movie. Historical sales keep their movie_id reference.
func (r *MoviesRepository) Delete(ctx context.Context, id int64) error {
	tag, err := db(ctx, r.pool).Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TrySell is the atomic sale primitive: it locks the movie row, checks
// availability and decrements it, returning the price and title frozen
// under the lock. The row lock serializes concurrent TrySell, Update and
// Delete calls on the same movie id; other ids proceed in parallel.
// Callers compose it with SalesRepository.Insert inside Repository.WithTx.
func (r *MoviesRepository) TrySell(ctx context.Context, movieID int64, requested int) (SaleQuote, error) {
	q := db(ctx, r.pool)

	var (
		available int
		quote     SaleQuote
	)
	const lockQuery = `
        SELECT tickets_available, ticket_price, title
        FROM movies
        WHERE id = $1
        FOR UPDATE
    `
	err := q.QueryRow(ctx, lockQuery, movieID).Scan(&available, &quote.Price, &quote.Title)
	if err != nil {
		if err == pgx.ErrNoRows {
			return SaleQuote{}, ErrNotFound
		}
		return SaleQuote{}, fmt.Errorf("lock movie: %w", err)
	}

	if requested > available {
		return SaleQuote{}, &domain.InsufficientInventoryError{Available: available}
	}

	const decQuery = `UPDATE movies SET tickets_available = tickets_available - $2 WHERE id = $1`
	if _, err := q.Exec(ctx, decQuery, movieID, requested); err != nil {
		return SaleQuote{}, fmt.Errorf("decrement tickets: %w", err)
	}
	return quote, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.CinemaRoom,
		&movie.ReleaseDate,
		&movie.EndDate,
		&movie.TicketsAvailable,
		&movie.TicketPrice,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
