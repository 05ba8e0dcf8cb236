// Package protocol defines the newline-delimited JSON wire contract:
// request decoding, strict per-action validation, and the response
// envelopes. Every request is a single JSON object carrying an action
// tag; every response carries status ok|error plus a human-readable
// message and action-specific payload.
package protocol

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ticketline/ticketline/internal/domain"
	"github.com/ticketline/ticketline/internal/repository"
)

// Action tags understood by the dispatcher.
const (
	ActionListMovies  = "list_movies"
	ActionAddMovie    = "add_movie"
	ActionUpdateMovie = "update_movie"
	ActionDeleteMovie = "delete_movie"
	ActionSell        = "sell"
)

// ErrMalformed indicates bytes that do not decode as a JSON object.
var ErrMalformed = errors.New("malformed request")

// Request is the superset of all action payloads. Fields are pointers
// so presence can be validated per action before business logic runs.
type Request struct {
	Action           string   `json:"action"`
	ID               *int64   `json:"id"`
	Title            *string  `json:"title"`
	CinemaRoom       *int     `json:"cinema_room"`
	ReleaseDate      *string  `json:"release_date"`
	EndDate          *string  `json:"end_date"`
	TicketsAvailable *int     `json:"tickets_available"`
	TicketPrice      *float64 `json:"ticket_price"`
	MovieID          *int64   `json:"movie_id"`
	CustomerName     *string  `json:"customer_name"`
	NumberOfTickets  *int     `json:"number_of_tickets"`
}

// ParseRequest decodes one request line. Syntax failures map to
// ErrMalformed; a field of the wrong JSON type maps to a
// ValidationError naming that field.
func ParseRequest(line []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, &domain.ValidationError{Field: typeErr.Field, Reason: "has the wrong type"}
		}
		return nil, ErrMalformed
	}
	return &req, nil
}

// MovieParams validates the fields shared by add_movie and update_movie
// and converts them to repository parameters. release_date and end_date
// default to empty strings when absent.
func (r *Request) MovieParams() (repository.MovieParams, error) {
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		return repository.MovieParams{}, &domain.ValidationError{Field: "title", Reason: "is required"}
	}
	if r.CinemaRoom == nil {
		return repository.MovieParams{}, &domain.ValidationError{Field: "cinema_room", Reason: "is required"}
	}
	if r.TicketsAvailable == nil {
		return repository.MovieParams{}, &domain.ValidationError{Field: "tickets_available", Reason: "is required"}
	}
	if *r.TicketsAvailable < 0 {
		return repository.MovieParams{}, &domain.ValidationError{Field: "tickets_available", Reason: "must be >= 0"}
	}
	if r.TicketPrice == nil {
		return repository.MovieParams{}, &domain.ValidationError{Field: "ticket_price", Reason: "is required"}
	}
	if *r.TicketPrice < 0 {
		return repository.MovieParams{}, &domain.ValidationError{Field: "ticket_price", Reason: "must be >= 0"}
	}

	params := repository.MovieParams{
		Title:            strings.TrimSpace(*r.Title),
		CinemaRoom:       *r.CinemaRoom,
		TicketsAvailable: *r.TicketsAvailable,
		TicketPrice:      *r.TicketPrice,
	}
	if r.ReleaseDate != nil {
		params.ReleaseDate = *r.ReleaseDate
	}
	if r.EndDate != nil {
		params.EndDate = *r.EndDate
	}
	return params, nil
}

// MovieIDParam validates the id field required by update_movie and
// delete_movie.
func (r *Request) MovieIDParam() (int64, error) {
	if r.ID == nil {
		return 0, &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	return *r.ID, nil
}

// SellParams validates the fields of a sell request. The positive
// ticket count is enforced by the sale transaction itself.
func (r *Request) SellParams() (movieID int64, customer string, tickets int, err error) {
	if r.MovieID == nil {
		return 0, "", 0, &domain.ValidationError{Field: "movie_id", Reason: "is required"}
	}
	if r.CustomerName == nil || strings.TrimSpace(*r.CustomerName) == "" {
		return 0, "", 0, &domain.ValidationError{Field: "customer_name", Reason: "is required"}
	}
	if r.NumberOfTickets == nil {
		return 0, "", 0, &domain.ValidationError{Field: "number_of_tickets", Reason: "is required"}
	}
	return *r.MovieID, strings.TrimSpace(*r.CustomerName), *r.NumberOfTickets, nil
}
