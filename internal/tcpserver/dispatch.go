package tcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ticketline/ticketline/internal/cache"
	"github.com/ticketline/ticketline/internal/domain"
	"github.com/ticketline/ticketline/internal/protocol"
	"github.com/ticketline/ticketline/internal/repository"
	"github.com/ticketline/ticketline/internal/ticketing"
)

// Clients match on these strings, so they are part of the protocol
// surface.
const (
	msgInvalidRequest = "Invalid or empty request"
	msgUnknownAction  = "Unknown action"
	msgMovieAdded     = "Movie added"
	msgMovieUpdated   = "Movie updated"
	msgMovieDeleted   = "Movie deleted"
	msgMovieNotFound  = "Movie not found"
	msgIDNotFound     = "Movie id not found"
	msgStoreDown      = "Storage temporarily unavailable"
)

// Dispatcher maps a decoded request to the catalog or sale operation
// behind it and builds the response envelope. It is stateless between
// requests; every error is converted here so connection handlers never
// see one.
type Dispatcher struct {
	repo   *repository.Repository
	sales  *ticketing.Service
	movies *cache.MovieList
	logger *log.Logger
}

// NewDispatcher wires the dispatcher. movies may be nil to disable the
// listing cache.
func NewDispatcher(repo *repository.Repository, sales *ticketing.Service, movies *cache.MovieList, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{repo: repo, sales: sales, movies: movies, logger: logger}
}

// Dispatch decodes one request line and returns the encoded response
// line, always newline-terminated.
func (d *Dispatcher) Dispatch(ctx context.Context, line []byte) []byte {
	req, err := protocol.ParseRequest(line)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return encode(protocol.Error(vErr.Error()))
		}
		return encode(protocol.Error(msgInvalidRequest))
	}

	// A decodable object with no action tag ({} or null) is an empty
	// request to the client, not an unknown action.
	if req.Action == "" {
		return encode(protocol.Error(msgInvalidRequest))
	}

	switch req.Action {
	case protocol.ActionListMovies:
		return d.listMovies(ctx)
	case protocol.ActionAddMovie:
		return encode(d.addMovie(ctx, req))
	case protocol.ActionUpdateMovie:
		return encode(d.updateMovie(ctx, req))
	case protocol.ActionDeleteMovie:
		return encode(d.deleteMovie(ctx, req))
	case protocol.ActionSell:
		return encode(d.sell(ctx, req))
	default:
		return encode(protocol.Error(msgUnknownAction))
	}
}

func (d *Dispatcher) listMovies(ctx context.Context) []byte {
	cached, version, ok := d.movies.Get(ctx)
	if ok {
		return cached
	}

	movies, err := d.repo.Movies.List(ctx)
	if err != nil {
		d.logger.Printf("dispatch: list movies: %v", err)
		return encode(protocol.Error(msgStoreDown))
	}

	payload := encode(protocol.MovieList(movies))
	d.movies.Set(ctx, version, payload)
	return payload
}

func (d *Dispatcher) addMovie(ctx context.Context, req *protocol.Request) any {
	params, err := req.MovieParams()
	if err != nil {
		return d.errorResponse(err, msgIDNotFound)
	}
	if _, err := d.repo.Movies.Create(ctx, params); err != nil {
		d.logger.Printf("dispatch: add movie: %v", err)
		return protocol.Error(msgStoreDown)
	}
	d.movies.Invalidate(ctx)
	return protocol.OK(msgMovieAdded)
}

func (d *Dispatcher) updateMovie(ctx context.Context, req *protocol.Request) any {
	id, err := req.MovieIDParam()
	if err != nil {
		return d.errorResponse(err, msgIDNotFound)
	}
	params, err := req.MovieParams()
	if err != nil {
		return d.errorResponse(err, msgIDNotFound)
	}
	if err := d.repo.Movies.Update(ctx, id, params); err != nil {
		return d.errorResponse(err, msgIDNotFound)
	}
	d.movies.Invalidate(ctx)
	return protocol.OK(msgMovieUpdated)
}

func (d *Dispatcher) deleteMovie(ctx context.Context, req *protocol.Request) any {
	id, err := req.MovieIDParam()
	if err != nil {
		return d.errorResponse(err, msgIDNotFound)
	}
	if err := d.repo.Movies.Delete(ctx, id); err != nil {
		return d.errorResponse(err, msgIDNotFound)
	}
	d.movies.Invalidate(ctx)
	return protocol.OK(msgMovieDeleted)
}

func (d *Dispatcher) sell(ctx context.Context, req *protocol.Request) any {
	movieID, customer, tickets, err := req.SellParams()
	if err != nil {
		return d.errorResponse(err, msgMovieNotFound)
	}

	sale, err := d.sales.Sell(ctx, ticketing.SellInput{
		MovieID:         movieID,
		CustomerName:    customer,
		NumberOfTickets: tickets,
	})
	if err != nil {
		return d.errorResponse(err, msgMovieNotFound)
	}
	d.movies.Invalidate(ctx)
	return protocol.SaleSold(sale)
}

// errorResponse translates the error taxonomy into a wire envelope.
// notFoundMsg distinguishes the id-keyed admin actions from sell, which
// names the movie instead.
func (d *Dispatcher) errorResponse(err error, notFoundMsg string) protocol.StatusResponse {
	var vErr *domain.ValidationError
	var invErr *domain.InsufficientInventoryError
	switch {
	case errors.As(err, &vErr):
		return protocol.Error(vErr.Error())
	case errors.As(err, &invErr):
		return protocol.Error(fmt.Sprintf("Not enough tickets (available %d)", invErr.Available))
	case errors.Is(err, repository.ErrNotFound):
		return protocol.Error(notFoundMsg)
	default:
		d.logger.Printf("dispatch: %v", err)
		return protocol.Error(msgStoreDown)
	}
}

// encode marshals a response and appends the line delimiter. Response
// types contain nothing unmarshalable, so failures cannot occur outside
// programmer error; fall back to a plain error line if one does.
func encode(resp any) []byte {
	payload, err := json.Marshal(resp)
	if err != nil {
		payload = []byte(`{"status":"error","message":"Internal error"}`)
	}
	return append(payload, '\n')
}
