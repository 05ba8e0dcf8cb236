package protocol

import (
	"github.com/ticketline/ticketline/internal/domain"
	"github.com/ticketline/ticketline/internal/ticketing"
)

// Movie is the wire representation of a catalog entry.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	CinemaRoom       int     `json:"cinema_room"`
	ReleaseDate      string  `json:"release_date"`
	EndDate          string  `json:"end_date"`
	TicketsAvailable int     `json:"tickets_available"`
	TicketPrice      float64 `json:"ticket_price"`
}

// SaleSummary is the wire representation of a committed sale.
type SaleSummary struct {
	MovieID  int64   `json:"movie_id"`
	Title    string  `json:"title"`
	Customer string  `json:"customer"`
	Tickets  int     `json:"tickets"`
	Total    float64 `json:"total"`
}

// StatusResponse is the envelope for actions whose payload is just an
// outcome message, and for every error.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MovieListResponse is the list_movies payload. Movies is always
// present, empty when the catalog is.
type MovieListResponse struct {
	Status string  `json:"status"`
	Movies []Movie `json:"movies"`
}

// SellResponse is the sell payload: the sale summary plus the opaque
// receipt identifier.
type SellResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Sale    SaleSummary `json:"sale"`
	Receipt string      `json:"receipt"`
}

// OK builds a success status envelope.
func OK(message string) StatusResponse {
	return StatusResponse{Status: "ok", Message: message}
}

// Error builds an error status envelope.
func Error(message string) StatusResponse {
	return StatusResponse{Status: "error", Message: message}
}

// MovieList converts catalog entries into the listing response.
func MovieList(movies []domain.Movie) MovieListResponse {
	items := make([]Movie, 0, len(movies))
	for _, m := range movies {
		items = append(items, Movie{
			ID:               m.ID,
			Title:            m.Title,
			CinemaRoom:       m.CinemaRoom,
			ReleaseDate:      m.ReleaseDate,
			EndDate:          m.EndDate,
			TicketsAvailable: m.TicketsAvailable,
			TicketPrice:      m.TicketPrice,
		})
	}
	return MovieListResponse{Status: "ok", Movies: items}
}

// SaleSold converts a committed sale into the sell response.
func SaleSold(sale ticketing.SaleSummary) SellResponse {
	return SellResponse{
		Status:  "ok",
		Message: "Tickets sold",
		Sale: SaleSummary{
			MovieID:  sale.MovieID,
			Title:    sale.Title,
			Customer: sale.Customer,
			Tickets:  sale.Tickets,
			Total:    sale.Total,
		},
		Receipt: sale.ReceiptPath,
	}
}
