package domain

import "time"

// Movie represents one sellable inventory unit: a screening slot in a
// cinema room with a remaining ticket count and a price per ticket.
// ReleaseDate and EndDate are stored as opaque date strings and may be
// empty.
type Movie struct {
	ID               int64
	Title            string
	CinemaRoom       int
	ReleaseDate      string
	EndDate          string
	TicketsAvailable int
	TicketPrice      float64
}

// Sale is one entry in the append-only sales ledger. Total is frozen at
// sale time; MovieID is a historical reference and may point at a movie
// that has since been deleted.
type Sale struct {
	ID              int64
	MovieID         int64
	CustomerName    string
	NumberOfTickets int
	Total           float64
	SaleTime        time.Time
}
