package protocol

import (
	"errors"
	"testing"

	"github.com/ticketline/ticketline/internal/domain"
)

func TestParseRequestMalformed(t *testing.T) {
	for _, line := range []string{"{oops", "[]", `"sell"`, "12"} {
		if _, err := ParseRequest([]byte(line)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("ParseRequest(%q) error = %v, want ErrMalformed", line, err)
		}
	}
}

func TestParseRequestWrongFieldType(t *testing.T) {
	_, err := ParseRequest([]byte(`{"action":"add_movie","cinema_room":"three"}`))
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ParseRequest error = %v, want ValidationError", err)
	}
	if vErr.Field != "cinema_room" {
		t.Fatalf("ValidationError field = %s, want cinema_room", vErr.Field)
	}
}

func TestMovieParams(t *testing.T) {
	req, err := ParseRequest([]byte(`{"action":"add_movie","title":" Dune ","cinema_room":3,"tickets_available":50,"ticket_price":9.5}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	params, err := req.MovieParams()
	if err != nil {
		t.Fatalf("MovieParams: %v", err)
	}
	if params.Title != "Dune" {
		t.Fatalf("Title = %q, want trimmed %q", params.Title, "Dune")
	}
	if params.ReleaseDate != "" || params.EndDate != "" {
		t.Fatalf("dates should default to empty, got %q / %q", params.ReleaseDate, params.EndDate)
	}
	if params.CinemaRoom != 3 || params.TicketsAvailable != 50 || params.TicketPrice != 9.5 {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestMovieParamsValidation(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantField string
	}{
		{"missing title", `{"action":"add_movie","cinema_room":1,"tickets_available":10,"ticket_price":5}`, "title"},
		{"blank title", `{"action":"add_movie","title":"  ","cinema_room":1,"tickets_available":10,"ticket_price":5}`, "title"},
		{"missing room", `{"action":"add_movie","title":"X","tickets_available":10,"ticket_price":5}`, "cinema_room"},
		{"missing availability", `{"action":"add_movie","title":"X","cinema_room":1,"ticket_price":5}`, "tickets_available"},
		{"negative availability", `{"action":"add_movie","title":"X","cinema_room":1,"tickets_available":-1,"ticket_price":5}`, "tickets_available"},
		{"missing price", `{"action":"add_movie","title":"X","cinema_room":1,"tickets_available":10}`, "ticket_price"},
		{"negative price", `{"action":"add_movie","title":"X","cinema_room":1,"tickets_available":10,"ticket_price":-2}`, "ticket_price"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tc.line))
			if err != nil {
				t.Fatalf("ParseRequest: %v", err)
			}
			_, err = req.MovieParams()
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("MovieParams error = %v, want ValidationError", err)
			}
			if vErr.Field != tc.wantField {
				t.Fatalf("field = %s, want %s", vErr.Field, tc.wantField)
			}
		})
	}
}

func TestMovieIDParam(t *testing.T) {
	req, err := ParseRequest([]byte(`{"action":"delete_movie"}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	_, err = req.MovieIDParam()
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "id" {
		t.Fatalf("MovieIDParam error = %v, want ValidationError on id", err)
	}

	req, _ = ParseRequest([]byte(`{"action":"delete_movie","id":7}`))
	id, err := req.MovieIDParam()
	if err != nil || id != 7 {
		t.Fatalf("MovieIDParam = %d, %v, want 7, nil", id, err)
	}
}

func TestSellParams(t *testing.T) {
	req, err := ParseRequest([]byte(`{"action":"sell","movie_id":1,"customer_name":"Ada","number_of_tickets":2}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	movieID, customer, tickets, err := req.SellParams()
	if err != nil {
		t.Fatalf("SellParams: %v", err)
	}
	if movieID != 1 || customer != "Ada" || tickets != 2 {
		t.Fatalf("SellParams = %d %q %d", movieID, customer, tickets)
	}

	missing := []struct {
		line      string
		wantField string
	}{
		{`{"action":"sell","customer_name":"Ada","number_of_tickets":2}`, "movie_id"},
		{`{"action":"sell","movie_id":1,"number_of_tickets":2}`, "customer_name"},
		{`{"action":"sell","movie_id":1,"customer_name":" ","number_of_tickets":2}`, "customer_name"},
		{`{"action":"sell","movie_id":1,"customer_name":"Ada"}`, "number_of_tickets"},
	}
	for _, tc := range missing {
		req, err := ParseRequest([]byte(tc.line))
		if err != nil {
			t.Fatalf("ParseRequest(%q): %v", tc.line, err)
		}
		_, _, _, err = req.SellParams()
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) || vErr.Field != tc.wantField {
			t.Fatalf("SellParams(%q) error = %v, want ValidationError on %s", tc.line, err, tc.wantField)
		}
	}
}
