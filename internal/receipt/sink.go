// Package receipt durably records committed sales outside the catalog
// store, one document per sale. Failures here are reported to the
// caller for logging but never undo a sale.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Details is the frozen sale summary a receipt is rendered from.
type Details struct {
	MovieID  int64
	Title    string
	Customer string
	Tickets  int
	Total    float64
	Time     time.Time
}

// Sink writes one receipt per committed sale and returns an opaque
// identifier for it.
type Sink interface {
	Write(d Details) (string, error)
}

// FileSink renders receipts as text files in a directory, keyed by sale
// time and movie id.
type FileSink struct {
	dir string
}

// NewFileSink creates the receipt directory if needed.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Write renders the receipt and returns its path.
func (s *FileSink) Write(d Details) (string, error) {
	name := fmt.Sprintf("receipt_%s_%d.txt", d.Time.Format("20060102150405"), d.MovieID)
	path := filepath.Join(s.dir, name)

	body := fmt.Sprintf(
		"CINEMA RECEIPT\nMovie: %s\nCustomer: %s\nTickets: %d\nTotal: %.2f\nTime: %s\n",
		d.Title, d.Customer, d.Tickets, d.Total, d.Time.Format("2006-01-02 15:04:05"))

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
