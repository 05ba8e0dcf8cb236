package receipt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileSinkWrite(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	soldAt := time.Date(2025, 6, 14, 18, 30, 5, 0, time.UTC)
	path, err := sink.Write(Details{
		MovieID:  7,
		Title:    "The Matrix",
		Customer: "Ada",
		Tickets:  3,
		Total:    360,
		Time:     soldAt,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if got := filepath.Base(path); got != "receipt_20250614183005_7.txt" {
		t.Fatalf("file name = %s", got)
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	want := "CINEMA RECEIPT\n" +
		"Movie: The Matrix\n" +
		"Customer: Ada\n" +
		"Tickets: 3\n" +
		"Total: 360.00\n" +
		"Time: 2025-06-14 18:30:05\n"
	if string(payload) != want {
		t.Fatalf("receipt contents:\n%s\nwant:\n%s", payload, want)
	}
}

func TestNewFileSinkCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "receipts")
	if _, err := NewFileSink(dir); err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("receipt dir not created: %v", err)
	}
}

func TestFileSinkWriteErrorHasContext(t *testing.T) {
	sink := &FileSink{dir: filepath.Join(t.TempDir(), "missing")}
	_, err := sink.Write(Details{MovieID: 1, Title: "X", Time: time.Now()})
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "write receipt") {
		t.Fatalf("error = %v", err)
	}
}
