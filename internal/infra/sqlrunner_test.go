package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestExtractMarker(t *testing.T) {
	cases := []struct {
		name    string
		query   string
		marker  string
		body    string
		wantErr bool
	}{
		{
			name:   "valid",
			query:  "\n--sql 0b7d3c1e-8f4a-4d2b-9c61-2f5e8a7d4b10\nSELECT 1\n",
			marker: "0b7d3c1e-8f4a-4d2b-9c61-2f5e8a7d4b10",
			body:   "SELECT 1",
		},
		{name: "missing", query: "SELECT 1", wantErr: true},
		{name: "uppercase uuid", query: "--sql 0B7D3C1E-8F4A-4D2B-9C61-2F5E8A7D4B10\nSELECT 1", wantErr: true},
		{name: "empty", query: "   ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := ExtractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if marker != tc.marker {
				t.Fatalf("marker = %q, want %q", marker, tc.marker)
			}
			if body != tc.body {
				t.Fatalf("body = %q, want %q", body, tc.body)
			}
		})
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to match")
	}
	if IsNoRows(errors.New("other")) {
		t.Fatalf("unexpected match")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation must not match")
	}
}

func TestErrorRowScan(t *testing.T) {
	row := errorRow{err: ErrMissingMarker}
	var s string
	if err := row.Scan(&s); !errors.Is(err, ErrMissingMarker) {
		t.Fatalf("expected marker error, got %v", err)
	}
}
