package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/horrordb/internal/domain"
)

var testLimits = Limits{MaxResults: 3, MaxQueryLength: 32}

func TestNew_Valid(t *testing.T) {
	r, err := New("  zombie apocalypse ", 0, testLimits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "zombie apocalypse" {
		t.Errorf("Query = %q", r.Query())
	}
	if r.Limit() != 3 {
		t.Errorf("Limit = %d, want 3", r.Limit())
	}
}

func TestNew_LimitClamping(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 3},
		{0, 3},
		{1, 1},
		{3, 3},
		{50, 3},
	}
	for _, tc := range tests {
		r, err := New("haunted house", tc.in, testLimits)
		if err != nil {
			t.Fatalf("limit %d: unexpected error: %v", tc.in, err)
		}
		if r.Limit() != tc.want {
			t.Errorf("limit %d: got %d, want %d", tc.in, r.Limit(), tc.want)
		}
	}
}

func TestNew_KeepsQuotes(t *testing.T) {
	r, err := New("it's alive", 0, testLimits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Query() != "it's alive" {
		t.Errorf("Query = %q", r.Query())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"blank", "   \t"},
		{"too long", strings.Repeat("a", 33)},
		{"invalid utf8", "bad\xff"},
		{"nul", "a\x00b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.query, 0, testLimits)
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Fatalf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestNew_LengthCountsCharacters(t *testing.T) {
	// 32 multi-byte runes fit even though they exceed 32 bytes.
	if _, err := New(strings.Repeat("ж", 32), 0, testLimits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_ZeroCap(t *testing.T) {
	_, err := New("x", 0, Limits{})
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}
