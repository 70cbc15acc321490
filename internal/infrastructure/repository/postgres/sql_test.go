package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get user: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation users does not exist")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Fatalf("expected unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("expected false for foreign key violation")
	}
}

func TestTimesRoundTrip(t *testing.T) {
	raw, err := encodeTimes(nil)
	if err != nil || string(raw) != "{}" {
		t.Fatalf("empty times must encode as {}, got %q err=%v", raw, err)
	}

	decoded, err := decodeTimes([]byte(`{"c1":1694426400}`))
	if err != nil {
		t.Fatalf("decode times: %v", err)
	}
	if decoded["c1"] != 1694426400 {
		t.Fatalf("unexpected decoded value: %v", decoded)
	}

	if _, err := decodeTimes([]byte(`not-json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
