package ids

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestNew_SortsByCreation(t *testing.T) {
	prev := New()
	for range 100 {
		next := New()
		if next <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestAt_EncodesTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	id, err := ulid.Parse(At(ts))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := ulid.Time(id.Time()); !got.Equal(ts) {
		t.Fatalf("expected %s, got %s", ts, got)
	}
}
