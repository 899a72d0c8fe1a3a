package leaguedomain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPlaces(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	members := []uuid.UUID{u1, u2, u3}

	t.Run("dense places on point ties", func(t *testing.T) {
		entries := []Entry{
			{UserID: u1, Points: 10},
			{UserID: u2, Points: 10},
			{UserID: u3, Points: 5},
		}

		placed := Places(entries, members)

		want := []PlacedEntry{
			{Entry: Entry{UserID: u1, Points: 10}, Place: 1},
			{Entry: Entry{UserID: u2, Points: 10}, Place: 1},
			{Entry: Entry{UserID: u3, Points: 5}, Place: 2},
		}
		if diff := cmp.Diff(want, placed); diff != "" {
			t.Errorf("Places() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("wins break point ties in order, not place", func(t *testing.T) {
		entries := []Entry{
			{UserID: u1, Points: 10, Wins: 0},
			{UserID: u2, Points: 10, Wins: 2},
		}

		placed := Places(entries, members)

		assert.Equal(t, u2, placed[0].UserID)
		assert.Equal(t, 1, placed[0].Place)
		assert.Equal(t, 1, placed[1].Place)
	})

	t.Run("member order breaks full ties", func(t *testing.T) {
		entries := []Entry{
			{UserID: u3, Points: 7},
			{UserID: u1, Points: 7},
		}

		placed := Places(entries, members)

		assert.Equal(t, u1, placed[0].UserID)
		assert.Equal(t, u3, placed[1].UserID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Places(nil, members))
	})

	t.Run("input is not mutated", func(t *testing.T) {
		entries := []Entry{
			{UserID: u3, Points: 1},
			{UserID: u1, Points: 9},
		}
		Places(entries, members)
		assert.Equal(t, u3, entries[0].UserID)
	})
}
