package leaguedomain

import (
	"sort"

	"github.com/google/uuid"
)

// Entry is one user's aggregate line in the standings before placement.
type Entry struct {
	UserID uuid.UUID
	Points int
	Wins   int
}

// PlacedEntry is an Entry annotated with its competition place.
type PlacedEntry struct {
	Entry
	Place int
}

// Places sorts entries by points desc, then wins desc, then league member
// order, and assigns dense competition places: entries with equal points share
// a place number, and the next distinct point value takes the next place
// (10, 10, 5 places as 1st, 1st, 2nd).
//
// The input is never mutated; an empty input returns nil.
func Places(entries []Entry, members []uuid.UUID) []PlacedEntry {
	if len(entries) == 0 {
		return nil
	}

	index := memberIndex(members)

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		if sorted[i].Wins != sorted[j].Wins {
			return sorted[i].Wins > sorted[j].Wins
		}
		return rank(index, sorted[i].UserID) < rank(index, sorted[j].UserID)
	})

	placed := make([]PlacedEntry, len(sorted))
	place := 1
	for i, entry := range sorted {
		if i > 0 && entry.Points != sorted[i-1].Points {
			place++
		}
		placed[i] = PlacedEntry{Entry: entry, Place: place}
	}
	return placed
}

// memberIndex maps each member to its position in the league's member list.
func memberIndex(members []uuid.UUID) map[uuid.UUID]int {
	index := make(map[uuid.UUID]int, len(members))
	for i, id := range members {
		index[id] = i
	}
	return index
}

// rank returns a user's member-list position; users missing from the list sort
// after every member, keeping the order deterministic.
func rank(index map[uuid.UUID]int, id uuid.UUID) int {
	if i, ok := index[id]; ok {
		return i
	}
	return len(index)
}
