package votedomain

import "github.com/google/uuid"

// Vote is one user's point allocation toward one submission, with an optional
// guess at who submitted it.
type Vote struct {
	VoterID      uuid.UUID
	SubmissionID uuid.UUID
	Points       int
	GuessedUser  *uuid.UUID
}

// Submission is the minimal view scoring needs: which user owns which entry.
type Submission struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// UserPoints sums vote points per submission owner. Votes against unknown
// submissions are ignored.
func UserPoints(votes []Vote, submissions []Submission) map[uuid.UUID]int {
	owners := make(map[uuid.UUID]uuid.UUID, len(submissions))
	for _, sub := range submissions {
		owners[sub.ID] = sub.UserID
	}

	points := make(map[uuid.UUID]int)
	for _, v := range votes {
		owner, ok := owners[v.SubmissionID]
		if !ok {
			continue
		}
		points[owner] += v.Points
	}
	return points
}

// TotalPoints sums every point cast in the round.
func TotalPoints(votes []Vote) int {
	total := 0
	for _, v := range votes {
		total += v.Points
	}
	return total
}

// SpentByVoter sums each voter's spent points, for budget accounting.
func SpentByVoter(votes []Vote) map[uuid.UUID]int {
	spent := make(map[uuid.UUID]int)
	for _, v := range votes {
		spent[v.VoterID] += v.Points
	}
	return spent
}

// MaxPoints returns the highest per-user total in the round, or 0 when nobody
// scored.
func MaxPoints(userPoints map[uuid.UUID]int) int {
	max := 0
	for _, p := range userPoints {
		if p > max {
			max = p
		}
	}
	return max
}

// Winners returns every user whose round total equals the round maximum, when
// that maximum is positive. Ties at the top all count as wins.
func Winners(userPoints map[uuid.UUID]int) []uuid.UUID {
	max := MaxPoints(userPoints)
	if max <= 0 {
		return nil
	}
	var winners []uuid.UUID
	for userID, p := range userPoints {
		if p == max {
			winners = append(winners, userID)
		}
	}
	return winners
}
