package leaguedomain

import (
	"github.com/google/uuid"

	votedomain "github.com/jas7457/playlist-party/app/modules/vote/domain"
)

// RoundResult is the vote/submission data of one completed round, the unit of
// standings aggregation.
type RoundResult struct {
	Votes       []votedomain.Vote
	Submissions []votedomain.Submission
}

// UserStanding is one user's aggregate line across a league's completed
// rounds.
type UserStanding struct {
	UserID uuid.UUID
	Points int
	Wins   int
	Place  int

	// BiggestFan gave this user the most points; BiggestCritic the fewest.
	// Both are nil until someone else has voted on this user's submissions.
	BiggestFan    *uuid.UUID
	BiggestCritic *uuid.UUID

	CorrectGuesses int
	TotalGuesses   int
}

// GuessAccuracy is the share of this user's submitter guesses that were
// correct, or 0 when they never guessed.
func (s UserStanding) GuessAccuracy() float64 {
	if s.TotalGuesses == 0 {
		return 0
	}
	return float64(s.CorrectGuesses) / float64(s.TotalGuesses)
}

// Conspirators is the pair of users exchanging the most mutual points.
type Conspirators struct {
	UserA  uuid.UUID
	UserB  uuid.UUID
	Points int
}

// ComputeStandings aggregates completed rounds into per-user standings plus
// the league's conspirator pair. All ties break on league member order, the
// same tiebreak Places uses.
func ComputeStandings(members []uuid.UUID, rounds []RoundResult) ([]UserStanding, *Conspirators) {
	if len(members) == 0 {
		return nil, nil
	}

	index := memberIndex(members)

	totals := make(map[uuid.UUID]int, len(members))
	wins := make(map[uuid.UUID]int, len(members))
	// given[voter][owner] accumulates points voter gave to owner's songs.
	given := make(map[uuid.UUID]map[uuid.UUID]int)
	correct := make(map[uuid.UUID]int)
	guesses := make(map[uuid.UUID]int)

	for _, round := range rounds {
		userPoints := votedomain.UserPoints(round.Votes, round.Submissions)
		for userID, p := range userPoints {
			totals[userID] += p
		}
		for _, winner := range votedomain.Winners(userPoints) {
			wins[winner]++
		}

		owners := make(map[uuid.UUID]uuid.UUID, len(round.Submissions))
		for _, sub := range round.Submissions {
			owners[sub.ID] = sub.UserID
		}
		for _, v := range round.Votes {
			owner, ok := owners[v.SubmissionID]
			if !ok {
				continue
			}
			if given[v.VoterID] == nil {
				given[v.VoterID] = make(map[uuid.UUID]int)
			}
			given[v.VoterID][owner] += v.Points

			if v.GuessedUser != nil {
				guesses[v.VoterID]++
				if *v.GuessedUser == owner {
					correct[v.VoterID]++
				}
			}
		}
	}

	entries := make([]Entry, 0, len(members))
	for _, userID := range members {
		entries = append(entries, Entry{
			UserID: userID,
			Points: totals[userID],
			Wins:   wins[userID],
		})
	}
	placed := Places(entries, members)

	standings := make([]UserStanding, len(placed))
	for i, p := range placed {
		standings[i] = UserStanding{
			UserID:         p.UserID,
			Points:         p.Points,
			Wins:           p.Wins,
			Place:          p.Place,
			BiggestFan:     extremeVoter(p.UserID, members, index, given, true),
			BiggestCritic:  extremeVoter(p.UserID, members, index, given, false),
			CorrectGuesses: correct[p.UserID],
			TotalGuesses:   guesses[p.UserID],
		}
	}

	return standings, conspirators(members, given)
}

// extremeVoter finds the other member who gave target the most (or fewest)
// points. Members who never voted on the target count as giving zero, matching
// how a silent member reads as a critic. Ties go to the earlier member.
func extremeVoter(target uuid.UUID, members []uuid.UUID, index map[uuid.UUID]int, given map[uuid.UUID]map[uuid.UUID]int, most bool) *uuid.UUID {
	voted := false
	for _, voter := range members {
		if voter != target && given[voter][target] > 0 {
			voted = true
			break
		}
	}
	if !voted {
		return nil
	}

	var best *uuid.UUID
	bestPoints := 0
	for _, voter := range members {
		if voter == target {
			continue
		}
		points := given[voter][target]
		if best == nil ||
			(most && points > bestPoints) ||
			(!most && points < bestPoints) {
			v := voter
			best = &v
			bestPoints = points
			continue
		}
		if points == bestPoints && index[voter] < index[*best] {
			v := voter
			best = &v
		}
	}
	return best
}

// conspirators returns the member pair exchanging the most mutual points, or
// nil when no points were exchanged. Ties go to the earliest pair in member
// order.
func conspirators(members []uuid.UUID, given map[uuid.UUID]map[uuid.UUID]int) *Conspirators {
	var best *Conspirators
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			a, b := members[i], members[j]
			mutual := given[a][b] + given[b][a]
			if mutual == 0 {
				continue
			}
			if best == nil || mutual > best.Points {
				best = &Conspirators{UserA: a, UserB: b, Points: mutual}
			}
		}
	}
	return best
}
