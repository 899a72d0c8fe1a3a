package notificationdomain

import "github.com/google/uuid"

// Trigger is one notification decision: a code and the users owed it.
// Deciding is pure; delivering is somebody else's job.
type Trigger struct {
	Code    Code
	UserIDs []uuid.UUID
}

// ParticipationState is a snapshot of which league members have completed an
// action for a round: submitted their song, or spent their full vote budget.
type ParticipationState struct {
	Members []uuid.UUID
	Done    map[uuid.UUID]bool
}

func (s ParticipationState) doneCount() int {
	count := 0
	for _, m := range s.Members {
		if s.Done[m] {
			count++
		}
	}
	return count
}

func (s ParticipationState) pending() []uuid.UUID {
	var pending []uuid.UUID
	for _, m := range s.Members {
		if !s.Done[m] {
			pending = append(pending, m)
		}
	}
	return pending
}

func (s ParticipationState) allDone() bool {
	return len(s.Members) > 0 && s.doneCount() == len(s.Members)
}

func (s ParticipationState) halfDone() bool {
	return 2*s.doneCount() >= len(s.Members)
}

// SubmissionTriggers decides which notifications fire for a submission-side
// transition. At most one rule fires, and each only on the edge — re-running
// an already-crossed state returns nothing:
//
//   - every member has now submitted -> VOTING.STARTED to all members
//   - exactly one member left -> SUBMISSIONS.LAST_TO_SUBMIT to that member
//   - crossed the 50% threshold -> SUBMISSIONS.HALF_SUBMITTED to the
//     still-unsubmitted members
func SubmissionTriggers(before, after ParticipationState) []Trigger {
	if after.allDone() {
		if before.allDone() {
			return nil
		}
		return []Trigger{{Code: CodeVotingStarted, UserIDs: after.Members}}
	}

	if pending := after.pending(); len(pending) == 1 {
		if len(before.pending()) == 1 {
			return nil
		}
		return []Trigger{{Code: CodeLastToSubmit, UserIDs: pending}}
	}

	if after.halfDone() && !before.halfDone() {
		return []Trigger{{Code: CodeHalfSubmitted, UserIDs: after.pending()}}
	}

	return nil
}

// VoteContext carries the league-level facts the vote-side rules need beyond
// the participation snapshot.
type VoteContext struct {
	// LastRound marks the round as the league's final one, upgrading a
	// completion into a league completion.
	LastRound bool
	// PendingRoundCreators are members still owed a round of their own, in
	// league order. The first three are nudged when a round completes.
	PendingRoundCreators []uuid.UUID
}

// VoteTriggers mirrors SubmissionTriggers for the voting side. "Done" here
// means the member has spent their full vote budget.
//
//   - everyone finished voting -> ROUND.COMPLETED to all members, plus
//     LEAGUE.COMPLETED when it was the league's last round, plus
//     ROUND.REMINDER to up to the next three pending round creators
//   - exactly one voter left -> ROUND.LAST_TO_VOTE to that member
//   - crossed the 50% threshold -> ROUND.HALF_VOTED to members still voting
func VoteTriggers(before, after ParticipationState, vctx VoteContext) []Trigger {
	if after.allDone() {
		if before.allDone() {
			return nil
		}
		triggers := []Trigger{{Code: CodeRoundCompleted, UserIDs: after.Members}}
		if vctx.LastRound {
			triggers = append(triggers, Trigger{Code: CodeLeagueCompleted, UserIDs: after.Members})
		}
		if creators := vctx.PendingRoundCreators; len(creators) > 0 {
			if len(creators) > 3 {
				creators = creators[:3]
			}
			triggers = append(triggers, Trigger{Code: CodeRoundReminder, UserIDs: creators})
		}
		return triggers
	}

	if pending := after.pending(); len(pending) == 1 {
		if len(before.pending()) == 1 {
			return nil
		}
		return []Trigger{{Code: CodeRoundLastToVote, UserIDs: pending}}
	}

	if after.halfDone() && !before.halfDone() {
		return []Trigger{{Code: CodeRoundHalfVoted, UserIDs: after.pending()}}
	}

	return nil
}
