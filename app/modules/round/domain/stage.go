package rounddomain

import "time"

// Stage is the computed lifecycle phase of a round. It is derived on read from
// the round's schedule and the current submission/vote state, and is never
// persisted.
type Stage string

const (
	StageUpcoming Stage = "upcoming"
	// StageSubmission means the submission window is open and not everyone
	// has submitted yet.
	StageSubmission Stage = "submission"
	StageVoting     Stage = "voting"
	// StageCurrentUserVotingCompleted is a per-viewer refinement of voting:
	// the round is still open but this viewer has spent their whole budget.
	StageCurrentUserVotingCompleted Stage = "currentUserVotingCompleted"
	StageCompleted                  Stage = "completed"
	// StageUnknown is a reachable fallback, not a bug in itself. Callers
	// should log it rather than fail.
	StageUnknown Stage = "unknown"
)

// Schedule is a round's derived time windows. Only the submission start is
// stored; the rest is computed from the league's configured durations.
type Schedule struct {
	SubmissionStart   time.Time
	DaysForSubmission int
	DaysForVoting     int
}

// SubmissionEnd returns the end of the submission window.
func (s Schedule) SubmissionEnd() time.Time {
	return s.SubmissionStart.AddDate(0, 0, s.DaysForSubmission)
}

// VotingStart returns the nominal start of the voting window. Voting may open
// earlier if every member has already submitted.
func (s Schedule) VotingStart() time.Time {
	return s.SubmissionEnd()
}

// VotingEnd returns the end of the voting window.
func (s Schedule) VotingEnd() time.Time {
	return s.VotingStart().AddDate(0, 0, s.DaysForVoting)
}

// StageInput carries everything ResolveStage needs. Counts are for the round
// being resolved; ViewerPoints is the total points the viewing user has cast.
type StageInput struct {
	Schedule        Schedule
	MemberCount     int
	VotesPerRound   int
	SubmissionCount int
	TotalPoints     int
	ViewerPoints    int
	Now             time.Time
}

// ResolveStage computes a round's current stage. Rules are evaluated in order,
// first match wins:
//
//  1. everyone has spent their full budget -> completed
//  2. voting window has ended -> completed
//  3. submission window has not started -> upcoming
//  4. voting is open (window not ended AND everyone has submitted) -> voting,
//     or currentUserVotingCompleted when the viewer's budget is spent
//  5. inside the submission window -> submission
//  6. otherwise -> unknown
//
// Voting gates on the submission count, not the nominal voting start: it can
// open before the voting window if everyone submits early, and a round whose
// submission window lapses without full submissions sits in unknown until the
// voting window ends.
func ResolveStage(in StageInput) Stage {
	if in.MemberCount > 0 && in.VotesPerRound > 0 &&
		in.TotalPoints >= in.MemberCount*in.VotesPerRound {
		return StageCompleted
	}

	if in.Schedule.SubmissionStart.IsZero() {
		return StageUnknown
	}

	if !in.Now.Before(in.Schedule.VotingEnd()) {
		return StageCompleted
	}

	if in.Now.Before(in.Schedule.SubmissionStart) {
		return StageUpcoming
	}

	if in.votingOpen() {
		if in.ViewerPoints >= in.VotesPerRound {
			return StageCurrentUserVotingCompleted
		}
		return StageVoting
	}

	if !in.Now.Before(in.Schedule.SubmissionStart) && in.Now.Before(in.Schedule.SubmissionEnd()) {
		return StageSubmission
	}

	return StageUnknown
}

// votingOpen reports whether votes are currently accepted. Now is known to be
// before the voting end when this is called.
func (in StageInput) votingOpen() bool {
	return in.MemberCount > 0 && in.SubmissionCount >= in.MemberCount
}

// NextSubmissionStart chains a new round after the previous one: rounds run
// sequentially per league, so the next submission window opens when the
// previous round's voting ends. The first round starts with the league.
func NextSubmissionStart(leagueStart time.Time, prevVotingEnd *time.Time) time.Time {
	if prevVotingEnd == nil {
		return leagueStart
	}
	if prevVotingEnd.Before(leagueStart) {
		return leagueStart
	}
	return *prevVotingEnd
}
