package notificationdomain

// Code identifies a notification as consumed by the delivery collaborators
// (push/email/SMS workers and the real-time channel).
type Code string

const (
	CodeVotingStarted       Code = "VOTING.STARTED"
	CodeVotingReminder      Code = "VOTING.REMINDER"
	CodeSubmissionReminder  Code = "SUBMISSION.REMINDER"
	CodeHalfSubmitted       Code = "SUBMISSIONS.HALF_SUBMITTED"
	CodeLastToSubmit        Code = "SUBMISSIONS.LAST_TO_SUBMIT"
	CodeRoundReminder       Code = "ROUND.REMINDER"
	CodeRoundStarted        Code = "ROUND.STARTED"
	CodeRoundCompleted      Code = "ROUND.COMPLETED"
	CodeRoundHalfVoted      Code = "ROUND.HALF_VOTED"
	CodeRoundLastToVote     Code = "ROUND.LAST_TO_VOTE"
	CodeLeagueCompleted     Code = "LEAGUE.COMPLETED"
	CodeNotificationForce   Code = "NOTIFICATION.FORCE"
)

// AllCodes lists every notification code, used to build default preference
// sets for new users.
var AllCodes = []Code{
	CodeVotingStarted,
	CodeVotingReminder,
	CodeSubmissionReminder,
	CodeHalfSubmitted,
	CodeLastToSubmit,
	CodeRoundReminder,
	CodeRoundStarted,
	CodeRoundCompleted,
	CodeRoundHalfVoted,
	CodeRoundLastToVote,
	CodeLeagueCompleted,
	CodeNotificationForce,
}
