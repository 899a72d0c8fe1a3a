package voteservice

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationdb "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/repositories"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	userdb "github.com/jas7457/playlist-party/app/modules/user/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

// FakeDB satisfies TxRunner by running the function against an empty bun.Tx.
// Repository fakes ignore the db parameter, so this is enough.
type FakeDB struct{}

func (f *FakeDB) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

// FakeVoteRepo is an in-memory votedb.Repository keyed on
// (submission, voter).
type FakeVoteRepo struct {
	votes map[string]votedb.Vote

	UpsertErr error
	ListErr   error
}

func NewFakeVoteRepo() *FakeVoteRepo {
	return &FakeVoteRepo{votes: make(map[string]votedb.Vote)}
}

func voteKey(submissionID, userID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", submissionID, userID)
}

// Seed stores a vote directly, assigning an id if missing.
func (f *FakeVoteRepo) Seed(vote votedb.Vote) {
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	f.votes[voteKey(vote.SubmissionID, vote.UserID)] = vote
}

func (f *FakeVoteRepo) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]votedb.Vote, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []votedb.Vote
	for _, v := range f.votes {
		if v.RoundID == roundID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *FakeVoteRepo) ListByRoundAndUserForUpdate(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]votedb.Vote, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []votedb.Vote
	for _, v := range f.votes {
		if v.RoundID == roundID && v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *FakeVoteRepo) Get(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) (*votedb.Vote, error) {
	v, ok := f.votes[voteKey(submissionID, userID)]
	if !ok {
		return nil, votedb.ErrNotFound
	}
	return &v, nil
}

func (f *FakeVoteRepo) Upsert(ctx context.Context, db bun.IDB, vote *votedb.Vote) error {
	if f.UpsertErr != nil {
		return f.UpsertErr
	}
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	f.votes[voteKey(vote.SubmissionID, vote.UserID)] = *vote
	return nil
}

func (f *FakeVoteRepo) Delete(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) error {
	delete(f.votes, voteKey(submissionID, userID))
	return nil
}

// FakeRoundRepo is a programmable rounddb.Repository.
type FakeRoundRepo struct {
	GetByIDFunc            func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
	ListByLeagueFunc       func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]rounddb.Round, error)
	CreateFunc             func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	GetLatestScheduledFunc func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*rounddb.Round, error)
	SetPlaylistIDFunc      func(ctx context.Context, db bun.IDB, roundID uuid.UUID, playlistID string) error
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) ListByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]rounddb.Round, error) {
	if f.ListByLeagueFunc != nil {
		return f.ListByLeagueFunc(ctx, db, leagueID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepo) GetLatestScheduled(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*rounddb.Round, error) {
	if f.GetLatestScheduledFunc != nil {
		return f.GetLatestScheduledFunc(ctx, db, leagueID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) SetPlaylistID(ctx context.Context, db bun.IDB, roundID uuid.UUID, playlistID string) error {
	if f.SetPlaylistIDFunc != nil {
		return f.SetPlaylistIDFunc(ctx, db, roundID, playlistID)
	}
	return nil
}

// FakeLeagueRepo is a programmable leaguedb.Repository.
type FakeLeagueRepo struct {
	GetByIDFunc     func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error)
	CreateFunc      func(ctx context.Context, db bun.IDB, league *leaguedb.League) error
	ListForUserFunc func(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]leaguedb.League, error)
	AddMemberFunc   func(ctx context.Context, db bun.IDB, leagueID, userID uuid.UUID) error
}

func (f *FakeLeagueRepo) GetByID(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, leagueID)
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) Create(ctx context.Context, db bun.IDB, league *leaguedb.League) error {
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, league)
	}
	return nil
}

func (f *FakeLeagueRepo) ListForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]leaguedb.League, error) {
	if f.ListForUserFunc != nil {
		return f.ListForUserFunc(ctx, db, userID)
	}
	return nil, nil
}

func (f *FakeLeagueRepo) AddMember(ctx context.Context, db bun.IDB, leagueID, userID uuid.UUID) error {
	if f.AddMemberFunc != nil {
		return f.AddMemberFunc(ctx, db, leagueID, userID)
	}
	return nil
}

// FakeSubmissionRepo is a programmable submissiondb.Repository.
type FakeSubmissionRepo struct {
	ListByRoundFunc       func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]submissiondb.Submission, error)
	GetByRoundAndUserFunc func(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) (*submissiondb.Submission, error)
	CountByRoundFunc      func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error)
	UpsertFunc            func(ctx context.Context, db bun.IDB, submission *submissiondb.Submission) error
	DeleteFunc            func(ctx context.Context, db bun.IDB, submissionID uuid.UUID) error
}

func (f *FakeSubmissionRepo) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]submissiondb.Submission, error) {
	if f.ListByRoundFunc != nil {
		return f.ListByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeSubmissionRepo) GetByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) (*submissiondb.Submission, error) {
	if f.GetByRoundAndUserFunc != nil {
		return f.GetByRoundAndUserFunc(ctx, db, roundID, userID)
	}
	return nil, submissiondb.ErrNotFound
}

func (f *FakeSubmissionRepo) CountByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error) {
	if f.CountByRoundFunc != nil {
		return f.CountByRoundFunc(ctx, db, roundID)
	}
	return 0, nil
}

func (f *FakeSubmissionRepo) Upsert(ctx context.Context, db bun.IDB, submission *submissiondb.Submission) error {
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, submission)
	}
	return nil
}

func (f *FakeSubmissionRepo) Delete(ctx context.Context, db bun.IDB, submissionID uuid.UUID) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, submissionID)
	}
	return nil
}

// FakeUserRepo is a programmable userdb.Repository.
type FakeUserRepo struct {
	GetByIDFunc  func(ctx context.Context, db bun.IDB, userID uuid.UUID) (*userdb.User, error)
	GetByIDsFunc func(ctx context.Context, db bun.IDB, userIDs []uuid.UUID) ([]userdb.User, error)
}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*userdb.User, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, userID)
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) GetByIDs(ctx context.Context, db bun.IDB, userIDs []uuid.UUID) ([]userdb.User, error) {
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, db, userIDs)
	}
	return nil, nil
}

func (f *FakeUserRepo) Upsert(ctx context.Context, db bun.IDB, user *userdb.User) error {
	return nil
}

func (f *FakeUserRepo) UpdatePreferences(ctx context.Context, db bun.IDB, userID uuid.UUID, preferences map[string]bool) error {
	return nil
}

// FakeNotificationRepo is a programmable notificationdb.Repository.
type FakeNotificationRepo struct {
	Cancelled []uuid.UUID
}

func (f *FakeNotificationRepo) Create(ctx context.Context, db bun.IDB, n *notificationdb.ScheduledNotification) error {
	return nil
}

func (f *FakeNotificationRepo) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*notificationdb.ScheduledNotification, error) {
	return nil, notificationdb.ErrNotFound
}

func (f *FakeNotificationRepo) ListPendingByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]notificationdb.ScheduledNotification, error) {
	return nil, nil
}

func (f *FakeNotificationRepo) SetStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status notificationdb.Status) error {
	return nil
}

func (f *FakeNotificationRepo) CancelPendingByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) error {
	f.Cancelled = append(f.Cancelled, roundID)
	return nil
}

// FakeEventBus records published messages and drops everything else.
type FakeEventBus struct {
	Published []*message.Message
}

func (f *FakeEventBus) Publish(ctx context.Context, streamName string, msg *message.Message) error {
	f.Published = append(f.Published, msg)
	return nil
}

func (f *FakeEventBus) CreateStream(ctx context.Context, streamName string, subject string) error {
	return nil
}

func (f *FakeEventBus) Close() error {
	return nil
}
