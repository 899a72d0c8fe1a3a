package submissionservice

import (
	"context"
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

// FakeSubmissionStore is an in-memory submissiondb.Repository keyed on
// (round, user).
type FakeSubmissionStore struct {
	rows map[string]submissiondb.Submission

	// ConflictOnUpsert injects a competing row right before each Upsert,
	// simulating a concurrent submit landing first.
	ConflictOnUpsert func() *submissiondb.Submission
}

func NewFakeSubmissionStore() *FakeSubmissionStore {
	return &FakeSubmissionStore{rows: make(map[string]submissiondb.Submission)}
}

func subKey(roundID, userID uuid.UUID) string {
	return fmt.Sprintf("%s|%s", roundID, userID)
}

func (f *FakeSubmissionStore) Seed(sub submissiondb.Submission) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.rows[subKey(sub.RoundID, sub.UserID)] = sub
}

func (f *FakeSubmissionStore) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]submissiondb.Submission, error) {
	var out []submissiondb.Submission
	for _, sub := range f.rows {
		if sub.RoundID == roundID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *FakeSubmissionStore) GetByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) (*submissiondb.Submission, error) {
	sub, ok := f.rows[subKey(roundID, userID)]
	if !ok {
		return nil, submissiondb.ErrNotFound
	}
	return &sub, nil
}

func (f *FakeSubmissionStore) CountByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error) {
	subs, _ := f.ListByRound(ctx, db, roundID)
	return len(subs), nil
}

func (f *FakeSubmissionStore) Upsert(ctx context.Context, db bun.IDB, submission *submissiondb.Submission) error {
	if f.ConflictOnUpsert != nil {
		if competing := f.ConflictOnUpsert(); competing != nil {
			f.Seed(*competing)
		}
		f.ConflictOnUpsert = nil
	}
	if existing, ok := f.rows[subKey(submission.RoundID, submission.UserID)]; ok {
		submission.ID = existing.ID
	}
	if submission.ID == uuid.Nil {
		submission.ID = uuid.New()
	}
	f.rows[subKey(submission.RoundID, submission.UserID)] = *submission
	return nil
}

func (f *FakeSubmissionStore) Delete(ctx context.Context, db bun.IDB, submissionID uuid.UUID) error {
	for key, sub := range f.rows {
		if sub.ID == submissionID {
			delete(f.rows, key)
			return nil
		}
	}
	return nil
}

// FakeOnDeckStore is an in-memory submissiondb.OnDeckRepository.
type FakeOnDeckStore struct {
	rows []submissiondb.OnDeckSubmission
}

func (f *FakeOnDeckStore) Seed(od submissiondb.OnDeckSubmission) {
	if od.ID == uuid.Nil {
		od.ID = uuid.New()
	}
	f.rows = append(f.rows, od)
}

func (f *FakeOnDeckStore) ListByRoundAndUser(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]submissiondb.OnDeckSubmission, error) {
	var out []submissiondb.OnDeckSubmission
	for _, od := range f.rows {
		if od.RoundID == roundID && od.UserID == userID {
			out = append(out, od)
		}
	}
	return out, nil
}

func (f *FakeOnDeckStore) Insert(ctx context.Context, db bun.IDB, onDeck *submissiondb.OnDeckSubmission) error {
	if onDeck.ID == uuid.Nil {
		onDeck.ID = uuid.New()
	}
	f.rows = append(f.rows, *onDeck)
	return nil
}

func (f *FakeOnDeckStore) DeleteByTrackIDs(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID, trackIDs []string) error {
	drop := make(map[string]bool, len(trackIDs))
	for _, id := range trackIDs {
		drop[id] = true
	}
	kept := f.rows[:0]
	for _, od := range f.rows {
		if od.RoundID == roundID && od.UserID == userID && drop[od.TrackID] {
			continue
		}
		kept = append(kept, od)
	}
	f.rows = kept
	return nil
}

func (f *FakeOnDeckStore) MarkAddedToPlaylist(ctx context.Context, db bun.IDB, ids []uuid.UUID) error {
	mark := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		mark[id] = true
	}
	for i := range f.rows {
		if mark[f.rows[i].ID] {
			f.rows[i].AddedToPlaylist = true
		}
	}
	return nil
}

// FakePlaylistClient records playlist calls without touching the network.
type FakePlaylistClient struct {
	CreatedNames []string
	Added        map[string][]string

	CreateErr error
}

func NewFakePlaylistClient() *FakePlaylistClient {
	return &FakePlaylistClient{Added: make(map[string][]string)}
}

func (f *FakePlaylistClient) CreatePlaylist(ctx context.Context, name string) (string, error) {
	if f.CreateErr != nil {
		return "", f.CreateErr
	}
	f.CreatedNames = append(f.CreatedNames, name)
	return fmt.Sprintf("playlist-%d", len(f.CreatedNames)), nil
}

func (f *FakePlaylistClient) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	f.Added[playlistID] = append(f.Added[playlistID], trackIDs...)
	return nil
}

// FakeRoundRepo is a programmable rounddb.Repository.
type FakeRoundRepo struct {
	GetByIDFunc      func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
	ListByLeagueFunc func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]rounddb.Round, error)

	PlaylistIDs map[uuid.UUID]string
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	return nil
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

func (f *FakeRoundRepo) GetLatestScheduled(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*rounddb.Round, error) {
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) SetPlaylistID(ctx context.Context, db bun.IDB, roundID uuid.UUID, playlistID string) error {
	if f.PlaylistIDs == nil {
		f.PlaylistIDs = make(map[uuid.UUID]string)
	}
	f.PlaylistIDs[roundID] = playlistID
	return nil
}

// FakeLeagueRepo is a programmable leaguedb.Repository.
type FakeLeagueRepo struct {
	GetByIDFunc func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error)
}

func (f *FakeLeagueRepo) Create(ctx context.Context, db bun.IDB, league *leaguedb.League) error {
	return nil
}

func (f *FakeLeagueRepo) GetByID(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, leagueID)
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) ListForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]leaguedb.League, error) {
	return nil, nil
}

func (f *FakeLeagueRepo) AddMember(ctx context.Context, db bun.IDB, leagueID, userID uuid.UUID) error {
	return nil
}

// FakeVoteRepo serves only the round vote listing the stage check needs.
type FakeVoteRepo struct {
	Votes []votedb.Vote
}

func (f *FakeVoteRepo) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]votedb.Vote, error) {
	return f.Votes, nil
}

func (f *FakeVoteRepo) ListByRoundAndUserForUpdate(ctx context.Context, db bun.IDB, roundID, userID uuid.UUID) ([]votedb.Vote, error) {
	return nil, nil
}

func (f *FakeVoteRepo) Get(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) (*votedb.Vote, error) {
	return nil, votedb.ErrNotFound
}

func (f *FakeVoteRepo) Upsert(ctx context.Context, db bun.IDB, vote *votedb.Vote) error {
	return nil
}

func (f *FakeVoteRepo) Delete(ctx context.Context, db bun.IDB, submissionID, userID uuid.UUID) error {
	return nil
}

// FakeUserRepo returns no users, which the dispatcher treats as no
// preference filtering.
type FakeUserRepo struct{}

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*userdb.User, error) {
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) GetByIDs(ctx context.Context, db bun.IDB, userIDs []uuid.UUID) ([]userdb.User, error) {
	return nil, nil
}

func (f *FakeUserRepo) Upsert(ctx context.Context, db bun.IDB, user *userdb.User) error {
	return nil
}

func (f *FakeUserRepo) UpdatePreferences(ctx context.Context, db bun.IDB, userID uuid.UUID, preferences map[string]bool) error {
	return nil
}

// FakeNotificationRepo records round cancellations and nothing else.
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
