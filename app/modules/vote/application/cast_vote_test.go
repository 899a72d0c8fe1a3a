package voteservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/jas7457/playlist-party/app/eventbus"
	"github.com/jas7457/playlist-party/app/observability"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationservice "github.com/jas7457/playlist-party/app/modules/notification/application"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
	submissiondb "github.com/jas7457/playlist-party/app/modules/submission/infrastructure/repositories"
	votedb "github.com/jas7457/playlist-party/app/modules/vote/infrastructure/repositories"
)

type castVoteFixture struct {
	service     *VoteService
	voteRepo    *FakeVoteRepo
	members     []uuid.UUID
	round       *rounddb.Round
	submissions []submissiondb.Submission
	bus         *FakeEventBus
}

// newCastVoteFixture builds a four-member league with a ten-point budget and a
// round where everyone has submitted, so voting is open.
func newCastVoteFixture(t *testing.T) *castVoteFixture {
	t.Helper()

	members := make([]uuid.UUID, 4)
	for i := range members {
		members[i] = uuid.New()
	}

	league := &leaguedb.League{
		ID:                uuid.New(),
		Title:             "Test League",
		OwnerID:           members[0],
		MemberIDs:         members,
		VotesPerRound:     10,
		DaysForSubmission: 1,
		DaysForVoting:     7,
	}
	round := &rounddb.Round{
		ID:                  uuid.New(),
		LeagueID:            league.ID,
		CreatorID:           members[0],
		Title:               "Test Round",
		SubmissionStartDate: time.Now().AddDate(0, 0, -2),
	}

	submissions := make([]submissiondb.Submission, len(members))
	for i, member := range members {
		submissions[i] = submissiondb.Submission{
			ID:      uuid.New(),
			RoundID: round.ID,
			UserID:  member,
			TrackID: uuid.NewString(),
			Title:   "Track",
			Artists: []string{"Artist"},
		}
	}

	voteRepo := NewFakeVoteRepo()
	roundRepo := &FakeRoundRepo{
		GetByIDFunc: func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
			if roundID == round.ID {
				return round, nil
			}
			return nil, rounddb.ErrNotFound
		},
		ListByLeagueFunc: func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]rounddb.Round, error) {
			return []rounddb.Round{*round}, nil
		},
	}
	leagueRepo := &FakeLeagueRepo{
		GetByIDFunc: func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
			if leagueID == league.ID {
				return league, nil
			}
			return nil, leaguedb.ErrNotFound
		},
	}
	submissionRepo := &FakeSubmissionRepo{
		ListByRoundFunc: func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]submissiondb.Submission, error) {
			return submissions, nil
		},
	}

	logger := slog.Default()
	metrics := observability.NewMetrics()
	bus := &FakeEventBus{}
	broadcaster := eventbus.NewBroadcaster(bus, logger)
	dispatcher := notificationservice.NewDispatcher(
		&FakeNotificationRepo{},
		&FakeUserRepo{},
		leagueRepo,
		roundRepo,
		submissionRepo,
		voteRepo,
		broadcaster,
		logger,
		metrics,
	)

	service := NewVoteService(
		voteRepo,
		submissionRepo,
		roundRepo,
		leagueRepo,
		&FakeDB{},
		dispatcher,
		broadcaster,
		logger,
		metrics,
	)

	return &castVoteFixture{
		service:     service,
		voteRepo:    voteRepo,
		members:     members,
		round:       round,
		submissions: submissions,
		bus:         bus,
	}
}

func TestCastVote(t *testing.T) {
	t.Run("records a vote", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		voter := fx.members[0]

		result, err := fx.service.CastVote(context.Background(), voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       6,
			Note:         "great pick",
		})
		require.NoError(t, err)
		require.NotNil(t, result.Vote)
		assert.False(t, result.Deleted)
		assert.Equal(t, 6, result.Vote.Points)

		stored, err := fx.voteRepo.Get(context.Background(), nil, fx.submissions[1].ID, voter)
		require.NoError(t, err)
		assert.Equal(t, "great pick", stored.Note)
	})

	t.Run("negative points rejected", func(t *testing.T) {
		fx := newCastVoteFixture(t)

		_, err := fx.service.CastVote(context.Background(), fx.members[0], fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       -1,
		})
		assert.ErrorIs(t, err, ErrInvalidPoints)
	})

	t.Run("unknown round", func(t *testing.T) {
		fx := newCastVoteFixture(t)

		_, err := fx.service.CastVote(context.Background(), fx.members[0], uuid.New(), CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       1,
		})
		assert.ErrorIs(t, err, ErrRoundNotFound)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		fx := newCastVoteFixture(t)

		_, err := fx.service.CastVote(context.Background(), uuid.New(), fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       1,
		})
		assert.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("submission outside the round rejected", func(t *testing.T) {
		fx := newCastVoteFixture(t)

		_, err := fx.service.CastVote(context.Background(), fx.members[0], fx.round.ID, CastVoteInput{
			SubmissionID: uuid.New(),
			Points:       1,
		})
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})

	t.Run("budget cannot be exceeded", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		voter := fx.members[0]
		ctx := context.Background()

		_, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       6,
		})
		require.NoError(t, err)
		_, err = fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[2].ID,
			Points:       4,
		})
		require.NoError(t, err)

		// Budget is fully spent; one more point anywhere goes over.
		_, err = fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[3].ID,
			Points:       1,
		})
		require.ErrorIs(t, err, ErrBudgetExceeded)
		var budgetErr *BudgetExceededError
		require.ErrorAs(t, err, &budgetErr)
		assert.Equal(t, 1, budgetErr.Over)
	})

	t.Run("lowering an existing vote frees budget", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		voter := fx.members[0]
		ctx := context.Background()

		_, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       6,
		})
		require.NoError(t, err)
		_, err = fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[2].ID,
			Points:       4,
		})
		require.NoError(t, err)

		// Re-casting on the same submission replaces its old points in the
		// budget check instead of stacking on top of them.
		result, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       3,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Vote.Points)

		_, err = fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[3].ID,
			Points:       3,
		})
		assert.NoError(t, err)
	})

	t.Run("re-cast without a note keeps the old note", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		voter := fx.members[0]
		ctx := context.Background()

		_, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       5,
			Note:         "keeper",
		})
		require.NoError(t, err)

		result, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       2,
		})
		require.NoError(t, err)
		assert.Equal(t, "keeper", result.Vote.Note)
	})

	t.Run("re-cast without a guess keeps the old guess", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		voter := fx.members[0]
		guessed := fx.members[2]
		ctx := context.Background()

		_, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID:  fx.submissions[1].ID,
			Points:        5,
			GuessedUserID: &guessed,
		})
		require.NoError(t, err)

		result, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       2,
		})
		require.NoError(t, err)
		require.NotNil(t, result.Vote.GuessedUserID)
		assert.Equal(t, guessed, *result.Vote.GuessedUserID)

		// An explicit new guess still replaces the stored one.
		reguessed := fx.members[3]
		result, err = fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID:  fx.submissions[1].ID,
			Points:        2,
			GuessedUserID: &reguessed,
		})
		require.NoError(t, err)
		require.NotNil(t, result.Vote.GuessedUserID)
		assert.Equal(t, reguessed, *result.Vote.GuessedUserID)
	})

	t.Run("zero points deletes an existing vote", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		voter := fx.members[0]
		ctx := context.Background()

		_, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       5,
		})
		require.NoError(t, err)

		result, err := fx.service.CastVote(ctx, voter, fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       0,
		})
		require.NoError(t, err)
		assert.True(t, result.Deleted)

		_, err = fx.voteRepo.Get(ctx, nil, fx.submissions[1].ID, voter)
		assert.ErrorIs(t, err, votedb.ErrNotFound)
	})

	t.Run("zero points with no vote is a no-op", func(t *testing.T) {
		fx := newCastVoteFixture(t)

		result, err := fx.service.CastVote(context.Background(), fx.members[0], fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       0,
		})
		require.NoError(t, err)
		assert.False(t, result.Deleted)
		assert.Nil(t, result.Vote)
	})

	t.Run("voting not open until everyone submits", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		partial := fx.submissions[:2]
		fx.service.submissionDB.(*FakeSubmissionRepo).ListByRoundFunc = func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]submissiondb.Submission, error) {
			return partial, nil
		}

		_, err := fx.service.CastVote(context.Background(), fx.members[0], fx.round.ID, CastVoteInput{
			SubmissionID: partial[1].ID,
			Points:       1,
		})
		assert.ErrorIs(t, err, ErrVotingNotOpen)
	})

	t.Run("voting window ended", func(t *testing.T) {
		fx := newCastVoteFixture(t)
		fx.round.SubmissionStartDate = time.Now().AddDate(0, 0, -30)

		_, err := fx.service.CastVote(context.Background(), fx.members[0], fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       1,
		})
		assert.ErrorIs(t, err, ErrVotingEnded)
	})

	t.Run("successful cast broadcasts a votes update", func(t *testing.T) {
		fx := newCastVoteFixture(t)

		_, err := fx.service.CastVote(context.Background(), fx.members[0], fx.round.ID, CastVoteInput{
			SubmissionID: fx.submissions[1].ID,
			Points:       2,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, fx.bus.Published)
	})
}
