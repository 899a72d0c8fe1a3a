package roundservice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/jas7457/playlist-party/app/observability"

	leaguedb "github.com/jas7457/playlist-party/app/modules/league/infrastructure/repositories"
	notificationqueue "github.com/jas7457/playlist-party/app/modules/notification/infrastructure/queue"
	rounddb "github.com/jas7457/playlist-party/app/modules/round/infrastructure/repositories"
)

// FakeRoundRepo is a programmable rounddb.Repository.
type FakeRoundRepo struct {
	GetByIDFunc func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	return nil
}

func (f *FakeRoundRepo) ListByLeague(ctx context.Context, db bun.IDB, leagueID uuid.UUID) ([]rounddb.Round, error) {
	return nil, nil
}

func (f *FakeRoundRepo) GetLatestScheduled(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*rounddb.Round, error) {
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) SetPlaylistID(ctx context.Context, db bun.IDB, roundID uuid.UUID, playlistID string) error {
	return nil
}

// FakeLeagueRepo is a programmable leaguedb.Repository.
type FakeLeagueRepo struct {
	GetByIDFunc func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error)
}

func (f *FakeLeagueRepo) GetByID(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, leagueID)
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepo) Create(ctx context.Context, db bun.IDB, league *leaguedb.League) error {
	return nil
}

func (f *FakeLeagueRepo) ListForUser(ctx context.Context, db bun.IDB, userID uuid.UUID) ([]leaguedb.League, error) {
	return nil, nil
}

func (f *FakeLeagueRepo) AddMember(ctx context.Context, db bun.IDB, leagueID, userID uuid.UUID) error {
	return nil
}

// FakeQueue is a programmable notificationqueue.QueueService.
type FakeQueue struct {
	Jobs []notificationqueue.JobInfo
}

func (f *FakeQueue) ScheduleSubmissionReminder(ctx context.Context, leagueID, roundID, notificationID uuid.UUID, at time.Time) error {
	return nil
}

func (f *FakeQueue) ScheduleVotingReminder(ctx context.Context, leagueID, roundID, notificationID uuid.UUID, at time.Time) error {
	return nil
}

func (f *FakeQueue) CancelRoundJobs(ctx context.Context, roundID uuid.UUID) error {
	return nil
}

func (f *FakeQueue) GetScheduledJobs(ctx context.Context, roundID uuid.UUID) ([]notificationqueue.JobInfo, error) {
	return f.Jobs, nil
}

func (f *FakeQueue) HealthCheck(ctx context.Context) error {
	return nil
}

func (f *FakeQueue) Start(ctx context.Context) error {
	return nil
}

func (f *FakeQueue) Stop(ctx context.Context) error {
	return nil
}

func TestListReminders(t *testing.T) {
	member := uuid.New()
	league := &leaguedb.League{
		ID:        uuid.New(),
		Title:     "Indie League",
		OwnerID:   member,
		MemberIDs: []uuid.UUID{member},
	}
	round := &rounddb.Round{
		ID:       uuid.New(),
		LeagueID: league.ID,
	}

	newService := func(queue *FakeQueue) *RoundService {
		rounds := &FakeRoundRepo{
			GetByIDFunc: func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
				if roundID == round.ID {
					return round, nil
				}
				return nil, rounddb.ErrNotFound
			},
		}
		leagues := &FakeLeagueRepo{
			GetByIDFunc: func(ctx context.Context, db bun.IDB, leagueID uuid.UUID) (*leaguedb.League, error) {
				return league, nil
			},
		}
		return NewRoundService(rounds, leagues, nil, nil, nil, queue, nil, nil, slog.Default(), observability.NewMetrics())
	}

	t.Run("returns the queued jobs to a member", func(t *testing.T) {
		queue := &FakeQueue{
			Jobs: []notificationqueue.JobInfo{{
				ID:      1,
				Kind:    "submission_reminder",
				RoundID: round.ID.String(),
				State:   "scheduled",
			}},
		}
		svc := newService(queue)

		jobs, err := svc.ListReminders(context.Background(), round.ID, member)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "submission_reminder", jobs[0].Kind)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		svc := newService(&FakeQueue{})

		_, err := svc.ListReminders(context.Background(), round.ID, uuid.New())
		assert.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("unknown round", func(t *testing.T) {
		svc := newService(&FakeQueue{})

		_, err := svc.ListReminders(context.Background(), uuid.New(), member)
		assert.ErrorIs(t, err, ErrRoundNotFound)
	})
}
