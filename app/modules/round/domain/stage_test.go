package rounddomain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveStage(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	schedule := Schedule{
		SubmissionStart:   start,
		DaysForSubmission: 3,
		DaysForVoting:     4,
	}

	base := StageInput{
		Schedule:      schedule,
		MemberCount:   4,
		VotesPerRound: 10,
	}

	tests := []struct {
		name  string
		setup func(*StageInput)
		want  Stage
	}{
		{
			name: "before submission start is upcoming",
			setup: func(in *StageInput) {
				in.Now = start.Add(-time.Hour)
			},
			want: StageUpcoming,
		},
		{
			name: "inside submission window",
			setup: func(in *StageInput) {
				in.Now = start.Add(24 * time.Hour)
				in.SubmissionCount = 2
			},
			want: StageSubmission,
		},
		{
			name: "voting opens early once everyone submitted",
			setup: func(in *StageInput) {
				in.Now = start.Add(24 * time.Hour)
				in.SubmissionCount = 4
			},
			want: StageVoting,
		},
		{
			name: "viewer budget spent refines voting",
			setup: func(in *StageInput) {
				in.Now = start.Add(24 * time.Hour)
				in.SubmissionCount = 4
				in.ViewerPoints = 10
			},
			want: StageCurrentUserVotingCompleted,
		},
		{
			name: "submission window lapsed without full submissions",
			setup: func(in *StageInput) {
				in.Now = schedule.SubmissionEnd().Add(time.Hour)
				in.SubmissionCount = 3
			},
			want: StageUnknown,
		},
		{
			name: "voting window ended",
			setup: func(in *StageInput) {
				in.Now = schedule.VotingEnd()
				in.SubmissionCount = 4
			},
			want: StageCompleted,
		},
		{
			name: "full budget spent completes before the window ends",
			setup: func(in *StageInput) {
				in.Now = start.Add(24 * time.Hour)
				in.SubmissionCount = 4
				in.TotalPoints = 40
			},
			want: StageCompleted,
		},
		{
			name: "full budget wins even past the window",
			setup: func(in *StageInput) {
				in.Now = schedule.VotingEnd().Add(48 * time.Hour)
				in.SubmissionCount = 4
				in.TotalPoints = 40
			},
			want: StageCompleted,
		},
		{
			name: "zero submission start is unknown",
			setup: func(in *StageInput) {
				in.Schedule.SubmissionStart = time.Time{}
				in.Now = start
			},
			want: StageUnknown,
		},
		{
			name: "zero members never completes on points",
			setup: func(in *StageInput) {
				in.MemberCount = 0
				in.TotalPoints = 40
				in.Now = start.Add(24 * time.Hour)
			},
			want: StageSubmission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.setup(&in)
			assert.Equal(t, tt.want, ResolveStage(in))
		})
	}
}

// Stages only ever move forward as time passes with fixed counts.
func TestResolveStageMonotonic(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := StageInput{
		Schedule: Schedule{
			SubmissionStart:   start,
			DaysForSubmission: 2,
			DaysForVoting:     2,
		},
		MemberCount:     3,
		VotesPerRound:   5,
		SubmissionCount: 3,
	}

	order := map[Stage]int{
		StageUpcoming:   0,
		StageSubmission: 1,
		StageVoting:     2,
		StageCompleted:  3,
	}

	prev := -1
	for hour := -24; hour <= 5*24; hour++ {
		in.Now = start.Add(time.Duration(hour) * time.Hour)
		stage := ResolveStage(in)
		rank, ok := order[stage]
		if !ok {
			t.Fatalf("unexpected stage %q at hour %d", stage, hour)
		}
		if rank < prev {
			t.Fatalf("stage went backwards to %q at hour %d", stage, hour)
		}
		prev = rank
	}
}

func TestScheduleWindows(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := Schedule{SubmissionStart: start, DaysForSubmission: 3, DaysForVoting: 4}

	assert.Equal(t, start.AddDate(0, 0, 3), s.SubmissionEnd())
	assert.Equal(t, s.SubmissionEnd(), s.VotingStart())
	assert.Equal(t, start.AddDate(0, 0, 7), s.VotingEnd())
}

func TestNextSubmissionStart(t *testing.T) {
	leagueStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	after := leagueStart.AddDate(0, 0, 7)
	before := leagueStart.AddDate(0, 0, -7)

	assert.Equal(t, leagueStart, NextSubmissionStart(leagueStart, nil))
	assert.Equal(t, after, NextSubmissionStart(leagueStart, &after))
	assert.Equal(t, leagueStart, NextSubmissionStart(leagueStart, &before))
}
