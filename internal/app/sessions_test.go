package app_test

import (
	"testing"
	"time"

	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func TestComputeSessions(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	uuid := "0123456789abcdef0123456789abcdef"

	snapshot := func(offset time.Duration, gamesPlayed int) domain.PlayerPIT {
		return domaintest.NewPlayerBuilder(uuid, start.Add(offset)).
			WithGamesPlayed(gamesPlayed).
			WithExperience(500 + float64(gamesPlayed)*100).
			Build()
	}

	t.Run("no sessions with one or fewer snapshots", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, app.ComputeSessions(nil, start, end))
		require.Empty(t, app.ComputeSessions([]domain.PlayerPIT{snapshot(0, 1)}, start, end))
	})

	t.Run("single session", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(0, 10),
			snapshot(10*time.Minute, 11),
			snapshot(20*time.Minute, 12),
			snapshot(30*time.Minute, 13),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 1)
		require.Equal(t, 10, sessions[0].Start.Overall.GamesPlayed)
		require.Equal(t, 13, sessions[0].End.Overall.GamesPlayed)
		require.True(t, sessions[0].Consecutive)
		require.False(t, sessions[0].Extrapolated)
	})

	t.Run("inactivity gap splits sessions", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(0, 10),
			snapshot(10*time.Minute, 11),
			snapshot(20*time.Minute, 12),
			// 3 hour break
			snapshot(3*time.Hour+20*time.Minute, 13),
			snapshot(3*time.Hour+30*time.Minute, 14),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 2)
		require.Equal(t, 10, sessions[0].Start.Overall.GamesPlayed)
		require.Equal(t, 12, sessions[0].End.Overall.GamesPlayed)
		// The game finished across the gap is not attributed to either session
		require.Equal(t, 13, sessions[1].Start.Overall.GamesPlayed)
		require.Equal(t, 14, sessions[1].End.Overall.GamesPlayed)
	})

	t.Run("uneventful trailing entries start the next session", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(0, 10),
			snapshot(10*time.Minute, 11),
			// Player stopped; polling kept going
			snapshot(65*time.Minute, 11),
			// New session within the inactivity limit of the trailing entry
			snapshot(90*time.Minute, 12),
			snapshot(100*time.Minute, 13),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 2)
		require.Equal(t, 10, sessions[0].Start.Overall.GamesPlayed)
		require.Equal(t, 11, sessions[0].End.Overall.GamesPlayed)
		require.Equal(t, start.Add(10*time.Minute), sessions[0].End.QueriedAt)
		// The second session starts from the trailing uneventful entry
		require.Equal(t, 11, sessions[1].Start.Overall.GamesPlayed)
		require.Equal(t, start.Add(65*time.Minute), sessions[1].Start.QueriedAt)
		require.Equal(t, 13, sessions[1].End.Overall.GamesPlayed)
	})

	t.Run("large games played jump marks session not consecutive", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(0, 10),
			snapshot(10*time.Minute, 11),
			// Played 5 games elsewhere without being tracked
			snapshot(20*time.Minute, 16),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 1)
		require.False(t, sessions[0].Consecutive)
	})

	t.Run("increase by two stays consecutive", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(0, 10),
			snapshot(10*time.Minute, 12),
			snapshot(20*time.Minute, 13),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 1)
		require.True(t, sessions[0].Consecutive)
	})

	t.Run("sessions outside the interval are excluded", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(-3*time.Hour, 1),
			snapshot(-3*time.Hour+10*time.Minute, 2),
			snapshot(10*time.Minute, 3),
			snapshot(20*time.Minute, 4),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 1)
		require.Equal(t, 3, sessions[0].Start.Overall.GamesPlayed)
	})

	t.Run("unsorted input is sorted first", func(t *testing.T) {
		t.Parallel()

		stats := []domain.PlayerPIT{
			snapshot(20*time.Minute, 12),
			snapshot(0, 10),
			snapshot(10*time.Minute, 11),
		}

		sessions := app.ComputeSessions(stats, start, end)
		require.Len(t, sessions, 1)
		require.Equal(t, 10, sessions[0].Start.Overall.GamesPlayed)
		require.Equal(t, 12, sessions[0].End.Overall.GamesPlayed)
	})
}
