package app_test

import (
	"testing"
	"time"

	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func TestAddExtrapolatedSessions(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.February, 1, 8, 0, 0, 0, time.UTC)
	uuid := "0123456789abcdef0123456789abcdef"

	snapshot := func(offset time.Duration, gamesPlayed int) domain.PlayerPIT {
		return domaintest.NewPlayerBuilder(uuid, base.Add(offset)).
			WithGamesPlayed(gamesPlayed).
			WithExperience(500 + float64(gamesPlayed)*100).
			Build()
	}

	recorded := func(start, end domain.PlayerPIT) domain.Session {
		return domain.Session{Start: start, End: end, Consecutive: true}
	}

	t.Run("returned unchanged without a 2-snapshot envelope", func(t *testing.T) {
		t.Parallel()

		sessions := []domain.Session{recorded(snapshot(0, 1), snapshot(time.Hour, 2))}

		require.Equal(t, sessions, app.AddExtrapolatedSessions(sessions, nil))
		require.Equal(t, sessions, app.AddExtrapolatedSessions(sessions, []domain.PlayerPIT{snapshot(0, 1)}))
		require.Equal(t, sessions, app.AddExtrapolatedSessions(sessions, []domain.PlayerPIT{snapshot(0, 1), snapshot(time.Hour, 2), snapshot(2*time.Hour, 3)}))
	})

	t.Run("no recorded sessions, stats changed", func(t *testing.T) {
		t.Parallel()

		envelope := []domain.PlayerPIT{snapshot(0, 1), snapshot(6*time.Hour, 10)}

		result := app.AddExtrapolatedSessions([]domain.Session{}, envelope)
		require.Len(t, result, 1)
		require.True(t, result[0].Extrapolated)
		require.False(t, result[0].Consecutive)
		require.Equal(t, envelope[0], result[0].Start)
		require.Equal(t, envelope[1], result[0].End)
	})

	t.Run("no recorded sessions, stats unchanged", func(t *testing.T) {
		t.Parallel()

		envelope := []domain.PlayerPIT{snapshot(0, 1), snapshot(6*time.Hour, 1)}

		result := app.AddExtrapolatedSessions([]domain.Session{}, envelope)
		require.Empty(t, result)
	})

	t.Run("gaps before, between and after recorded sessions are filled", func(t *testing.T) {
		t.Parallel()

		first := recorded(snapshot(2*time.Hour, 5), snapshot(3*time.Hour, 8))
		second := recorded(snapshot(6*time.Hour, 12), snapshot(7*time.Hour, 15))
		envelope := []domain.PlayerPIT{snapshot(0, 1), snapshot(9*time.Hour, 20)}

		result := app.AddExtrapolatedSessions([]domain.Session{first, second}, envelope)
		require.Len(t, result, 5)

		// Leading gap
		require.True(t, result[0].Extrapolated)
		require.Equal(t, envelope[0], result[0].Start)
		require.Equal(t, first.Start, result[0].End)

		require.Equal(t, first, result[1])

		// Gap between the sessions
		require.True(t, result[2].Extrapolated)
		require.Equal(t, first.End, result[2].Start)
		require.Equal(t, second.Start, result[2].End)

		require.Equal(t, second, result[3])

		// Trailing gap
		require.True(t, result[4].Extrapolated)
		require.Equal(t, second.End, result[4].Start)
		require.Equal(t, envelope[1], result[4].End)

		// The output covers the whole envelope with no holes
		require.Equal(t, envelope[0].QueriedAt, result[0].Start.QueriedAt)
		for i := 1; i < len(result); i++ {
			require.Equal(t, result[i-1].End.QueriedAt, result[i].Start.QueriedAt)
		}
		require.Equal(t, envelope[1].QueriedAt, result[len(result)-1].End.QueriedAt)
	})

	t.Run("gaps with identical stats produce no session", func(t *testing.T) {
		t.Parallel()

		session := recorded(snapshot(0, 1), snapshot(time.Hour, 5))
		// Envelope end matches the session end stats: nothing happened after
		envelope := []domain.PlayerPIT{snapshot(0, 1), snapshot(9*time.Hour, 5)}

		result := app.AddExtrapolatedSessions([]domain.Session{session}, envelope)
		require.Len(t, result, 1)
		require.Equal(t, session, result[0])
	})

	t.Run("extrapolated session consecutive only within one game", func(t *testing.T) {
		t.Parallel()

		session := recorded(snapshot(2*time.Hour, 5), snapshot(3*time.Hour, 8))

		// One game played before the session was recorded
		envelope := []domain.PlayerPIT{snapshot(0, 4), snapshot(3*time.Hour, 8)}
		result := app.AddExtrapolatedSessions([]domain.Session{session}, envelope)
		require.Len(t, result, 2)
		require.True(t, result[0].Extrapolated)
		require.True(t, result[0].Consecutive)

		// Multiple games played before the session was recorded
		envelope = []domain.PlayerPIT{snapshot(0, 1), snapshot(3*time.Hour, 8)}
		result = app.AddExtrapolatedSessions([]domain.Session{session}, envelope)
		require.Len(t, result, 2)
		require.True(t, result[0].Extrapolated)
		require.False(t, result[0].Consecutive)
	})
}
