package domain_test

import (
	"testing"
	"time"

	"github.com/Amund211/prismarine/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestSessionAggregates(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.May, 2, 20, 0, 0, 0, time.UTC)

	session := domain.Session{
		Start: domain.PlayerPIT{
			QueriedAt:  start,
			UUID:       "0123456789abcdef0123456789abcdef",
			Experience: float64(domain.StarsToExperience(100)),
			Overall: domain.GamemodeStatsPIT{
				GamesPlayed: 100,
				Wins:        50,
				FinalKills:  200,
				FinalDeaths: 100,
			},
		},
		End: domain.PlayerPIT{
			QueriedAt:  start.Add(90 * time.Minute),
			UUID:       "0123456789abcdef0123456789abcdef",
			Experience: float64(domain.StarsToExperience(103)),
			Overall: domain.GamemodeStatsPIT{
				GamesPlayed: 110,
				Wins:        56,
				FinalKills:  230,
				FinalDeaths: 110,
			},
		},
	}

	require.Equal(t, 90*time.Minute, session.Playtime())
	require.Equal(t, 10, session.GamesPlayed())
	require.Equal(t, 6, session.Wins())
	require.Equal(t, 30, session.FinalKills())
	require.InDelta(t, 3, session.FKDR(), 1e-9)
	require.InDelta(t, 3, session.Stars(), 1e-9)
}

func TestSessionFKDRZeroDeaths(t *testing.T) {
	t.Parallel()

	session := domain.Session{
		Start: domain.PlayerPIT{Overall: domain.GamemodeStatsPIT{FinalKills: 10, FinalDeaths: 5}},
		End:   domain.PlayerPIT{Overall: domain.GamemodeStatsPIT{FinalKills: 25, FinalDeaths: 5}},
	}

	// No final deaths during the session: the fkdr is the final kill count
	require.InDelta(t, 15, session.FKDR(), 1e-9)
}
