package app_test

import (
	"testing"
	"time"

	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/domaintest"
	"github.com/stretchr/testify/require"
)

func TestComputeStat(t *testing.T) {
	t.Parallel()

	now := time.Now()
	uuid := domaintest.NewUUID(t)

	baseline := domaintest.NewPlayerBuilder(uuid, now).
		WithExperience(float64(domain.StarsToExperience(100))).
		WithOverallStats(domain.GamemodeStatsPIT{
			GamesPlayed: 100,
			Wins:        50,
			FinalKills:  200,
			FinalDeaths: 100,
			Kills:       300,
			Deaths:      200,
		}).
		Build()

	current := domaintest.NewPlayerBuilder(uuid, now.Add(2*time.Hour)).
		WithExperience(float64(domain.StarsToExperience(104))).
		WithOverallStats(domain.GamemodeStatsPIT{
			GamesPlayed: 110,
			Wins:        56,
			FinalKills:  230,
			FinalDeaths: 110,
			Kills:       330,
			Deaths:      220,
		}).
		BuildPtr()

	history := []domain.PlayerPIT{baseline, *current}

	requireStat := func(stat domain.Stat, variant domain.Variant, want float64) {
		t.Helper()
		got := app.ComputeStat(current, domain.GamemodeOverall, stat, variant, history)
		require.NotNil(t, got)
		require.InDelta(t, want, *got, 1e-9)
	}

	t.Run("overall variant is the absolute value", func(t *testing.T) {
		t.Parallel()

		requireStat(domain.StatGamesPlayed, domain.VariantOverall, 110)
		requireStat(domain.StatFKDR, domain.VariantOverall, 230.0/110.0)
	})

	t.Run("session linear stats are deltas", func(t *testing.T) {
		t.Parallel()

		requireStat(domain.StatGamesPlayed, domain.VariantSession, 10)
		requireStat(domain.StatWins, domain.VariantSession, 6)
		requireStat(domain.StatFinalKills, domain.VariantSession, 30)
		requireStat(domain.StatStars, domain.VariantSession, 4)
	})

	t.Run("session quotients are ratios of deltas", func(t *testing.T) {
		t.Parallel()

		// 30 final kills / 10 final deaths, not a difference of overall fkdrs
		requireStat(domain.StatFKDR, domain.VariantSession, 3)
		requireStat(domain.StatKDR, domain.VariantSession, 30.0/20.0)
	})

	t.Run("session index composes session fkdr and session stars", func(t *testing.T) {
		t.Parallel()

		requireStat(domain.StatIndex, domain.VariantSession, 3*3*4)
	})

	t.Run("zero divisor session quotient reports the dividend", func(t *testing.T) {
		t.Parallel()

		samedeaths := domaintest.NewPlayerBuilder(uuid, now.Add(2*time.Hour)).
			WithFinalKills(215).
			WithFinalDeaths(100).
			BuildPtr()
		samedeathsBaseline := domaintest.NewPlayerBuilder(uuid, now).
			WithFinalKills(200).
			WithFinalDeaths(100).
			Build()

		got := app.ComputeStat(samedeaths, domain.GamemodeOverall, domain.StatFKDR, domain.VariantSession, []domain.PlayerPIT{samedeathsBaseline, *samedeaths})
		require.NotNil(t, got)
		require.InDelta(t, 15, *got, 1e-9)
	})

	t.Run("baseline skips snapshots with hidden winstreak", func(t *testing.T) {
		t.Parallel()

		hidden := domaintest.NewPlayerBuilder(uuid, now).Build()
		visible := domaintest.NewPlayerBuilder(uuid, now.Add(time.Hour)).WithWinstreak(3).Build()
		latest := domaintest.NewPlayerBuilder(uuid, now.Add(2*time.Hour)).WithWinstreak(8).BuildPtr()

		got := app.ComputeStat(latest, domain.GamemodeOverall, domain.StatWinstreak, domain.VariantSession, []domain.PlayerPIT{hidden, visible, *latest})
		require.NotNil(t, got)
		require.InDelta(t, 5, *got, 1e-9)
	})

	t.Run("nil when no usable baseline", func(t *testing.T) {
		t.Parallel()

		hidden := domaintest.NewPlayerBuilder(uuid, now).Build()
		latest := domaintest.NewPlayerBuilder(uuid, now.Add(2*time.Hour)).Build()

		got := app.ComputeStat(&latest, domain.GamemodeOverall, domain.StatWinstreak, domain.VariantSession, []domain.PlayerPIT{hidden, latest})
		require.Nil(t, got)
	})

	t.Run("nil with empty history", func(t *testing.T) {
		t.Parallel()

		got := app.ComputeStat(current, domain.GamemodeOverall, domain.StatGamesPlayed, domain.VariantSession, nil)
		require.Nil(t, got)
	})
}
