package domain

// Ratio computes dividend/divisor with the zero divisor convention used
// throughout: a ratio with no divisor is reported as the dividend itself.
// This keeps e.g. the fkdr of a player with 0 final deaths as a regular
// number instead of NaN/Inf.
func Ratio(dividend, divisor float64) float64 {
	if divisor == 0 {
		return dividend
	}
	return dividend / divisor
}

// GetStat reads a single stat off a point in time snapshot.
//
// The returned value is nil only for hidden winstreaks. Absent counters
// never fail; they degrade to 0.
func GetStat(player *PlayerPIT, gamemode Gamemode, stat Stat) *float64 {
	value := func(v float64) *float64 {
		return &v
	}

	stats := player.GamemodeStats(gamemode)

	switch stat {
	case StatExperience:
		return value(player.Experience)
	case StatStars:
		return value(ExperienceToStars(int64(player.Experience)))
	case StatWinstreak:
		if stats.Winstreak == nil {
			return nil
		}
		return value(float64(*stats.Winstreak))
	case StatGamesPlayed:
		return value(float64(stats.GamesPlayed))
	case StatWins:
		return value(float64(stats.Wins))
	case StatLosses:
		return value(float64(stats.Losses))
	case StatBedsBroken:
		return value(float64(stats.BedsBroken))
	case StatBedsLost:
		return value(float64(stats.BedsLost))
	case StatFinalKills:
		return value(float64(stats.FinalKills))
	case StatFinalDeaths:
		return value(float64(stats.FinalDeaths))
	case StatKills:
		return value(float64(stats.Kills))
	case StatDeaths:
		return value(float64(stats.Deaths))
	case StatFKDR:
		return value(Ratio(float64(stats.FinalKills), float64(stats.FinalDeaths)))
	case StatKDR:
		return value(Ratio(float64(stats.Kills), float64(stats.Deaths)))
	case StatIndex:
		fkdr := Ratio(float64(stats.FinalKills), float64(stats.FinalDeaths))
		stars := ExperienceToStars(int64(player.Experience))
		return value(fkdr * fkdr * stars)
	}

	return nil
}
