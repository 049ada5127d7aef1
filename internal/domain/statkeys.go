package domain

// Gamemode represents the different bedwars game modes
type Gamemode string

const (
	GamemodeSolo    Gamemode = "solo"
	GamemodeDoubles Gamemode = "doubles"
	GamemodeThrees  Gamemode = "threes"
	GamemodeFours   Gamemode = "fours"
	GamemodeOverall Gamemode = "overall"
)

var AllGamemodes = []Gamemode{
	GamemodeSolo,
	GamemodeDoubles,
	GamemodeThrees,
	GamemodeFours,
	GamemodeOverall,
}

func (g Gamemode) Valid() bool {
	switch g {
	case GamemodeSolo, GamemodeDoubles, GamemodeThrees, GamemodeFours, GamemodeOverall:
		return true
	}
	return false
}

// Stat represents the different statistical measures
type Stat string

const (
	StatExperience  Stat = "experience"
	StatStars       Stat = "stars"
	StatWinstreak   Stat = "winstreak"
	StatGamesPlayed Stat = "gamesPlayed"
	StatWins        Stat = "wins"
	StatLosses      Stat = "losses"
	StatBedsBroken  Stat = "bedsBroken"
	StatBedsLost    Stat = "bedsLost"
	StatFinalKills  Stat = "finalKills"
	StatFinalDeaths Stat = "finalDeaths"
	StatKills       Stat = "kills"
	StatDeaths      Stat = "deaths"
	StatFKDR        Stat = "fkdr"
	StatKDR         Stat = "kdr"
	StatIndex       Stat = "index"
)

var AllStats = []Stat{
	StatExperience,
	StatStars,
	StatWinstreak,
	StatGamesPlayed,
	StatWins,
	StatLosses,
	StatBedsBroken,
	StatBedsLost,
	StatFinalKills,
	StatFinalDeaths,
	StatKills,
	StatDeaths,
	StatFKDR,
	StatKDR,
	StatIndex,
}

func (s Stat) Valid() bool {
	switch s.Kind() {
	case StatKindLinear, StatKindQuotient, StatKindComposite:
		return true
	}
	return false
}

// StatKind drives dispatch in the stat computer and the progression
// projector. Quotient stats must be re-derived from component deltas when
// computing session values; ratios do not subtract linearly.
type StatKind int

const (
	StatKindInvalid StatKind = iota
	// Plain monotonically non-decreasing counter (or a direct function of
	// one, like stars)
	StatKindLinear
	// Ratio of two linear counters
	StatKindQuotient
	// Derived from other derived stats (index = fkdr^2 * stars)
	StatKindComposite
)

func (s Stat) Kind() StatKind {
	switch s {
	case StatExperience, StatStars, StatWinstreak, StatGamesPlayed, StatWins,
		StatLosses, StatBedsBroken, StatBedsLost, StatFinalKills,
		StatFinalDeaths, StatKills, StatDeaths:
		return StatKindLinear
	case StatFKDR, StatKDR:
		return StatKindQuotient
	case StatIndex:
		return StatKindComposite
	}
	return StatKindInvalid
}

// QuotientComponents returns the dividend and divisor stats for quotient
// stats. ok is false for all other stats.
func (s Stat) QuotientComponents() (dividend, divisor Stat, ok bool) {
	switch s {
	case StatFKDR:
		return StatFinalKills, StatFinalDeaths, true
	case StatKDR:
		return StatKills, StatDeaths, true
	}
	return "", "", false
}

// OverallOnly reports whether the stat is only tracked on the overall
// aggregate and not broken down per gamemode.
func (s Stat) OverallOnly() bool {
	return s == StatExperience || s == StatStars
}

// Variant determines whether a stat is reported as its absolute value or as
// the delta accumulated within a history window.
type Variant string

const (
	VariantOverall Variant = "overall"
	VariantSession Variant = "session"
)

func (v Variant) Valid() bool {
	return v == VariantOverall || v == VariantSession
}
