package domain

import "time"

type Session struct {
	Start PlayerPIT
	End   PlayerPIT

	// Extrapolated sessions are synthesized to cover a gap where no
	// session was recorded, rather than detected from a dense history
	Extrapolated bool

	Consecutive bool
}

func (s Session) Playtime() time.Duration {
	return s.End.QueriedAt.Sub(s.Start.QueriedAt)
}

func (s Session) GamesPlayed() int {
	return s.End.Overall.GamesPlayed - s.Start.Overall.GamesPlayed
}

func (s Session) Wins() int {
	return s.End.Overall.Wins - s.Start.Overall.Wins
}

func (s Session) FinalKills() int {
	return s.End.Overall.FinalKills - s.Start.Overall.FinalKills
}

// FKDR returns the final kills per final death gained during the session.
// The session fkdr is the ratio of the deltas, not the delta of the ratios.
func (s Session) FKDR() float64 {
	finalKills := s.End.Overall.FinalKills - s.Start.Overall.FinalKills
	finalDeaths := s.End.Overall.FinalDeaths - s.Start.Overall.FinalDeaths
	return Ratio(float64(finalKills), float64(finalDeaths))
}

func (s Session) Stars() float64 {
	return ExperienceToStars(int64(s.End.Experience)) - ExperienceToStars(int64(s.Start.Experience))
}

// BestSessions holds the best session for each metric
type BestSessions struct {
	Playtime   *Session
	FinalKills *Session
	Wins       *Session
	FKDR       *Session
	Stars      *Session
}
