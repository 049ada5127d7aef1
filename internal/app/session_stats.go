package app

import (
	"github.com/Amund211/prismarine/internal/domain"
)

// ComputeBestSessions finds the best session per metric.
// Returns nil when sessions is empty.
func ComputeBestSessions(sessions []domain.Session) *domain.BestSessions {
	if len(sessions) == 0 {
		return nil
	}

	best := domain.BestSessions{
		Playtime:   &sessions[0],
		FinalKills: &sessions[0],
		Wins:       &sessions[0],
		FKDR:       &sessions[0],
		Stars:      &sessions[0],
	}

	for i := range sessions[1:] {
		session := &sessions[i+1]
		if session.Playtime() > best.Playtime.Playtime() {
			best.Playtime = session
		}
		if session.FinalKills() > best.FinalKills.FinalKills() {
			best.FinalKills = session
		}
		if session.Wins() > best.Wins.Wins() {
			best.Wins = session
		}
		if session.FKDR() > best.FKDR.FKDR() {
			best.FKDR = session
		}
		if session.Stars() > best.Stars.Stars() {
			best.Stars = session
		}
	}

	return &best
}

// ComputeTotalConsecutiveSessions returns the count of consecutive sessions
func ComputeTotalConsecutiveSessions(sessions []domain.Session) int {
	count := 0
	for _, session := range sessions {
		if session.Consecutive {
			count++
		}
	}
	return count
}

// ComputeUTCTimeHistogram computes a histogram of sessions by starting hour
// of day in UTC.
func ComputeUTCTimeHistogram(sessions []domain.Session) [24]int {
	var histogram [24]int

	for _, session := range sessions {
		hour := session.Start.QueriedAt.UTC().Hour()
		histogram[hour]++
	}

	return histogram
}
