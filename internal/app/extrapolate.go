package app

import (
	"github.com/Amund211/prismarine/internal/domain"
)

// differentStats reports whether any play happened between the two
// snapshots. A gap with identical stats would make a no-op session.
func differentStats(a, b *domain.PlayerPIT) bool {
	return a.Overall.GamesPlayed != b.Overall.GamesPlayed || a.Experience != b.Experience
}

func consecutiveStats(a, b *domain.PlayerPIT) bool {
	diff := a.Overall.GamesPlayed - b.Overall.GamesPlayed
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

func extrapolatedSession(start, end domain.PlayerPIT) domain.Session {
	return domain.Session{
		Start:        start,
		End:          end,
		Extrapolated: true,
		Consecutive:  consecutiveStats(&start, &end),
	}
}

// AddExtrapolatedSessions fills the gaps in a chronologically sorted,
// non-overlapping list of recorded sessions with extrapolated sessions, so
// that the output covers the whole queried interval.
//
// envelope must be the first and last known snapshot in the queried
// interval (a 2-element history). Without exactly a start/end pair we can't
// safely extrapolate, and the recorded sessions are returned unchanged.
//
// Gaps where the stats did not change produce no session.
func AddExtrapolatedSessions(sessions []domain.Session, envelope []domain.PlayerPIT) []domain.Session {
	if len(envelope) != 2 {
		return sessions
	}

	envelopeStart := envelope[0]
	envelopeEnd := envelope[1]

	if len(sessions) == 0 {
		if !differentStats(&envelopeStart, &envelopeEnd) {
			return sessions
		}
		return []domain.Session{extrapolatedSession(envelopeStart, envelopeEnd)}
	}

	result := make([]domain.Session, 0, 2*len(sessions)+1)

	if differentStats(&envelopeStart, &sessions[0].Start) {
		result = append(result, extrapolatedSession(envelopeStart, sessions[0].Start))
	}

	for i := range sessions {
		if i > 0 && differentStats(&sessions[i-1].End, &sessions[i].Start) {
			result = append(result, extrapolatedSession(sessions[i-1].End, sessions[i].Start))
		}
		result = append(result, sessions[i])
	}

	if differentStats(&sessions[len(sessions)-1].End, &envelopeEnd) {
		result = append(result, extrapolatedSession(sessions[len(sessions)-1].End, envelopeEnd))
	}

	return result
}
