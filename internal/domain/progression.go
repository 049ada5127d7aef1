package domain

// StatProgression describes how a single stat is trending, and when it is
// projected to cross its next milestone. Recomputed on demand, never
// persisted.
type StatProgression struct {
	Gamemode Gamemode
	Stat     Stat

	CurrentValue       float64
	NextMilestoneValue float64
	TrendingUpward     bool

	// DaysUntilMilestone is +Inf when the current trend can never reach
	// the milestone
	DaysUntilMilestone float64
	ProgressPerDay     float64

	// Quotient is only set for quotient stats (fkdr, kdr)
	Quotient *QuotientProgression
}

// QuotientProgression carries the per-component rates backing a quotient
// stat projection.
type QuotientProgression struct {
	DividendPerDay float64
	DivisorPerDay  float64

	// SessionQuotient is the ratio of the deltas over the tracking window.
	// It is the asymptotic limit of the projected quotient when the
	// divisor is still increasing.
	SessionQuotient float64
}
