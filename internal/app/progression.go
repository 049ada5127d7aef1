package app

import (
	"math"

	"github.com/Amund211/prismarine/internal/domain"
)

// ComputeStatProgression projects when a stat will cross its next milestone
// given the trend over a 2-point tracking window.
//
// Expected degenerate inputs are returned as the tagged progression errors
// in the domain package, never as panics.
func ComputeStatProgression(
	trackingHistory []domain.PlayerPIT,
	current *domain.PlayerPIT,
	gamemode domain.Gamemode,
	stat domain.Stat,
) (domain.StatProgression, error) {
	if trackingHistory == nil {
		return domain.StatProgression{}, domain.ErrNoProgressionData
	}
	if len(trackingHistory) < 2 {
		return domain.StatProgression{}, domain.ErrNotEnoughData
	}
	if len(trackingHistory) > 2 {
		return domain.StatProgression{}, domain.ErrTooManyDataPoints
	}
	if current == nil {
		return domain.StatProgression{}, domain.ErrNoCurrentStats
	}

	trackStart := &trackingHistory[0]
	trackEnd := &trackingHistory[1]

	daysElapsed := trackEnd.QueriedAt.Sub(trackStart.QueriedAt).Hours() / 24

	switch {
	case stat == domain.StatStars:
		return starsProgression(trackStart, trackEnd, current, gamemode, daysElapsed)
	case stat.Kind() == domain.StatKindQuotient:
		return quotientProgression(trackStart, trackEnd, current, gamemode, stat, daysElapsed)
	case stat == domain.StatWinstreak || stat.Kind() == domain.StatKindComposite:
		return domain.StatProgression{}, domain.ErrProgressionNotImplemented
	default:
		return linearProgression(trackStart, trackEnd, current, gamemode, stat, daysElapsed)
	}
}

// counterValue reads a linear counter off a snapshot. Linear counters other
// than winstreak are never nil, and winstreak never reaches the projection
// code paths.
func counterValue(player *domain.PlayerPIT, gamemode domain.Gamemode, stat domain.Stat) float64 {
	value := domain.GetStat(player, gamemode, stat)
	if value == nil {
		return 0
	}
	return *value
}

// nextMagnitudeMilestone picks the next multiple of the value's
// order-of-magnitude power of 10 (427 -> 500, 150 -> 200, 99 -> 100).
func nextMagnitudeMilestone(value float64) float64 {
	if value < 1 {
		return 1
	}
	magnitude := math.Pow(10, math.Floor(math.Log10(value)))
	return (math.Floor(value/magnitude) + 1) * magnitude
}

func linearProgression(
	trackStart, trackEnd, current *domain.PlayerPIT,
	gamemode domain.Gamemode,
	stat domain.Stat,
	daysElapsed float64,
) (domain.StatProgression, error) {
	startValue := counterValue(trackStart, gamemode, stat)
	endValue := counterValue(trackEnd, gamemode, stat)
	currentValue := counterValue(current, gamemode, stat)

	increasePerDay := (endValue - startValue) / daysElapsed
	if increasePerDay == 0 {
		// Can't project a milestone with zero rate
		return domain.StatProgression{}, domain.ErrNoProgress
	}

	milestone := nextMagnitudeMilestone(currentValue)

	return domain.StatProgression{
		Gamemode:           gamemode,
		Stat:               stat,
		CurrentValue:       currentValue,
		NextMilestoneValue: milestone,
		TrendingUpward:     true,
		DaysUntilMilestone: (milestone - currentValue) / increasePerDay,
		ProgressPerDay:     increasePerDay,
	}, nil
}

func starsProgression(
	trackStart, trackEnd, current *domain.PlayerPIT,
	gamemode domain.Gamemode,
	daysElapsed float64,
) (domain.StatProgression, error) {
	expPerDay := (trackEnd.Experience - trackStart.Experience) / daysElapsed

	// Approximation: treats every level as costing the prestige average,
	// ignoring the reduced costs of the first levels after a prestige.
	starsPerDay := expPerDay / (float64(domain.ExperiencePerPrestige) / 100)

	currentStars := domain.ExperienceToStars(int64(current.Experience))
	nextPrestige := (math.Floor(currentStars/100) + 1) * 100
	nextPrestigeExp := float64(domain.StarsToExperience(int(nextPrestige)))

	return domain.StatProgression{
		Gamemode:           gamemode,
		Stat:               domain.StatStars,
		CurrentValue:       currentStars,
		NextMilestoneValue: nextPrestige,
		TrendingUpward:     true,
		DaysUntilMilestone: (nextPrestigeExp - current.Experience) / expPerDay,
		ProgressPerDay:     starsPerDay,
	}, nil
}

func quotientProgression(
	trackStart, trackEnd, current *domain.PlayerPIT,
	gamemode domain.Gamemode,
	stat domain.Stat,
	daysElapsed float64,
) (domain.StatProgression, error) {
	dividendStat, divisorStat, ok := stat.QuotientComponents()
	if !ok {
		return domain.StatProgression{}, domain.ErrProgressionNotImplemented
	}

	sessionDividend := counterValue(trackEnd, gamemode, dividendStat) - counterValue(trackStart, gamemode, dividendStat)
	sessionDivisor := counterValue(trackEnd, gamemode, divisorStat) - counterValue(trackStart, gamemode, divisorStat)
	sessionQuotient := domain.Ratio(sessionDividend, sessionDivisor)

	currentDividend := counterValue(current, gamemode, dividendStat)
	currentDivisor := counterValue(current, gamemode, divisorStat)
	currentQuotient := domain.Ratio(currentDividend, currentDivisor)

	quotient := &domain.QuotientProgression{
		DividendPerDay:  sessionDividend / daysElapsed,
		DivisorPerDay:   sessionDivisor / daysElapsed,
		SessionQuotient: sessionQuotient,
	}

	if currentDivisor == 0 && sessionDivisor == 0 {
		// The quotient degenerates to the dividend itself, so project the
		// dividend counter alone and repackage the result.
		progression, err := linearProgression(trackStart, trackEnd, current, gamemode, dividendStat, daysElapsed)
		if err != nil {
			return domain.StatProgression{}, err
		}
		progression.Stat = stat
		progression.TrendingUpward = true
		progression.Quotient = quotient
		return progression, nil
	}

	// With no new divisor entries the quotient can only move up: either
	// pure dividend gain (no asymptote), or no progress at all, which is
	// reported as an upward stall below.
	trendingUpward := sessionDivisor == 0 || sessionQuotient >= currentQuotient

	var milestone float64
	if trendingUpward {
		milestone = math.Floor(currentQuotient) + 1
	} else {
		milestone = math.Ceil(currentQuotient) - 1
	}

	stalled := false
	if sessionDividend == 0 && sessionDivisor == 0 {
		// No progress on either component during the tracking window
		stalled = true
	}
	if sessionQuotient == currentQuotient {
		// Projected quotient stays exactly where it is
		stalled = true
	}
	if sessionDivisor > 0 {
		// The projected quotient converges to sessionQuotient, so any
		// milestone at or beyond the asymptote is unreachable
		if trendingUpward && milestone >= sessionQuotient {
			stalled = true
		}
		if !trendingUpward && milestone <= sessionQuotient {
			stalled = true
		}
	}

	progression := domain.StatProgression{
		Gamemode:           gamemode,
		Stat:               stat,
		CurrentValue:       currentQuotient,
		NextMilestoneValue: milestone,
		TrendingUpward:     trendingUpward,
		Quotient:           quotient,
	}

	if stalled {
		progression.DaysUntilMilestone = math.Inf(1)
		progression.ProgressPerDay = 0
		return progression, nil
	}

	// Solve (currentDividend + dividendPerDay*t) / (currentDivisor + divisorPerDay*t) = milestone
	// for t
	daysUntilMilestone := (milestone*currentDivisor - currentDividend) /
		(quotient.DividendPerDay - milestone*quotient.DivisorPerDay)

	progression.DaysUntilMilestone = daysUntilMilestone
	progression.ProgressPerDay = (milestone - currentQuotient) / daysUntilMilestone

	return progression, nil
}
