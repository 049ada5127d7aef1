package app

import (
	"github.com/Amund211/prismarine/internal/domain"
)

// ComputeStat computes a stat for a player either as its absolute value
// ("overall") or as the delta gained since the earliest usable snapshot in
// history ("session").
//
// Session values for quotient stats are re-derived from the session deltas
// of their components. Subtracting the overall ratios would be wrong since
// ratios do not subtract linearly.
//
// Returns nil when the value cannot be computed (hidden winstreak, or no
// baseline in the history window).
func ComputeStat(
	player *domain.PlayerPIT,
	gamemode domain.Gamemode,
	stat domain.Stat,
	variant domain.Variant,
	history []domain.PlayerPIT,
) *float64 {
	if variant == domain.VariantOverall {
		return domain.GetStat(player, gamemode, stat)
	}

	value := func(v float64) *float64 {
		return &v
	}

	switch stat.Kind() {
	case domain.StatKindQuotient:
		dividendStat, divisorStat, ok := stat.QuotientComponents()
		if !ok {
			return nil
		}
		dividend := ComputeStat(player, gamemode, dividendStat, domain.VariantSession, history)
		divisor := ComputeStat(player, gamemode, divisorStat, domain.VariantSession, history)
		if dividend == nil || divisor == nil {
			return nil
		}
		return value(domain.Ratio(*dividend, *divisor))
	case domain.StatKindComposite:
		fkdr := ComputeStat(player, gamemode, domain.StatFKDR, domain.VariantSession, history)
		stars := ComputeStat(player, gamemode, domain.StatStars, domain.VariantSession, history)
		if fkdr == nil || stars == nil {
			return nil
		}
		return value(*fkdr * *fkdr * *stars)
	case domain.StatKindLinear:
		baseline := findBaseline(gamemode, stat, history)
		current := domain.GetStat(player, gamemode, stat)
		if baseline == nil || current == nil {
			return nil
		}
		return value(*current - *baseline)
	}

	return nil
}

// findBaseline returns the stat value of the earliest snapshot in history
// that yields a usable value. Older snapshots may have hidden values for
// some stats, so we can't just use the first entry.
func findBaseline(gamemode domain.Gamemode, stat domain.Stat, history []domain.PlayerPIT) *float64 {
	for i := range history {
		if value := domain.GetStat(&history[i], gamemode, stat); value != nil {
			return value
		}
	}
	return nil
}
