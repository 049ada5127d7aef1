package app

import (
	"slices"
	"time"

	"github.com/Amund211/prismarine/internal/domain"
)

// Samples closer than 1% of the charted span are merged, but never less
// than a minute apart
const minClusterThreshold = time.Minute

// ClusterSamples merges chronologically sorted samples that are too close
// in time to render as distinct chart points. Samples within the threshold
// of a later sample are rewritten to share its timestamp. The output has
// the same length and order as the input.
//
// NOTE: The threshold comparison is inclusive, so equally spaced samples
// each exactly at the threshold chain into one cluster. Real timestamps
// have millisecond granularity, so exact collisions are rare.
func ClusterSamples[S any](
	samples []S,
	queriedAt func(S) time.Time,
	withQueriedAt func(S, time.Time) S,
) []S {
	if len(samples) == 0 {
		return []S{}
	}

	span := queriedAt(samples[len(samples)-1]).Sub(queriedAt(samples[0]))
	threshold := span / 100
	if threshold < minClusterThreshold {
		threshold = minClusterThreshold
	}

	clustered := make([]S, 0, len(samples))

	// Walk backward so each cluster is anchored at its latest sample
	i := len(samples) - 1
	for i >= 0 {
		anchor := queriedAt(samples[i])
		clustered = append(clustered, samples[i])

		j := i - 1
		for j >= 0 && anchor.Sub(queriedAt(samples[j])) <= threshold {
			clustered = append(clustered, withQueriedAt(samples[j], anchor))
			j--
		}
		i = j
	}

	slices.Reverse(clustered)

	return clustered
}

// ChartDataPoint is one rendered point of a history chart. Values maps each
// requested stat to its computed value at that time; nil values mark stats
// that could not be computed for the snapshot.
type ChartDataPoint struct {
	QueriedAt time.Time
	Values    map[domain.Stat]*float64
}

// GenerateChartData computes the requested stats for every snapshot in
// history and clusters the resulting points for rendering. Points that end
// up sharing a timestamp after clustering are collapsed into one, with
// later points overwriting earlier ones on conflicting stats.
func GenerateChartData(
	history []domain.PlayerPIT,
	gamemode domain.Gamemode,
	stats []domain.Stat,
	variant domain.Variant,
) []ChartDataPoint {
	points := make([]ChartDataPoint, 0, len(history))
	for i := range history {
		values := make(map[domain.Stat]*float64, len(stats))
		for _, stat := range stats {
			values[stat] = ComputeStat(&history[i], gamemode, stat, variant, history)
		}
		points = append(points, ChartDataPoint{
			QueriedAt: history[i].QueriedAt,
			Values:    values,
		})
	}

	clustered := ClusterSamples(
		points,
		func(p ChartDataPoint) time.Time { return p.QueriedAt },
		func(p ChartDataPoint, queriedAt time.Time) ChartDataPoint {
			p.QueriedAt = queriedAt
			return p
		},
	)

	merged := make([]ChartDataPoint, 0, len(clustered))
	for _, point := range clustered {
		if n := len(merged); n > 0 && merged[n-1].QueriedAt.Equal(point.QueriedAt) {
			for stat, value := range point.Values {
				merged[n-1].Values[stat] = value
			}
			continue
		}
		merged = append(merged, point)
	}

	return merged
}
