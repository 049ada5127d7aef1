package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/reporting"
)

type GetChartData = func(
	ctx context.Context,
	uuid string,
	start, end time.Time,
	limit int,
	gamemode domain.Gamemode,
	stats []domain.Stat,
	variant domain.Variant,
) ([]ChartDataPoint, error)

func BuildGetChartData(
	getHistory GetHistory,
) GetChartData {
	return func(ctx context.Context,
		uuid string,
		start, end time.Time,
		limit int,
		gamemode domain.Gamemode,
		stats []domain.Stat,
		variant domain.Variant,
	) ([]ChartDataPoint, error) {
		if !gamemode.Valid() || !variant.Valid() {
			err := fmt.Errorf("invalid gamemode or variant")
			reporting.Report(ctx, err, map[string]string{
				"uuid":     uuid,
				"gamemode": string(gamemode),
				"variant":  string(variant),
			})
			return nil, err
		}
		for _, stat := range stats {
			if !stat.Valid() {
				err := fmt.Errorf("invalid stat")
				reporting.Report(ctx, err, map[string]string{
					"uuid": uuid,
					"stat": string(stat),
				})
				return nil, err
			}
		}

		// NOTE: GetHistory implementations handle their own error reporting
		history, err := getHistory(ctx, uuid, start, end, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to get history: %w", err)
		}

		return GenerateChartData(history, gamemode, stats, variant), nil
	}
}
