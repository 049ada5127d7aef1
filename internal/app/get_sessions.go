package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/prismarine/internal/adapters/playerrepository"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/logging"
	"github.com/Amund211/prismarine/internal/reporting"
	"github.com/Amund211/prismarine/internal/strutils"
)

type GetSessions = func(
	ctx context.Context,
	uuid string,
	start, end time.Time,
) ([]domain.Session, error)

func BuildGetSessions(
	repo playerrepository.PlayerRepository,
	updatePlayerInInterval UpdatePlayerInInterval,
) GetSessions {
	return func(ctx context.Context,
		uuid string,
		start, end time.Time,
	) ([]domain.Session, error) {
		logger := logging.FromContext(ctx)

		if !strutils.UUIDIsNormalized(uuid) {
			err := fmt.Errorf("UUID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"uuid":  uuid,
				"start": start.Format(time.RFC3339),
				"end":   end.Format(time.RFC3339),
			})
			return nil, err
		}

		err := updatePlayerInInterval(ctx, uuid, start, end)
		if err != nil {
			// NOTE: UpdatePlayerInInterval implementations handle their own error reporting
			logger.ErrorContext(ctx, "Failed to update player data in interval", "error", err)

			// NOTE: We continue even though we failed to update player data
		}

		stats, err := repo.GetPlayerPITs(ctx, uuid, start, end)
		if err != nil {
			// NOTE: PlayerRepository implementations handle their own error reporting
			return nil, fmt.Errorf("failed to get playerpits: %w", err)
		}

		sessions := ComputeSessions(stats, start, end)

		// The first and last known snapshot in the interval bound the gaps
		// we can extrapolate sessions into
		envelope, err := repo.GetHistory(ctx, uuid, start, end, 2)
		if err != nil {
			// NOTE: PlayerRepository implementations handle their own error reporting
			logger.ErrorContext(ctx, "Failed to get history envelope", "error", err)

			// NOTE: We can still return the recorded sessions without extrapolating
			return sessions, nil
		}

		return AddExtrapolatedSessions(sessions, envelope), nil
	}
}
