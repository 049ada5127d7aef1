package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/prismarine/internal/adapters/playerrepository"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/reporting"
	"github.com/Amund211/prismarine/internal/strutils"
)

type GetStatProgression = func(
	ctx context.Context,
	uuid string,
	trackingStart, trackingEnd time.Time,
	gamemode domain.Gamemode,
	stat domain.Stat,
) (domain.StatProgression, error)

func BuildGetStatProgression(
	repo playerrepository.PlayerRepository,
	getAndPersistPlayerWithCache GetAndPersistPlayerWithCache,
) GetStatProgression {
	return func(ctx context.Context,
		uuid string,
		trackingStart, trackingEnd time.Time,
		gamemode domain.Gamemode,
		stat domain.Stat,
	) (domain.StatProgression, error) {
		if !strutils.UUIDIsNormalized(uuid) {
			err := fmt.Errorf("UUID is not normalized")
			reporting.Report(ctx, err, map[string]string{
				"uuid": uuid,
			})
			return domain.StatProgression{}, err
		}

		if !gamemode.Valid() || !stat.Valid() {
			err := fmt.Errorf("invalid gamemode or stat")
			reporting.Report(ctx, err, map[string]string{
				"uuid":     uuid,
				"gamemode": string(gamemode),
				"stat":     string(stat),
			})
			return domain.StatProgression{}, err
		}

		// NOTE: GetAndPersistPlayerWithCache implementations handle their own error reporting
		current, err := getAndPersistPlayerWithCache(ctx, uuid)
		if err != nil {
			current = nil
		}

		// First and last known snapshot in the tracking window
		trackingHistory, err := repo.GetHistory(ctx, uuid, trackingStart, trackingEnd, 2)
		if err != nil {
			// NOTE: PlayerRepository implementations handle their own error reporting
			return domain.StatProgression{}, fmt.Errorf("failed to get tracking history: %w", err)
		}

		return ComputeStatProgression(trackingHistory, current, gamemode, stat)
	}
}
