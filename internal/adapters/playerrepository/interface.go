package playerrepository

import (
	"context"
	"time"

	"github.com/Amund211/prismarine/internal/domain"
)

type PlayerRepository interface {
	StorePlayer(ctx context.Context, player *domain.PlayerPIT) error
	// GetHistory returns up to limit snapshots evenly sampled across the
	// interval (first and last snapshot of each subinterval). limit=2
	// yields the envelope of the interval: its first and last known
	// snapshot.
	GetHistory(ctx context.Context, playerUUID string, start, end time.Time, limit int) ([]domain.PlayerPIT, error)
	// GetPlayerPITs returns all snapshots in the interval in
	// chronological order
	GetPlayerPITs(ctx context.Context, playerUUID string, start, end time.Time) ([]domain.PlayerPIT, error)
}
