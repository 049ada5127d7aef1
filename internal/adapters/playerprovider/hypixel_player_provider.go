package playerprovider

import (
	"context"
	"fmt"

	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/logging"
	"github.com/Amund211/prismarine/internal/reporting"
	"github.com/Amund211/prismarine/internal/strutils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type hypixelPlayerProvider struct {
	hypixelAPI HypixelAPI

	requestCount metric.Int64Counter
}

func NewHypixelPlayerProvider(hypixelAPI HypixelAPI) (PlayerProvider, error) {
	meter := otel.Meter("prismarine/playerprovider")

	requestCount, err := meter.Int64Counter(
		"playerprovider/request_count",
		metric.WithDescription("Total number of upstream player data requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request count metric: %w", err)
	}

	return &hypixelPlayerProvider{
		hypixelAPI:   hypixelAPI,
		requestCount: requestCount,
	}, nil
}

func (h *hypixelPlayerProvider) GetPlayer(ctx context.Context, uuid string) (*domain.PlayerPIT, error) {
	if !strutils.UUIDIsNormalized(uuid) {
		logging.FromContext(ctx).ErrorContext(ctx, "UUID is not normalized", "uuid", uuid)
		err := fmt.Errorf("UUID is not normalized")
		reporting.Report(ctx, err, map[string]string{
			"uuid": uuid,
		})
		return nil, err
	}

	playerData, statusCode, queriedAt, err := h.hypixelAPI.GetPlayerData(ctx, uuid)
	if err != nil {
		// NOTE: HypixelAPI implementations handle their own error reporting
		return nil, fmt.Errorf("failed to get player data: %w", err)
	}

	player, err := hypixelAPIResponseToPlayerPIT(ctx, uuid, queriedAt, playerData, statusCode)

	h.requestCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("got_player", err == nil)))

	if err != nil {
		// NOTE: hypixelAPIResponseToPlayerPIT handles its own error reporting
		return nil, fmt.Errorf("failed to convert hypixel api response to player: %w", err)
	}

	return player, nil
}
