package ports

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/logging"
	"github.com/Amund211/prismarine/internal/ratelimiting"
	"github.com/Amund211/prismarine/internal/reporting"
	"github.com/Amund211/prismarine/internal/strutils"
)

func MakeGetChartDataHandler(
	getChartData app.GetChartData,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(4),
		ratelimiting.BurstSize(80),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)

	middleware := ComposeMiddlewares(
		buildMetricsMiddleware(),
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware("chartdata"),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, makeOnLimitExceeded(ipRateLimiter)),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to read request body: %w", err))
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		request := struct {
			UUID     string    `json:"uuid"`
			Start    time.Time `json:"start"`
			End      time.Time `json:"end"`
			Limit    int       `json:"limit"`
			Gamemode string    `json:"gamemode"`
			Stats    []string  `json:"stats"`
			Variant  string    `json:"variant"`
		}{}
		err = json.Unmarshal(body, &request)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to parse request body: %w", err))
			http.Error(w, "Failed to parse request body", http.StatusBadRequest)
			return
		}

		uuid, err := strutils.NormalizeUUID(request.UUID)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to normalize uuid: %w", err), map[string]string{
				"rawUUID": request.UUID,
			})
			http.Error(w, "invalid uuid", http.StatusBadRequest)
			return
		}

		gamemode := domain.Gamemode(request.Gamemode)
		variant := domain.Variant(request.Variant)
		if !gamemode.Valid() || !variant.Valid() {
			http.Error(w, "invalid gamemode or variant", http.StatusBadRequest)
			return
		}

		stats := make([]domain.Stat, 0, len(request.Stats))
		for _, rawStat := range request.Stats {
			stat := domain.Stat(rawStat)
			if !stat.Valid() {
				http.Error(w, "invalid stat", http.StatusBadRequest)
				return
			}
			stats = append(stats, stat)
		}

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"uuid":     uuid,
			"gamemode": request.Gamemode,
			"variant":  request.Variant,
		})
		ctx = logging.AddMetaToContext(ctx,
			slog.String("uuid", uuid),
			slog.String("gamemode", request.Gamemode),
			slog.String("variant", request.Variant),
		)

		if request.Start.After(request.End) {
			reporting.Report(ctx, fmt.Errorf("start time is after end time"))
			http.Error(w, "Start time cannot be after end time", http.StatusBadRequest)
			return
		}

		chartData, err := getChartData(ctx, uuid, request.Start, request.End, request.Limit, gamemode, stats, variant)
		if err != nil {
			// NOTE: GetChartData implementations handle their own error reporting
			http.Error(w, "Failed to get chart data", http.StatusInternalServerError)
			return
		}

		marshalled, err := ChartDataToChartData(chartData)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert chart data to response: %w", err), map[string]string{
				"length": strconv.Itoa(len(chartData)),
			})
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info("Returning chart data")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}
