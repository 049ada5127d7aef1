package ports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/logging"
	"github.com/Amund211/prismarine/internal/ratelimiting"
	"github.com/Amund211/prismarine/internal/reporting"
	"github.com/Amund211/prismarine/internal/strutils"
)

// Expected outcomes for players with too sparse a tracking history. These
// are returned as data so clients can show the reason to the user.
var expectedProgressionErrors = []error{
	domain.ErrNoProgressionData,
	domain.ErrNotEnoughData,
	domain.ErrNoCurrentStats,
	domain.ErrNoProgress,
	domain.ErrProgressionNotImplemented,
}

func MakeGetStatProgressionHandler(
	getStatProgression app.GetStatProgression,
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
		reporting.NewAddMetaMiddleware("progression"),
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
			UUID          string    `json:"uuid"`
			TrackingStart time.Time `json:"trackingStart"`
			TrackingEnd   time.Time `json:"trackingEnd"`
			Gamemode      string    `json:"gamemode"`
			Stat          string    `json:"stat"`
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
		stat := domain.Stat(request.Stat)
		if !gamemode.Valid() || !stat.Valid() {
			http.Error(w, "invalid gamemode or stat", http.StatusBadRequest)
			return
		}

		ctx = reporting.AddExtrasToContext(ctx, map[string]string{
			"uuid":     uuid,
			"gamemode": request.Gamemode,
			"stat":     request.Stat,
		})
		ctx = logging.AddMetaToContext(ctx,
			slog.String("uuid", uuid),
			slog.String("gamemode", request.Gamemode),
			slog.String("stat", request.Stat),
		)

		if request.TrackingStart.After(request.TrackingEnd) {
			reporting.Report(ctx, fmt.Errorf("tracking start time is after tracking end time"))
			http.Error(w, "Tracking start time cannot be after tracking end time", http.StatusBadRequest)
			return
		}

		progression, err := getStatProgression(ctx, uuid, request.TrackingStart, request.TrackingEnd, gamemode, stat)
		if err != nil {
			for _, expected := range expectedProgressionErrors {
				if errors.Is(err, expected) {
					writeProgressionError(w, expected.Error())
					return
				}
			}
			if errors.Is(err, domain.ErrTooManyDataPoints) {
				reporting.Report(ctx, err)
				http.Error(w, "Failed to get stat progression", http.StatusInternalServerError)
				return
			}
			// NOTE: GetStatProgression implementations handle their own error reporting
			http.Error(w, "Failed to get stat progression", http.StatusInternalServerError)
			return
		}

		marshalled, err := StatProgressionToProgressionData(progression)
		if err != nil {
			reporting.Report(ctx, fmt.Errorf("failed to convert progression to response: %w", err))
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}

		logging.FromContext(ctx).Info("Returning progression data")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(marshalled)
	}

	return middleware(handler)
}

func writeProgressionError(w http.ResponseWriter, reason string) {
	response := struct {
		Error string `json:"error"`
	}{Error: reason}

	marshalled, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(marshalled)
}
