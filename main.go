package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Amund211/prismarine/internal/adapters/cache"
	"github.com/Amund211/prismarine/internal/adapters/database"
	"github.com/Amund211/prismarine/internal/adapters/playerprovider"
	"github.com/Amund211/prismarine/internal/adapters/playerrepository"
	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/config"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/logging"
	"github.com/Amund211/prismarine/internal/ports"
	"github.com/Amund211/prismarine/internal/reporting"
	"github.com/Amund211/prismarine/internal/telemetry"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "golang.org/x/crypto/x509roots/fallback"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "prismoverlay.com"
const STAGING_DOMAIN_SUFFIX = "rainbow-ctx.pages.dev"

const GCP_PROJECT = "prismarine-stats"

func main() {
	ctx := context.Background()

	instanceID := uuid.New().String()
	baseHandler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(logging.NewGoogleCloudTracingLogHandler(baseHandler, GCP_PROJECT)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	otelShutdown, err := telemetry.SetupOTelSDK(ctx, "prismarine")
	if err != nil {
		fail("Failed to set up telemetry", "error", err.Error())
	}
	defer func() {
		err := otelShutdown(context.Background())
		if err != nil {
			logger.Error("Failed to shut down telemetry", "error", err.Error())
		}
	}()

	var playerCache cache.Cache[*domain.PlayerPIT]
	if config.RedisAddr() != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: config.RedisAddr(),
		})
		playerCache = cache.NewRedisCache[*domain.PlayerPIT](redisClient, "player", 1*time.Minute)
		logger.Info("Using redis player cache")
	} else {
		playerCache = cache.NewTTLCache[*domain.PlayerPIT](1 * time.Minute)
		logger.Info("Using in-process player cache")
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	hypixelAPI, err := playerprovider.NewHypixelAPIOrMock(config, httpClient)
	if err != nil {
		fail("Failed to initialize Hypixel API", "error", err.Error())
	}
	logger.Info("Initialized Hypixel API")

	playerProvider, err := playerprovider.NewHypixelPlayerProvider(hypixelAPI)
	if err != nil {
		fail("Failed to initialize player provider", "error", err.Error())
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewCloudsqlPostgresDatabase(config)
	if err != nil {
		fail("Failed to initialize database connection", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	repositorySchemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, repositorySchemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	playerRepo := playerrepository.NewPostgresPlayerRepository(db, repositorySchemaName)
	logger.Info("Initialized PlayerRepository")

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	getAndPersistPlayerWithCache := app.BuildGetAndPersistPlayerWithCache(playerCache, playerProvider, playerRepo)
	updatePlayerInInterval := app.BuildUpdatePlayerInInterval(getAndPersistPlayerWithCache, time.Now)

	getHistory := app.BuildGetHistory(playerRepo, updatePlayerInInterval)

	getSessions := app.BuildGetSessions(playerRepo, updatePlayerInInterval)

	getStatProgression := app.BuildGetStatProgression(playerRepo, getAndPersistPlayerWithCache)

	getChartData := app.BuildGetChartData(getHistory)

	mux := http.NewServeMux()

	mux.HandleFunc(
		"OPTIONS /v1/history",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"POST /v1/history",
		ports.MakeGetHistoryHandler(
			getHistory,
			allowedOrigins,
			logger.With("port", "history"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/sessions",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"POST /v1/sessions",
		ports.MakeGetSessionsHandler(
			getSessions,
			allowedOrigins,
			logger.With("port", "sessions"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/progression",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"POST /v1/progression",
		ports.MakeGetStatProgressionHandler(
			getStatProgression,
			allowedOrigins,
			logger.With("port", "progression"),
			sentryMiddleware,
		),
	)

	mux.HandleFunc(
		"OPTIONS /v1/chartdata",
		ports.BuildCORSHandler(allowedOrigins),
	)
	mux.HandleFunc(
		"POST /v1/chartdata",
		ports.MakeGetChartDataHandler(
			getChartData,
			allowedOrigins,
			logger.With("port", "chartdata"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), otelhttp.NewHandler(mux, "prismarine"))
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
