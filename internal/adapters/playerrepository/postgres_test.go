package playerrepository

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Amund211/prismarine/internal/adapters/database"
	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/domaintest"
)

func newPostgresPlayerRepository(t *testing.T, db *sqlx.DB, schema string) *PostgresPlayerRepository {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schema)))

	migrator := database.NewDatabaseMigrator(db, logger)

	err := migrator.Migrate(t.Context(), schema)
	require.NoError(t, err)

	return NewPostgresPlayerRepository(db, schema)
}

func countStored(t *testing.T, db *sqlx.DB, schema string, player *domain.PlayerPIT) int {
	t.Helper()

	playerData, err := playerToDataStorage(player)
	require.NoError(t, err)

	txx, err := db.Beginx()
	require.NoError(t, err)
	defer txx.Rollback()

	_, err = txx.Exec(fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(schema)))
	require.NoError(t, err)

	var count int
	err = txx.QueryRowx(
		"SELECT COUNT(*) FROM stats WHERE player_uuid = $1 AND player_data = $2 AND queried_at = $3",
		player.UUID, playerData, player.QueriedAt,
	).Scan(&count)
	require.NoError(t, err)

	return count
}

func TestPostgresPlayerRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	t.Parallel()

	ctx := t.Context()
	db, err := database.NewPostgresDatabase(database.LOCAL_CONNECTION_STRING)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Microsecond)

	t.Run("StorePlayer", func(t *testing.T) {
		t.Parallel()

		SCHEMA_NAME := "store_stats"
		p := newPostgresPlayerRepository(t, db, SCHEMA_NAME)

		t.Run("stores a snapshot", func(t *testing.T) {
			playerUUID := domaintest.NewUUID(t)
			player := domaintest.NewPlayerBuilder(playerUUID, now).WithGamesPlayed(10).BuildPtr()

			require.Equal(t, 0, countStored(t, db, SCHEMA_NAME, player))
			require.NoError(t, p.StorePlayer(ctx, player))
			require.Equal(t, 1, countStored(t, db, SCHEMA_NAME, player))
		})

		t.Run("rejects un-normalized uuids", func(t *testing.T) {
			player := domaintest.NewPlayerBuilder("01234567-89ab-cdef-0123-456789abcdef", now).BuildPtr()
			require.Error(t, p.StorePlayer(ctx, player))
		})

		t.Run("skips snapshots queried within a minute of an existing one", func(t *testing.T) {
			playerUUID := domaintest.NewUUID(t)
			player := domaintest.NewPlayerBuilder(playerUUID, now).WithGamesPlayed(10).BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, player))

			soonAfter := domaintest.NewPlayerBuilder(playerUUID, now.Add(30*time.Second)).WithGamesPlayed(11).BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, soonAfter))
			require.Equal(t, 0, countStored(t, db, SCHEMA_NAME, soonAfter))
		})

		t.Run("skips consecutive duplicates within an hour", func(t *testing.T) {
			playerUUID := domaintest.NewUUID(t)
			player := domaintest.NewPlayerBuilder(playerUUID, now).WithGamesPlayed(10).BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, player))

			duplicate := domaintest.NewPlayerBuilder(playerUUID, now.Add(10*time.Minute)).WithGamesPlayed(10).BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, duplicate))
			require.Equal(t, 0, countStored(t, db, SCHEMA_NAME, duplicate))

			changed := domaintest.NewPlayerBuilder(playerUUID, now.Add(20*time.Minute)).WithGamesPlayed(11).BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, changed))
			require.Equal(t, 1, countStored(t, db, SCHEMA_NAME, changed))
		})
	})

	t.Run("GetHistory", func(t *testing.T) {
		t.Parallel()

		SCHEMA_NAME := "get_history"
		p := newPostgresPlayerRepository(t, db, SCHEMA_NAME)

		playerUUID := domaintest.NewUUID(t)
		start := now.Add(-24 * time.Hour)
		for i := 0; i < 12; i++ {
			player := domaintest.NewPlayerBuilder(playerUUID, start.Add(time.Duration(i)*2*time.Hour)).
				WithGamesPlayed(i).
				BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, player))
		}

		t.Run("invalid limit", func(t *testing.T) {
			_, err := p.GetHistory(ctx, playerUUID, start, now, 1)
			require.Error(t, err)

			_, err = p.GetHistory(ctx, playerUUID, start, now, 1001)
			require.Error(t, err)
		})

		t.Run("end before start", func(t *testing.T) {
			_, err := p.GetHistory(ctx, playerUUID, now, start, 10)
			require.Error(t, err)
		})

		t.Run("first and last snapshot of each interval", func(t *testing.T) {
			history, err := p.GetHistory(ctx, playerUUID, start, now, 4)
			require.NoError(t, err)

			// 2 intervals, first and last of each
			require.Len(t, history, 4)
			for i := 1; i < len(history); i++ {
				require.True(t, history[i-1].QueriedAt.Before(history[i].QueriedAt))
			}
			require.Equal(t, 0, history[0].Overall.GamesPlayed)
			require.Equal(t, 11, history[3].Overall.GamesPlayed)
		})

		t.Run("unknown player", func(t *testing.T) {
			history, err := p.GetHistory(ctx, domaintest.NewUUID(t), start, now, 10)
			require.NoError(t, err)
			require.Empty(t, history)
		})
	})

	t.Run("GetPlayerPITs", func(t *testing.T) {
		t.Parallel()

		SCHEMA_NAME := "get_player_pits"
		p := newPostgresPlayerRepository(t, db, SCHEMA_NAME)

		playerUUID := domaintest.NewUUID(t)
		start := now.Add(-10 * time.Hour)
		for i := 0; i < 5; i++ {
			player := domaintest.NewPlayerBuilder(playerUUID, start.Add(time.Duration(i)*2*time.Hour)).
				WithGamesPlayed(i).
				WithExperience(500 + float64(i)*1000).
				BuildPtr()
			require.NoError(t, p.StorePlayer(ctx, player))
		}

		t.Run("returns all snapshots in interval in order", func(t *testing.T) {
			pits, err := p.GetPlayerPITs(ctx, playerUUID, start, now)
			require.NoError(t, err)

			require.Len(t, pits, 5)
			for i, pit := range pits {
				require.Equal(t, playerUUID, pit.UUID)
				require.Equal(t, i, pit.Overall.GamesPlayed)
				require.InDelta(t, 500+float64(i)*1000, pit.Experience, 1e-9)
			}
		})

		t.Run("interval bounds are inclusive", func(t *testing.T) {
			pits, err := p.GetPlayerPITs(ctx, playerUUID, start, start.Add(4*time.Hour))
			require.NoError(t, err)
			require.Len(t, pits, 3)
		})

		t.Run("empty interval", func(t *testing.T) {
			pits, err := p.GetPlayerPITs(ctx, playerUUID, now.Add(time.Hour), now.Add(2*time.Hour))
			require.NoError(t, err)
			require.Empty(t, pits)
		})
	})
}

func TestPlayerDataStorageRoundtrip(t *testing.T) {
	t.Parallel()

	winstreak := 5
	player := &domain.PlayerPIT{
		QueriedAt:  time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		UUID:       "0123456789abcdef0123456789abcdef",
		Experience: 1_087_000,
		Overall: domain.GamemodeStatsPIT{
			Winstreak:   &winstreak,
			GamesPlayed: 100,
			Wins:        60,
			FinalKills:  200,
		},
		Solo: domain.GamemodeStatsPIT{
			GamesPlayed: 10,
		},
	}

	data, err := playerToDataStorage(player)
	require.NoError(t, err)

	restored, err := dbStatToPlayerPIT(dbStat{
		ID:                "some-id",
		DataFormatVersion: DATA_FORMAT_VERSION,
		UUID:              player.UUID,
		QueriedAt:         player.QueriedAt,
		PlayerData:        data,
	})
	require.NoError(t, err)

	require.Equal(t, player.UUID, restored.UUID)
	require.Equal(t, player.QueriedAt, restored.QueriedAt)
	require.InDelta(t, player.Experience, restored.Experience, 1e-9)
	require.Equal(t, player.Overall, restored.Overall)
	require.Equal(t, player.Solo, restored.Solo)
}

func TestPlayerToDataStorageDefaultExperience(t *testing.T) {
	t.Parallel()

	player := &domain.PlayerPIT{
		UUID:       "0123456789abcdef0123456789abcdef",
		Experience: 500,
	}

	data, err := playerToDataStorage(player)
	require.NoError(t, err)
	// Default experience is omitted from storage
	require.NotContains(t, string(data), "xp")

	restored, err := dbStatToPlayerPIT(dbStat{PlayerData: data})
	require.NoError(t, err)
	require.InDelta(t, 500, restored.Experience, 1e-9)
}
