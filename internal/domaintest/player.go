package domaintest

import (
	"time"

	"github.com/Amund211/prismarine/internal/domain"
)

type playerBuilder struct {
	player *domain.PlayerPIT
}

func (pb *playerBuilder) WithGamesPlayed(gamesPlayed int) *playerBuilder {
	pb.player.Overall.GamesPlayed = gamesPlayed
	return pb
}

func (pb *playerBuilder) WithWins(wins int) *playerBuilder {
	pb.player.Overall.Wins = wins
	return pb
}

func (pb *playerBuilder) WithFinalKills(finalKills int) *playerBuilder {
	pb.player.Overall.FinalKills = finalKills
	return pb
}

func (pb *playerBuilder) WithFinalDeaths(finalDeaths int) *playerBuilder {
	pb.player.Overall.FinalDeaths = finalDeaths
	return pb
}

func (pb *playerBuilder) WithKills(kills int) *playerBuilder {
	pb.player.Overall.Kills = kills
	return pb
}

func (pb *playerBuilder) WithDeaths(deaths int) *playerBuilder {
	pb.player.Overall.Deaths = deaths
	return pb
}

func (pb *playerBuilder) WithWinstreak(winstreak int) *playerBuilder {
	pb.player.Overall.Winstreak = &winstreak
	return pb
}

func (pb *playerBuilder) WithExperience(exp float64) *playerBuilder {
	pb.player.Experience = exp
	return pb
}

func (pb *playerBuilder) WithOverallStats(stats domain.GamemodeStatsPIT) *playerBuilder {
	pb.player.Overall = stats
	return pb
}

func (pb *playerBuilder) WithSoloStats(stats domain.GamemodeStatsPIT) *playerBuilder {
	pb.player.Solo = stats
	return pb
}

func (pb *playerBuilder) WithDoublesStats(stats domain.GamemodeStatsPIT) *playerBuilder {
	pb.player.Doubles = stats
	return pb
}

func (pb *playerBuilder) WithThreesStats(stats domain.GamemodeStatsPIT) *playerBuilder {
	pb.player.Threes = stats
	return pb
}

func (pb *playerBuilder) WithFoursStats(stats domain.GamemodeStatsPIT) *playerBuilder {
	pb.player.Fours = stats
	return pb
}

func (pb *playerBuilder) WithQueriedAt(queriedAt time.Time) *playerBuilder {
	pb.player.QueriedAt = queriedAt
	return pb
}

func (pb *playerBuilder) Build() domain.PlayerPIT {
	return *pb.player
}

func (pb *playerBuilder) BuildPtr() *domain.PlayerPIT {
	// Make a copy, so further mutations to the builder don't affect the returned player
	player := pb.Build()
	return &player
}

func NewPlayerBuilder(uuid string, queriedAt time.Time) *playerBuilder {
	player := &domain.PlayerPIT{
		QueriedAt:  queriedAt,
		UUID:       uuid,
		Experience: 500,
	}
	return &playerBuilder{
		player: player,
	}
}
