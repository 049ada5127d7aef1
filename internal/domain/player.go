package domain

import (
	"time"
)

type PlayerPIT struct {
	QueriedAt time.Time

	UUID string

	Displayname *string
	LastLogin   *time.Time
	LastLogout  *time.Time

	MissingBedwarsStats bool

	Experience float64
	Solo       GamemodeStatsPIT
	Doubles    GamemodeStatsPIT
	Threes     GamemodeStatsPIT
	Fours      GamemodeStatsPIT
	Overall    GamemodeStatsPIT
}

type GamemodeStatsPIT struct {
	// Winstreak is nil when the upstream source hides it, which is
	// different from a streak of 0
	Winstreak   *int
	GamesPlayed int
	Wins        int
	Losses      int
	BedsBroken  int
	BedsLost    int
	FinalKills  int
	FinalDeaths int
	Kills       int
	Deaths      int
}

func (p *PlayerPIT) GamemodeStats(gamemode Gamemode) *GamemodeStatsPIT {
	switch gamemode {
	case GamemodeSolo:
		return &p.Solo
	case GamemodeDoubles:
		return &p.Doubles
	case GamemodeThrees:
		return &p.Threes
	case GamemodeFours:
		return &p.Fours
	case GamemodeOverall:
		return &p.Overall
	}
	return &p.Overall
}
