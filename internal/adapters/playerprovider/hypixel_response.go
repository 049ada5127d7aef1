package playerprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Amund211/prismarine/internal/domain"
	"github.com/Amund211/prismarine/internal/reporting"
)

type hypixelAPIResponse struct {
	Success bool              `json:"success"`
	Player  *hypixelAPIPlayer `json:"player"`
	Cause   *string           `json:"cause,omitempty"`
}

type hypixelAPIPlayer struct {
	UUID        *string          `json:"uuid,omitempty"`
	Displayname *string          `json:"displayname,omitempty"`
	LastLogin   *int64           `json:"lastLogin,omitempty"`
	LastLogout  *int64           `json:"lastLogout,omitempty"`
	Stats       *hypixelAPIStats `json:"stats,omitempty"`
}

type hypixelAPIStats struct {
	Bedwars *hypixelAPIBedwarsStats `json:"Bedwars,omitempty"`
}

type hypixelAPIBedwarsStats struct {
	Experience *float64 `json:"Experience,omitempty"`

	Winstreak   *int `json:"winstreak,omitempty"`
	GamesPlayed int  `json:"games_played_bedwars,omitempty"`
	Wins        int  `json:"wins_bedwars,omitempty"`
	Losses      int  `json:"losses_bedwars,omitempty"`
	BedsBroken  int  `json:"beds_broken_bedwars,omitempty"`
	BedsLost    int  `json:"beds_lost_bedwars,omitempty"`
	FinalKills  int  `json:"final_kills_bedwars,omitempty"`
	FinalDeaths int  `json:"final_deaths_bedwars,omitempty"`
	Kills       int  `json:"kills_bedwars,omitempty"`
	Deaths      int  `json:"deaths_bedwars,omitempty"`

	SoloWinstreak   *int `json:"eight_one_winstreak,omitempty"`
	SoloGamesPlayed int  `json:"eight_one_games_played_bedwars,omitempty"`
	SoloWins        int  `json:"eight_one_wins_bedwars,omitempty"`
	SoloLosses      int  `json:"eight_one_losses_bedwars,omitempty"`
	SoloBedsBroken  int  `json:"eight_one_beds_broken_bedwars,omitempty"`
	SoloBedsLost    int  `json:"eight_one_beds_lost_bedwars,omitempty"`
	SoloFinalKills  int  `json:"eight_one_final_kills_bedwars,omitempty"`
	SoloFinalDeaths int  `json:"eight_one_final_deaths_bedwars,omitempty"`
	SoloKills       int  `json:"eight_one_kills_bedwars,omitempty"`
	SoloDeaths      int  `json:"eight_one_deaths_bedwars,omitempty"`

	DoublesWinstreak   *int `json:"eight_two_winstreak,omitempty"`
	DoublesGamesPlayed int  `json:"eight_two_games_played_bedwars,omitempty"`
	DoublesWins        int  `json:"eight_two_wins_bedwars,omitempty"`
	DoublesLosses      int  `json:"eight_two_losses_bedwars,omitempty"`
	DoublesBedsBroken  int  `json:"eight_two_beds_broken_bedwars,omitempty"`
	DoublesBedsLost    int  `json:"eight_two_beds_lost_bedwars,omitempty"`
	DoublesFinalKills  int  `json:"eight_two_final_kills_bedwars,omitempty"`
	DoublesFinalDeaths int  `json:"eight_two_final_deaths_bedwars,omitempty"`
	DoublesKills       int  `json:"eight_two_kills_bedwars,omitempty"`
	DoublesDeaths      int  `json:"eight_two_deaths_bedwars,omitempty"`

	ThreesWinstreak   *int `json:"four_three_winstreak,omitempty"`
	ThreesGamesPlayed int  `json:"four_three_games_played_bedwars,omitempty"`
	ThreesWins        int  `json:"four_three_wins_bedwars,omitempty"`
	ThreesLosses      int  `json:"four_three_losses_bedwars,omitempty"`
	ThreesBedsBroken  int  `json:"four_three_beds_broken_bedwars,omitempty"`
	ThreesBedsLost    int  `json:"four_three_beds_lost_bedwars,omitempty"`
	ThreesFinalKills  int  `json:"four_three_final_kills_bedwars,omitempty"`
	ThreesFinalDeaths int  `json:"four_three_final_deaths_bedwars,omitempty"`
	ThreesKills       int  `json:"four_three_kills_bedwars,omitempty"`
	ThreesDeaths      int  `json:"four_three_deaths_bedwars,omitempty"`

	FoursWinstreak   *int `json:"four_four_winstreak,omitempty"`
	FoursGamesPlayed int  `json:"four_four_games_played_bedwars,omitempty"`
	FoursWins        int  `json:"four_four_wins_bedwars,omitempty"`
	FoursLosses      int  `json:"four_four_losses_bedwars,omitempty"`
	FoursBedsBroken  int  `json:"four_four_beds_broken_bedwars,omitempty"`
	FoursBedsLost    int  `json:"four_four_beds_lost_bedwars,omitempty"`
	FoursFinalKills  int  `json:"four_four_final_kills_bedwars,omitempty"`
	FoursFinalDeaths int  `json:"four_four_final_deaths_bedwars,omitempty"`
	FoursKills       int  `json:"four_four_kills_bedwars,omitempty"`
	FoursDeaths      int  `json:"four_four_deaths_bedwars,omitempty"`
}

func hypixelAPIResponseToPlayerPIT(ctx context.Context, uuid string, queriedAt time.Time, data []byte, statusCode int) (*domain.PlayerPIT, error) {
	var response hypixelAPIResponse
	err := json.Unmarshal(data, &response)
	if err != nil {
		err := fmt.Errorf("failed to parse hypixel api response: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"uuid":       uuid,
			"statusCode": strconv.Itoa(statusCode),
			"data":       string(data),
		})
		return nil, err
	}

	if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
		return nil, domain.ErrTemporarilyUnavailable
	}

	if !response.Success || statusCode != http.StatusOK {
		cause := "<missing>"
		if response.Cause != nil {
			cause = *response.Cause
		}
		err := fmt.Errorf("hypixel api request failed: %s", cause)
		reporting.Report(ctx, err, map[string]string{
			"uuid":       uuid,
			"statusCode": strconv.Itoa(statusCode),
		})
		return nil, err
	}

	if response.Player == nil {
		return nil, domain.ErrPlayerNotFound
	}

	player := &domain.PlayerPIT{
		QueriedAt: queriedAt,
		UUID:      uuid,

		Displayname: response.Player.Displayname,
		LastLogin:   millisToTime(response.Player.LastLogin),
		LastLogout:  millisToTime(response.Player.LastLogout),

		Experience: 500,
	}

	if response.Player.Stats == nil || response.Player.Stats.Bedwars == nil {
		player.MissingBedwarsStats = true
		return player, nil
	}

	bedwars := response.Player.Stats.Bedwars

	if bedwars.Experience != nil {
		player.Experience = *bedwars.Experience
	}

	player.Overall = domain.GamemodeStatsPIT{
		Winstreak:   bedwars.Winstreak,
		GamesPlayed: bedwars.GamesPlayed,
		Wins:        bedwars.Wins,
		Losses:      bedwars.Losses,
		BedsBroken:  bedwars.BedsBroken,
		BedsLost:    bedwars.BedsLost,
		FinalKills:  bedwars.FinalKills,
		FinalDeaths: bedwars.FinalDeaths,
		Kills:       bedwars.Kills,
		Deaths:      bedwars.Deaths,
	}
	player.Solo = domain.GamemodeStatsPIT{
		Winstreak:   bedwars.SoloWinstreak,
		GamesPlayed: bedwars.SoloGamesPlayed,
		Wins:        bedwars.SoloWins,
		Losses:      bedwars.SoloLosses,
		BedsBroken:  bedwars.SoloBedsBroken,
		BedsLost:    bedwars.SoloBedsLost,
		FinalKills:  bedwars.SoloFinalKills,
		FinalDeaths: bedwars.SoloFinalDeaths,
		Kills:       bedwars.SoloKills,
		Deaths:      bedwars.SoloDeaths,
	}
	player.Doubles = domain.GamemodeStatsPIT{
		Winstreak:   bedwars.DoublesWinstreak,
		GamesPlayed: bedwars.DoublesGamesPlayed,
		Wins:        bedwars.DoublesWins,
		Losses:      bedwars.DoublesLosses,
		BedsBroken:  bedwars.DoublesBedsBroken,
		BedsLost:    bedwars.DoublesBedsLost,
		FinalKills:  bedwars.DoublesFinalKills,
		FinalDeaths: bedwars.DoublesFinalDeaths,
		Kills:       bedwars.DoublesKills,
		Deaths:      bedwars.DoublesDeaths,
	}
	player.Threes = domain.GamemodeStatsPIT{
		Winstreak:   bedwars.ThreesWinstreak,
		GamesPlayed: bedwars.ThreesGamesPlayed,
		Wins:        bedwars.ThreesWins,
		Losses:      bedwars.ThreesLosses,
		BedsBroken:  bedwars.ThreesBedsBroken,
		BedsLost:    bedwars.ThreesBedsLost,
		FinalKills:  bedwars.ThreesFinalKills,
		FinalDeaths: bedwars.ThreesFinalDeaths,
		Kills:       bedwars.ThreesKills,
		Deaths:      bedwars.ThreesDeaths,
	}
	player.Fours = domain.GamemodeStatsPIT{
		Winstreak:   bedwars.FoursWinstreak,
		GamesPlayed: bedwars.FoursGamesPlayed,
		Wins:        bedwars.FoursWins,
		Losses:      bedwars.FoursLosses,
		BedsBroken:  bedwars.FoursBedsBroken,
		BedsLost:    bedwars.FoursBedsLost,
		FinalKills:  bedwars.FoursFinalKills,
		FinalDeaths: bedwars.FoursFinalDeaths,
		Kills:       bedwars.FoursKills,
		Deaths:      bedwars.FoursDeaths,
	}

	return player, nil
}

func millisToTime(millis *int64) *time.Time {
	if millis == nil {
		return nil
	}
	t := time.UnixMilli(*millis)
	return &t
}
