package ports

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Amund211/prismarine/internal/app"
	"github.com/Amund211/prismarine/internal/domain"
)

type statsPITResponse struct {
	Winstreak   *int `json:"winstreak"`
	GamesPlayed int  `json:"gamesPlayed"`
	Wins        int  `json:"wins"`
	Losses      int  `json:"losses"`
	BedsBroken  int  `json:"bedsBroken"`
	BedsLost    int  `json:"bedsLost"`
	FinalKills  int  `json:"finalKills"`
	FinalDeaths int  `json:"finalDeaths"`
	Kills       int  `json:"kills"`
	Deaths      int  `json:"deaths"`
}

type playerDataPITResponse struct {
	UUID       string           `json:"uuid"`
	QueriedAt  time.Time        `json:"queriedAt"`
	Experience float64          `json:"experience"`
	Solo       statsPITResponse `json:"solo"`
	Doubles    statsPITResponse `json:"doubles"`
	Threes     statsPITResponse `json:"threes"`
	Fours      statsPITResponse `json:"fours"`
	Overall    statsPITResponse `json:"overall"`
}

type sessionResponse struct {
	Start        playerDataPITResponse `json:"start"`
	End          playerDataPITResponse `json:"end"`
	Consecutive  bool                  `json:"consecutive"`
	Extrapolated bool                  `json:"extrapolated"`
}

type quotientProgressionResponse struct {
	DividendPerDay  float64 `json:"dividendPerDay"`
	DivisorPerDay   float64 `json:"divisorPerDay"`
	SessionQuotient float64 `json:"sessionQuotient"`
}

type statProgressionResponse struct {
	Gamemode           string                       `json:"gamemode"`
	Stat               string                       `json:"stat"`
	CurrentValue       float64                      `json:"currentValue"`
	NextMilestoneValue float64                      `json:"nextMilestoneValue"`
	TrendingUpward     bool                         `json:"trendingUpward"`
	DaysUntilMilestone *float64                     `json:"daysUntilMilestone"`
	ProgressPerDay     float64                      `json:"progressPerDay"`
	Quotient           *quotientProgressionResponse `json:"quotient,omitempty"`
}

type chartDataPointResponse struct {
	QueriedAt time.Time                `json:"queriedAt"`
	Values    map[domain.Stat]*float64 `json:"values"`
}

func gamemodeStatsPITToResponse(stats *domain.GamemodeStatsPIT) statsPITResponse {
	return statsPITResponse{
		Winstreak:   stats.Winstreak,
		GamesPlayed: stats.GamesPlayed,
		Wins:        stats.Wins,
		Losses:      stats.Losses,
		BedsBroken:  stats.BedsBroken,
		BedsLost:    stats.BedsLost,
		FinalKills:  stats.FinalKills,
		FinalDeaths: stats.FinalDeaths,
		Kills:       stats.Kills,
		Deaths:      stats.Deaths,
	}
}

func playerToPlayerDataPITResponse(player *domain.PlayerPIT) playerDataPITResponse {
	return playerDataPITResponse{
		UUID:       player.UUID,
		QueriedAt:  player.QueriedAt,
		Experience: player.Experience,
		Solo:       gamemodeStatsPITToResponse(&player.Solo),
		Doubles:    gamemodeStatsPITToResponse(&player.Doubles),
		Threes:     gamemodeStatsPITToResponse(&player.Threes),
		Fours:      gamemodeStatsPITToResponse(&player.Fours),
		Overall:    gamemodeStatsPITToResponse(&player.Overall),
	}
}

func historyToResponse(history []domain.PlayerPIT) []playerDataPITResponse {
	response := make([]playerDataPITResponse, 0, len(history))

	for _, player := range history {
		response = append(response, playerToPlayerDataPITResponse(&player))
	}

	return response
}

func HistoryToHistoryData(history []domain.PlayerPIT) ([]byte, error) {
	historyDataJSON, err := json.Marshal(historyToResponse(history))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history data: %w", err)
	}
	return historyDataJSON, nil
}

func sessionToResponse(session *domain.Session) sessionResponse {
	return sessionResponse{
		Start:        playerToPlayerDataPITResponse(&session.Start),
		End:          playerToPlayerDataPITResponse(&session.End),
		Consecutive:  session.Consecutive,
		Extrapolated: session.Extrapolated,
	}
}

func sessionsToResponse(sessions []domain.Session) []sessionResponse {
	response := make([]sessionResponse, 0, len(sessions))

	for _, session := range sessions {
		response = append(response, sessionToResponse(&session))
	}

	return response
}

func SessionsToSessionsData(sessions []domain.Session) ([]byte, error) {
	sessionsDataJSON, err := json.Marshal(sessionsToResponse(sessions))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sessions data: %w", err)
	}
	return sessionsDataJSON, nil
}

func statProgressionToResponse(progression domain.StatProgression) statProgressionResponse {
	response := statProgressionResponse{
		Gamemode:           string(progression.Gamemode),
		Stat:               string(progression.Stat),
		CurrentValue:       progression.CurrentValue,
		NextMilestoneValue: progression.NextMilestoneValue,
		TrendingUpward:     progression.TrendingUpward,
		ProgressPerDay:     progression.ProgressPerDay,
	}

	// +Inf is not representable in JSON
	if !math.IsInf(progression.DaysUntilMilestone, 0) {
		days := progression.DaysUntilMilestone
		response.DaysUntilMilestone = &days
	}

	if progression.Quotient != nil {
		response.Quotient = &quotientProgressionResponse{
			DividendPerDay:  progression.Quotient.DividendPerDay,
			DivisorPerDay:   progression.Quotient.DivisorPerDay,
			SessionQuotient: progression.Quotient.SessionQuotient,
		}
	}

	return response
}

func StatProgressionToProgressionData(progression domain.StatProgression) ([]byte, error) {
	progressionDataJSON, err := json.Marshal(statProgressionToResponse(progression))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progression data: %w", err)
	}
	return progressionDataJSON, nil
}

func chartDataToResponse(points []app.ChartDataPoint) []chartDataPointResponse {
	response := make([]chartDataPointResponse, 0, len(points))

	for _, point := range points {
		response = append(response, chartDataPointResponse{
			QueriedAt: point.QueriedAt,
			Values:    point.Values,
		})
	}

	return response
}

func ChartDataToChartData(points []app.ChartDataPoint) ([]byte, error) {
	chartDataJSON, err := json.Marshal(chartDataToResponse(points))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chart data: %w", err)
	}
	return chartDataJSON, nil
}
