package stats

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/anleague/cmd/website/internal/viewmodels"
	"github.com/adampresley/anleague/pkg/models"
	"github.com/adampresley/anleague/pkg/services"
)

const leaderboardSize = 20

type StatsHandlers interface {
	AnalyticsPage(w http.ResponseWriter, r *http.Request)
	HistoryPage(w http.ResponseWriter, r *http.Request)
	LeaderboardPage(w http.ResponseWriter, r *http.Request)
}

type StatsControllerConfig struct {
	MatchService      services.MatchServicer
	Renderer          rendering.TemplateRenderer
	TeamService       services.TeamServicer
	TournamentService services.TournamentServicer
}

type StatsController struct {
	matchService      services.MatchServicer
	renderer          rendering.TemplateRenderer
	teamService       services.TeamServicer
	tournamentService services.TournamentServicer
}

func NewStatsController(config StatsControllerConfig) StatsController {
	return StatsController{
		matchService:      config.MatchService,
		renderer:          config.Renderer,
		teamService:       config.TeamService,
		tournamentService: config.TournamentService,
	}
}

/*
GET /leaderboard
*/
func (c StatsController) LeaderboardPage(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	pageName := "pages/leaderboard"

	viewData := viewmodels.LeaderboardPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Scorers:       []models.TopScorer{},
	}

	if viewData.Scorers, err = c.matchService.GetTopScorers(leaderboardSize); err != nil {
		slog.Error("error getting top scorers", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting the leaderboard."
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /analytics
*/
func (c StatsController) AnalyticsPage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/analytics"

	viewData := viewmodels.AnalyticsPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Teams:         []viewmodels.TeamAnalytics{},
	}

	teams, err := c.teamService.GetAll(services.TeamsByCreated)

	if err != nil {
		slog.Error("error getting teams for analytics", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting team analytics."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	for _, team := range teams {
		stats, err := c.matchService.GetTeamStats(team.ID)

		if err != nil {
			slog.Error("error getting team stats", "teamID", team.ID, "error", err)
			viewData.IsWarning = true
			viewData.Message = "Some team statistics could not be loaded."
		}

		viewData.Teams = append(viewData.Teams, viewmodels.TeamAnalytics{
			Country: team.Country,
			Rating:  team.Rating,
			Stats:   stats,
		})
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
GET /history
*/
func (c StatsController) HistoryPage(w http.ResponseWriter, r *http.Request) {
	var (
		err error
	)

	pageName := "pages/history"

	viewData := viewmodels.HistoryPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Tournaments:   []*models.Tournament{},
	}

	if viewData.Tournaments, err = c.tournamentService.GetAll(); err != nil {
		slog.Error("error getting tournament history", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting the tournament history."
	}

	c.renderer.Render(pageName, viewData, w)
}
