package home

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/slices"
	"github.com/adampresley/anleague/cmd/website/internal/matches"
	internalmodels "github.com/adampresley/anleague/cmd/website/internal/models"
	"github.com/adampresley/anleague/cmd/website/internal/viewmodels"
	"github.com/adampresley/anleague/pkg/models"
	"github.com/adampresley/anleague/pkg/services"
	"github.com/adampresley/anleague/pkg/tournament"
)

type HomeHandlers interface {
	HomePage(w http.ResponseWriter, r *http.Request)
	TeamPage(w http.ResponseWriter, r *http.Request)
	TeamsPage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	MatchService services.MatchServicer
	Renderer     rendering.TemplateRenderer
	TeamService  services.TeamServicer
}

type HomeController struct {
	matchService services.MatchServicer
	renderer     rendering.TemplateRenderer
	teamService  services.TeamServicer
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		matchService: config.MatchService,
		renderer:     config.Renderer,
		teamService:  config.TeamService,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/home"

	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Teams:         []internalmodels.TeamRow{},
	}

	teams, err := c.teamService.GetAll(services.TeamsByCreated)

	if err != nil {
		slog.Error("error getting registered teams", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting the registered teams."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Teams = toTeamRows(teams)
	viewData.TeamsNeeded = max(0, tournament.BracketSize-len(teams))

	count, err := c.matchService.Count(false)

	if err != nil {
		slog.Error("error counting matches", "error", err)
	}

	viewData.BracketDrawn = count > 0
	c.renderer.Render(pageName, viewData, w)
}

/*
GET /teams
*/
func (c HomeController) TeamsPage(w http.ResponseWriter, r *http.Request) {
	pageName := "pages/teams"

	viewData := viewmodels.TeamsPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
		Teams:         []internalmodels.TeamRow{},
	}

	teams, err := c.teamService.GetAll(services.TeamsByRating)

	if err != nil {
		slog.Error("error getting teams by rating", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting the teams."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Teams = toTeamRows(teams)
	c.renderer.Render(pageName, viewData, w)
}

/*
GET /teams/{id}
*/
func (c HomeController) TeamPage(w http.ResponseWriter, r *http.Request) {
	var (
		err      error
		team     *models.Team
		allMatches []*models.Match
	)

	pageName := "pages/team"
	teamID := httphelpers.GetFromRequest[uint](r, "id")

	if team, err = c.teamService.GetByID(teamID); err != nil {
		viewData := viewmodels.TeamsPage{
			BaseViewModel: viewmodels.NewBaseViewModel(r),
			Teams:         []internalmodels.TeamRow{},
		}

		viewData.IsError = true
		viewData.Message = "There was a problem getting this team."

		if errors.Is(err, models.ErrTeamNotFound) {
			viewData.Message = "Team not found."
		} else {
			slog.Error("error getting team", "teamID", teamID, "error", err)
		}

		if teams, err := c.teamService.GetAll(services.TeamsByRating); err == nil {
			viewData.Teams = toTeamRows(teams)
		}

		c.renderer.Render("pages/teams", viewData, w)
		return
	}

	if allMatches, err = c.matchService.GetAll(); err != nil {
		slog.Error("error getting matches for team", "teamID", teamID, "error", err)
	}

	viewData := BuildTeamPage(team, allMatches)
	viewData.BaseViewModel = viewmodels.NewBaseViewModel(r)

	if err != nil {
		viewData.IsWarning = true
		viewData.Message = "The matches of this team could not be loaded."
	}

	c.renderer.Render(pageName, viewData, w)
}

// BuildTeamPage lists the squad and the matches the team plays in.
func BuildTeamPage(team *models.Team, all []*models.Match) viewmodels.TeamPage {
	return viewmodels.TeamPage{
		Team:    toTeamRows([]*models.Team{team})[0],
		RepName: team.RepName,
		Players: slices.Map(team.Players, func(input models.Player, index int) internalmodels.PlayerRow {
			return internalmodels.PlayerRow{
				Name:      input.Name,
				Position:  string(input.Natural),
				Rating:    input.NaturalRating(),
				IsCaptain: input.IsCaptain,
			}
		}),
		Matches: slices.Map(tournament.ForTeam(all, team.ID), func(input *models.Match, index int) internalmodels.MatchSummary {
			return matches.Summarize(input)
		}),
	}
}

func toTeamRows(teams []*models.Team) []internalmodels.TeamRow {
	return slices.Map(teams, func(input *models.Team, index int) internalmodels.TeamRow {
		return internalmodels.TeamRow{
			ID:      input.ID,
			Country: input.Country,
			Manager: input.Manager,
			Rating:  input.Rating,
		}
	})
}
