package matches

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/slices"
	internalmodels "github.com/adampresley/anleague/cmd/website/internal/models"
	"github.com/adampresley/anleague/cmd/website/internal/viewmodels"
	"github.com/adampresley/anleague/pkg/models"
	"github.com/adampresley/anleague/pkg/services"
	"github.com/adampresley/anleague/pkg/tournament"
	"golang.org/x/sync/errgroup"
)

var matchPageScripts = []rendering.JavascriptInclude{
	{Type: "text/javascript", Src: "/static/js/wasm_exec.js"},
	{Type: "module", Src: "/static/js/pages/match.js"},
}

type MatchesHandlers interface {
	BracketPage(w http.ResponseWriter, r *http.Request)
	MatchPage(w http.ResponseWriter, r *http.Request)
}

type MatchesControllerConfig struct {
	CrowdSoundURL       string
	GoalSoundURL        string
	HighlightService    services.HighlightServicer
	MatchService        services.MatchServicer
	Renderer            rendering.TemplateRenderer
	MaxHighlightWorkers int
}

type MatchesController struct {
	crowdSoundURL       string
	goalSoundURL        string
	highlightService    services.HighlightServicer
	matchService        services.MatchServicer
	renderer            rendering.TemplateRenderer
	maxHighlightWorkers int
}

func NewMatchesController(config MatchesControllerConfig) MatchesController {
	workers := config.MaxHighlightWorkers
	if workers <= 0 {
		workers = 4
	}

	return MatchesController{
		crowdSoundURL:       config.CrowdSoundURL,
		goalSoundURL:        config.GoalSoundURL,
		highlightService:    config.HighlightService,
		matchService:        config.MatchService,
		renderer:            config.Renderer,
		maxHighlightWorkers: workers,
	}
}

/*
GET /bracket
*/
func (c MatchesController) BracketPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.BracketPage{
		BaseViewModel: viewmodels.NewBaseViewModel(r),
	}

	c.renderBracket(w, viewData)
}

/*
GET /match/{id}
*/
func (c MatchesController) MatchPage(w http.ResponseWriter, r *http.Request) {
	var (
		err   error
		match *models.Match
	)

	pageName := "pages/match"
	matchID := httphelpers.GetFromRequest[uint](r, "id")

	if match, err = c.matchService.GetByID(matchID); err != nil {
		viewData := viewmodels.BracketPage{
			BaseViewModel: viewmodels.NewBaseViewModel(r),
		}

		viewData.IsError = true
		viewData.Message = "There was a problem getting this match."

		if errors.Is(err, models.ErrMatchNotFound) {
			viewData.Message = "Match not found."
		} else {
			slog.Error("error getting match", "matchID", matchID, "error", err)
		}

		c.renderBracket(w, viewData)
		return
	}

	viewData := BuildMatchPage(match, c.highlightService, c.maxHighlightWorkers)
	viewData.BaseViewModel = viewmodels.NewBaseViewModel(r)
	viewData.JavascriptIncludes = matchPageScripts
	viewData.GoalSoundURL = c.goalSoundURL
	viewData.CrowdSoundURL = c.crowdSoundURL

	c.renderer.Render(pageName, viewData, w)
}

func (c MatchesController) renderBracket(w http.ResponseWriter, viewData viewmodels.BracketPage) {
	pageName := "pages/bracket"

	matches, err := c.matchService.GetAll()

	if err != nil {
		slog.Error("error getting matches for bracket", "error", err)
		viewData.IsError = true
		viewData.Message = "There was a problem getting the bracket."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	stages := tournament.ByStage(matches)

	for _, stage := range []models.Stage{models.Quarterfinal, models.Semifinal, models.Final} {
		if len(stages[stage]) == 0 {
			continue
		}

		viewData.Stages = append(viewData.Stages, viewmodels.BracketStage{
			Name:    string(stage),
			Matches: slices.Map(stages[stage], func(input *models.Match, index int) internalmodels.MatchSummary { return Summarize(input) }),
		})
	}

	if champion, ok := tournament.Champion(matches); ok {
		viewData.Champion = champion.WinnerCountry()
	}

	c.renderer.Render(pageName, viewData, w)
}

/*
BuildMatchPage resolves every scorer's highlight into page URLs. Scorers
whose highlight cannot be resolved are listed without one.
*/
func BuildMatchPage(match *models.Match, highlightService services.HighlightServicer, workers int) viewmodels.MatchPage {
	result := viewmodels.MatchPage{
		Match:   Summarize(match),
		Scorers: make([]internalmodels.ScorerLine, len(match.Scorers)),
	}

	g := errgroup.Group{}
	g.SetLimit(max(1, workers))

	for i, scorer := range match.Scorers {
		result.Scorers[i] = internalmodels.ScorerLine{
			Minute: scorer.Minute,
			Player: scorer.Player,
			Team:   scorer.TeamCountry,
		}

		if scorer.Highlight == "" || highlightService == nil {
			continue
		}

		g.Go(func() error {
			highlight, err := highlightService.Resolve(scorer.Highlight)

			if err != nil {
				slog.Error("error resolving highlight", "matchID", match.ID, "ref", scorer.Highlight, "error", err)
				return nil
			}

			result.Scorers[i].Highlight = &internalmodels.Highlight{
				ThumbnailURL: highlight.ThumbnailURL,
				FullURL:      highlight.FullURL,
			}

			return nil
		})
	}

	_ = g.Wait()
	return result
}

func Summarize(match *models.Match) internalmodels.MatchSummary {
	return internalmodels.MatchSummary{
		ID:         match.ID,
		Stage:      string(match.Stage),
		Team1:      match.Team1Country,
		Team2:      match.Team2Country,
		Score1:     match.Score1,
		Score2:     match.Score2,
		Played:     match.Played,
		Winner:     match.WinnerCountry(),
		PlayedAt:   match.PlayedAt,
		Commentary: match.Commentary,
	}
}
