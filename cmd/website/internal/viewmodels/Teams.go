package viewmodels

import internalmodels "github.com/adampresley/anleague/cmd/website/internal/models"

type HomePage struct {
	BaseViewModel
	Teams        []internalmodels.TeamRow
	TeamsNeeded  int
	BracketDrawn bool
}

type TeamsPage struct {
	BaseViewModel
	Teams []internalmodels.TeamRow
}

type TeamPage struct {
	BaseViewModel
	Team    internalmodels.TeamRow
	RepName string
	Players []internalmodels.PlayerRow
	Matches []internalmodels.MatchSummary
}
