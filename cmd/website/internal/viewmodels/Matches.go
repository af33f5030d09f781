package viewmodels

import internalmodels "github.com/adampresley/anleague/cmd/website/internal/models"

type BracketPage struct {
	BaseViewModel
	Stages   []BracketStage
	Champion string
}

type BracketStage struct {
	Name    string
	Matches []internalmodels.MatchSummary
}

/*
MatchPage carries everything the match template needs, including the sound
URLs. An empty sound URL leaves its audio element out of the page.
*/
type MatchPage struct {
	BaseViewModel
	Match         internalmodels.MatchSummary
	Scorers       []internalmodels.ScorerLine
	GoalSoundURL  string
	CrowdSoundURL string
}
