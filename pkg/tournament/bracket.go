package tournament

import (
	"fmt"
	"math/rand/v2"

	"github.com/adampresley/anleague/pkg/models"
)

const BracketSize = 8

/*
MakeBracket shuffles the teams into the four quarterfinals. It needs exactly
BracketSize teams.
*/
func MakeBracket(rng *rand.Rand, teams []*models.Team) ([]*models.Match, error) {
	if len(teams) < BracketSize {
		return nil, fmt.Errorf("cannot draw bracket with %d teams: %w", len(teams), models.ErrNotEnoughTeams)
	}

	shuffled := append([]*models.Team(nil), teams[:BracketSize]...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	result := []*models.Match{}

	for i := 0; i < BracketSize; i += 2 {
		result = append(result, newMatch(models.Quarterfinal, shuffled[i].ID, shuffled[i].Country, shuffled[i+1].ID, shuffled[i+1].Country))
	}

	return result, nil
}

/*
NextRound pairs the winners of a fully played stage in match order. It
returns nil when the stage is not complete, or when it was the final.
*/
func NextRound(stage []*models.Match) []*models.Match {
	if len(stage) < 2 || len(stage)%2 != 0 {
		return nil
	}

	next := stage[0].Stage.Next()
	if next == "" {
		return nil
	}

	for _, m := range stage {
		if !m.Played || m.WinnerID == 0 {
			return nil
		}
	}

	result := []*models.Match{}

	for i := 0; i < len(stage); i += 2 {
		a, b := stage[i], stage[i+1]
		result = append(result, newMatch(next, a.WinnerID, a.WinnerCountry(), b.WinnerID, b.WinnerCountry()))
	}

	return result
}

/*
Champion returns the winner of the final, if it has been played.
*/
func Champion(matches []*models.Match) (*models.Match, bool) {
	for _, m := range matches {
		if m.Stage == models.Final && m.Played && m.WinnerID != 0 {
			return m, true
		}
	}

	return nil, false
}

// ForTeam keeps the matches a team plays in, preserving their order.
func ForTeam(matches []*models.Match, teamID uint) []*models.Match {
	result := []*models.Match{}

	for _, m := range matches {
		if m.Team1ID == teamID || m.Team2ID == teamID {
			result = append(result, m)
		}
	}

	return result
}

// ByStage groups matches preserving their order.
func ByStage(matches []*models.Match) map[models.Stage][]*models.Match {
	result := map[models.Stage][]*models.Match{}

	for _, m := range matches {
		result[m.Stage] = append(result[m.Stage], m)
	}

	return result
}

func newMatch(stage models.Stage, team1ID uint, team1Country string, team2ID uint, team2Country string) *models.Match {
	return &models.Match{
		Stage:        stage,
		Team1ID:      team1ID,
		Team2ID:      team2ID,
		Team1Country: team1Country,
		Team2Country: team2Country,
		Scorers:      []models.Scorer{},
	}
}
