package tournament

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/adampresley/anleague/pkg/models"
)

const (
	maxKeyMoments  = 6
	penaltyOdds    = 0.75
	regularMinutes = 90
	extraMinutes   = 120
)

type Simulator struct {
	rng        *rand.Rand
	highlights []string
}

/*
NewSimulator creates a simulator that tags every goal with one of the given
highlight references. With no highlights, scorers carry none.
*/
func NewSimulator(rng *rand.Rand, highlights []string) *Simulator {
	return &Simulator{
		rng:        rng,
		highlights: highlights,
	}
}

type Result struct {
	Score1     int
	Score2     int
	Scorers    []models.Scorer
	WinnerID   uint
	Penalties  [2]int
	Commentary string
}

/*
Simulate plays team1 against team2. Goals follow a Poisson draw weighted by
rating. A draw goes to extra time, then to penalties, so there is always a
winner.
*/
func (s *Simulator) Simulate(team1, team2 *models.Team) Result {
	result := Result{Scorers: []models.Scorer{}}

	r1, r2 := team1.Rating, team2.Rating
	if r1 <= 0 {
		r1 = 50
	}

	if r2 <= 0 {
		r2 = 50
	}

	mean1 := math.Max(0.2, r1/(r1+r2)*3)
	mean2 := math.Max(0.2, r2/(r1+r2)*3)

	result.Score1 = s.poisson(mean1)
	result.Score2 = s.poisson(mean2)

	result.Scorers = append(result.Scorers, s.scorers(team1, result.Score1, 1, regularMinutes)...)
	result.Scorers = append(result.Scorers, s.scorers(team2, result.Score2, 1, regularMinutes)...)

	penaltyNote := ""

	if result.Score1 == result.Score2 {
		et1 := s.poisson(0.5)
		et2 := s.poisson(0.5)

		result.Score1 += et1
		result.Score2 += et2
		result.Scorers = append(result.Scorers, s.scorers(team1, et1, regularMinutes+1, extraMinutes)...)
		result.Scorers = append(result.Scorers, s.scorers(team2, et2, regularMinutes+1, extraMinutes)...)

		if result.Score1 == result.Score2 {
			p1, p2 := s.penaltyShootout()
			result.Penalties = [2]int{p1, p2}
			penaltyNote = fmt.Sprintf("Penalties %d-%d.", p1, p2)

			if p1 > p2 {
				result.WinnerID = team1.ID
			} else {
				result.WinnerID = team2.ID
			}
		}
	}

	if result.WinnerID == 0 {
		if result.Score1 > result.Score2 {
			result.WinnerID = team1.ID
		} else {
			result.WinnerID = team2.ID
		}
	}

	sort.SliceStable(result.Scorers, func(i, j int) bool {
		return result.Scorers[i].Minute < result.Scorers[j].Minute
	})

	result.Commentary = Commentary(team1.Country, team2.Country, result.Score1, result.Score2, result.Scorers, penaltyNote)
	return result
}

// Apply copies a result onto the match it was simulated for.
func (r Result) Apply(match *models.Match) {
	match.Score1 = r.Score1
	match.Score2 = r.Score2
	match.Scorers = append([]models.Scorer(nil), r.Scorers...)
	match.WinnerID = r.WinnerID
	match.Commentary = r.Commentary
	match.Played = true

	for i := range match.Scorers {
		match.Scorers[i].MatchID = match.ID
	}
}

/*
Commentary writes the fallback match summary: the final score plus up to six
key moments in minute order.
*/
func Commentary(team1, team2 string, score1, score2 int, scorers []models.Scorer, penaltyNote string) string {
	parts := []string{
		fmt.Sprintf("Final score: %s %d - %d %s.", team1, score1, score2, team2),
	}

	if len(scorers) > 0 {
		key := append([]models.Scorer(nil), scorers...)
		sort.SliceStable(key, func(i, j int) bool { return key[i].Minute < key[j].Minute })

		if len(key) > maxKeyMoments {
			key = key[:maxKeyMoments]
		}

		moments := []string{}
		for _, sc := range key {
			moments = append(moments, fmt.Sprintf("%d' %s: %s", sc.Minute, sc.TeamCountry, sc.Player))
		}

		parts = append(parts, "Key moments: "+strings.Join(moments, "; ")+".")
	}

	if penaltyNote != "" {
		parts = append(parts, penaltyNote)
	}

	return strings.Join(parts, "\n")
}

func (s *Simulator) scorers(team *models.Team, goals, fromMinute, toMinute int) []models.Scorer {
	result := []models.Scorer{}

	for range goals {
		player := s.chooseScorer(team.Players)

		result = append(result, models.Scorer{
			TeamID:      team.ID,
			TeamCountry: team.Country,
			Player:      player,
			Minute:      fromMinute + s.rng.IntN(toMinute-fromMinute+1),
			Highlight:   s.highlight(),
		})
	}

	return result
}

func (s *Simulator) highlight() string {
	if len(s.highlights) == 0 {
		return ""
	}

	return pick(s.rng, s.highlights)
}

/*
chooseScorer favors attackers (5), then midfielders (3), defenders (1) and
goalkeepers (0.5).
*/
func (s *Simulator) chooseScorer(players []models.Player) string {
	if len(players) == 0 {
		return "Unknown"
	}

	weights := make([]float64, len(players))

	for i, p := range players {
		switch p.Natural {
		case models.Attacker:
			weights[i] = 5
		case models.Midfielder:
			weights[i] = 3
		case models.Defender:
			weights[i] = 1
		default:
			weights[i] = 0.5
		}
	}

	return players[weightedIndex(s.rng, weights)].Name
}

// poisson uses Knuth's multiplication method.
func (s *Simulator) poisson(lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0

	for p > l {
		k++
		p *= s.rng.Float64()
	}

	return max(0, k-1)
}

func (s *Simulator) penaltyShootout() (int, int) {
	s1, s2 := 0, 0

	kick := func() int {
		if s.rng.Float64() < penaltyOdds {
			return 1
		}

		return 0
	}

	for range 5 {
		s1 += kick()
		s2 += kick()
	}

	for s1 == s2 {
		s1 += kick()
		s2 += kick()
	}

	return s1, s2
}
