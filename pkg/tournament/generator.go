/*
Package tournament holds the league rules: generating teams, drawing the
bracket and simulating matches. Randomness comes from an injected source so
results are reproducible in tests.
*/
package tournament

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/adampresley/anleague/pkg/models"
)

const SquadSize = 23

var AfricanCountries = []string{
	"Algeria", "Angola", "Benin", "Botswana", "Burkina Faso", "Burundi", "Cabo Verde", "Cameroon", "Central African Republic",
	"Chad", "Comoros", "Congo", "DR Congo", "Cote d'Ivoire", "Djibouti", "Egypt", "Equatorial Guinea", "Eritrea", "Eswatini",
	"Ethiopia", "Gabon", "Gambia", "Ghana", "Guinea", "Guinea-Bissau", "Kenya", "Lesotho", "Liberia", "Libya", "Madagascar",
	"Malawi", "Mali", "Mauritania", "Mauritius", "Morocco", "Mozambique", "Namibia", "Niger", "Nigeria", "Rwanda", "Sao Tome and Principe",
	"Senegal", "Seychelles", "Sierra Leone", "Somalia", "South Africa", "South Sudan", "Sudan", "Tanzania", "Togo", "Tunisia", "Uganda", "Zambia", "Zimbabwe",
}

var (
	firstNames = []string{"John", "Ali", "Mohamed", "David", "Samuel", "Joseph", "Michael", "Pierre", "Kwame", "Carlos", "Ahmed", "Youssef", "Kofi", "Suleiman", "Ibrahim"}
	lastNames  = []string{"Mensah", "Kone", "Diallo", "Okoye", "Moyo", "Kamau", "Ndlovu", "Nguyen", "Osei", "Smith", "Johnson", "Brown", "Doe"}

	// GK, DF, MD, AT
	positionWeights = []float64{0.05, 0.4, 0.35, 0.2}
)

type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

func (g *Generator) Name() string {
	return fmt.Sprintf("%s %s", pick(g.rng, firstNames), pick(g.rng, lastNames))
}

func (g *Generator) Position() models.Position {
	return models.Positions[weightedIndex(g.rng, positionWeights)]
}

/*
Player rates the natural position between 50 and 100 and every other
position between 0 and 50.
*/
func (g *Generator) Player(name string, natural models.Position) models.Player {
	p := models.Player{Name: name, Natural: natural}

	for _, pos := range models.Positions {
		if pos == natural {
			p.SetRating(pos, 50+g.rng.IntN(51))
		} else {
			p.SetRating(pos, g.rng.IntN(51))
		}
	}

	return p
}

// DemoTeam builds a full squad. An empty country picks one at random.
func (g *Generator) DemoTeam(country string) models.Team {
	if country == "" {
		country = pick(g.rng, AfricanCountries)
	}

	players := make([]models.Player, 0, SquadSize)

	for range SquadSize {
		players = append(players, g.Player(g.Name(), g.Position()))
	}

	players[0].IsCaptain = true

	return models.Team{
		Country:  country,
		RepName:  g.Name(),
		RepEmail: strings.ToLower(strings.ReplaceAll(g.Name(), " ", "")) + "@example.com",
		Manager:  g.Name(),
		Players:  players,
		Rating:   TeamRating(players),
	}
}

/*
Squad rates registered players the same way generated ones are rated,
keeping their names and natural positions. Only the player at captain is
marked captain; an index outside the squad leaves it without one.
*/
func (g *Generator) Squad(entries []models.Player, captain int) []models.Player {
	result := make([]models.Player, 0, len(entries))

	for i, entry := range entries {
		p := g.Player(entry.Name, entry.Natural)
		p.IsCaptain = i == captain
		result = append(result, p)
	}

	return result
}

// Autofill generates a full squad of unrated entries for Squad.
func (g *Generator) Autofill() []models.Player {
	result := make([]models.Player, 0, SquadSize)

	for range SquadSize {
		result = append(result, models.Player{Name: g.Name(), Natural: g.Position()})
	}

	return result
}

// TeamRating is the mean natural rating, rounded to two decimals.
func TeamRating(players []models.Player) float64 {
	total := 0

	for _, p := range players {
		total += p.NaturalRating()
	}

	mean := float64(total) / float64(max(1, len(players)))
	return math.Round(mean*100) / 100
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func weightedIndex(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	r := rng.Float64() * total
	upto := 0.0

	for i, w := range weights {
		if upto+w >= r {
			return i
		}

		upto += w
	}

	return 0
}
