package models

import "strings"

type Position string

const (
	Goalkeeper Position = "GK"
	Defender   Position = "DF"
	Midfielder Position = "MD"
	Attacker   Position = "AT"
)

var Positions = []Position{Goalkeeper, Defender, Midfielder, Attacker}

// ParsePosition accepts GK, DF, MD or AT in any case.
func ParsePosition(value string) (Position, bool) {
	candidate := Position(strings.ToUpper(strings.TrimSpace(value)))

	for _, pos := range Positions {
		if pos == candidate {
			return pos, true
		}
	}

	return "", false
}

type Player struct {
	ID        uint     `db:"id"`
	TeamID    uint     `db:"team_id"`
	Name      string   `db:"name"`
	Natural   Position `db:"natural"`
	RatingGK  int      `db:"rating_gk"`
	RatingDF  int      `db:"rating_df"`
	RatingMD  int      `db:"rating_md"`
	RatingAT  int      `db:"rating_at"`
	IsCaptain bool     `db:"is_captain"`
}

func (p Player) Rating(pos Position) int {
	switch pos {
	case Goalkeeper:
		return p.RatingGK
	case Defender:
		return p.RatingDF
	case Midfielder:
		return p.RatingMD
	case Attacker:
		return p.RatingAT
	}

	return 0
}

func (p *Player) SetRating(pos Position, rating int) {
	switch pos {
	case Goalkeeper:
		p.RatingGK = rating
	case Defender:
		p.RatingDF = rating
	case Midfielder:
		p.RatingMD = rating
	case Attacker:
		p.RatingAT = rating
	}
}

// NaturalRating falls back to the best rating when no natural position is set.
func (p Player) NaturalRating() int {
	if p.Natural != "" {
		return p.Rating(p.Natural)
	}

	best := 0

	for _, pos := range Positions {
		if r := p.Rating(pos); r > best {
			best = r
		}
	}

	return best
}
